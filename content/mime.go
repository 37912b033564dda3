package content

import (
	"path"
	"strings"
)

// imageMimeTypes is the fixed extension allow-list routing blobs to binary
// handling. Everything outside it is treated as text.
var imageMimeTypes = map[string]string{
	".bmp":  "image/bmp",
	".gif":  "image/gif",
	".ico":  "image/x-icon",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".svg":  "image/svg+xml",
	".tiff": "image/tiff",
	".webp": "image/webp",
}

// IsImagePath reports whether the path has a known image extension.
func IsImagePath(p string) bool {
	_, ok := imageMimeTypes[strings.ToLower(path.Ext(p))]
	return ok
}

// MimeType returns the MIME type for an image path, preferring the
// extension table and falling back to the transport's content-type hint.
func MimeType(p, hint string) string {
	if mime, ok := imageMimeTypes[strings.ToLower(path.Ext(p))]; ok {
		return mime
	}
	if hint != "" {
		return hint
	}
	return "application/octet-stream"
}
