package selection

import (
	"path"
	"strings"

	"github.com/hayeah/repobundle/repotree"
)

// textExtensions is the allow-list driving the initial selection: blobs
// with these extensions start out selected.
var textExtensions = map[string]bool{
	".bash":       true,
	".c":          true,
	".cfg":        true,
	".conf":       true,
	".cpp":        true,
	".cs":         true,
	".css":        true,
	".go":         true,
	".h":          true,
	".hpp":        true,
	".html":       true,
	".ini":        true,
	".java":       true,
	".js":         true,
	".json":       true,
	".jsx":        true,
	".kt":         true,
	".md":         true,
	".php":        true,
	".proto":      true,
	".py":         true,
	".rb":         true,
	".rs":         true,
	".sh":         true,
	".sql":        true,
	".swift":      true,
	".toml":       true,
	".ts":         true,
	".tsx":        true,
	".txt":        true,
	".xml":        true,
	".yaml":       true,
	".yml":        true,
	".zig":        true,
	".gitignore":  true,
	".dockerfile": true,
}

// wellKnownFiles are extensionless files that still count as text.
var wellKnownFiles = map[string]bool{
	"dockerfile": true,
	"makefile":   true,
	"license":    true,
	"readme":     true,
}

// lockFiles are dependency lock files, excluded from the initial selection;
// they are large, generated, and rarely what a bundle reader wants.
var lockFiles = map[string]bool{
	"package-lock.json":   true,
	"npm-shrinkwrap.json": true,
	"yarn.lock":           true,
	"pnpm-lock.yaml":      true,
	"bun.lockb":           true,
	"go.sum":              true,
	"pipfile.lock":        true,
	"poetry.lock":         true,
	"pdm.lock":            true,
	"requirements.lock":   true,
	"gemfile.lock":        true,
	"cargo.lock":          true,
	"composer.lock":       true,
	"packages.lock.json":  true,
	"package.resolved":    true,
	"pubspec.lock":        true,
}

// IsLockFile reports whether the path names a dependency lock file.
func IsLockFile(p string) bool {
	return lockFiles[strings.ToLower(path.Base(p))]
}

// IsTextPath reports whether the path looks like a text file by its
// extension (or well-known name). This drives the initial selection only;
// content-level binary detection is the fetch layer's concern.
func IsTextPath(p string) bool {
	base := strings.ToLower(path.Base(p))
	if wellKnownFiles[base] {
		return true
	}
	ext := strings.ToLower(path.Ext(base))
	if ext == "" {
		return false
	}
	return textExtensions[ext]
}

// Ignorer filters paths from the default selection, typically backed by the
// repository's gitignore patterns.
type Ignorer interface {
	Ignored(path string, isDir bool) bool
}

// DefaultState builds the initial selection for a freshly built tree: every
// text-looking blob is selected, except lock files and ignored paths. The
// ignorer may be nil.
func DefaultState(root *repotree.Node, ignorer Ignorer) State {
	state := NewState()
	for _, leaf := range repotree.Leaves(root) {
		if !IsTextPath(leaf.Path) || IsLockFile(leaf.Path) {
			continue
		}
		if ignorer != nil && ignorer.Ignored(leaf.Path, false) {
			continue
		}
		state[leaf.Path] = true
	}
	return state
}
