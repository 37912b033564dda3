// Package localrepo serves a local checkout through the same listing and
// content interface as the remote client, so a working directory can be
// bundled without network access.
package localrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/hayeah/repobundle/ignore"
	"github.com/hayeah/repobundle/repotree"
)

// ErrNoEntries is returned when the walk finds nothing to list.
var ErrNoEntries = errors.New("local listing is empty")

// Client lists and reads files under a local root, honoring the worktree's
// gitignore patterns. Content refs carry the root-relative path.
type Client struct {
	RootPath string
	fs       billy.Filesystem
	ig       *ignore.Ignore
}

// NewClient constructs a Client over the given directory.
func NewClient(rootPath string) (*Client, error) {
	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, fmt.Errorf("local root %s: %w", rootPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("local root %s: not a directory", rootPath)
	}

	ig, err := ignore.NewIgnore(rootPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		RootPath: rootPath,
		fs:       osfs.New(rootPath),
		ig:       ig,
	}, nil
}

// ListEntries walks the checkout and returns a flat listing in the remote
// client's shape. Subpath restricts the walk to that subdirectory, with the
// prefix stripped from returned paths.
func (c *Client) ListEntries(ctx context.Context, subpath string) ([]repotree.Entry, error) {
	walkRoot := c.RootPath
	if subpath != "" {
		walkRoot = filepath.Join(c.RootPath, filepath.FromSlash(subpath))
	}

	var entries []repotree.Entry
	err := c.ig.WalkDir(walkRoot, func(path string, d os.DirEntry, isDir bool) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == walkRoot {
			return nil
		}

		rel, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return err
		}
		slashed := filepath.ToSlash(rel)

		kind := repotree.KindBlob
		if isDir {
			kind = repotree.KindTree
		}

		// The ref's address is the path relative to the client root, so
		// FetchContent works regardless of the subpath the listing used.
		fetchPath, err := filepath.Rel(c.RootPath, path)
		if err != nil {
			return err
		}
		entries = append(entries, repotree.Entry{
			Path: slashed,
			Kind: kind,
			Ref:  repotree.ContentRef{SHA: slashed, URL: filepath.ToSlash(fetchPath)},
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", walkRoot, err)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("walk %s: %w", walkRoot, ErrNoEntries)
	}
	return entries, nil
}

// FetchContent reads the blob addressed by the ref's root-relative path.
func (c *Client) FetchContent(ctx context.Context, ref repotree.ContentRef) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	if ref.URL == "" {
		return nil, "", fmt.Errorf("blob %s: empty path", ref.SHA)
	}

	data, err := util.ReadFile(c.fs, ref.URL)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", ref.URL, err)
	}
	return data, "", nil
}
