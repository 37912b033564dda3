// Package ignore encapsulates gitignore pattern matching, both for local
// worktrees and for pattern lines fetched from a remote repository.
package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Ignore wraps a gitignore matcher. The zero value matches nothing.
type Ignore struct {
	matcher  gitignore.Matcher
	rootPath string
}

// NewIgnore creates an Ignore for the given local root path, reading
// .gitignore files from the worktree.
func NewIgnore(rootPath string) (*Ignore, error) {
	fs := osfs.New(rootPath)
	patterns, err := gitignore.ReadPatterns(fs, []string{})
	if err != nil {
		return nil, fmt.Errorf("failed to read gitignore patterns: %w", err)
	}

	return &Ignore{
		matcher:  gitignore.NewMatcher(patterns),
		rootPath: rootPath,
	}, nil
}

// NewIgnoreFromContent creates an Ignore from the raw content of a
// .gitignore file, typically fetched from a remote repository's root.
// Blank lines and comments are skipped.
func NewIgnoreFromContent(content string) *Ignore {
	var patterns []gitignore.Pattern
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}

	return &Ignore{matcher: gitignore.NewMatcher(patterns)}
}

// Ignored reports whether the slash-separated repository path matches the
// ignore patterns. The .git directory is always ignored.
func (ig *Ignore) Ignored(path string, isDir bool) bool {
	if path == "" {
		return false
	}
	parts := strings.Split(path, "/")
	if parts[0] == ".git" {
		return true
	}
	if ig.matcher == nil {
		return false
	}
	return ig.matcher.Match(parts, isDir)
}

// IsIgnored checks if an absolute local path should be ignored according to
// gitignore rules. Only meaningful for an Ignore built with NewIgnore.
func (ig *Ignore) IsIgnored(path string, isDir bool) (bool, error) {
	// Skip .git directory
	if isDir && filepath.Base(path) == ".git" {
		return true, nil
	}

	relPath, err := filepath.Rel(ig.rootPath, path)
	if err != nil {
		return false, err
	}

	// Skip the root directory
	if relPath == "." {
		return false, nil
	}

	parts := strings.Split(relPath, string(os.PathSeparator))
	if parts[0] == ".git" {
		return true, nil
	}
	return ig.matcher.Match(parts, isDir), nil
}

// WalkDir walks the file tree rooted at root, calling fn for each file or
// directory in the tree, including root, while respecting gitignore patterns.
func (ig *Ignore) WalkDir(root string, fn func(path string, d os.DirEntry, isDir bool) error) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		isDir := d.IsDir()

		ignored, err := ig.IsIgnored(path, isDir)
		if err != nil {
			return err
		}

		if ignored {
			if isDir {
				return filepath.SkipDir
			}
			return nil
		}

		return fn(path, d, isDir)
	})
}
