package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIgnoreFromContent(t *testing.T) {
	assert := assert.New(t)

	ig := NewIgnoreFromContent(`
# build output
dist/
*.log

node_modules/
`)

	assert.True(ig.Ignored("dist", true))
	assert.True(ig.Ignored("dist/bundle.js", false))
	assert.True(ig.Ignored("debug.log", false))
	assert.True(ig.Ignored("a/b/debug.log", false))
	assert.True(ig.Ignored("node_modules/pkg/index.js", false))

	assert.False(ig.Ignored("src/main.go", false))
	assert.False(ig.Ignored("", false))
}

func TestIgnoredAlwaysSkipsGitDir(t *testing.T) {
	ig := NewIgnoreFromContent("")
	assert.True(t, ig.Ignored(".git/config", false))
	assert.True(t, ig.Ignored(".git", true))
}

func TestZeroValueMatchesNothing(t *testing.T) {
	var ig Ignore
	assert.False(t, ig.Ignored("anything.txt", false))
}

func TestWalkDir(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	require.NoError(os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("skipped.txt\n"), 0o644))
	require.NoError(os.WriteFile(filepath.Join(dir, "kept.txt"), []byte("x"), 0o644))
	require.NoError(os.WriteFile(filepath.Join(dir, "skipped.txt"), []byte("x"), 0o644))
	require.NoError(os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(os.WriteFile(filepath.Join(dir, "sub", "nested.txt"), []byte("x"), 0o644))

	ig, err := NewIgnore(dir)
	require.NoError(err)

	seen := map[string]bool{}
	err = ig.WalkDir(dir, func(path string, d os.DirEntry, isDir bool) error {
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		seen[rel] = true
		return nil
	})
	require.NoError(err)

	assert.True(t, seen["kept.txt"])
	assert.True(t, seen[filepath.Join("sub", "nested.txt")])
	assert.False(t, seen["skipped.txt"])
}
