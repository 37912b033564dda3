package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayeah/repobundle/repotree"
)

func TestToggleBlob(t *testing.T) {
	assert := assert.New(t)
	root := buildTestTree()
	state := NewState()

	state.Toggle(root, "a/b.txt")
	assert.True(state.Selected("a/b.txt"))

	state.Toggle(root, "a/b.txt")
	assert.False(state.Selected("a/b.txt"))
	// Clearing removes the entry outright; absence means false.
	_, present := state["a/b.txt"]
	assert.False(present)
}

func TestToggleDirectory(t *testing.T) {
	assert := assert.New(t)
	root := buildTestTree()
	state := NewState()

	// Unchecked directory toggles to fully selected.
	state.Toggle(root, "a")
	assert.True(state.Selected("a/b.txt"))
	assert.True(state.Selected("a/c/d.txt"))
	assert.True(state.Selected("a/c/e.txt"))
	assert.False(state.Selected("f.txt"))

	// Checked directory toggles to fully cleared.
	state.Toggle(root, "a")
	assert.Empty(state.SelectedLeaves(root))
}

func TestToggleIndeterminateDirectorySelectsAll(t *testing.T) {
	assert := assert.New(t)
	root := buildTestTree()
	state := State{"a/b.txt": true}

	require.Equal(t, Indeterminate, ComputeStatusMap(root, state)["a"])

	// The tie-break favors completing the selection.
	state.Toggle(root, "a")
	assert.True(state.Selected("a/b.txt"))
	assert.True(state.Selected("a/c/d.txt"))
	assert.True(state.Selected("a/c/e.txt"))
}

func TestToggleDirectoryWithEmptySubdirectory(t *testing.T) {
	assert := assert.New(t)

	// An empty subdirectory pins "pkg" at indeterminate even when every
	// leaf under it is selected, so toggling must complete the selection
	// rather than clear it.
	root := repotree.BuildTree([]repotree.Entry{
		{Path: "pkg/a.txt", Kind: repotree.KindBlob},
		{Path: "pkg/empty", Kind: repotree.KindTree},
	})
	state := State{"pkg/a.txt": true}
	require.Equal(t, Indeterminate, ComputeStatusMap(root, state)["pkg"])

	state.Toggle(root, "pkg")
	assert.True(state.Selected("pkg/a.txt"))

	// A second toggle still cannot reach checked; it selects again.
	state.Toggle(root, "pkg")
	assert.True(state.Selected("pkg/a.txt"))
}

func TestToggleUnknownPath(t *testing.T) {
	root := buildTestTree()
	state := NewState()

	state.Toggle(root, "does/not/exist")
	assert.Empty(t, state)
}

func TestSelectAllSelectNone(t *testing.T) {
	assert := assert.New(t)
	root := buildTestTree()
	state := NewState()

	state.SelectAll(root)
	leaves := state.SelectedLeaves(root)
	assert.Len(leaves, 4)

	state.SelectNone(root)
	assert.Empty(state.SelectedLeaves(root))
	assert.Empty(state)
}

func TestSelectMatch(t *testing.T) {
	assert := assert.New(t)
	root := buildTestTree()
	state := NewState()

	matchers, err := ParseMatchers("/\\.txt$|a/")
	require.NoError(t, err)

	err = state.SelectMatch(root, matchers)
	require.NoError(t, err)

	assert.True(state.Selected("a/b.txt"))
	assert.True(state.Selected("a/c/d.txt"))
	assert.False(state.Selected("f.txt"))
}

func TestSelectedLeavesOrdered(t *testing.T) {
	root := buildTestTree()
	state := NewState()
	state.SelectAll(root)

	var paths []string
	for _, leaf := range state.SelectedLeaves(root) {
		paths = append(paths, leaf.Path)
	}
	assert.Equal(t, []string{"a/c/d.txt", "a/c/e.txt", "a/b.txt", "f.txt"}, paths)
}

func TestClone(t *testing.T) {
	state := State{"a": true}
	clone := state.Clone()
	clone["b"] = true

	assert.False(t, state.Selected("b"))
	assert.True(t, clone.Selected("a"))
}
