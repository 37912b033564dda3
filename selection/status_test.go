package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayeah/repobundle/repotree"
)

func buildTestTree() *repotree.Node {
	return repotree.BuildTree([]repotree.Entry{
		{Path: "a/b.txt", Kind: repotree.KindBlob},
		{Path: "a/c/d.txt", Kind: repotree.KindBlob},
		{Path: "a/c/e.txt", Kind: repotree.KindBlob},
		{Path: "f.txt", Kind: repotree.KindBlob},
		{Path: "empty", Kind: repotree.KindTree},
	})
}

func TestComputeStatusMapLeaves(t *testing.T) {
	assert := assert.New(t)

	root := buildTestTree()
	state := State{"a/b.txt": true}

	statuses := ComputeStatusMap(root, state)

	assert.Equal(Checked, statuses["a/b.txt"])
	assert.Equal(Unchecked, statuses["a/c/d.txt"])
	assert.Equal(Unchecked, statuses["f.txt"])
}

func TestComputeStatusMapAggregates(t *testing.T) {
	assert := assert.New(t)
	root := buildTestTree()

	// Mixed selection under "a": indeterminate there and at the root.
	state := State{"a/b.txt": true}
	statuses := ComputeStatusMap(root, state)
	assert.Equal(Indeterminate, statuses["a"])
	assert.Equal(Unchecked, statuses["a/c"])
	assert.Equal(Indeterminate, statuses[""])

	// All leaves under "a/c" selected: checked subtree, indeterminate "a".
	state = State{"a/c/d.txt": true, "a/c/e.txt": true}
	statuses = ComputeStatusMap(root, state)
	assert.Equal(Checked, statuses["a/c"])
	assert.Equal(Indeterminate, statuses["a"])

	// Everything selected: checked all the way up, except the empty dir.
	state = NewState()
	state.SelectAll(root)
	statuses = ComputeStatusMap(root, state)
	assert.Equal(Checked, statuses["a"])
	assert.Equal(Checked, statuses["a/c"])
	assert.Equal(Unchecked, statuses["empty"])
	// The root holds an always-unchecked empty directory, so it can never
	// be fully checked.
	assert.Equal(Indeterminate, statuses[""])

	// Nothing selected: unchecked everywhere.
	statuses = ComputeStatusMap(root, NewState())
	for path, status := range statuses {
		assert.Equal(Unchecked, status, path)
	}
}

func TestComputeStatusMapEmptyDirectory(t *testing.T) {
	root := buildTestTree()
	statuses := ComputeStatusMap(root, State{"a/b.txt": true})
	assert.Equal(t, Unchecked, statuses["empty"])
}

func TestComputeStatusMapIdempotent(t *testing.T) {
	root := buildTestTree()
	state := State{"a/b.txt": true, "a/c/d.txt": true}

	first := ComputeStatusMap(root, state)
	second := ComputeStatusMap(root, state)
	assert.Equal(t, first, second)
}

func TestComputeStatusMapDeepNesting(t *testing.T) {
	// A pathologically deep path must not blow the stack.
	path := "d0"
	for i := 1; i < 5000; i++ {
		path += "/d"
	}
	path += "/leaf.txt"

	root := repotree.BuildTree([]repotree.Entry{
		{Path: path, Kind: repotree.KindBlob},
	})

	statuses := ComputeStatusMap(root, State{path: true})
	require.NotEmpty(t, statuses)
	assert.Equal(t, Checked, statuses[""])
	assert.Equal(t, Checked, statuses["d0"])
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "checked", Checked.String())
	assert.Equal(t, "unchecked", Unchecked.String())
	assert.Equal(t, "indeterminate", Indeterminate.String())
}
