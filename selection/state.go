package selection

import (
	"github.com/hayeah/repobundle/repotree"
)

// State is the explicit selection: blob path -> selected. Absence means
// unselected, so only true entries need to be stored. A single logical
// caller mutates it; no locking.
type State map[string]bool

// NewState returns an empty selection.
func NewState() State {
	return make(State)
}

// Selected reports whether the blob at path is selected.
func (s State) Selected(path string) bool {
	return s[path]
}

// Clone returns an independent copy of the selection.
func (s State) Clone() State {
	clone := make(State, len(s))
	for path, selected := range s {
		clone[path] = selected
	}
	return clone
}

// Toggle flips the selection at path. A blob path flips its own boolean. A
// directory path toggles its whole subtree: a fully checked directory
// clears every descendant leaf; an unchecked or indeterminate directory
// selects every descendant leaf, so a partially selected directory
// completes rather than clears. Unknown paths are a no-op. The caller is
// responsible for recomputing the status map afterwards.
func (s State) Toggle(root *repotree.Node, path string) {
	node := repotree.Find(root, path)
	if node == nil {
		return
	}

	if !node.IsDir() {
		if s[node.Path] {
			delete(s, node.Path)
		} else {
			s[node.Path] = true
		}
		return
	}

	// Decide from the aggregate status: only a fully checked directory
	// clears. A directory held at indeterminate by an empty subdirectory
	// still completes to fully selected even when every leaf is checked.
	checked := ComputeStatusMap(root, s)[node.Path] == Checked
	s.setSubtree(node, !checked)
}

// SelectAll selects every blob under root.
func (s State) SelectAll(root *repotree.Node) {
	s.setSubtree(root, true)
}

// SelectNone clears every blob under root.
func (s State) SelectNone(root *repotree.Node) {
	s.setSubtree(root, false)
}

// SelectMatch selects every blob path under root matched by any of the
// matchers, leaving the rest of the selection as-is.
func (s State) SelectMatch(root *repotree.Node, matchers []Matcher) error {
	leaves := repotree.Leaves(root)
	paths := make([]string, 0, len(leaves))
	for _, leaf := range leaves {
		paths = append(paths, leaf.Path)
	}

	for _, matcher := range matchers {
		matched, err := matcher.Match(paths)
		if err != nil {
			return err
		}
		for _, path := range matched {
			s[path] = true
		}
	}
	return nil
}

// SelectedLeaves returns the selected blob nodes under root in rendered
// order.
func (s State) SelectedLeaves(root *repotree.Node) []*repotree.Node {
	var leaves []*repotree.Node
	for _, leaf := range repotree.Leaves(root) {
		if s[leaf.Path] {
			leaves = append(leaves, leaf)
		}
	}
	return leaves
}

// setSubtree assigns selected to every descendant leaf of node. Clearing
// deletes entries, keeping absence equivalent to false.
func (s State) setSubtree(node *repotree.Node, selected bool) {
	for _, leaf := range repotree.Leaves(node) {
		if selected {
			s[leaf.Path] = true
		} else {
			delete(s, leaf.Path)
		}
	}
	if !node.IsDir() {
		if selected {
			s[node.Path] = true
		} else {
			delete(s, node.Path)
		}
	}
}
