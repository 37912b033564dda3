// Package selection owns the explicit boolean selection over a repository
// tree's blob nodes and derives a tri-state status for every node.
package selection

import (
	"github.com/hayeah/repobundle/repotree"
)

// Status is the derived tri-state of a node. It is never stored; it is
// always recomputed from (tree, State).
type Status int

const (
	Unchecked Status = iota
	Checked
	Indeterminate
)

func (s Status) String() string {
	switch s {
	case Checked:
		return "checked"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unchecked"
	}
}

// ComputeStatusMap derives the status of every node under root (root
// included, keyed by its empty path) in a single children-before-parent
// pass. It never re-derives a child's status, so a full recompute is linear
// in node count. The traversal uses an explicit stack rather than
// recursion, so pathological nesting depth is safe.
func ComputeStatusMap(root *repotree.Node, state State) map[string]Status {
	// Pre-order collection; iterating it backwards yields every child
	// before its parent.
	order := []*repotree.Node{root}
	stack := []*repotree.Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range node.SortedChildren() {
			order = append(order, child)
			stack = append(stack, child)
		}
	}

	statuses := make(map[string]Status, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		node := order[i]

		if !node.IsDir() {
			if state[node.Path] {
				statuses[node.Path] = Checked
			} else {
				statuses[node.Path] = Unchecked
			}
			continue
		}

		// Empty directories are always unchecked.
		if len(node.Children) == 0 {
			statuses[node.Path] = Unchecked
			continue
		}

		allChecked := true
		allUnchecked := true
		for _, child := range node.Children {
			switch statuses[child.Path] {
			case Checked:
				allUnchecked = false
			case Unchecked:
				allChecked = false
			default:
				allChecked = false
				allUnchecked = false
			}
		}

		switch {
		case allChecked:
			statuses[node.Path] = Checked
		case allUnchecked:
			statuses[node.Path] = Unchecked
		default:
			statuses[node.Path] = Indeterminate
		}
	}

	return statuses
}
