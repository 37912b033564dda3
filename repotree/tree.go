// Package repotree materializes a flat repository listing into a rooted
// tree of nodes and renders it as a textual index.
package repotree

import (
	"sort"
	"strings"
)

// Kind distinguishes directory entries from file entries.
type Kind string

const (
	// KindTree is a directory node.
	KindTree Kind = "tree"
	// KindBlob is a file node.
	KindBlob Kind = "blob"
)

// ContentRef locates a blob's content on the remote side. SHA identifies
// the content and URL is the fetch address. Both are opaque to this package.
type ContentRef struct {
	SHA string
	URL string
}

// Entry is one record of a flat recursive listing, as returned by a
// repository client.
type Entry struct {
	Path string
	Kind Kind
	Ref  ContentRef
}

// Node is one path segment of the materialized tree. Interior nodes are
// always KindTree; only KindBlob nodes carry a ContentRef. The root node
// has an empty Path.
type Node struct {
	Name     string
	Path     string
	Kind     Kind
	Ref      ContentRef
	Children map[string]*Node
}

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool {
	return n.Kind == KindTree
}

// NewRoot returns an empty tree root.
func NewRoot() *Node {
	return &Node{
		Kind:     KindTree,
		Children: make(map[string]*Node),
	}
}

// BuildTree converts a flat sequence of entries into a rooted tree. Every
// intermediate path segment materializes an interior KindTree node even if
// the listing never mentions it; the terminal segment of each entry receives
// the entry's kind and content ref. Paths are trusted verbatim: a malformed
// entry simply becomes a node with that name. Empty paths are skipped, so
// degenerate input yields a root with no children.
func BuildTree(entries []Entry) *Node {
	root := NewRoot()

	for _, entry := range entries {
		if entry.Path == "" {
			continue
		}

		segments := strings.Split(entry.Path, "/")
		node := root
		for i, segment := range segments {
			child, ok := node.Children[segment]
			if !ok {
				child = &Node{
					Name:     segment,
					Path:     strings.Join(segments[:i+1], "/"),
					Kind:     KindTree,
					Children: make(map[string]*Node),
				}
				node.Children[segment] = child
			}
			node = child
		}

		// The terminal node takes the entry's classification as-is.
		node.Kind = entry.Kind
		node.Ref = entry.Ref
	}

	return root
}

// SortedChildren returns the node's children ordered directories-first,
// then lexicographically by name within each kind.
func (n *Node) SortedChildren() []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, child := range n.Children {
		children = append(children, child)
	}
	sort.Slice(children, func(i, j int) bool {
		a, b := children[i], children[j]
		if a.IsDir() != b.IsDir() {
			return a.IsDir()
		}
		return a.Name < b.Name
	})
	return children
}

// Walk visits every node below root in rendered order (directories first,
// lexicographic) using an explicit stack, so arbitrarily deep listings do
// not grow the call stack. The root itself is not visited. Returning false
// from fn stops the walk.
func Walk(root *Node, fn func(*Node) bool) {
	stack := root.SortedChildren()
	// Reverse so the stack pops in sorted order.
	reverse(stack)

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(node) {
			return
		}

		children := node.SortedChildren()
		reverse(children)
		stack = append(stack, children...)
	}
}

// Leaves returns every blob node below root in rendered order.
func Leaves(root *Node) []*Node {
	var leaves []*Node
	Walk(root, func(n *Node) bool {
		if !n.IsDir() {
			leaves = append(leaves, n)
		}
		return true
	})
	return leaves
}

// Find walks from root along the path's segments and returns the node at
// that path, or nil if any segment is missing. An empty path returns root.
func Find(root *Node, path string) *Node {
	if path == "" {
		return root
	}
	node := root
	for _, segment := range strings.Split(path, "/") {
		child, ok := node.Children[segment]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}

func reverse(nodes []*Node) {
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
}
