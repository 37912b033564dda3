package repotree

import (
	"fmt"
	"io"
	"strings"
)

// frame is one pending node on the render stack, together with the
// indentation accumulated from its ancestors.
type frame struct {
	node   *Node
	prefix string
	isLast bool
}

// Render writes the tree as a connector-annotated index and returns it as a
// string. At every level directories sort before files, and entries of the
// same kind sort lexicographically by name. The root itself is never
// rendered; directories get a trailing slash. The output carries no
// selection information.
func Render(root *Node) string {
	var buf strings.Builder
	// strings.Builder never fails to write.
	_ = RenderTo(&buf, root)
	return buf.String()
}

// RenderTo writes the rendered tree to w.
func RenderTo(w io.Writer, root *Node) error {
	stack := pushChildren(nil, root, "")

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		connector := "├── "
		if f.isLast {
			connector = "└── "
		}

		displayName := f.node.Name
		if f.node.IsDir() {
			displayName += "/"
		}

		if _, err := fmt.Fprintln(w, f.prefix+connector+displayName); err != nil {
			return err
		}

		childPrefix := f.prefix
		if f.isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
		stack = pushChildren(stack, f.node, childPrefix)
	}

	return nil
}

// pushChildren pushes node's children onto the stack in reverse sorted
// order, so popping yields them directories-first, lexicographic.
func pushChildren(stack []frame, node *Node, prefix string) []frame {
	children := node.SortedChildren()
	for i := len(children) - 1; i >= 0; i-- {
		stack = append(stack, frame{
			node:   children[i],
			prefix: prefix,
			isLast: i == len(children)-1,
		})
	}
	return stack
}
