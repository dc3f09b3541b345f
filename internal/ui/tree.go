package ui

import "github.com/charmbracelet/lipgloss/tree"

// TreeNode is one labelled node of a rendered tree.
type TreeNode struct {
	Label    string
	Children []TreeNode
}

// RenderTree draws nodes under a bold root with rounded connectors.
func RenderTree(root string, nodes []TreeNode) string {
	t := tree.Root(Bold.Render(root)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(Muted.PaddingRight(1))
	for _, n := range nodes {
		t.Child(subtree(n))
	}
	return t.String()
}

func subtree(n TreeNode) any {
	if len(n.Children) == 0 {
		return n.Label
	}
	t := tree.Root(n.Label).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(Muted.PaddingRight(1))
	for _, c := range n.Children {
		t.Child(subtree(c))
	}
	return t
}
