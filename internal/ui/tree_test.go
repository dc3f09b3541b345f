package ui

import (
	"strings"
	"testing"
)

func TestRenderTree(t *testing.T) {
	out := RenderTree("post", []TreeNode{
		{Label: "title = 'x'"},
		{Label: "age > 1", Children: []TreeNode{{Label: "OR age < 0"}}},
	})

	for _, want := range []string{"post", "title = 'x'", "age > 1", "OR age < 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(NewDisplayContextWithWidth(80), []string{"FIELD", "KIND"}, [][]string{
		{"id", "field"},
		{"user", "belongs_to"},
	})
	for _, want := range []string{"FIELD", "KIND", "user", "belongs_to"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}
}
