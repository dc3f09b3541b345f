// Package docs indexes the bundled markdown reference.
package docs

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/aidanlsb/sift/internal/slugs"
)

// Heading is one markdown heading.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Slug  string `json:"slug"`
	Line  int    `json:"line"` // 1-indexed
}

// Topic is one markdown file.
type Topic struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Path     string    `json:"path"`
	Headings []Heading `json:"headings,omitempty"`
}

// Topics lists the markdown files at the root of fsys, sorted by id. The
// title is the first level-one heading, or the id when there is none.
func Topics(fsys fs.FS) ([]Topic, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list docs: %w", err)
	}

	var topics []Topic
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".md" {
			continue
		}
		content, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}

		t := Topic{ID: slugs.TopicSlug(e.Name()), Path: e.Name(), Headings: ExtractHeadings(string(content))}
		t.Title = t.ID
		for _, h := range t.Headings {
			if h.Level == 1 {
				t.Title = h.Text
				break
			}
		}
		topics = append(topics, t)
	}

	sort.Slice(topics, func(i, j int) bool { return topics[i].ID < topics[j].ID })
	return topics, nil
}

// Find returns the topic whose id or title slug matches ref.
func Find(topics []Topic, ref string) (Topic, bool) {
	want := slugs.TopicSlug(ref)
	for _, t := range topics {
		if t.ID == want || slugs.TopicSlug(t.Title) == want {
			return t, true
		}
	}
	return Topic{}, false
}

// Section returns the markdown from the heading with the given slug up to
// the next heading of the same or higher level.
func Section(content string, t Topic, slug string) (string, bool) {
	lines := strings.Split(content, "\n")
	for i, h := range t.Headings {
		if h.Slug != slug {
			continue
		}
		end := len(lines)
		for _, next := range t.Headings[i+1:] {
			if next.Level <= h.Level {
				end = next.Line - 1
				break
			}
		}
		return strings.TrimSpace(strings.Join(lines[h.Line-1:end], "\n")) + "\n", true
	}
	return "", false
}

// ExtractHeadings extracts headings from markdown content using goldmark.
func ExtractHeadings(content string) []Heading {
	var headings []Heading

	source := []byte(content)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))
	lineStarts := computeLineStarts(content)

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		var b strings.Builder
		for child := heading.FirstChild(); child != nil; child = child.NextSibling() {
			switch c := child.(type) {
			case *ast.Text:
				b.Write(c.Segment.Value(source))
			case *ast.CodeSpan:
				for gc := c.FirstChild(); gc != nil; gc = gc.NextSibling() {
					if t, ok := gc.(*ast.Text); ok {
						b.Write(t.Segment.Value(source))
					}
				}
			}
		}
		headingText := strings.TrimSpace(b.String())
		if headingText == "" {
			return ast.WalkSkipChildren, nil
		}

		line := 1
		if heading.Lines().Len() > 0 {
			line = offsetToLine(lineStarts, heading.Lines().At(0).Start) + 1
		}
		headings = append(headings, Heading{
			Level: heading.Level,
			Text:  headingText,
			Slug:  slugs.HeadingSlug(headingText),
			Line:  line,
		})
		return ast.WalkSkipChildren, nil
	})

	return headings
}

// computeLineStarts computes the byte offset of each line start.
func computeLineStarts(content string) []int {
	starts := []int{0}
	for i, c := range content {
		if c == '\n' && i+1 < len(content) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// offsetToLine converts a byte offset to a 0-indexed line number.
func offsetToLine(lineStarts []int, offset int) int {
	i := sort.Search(len(lineStarts), func(i int) bool { return lineStarts[i] > offset })
	if i == 0 {
		return 0
	}
	return i - 1
}
