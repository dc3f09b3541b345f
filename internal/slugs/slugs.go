// Package slugs turns doc titles and headings into stable lookup ids.
//
// Two strategies exist:
//   - Heading slugs: section anchors inside a doc, a conservative transformation
//     that keeps non-ASCII letters.
//   - Topic slugs: doc topic ids derived from file names and titles, built on
//     gosimple/slug so "Filter Language.md" and "filter-language" agree.
package slugs

import (
	"strings"
	"unicode"

	goslug "github.com/gosimple/slug"
)

// HeadingSlug converts a heading text to a URL-friendly slug.
func HeadingSlug(text string) string {
	var result strings.Builder
	prevDash := false

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			result.WriteRune(r)
			prevDash = false
		case r == ' ' || r == '-' || r == '_' || r == ':':
			if !prevDash && result.Len() > 0 {
				result.WriteRune('-')
				prevDash = true
			}
		}
	}

	return strings.TrimSuffix(result.String(), "-")
}

// TopicSlug converts a file name or title to a topic id. A trailing ".md"
// is ignored.
func TopicSlug(s string) string {
	s = strings.TrimSuffix(strings.TrimSpace(s), ".md")
	slugged := goslug.Make(s)
	if slugged == "" {
		slugged = strings.ToLower(strings.ReplaceAll(s, " ", "-"))
	}
	return slugged
}

// SplitAnchor splits "topic#section" into its parts.
func SplitAnchor(ref string) (topic, section string) {
	topic, section, _ = strings.Cut(ref, "#")
	return TopicSlug(topic), HeadingSlug(section)
}
