package slugs

import "testing"

func TestHeadingSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Null Checks", "null-checks"},
		{"A:B", "a-b"},
		{"A__B", "a-b"},
		{"A - B", "a-b"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"IN / NOT IN", "in-not-in"},
		{"!!!", ""},
		{"Привет мир", "привет-мир"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := HeadingSlug(tt.in); got != tt.want {
				t.Fatalf("HeadingSlug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTopicSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"filter.md", "filter"},
		{"Filter Language", "filter-language"},
		{"UPPER CASE", "upper-case"},
		{"ancestors", "ancestors"},
		{"Special: Characters!", "special-characters"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := TopicSlug(tt.in); got != tt.want {
				t.Fatalf("TopicSlug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitAnchor(t *testing.T) {
	topic, section := SplitAnchor("Filter#Null Checks")
	if topic != "filter" || section != "null-checks" {
		t.Fatalf("got %q, %q", topic, section)
	}
	topic, section = SplitAnchor("expand")
	if topic != "expand" || section != "" {
		t.Fatalf("got %q, %q", topic, section)
	}
}
