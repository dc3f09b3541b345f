package cli

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	builtindocs "github.com/aidanlsb/sift/docs"
	"github.com/aidanlsb/sift/internal/docs"
	"github.com/aidanlsb/sift/internal/slugs"
	"github.com/aidanlsb/sift/internal/ui"
)

var (
	docsFS             fs.FS = builtindocs.FS
	docsMarkdownRender       = ui.RenderMarkdown
	docsRaw            bool
)

var docsCmd = &cobra.Command{
	Use:   "docs [topic[#section]]",
	Short: "Read the bundled reference docs",
	Long: `List the bundled reference topics, or render one of them.

Examples:
  sift docs
  sift docs filter
  sift docs "filter#operators"
  sift docs expand --raw`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		topics, err := docs.Topics(docsFS)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		if len(args) == 0 {
			if isJSONOutput() {
				outputSuccess(map[string]interface{}{"topics": topics}, &Meta{Count: len(topics)})
				return nil
			}
			rows := make([][]string, len(topics))
			for i, t := range topics {
				rows[i] = []string{t.ID, t.Title}
			}
			fmt.Fprintln(out, ui.RenderTable(ui.NewDisplayContext(out), []string{"TOPIC", "TITLE"}, rows))
			fmt.Fprintln(out, ui.Hint("Read one with: sift docs <topic>"))
			return nil
		}

		ref, sectionSlug := slugs.SplitAnchor(args[0])
		topic, ok := docs.Find(topics, ref)
		if !ok {
			ids := make([]string, len(topics))
			for i, t := range topics {
				ids[i] = t.ID
			}
			return handleErrorMsg(ErrDocsNotFound, fmt.Sprintf("unknown docs topic '%s'", args[0]),
				"Available topics: "+strings.Join(ids, ", "))
		}

		raw, err := fs.ReadFile(docsFS, topic.Path)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		content := string(raw)
		if sectionSlug != "" {
			section, ok := docs.Section(content, topic, sectionSlug)
			if !ok {
				return handleErrorMsg(ErrDocsNotFound, fmt.Sprintf("no section '%s' in %s", sectionSlug, topic.ID),
					"Sections: "+strings.Join(headingSlugs(topic), ", "))
			}
			content = section
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"topic":   topic,
				"section": sectionSlug,
				"content": content,
			}, nil)
			return nil
		}

		display := ui.NewDisplayContext(out)
		if docsRaw || !display.IsTTY {
			fmt.Fprint(out, content)
			return nil
		}
		rendered, err := docsMarkdownRender(content, display.AvailableWidth(ui.MarkdownRenderMargin*2))
		if err != nil {
			fmt.Fprint(out, content)
			return nil
		}
		fmt.Fprint(out, rendered)
		return nil
	},
}

func headingSlugs(t docs.Topic) []string {
	out := make([]string, 0, len(t.Headings))
	for _, h := range t.Headings {
		if h.Level > 1 {
			out = append(out, h.Slug)
		}
	}
	return out
}

func init() {
	docsCmd.Flags().BoolVar(&docsRaw, "raw", false, "Print markdown without terminal rendering")
	rootCmd.AddCommand(docsCmd)
}
