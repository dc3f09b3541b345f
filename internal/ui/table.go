package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// RenderTable draws rows under bold headers with a light border. The first
// column is accent-styled.
func RenderTable(display *DisplayContext, headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Muted).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return style.Inherit(Bold)
			case col == 0:
				return style.Inherit(Accent)
			}
			return style
		})
	if display != nil && display.IsTTY {
		t = t.Width(min(display.AvailableWidth(2), tableWidth(headers, rows)))
	}
	return t.String()
}

// tableWidth estimates the natural width so narrow tables are not stretched.
func tableWidth(headers []string, rows [][]string) int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range rows {
		for i := 0; i < len(r) && i < len(widths); i++ {
			if w := lipgloss.Width(r[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	total := 1
	for _, w := range widths {
		total += w + 3
	}
	return total
}
