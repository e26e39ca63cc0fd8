package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"vantage/internal/types"
)

// LeadTable renders a lead set as a static text table.
type LeadTable struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// NewLeadTable builds the table for a lead set with the fixed display
// columns. Long cells are truncated to keep rows on one line.
func NewLeadTable(title string, leads []types.Lead) *LeadTable {
	t := &LeadTable{
		Title:   title,
		Headers: []string{"Name", "Address", "Website", "Email", "Phone", "Type", "Rating"},
	}
	for _, l := range leads {
		t.Rows = append(t.Rows, []string{
			truncate(l.Name, 28),
			truncate(l.Address, 32),
			truncate(l.Website, 24),
			truncate(l.Email, 24),
			truncate(l.Phone, 16),
			truncate(l.Type, 16),
			truncate(l.Rating, 6),
		})
	}
	return t
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// View renders the table using the provided styles.
func (t *LeadTable) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder

	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	// Column widths track the widest cell, padding included.
	colWidths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		colWidths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(colWidths) {
				if w := lipgloss.Width(cell); w > colWidths[i] {
					colWidths[i] = w
				}
			}
		}
	}
	for i := range colWidths {
		colWidths[i] += 2
	}

	headerStyle := styles.Bold.Padding(0, 1)
	rowStyle := styles.Body.Padding(0, 1)
	sepStyle := styles.Muted

	for i, h := range t.Headers {
		sb.WriteString(headerStyle.Width(colWidths[i]).Render(h))
		if i < len(t.Headers)-1 {
			sb.WriteString(sepStyle.Render("|"))
		}
	}
	sb.WriteString("\n")

	totalWidth := len(t.Headers) - 1
	for _, w := range colWidths {
		totalWidth += w
	}
	sb.WriteString(sepStyle.Render(strings.Repeat("-", totalWidth)) + "\n")

	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(colWidths) {
				sb.WriteString(rowStyle.Width(colWidths[i]).Render(cell))
				if i < len(row)-1 {
					sb.WriteString(sepStyle.Render("|"))
				}
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
