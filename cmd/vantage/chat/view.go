package chat

import (
	"fmt"
	"strings"

	"vantage/cmd/vantage/ui"
	"vantage/internal/leads"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var sb strings.Builder
	sb.WriteString(m.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(m.vp.View())
	sb.WriteString("\n")
	sb.WriteString(m.renderFooter())
	return sb.String()
}

func (m Model) renderHeader() string {
	session := m.store.Active()
	title := m.styles.Header.Render(" VANTAGE ")
	name := m.styles.Subtitle.Render(" " + session.Name)

	count := len(m.store.ActiveLeads())
	badge := ""
	if count > 0 {
		badge = " " + m.styles.Badge.Render(fmt.Sprintf("%d leads", count))
	}
	return title + name + badge
}

func (m Model) renderFooter() string {
	if m.busy {
		return m.spin.View() + m.styles.Muted.Render(" "+m.busyLabel+"...")
	}

	hint := "Tab: leads/chat · /help for commands"
	if m.attachment != "" {
		hint = "[image attached] " + hint
	}
	return m.input.View() + "\n" + m.styles.Footer.Render(hint)
}

// renderHistory renders the active session's message log plus any transient
// command output.
func (m Model) renderHistory() string {
	var sb strings.Builder

	for _, msg := range m.store.Active().Messages {
		switch {
		case msg.Role == "user":
			userStyle := m.styles.Bold.
				Foreground(m.styles.Theme.Primary).
				MarginTop(1)
			sb.WriteString(userStyle.Render("You") + "\n")
			sb.WriteString(m.styles.UserInput.Render(msg.Text))
			if msg.Image != "" {
				sb.WriteString(m.styles.Muted.Render("  [image]"))
			}
			sb.WriteString("\n")

		case msg.IsError:
			sb.WriteString(m.styles.Error.Render("vantage") + "\n")
			sb.WriteString(m.styles.Error.Render(msg.Text))
			sb.WriteString("\n")

		default:
			modelStyle := m.styles.Bold.
				Foreground(m.styles.Theme.Accent).
				MarginTop(1)
			sb.WriteString(modelStyle.Render("vantage") + "\n")
			sb.WriteString(m.safeRenderMarkdown(msg.Text))
			if len(msg.RelatedLeads) > 0 {
				sb.WriteString(m.styles.Muted.Render(
					fmt.Sprintf("  %d leads generated (Tab to view)", len(msg.RelatedLeads))) + "\n")
			}
			for i, src := range msg.GroundingSources {
				if i == 3 {
					sb.WriteString(m.styles.Muted.Render(
						fmt.Sprintf("  ... and %d more sources", len(msg.GroundingSources)-i)) + "\n")
					break
				}
				sb.WriteString(m.styles.Muted.Render("  "+src.Title+": "+src.URI) + "\n")
			}
		}
	}

	if len(m.notes) > 0 {
		sb.WriteString("\n")
		for _, note := range m.notes {
			sb.WriteString(note + "\n")
		}
	}

	if sb.Len() == 0 {
		return m.styles.Muted.Render("Engine awaiting input. Try /search <niche> | <location> | <radius>.")
	}
	return sb.String()
}

// renderLeads renders the filtered lead table pane.
func (m Model) renderLeads() string {
	set := m.store.ActiveLeads()
	if len(set) == 0 {
		return m.styles.Muted.Render("No leads yet. Run /search to generate some.")
	}

	filtered := m.filteredLeads()
	title := fmt.Sprintf("Intelligence Output (%d/%d records)", len(filtered), len(set))

	var sb strings.Builder
	sb.WriteString(ui.NewLeadTable(title, filtered).View(m.styles))

	filters := []string{}
	if m.filterTerm != "" {
		filters = append(filters, "filter="+m.filterTerm)
	}
	if m.typeFilter != "" && m.typeFilter != leads.TypeAll {
		filters = append(filters, "type="+m.typeFilter)
	}
	if len(filters) > 0 {
		sb.WriteString(m.styles.Muted.Render("Active filters: "+strings.Join(filters, ", ")) + "\n")
	}
	sb.WriteString(m.styles.Muted.Render("Types: "+strings.Join(leads.Types(set), ", ")) + "\n")

	if len(m.notes) > 0 {
		sb.WriteString("\n")
		for _, note := range m.notes {
			sb.WriteString(note + "\n")
		}
	}
	return sb.String()
}

// safeRenderMarkdown renders markdown with panic recovery; glamour can
// choke on pathological model output.
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content + "\n"
		}
	}()

	if m.renderer == nil {
		return content + "\n"
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content + "\n"
	}
	return rendered
}
