package chat

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"vantage/internal/leads"
	"vantage/internal/types"
)

// runCommand dispatches a slash command.
func (m Model) runCommand(text string) (tea.Model, tea.Cmd) {
	cmd, rest, _ := strings.Cut(strings.TrimPrefix(text, "/"), " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "search":
		return m.commandSearch(rest)
	case "new":
		if _, err := m.store.NewSession(rest); err != nil {
			m.note(m.styles.Error.Render(err.Error()))
		} else {
			m.note("Started session: " + m.store.Active().Name)
			m.mode = ChatView
		}
	case "sessions":
		m.commandSessions()
	case "select":
		m.commandSelect(rest)
	case "leads":
		m.mode = LeadsView
	case "filter":
		m.filterTerm = rest
		m.mode = LeadsView
	case "type":
		if rest == "" {
			rest = leads.TypeAll
		}
		m.typeFilter = rest
		m.mode = LeadsView
	case "export":
		m.commandExport(rest)
	case "attach":
		m.commandAttach(rest)
	case "detach":
		m.attachment = ""
		m.note("Attachment removed.")
	case "help":
		m.commandHelp()
	case "quit", "exit":
		return m, tea.Quit
	default:
		m.note(m.styles.Warning.Render("Unknown command: /" + cmd + " (try /help)"))
	}

	m.refreshViewport(true)
	return m, nil
}

// commandSearch parses "niche | location | radius" and launches generation.
func (m Model) commandSearch(rest string) (tea.Model, tea.Cmd) {
	params, err := parseSearchArgs(rest)
	if err != nil {
		m.note(m.styles.Warning.Render(err.Error()))
		m.refreshViewport(true)
		return m, nil
	}
	if m.orch == nil {
		m.note(m.styles.Warning.Render("No API key configured."))
		m.refreshViewport(true)
		return m, nil
	}
	if m.orch.Generating() {
		m.note(m.styles.Warning.Render("A lead generation request is already in flight."))
		m.refreshViewport(true)
		return m, nil
	}

	m.busy = true
	m.busyLabel = "Researching"
	m.mode = ChatView
	m.refreshViewport(true)
	return m, tea.Batch(m.spin.Tick, m.runSearch(params))
}

// parseSearchArgs understands "niche | location | radius" with the radius
// optional (default 10).
func parseSearchArgs(rest string) (types.SearchParams, error) {
	parts := strings.Split(rest, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return types.SearchParams{}, fmt.Errorf("usage: /search <niche> | <location> | [radius km]")
	}

	params := types.SearchParams{Query: parts[0], Location: parts[1], RadiusKm: 10}
	if len(parts) >= 3 && parts[2] != "" {
		radius, err := strconv.Atoi(strings.TrimSuffix(parts[2], "km"))
		if err != nil || radius <= 0 {
			return types.SearchParams{}, fmt.Errorf("radius must be a positive number of km")
		}
		params.RadiusKm = radius
	}
	return params, nil
}

func (m *Model) commandSessions() {
	active := m.store.Active().ID
	m.note("Sessions (newest first):")
	for i, sess := range m.store.Sessions() {
		marker := "  "
		if sess.ID == active {
			marker = "* "
		}
		m.note(fmt.Sprintf("%s%d. %s (%d messages)", marker, i+1, sess.DisplayLabel(), len(sess.Messages)))
	}
	m.note("Use /select <number> to switch.")
}

func (m *Model) commandSelect(rest string) {
	sessions := m.store.Sessions()
	idx, err := strconv.Atoi(rest)
	if err != nil || idx < 1 || idx > len(sessions) {
		m.note(m.styles.Warning.Render("Usage: /select <number> (see /sessions)"))
		return
	}
	m.store.Select(sessions[idx-1].ID)
	m.filterTerm = ""
	m.typeFilter = leads.TypeAll
	m.mode = ChatView
	m.note("Active session: " + m.store.Active().Name)
}

func (m *Model) commandExport(rest string) {
	filtered := m.filteredLeads()
	if len(filtered) == 0 {
		m.note(m.styles.Warning.Render("No leads to export."))
		return
	}
	path, err := leads.ExportCSV(rest, filtered)
	if err != nil {
		m.note(m.styles.Error.Render(err.Error()))
		return
	}
	m.note(m.styles.Success.Render(fmt.Sprintf("Exported %d leads to %s", len(filtered), path)))
}

func (m *Model) commandAttach(rest string) {
	if rest == "" {
		m.note(m.styles.Warning.Render("Usage: /attach <path-to-jpeg>"))
		return
	}
	data, err := os.ReadFile(rest)
	if err != nil {
		m.note(m.styles.Error.Render("Cannot read image: " + err.Error()))
		return
	}
	m.attachment = base64.StdEncoding.EncodeToString(data)
	m.note("Image attached to your next message.")
}

func (m *Model) commandHelp() {
	for _, line := range []string{
		"Commands:",
		"  /search <niche> | <location> | [radius km]   generate leads",
		"  /new [name]                                  start a session",
		"  /sessions                                    list sessions",
		"  /select <number>                             switch session (clears leads)",
		"  /leads                                       show the lead table (Tab toggles)",
		"  /filter <term>                               filter the table",
		"  /type <type|All>                             filter by business type",
		"  /export [path]                               export filtered leads to CSV",
		"  /attach <path>                               attach a JPEG to the next message",
		"  /detach                                      remove the pending attachment",
		"  /quit                                        exit",
		"Anything else is sent to the advisory assistant.",
	} {
		m.note(line)
	}
}

func (m *Model) note(line string) {
	m.notes = append(m.notes, line)
}
