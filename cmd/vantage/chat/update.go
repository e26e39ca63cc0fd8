package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"vantage/internal/types"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		m.vp = viewport.New(msg.Width, msg.Height-6)
		m.ready = true
		m.refreshViewport(true)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyTab:
			if m.mode == ChatView {
				m.mode = LeadsView
			} else {
				m.mode = ChatView
			}
			m.refreshViewport(false)
			return m, nil
		case tea.KeyEsc:
			m.mode = ChatView
			m.refreshViewport(false)
			return m, nil
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case searchDoneMsg:
		m.busy = false
		if msg.msg.IsError {
			m.notes = append(m.notes, m.styles.Error.Render(msg.msg.Text))
		} else {
			m.mode = LeadsView
		}
		m.refreshViewport(true)
		return m, nil

	case chatDoneMsg:
		m.busy = false
		if msg.msg.IsError {
			m.notes = append(m.notes, m.styles.Error.Render(msg.msg.Text))
		}
		m.refreshViewport(true)
		return m, nil

	case opRejectedMsg:
		m.busy = false
		m.notes = append(m.notes, m.styles.Warning.Render(msg.err.Error()))
		m.refreshViewport(true)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit handles Enter: slash commands run synchronously, anything else
// becomes a chat turn.
func (m Model) submit() (tea.Model, tea.Cmd) {
	// Duplicate submission is disabled while an operation is in flight.
	if m.busy {
		return m, nil
	}
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.input.SetValue("")
	m.notes = nil

	if strings.HasPrefix(text, "/") {
		return m.runCommand(text)
	}

	if m.orch == nil {
		m.notes = append(m.notes, m.styles.Warning.Render("No API key configured."))
		m.refreshViewport(true)
		return m, nil
	}
	if m.orch.Chatting() {
		m.notes = append(m.notes, m.styles.Warning.Render("A chat turn is already in flight."))
		m.refreshViewport(true)
		return m, nil
	}

	image := m.attachment
	m.attachment = ""
	m.busy = true
	m.busyLabel = "Thinking"
	m.mode = ChatView
	m.refreshViewport(true)
	return m, tea.Batch(m.spin.Tick, m.sendChat(text, image))
}

// sendChat runs one chat turn off the UI loop.
func (m Model) sendChat(text, image string) tea.Cmd {
	orch := m.orch
	return func() tea.Msg {
		msg, err := orch.SendChat(context.Background(), text, image)
		if err != nil {
			return opRejectedMsg{err: err}
		}
		return chatDoneMsg{msg: msg}
	}
}

// runSearch runs one generation request off the UI loop.
func (m Model) runSearch(params types.SearchParams) tea.Cmd {
	orch := m.orch
	return func() tea.Msg {
		msg, err := orch.GenerateLeads(context.Background(), params)
		if err != nil {
			return opRejectedMsg{err: err}
		}
		return searchDoneMsg{msg: msg}
	}
}

// refreshViewport re-renders the main pane; gotoBottom follows new content
// in chat view.
func (m *Model) refreshViewport(gotoBottom bool) {
	if !m.ready {
		return
	}
	if m.mode == LeadsView {
		m.vp.SetContent(m.renderLeads())
		m.vp.GotoTop()
		return
	}
	m.vp.SetContent(m.renderHistory())
	if gotoBottom {
		m.vp.GotoBottom()
	}
}
