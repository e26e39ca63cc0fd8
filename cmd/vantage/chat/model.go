// Package chat provides the interactive TUI dashboard for vantage: a chat
// panel over the active session, a filterable leads table, and slash
// commands for sessions, search and export.
package chat

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"vantage/cmd/vantage/ui"
	"vantage/internal/config"
	"vantage/internal/core"
	"vantage/internal/gemini"
	"vantage/internal/geo"
	"vantage/internal/leads"
	"vantage/internal/store"
	"vantage/internal/types"
)

// Options configures the dashboard.
type Options struct {
	APIKey  string        // overrides config and environment
	Timeout time.Duration // per-request timeout; 0 uses config
}

// ViewMode determines which pane fills the main area.
type ViewMode int

const (
	ChatView ViewMode = iota
	LeadsView
)

// Messages delivered by asynchronous operations.
type (
	searchDoneMsg struct{ msg types.Message }
	chatDoneMsg   struct{ msg types.Message }
	opRejectedMsg struct{ err error }
)

// Model is the bubbletea model for the dashboard.
type Model struct {
	cfg    config.Config
	styles ui.Styles
	orch   *core.Orchestrator
	store  *store.Store

	input    textinput.Model
	vp       viewport.Model
	spin     spinner.Model
	renderer *glamour.TermRenderer

	mode       ViewMode
	width      int
	height     int
	ready      bool
	busy       bool
	busyLabel  string
	notes      []string // transient command output, cleared on next input
	filterTerm string
	typeFilter string
	attachment string // base64 JPEG pending for the next chat turn
}

// Run wires the application and blocks until the dashboard exits.
func Run(opts Options) error {
	cfg, _ := config.Load()

	key := cfg.ResolveAPIKey()
	if opts.APIKey != "" {
		key = opts.APIKey
	}

	styles := ui.DefaultStyles()
	if cfg.Theme == "dark" {
		styles = ui.NewStyles(ui.DarkTheme())
	}

	storePath, err := cfg.ResolveStorePath()
	if err != nil {
		return err
	}
	st, err := store.Open(storePath, zap.NewNop())
	if err != nil {
		return err
	}
	defer st.Close()

	m := Model{
		cfg:        cfg,
		styles:     styles,
		store:      st,
		typeFilter: leads.TypeAll,
	}

	if key == "" {
		m.notes = append(m.notes,
			fmt.Sprintf("No API key detected. Set %s or run 'vantage config set-key <key>'.", config.EnvAPIKey))
	} else {
		capability, err := gemini.NewClient(context.Background(), gemini.Config{
			APIKey:        key,
			GenerateModel: cfg.GenerateModel,
			ChatModel:     cfg.ChatModel,
		}, zap.NewNop())
		if err != nil {
			return err
		}
		var locator geo.Provider
		if cfg.Geolocate {
			locator = geo.NewIPLocator(zap.NewNop())
		}
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second
		}
		m.orch = core.New(st, capability, locator, timeout, zap.NewNop())
	}

	ti := textinput.New()
	ti.Placeholder = "Chat about your leads, or /search niche | location | km (/help for commands)"
	ti.Focus()
	ti.Prompt = "│ "
	ti.CharLimit = 4096
	ti.Width = 80
	ti.PromptStyle = m.styles.Prompt
	ti.TextStyle = m.styles.UserInput
	m.input = ti

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = m.styles.Spinner
	m.spin = sp

	m.vp = viewport.New(80, 20)

	if m.styles.Theme.IsDark {
		m.renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
	} else {
		m.renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath("light"),
			glamour.WithWordWrap(80),
		)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "dashboard error:", err)
		return err
	}
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// filteredLeads applies the current table filters to the active lead set.
func (m Model) filteredLeads() []types.Lead {
	return leads.Filter(m.store.ActiveLeads(), m.filterTerm, m.typeFilter)
}
