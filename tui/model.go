package tui

// Model for the viewer TUI

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"

	"github.com/FBakkensen/aw-viewer-tui/config"
	"github.com/FBakkensen/aw-viewer-tui/domain"
	"github.com/FBakkensen/aw-viewer-tui/internal/rowdetail"
	"github.com/FBakkensen/aw-viewer-tui/logging"
	"github.com/FBakkensen/aw-viewer-tui/store"
)

const AppTitle = "AdventureWorks Viewer"

// Backend is the slice of the HTTP gateway the viewer calls.
type Backend interface {
	Counts(ctx context.Context) (domain.RecordCounts, error)
	Dataset(ctx context.Context, ds domain.Dataset) (domain.GridData, error)
	AssistantID(ctx context.Context) (string, error)
	Chat(ctx context.Context, mode domain.Mode, input string) ([]domain.Reply, error)
}

type focusArea int

const (
	focusInput focusArea = iota
	focusGrid
)

type overlayKind int

const (
	overlayNone overlayKind = iota
	overlayModeHelp
	overlayRowDetail
)

type model struct {
	cfg     config.Config
	backend Backend
	store   store.Store
	timeout time.Duration

	ta       textarea.Model
	vp       viewport.Model
	detailVP viewport.Model
	spin     spinner.Model
	grid     *GridTable
	help     help.Model
	keys     keyMap

	renderer  *glamour.TermRenderer
	sanitizer *bluemonday.Policy
	history   *PromptHistory

	palette         bool
	paletteInput    string
	feedback        string
	feedbackIsError bool

	overlay      overlayKind
	detailTitle  string
	detailFields []rowdetail.DetailField
	detailRow    domain.Row

	focus    focusArea
	width    int
	height   int
	quitting bool
}

// storeOptions maps the guard settings from config onto the store.
func storeOptions(cfg config.Config) store.Options {
	return store.Options{
		ExclusiveRequests: cfg.ExclusiveRequests,
		DiscardStale:      cfg.DiscardStale,
		ErrorBanner:       cfg.ErrorBanner,
	}
}

func newModel(cfg config.Config, backend Backend) model {
	ta := textarea.New()
	ta.Placeholder = "Ask about customers, products or orders…"
	ta.Prompt = "> "
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.SetWidth(80)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	vp := viewport.New(40, 10)
	vp.SetContent("")

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	m := model{
		cfg:       cfg,
		backend:   backend,
		store:     store.New(cfg.Settings(), storeOptions(cfg)),
		timeout:   cfg.RequestTimeout(),
		ta:        ta,
		vp:        vp,
		detailVP:  viewport.New(60, 10),
		spin:      sp,
		grid:      NewGridTable(80, 12),
		help:      help.New(),
		keys:      defaultKeyMap(),
		sanitizer: bluemonday.StrictPolicy(),
		history:   NewPromptHistory(100),
		width:     120,
		height:    36,
	}
	if m.store.Mode() == domain.ModeNoAI {
		m.setFocus(focusGrid)
	}
	m.renderer = m.newRenderer()
	m.layout()
	return m
}

// Init fetches the tile counts and the assistant identity once.
func (m model) Init() tea.Cmd {
	t := m.store.NewAssistantIDTicket()
	return tea.Batch(
		fetchCounts(m.backend, m.timeout),
		fetchAssistantID(m.backend, t, m.timeout),
		m.spin.Tick,
		textarea.Blink,
	)
}

// Run starts the full-screen viewer and blocks until it exits.
func Run(cfg config.Config, backend Backend) error {
	logging.Info("Starting TUI", "baseUrl", cfg.BaseURL, "mode", cfg.Mode)
	p := tea.NewProgram(newModel(cfg, backend), tea.WithAltScreen())
	_, err := p.Run()
	if err != nil {
		logging.Error("TUI exited with error", "error", err.Error())
	}
	return err
}
