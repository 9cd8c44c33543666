package tui

// Update logic for the viewer TUI

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/FBakkensen/aw-viewer-tui/domain"
	"github.com/FBakkensen/aw-viewer-tui/internal/rowdetail"
	"github.com/FBakkensen/aw-viewer-tui/logging"
	"github.com/FBakkensen/aw-viewer-tui/store"
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case countsMsg, gridLoadedMsg, assistantIDMsg, chatResultMsg:
		return m.handleResultMessages(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.renderer = m.newRenderer()
		m.refreshTranscript()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.store.ShowChatIndicator() {
			m.refreshTranscript()
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

// handleResultMessages applies backend responses to the store. Failures are
// logged, and reach the footer only when errorBanner is on.
func (m model) handleResultMessages(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case countsMsg:
		if msg.err != nil {
			logging.Error("Failed to fetch counts", "error", msg.err.Error())
			m.store.SetBanner(fmt.Sprintf("Counts unavailable: %v", msg.err))
			return m, nil
		}
		m.store.SetCounts(msg.counts)
		logging.Debug("Counts loaded", "customers", strconv.Itoa(msg.counts.Customers), "orderDetails", strconv.Itoa(msg.counts.OrderDetails))
		return m, nil

	case gridLoadedMsg:
		m.store.FinishGridLoad(msg.ticket, msg.data, msg.err)
		if msg.err != nil {
			logging.Error("Failed to load dataset", "dataset", msg.ticket.Dataset.ID(), "requestId", msg.ticket.ID, "error", msg.err.Error())
		} else {
			logging.Info("Dataset loaded", "dataset", msg.ticket.Dataset.ID(), "rows", strconv.Itoa(len(msg.data.Rows)), "duration", msg.duration.String())
		}
		m.syncGrid()
		m.refreshTranscript()
		return m, nil

	case assistantIDMsg:
		if msg.err != nil {
			logging.Error("Failed to fetch assistant id", "mode", msg.ticket.Mode.String(), "error", msg.err.Error())
			m.store.SetBanner(fmt.Sprintf("Assistant id unavailable: %v", msg.err))
			return m, nil
		}
		if !m.store.SetAssistantID(msg.ticket, msg.id) {
			logging.Info("Discarded stale assistant id", "requestId", msg.ticket.ID)
		}
		return m, nil

	case chatResultMsg:
		if msg.err != nil {
			logging.Error("Chat request failed", "mode", msg.ticket.Mode.String(), "requestId", msg.ticket.ID, "error", msg.err.Error())
		}
		added := m.store.FinishChat(msg.ticket, msg.replies, msg.err)
		if msg.err == nil {
			logging.Info("Chat reply applied", "mode", msg.ticket.Mode.String(), "replies", strconv.Itoa(len(msg.replies)), "entries", strconv.Itoa(added), "duration", msg.duration.String())
		}
		m.ta.Reset()
		m.syncGrid()
		m.refreshTranscript()
		return m, nil
	}
	return m, nil
}

// handleKey processes keyboard input
func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.palette {
		return m.handlePaletteKeys(msg)
	}
	if m.overlay != overlayNone {
		return m.handleOverlayKeys(msg)
	}

	m.store.ClearBanner()

	switch {
	case key.Matches(msg, m.keys.CycleMode):
		cmd := m.selectMode(m.store.Mode().Next())
		return m, cmd
	case key.Matches(msg, m.keys.LoadTile):
		cmd := m.beginGridLoad(tileKeys[msg.String()])
		return m, cmd
	case key.Matches(msg, m.keys.Clear):
		m.clearMessages()
		return m, nil
	case key.Matches(msg, m.keys.Palette):
		m.palette = true
		m.paletteInput = ""
		m.feedback = ""
		m.feedbackIsError = false
		return m, nil
	case key.Matches(msg, m.keys.ModeHelp):
		m.overlay = overlayModeHelp
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		m.copySelection()
		return m, nil
	case key.Matches(msg, m.keys.Focus):
		m.toggleFocus()
		return m, nil
	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	case key.Matches(msg, m.keys.Close):
		m.feedback = ""
		m.feedbackIsError = false
		return m, nil
	}

	if m.focus == focusGrid {
		return m.handleGridKeys(msg)
	}
	return m.handleInputKeys(msg)
}

func (m model) handleGridKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) {
		m.openRowDetail()
		return m, nil
	}
	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

func (m model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Newline):
		m.ta.InsertString("\n")
		return m, nil
	case key.Matches(msg, m.keys.HistoryPrev):
		if prompt, ok := m.history.Prev(); ok {
			m.ta.SetValue(prompt)
		}
		return m, nil
	case key.Matches(msg, m.keys.HistoryNext):
		if prompt, ok := m.history.Next(); ok {
			m.ta.SetValue(prompt)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

func (m model) handleOverlayKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close), key.Matches(msg, m.keys.Submit), msg.String() == "q":
		m.overlay = overlayNone
		m.detailRow = nil
		m.detailFields = nil
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		m.copySelection()
		return m, nil
	}
	if m.overlay == overlayRowDetail {
		var cmd tea.Cmd
		m.detailVP, cmd = m.detailVP.Update(msg)
		return m, cmd
	}
	return m, nil
}

// submit starts a chat turn with the textarea contents.
func (m model) submit() (tea.Model, tea.Cmd) {
	input := m.ta.Value()
	if strings.TrimSpace(input) == "" {
		return m, nil
	}

	m.store.SetInput(input)
	t, err := m.store.BeginChat()
	switch {
	case errors.Is(err, store.ErrBusy):
		logging.Info("Chat submit ignored while a request is in flight", "mode", m.store.Mode().String())
		return m, nil
	case errors.Is(err, store.ErrNoEndpoint):
		logging.Error("Chat submit rejected: invalid mode", "mode", m.store.Mode().String())
		m.ta.Reset()
		return m, nil
	case err != nil:
		logging.Error("Chat submit failed", "error", err.Error())
		return m, nil
	}

	logging.Info("Submitting chat", "mode", t.Mode.String(), "requestId", t.ID, "length", strconv.Itoa(len(t.Input)))
	m.history.Add(input, t.Mode)
	m.refreshTranscript()
	return m, submitChat(m.backend, t, m.timeout)
}

// selectMode switches modes and refetches the assistant identity once.
// Selecting the active mode does nothing.
func (m *model) selectMode(mode domain.Mode) tea.Cmd {
	if !m.store.SetMode(mode) {
		return nil
	}
	m.cfg.Mode = mode.String()
	logging.Info("Mode changed", "mode", mode.String())
	if mode == domain.ModeNoAI && m.focus == focusInput {
		m.setFocus(focusGrid)
	}
	m.layout()
	m.renderer = m.newRenderer()
	m.refreshTranscript()
	return fetchAssistantID(m.backend, m.store.NewAssistantIDTicket(), m.timeout)
}

// beginGridLoad starts loading a dataset unless another request holds the guard.
func (m *model) beginGridLoad(ds domain.Dataset) tea.Cmd {
	t, ok := m.store.BeginGridLoad(ds)
	if !ok {
		logging.Info("Grid load ignored while a request is in flight", "dataset", ds.ID())
		return nil
	}
	logging.Info("Loading dataset", "dataset", ds.ID(), "requestId", t.ID)
	m.syncGrid()
	m.refreshTranscript()
	return loadDataset(m.backend, t, m.timeout)
}

func (m *model) clearMessages() {
	m.store.ClearMessages()
	m.refreshTranscript()
	logging.Info("Transcript cleared")
}

// syncGrid pushes the store's grid state into the table.
func (m *model) syncGrid() {
	m.grid.SetLoading(m.store.GridLoading())
	m.grid.SetData(m.store.Grid())
}

func (m *model) setFocus(f focusArea) {
	m.focus = f
	if f == focusGrid {
		m.ta.Blur()
		m.grid.Focus()
		return
	}
	m.grid.Blur()
	m.ta.Focus()
}

func (m *model) toggleFocus() {
	if m.focus == focusInput {
		m.setFocus(focusGrid)
		return
	}
	if m.store.Mode() == domain.ModeNoAI {
		return
	}
	m.setFocus(focusInput)
}

func (m *model) openRowDetail() {
	row, ok := m.grid.SelectedRow()
	if !ok {
		return
	}
	cols := m.store.Grid().Columns
	m.detailRow = row
	m.detailTitle, m.detailFields = rowdetail.BuildDetails(cols, row)
	m.detailVP.SetContent(m.renderDetailFields())
	m.detailVP.GotoTop()
	m.overlay = overlayRowDetail
}

// copySelection copies the open or selected row as JSON, otherwise the last
// assistant answer.
func (m *model) copySelection() {
	var (
		text string
		what string
	)
	row := m.detailRow
	if row == nil && m.focus == focusGrid {
		row, _ = m.grid.SelectedRow()
	}
	if row != nil {
		out, err := rowdetail.AsJSON(m.store.Grid().Columns, row)
		if err != nil {
			logging.Error("Failed to encode row", "error", err.Error())
			m.setFeedback(fmt.Sprintf("Copy failed: %v", err), true)
			return
		}
		text, what = out, "row"
	} else {
		last, ok := m.lastAssistantText()
		if !ok {
			m.setFeedback("Nothing to copy", true)
			return
		}
		text, what = last, "message"
	}

	if err := writeClipboard(text); err != nil {
		logging.Error("Clipboard write failed", "error", err.Error())
		m.setFeedback(fmt.Sprintf("Copy failed: %v", err), true)
		return
	}
	m.setFeedback(fmt.Sprintf("✓ Copied %s to clipboard", what), false)
}

func (m *model) setFeedback(msg string, isError bool) {
	m.feedback = msg
	m.feedbackIsError = isError
}
