package tui

// Command palette

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/FBakkensen/aw-viewer-tui/domain"
	"github.com/FBakkensen/aw-viewer-tui/logging"
)

const maxSuggestions = 6

// paletteCommands lists every complete command the palette can suggest.
func paletteCommands() []string {
	cmds := make([]string, 0, 24)
	for _, mode := range domain.AllModes {
		cmds = append(cmds, "mode "+strings.ToLower(mode.String()))
	}
	for _, ds := range domain.AllDatasets {
		cmds = append(cmds, "load "+ds.ID())
	}
	cmds = append(cmds,
		"clear",
		"set",
		"set maxTokens=",
		"set temperature=",
		"set theme=",
		"help",
		"quit",
	)
	return cmds
}

// suggestions ranks palette commands against the typed input.
func suggestions(input string) []string {
	all := paletteCommands()
	input = strings.TrimSpace(input)
	if input == "" {
		return all[:min(maxSuggestions, len(all))]
	}
	matches := fuzzy.Find(input, all)
	out := make([]string, 0, maxSuggestions)
	for _, match := range matches {
		out = append(out, match.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// handlePaletteKeys handles key input while the command palette is open
func (m model) handlePaletteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.palette = false
		m.paletteInput = ""
		return m, nil
	case "enter":
		m.palette = false
		input := strings.TrimSpace(m.paletteInput)
		m.paletteInput = ""
		if input == "" {
			return m, nil
		}
		return m.processCommand(input)
	case "tab":
		if s := suggestions(m.paletteInput); len(s) > 0 {
			m.paletteInput = s[0]
		}
		return m, nil
	case "backspace":
		if r := []rune(m.paletteInput); len(r) > 0 {
			m.paletteInput = string(r[:len(r)-1])
		}
		return m, nil
	case " ":
		m.paletteInput += " "
		return m, nil
	}
	if msg.Type == tea.KeyRunes {
		m.paletteInput += string(msg.Runes)
	}
	return m, nil
}

// processCommand runs a palette command
func (m model) processCommand(input string) (tea.Model, tea.Cmd) {
	m.feedback = ""
	m.feedbackIsError = false

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	logging.Debug("Palette command", "command", parts[0])

	switch strings.ToLower(parts[0]) {
	case "mode":
		return m.handleModeCommand(parts[1:])
	case "load":
		return m.handleLoadCommand(parts[1:])
	case "clear":
		m.clearMessages()
		m.setFeedback("✓ Transcript cleared", false)
		return m, nil
	case "set":
		cmd := m.handleSetCommand(parts[1:])
		return m, cmd
	case "help":
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case "quit", "exit":
		m.quitting = true
		return m, tea.Quit
	default:
		m.setFeedback(fmt.Sprintf("Unknown command: %s", parts[0]), true)
		return m, nil
	}
}

func (m model) handleModeCommand(args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		m.setFeedback(fmt.Sprintf("Current mode: %s", m.store.Mode()), false)
		return m, nil
	}
	mode, err := domain.ParseMode(strings.Join(args, " "))
	if err != nil {
		m.setFeedback(err.Error(), true)
		return m, nil
	}
	cmd := m.selectMode(mode)
	m.setFeedback(fmt.Sprintf("✓ Mode: %s", mode.Label()), false)
	return m, cmd
}

func (m model) handleLoadCommand(args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		m.setFeedback("Usage: load <customers|sales|products|sold|orders>", true)
		return m, nil
	}
	ds, err := domain.ParseDataset(args[0])
	if err != nil {
		m.setFeedback(err.Error(), true)
		return m, nil
	}
	cmd := m.beginGridLoad(ds)
	if cmd == nil {
		m.setFeedback("Busy: a request is already in progress", true)
	}
	return m, cmd
}

// handleSetCommand processes "set" and "set name=value"
func (m *model) handleSetCommand(args []string) tea.Cmd {
	if len(args) == 0 {
		m.setFeedback(fmt.Sprintf("Current settings: %s", strings.Join(m.cfg.SortedSettings(), ", ")), false)
		return nil
	}

	arg := strings.Join(args, " ")
	parts := strings.SplitN(arg, "=", 2)
	if len(parts) != 2 {
		m.setFeedback("Usage: set <setting>=<value> or just 'set' to list all settings", true)
		return nil
	}
	name := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])

	if err := m.cfg.ValidateAndUpdateSetting(name, value); err != nil {
		m.setFeedback(err.Error(), true)
		return nil
	}
	m.setFeedback(fmt.Sprintf("✓ %s set to: %s", name, value), false)
	logging.Info("Setting updated", "setting", name, "value", value)

	switch name {
	case "mode":
		mode, _ := domain.ParseMode(m.cfg.Mode)
		return m.selectMode(mode)
	case "maxTokens", "temperature":
		if !m.store.UpdateSettings(m.cfg.MaxTokens, m.cfg.Temperature) {
			return nil
		}
		return fetchAssistantID(m.backend, m.store.NewAssistantIDTicket(), m.timeout)
	case "theme":
		m.renderer = m.newRenderer()
		m.refreshTranscript()
	}
	return nil
}
