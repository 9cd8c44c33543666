package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/FBakkensen/aw-viewer-tui/domain"
	"github.com/FBakkensen/aw-viewer-tui/internal/rowdetail"
)

// Rows taken by header, mode bar, tiles, palette/feedback line, footer and help.
const chromeRows = 8

func (m model) chatVisible() bool {
	return m.store.Mode() != domain.ModeNoAI
}

func (m model) gridWidth() int {
	if !m.chatVisible() {
		return m.width
	}
	return m.width * 2 / 3
}

func (m model) chatWidth() int {
	if !m.chatVisible() {
		return 0
	}
	return m.width - m.gridWidth()
}

// layout sizes the panes for the current window and mode.
func (m *model) layout() {
	inputRows := 0
	if m.chatVisible() {
		inputRows = m.ta.Height() + 1
	}
	bodyHeight := max(m.height-chromeRows-inputRows, 6)

	m.grid.SetSize(m.gridWidth(), bodyHeight)
	m.vp.Width = max(m.chatWidth()-2, 1)
	m.vp.Height = max(bodyHeight-2, 1)
	m.ta.SetWidth(max(m.width-2, 10))
	m.detailVP.Width = max(m.width*2/3, 30)
	m.detailVP.Height = max(m.height-chromeRows-6, 5)
	m.help.Width = m.width
}

// View renders header, tiles, grid and chat panes, and the footer.
func (m model) View() string {
	if m.quitting {
		return ""
	}
	parts := []string{m.viewHeader(), m.viewModeBar(), m.viewTiles()}
	if m.overlay != overlayNone {
		parts = append(parts, m.viewOverlay())
	} else {
		parts = append(parts, m.viewBody())
		if m.chatVisible() {
			parts = append(parts, inputBoxStyle.Width(max(m.width-2, 10)).Render(m.ta.View()))
		}
	}
	if m.palette {
		parts = append(parts, m.viewPalette())
	} else if m.feedback != "" {
		style := feedbackStyle
		if m.feedbackIsError {
			style = feedbackErrSty
		}
		parts = append(parts, style.Render(m.feedback))
	}
	parts = append(parts, m.viewFooter(), m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m model) viewHeader() string {
	return headerStyle.Width(max(m.width, lipgloss.Width(AppTitle)+2)).Render(AppTitle)
}

func (m model) viewModeBar() string {
	active := m.store.Mode()
	items := make([]string, 0, len(domain.AllModes))
	for _, mode := range domain.AllModes {
		label := mode.Label()
		if mode == active {
			items = append(items, modeActiveStyle.Render("◉ "+label))
		} else {
			items = append(items, modeInactiveStyle.Render("○ "+label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}

func tileLabel(i int, ds domain.Dataset, counts domain.RecordCounts) string {
	return fmt.Sprintf("%s %s %s", tileKeyStyle.Render(fmt.Sprintf("[F%d]", i+1)), ds.Title(), humanize.Comma(int64(ds.Count(counts))))
}

func (m model) viewTiles() string {
	counts := m.store.Counts()
	tiles := make([]string, 0, len(domain.AllDatasets))
	for i, ds := range domain.AllDatasets {
		tiles = append(tiles, tileStyle.Render(tileLabel(i, ds, counts)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}

func (m model) viewBody() string {
	grid := m.grid.View()
	if !m.chatVisible() {
		return grid
	}
	border := chatBorderStyle
	if m.focus == focusInput {
		border = border.BorderForeground(lipgloss.Color("39"))
	}
	chat := border.Width(m.vp.Width).Height(m.vp.Height).Render(m.vp.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, grid, chat)
}

func (m model) viewPalette() string {
	var b strings.Builder
	b.WriteString("> " + m.paletteInput + "▏")
	for i, s := range suggestions(m.paletteInput) {
		b.WriteString("\n")
		if i == 0 {
			b.WriteString(activeSuggestionStyle.Render("  " + s))
		} else {
			b.WriteString(suggestionStyle.Render("  " + s))
		}
	}
	return paletteStyle.Width(max(m.width/2, 30)).Render(b.String())
}

func (m model) viewOverlay() string {
	var content string
	switch m.overlay {
	case overlayModeHelp:
		mode := m.store.Mode()
		content = overlayTitleStyle.Render(mode.Label()) + "\n\n" + mode.Help() + "\n\n" + footerStyle.Render("esc to close")
	case overlayRowDetail:
		content = overlayTitleStyle.Render(m.detailTitle) + "\n\n" + m.detailVP.View() + "\n\n" +
			footerStyle.Render("↑/↓ scroll • ctrl+y copy JSON • esc to close")
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, overlayStyle.Render(content))
}

// renderDetailFields lists flattened row fields, extra keys under their own heading.
func (m model) renderDetailFields() string {
	width := 0
	for _, f := range m.detailFields {
		width = max(width, lipgloss.Width(f.Key))
	}
	var b strings.Builder
	extra := false
	for i, f := range m.detailFields {
		if f.Group == rowdetail.GroupExtra && !extra {
			extra = true
			b.WriteString(detailGroupStyle.Render("Other fields") + "\n")
		}
		key := f.Key + strings.Repeat(" ", width-lipgloss.Width(f.Key))
		b.WriteString(detailKeyStyle.Render(key) + "  " + f.Value)
		if i < len(m.detailFields)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// badgeStyle turns the status badge red while any request is in flight.
func (m model) badgeStyle() lipgloss.Style {
	if m.store.Processing() {
		return busyStyle
	}
	return onlineStyle
}

func (m model) viewFooter() string {
	parts := []string{m.badgeStyle().Render("Online"), footerStyle.Render("Mode: " + m.store.Mode().String())}
	if m.store.Mode().ShowsAssistantID() {
		parts = append(parts, footerStyle.Render("Assistant: "+m.store.AssistantID()))
	}
	if banner := m.store.Banner(); banner != "" {
		parts = append(parts, bannerStyle.Render("⚠ "+banner))
	}
	return strings.Join(parts, "  ")
}
