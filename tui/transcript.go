package tui

// Transcript rendering for the chat panel

import (
	"html"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/FBakkensen/aw-viewer-tui/domain"
	"github.com/FBakkensen/aw-viewer-tui/logging"
	"github.com/FBakkensen/aw-viewer-tui/store"
)

// newRenderer builds the Markdown renderer for the configured theme and the
// current chat width. It returns nil when glamour cannot be set up, in which
// case assistant text is shown as-is.
func (m model) newRenderer() *glamour.TermRenderer {
	style := strings.ToLower(m.cfg.Theme)
	switch style {
	case "dark", "light", "notty":
	default:
		style = "dark"
		if !lipgloss.HasDarkBackground() {
			style = "light"
		}
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(max(m.chatWidth()-6, 20)),
	)
	if err != nil {
		logging.Error("Failed to create markdown renderer", "style", style, "error", err.Error())
		return nil
	}
	return r
}

// stripHTML removes any markup the backend put in assistant text. The policy
// escapes entities, which are folded back so code blocks read naturally.
func (m model) stripHTML(s string) string {
	if m.sanitizer == nil {
		return s
	}
	return html.UnescapeString(m.sanitizer.Sanitize(s))
}

func (m model) renderMarkdown(s string) string {
	clean := m.stripHTML(s)
	if m.renderer == nil {
		return clean
	}
	out, err := m.renderer.Render(clean)
	if err != nil {
		logging.Warn("Markdown render failed, showing raw text", "error", err.Error())
		return clean
	}
	return strings.Trim(out, "\n")
}

// imageURL resolves a backend-relative image path against the base URL.
func (m model) imageURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base := strings.TrimRight(m.cfg.BaseURL, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

func (m model) renderUserBubble(text string, width int) string {
	bubbleWidth := min(lipgloss.Width(text)+4, max(width*2/3, 10))
	bubble := userBubbleStyle.Width(max(bubbleWidth-2, 1)).Render(text)
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble)
}

func (m model) renderMessage(msg domain.ChatMessage, width int) string {
	switch msg.Role {
	case domain.RoleUser:
		return m.renderUserBubble(msg.Text(), width)
	case domain.RoleImage:
		return imageStyle.Render("[image] " + m.imageURL(msg.Text()))
	default:
		label := "Assistant:"
		if msg.Mode != nil {
			label = msg.Mode.String() + ":"
		}
		if msg.Content == nil {
			return aiLabelStyle.Render(label)
		}
		return aiLabelStyle.Render(label) + "\n" + m.renderMarkdown(msg.Text())
	}
}

// renderTranscript draws every transcript entry in order, followed by the
// loading bubble while a chat turn is in flight.
func (m model) renderTranscript(width int) string {
	var b strings.Builder
	for i, msg := range m.store.Transcript() {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.renderMessage(msg, width))
	}
	if m.store.ShowChatIndicator() {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.renderUserBubble(m.store.PendingInput(), width))
		b.WriteString("\n")
		b.WriteString(m.spin.View() + " " + pendingStyle.Render(m.store.Mode().String()+" is thinking…"))
	}
	return b.String()
}

// refreshTranscript re-renders the chat panel and keeps it scrolled to the end.
func (m *model) refreshTranscript() {
	m.vp.SetContent(m.renderTranscript(m.vp.Width))
	m.vp.GotoBottom()
}

// lastAssistantText returns the most recent assistant answer, skipping the
// pointer to the grid.
func (m model) lastAssistantText() (string, bool) {
	t := m.store.Transcript()
	for i := len(t) - 1; i >= 0; i-- {
		if t[i].Role == domain.RoleAssistant && t[i].Content != nil && t[i].Text() != store.GridCheckMessage {
			return t[i].Text(), true
		}
	}
	return "", false
}
