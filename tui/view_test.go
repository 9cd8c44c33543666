package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/FBakkensen/aw-viewer-tui/domain"
)

func TestView_BasicOutput(t *testing.T) {
	m := newTestModel(t, newFakeBackend())
	m.store.SetCounts(domain.RecordCounts{Customers: 847, TopCustomers: 10, Products: 1234, TopProducts: 10, OrderDetails: 542})

	output := m.View()

	for _, want := range []string{AppTitle, "No AI", "Sqlbot", "Assistants API", "Multi-agent", "[F1]", "Customers 847", "Products 1,234", "Orders 542", "Online", "Mode: Chatbot"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
	if strings.Contains(output, "Assistant: ") {
		t.Error("assistant identity must be hidden in Chatbot mode")
	}
}

func TestView_AssistantIdentityFooter(t *testing.T) {
	tests := []struct {
		mode domain.Mode
		show bool
	}{
		{domain.ModeNoAI, false},
		{domain.ModeChatbot, false},
		{domain.ModeSqlBot, false},
		{domain.ModeAssistant, true},
		{domain.ModeMultiAgent, true},
	}
	for _, tc := range tests {
		t.Run(tc.mode.String(), func(t *testing.T) {
			m := newTestModel(t, newFakeBackend())
			m.store.SetMode(tc.mode)
			m.store.SetAssistantID(m.store.NewAssistantIDTicket(), "asst_abc")

			footer := m.viewFooter()
			if got := strings.Contains(footer, "asst_abc"); got != tc.show {
				t.Errorf("identity shown = %v, want %v (footer %q)", got, tc.show, footer)
			}
			if !strings.Contains(footer, "Mode: "+tc.mode.String()) {
				t.Errorf("footer missing mode: %q", footer)
			}
		})
	}
}

func TestView_NoAIHidesChatPanel(t *testing.T) {
	m := newTestModel(t, newFakeBackend())
	m.palette = true
	m.paletteInput = "mode noai"
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(model)

	if m.chatVisible() {
		t.Fatal("chat panel should be hidden in NoAI")
	}
	if m.gridWidth() != m.width {
		t.Errorf("grid width = %d, want full width %d", m.gridWidth(), m.width)
	}
	if m.focus != focusGrid {
		t.Error("focus should move to the grid in NoAI")
	}
	if strings.Contains(m.View(), m.ta.Placeholder) {
		t.Error("input should not be rendered in NoAI")
	}

	m.palette = true
	m.paletteInput = "mode sql"
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(model)
	if m.gridWidth() != m.width*2/3 {
		t.Errorf("grid width = %d, want two thirds", m.gridWidth())
	}
}

func TestView_BusyBadge(t *testing.T) {
	m := newTestModel(t, newFakeBackend())
	if m.badgeStyle().GetBackground() != onlineStyle.GetBackground() {
		t.Error("idle badge should use the online style")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyF1})
	if m.badgeStyle().GetBackground() != busyStyle.GetBackground() {
		t.Error("badge should turn red while a request is in flight")
	}
	if !strings.Contains(m.viewFooter(), "Online") {
		t.Error("badge text missing while busy")
	}
}

func TestView_TranscriptRoles(t *testing.T) {
	m := newTestModel(t, newFakeBackend())
	tk := m.store.NewAssistantIDTicket()
	tk.Mode = domain.ModeAssistant
	m.store.FinishChat(tk, []domain.Reply{
		{Role: "user", Content: domain.StrPtr("Create a chart")},
		{Role: "assistant", Content: domain.StrPtr("Here is the <b>chart</b> you asked for")},
		{Role: "image", Content: domain.StrPtr("/assets/images/chart.png")},
	}, nil)
	m.refreshTranscript()

	out := m.renderTranscript(80)
	for _, want := range []string{"Create a chart", "Assistant:", "Here is the chart you asked for", "[image] http://backend.test/assets/images/chart.png"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in transcript:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<b>") {
		t.Error("html must be stripped from assistant text")
	}
}

func TestView_ImageURL(t *testing.T) {
	m := newTestModel(t, newFakeBackend())
	tests := map[string]string{
		"/assets/a.png":             "http://backend.test/assets/a.png",
		"assets/a.png":              "http://backend.test/assets/a.png",
		"https://cdn.example/a.png": "https://cdn.example/a.png",
	}
	for in, want := range tests {
		if got := m.imageURL(in); got != want {
			t.Errorf("imageURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestView_PaletteRendering(t *testing.T) {
	m := newTestModel(t, newFakeBackend())
	m.palette = true
	m.paletteInput = "load"

	output := m.View()
	if !strings.Contains(output, "> load") {
		t.Errorf("expected palette input in output")
	}
	if !strings.Contains(output, "load customers") {
		t.Errorf("expected suggestions in output")
	}
}
