package tui

import (
	"fmt"
	"testing"

	"github.com/FBakkensen/aw-viewer-tui/domain"
)

func TestPromptHistory_AddAndRecall(t *testing.T) {
	h := NewPromptHistory(10)

	h.Add("first", domain.ModeChatbot)
	h.Add("second", domain.ModeSqlBot)
	h.Add("   ", domain.ModeSqlBot)
	h.Add("second", domain.ModeMultiAgent)

	if h.Count() != 2 {
		t.Fatalf("Expected 2 entries, got %d", h.Count())
	}
	if e, _ := h.Entry(0); e.Prompt != "second" || e.Mode != domain.ModeMultiAgent {
		t.Errorf("most recent = %+v", e)
	}

	steps := []struct {
		prev bool
		want string
		ok   bool
	}{
		{true, "second", true},
		{true, "first", true},
		{true, "", false},
		{false, "second", true},
		{false, "", true},
		{false, "", false},
	}
	for i, s := range steps {
		var got string
		var ok bool
		if s.prev {
			got, ok = h.Prev()
		} else {
			got, ok = h.Next()
		}
		if got != s.want || ok != s.ok {
			t.Errorf("step %d: got (%q, %v), want (%q, %v)", i, got, ok, s.want, s.ok)
		}
	}
}

func TestPromptHistory_MaxEntries(t *testing.T) {
	h := NewPromptHistory(3)
	for i := 0; i < 5; i++ {
		h.Add(fmt.Sprintf("prompt %d", i), domain.ModeChatbot)
	}
	if h.Count() != 3 {
		t.Errorf("Expected 3 entries, got %d", h.Count())
	}
	if e, _ := h.Entry(2); e.Prompt != "prompt 2" {
		t.Errorf("oldest kept = %q", e.Prompt)
	}
	if _, ok := h.Entry(3); ok {
		t.Error("Expected out-of-range entry to be missing")
	}
}

func TestPromptHistory_AddResetsBrowsing(t *testing.T) {
	h := NewPromptHistory(5)
	h.Add("a", domain.ModeChatbot)
	h.Add("b", domain.ModeChatbot)
	h.Prev()
	h.Prev()

	h.Add("c", domain.ModeChatbot)
	if got, _ := h.Prev(); got != "c" {
		t.Errorf("Prev after Add = %q, want c", got)
	}

	h.Clear()
	if h.Count() != 0 {
		t.Error("Expected empty history after Clear")
	}
	if _, ok := h.Prev(); ok {
		t.Error("Expected nothing to recall after Clear")
	}
}
