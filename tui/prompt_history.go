package tui

// In-memory prompt history for the chat input

import (
	"strings"
	"time"

	"github.com/FBakkensen/aw-viewer-tui/domain"
)

// HistoryEntry is one submitted prompt
type HistoryEntry struct {
	Prompt    string
	Mode      domain.Mode
	Timestamp time.Time
}

// PromptHistory keeps submitted prompts, most recent first. Nothing is persisted.
type PromptHistory struct {
	entries    []HistoryEntry
	maxEntries int
	// cursor is -1 when not browsing, otherwise the index of the recalled entry.
	cursor int
}

// NewPromptHistory creates an empty history holding at most maxEntries prompts
func NewPromptHistory(maxEntries int) *PromptHistory {
	if maxEntries <= 0 {
		maxEntries = 100
	}
	return &PromptHistory{
		entries:    make([]HistoryEntry, 0),
		maxEntries: maxEntries,
		cursor:     -1,
	}
}

// Add records a prompt and stops browsing. Blank prompts and immediate repeats are skipped.
func (h *PromptHistory) Add(prompt string, mode domain.Mode) {
	h.cursor = -1
	if strings.TrimSpace(prompt) == "" {
		return
	}
	if len(h.entries) > 0 && h.entries[0].Prompt == prompt {
		h.entries[0].Mode = mode
		h.entries[0].Timestamp = time.Now()
		return
	}

	entry := HistoryEntry{Prompt: prompt, Mode: mode, Timestamp: time.Now()}
	h.entries = append([]HistoryEntry{entry}, h.entries...)
	if len(h.entries) > h.maxEntries {
		h.entries = h.entries[:h.maxEntries]
	}
}

// Prev steps to the next older prompt. It returns false at the oldest entry.
func (h *PromptHistory) Prev() (string, bool) {
	if h.cursor+1 >= len(h.entries) {
		return "", false
	}
	h.cursor++
	return h.entries[h.cursor].Prompt, true
}

// Next steps to the next newer prompt. Stepping past the newest returns an
// empty prompt and ends browsing.
func (h *PromptHistory) Next() (string, bool) {
	if h.cursor < 0 {
		return "", false
	}
	h.cursor--
	if h.cursor < 0 {
		return "", true
	}
	return h.entries[h.cursor].Prompt, true
}

// Entry returns a prompt by index (0 = most recent)
func (h *PromptHistory) Entry(index int) (HistoryEntry, bool) {
	if index < 0 || index >= len(h.entries) {
		return HistoryEntry{}, false
	}
	return h.entries[index], true
}

// Count returns the number of prompts in history
func (h *PromptHistory) Count() int {
	return len(h.entries)
}

// Clear removes all prompts
func (h *PromptHistory) Clear() {
	h.entries = make([]HistoryEntry, 0)
	h.cursor = -1
}
