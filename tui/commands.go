package tui

// Backend calls wrapped as Bubble Tea commands

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/FBakkensen/aw-viewer-tui/domain"
	"github.com/FBakkensen/aw-viewer-tui/store"
)

// countsMsg is sent when the startup counts fetch completes
type countsMsg struct {
	counts domain.RecordCounts
	err    error
}

// gridLoadedMsg is sent when a dataset load completes
type gridLoadedMsg struct {
	ticket   store.Ticket
	data     domain.GridData
	err      error
	duration time.Duration
}

// assistantIDMsg is sent when an identity fetch completes
type assistantIDMsg struct {
	ticket store.Ticket
	id     string
	err    error
}

// chatResultMsg is sent when a chat turn completes
type chatResultMsg struct {
	ticket   store.Ticket
	replies  []domain.Reply
	err      error
	duration time.Duration
}

// requestContext bounds a call by timeout; zero leaves it to the transport.
func requestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

func fetchCounts(b Backend, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()

		counts, err := b.Counts(ctx)
		return countsMsg{counts: counts, err: err}
	}
}

func loadDataset(b Backend, t store.Ticket, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		ctx, cancel := requestContext(timeout)
		defer cancel()

		data, err := b.Dataset(ctx, t.Dataset)
		return gridLoadedMsg{ticket: t, data: data, err: err, duration: time.Since(start)}
	}
}

func fetchAssistantID(b Backend, t store.Ticket, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()

		id, err := b.AssistantID(ctx)
		return assistantIDMsg{ticket: t, id: id, err: err}
	}
}

func submitChat(b Backend, t store.Ticket, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		ctx, cancel := requestContext(timeout)
		defer cancel()

		replies, err := b.Chat(ctx, t.Mode, t.Input)
		return chatResultMsg{ticket: t, replies: replies, err: err, duration: time.Since(start)}
	}
}
