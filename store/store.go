package store

// View state for the viewer. All mutations happen through methods called from
// the UI event loop, one call per event, so no partial update is observable.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/FBakkensen/aw-viewer-tui/domain"
)

var (
	// ErrBusy is returned when a request is already in flight.
	ErrBusy = errors.New("a request is already in progress")
	// ErrNoEndpoint is returned when the active mode has no chat endpoint.
	ErrNoEndpoint = domain.ErrNoEndpoint
)

// GridCheckMessage is appended after a tabular chat answer.
const GridCheckMessage = "Please check the grid for the answer"

// RequestKind names the operation a ticket belongs to.
type RequestKind string

const (
	KindGrid        RequestKind = "grid"
	KindChat        RequestKind = "chat"
	KindAssistantID RequestKind = "assistant-id"
	KindCounts      RequestKind = "counts"
)

// Ticket identifies one issued request.
type Ticket struct {
	ID         string
	Kind       RequestKind
	Generation uint64
	Mode       domain.Mode
	Dataset    domain.Dataset
	Input      string
}

// Options tune the request guards.
type Options struct {
	// ExclusiveRequests makes a grid load and a chat turn block each other.
	ExclusiveRequests bool
	// DiscardStale drops chat and identity responses issued before the last mode change.
	DiscardStale bool
	// ErrorBanner shows failures in the footer. Off, failures are only logged.
	ErrorBanner bool
}

// DefaultOptions keeps the single shared lock, applies every response and
// keeps failures out of the UI.
func DefaultOptions() Options {
	return Options{ExclusiveRequests: true}
}

// Store holds everything the view renders.
type Store struct {
	opts        Options
	settings    domain.Settings
	counts      domain.RecordCounts
	grid        domain.GridData
	transcript  []domain.ChatMessage
	assistantID string
	input       string

	gridLoading bool
	chatPending bool
	pending     Ticket
	generation  uint64
	banner      string
}

// New creates a store with the given settings.
func New(settings domain.Settings, opts Options) Store {
	return Store{
		opts:       opts,
		settings:   settings,
		transcript: []domain.ChatMessage{},
	}
}

func (s *Store) newTicket(kind RequestKind) Ticket {
	return Ticket{
		ID:         uuid.New().String(),
		Kind:       kind,
		Generation: s.generation,
		Mode:       s.settings.Mode,
	}
}

// Settings returns the current settings.
func (s *Store) Settings() domain.Settings { return s.settings }

// Mode returns the active mode.
func (s *Store) Mode() domain.Mode { return s.settings.Mode }

// Options returns the guard options.
func (s *Store) Options() Options { return s.opts }

// SetMode switches the active mode. It returns false when the mode is unchanged.
// Transcript and grid are left alone.
func (s *Store) SetMode(m domain.Mode) bool {
	if s.settings.Mode == m {
		return false
	}
	s.settings.Mode = m
	s.generation++
	s.banner = ""
	return true
}

// UpdateSettings replaces the numeric settings. It returns false when nothing changed.
func (s *Store) UpdateSettings(maxTokens int, temperature float64) bool {
	if s.settings.MaxTokens == maxTokens && s.settings.Temperature == temperature {
		return false
	}
	s.settings.MaxTokens = maxTokens
	s.settings.Temperature = temperature
	return true
}

// Processing reports whether any request guarded by the loader or chat is in flight.
func (s *Store) Processing() bool { return s.gridLoading || s.chatPending }

// GridLoading reports whether a grid load is in flight.
func (s *Store) GridLoading() bool { return s.gridLoading }

// ChatPending reports whether a chat turn is in flight.
func (s *Store) ChatPending() bool { return s.chatPending }

// ShowChatIndicator reports whether the transcript should show the loading bubble.
func (s *Store) ShowChatIndicator() bool {
	return s.chatPending && !s.gridLoading && s.settings.Mode != domain.ModeNoAI
}

// PendingInput returns the text submitted by the in-flight chat turn.
func (s *Store) PendingInput() string {
	if !s.chatPending {
		return ""
	}
	return s.pending.Input
}

func (s *Store) gridBlocked() bool {
	if s.opts.ExclusiveRequests {
		return s.Processing()
	}
	return s.gridLoading
}

func (s *Store) chatBlocked() bool {
	if s.opts.ExclusiveRequests {
		return s.Processing()
	}
	return s.chatPending
}

// BeginGridLoad starts loading ds. It returns false, changing nothing, while blocked.
// On success the grid is cleared immediately.
func (s *Store) BeginGridLoad(ds domain.Dataset) (Ticket, bool) {
	if s.gridBlocked() {
		return Ticket{}, false
	}
	t := s.newTicket(KindGrid)
	t.Dataset = ds
	s.gridLoading = true
	s.grid = domain.GridData{}
	s.banner = ""
	return t, true
}

// FinishGridLoad applies a grid response and releases the grid guard. On error
// the grid stays empty.
func (s *Store) FinishGridLoad(t Ticket, data domain.GridData, err error) {
	s.gridLoading = false
	if err != nil {
		s.SetBanner(fmt.Sprintf("Loading %s failed: %v", t.Dataset.Title(), err))
		return
	}
	s.grid = data
}

// BeginChat starts a chat turn with the current input. ErrBusy leaves everything
// untouched; ErrNoEndpoint clears the input like any finished turn.
func (s *Store) BeginChat() (Ticket, error) {
	if s.chatBlocked() {
		return Ticket{}, ErrBusy
	}
	if _, ok := s.settings.Mode.Endpoint(); !ok {
		s.input = ""
		s.SetBanner(ErrNoEndpoint.Error())
		return Ticket{}, ErrNoEndpoint
	}
	t := s.newTicket(KindChat)
	t.Input = s.input
	s.pending = t
	s.chatPending = true
	s.banner = ""
	return t, nil
}

// Stale reports whether t was issued before the last mode change.
func (s *Store) Stale(t Ticket) bool {
	return t.Generation != s.generation
}

// FinishChat applies a chat response, clears the input and releases the chat guard.
// It returns the number of transcript entries appended.
func (s *Store) FinishChat(t Ticket, replies []domain.Reply, err error) int {
	s.chatPending = false
	s.pending = Ticket{}
	s.input = ""
	if err != nil {
		s.SetBanner(fmt.Sprintf("%s request failed: %v", t.Mode, err))
		return 0
	}
	if s.opts.DiscardStale && s.Stale(t) {
		return 0
	}
	before := len(s.transcript)
	for _, r := range replies {
		role := domain.MapRole(r.Role)
		switch role {
		case domain.RoleUser:
			s.transcript = append(s.transcript, domain.ChatMessage{Role: domain.RoleUser, Content: r.Content})
		case domain.RoleImage:
			s.transcript = append(s.transcript, domain.ImageMessage(r.Content))
		default:
			s.transcript = append(s.transcript, domain.AssistantMessage(t.Mode, r.Content))
			// Only a literal assistant reply carries the grid answer.
			if t.Mode.ReturnsGrid() && r.HasTable() && isAssistantRole(r.Role) {
				if len(r.Rows) > 0 {
					s.grid = domain.GridData{Columns: r.Columns, Rows: r.Rows}
					s.transcript = append(s.transcript, domain.AssistantMessage(t.Mode, domain.StrPtr(GridCheckMessage)))
				} else {
					s.grid = domain.GridData{}
				}
			}
		}
	}
	return len(s.transcript) - before
}

// SetAssistantID applies an identity response. It returns false when the
// response was dropped as stale.
func (s *Store) SetAssistantID(t Ticket, id string) bool {
	if s.opts.DiscardStale && s.Stale(t) {
		return false
	}
	s.assistantID = id
	return true
}

// NewAssistantIDTicket issues a ticket for an identity refetch.
func (s *Store) NewAssistantIDTicket() Ticket { return s.newTicket(KindAssistantID) }

// NewCountsTicket issues a ticket for the startup counts fetch.
func (s *Store) NewCountsTicket() Ticket { return s.newTicket(KindCounts) }

// AssistantID returns the last known assistant identity.
func (s *Store) AssistantID() string { return s.assistantID }

// SetCounts replaces the record counts.
func (s *Store) SetCounts(c domain.RecordCounts) { s.counts = c }

// Counts returns the record counts.
func (s *Store) Counts() domain.RecordCounts { return s.counts }

// Grid returns the current grid contents.
func (s *Store) Grid() domain.GridData { return s.grid }

// Transcript returns the chat transcript in order.
func (s *Store) Transcript() []domain.ChatMessage { return s.transcript }

// ClearMessages empties the transcript. Grid and counts are untouched.
func (s *Store) ClearMessages() {
	s.transcript = []domain.ChatMessage{}
	s.banner = ""
}

// SetInput replaces the input buffer.
func (s *Store) SetInput(v string) { s.input = v }

// Input returns the input buffer.
func (s *Store) Input() string { return s.input }

// Banner returns the transient error text, if any.
func (s *Store) Banner() string { return s.banner }

// SetBanner records a transient error text when ErrorBanner is on.
func (s *Store) SetBanner(msg string) {
	if !s.opts.ErrorBanner {
		return
	}
	s.banner = msg
}

// ClearBanner dismisses the error banner.
func (s *Store) ClearBanner() { s.banner = "" }

func isAssistantRole(role string) bool {
	return strings.EqualFold(strings.TrimSpace(role), string(domain.RoleAssistant))
}
