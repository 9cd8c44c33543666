package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/FBakkensen/aw-viewer-tui/domain"
)

func newStore(mode domain.Mode) Store {
	s := domain.DefaultSettings()
	s.Mode = mode
	return New(s, DefaultOptions())
}

func newBannerStore(mode domain.Mode) Store {
	s := domain.DefaultSettings()
	s.Mode = mode
	opts := DefaultOptions()
	opts.ErrorBanner = true
	return New(s, opts)
}

func sampleGrid() domain.GridData {
	return domain.GridData{
		Columns: []domain.Column{{Key: "ProductID", Name: "ProductID", Resizable: true}},
		Rows:    []domain.Row{{"ProductID": "680"}, {"ProductID": "706"}},
	}
}

func TestGridLoader(t *testing.T) {
	t.Run("clears grid on start and replaces on finish", func(t *testing.T) {
		s := newStore(domain.ModeChatbot)
		s.grid = sampleGrid()

		tk, ok := s.BeginGridLoad(domain.DatasetProducts)
		if !ok {
			t.Fatal("expected load to start")
		}
		if !s.Grid().Empty() {
			t.Error("grid must be cleared when a load starts")
		}
		if !s.Processing() || !s.GridLoading() {
			t.Error("expected loading flags set")
		}

		s.FinishGridLoad(tk, sampleGrid(), nil)
		if len(s.Grid().Rows) != 2 {
			t.Errorf("expected 2 rows, got %d", len(s.Grid().Rows))
		}
		if s.Processing() || s.GridLoading() {
			t.Error("flags must be released after completion")
		}
	})

	t.Run("second load while busy is a no-op for every dataset", func(t *testing.T) {
		for _, ds := range domain.AllDatasets {
			s := newStore(domain.ModeChatbot)
			first, ok := s.BeginGridLoad(domain.DatasetCustomers)
			if !ok {
				t.Fatal("first load rejected")
			}
			if _, ok := s.BeginGridLoad(ds); ok {
				t.Errorf("%s: second load accepted while busy", ds.ID())
			}
			s.FinishGridLoad(first, sampleGrid(), nil)
			if s.Processing() {
				t.Errorf("%s: still processing", ds.ID())
			}
		}
	})

	t.Run("failure leaves grid empty and releases guard", func(t *testing.T) {
		s := newStore(domain.ModeChatbot)
		s.grid = sampleGrid()
		tk, _ := s.BeginGridLoad(domain.DatasetOrders)
		s.FinishGridLoad(tk, domain.GridData{}, errors.New("connection refused"))

		if !s.Grid().Empty() {
			t.Error("grid must stay empty after a failed load")
		}
		if s.Processing() {
			t.Error("guard not released")
		}
		if s.Banner() != "" {
			t.Errorf("failures are log-only by default, banner = %q", s.Banner())
		}
	})

	t.Run("chat in flight blocks grid when exclusive", func(t *testing.T) {
		s := newStore(domain.ModeChatbot)
		s.SetInput("hi")
		if _, err := s.BeginChat(); err != nil {
			t.Fatal(err)
		}
		if _, ok := s.BeginGridLoad(domain.DatasetCustomers); ok {
			t.Error("grid load accepted while chat pending")
		}
	})

	t.Run("independent guards when not exclusive", func(t *testing.T) {
		s := New(domain.DefaultSettings(), Options{ExclusiveRequests: false})
		s.SetInput("hi")
		if _, err := s.BeginChat(); err != nil {
			t.Fatal(err)
		}
		if _, ok := s.BeginGridLoad(domain.DatasetCustomers); !ok {
			t.Error("grid load rejected although only chat is pending")
		}
		if _, err := s.BeginChat(); !errors.Is(err, ErrBusy) {
			t.Errorf("second chat: err = %v, want ErrBusy", err)
		}
		if s.ShowChatIndicator() {
			t.Error("indicator must be hidden while the grid reloads")
		}
	})
}

func TestBeginChat(t *testing.T) {
	t.Run("NoAI fails fast and clears input", func(t *testing.T) {
		s := newStore(domain.ModeNoAI)
		s.SetInput("anything")
		_, err := s.BeginChat()
		if !errors.Is(err, ErrNoEndpoint) {
			t.Fatalf("err = %v, want ErrNoEndpoint", err)
		}
		if s.Input() != "" {
			t.Errorf("input = %q, want empty", s.Input())
		}
		if s.Processing() {
			t.Error("NoAI submit must not mark processing")
		}
	})

	t.Run("busy leaves input untouched", func(t *testing.T) {
		s := newStore(domain.ModeChatbot)
		tk, _ := s.BeginGridLoad(domain.DatasetCustomers)
		s.SetInput("wait for me")
		if _, err := s.BeginChat(); !errors.Is(err, ErrBusy) {
			t.Fatalf("err = %v, want ErrBusy", err)
		}
		if s.Input() != "wait for me" {
			t.Errorf("input changed to %q", s.Input())
		}
		s.FinishGridLoad(tk, sampleGrid(), nil)
	})

	t.Run("pending input and indicator", func(t *testing.T) {
		s := newStore(domain.ModeChatbot)
		s.SetInput("Top 5 products?")
		tk, err := s.BeginChat()
		if err != nil {
			t.Fatal(err)
		}
		if tk.ID == "" || tk.Kind != KindChat || tk.Mode != domain.ModeChatbot {
			t.Errorf("unexpected ticket %+v", tk)
		}
		if s.PendingInput() != "Top 5 products?" {
			t.Errorf("PendingInput = %q", s.PendingInput())
		}
		if !s.ShowChatIndicator() {
			t.Error("expected chat indicator")
		}
	})
}

func TestFinishChat(t *testing.T) {
	t.Run("chatbot scenario", func(t *testing.T) {
		s := newStore(domain.ModeChatbot)
		s.SetInput("Top 5 products?")
		tk, _ := s.BeginChat()

		n := s.FinishChat(tk, []domain.Reply{{Role: "assistant", Content: domain.StrPtr("Road-150")}}, nil)

		if n != 1 {
			t.Fatalf("appended %d entries, want 1", n)
		}
		msg := s.Transcript()[0]
		if msg.Role != domain.RoleAssistant || msg.Mode == nil || *msg.Mode != domain.ModeChatbot {
			t.Errorf("unexpected entry %+v", msg)
		}
		if s.Input() != "" || s.Processing() {
			t.Error("input not reset or guard not released")
		}
	})

	t.Run("N replies append N entries in order", func(t *testing.T) {
		s := newStore(domain.ModeAssistant)
		s.grid = sampleGrid()
		tk, _ := s.BeginChat()
		replies := []domain.Reply{
			{Role: "user", Content: domain.StrPtr("chart please")},
			{Role: "assistant", Content: domain.StrPtr("Here it is")},
			{Role: "image", Content: domain.StrPtr("/assets/chart.png")},
		}

		if n := s.FinishChat(tk, replies, nil); n != 3 {
			t.Fatalf("appended %d, want 3", n)
		}
		tr := s.Transcript()
		if tr[0].Role != domain.RoleUser || tr[0].Mode != nil {
			t.Errorf("entry 0 = %+v", tr[0])
		}
		if tr[1].Role != domain.RoleAssistant || *tr[1].Mode != domain.ModeAssistant {
			t.Errorf("entry 1 = %+v", tr[1])
		}
		if tr[2].Role != domain.RoleImage || tr[2].Text() != "/assets/chart.png" || tr[2].Mode != nil {
			t.Errorf("entry 2 = %+v", tr[2])
		}
		if len(s.Grid().Rows) != 2 {
			t.Error("image entry must not touch the grid")
		}
	})

	t.Run("sqlbot rows replace grid and add one check entry", func(t *testing.T) {
		s := newStore(domain.ModeSqlBot)
		tk, _ := s.BeginChat()
		rows := sampleGrid()
		replies := []domain.Reply{{Role: "assistant", Content: domain.StrPtr("SELECT ..."), Columns: rows.Columns, Rows: rows.Rows}}

		if n := s.FinishChat(tk, replies, nil); n != 2 {
			t.Fatalf("appended %d, want 2", n)
		}
		tr := s.Transcript()
		if tr[1].Text() != GridCheckMessage {
			t.Errorf("synthetic entry = %q", tr[1].Text())
		}
		if len(s.Grid().Rows) != 2 || len(s.Grid().Columns) != 1 {
			t.Errorf("grid not replaced: %+v", s.Grid())
		}
	})

	t.Run("empty row set clears the grid", func(t *testing.T) {
		s := newStore(domain.ModeMultiAgent)
		s.grid = sampleGrid()
		tk, _ := s.BeginChat()
		replies := []domain.Reply{{Role: "assistant", Content: domain.StrPtr("none"), Rows: []domain.Row{}}}

		if n := s.FinishChat(tk, replies, nil); n != 1 {
			t.Fatalf("appended %d, want 1", n)
		}
		if !s.Grid().Empty() {
			t.Error("grid must be cleared on empty result set")
		}
	})

	t.Run("rows ignored outside grid modes", func(t *testing.T) {
		s := newStore(domain.ModeChatbot)
		tk, _ := s.BeginChat()
		rows := sampleGrid()
		s.FinishChat(tk, []domain.Reply{{Role: "assistant", Content: domain.StrPtr("x"), Rows: rows.Rows}}, nil)
		if !s.Grid().Empty() {
			t.Error("chatbot replies must not touch the grid")
		}
	})

	t.Run("failure appends nothing and resets input", func(t *testing.T) {
		s := newStore(domain.ModeChatbot)
		s.SetInput("hello")
		tk, _ := s.BeginChat()
		if n := s.FinishChat(tk, nil, errors.New("500 Internal Server Error")); n != 0 {
			t.Errorf("appended %d on failure", n)
		}
		if len(s.Transcript()) != 0 || s.Input() != "" || s.Processing() {
			t.Error("failure left state behind")
		}
		if s.Banner() != "" {
			t.Errorf("failures are log-only by default, banner = %q", s.Banner())
		}
	})

	t.Run("image with rows never touches the grid", func(t *testing.T) {
		for _, mode := range []domain.Mode{domain.ModeSqlBot, domain.ModeMultiAgent} {
			s := newStore(mode)
			s.grid = sampleGrid()
			tk, _ := s.BeginChat()
			other := domain.GridData{
				Columns: []domain.Column{{Key: "Name", Name: "Name"}},
				Rows:    []domain.Row{{"Name": "chart"}},
			}
			replies := []domain.Reply{{Role: "image", Content: domain.StrPtr("/assets/chart.png"), Columns: other.Columns, Rows: other.Rows}}

			if n := s.FinishChat(tk, replies, nil); n != 1 {
				t.Errorf("%s: appended %d, want only the image entry", mode, n)
			}
			if g := s.Grid(); len(g.Rows) != 2 || g.Columns[0].Key != "ProductID" {
				t.Errorf("%s: grid changed to %+v", mode, g)
			}
		}
	})

	t.Run("unknown role with rows never touches the grid", func(t *testing.T) {
		s := newStore(domain.ModeSqlBot)
		s.grid = sampleGrid()
		tk, _ := s.BeginChat()
		replies := []domain.Reply{{Role: "tool", Content: domain.StrPtr("raw"), Rows: []domain.Row{{"ProductID": "999"}}}}

		if n := s.FinishChat(tk, replies, nil); n != 1 {
			t.Fatalf("appended %d, want 1 with no grid pointer", n)
		}
		if tr := s.Transcript(); tr[0].Role != domain.RoleAssistant {
			t.Errorf("unknown role shown as %q, want assistant", tr[0].Role)
		}
		if len(s.Grid().Rows) != 2 {
			t.Errorf("grid replaced by non-assistant reply: %+v", s.Grid())
		}
	})
}

func TestErrorBanner(t *testing.T) {
	t.Run("off by default", func(t *testing.T) {
		s := newStore(domain.ModeNoAI)
		s.SetInput("hello")
		if _, err := s.BeginChat(); !errors.Is(err, ErrNoEndpoint) {
			t.Fatalf("err = %v", err)
		}
		s.SetBanner("Counts unavailable")
		if s.Banner() != "" {
			t.Errorf("banner = %q", s.Banner())
		}
	})

	t.Run("grid failure when enabled", func(t *testing.T) {
		s := newBannerStore(domain.ModeChatbot)
		tk, _ := s.BeginGridLoad(domain.DatasetOrders)
		s.FinishGridLoad(tk, domain.GridData{}, errors.New("connection refused"))
		if !strings.Contains(s.Banner(), "Orders") {
			t.Errorf("banner = %q", s.Banner())
		}

		// next accepted load dismisses it
		if _, ok := s.BeginGridLoad(domain.DatasetProducts); !ok || s.Banner() != "" {
			t.Errorf("banner after new load = %q", s.Banner())
		}
	})

	t.Run("chat failure when enabled", func(t *testing.T) {
		s := newBannerStore(domain.ModeChatbot)
		s.SetInput("hello")
		tk, _ := s.BeginChat()
		s.FinishChat(tk, nil, errors.New("boom"))
		if s.Banner() != "Chatbot request failed: boom" {
			t.Errorf("banner = %q", s.Banner())
		}
		if len(s.Transcript()) != 0 {
			t.Error("errors must not create transcript entries")
		}
	})

	t.Run("noai submit when enabled", func(t *testing.T) {
		s := newBannerStore(domain.ModeNoAI)
		s.SetInput("hello")
		s.BeginChat()
		if s.Banner() == "" || s.Input() != "" {
			t.Errorf("banner = %q input = %q", s.Banner(), s.Input())
		}
	})
}

func TestStaleResponses(t *testing.T) {
	t.Run("applied by default", func(t *testing.T) {
		s := newStore(domain.ModeChatbot)
		tk, _ := s.BeginChat()
		s.SetMode(domain.ModeSqlBot)
		if !s.Stale(tk) {
			t.Fatal("ticket should be stale after a mode switch")
		}
		if n := s.FinishChat(tk, []domain.Reply{{Role: "assistant", Content: domain.StrPtr("late")}}, nil); n != 1 {
			t.Errorf("appended %d, want 1", n)
		}
		if *s.Transcript()[0].Mode != domain.ModeChatbot {
			t.Error("late reply must keep the mode it was issued under")
		}
	})

	t.Run("dropped with DiscardStale", func(t *testing.T) {
		s := New(domain.DefaultSettings(), Options{ExclusiveRequests: true, DiscardStale: true})
		s.SetInput("q")
		tk, _ := s.BeginChat()
		idTicket := s.NewAssistantIDTicket()
		s.SetMode(domain.ModeAssistant)

		if n := s.FinishChat(tk, []domain.Reply{{Role: "assistant", Content: domain.StrPtr("late")}}, nil); n != 0 {
			t.Errorf("appended %d stale entries", n)
		}
		if s.Processing() || s.Input() != "" {
			t.Error("guard and input must be released for stale responses")
		}
		if s.SetAssistantID(idTicket, "asst_old") {
			t.Error("stale identity applied")
		}
		if !s.SetAssistantID(s.NewAssistantIDTicket(), "asst_new") || s.AssistantID() != "asst_new" {
			t.Error("fresh identity not applied")
		}
	})
}

func TestSetMode(t *testing.T) {
	s := newStore(domain.ModeChatbot)
	s.transcript = append(s.transcript, domain.UserMessage("keep me"))
	s.grid = sampleGrid()

	if s.SetMode(domain.ModeChatbot) {
		t.Error("selecting the active mode must be a no-op")
	}
	if !s.SetMode(domain.ModeNoAI) {
		t.Error("mode change not reported")
	}
	if len(s.Transcript()) != 1 || s.Grid().Empty() {
		t.Error("mode change must not clear transcript or grid")
	}
	if s.ShowChatIndicator() {
		t.Error("no indicator in NoAI")
	}
}

func TestUpdateSettings(t *testing.T) {
	s := newStore(domain.ModeChatbot)
	if s.UpdateSettings(500, 0.3) {
		t.Error("unchanged settings reported as changed")
	}
	if !s.UpdateSettings(800, 0.3) {
		t.Error("change not reported")
	}
	if s.Settings().MaxTokens != 800 {
		t.Errorf("MaxTokens = %d", s.Settings().MaxTokens)
	}
}

func TestClearMessages(t *testing.T) {
	s := newStore(domain.ModeChatbot)
	s.transcript = append(s.transcript, domain.UserMessage("a"), domain.UserMessage("b"))
	s.grid = sampleGrid()
	s.SetCounts(domain.RecordCounts{Customers: 847})

	s.ClearMessages()

	if len(s.Transcript()) != 0 {
		t.Error("transcript not cleared")
	}
	if len(s.Grid().Rows) != 2 || s.Counts().Customers != 847 {
		t.Error("grid or counts touched")
	}
}
