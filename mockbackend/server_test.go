package mockbackend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/FBakkensen/aw-viewer-tui/domain"
)

func startServer(t *testing.T) *TestServer {
	t.Helper()
	srv, err := StartTestServer(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}

func postChat(t *testing.T, url, input string) ([]domain.Reply, int) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"input": input})
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode
	}
	var out []domain.Reply
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out, resp.StatusCode
}

func TestCounts(t *testing.T) {
	srv := startServer(t)
	var c domain.RecordCounts
	getJSON(t, srv.URL+"/api/counts", &c)

	want := domain.RecordCounts{Customers: 8, TopCustomers: 6, Products: 9, TopProducts: 8, OrderDetails: 10}
	if c != want {
		t.Errorf("counts = %+v, want %+v", c, want)
	}
}

func TestDatasetsMatchCounts(t *testing.T) {
	srv := startServer(t)
	var c domain.RecordCounts
	getJSON(t, srv.URL+"/api/counts", &c)

	for _, ds := range domain.AllDatasets {
		t.Run(ds.ID(), func(t *testing.T) {
			var g domain.GridData
			getJSON(t, srv.URL+ds.Path(), &g)
			if len(g.Rows) != ds.Count(c) {
				t.Errorf("rows = %d, count tile = %d", len(g.Rows), ds.Count(c))
			}
			if len(g.Columns) == 0 {
				t.Fatal("no columns")
			}
			for _, col := range g.Columns {
				if col.Key == "" || col.Name != col.Key || !col.Resizable {
					t.Errorf("unexpected column %+v", col)
				}
				if _, ok := g.Rows[0][col.Key]; !ok {
					t.Errorf("row lacks column %q", col.Key)
				}
			}
		})
	}
}

func TestAssistantID(t *testing.T) {
	srv := startServer(t)
	var out map[string]string
	getJSON(t, srv.URL+"/api/assistant/id", &out)
	if out["assistant_id"] != srv.Handler.AssistantID() || !strings.HasPrefix(out["assistant_id"], "asst_") {
		t.Errorf("assistant_id = %q", out["assistant_id"])
	}
}

func TestChatEndpoints(t *testing.T) {
	srv := startServer(t)

	t.Run("chatbot answers in markdown", func(t *testing.T) {
		replies, _ := postChat(t, srv.URL+"/api/chatbot", "What are the top 5 products sold?")
		if len(replies) != 1 || replies[0].Role != "assistant" || replies[0].HasTable() {
			t.Fatalf("replies = %+v", replies)
		}
		if !strings.Contains(*replies[0].Content, "## Top products sold") {
			t.Errorf("content = %q", *replies[0].Content)
		}
	})

	t.Run("sqlbot returns rows", func(t *testing.T) {
		replies, _ := postChat(t, srv.URL+"/api/sqlbot", "What customers are in the United States?")
		if len(replies) != 1 || !replies[0].HasTable() {
			t.Fatalf("replies = %+v", replies)
		}
		if len(replies[0].Rows) != 3 {
			t.Errorf("rows = %d, want 3", len(replies[0].Rows))
		}
	})

	t.Run("sqlbot returns an empty set when nothing matches", func(t *testing.T) {
		replies, _ := postChat(t, srv.URL+"/api/sqlbot", "How is the weather?")
		if len(replies) != 1 || !replies[0].HasTable() || len(replies[0].Rows) != 0 {
			t.Fatalf("replies = %+v", replies)
		}
	})

	t.Run("assistants returns an image entry", func(t *testing.T) {
		replies, _ := postChat(t, srv.URL+"/api/assistants", "Create a chart of the sales by country.")
		if len(replies) != 2 || replies[1].Role != "image" {
			t.Fatalf("replies = %+v", replies)
		}
		if !strings.HasPrefix(*replies[1].Content, "/assets/images/") {
			t.Errorf("image path = %q", *replies[1].Content)
		}
	})

	t.Run("multiagent returns text and rows", func(t *testing.T) {
		replies, _ := postChat(t, srv.URL+"/api/multiagent", "top customers")
		if len(replies) != 1 || len(replies[0].Rows) == 0 {
			t.Fatalf("replies = %+v", replies)
		}
	})

	t.Run("empty input is rejected", func(t *testing.T) {
		if _, status := postChat(t, srv.URL+"/api/chatbot", "  "); status != http.StatusBadRequest {
			t.Errorf("status = %d", status)
		}
	})
}

func TestRequestIDEchoed(t *testing.T) {
	srv := startServer(t)
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.Header.Get("X-Request-ID") != "abc-123" {
		t.Errorf("X-Request-ID = %q", resp.Header.Get("X-Request-ID"))
	}
}

func TestQueryRejectsWrites(t *testing.T) {
	repo, err := OpenRepository(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()
	if _, err := repo.Query(context.Background(), "DELETE FROM customers"); err == nil {
		t.Error("expected write statement to be rejected")
	}
}

func TestMatchSQL(t *testing.T) {
	tests := map[string]string{
		"What customers are in the United States?":          sqlRules[0].sql,
		"What products have 'bike' in the description?":     sqlRules[2].sql,
		"In what countries are there customers who bought?": sqlRules[1].sql,
		"tell me a joke": noMatchSQL,
	}
	for in, want := range tests {
		if got := matchSQL(in); got != want {
			t.Errorf("matchSQL(%q) = %q, want %q", in, got, want)
		}
	}
}
