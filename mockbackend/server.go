package mockbackend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/FBakkensen/aw-viewer-tui/domain"
	"github.com/FBakkensen/aw-viewer-tui/logging"
)

// Handler serves the backend API from the sample repository.
type Handler struct {
	repo        *Repository
	bots        bots
	assistantID string
}

// NewHandler creates a handler with a fresh assistant identity.
func NewHandler(repo *Repository) *Handler {
	return &Handler{
		repo:        repo,
		bots:        bots{repo: repo},
		assistantID: "asst_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24],
	}
}

// AssistantID returns the identity served by /api/assistant/id.
func (h *Handler) AssistantID() string { return h.assistantID }

// NewRouter wires every endpoint the viewer consumes.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(echoRequestID)
	r.Use(requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Get("/counts", h.counts)
		r.Get("/customers", h.dataset(domain.DatasetCustomers))
		r.Get("/customers/top", h.dataset(domain.DatasetTopCustomers))
		r.Get("/products", h.dataset(domain.DatasetProducts))
		r.Get("/products/sold", h.dataset(domain.DatasetTopProducts))
		r.Get("/orders", h.dataset(domain.DatasetOrders))
		r.Get("/assistant/id", h.getAssistantID)

		r.Post("/chatbot", h.chat(h.bots.chatbot))
		r.Post("/sqlbot", h.chat(h.bots.sqlbot))
		r.Post("/assistants", h.chat(h.bots.assistants))
		r.Post("/multiagent", h.chat(h.bots.multiagent))
	})

	return r
}

func (h *Handler) counts(w http.ResponseWriter, r *http.Request) {
	c, err := h.repo.Counts(r.Context())
	if err != nil {
		logging.Error("Counts failed", "error", err.Error())
		http.Error(w, "Failed to count records", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) dataset(ds domain.Dataset) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		grid, err := h.repo.Dataset(r.Context(), ds)
		if err != nil {
			logging.Error("Dataset query failed", "dataset", ds.ID(), "error", err.Error())
			http.Error(w, "Failed to load "+ds.ID(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, grid)
	}
}

func (h *Handler) getAssistantID(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"assistant_id": h.assistantID})
}

type chatRequest struct {
	Input string `json:"input"`
}

type botFunc func(ctx context.Context, input string) ([]domain.Reply, error)

func (h *Handler) chat(bot botFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Input) == "" {
			http.Error(w, "input is required", http.StatusBadRequest)
			return
		}
		replies, err := bot(r.Context(), req.Input)
		if err != nil {
			logging.Error("Chat failed", "path", r.URL.Path, "error", err.Error())
			http.Error(w, "Failed to process message", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, replies)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("Response encode failed", "error", err.Error())
	}
}

func echoRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get("X-Request-ID"); id != "" {
			w.Header().Set("X-Request-ID", id)
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logging.Info("Mock backend request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", fmt.Sprintf("%d", ww.Status()),
			"bytes", fmt.Sprintf("%d", ww.BytesWritten()),
			"duration_ms", fmt.Sprintf("%d", time.Since(start).Milliseconds()),
		)
	})
}

// Serve runs the demo backend on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	repo, err := OpenRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	srv := &http.Server{
		Addr:         addr,
		Handler:      NewRouter(NewHandler(repo)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Mock backend listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("mock backend failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("mock backend shutdown failed: %w", err)
	}
	logging.Info("Mock backend stopped")
	return nil
}
