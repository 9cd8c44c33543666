package gateway

// HTTP gateway to the AdventureWorks backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FBakkensen/aw-viewer-tui/config"
	"github.com/FBakkensen/aw-viewer-tui/debugdump"
	"github.com/FBakkensen/aw-viewer-tui/domain"
	util "github.com/FBakkensen/aw-viewer-tui/internal/util"
	"github.com/FBakkensen/aw-viewer-tui/logging"
)

const (
	pathCounts      = "/api/counts"
	pathAssistantID = "/api/assistant/id"

	// RequestIDHeader carries the per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	maxErrorBody = 512
)

// ErrNoEndpoint is returned by Chat for modes without an endpoint. No request is sent.
var ErrNoEndpoint = domain.ErrNoEndpoint

// StatusError reports a non-2xx backend response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "…"
	}
	if body == "" {
		return fmt.Sprintf("backend returned %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("backend returned %d %s: %s", e.Status, http.StatusText(e.Status), body)
}

// RawCapture controls YAML dumps of each exchange.
type RawCapture struct {
	Enabled  bool
	Path     string
	MaxBytes int

	// Keep > 0 rotates captures, one file per exchange.
	Keep int
}

// Client issues the backend calls. It holds no per-request state and is safe
// for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	raw        RawCapture
}

// NewClient creates a client for baseURL. timeout 0 keeps the transport default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// NewClientFromConfig creates a client with the configured base URL, timeout and raw capture.
func NewClientFromConfig(cfg config.Config) *Client {
	c := NewClient(cfg.BaseURL, cfg.RequestTimeout())
	if cfg.DebugRawEnable {
		path, err := debugdump.ResolvePath(cfg.DebugRawFile)
		if err != nil {
			logging.Warn("Raw capture path resolution failed", "error", err.Error())
		} else {
			c.raw = RawCapture{Enabled: true, Path: path, MaxBytes: cfg.DebugRawMaxBytes, Keep: cfg.DebugRawKeep}
			logging.Info("Raw capture enabled", "path", path, "max_bytes", fmt.Sprintf("%d", cfg.DebugRawMaxBytes))
		}
	}
	return c
}

// WithRawCapture replaces the raw capture settings.
func (c *Client) WithRawCapture(rc RawCapture) *Client {
	c.raw = rc
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Counts fetches the dashboard tile counts.
func (c *Client) Counts(ctx context.Context) (domain.RecordCounts, error) {
	var out domain.RecordCounts
	if err := c.do(ctx, "counts", http.MethodGet, pathCounts, nil, &out); err != nil {
		return domain.RecordCounts{}, err
	}
	return out, nil
}

// Dataset fetches one of the fixed grid datasets.
func (c *Client) Dataset(ctx context.Context, ds domain.Dataset) (domain.GridData, error) {
	path := ds.Path()
	if path == "" {
		return domain.GridData{}, fmt.Errorf("unknown dataset %d", int(ds))
	}
	var out domain.GridData
	if err := c.do(ctx, "dataset:"+ds.ID(), http.MethodGet, path, nil, &out); err != nil {
		return domain.GridData{}, err
	}
	return out, nil
}

// AssistantID fetches the current backend assistant session handle.
func (c *Client) AssistantID(ctx context.Context) (string, error) {
	var out struct {
		AssistantID string `json:"assistant_id"`
	}
	if err := c.do(ctx, "assistant-id", http.MethodGet, pathAssistantID, nil, &out); err != nil {
		return "", err
	}
	return out.AssistantID, nil
}

// Chat posts input to the endpoint of mode and returns the reply messages in order.
func (c *Client) Chat(ctx context.Context, mode domain.Mode, input string) ([]domain.Reply, error) {
	path, ok := mode.Endpoint()
	if !ok {
		logging.Error("Chat rejected", "mode", mode.String(), "error", ErrNoEndpoint.Error())
		return nil, ErrNoEndpoint
	}
	body, err := json.Marshal(struct {
		Input string `json:"input"`
	}{Input: input})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}
	var out []domain.Reply
	if err := c.do(ctx, "chat:"+mode.String(), http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// do runs one exchange and decodes a 2xx JSON body into out.
func (c *Client) do(ctx context.Context, op, method, path string, body []byte, out any) error {
	url := c.baseURL + path
	requestID := uuid.NewString()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		logging.Error("Backend request creation failed", "op", op, "error", err.Error())
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.Debug("Backend request sending", "op", op, "method", method, "url", url, "request_id", requestID, "body_bytes", fmt.Sprintf("%d", len(body)))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		ctxErr := ""
		if ctx.Err() != nil {
			ctxErr = ctx.Err().Error()
		}
		logging.Error("Backend request failed", "op", op, "request_id", requestID, "error", err.Error(), "ctxErr", ctxErr)
		c.capture(req, body, nil, nil, time.Since(start), err)
		return fmt.Errorf("%s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	dur := time.Since(start)
	if err != nil {
		logging.Error("Backend read response failed", "op", op, "request_id", requestID, "error", err.Error())
		c.capture(req, body, resp, nil, dur, err)
		return fmt.Errorf("failed to read %s response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{Status: resp.StatusCode, Body: string(respBody)}
		logging.Error("Backend status error",
			"op", op,
			"status", fmt.Sprintf("%d", resp.StatusCode),
			"duration_ms", fmt.Sprintf("%d", dur.Milliseconds()),
			"request_id", requestID,
			"resp_bytes", fmt.Sprintf("%d", len(respBody)),
		)
		c.capture(req, body, resp, respBody, dur, serr)
		return serr
	}

	if err := decodeJSON(respBody, out); err != nil {
		logging.Error("Backend response parse failed", "op", op, "request_id", requestID, "error", err.Error(), "resp_bytes", fmt.Sprintf("%d", len(respBody)))
		c.capture(req, body, resp, respBody, dur, err)
		return fmt.Errorf("failed to parse %s response: %w", op, err)
	}

	logging.Info("Backend request success",
		"op", op,
		"status", fmt.Sprintf("%d", resp.StatusCode),
		"duration_ms", fmt.Sprintf("%d", dur.Milliseconds()),
		"request_id", util.FirstNonBlank(resp.Header.Get(RequestIDHeader), requestID),
		"resp_bytes", fmt.Sprintf("%d", len(respBody)),
	)
	c.capture(req, body, resp, respBody, dur, nil)
	return nil
}

// decodeJSON keeps numbers as json.Number so ids and money survive unchanged.
func decodeJSON(b []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty response body")
		}
		return err
	}
	return nil
}

// capture writes the raw exchange when enabled. resp is nil for transport failures.
func (c *Client) capture(req *http.Request, reqBody []byte, resp *http.Response, respBody []byte, dur time.Duration, failure error) {
	if !c.raw.Enabled {
		return
	}
	reqStr, reqLen, reqCut := debugdump.FormatBody(reqBody, c.raw.MaxBytes)
	doc := debugdump.Capture{
		Version:    1,
		CapturedAt: debugdump.Now(),
		Request: debugdump.Request{
			StartedAt: time.Now().Add(-dur).UTC().Format(time.RFC3339Nano),
			RequestID: req.Header.Get(RequestIDHeader),
			Method:    req.Method,
			URL:       req.URL.String(),
			Headers: debugdump.RedactHeaders(map[string]string{
				"content-type":  req.Header.Get("Content-Type"),
				"authorization": req.Header.Get("Authorization"),
			}),
			Body:      reqStr,
			BodyBytes: reqLen,
			Truncated: reqCut,
		},
	}
	status := "n/a"
	if resp != nil {
		respStr, respLen, respCut := debugdump.FormatBody(respBody, c.raw.MaxBytes)
		doc.Response = &debugdump.Response{
			CompletedAt: debugdump.Now(),
			Status:      resp.StatusCode,
			DurationMs:  dur.Milliseconds(),
			Headers: debugdump.RedactHeaders(map[string]string{
				"content-type": resp.Header.Get("Content-Type"),
				"set-cookie":   resp.Header.Get("Set-Cookie"),
			}),
			Body:      respStr,
			BodyBytes: respLen,
			Truncated: respCut,
		}
		status = fmt.Sprintf("%d", resp.StatusCode)
	}
	if failure != nil {
		doc.Error = &debugdump.Failure{Message: failure.Error()}
	}
	var err error
	if c.raw.Keep > 0 {
		err = debugdump.WriteRotating(c.raw.Path, c.raw.Keep, doc)
	} else {
		err = debugdump.Write(c.raw.Path, doc)
	}
	if err != nil {
		logging.Warn("Raw capture write failed", "error", err.Error())
		return
	}
	logging.Debug("Raw capture written", "path", c.raw.Path, "status", status, "duration_ms", fmt.Sprintf("%d", dur.Milliseconds()))
}
