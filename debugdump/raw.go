package debugdump

// Raw request/response captures of backend HTTP exchanges, written as YAML

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Headers represents selected HTTP headers with redactions applied.
type Headers map[string]string

// Request captures request details
type Request struct {
	StartedAt string  `yaml:"startedAt"`
	RequestID string  `yaml:"requestId"`
	Method    string  `yaml:"method"`
	URL       string  `yaml:"url"`
	Headers   Headers `yaml:"headers"`
	Body      string  `yaml:"body"`
	BodyBytes int     `yaml:"bodyBytes"`
	Truncated bool    `yaml:"truncated"`
}

// Response captures response details
type Response struct {
	CompletedAt string  `yaml:"completedAt"`
	Status      int     `yaml:"status"`
	DurationMs  int64   `yaml:"durationMs"`
	Headers     Headers `yaml:"headers"`
	Body        string  `yaml:"body"`
	BodyBytes   int     `yaml:"bodyBytes"`
	Truncated   bool    `yaml:"truncated"`
}

// Failure carries the error text of a failed exchange
type Failure struct {
	Message string `yaml:"message"`
}

// Capture is the root document of one exchange. Response is nil for
// transport failures.
type Capture struct {
	Version    int       `yaml:"version"`
	CapturedAt string    `yaml:"capturedAt"`
	Request    Request   `yaml:"request"`
	Response   *Response `yaml:"response,omitempty"`
	Error      *Failure  `yaml:"error"`
}

// RedactHeaders returns a copy of selected headers with secrets redacted.
func RedactHeaders(in map[string]string) Headers {
	out := make(Headers, len(in))
	for k, v := range in {
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "authorization":
			out[k] = "Bearer <redacted>"
		case "cookie", "set-cookie", "x-api-key", "api-key", "ocp-apim-subscription-key":
			out[k] = "<redacted>"
		default:
			out[k] = v
		}
	}
	return out
}

// FormatBody pretty-prints JSON when it parses and truncates to maxBytes.
// It returns the text to write, the original payload size and whether it was cut.
// maxBytes <= 0 means unlimited.
func FormatBody(b []byte, maxBytes int) (string, int, bool) {
	if b == nil {
		return "", 0, false
	}
	origLen := len(b)
	out := b
	var v any
	if err := json.Unmarshal(b, &v); err == nil {
		if pb, perr := json.MarshalIndent(v, "", "  "); perr == nil {
			out = pb
		}
	}
	if maxBytes <= 0 || len(out) <= maxBytes {
		return string(out), origLen, false
	}
	return string(out[:maxBytes]), origLen, true
}

// ResolvePath ensures a sane default location and extension for the raw file.
// An empty path becomes logs/backend-raw.yaml; a bare file name goes under logs/.
func ResolvePath(in string) (string, error) {
	p := strings.TrimSpace(in)
	if p == "" {
		p = filepath.Join("logs", "backend-raw.yaml")
	}
	if !filepath.IsAbs(p) && filepath.Dir(p) == "." {
		p = filepath.Join("logs", p)
	}
	if filepath.Ext(p) == "" {
		p += ".yaml"
	}
	return filepath.Clean(filepath.FromSlash(p)), nil
}

// Write replaces the capture at path atomically.
func Write(path string, c Capture) error {
	return writeYAMLAtomic(path, c)
}

// WriteRotating writes c next to base as base-<timestamp>.ext and keeps only
// the newest keep files. keep <= 0 disables pruning.
func WriteRotating(base string, keep int, c Capture) error {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	stamp := time.Now().UTC().Format("20060102T150405.000000000")
	stamp = strings.ReplaceAll(stamp, ".", "")
	path := fmt.Sprintf("%s-%s%s", stem, stamp, ext)
	if err := writeYAMLAtomic(path, c); err != nil {
		return err
	}
	if keep > 0 {
		return prune(stem, ext, keep)
	}
	return nil
}

func prune(stem, ext string, keep int) error {
	matches, err := filepath.Glob(stem + "-*" + ext)
	if err != nil {
		return fmt.Errorf("failed to list raw captures: %w", err)
	}
	if len(matches) <= keep {
		return nil
	}
	// timestamps sort lexically
	sort.Strings(matches)
	for _, old := range matches[:len(matches)-keep] {
		if err := os.Remove(old); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to prune %s: %w", old, err)
		}
	}
	return nil
}

func writeYAMLAtomic(path string, doc any) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("empty path for raw capture")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create capture dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "raw-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	enc := yaml.NewEncoder(tmp)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to close yaml encoder: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to move temp into place: %w", err)
	}
	return nil
}

// Now returns UTC RFC3339Nano time string for timestamps
func Now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
