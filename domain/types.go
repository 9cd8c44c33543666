package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Settings is the user-adjustable query configuration.
type Settings struct {
	Mode        Mode
	MaxTokens   int
	Temperature float64
}

// DefaultSettings mirrors the values the viewer starts with.
func DefaultSettings() Settings {
	return Settings{Mode: ModeChatbot, MaxTokens: 500, Temperature: 0.3}
}

// RecordCounts holds the dashboard tile counts.
type RecordCounts struct {
	Customers    int `json:"customers"`
	TopCustomers int `json:"topCustomers"`
	Products     int `json:"products"`
	TopProducts  int `json:"topProducts"`
	OrderDetails int `json:"orderDetails"`
}

// Column describes one grid column. Key addresses the row field.
type Column struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Resizable bool   `json:"resizable"`
}

// Title returns the header caption, falling back to the key.
func (c Column) Title() string {
	if strings.TrimSpace(c.Name) != "" {
		return c.Name
	}
	return c.Key
}

// Row is one record keyed by column key.
type Row map[string]any

// Cell returns the display text for key. Missing and null values render empty.
func (r Row) Cell(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}

// GridData is a whole table as returned by the backend.
type GridData struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Empty reports whether the grid has neither columns nor rows.
func (g GridData) Empty() bool {
	return len(g.Columns) == 0 && len(g.Rows) == 0
}

// Headers returns the column titles in order.
func (g GridData) Headers() []string {
	out := make([]string, len(g.Columns))
	for i, c := range g.Columns {
		out[i] = c.Title()
	}
	return out
}
