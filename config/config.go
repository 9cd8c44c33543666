package config

// Application configuration

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/FBakkensen/aw-viewer-tui/domain"
)

const (
	DefaultBaseURL          = "http://localhost:8000"
	DefaultDebugRawMaxBytes = 64 * 1024
)

// Config holds application settings
type Config struct {
	BaseURL               string  `json:"baseUrl"`
	Mode                  string  `json:"mode"`
	MaxTokens             int     `json:"maxTokens"`
	Temperature           float64 `json:"temperature"`
	RequestTimeoutSeconds int     `json:"requestTimeout"`
	ExclusiveRequests     bool    `json:"exclusiveRequests"`
	DiscardStale          bool    `json:"discardStale"`
	ErrorBanner           bool    `json:"errorBanner"`
	Theme                 string  `json:"theme"`

	DebugRawEnable   bool   `json:"debugRawEnable"`
	DebugRawFile     string `json:"debugRawFile"`
	DebugRawMaxBytes int    `json:"debugRawMaxBytes"`

	// DebugRawKeep > 0 writes one timestamped file per exchange and keeps the newest N.
	DebugRawKeep int `json:"debugRawKeep"`
}

// NewConfig returns the defaults every source is layered over.
func NewConfig() Config {
	d := domain.DefaultSettings()
	return Config{
		BaseURL:           DefaultBaseURL,
		Mode:              d.Mode.String(),
		MaxTokens:         d.MaxTokens,
		Temperature:       d.Temperature,
		ExclusiveRequests: true,
		Theme:             "auto",
		DebugRawMaxBytes:  DefaultDebugRawMaxBytes,
	}
}

// Settings converts the config into the query settings the viewer starts with.
// An unparseable mode falls back to the default mode.
func (c *Config) Settings() domain.Settings {
	s := domain.DefaultSettings()
	if m, err := domain.ParseMode(c.Mode); err == nil {
		s.Mode = m
	}
	if c.MaxTokens > 0 {
		s.MaxTokens = c.MaxTokens
	}
	s.Temperature = c.Temperature
	return s
}

// RequestTimeout returns the per-request timeout; zero means the transport default.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// ValidateAndUpdateSetting validates and updates a runtime-adjustable setting
func (c *Config) ValidateAndUpdateSetting(name, value string) error {
	switch name {
	case "mode":
		m, err := domain.ParseMode(value)
		if err != nil {
			return err
		}
		c.Mode = m.String()
	case "maxTokens":
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			return fmt.Errorf("maxTokens must be a positive integer, got: %s", value)
		}
		c.MaxTokens = parsed
	case "temperature":
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil || parsed < 0 || parsed > 2 {
			return fmt.Errorf("temperature must be a number between 0 and 2, got: %s", value)
		}
		c.Temperature = parsed
	case "theme":
		v := strings.ToLower(strings.TrimSpace(value))
		if v != "auto" && v != "dark" && v != "light" && v != "notty" {
			return fmt.Errorf("theme must be one of auto, dark, light, notty; got: %s", value)
		}
		c.Theme = v
	default:
		return fmt.Errorf("unknown setting: %s", name)
	}
	return nil
}

// GetSettingValue returns the current value of a setting as a string
func (c *Config) GetSettingValue(name string) (string, error) {
	all := c.ListAllSettings()
	if v, ok := all[name]; ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown setting: %s", name)
}

// ListAllSettings returns every visible setting and its value
func (c *Config) ListAllSettings() map[string]string {
	return map[string]string{
		"baseUrl":           c.BaseURL,
		"mode":              c.Mode,
		"maxTokens":         strconv.Itoa(c.MaxTokens),
		"temperature":       strconv.FormatFloat(c.Temperature, 'f', -1, 64),
		"requestTimeout":    strconv.Itoa(c.RequestTimeoutSeconds),
		"exclusiveRequests": strconv.FormatBool(c.ExclusiveRequests),
		"discardStale":      strconv.FormatBool(c.DiscardStale),
		"errorBanner":       strconv.FormatBool(c.ErrorBanner),
		"theme":             c.Theme,
	}
}

// SortedSettings returns ListAllSettings as name=value pairs in name order.
func (c *Config) SortedSettings() []string {
	all := c.ListAllSettings()
	names := make([]string, 0, len(all))
	for n := range all {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, n+"="+all[n])
	}
	return out
}
