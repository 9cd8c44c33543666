package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"

	"github.com/FBakkensen/aw-viewer-tui/domain"
	"github.com/FBakkensen/aw-viewer-tui/logging"
)

const (
	flagConfig  = "config"
	flagBaseURL = "base-url"
	flagMode    = "mode"
	flagTimeout = "timeout"
)

// ParsedFlags holds the command line values that were explicitly provided.
// A nil field means the flag was not given.
type ParsedFlags struct {
	ConfigFile *string
	BaseURL    *string
	Mode       *string
	Timeout    *int
}

// BindFlags registers the configuration flags on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.String(flagConfig, "", "Configuration file path (JSON, comments allowed)")
	fs.String(flagBaseURL, "", "Backend base URL")
	fs.String(flagMode, "", "Initial query mode (noai, chatbot, sqlbot, assistant, multiagent)")
	fs.Int(flagTimeout, 0, "Request timeout in seconds (0 = transport default)")
}

// FlagsFrom collects the flags registered by BindFlags that were set on fs.
func FlagsFrom(fs *pflag.FlagSet) *ParsedFlags {
	flags := &ParsedFlags{}
	if fs == nil {
		return flags
	}
	if fs.Changed(flagConfig) {
		v, _ := fs.GetString(flagConfig)
		flags.ConfigFile = &v
	}
	if fs.Changed(flagBaseURL) {
		v, _ := fs.GetString(flagBaseURL)
		flags.BaseURL = &v
	}
	if fs.Changed(flagMode) {
		v, _ := fs.GetString(flagMode)
		flags.Mode = &v
	}
	if fs.Changed(flagTimeout) {
		v, _ := fs.GetInt(flagTimeout)
		flags.Timeout = &v
	}
	return flags
}

// ConfigLoader layers defaults, config file, .env, environment and flags.
type ConfigLoader struct {
	fs          FileSystem
	lookupEnv   func(string) (string, bool)
	searchPaths []string
}

// NewConfigLoader creates a ConfigLoader for production use
func NewConfigLoader() *ConfigLoader {
	osFS := &OsFileSystem{}
	return &ConfigLoader{
		fs:          osFS,
		lookupEnv:   os.LookupEnv,
		searchPaths: getDefaultSearchPaths(osFS),
	}
}

// NewTestConfigLoader creates a ConfigLoader with injected filesystem and environment
func NewTestConfigLoader(fs FileSystem, env map[string]string, searchPaths []string) *ConfigLoader {
	return &ConfigLoader{
		fs: fs,
		lookupEnv: func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		},
		searchPaths: searchPaths,
	}
}

// LoadConfig loads configuration without command line flags.
func LoadConfig() Config {
	return NewConfigLoader().Load(nil)
}

// Load builds the configuration. Precedence, lowest first: defaults, config
// file, .env file, process environment, flags.
func (cl *ConfigLoader) Load(flags *ParsedFlags) Config {
	if flags == nil {
		flags = &ParsedFlags{}
	}
	cfg := NewConfig()
	cl.loadFromFile(&cfg, flags.ConfigFile)
	cl.loadFromEnv(&cfg, cl.loadDotEnv())
	applyFlags(&cfg, flags)
	normalize(&cfg)
	return cfg
}

func (cl *ConfigLoader) loadFromFile(cfg *Config, configFile *string) {
	filePath := ""
	if configFile != nil && *configFile != "" {
		filePath = *configFile
	} else {
		filePath = cl.findConfigFile()
	}
	if filePath == "" {
		return
	}
	if err := cl.loadConfigFromFile(filePath, cfg); err != nil {
		logging.Warn("Config file ignored", "path", filePath, "error", err.Error())
		return
	}
	logging.Debug("Config file loaded", "path", filePath)
}

func (cl *ConfigLoader) findConfigFile() string {
	for _, path := range cl.searchPaths {
		if _, err := cl.fs.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// loadConfigFromFile decodes a JSON file, comments and trailing commas allowed,
// over the values already in cfg.
func (cl *ConfigLoader) loadConfigFromFile(filename string, cfg *Config) error {
	data, err := cl.fs.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}
	fileCfg := *cfg
	if err := json.Unmarshal(jsonc.ToJSON(data), &fileCfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}
	*cfg = fileCfg
	return nil
}

// loadDotEnv reads ./.env. Its values only fill variables the process
// environment does not already define.
func (cl *ConfigLoader) loadDotEnv() map[string]string {
	cwd, err := cl.fs.Getwd()
	if err != nil {
		return nil
	}
	path := filepath.Join(cwd, ".env")
	data, err := cl.fs.ReadFile(path)
	if err != nil {
		return nil
	}
	vals, err := godotenv.Unmarshal(string(data))
	if err != nil {
		logging.Warn("Ignoring malformed .env", "path", path, "error", err.Error())
		return nil
	}
	logging.Debug(".env loaded", "path", path, "keys", strconv.Itoa(len(vals)))
	return vals
}

func (cl *ConfigLoader) env(dotenv map[string]string, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := cl.lookupEnv(k); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}
	for _, k := range keys {
		if v, ok := dotenv[k]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

func (cl *ConfigLoader) loadFromEnv(cfg *Config, dotenv map[string]string) {
	if v, ok := cl.env(dotenv, "AWVIEWER_BASE_URL", "VITE_BASE_URL"); ok {
		cfg.BaseURL = v
	}
	if v, ok := cl.env(dotenv, "AWVIEWER_MODE"); ok {
		cfg.Mode = v
	}
	if v, ok := cl.env(dotenv, "AWVIEWER_MAX_TOKENS"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxTokens = n
		}
	}
	if v, ok := cl.env(dotenv, "AWVIEWER_TEMPERATURE"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.Temperature = f
		}
	}
	if v, ok := cl.env(dotenv, "AWVIEWER_REQUEST_TIMEOUT"); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RequestTimeoutSeconds = n
		}
	}
	if v, ok := cl.env(dotenv, "AWVIEWER_EXCLUSIVE_REQUESTS"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ExclusiveRequests = b
		}
	}
	if v, ok := cl.env(dotenv, "AWVIEWER_DISCARD_STALE"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DiscardStale = b
		}
	}
	if v, ok := cl.env(dotenv, "AWVIEWER_ERROR_BANNER"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ErrorBanner = b
		}
	}
	if v, ok := cl.env(dotenv, "AWVIEWER_THEME"); ok {
		cfg.Theme = v
	}
	if v, ok := cl.env(dotenv, "AWVIEWER_DEBUG_RAW_ENABLE"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DebugRawEnable = b
		}
	}
	if v, ok := cl.env(dotenv, "AWVIEWER_DEBUG_RAW_FILE"); ok {
		cfg.DebugRawFile = v
	}
	if v, ok := cl.env(dotenv, "AWVIEWER_DEBUG_RAW_MAXBYTES"); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.DebugRawMaxBytes = n
		}
	}
	if v, ok := cl.env(dotenv, "AWVIEWER_DEBUG_RAW_KEEP"); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.DebugRawKeep = n
		}
	}
}

func applyFlags(cfg *Config, flags *ParsedFlags) {
	if flags.BaseURL != nil && *flags.BaseURL != "" {
		cfg.BaseURL = *flags.BaseURL
	}
	if flags.Mode != nil && *flags.Mode != "" {
		cfg.Mode = *flags.Mode
	}
	if flags.Timeout != nil && *flags.Timeout >= 0 {
		cfg.RequestTimeoutSeconds = *flags.Timeout
	}
}

// normalize canonicalizes values that several sources may spell differently.
func normalize(cfg *Config) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if m, err := domain.ParseMode(cfg.Mode); err == nil {
		cfg.Mode = m.String()
	} else {
		logging.Warn("Unknown mode in configuration; using default", "mode", cfg.Mode)
		cfg.Mode = domain.DefaultSettings().Mode.String()
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = domain.DefaultSettings().MaxTokens
	}
	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	if cfg.Theme == "" {
		cfg.Theme = "auto"
	}
}

// getDefaultSearchPaths returns the config file candidates in priority order
func getDefaultSearchPaths(fs FileSystem) []string {
	var paths []string
	if cwd, err := fs.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, "config.json"))
		paths = append(paths, filepath.Join(cwd, "aw-viewer-tui.json"))
	}
	if configDir, err := fs.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "aw-viewer-tui", "config.json"))
	}
	if home, err := fs.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".aw-viewer-tui", "config.json"))
	}
	return paths
}
