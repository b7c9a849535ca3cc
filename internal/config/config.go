package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Tiliavir/clockstorm/internal/logger"
)

// Config is the root configuration for clockstorm, stored in
// ~/.clockstorm/config.json. The file supports single-line // comments for
// documentation purposes.
type Config struct {
	Store   StoreConfig   `json:"store"`
	Watch   WatchConfig   `json:"watch"`
	Source  SourceConfig  `json:"source"`
	Webhook WebhookConfig `json:"webhook"`
}

// StoreConfig selects the local key-value store.
type StoreConfig struct {
	// Backend is "file", "sqlite" or "memory".
	Backend string `json:"backend"`
	// Path overrides the store location. Empty = inside the data directory.
	Path string `json:"path"`
}

// WatchConfig controls the reminder loop.
type WatchConfig struct {
	// Interval is a Go duration such as "1m" or "30s".
	Interval string `json:"interval"`
	// Sync pulls the current timesheet from the source on every poll.
	Sync bool `json:"sync"`
}

// SourceConfig describes the timesheet API and its OAuth2 client.
type SourceConfig struct {
	// BaseURL of the timesheet API. Empty disables syncing.
	BaseURL string `json:"base_url"`
	// TenantID derives Microsoft identity endpoints when the URLs below are empty.
	TenantID      string   `json:"tenant_id"`
	ClientID      string   `json:"client_id"`
	DeviceAuthURL string   `json:"device_auth_url"`
	TokenURL      string   `json:"token_url"`
	Scopes        []string `json:"scopes"`
}

// WebhookConfig forwards reminders to an HTTP endpoint.
type WebhookConfig struct {
	// URL receives a JSON POST per shown or cleared reminder. Empty = disabled.
	URL    string `json:"url"`
	Secret string `json:"secret"`
}

const (
	DefaultBackend  = "file"
	DefaultInterval = "1m"
	envPrefix       = "CLOCKSTORM_"
)

// DefaultScopes keeps refresh tokens available to the device flow.
var DefaultScopes = []string{"offline_access"}

// Default returns a Config pre-filled with sensible defaults.
func Default() Config {
	return Config{
		Store: StoreConfig{Backend: DefaultBackend},
		Watch: WatchConfig{Interval: DefaultInterval},
		Source: SourceConfig{
			Scopes: append([]string(nil), DefaultScopes...),
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// clockstorm configuration – ~/.clockstorm/config.json
//
// All settings are optional. Every value can also be overridden by an
// environment variable (or a .env file in the working directory), e.g.
// CLOCKSTORM_STORE_BACKEND=sqlite or CLOCKSTORM_WEBHOOK_URL=http://...
{
  // ── Local store ──────────────────────────────────────────────────────────
  "store": {
    // "file" (one JSON file per key), "sqlite" (single database file) or
    // "memory" (nothing is persisted). Can be overridden with --store.
    "backend": "file",

    // Store location. Leave empty for ~/.clockstorm/store (file) or
    // ~/.clockstorm/clockstorm.db (sqlite).
    "path": ""
  },

  // ── Reminder loop (clockstorm watch) ─────────────────────────────────────
  "watch": {
    // How often reminders are re-evaluated.
    "interval": "1m",

    // Pull the current timesheet from the source before every evaluation.
    "sync": false
  },

  // ── Timesheet API ────────────────────────────────────────────────────────
  "source": {
    // Base URL of the timesheet API. Leave empty to disable clockstorm sync.
    "base_url": "",

    // Azure AD tenant. When set and the URLs below are empty, Microsoft
    // identity platform endpoints are used for the device code flow.
    "tenant_id": "",

    // OAuth2 client ID registered for the device code flow.
    "client_id": "",

    // Explicit OAuth2 endpoints for other identity providers.
    "device_auth_url": "",
    "token_url": "",

    "scopes": ["offline_access"]
  },

  // ── Webhook notifications ────────────────────────────────────────────────
  "webhook": {
    // Reminders are POSTed here in addition to the console. Empty = disabled.
    "url": "",

    // Sent as the X-Clockstorm-Secret header.
    "secret": ""
  }
}
`

// DefaultPath returns the path to ~/.clockstorm/config.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".clockstorm", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads the config at path, creating it with annotated defaults on first
// run. Lines starting with // are treated as comments and stripped before
// JSON parsing. A .env file in the working directory is loaded and
// CLOCKSTORM_* variables override file values.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("could not load .env file", "err", err)
	}

	cfg, err := loadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	fillDefaults(&cfg)
	if _, err := cfg.Watch.PollInterval(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			logger.Warn("could not create config file", "path", path, "err", writeErr)
		}
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	return cfg, nil
}

// fillDefaults fills zero-value fields with built-in defaults so callers
// always get a usable Config even if the user only partially fills in the file.
func fillDefaults(cfg *Config) {
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = DefaultBackend
	}
	if cfg.Watch.Interval == "" {
		cfg.Watch.Interval = DefaultInterval
	}
	if len(cfg.Source.Scopes) == 0 {
		cfg.Source.Scopes = append([]string(nil), DefaultScopes...)
	}
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"STORE_BACKEND":          &cfg.Store.Backend,
		"STORE_PATH":             &cfg.Store.Path,
		"WATCH_INTERVAL":         &cfg.Watch.Interval,
		"SOURCE_BASE_URL":        &cfg.Source.BaseURL,
		"SOURCE_TENANT_ID":       &cfg.Source.TenantID,
		"SOURCE_CLIENT_ID":       &cfg.Source.ClientID,
		"SOURCE_DEVICE_AUTH_URL": &cfg.Source.DeviceAuthURL,
		"SOURCE_TOKEN_URL":       &cfg.Source.TokenURL,
		"WEBHOOK_URL":            &cfg.Webhook.URL,
		"WEBHOOK_SECRET":         &cfg.Webhook.Secret,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	if v, ok := os.LookupEnv(envPrefix + "SOURCE_SCOPES"); ok {
		cfg.Source.Scopes = strings.Fields(strings.ReplaceAll(v, ",", " "))
	}
	if v, ok := os.LookupEnv(envPrefix + "WATCH_SYNC"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sWATCH_SYNC: %w", envPrefix, err)
		}
		cfg.Watch.Sync = b
	}
	return nil
}

// PollInterval parses Interval.
func (w WatchConfig) PollInterval() (time.Duration, error) {
	d, err := time.ParseDuration(w.Interval)
	if err != nil {
		return 0, fmt.Errorf("watch.interval %q: %w", w.Interval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("watch.interval %q must be positive", w.Interval)
	}
	return d, nil
}

// StorePath resolves the store location inside baseDir when Path is empty.
func (s StoreConfig) StorePath(baseDir string) string {
	if s.Path != "" {
		return s.Path
	}
	if s.Backend == "sqlite" {
		return filepath.Join(baseDir, "clockstorm.db")
	}
	return filepath.Join(baseDir, "store")
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
