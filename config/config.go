package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Telegram  TelegramConfig
	Search    SearchConfig
	Fetch     FetchConfig
	Render    RenderConfig
	Paste     PasteConfig
	Cache     CacheConfig
	Log       LogConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Poll      PollConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Enabled bool   // default: true
	Host    string // default: "0.0.0.0"
	Port    int    // default: 8080
	Mode    string // "debug", "release", "test"; default: "release"
}

// TelegramConfig controls the bot connection.
type TelegramConfig struct {
	// Token is the Bot API token. Required.
	Token string

	// Endpoint overrides the Bot API endpoint format ("%s" token, "%s" method).
	Endpoint string

	// Mode is "polling" (getUpdates) or "webhook"; default: "polling".
	Mode string

	// WebhookSecret is compared against X-Telegram-Bot-Api-Secret-Token.
	WebhookSecret string

	// PollTimeout is the getUpdates long-poll timeout.
	PollTimeout time.Duration // default: 60s

	// Command is the answer command name without the slash.
	Command string // default: "laodeai"

	// MaxInFlight bounds how many updates are handled at once.
	MaxInFlight int // default: 32
}

// SearchConfig controls the search engine fetch.
type SearchConfig struct {
	// BaseURL is the HTML search endpoint; the query is appended as ?q=.
	BaseURL string // default: "https://html.duckduckgo.com/html/"

	// Timeout is the search request timeout.
	Timeout time.Duration // default: 15s
}

// FetchConfig controls per-candidate page fetches.
type FetchConfig struct {
	// Timeout is the per-candidate request timeout.
	Timeout time.Duration // default: 15s

	// UserAgent is sent with every candidate fetch.
	UserAgent string

	// MaxBodyBytes caps how much of a page is read.
	MaxBodyBytes int64 // default: 10 MB
}

// RenderConfig controls the Rod browser used for text-to-image rendering.
type RenderConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxPages is the page pool capacity (max concurrent renders).
	MaxPages int // default: 4

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Timeout bounds a single render.
	Timeout time.Duration // default: 20s
}

// PasteConfig controls the paste upload used for overflowing images.
type PasteConfig struct {
	// Endpoint is the paste API URL; empty disables uploads.
	Endpoint string // default: "https://pastebin.com/api/api_post.php"

	// APIKey is the developer key sent as api_dev_key.
	APIKey string

	// Timeout bounds a single upload.
	Timeout time.Duration // default: 10s
}

// CacheConfig controls the key-value store used by the poll digest.
type CacheConfig struct {
	// Backend is "memory" or "redis"; default: "memory".
	Backend string

	// RedisURL is a redis:// URL used when Backend is "redis".
	RedisURL string

	// MaxEntries bounds the in-memory store.
	MaxEntries int // default: 1000
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level      string // default: "info"
	Format     string // "json" or "text"; default: "json"
	FilePath   string // empty = stdout only
	MaxSizeMB  int    // default: 100
	MaxBackups int    // default: 3
	MaxAgeDays int    // default: 28
}

// AuthConfig controls API key authentication for /api/v1.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting on /api/v1.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 2

	// Burst is the maximum burst size per API key.
	Burst int // default: 5
}

// PollConfig controls the daily poll digest.
type PollConfig struct {
	// HomeChatID is the only chat the digest runs in; 0 disables it.
	HomeChatID int64

	// Timezone decides what "today" means and formats the digest header.
	Timezone string // default: "Asia/Jakarta"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Enabled: envBoolOr("LAODEAI_HTTP_ENABLED", true),
			Host:    envOr("LAODEAI_HOST", "0.0.0.0"),
			Port:    envIntOr("LAODEAI_PORT", 8080),
			Mode:    envOr("LAODEAI_MODE", "release"),
		},
		Telegram: TelegramConfig{
			Token:         os.Getenv("LAODEAI_TELEGRAM_TOKEN"),
			Endpoint:      os.Getenv("LAODEAI_TELEGRAM_ENDPOINT"),
			Mode:          envOr("LAODEAI_TELEGRAM_MODE", "polling"),
			WebhookSecret: os.Getenv("LAODEAI_TELEGRAM_WEBHOOK_SECRET"),
			PollTimeout:   envDurationOr("LAODEAI_TELEGRAM_POLL_TIMEOUT", 60*time.Second),
			Command:       envOr("LAODEAI_COMMAND", "laodeai"),
			MaxInFlight:   envIntOr("LAODEAI_MAX_IN_FLIGHT", 32),
		},
		Search: SearchConfig{
			BaseURL: envOr("LAODEAI_SEARCH_URL", "https://html.duckduckgo.com/html/"),
			Timeout: envDurationOr("LAODEAI_SEARCH_TIMEOUT", 15*time.Second),
		},
		Fetch: FetchConfig{
			Timeout:      envDurationOr("LAODEAI_FETCH_TIMEOUT", 15*time.Second),
			UserAgent:    envOr("LAODEAI_USER_AGENT", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"),
			MaxBodyBytes: int64(envIntOr("LAODEAI_FETCH_MAX_BYTES", 10<<20)),
		},
		Render: RenderConfig{
			Headless:   envBoolOr("LAODEAI_HEADLESS", true),
			MaxPages:   envIntOr("LAODEAI_RENDER_PAGES", 4),
			NoSandbox:  envBoolOr("LAODEAI_NO_SANDBOX", false),
			BrowserBin: os.Getenv("LAODEAI_BROWSER_BIN"),
			Timeout:    envDurationOr("LAODEAI_RENDER_TIMEOUT", 20*time.Second),
		},
		Paste: PasteConfig{
			Endpoint: envOr("LAODEAI_PASTE_URL", "https://pastebin.com/api/api_post.php"),
			APIKey:   os.Getenv("LAODEAI_PASTE_KEY"),
			Timeout:  envDurationOr("LAODEAI_PASTE_TIMEOUT", 10*time.Second),
		},
		Cache: CacheConfig{
			Backend:    envOr("LAODEAI_CACHE_BACKEND", "memory"),
			RedisURL:   envOr("LAODEAI_REDIS_URL", "redis://localhost:6379/0"),
			MaxEntries: envIntOr("LAODEAI_CACHE_MAX_ENTRIES", 1000),
		},
		Log: LogConfig{
			Level:      envOr("LAODEAI_LOG_LEVEL", "info"),
			Format:     envOr("LAODEAI_LOG_FORMAT", "json"),
			FilePath:   os.Getenv("LAODEAI_LOG_FILE"),
			MaxSizeMB:  envIntOr("LAODEAI_LOG_MAX_SIZE_MB", 100),
			MaxBackups: envIntOr("LAODEAI_LOG_MAX_BACKUPS", 3),
			MaxAgeDays: envIntOr("LAODEAI_LOG_MAX_AGE_DAYS", 28),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("LAODEAI_AUTH_ENABLED", true),
			APIKeys: envSliceOr("LAODEAI_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("LAODEAI_RATE_RPS", 2.0),
			Burst:             envIntOr("LAODEAI_RATE_BURST", 5),
		},
		Poll: PollConfig{
			HomeChatID: envInt64Or("LAODEAI_HOME_CHAT_ID", 0),
			Timezone:   envOr("LAODEAI_TIMEZONE", "Asia/Jakarta"),
		},
	}
}

// Validate reports configuration that would make the bot unusable.
func (c *Config) Validate() error {
	var errs []error
	if c.Telegram.Token == "" {
		errs = append(errs, errors.New("LAODEAI_TELEGRAM_TOKEN is required"))
	}
	switch c.Telegram.Mode {
	case "polling":
	case "webhook":
		if !c.Server.Enabled {
			errs = append(errs, errors.New("webhook mode needs the HTTP server (LAODEAI_HTTP_ENABLED)"))
		}
	default:
		errs = append(errs, errors.New("LAODEAI_TELEGRAM_MODE must be polling or webhook"))
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		errs = append(errs, errors.New("LAODEAI_CACHE_BACKEND must be memory or redis"))
	}
	if _, err := time.LoadLocation(c.Poll.Timezone); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envInt64Or(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
