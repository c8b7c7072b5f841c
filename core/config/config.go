package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// PaperNoteConfig describes the remote content-hosting API endpoints.
type PaperNoteConfig struct {
	MediaAPIURL           string `yaml:"media_api_url" envconfig:"PAPERNOTE_MEDIA_API_URL"`
	ContentAPIURL         string `yaml:"content_api_url" envconfig:"PAPERNOTE_CONTENT_API_URL"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds" envconfig:"PAPERNOTE_REQUEST_TIMEOUT_SECONDS"`
}

// MediaConfig bounds inbound attachments before any upload is attempted.
type MediaConfig struct {
	MaxFileSizeBytes  int64    `yaml:"max_file_size_bytes" envconfig:"MEDIA_MAX_FILE_SIZE_BYTES"`
	AllowedImageTypes []string `yaml:"allowed_image_types" envconfig:"MEDIA_ALLOWED_IMAGE_TYPES"`
	AllowedVideoTypes []string `yaml:"allowed_video_types" envconfig:"MEDIA_ALLOWED_VIDEO_TYPES"`
	TempDir           string   `yaml:"temp_dir" envconfig:"MEDIA_TEMP_DIR"`
}

// SessionConfig controls dialogue session lifetime.
type SessionConfig struct {
	IdleTTLMinutes int `yaml:"idle_ttl_minutes" envconfig:"SESSION_IDLE_TTL_MINUTES"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir"`
	BotFile     string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
)

// DefaultMaxFileSizeBytes is the upload cap applied when none is configured.
const DefaultMaxFileSizeBytes = 20 * 1024 * 1024

// RateLimitConfig holds settings for rate limiting.
// ExcludeUpdates accepts update types to bypass limiting:
// - "callback": Telegram callback button presses
// - "message": standard text messages
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// Config aggregates the full bot configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	PaperNote PaperNoteConfig `yaml:"papernote"`
	Media     MediaConfig     `yaml:"media"`
	Session   SessionConfig   `yaml:"session"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	if strings.TrimSpace(cfg.PaperNote.MediaAPIURL) == "" {
		return fmt.Errorf("papernote.media_api_url is required")
	}
	if strings.TrimSpace(cfg.PaperNote.ContentAPIURL) == "" {
		return fmt.Errorf("papernote.content_api_url is required")
	}
	if cfg.PaperNote.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("papernote.request_timeout_seconds must be >= 0")
	}
	if cfg.PaperNote.RequestTimeoutSeconds == 0 {
		cfg.PaperNote.RequestTimeoutSeconds = 30
	}

	if cfg.Media.MaxFileSizeBytes < 0 {
		return fmt.Errorf("media.max_file_size_bytes must be >= 0")
	}
	if cfg.Media.MaxFileSizeBytes == 0 {
		cfg.Media.MaxFileSizeBytes = DefaultMaxFileSizeBytes
	}
	if len(cfg.Media.AllowedImageTypes) == 0 {
		cfg.Media.AllowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}
	}
	if len(cfg.Media.AllowedVideoTypes) == 0 {
		cfg.Media.AllowedVideoTypes = []string{"video/mp4", "video/avi"}
	}
	normalizeMIMEList(cfg.Media.AllowedImageTypes)
	normalizeMIMEList(cfg.Media.AllowedVideoTypes)
	if strings.TrimSpace(cfg.Media.TempDir) == "" {
		cfg.Media.TempDir = os.TempDir()
	}

	if cfg.Session.IdleTTLMinutes < 0 {
		return fmt.Errorf("session.idle_ttl_minutes must be >= 0")
	}
	if cfg.Session.IdleTTLMinutes == 0 {
		cfg.Session.IdleTTLMinutes = 30
	}

	allowed := map[string]struct{}{
		UpdateCallback: {},
		UpdateMessage:  {},
	}
	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}
	return nil
}

func normalizeMIMEList(list []string) {
	for i, v := range list {
		list[i] = strings.ToLower(strings.TrimSpace(v))
	}
}
