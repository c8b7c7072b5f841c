package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
		PaperNote: PaperNoteConfig{
			MediaAPIURL:   "https://papernote.online/media-api",
			ContentAPIURL: "https://papernote.online/content-api",
		},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run mode = %q, want longpoll", cfg.Telegram.RunMode)
	}
	if cfg.PaperNote.RequestTimeoutSeconds != 30 {
		t.Errorf("request timeout = %d, want 30", cfg.PaperNote.RequestTimeoutSeconds)
	}
	if cfg.Media.MaxFileSizeBytes != DefaultMaxFileSizeBytes {
		t.Errorf("max file size = %d, want %d", cfg.Media.MaxFileSizeBytes, DefaultMaxFileSizeBytes)
	}
	if len(cfg.Media.AllowedImageTypes) != 4 {
		t.Errorf("image types = %v", cfg.Media.AllowedImageTypes)
	}
	if len(cfg.Media.AllowedVideoTypes) != 2 {
		t.Errorf("video types = %v", cfg.Media.AllowedVideoTypes)
	}
	if cfg.Media.TempDir == "" {
		t.Error("temp dir not defaulted")
	}
	if cfg.Session.IdleTTLMinutes != 30 {
		t.Errorf("session ttl = %d, want 30", cfg.Session.IdleTTLMinutes)
	}
}

func TestNormalizeRequiredFields(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing token", func(c *Config) { c.Telegram.Token = "" }, "token"},
		{"missing media api", func(c *Config) { c.PaperNote.MediaAPIURL = "" }, "media_api_url"},
		{"missing content api", func(c *Config) { c.PaperNote.ContentAPIURL = "" }, "content_api_url"},
		{"bad run mode", func(c *Config) { c.Telegram.RunMode = "carrier-pigeon" }, "run_mode"},
		{"negative size cap", func(c *Config) { c.Media.MaxFileSizeBytes = -1 }, "max_file_size_bytes"},
		{"negative ttl", func(c *Config) { c.Session.IdleTTLMinutes = -5 }, "idle_ttl_minutes"},
		{"bad exclude", func(c *Config) { c.RateLimit.ExcludeUpdates = []string{"inline_query"} }, "exclude_updates"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := Normalize(cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("err = %v, want mention of %q", err, tc.wantErr)
			}
		})
	}
}

func TestNormalizeWebhookMode(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "webhook"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error without webhook settings")
	}

	cfg = validConfig()
	cfg.Telegram.RunMode = "Webhook"
	cfg.Webhook = WebhookConfig{URL: "https://bot.papernote.online/hook", Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeWebhook {
		t.Errorf("run mode = %q, want webhook", cfg.Telegram.RunMode)
	}
}

func TestNormalizePollingAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run mode = %q, want longpoll", cfg.Telegram.RunMode)
	}
}

func TestNormalizeMIMEListFolding(t *testing.T) {
	cfg := validConfig()
	cfg.Media.AllowedImageTypes = []string{" Image/JPEG ", "image/png"}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Media.AllowedImageTypes[0] != "image/jpeg" {
		t.Errorf("mime not folded: %q", cfg.Media.AllowedImageTypes[0])
	}
}

func TestNormalizeExcludeUpdatesFolding(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{" Message ", "callback"}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != UpdateMessage {
		t.Errorf("exclude not folded: %q", cfg.RateLimit.ExcludeUpdates[0])
	}
}
