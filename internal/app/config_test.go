package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yungbote/pricing-engine/internal/platform/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	cfg, err := LoadConfig(logger.NewNop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr: want=:8080 got=%s", cfg.HTTPAddr)
	}
	if cfg.Pricing.SurgeWindow != 6*time.Hour || cfg.Pricing.SurgeMarkup != 1.10 {
		t.Fatalf("pricing defaults: got %+v", cfg.Pricing)
	}
	if cfg.FlashTTL != 30*time.Minute || cfg.Retention.Retention != 72*time.Hour {
		t.Fatalf("ttl defaults: flash=%s retention=%s", cfg.FlashTTL, cfg.Retention.Retention)
	}
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	body := `
http_addr: ":9000"
db:
  driver: sqlite
  dsn: "file::memory:"
pricing:
  surge_window: 3h
  match_decrement: 1000
  counter_band: 1.5
flash_ttl: 10m
allowed_origins: ["https://shop.example"]
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)
	t.Setenv("PORT", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PRICING_MATCH_DECREMENT", "250")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig(logger.NewNop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.HTTPAddr != ":9000" || cfg.DB.Driver != "sqlite" {
		t.Fatalf("file values: addr=%s driver=%s", cfg.HTTPAddr, cfg.DB.Driver)
	}
	if cfg.Pricing.SurgeWindow != 3*time.Hour {
		t.Fatalf("SurgeWindow: want=3h got=%s", cfg.Pricing.SurgeWindow)
	}
	if cfg.Pricing.MatchDecrement != 250 {
		t.Fatalf("MatchDecrement: want=250 got=%v", cfg.Pricing.MatchDecrement)
	}
	// out-of-range band falls back to the default
	if cfg.Pricing.CounterBand != 0.9 {
		t.Fatalf("CounterBand: want=0.9 got=%v", cfg.Pricing.CounterBand)
	}
	if cfg.FlashTTL != 10*time.Minute {
		t.Fatalf("FlashTTL: want=10m got=%s", cfg.FlashTTL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("AllowedOrigins: got %v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := LoadConfig(logger.NewNop()); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
