package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/pricing-engine/internal/data/db"
	"github.com/yungbote/pricing-engine/internal/flashcode"
	"github.com/yungbote/pricing-engine/internal/jobs/worker"
	"github.com/yungbote/pricing-engine/internal/observability"
	"github.com/yungbote/pricing-engine/internal/platform/advisory"
	"github.com/yungbote/pricing-engine/internal/platform/envutil"
	"github.com/yungbote/pricing-engine/internal/platform/logger"
	"github.com/yungbote/pricing-engine/internal/pricing"
)

const configPathEnv = "PRICING_CONFIG_PATH"

type Config struct {
	HTTPAddr       string   `yaml:"http_addr"`
	LogMode        string   `yaml:"log_mode"`
	JWTSecretKey   string   `yaml:"jwt_secret_key"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MetricsEnabled bool     `yaml:"metrics_enabled"`

	DB        db.Config                `yaml:"db"`
	Advisory  advisory.Config          `yaml:"advisory"`
	Redis     flashcode.RedisConfig    `yaml:"redis"`
	Pricing   pricing.Config           `yaml:"pricing"`
	FlashTTL  time.Duration            `yaml:"flash_ttl"`
	Retention worker.Config            `yaml:"retention"`
	OTel      observability.OtelConfig `yaml:"otel"`
}

func DefaultConfig() Config {
	return Config{
		HTTPAddr:       ":8080",
		LogMode:        "development",
		MetricsEnabled: true,
		DB: db.Config{
			Driver: "postgres",
		},
		Advisory: advisory.Config{
			Model:       "gpt-4o-mini",
			Timeout:     15 * time.Second,
			Temperature: 0.2,
			JSONMode:    true,
			RatePerSec:  5,
			Burst:       10,
		},
		Pricing:   pricing.DefaultConfig(),
		FlashTTL:  flashcode.DefaultTTL,
		Retention: worker.DefaultConfig(),
		OTel: observability.OtelConfig{
			ServiceName: "pricing-engine",
			SampleRatio: 1,
		},
	}
}

// LoadConfig layers defaults, the optional YAML file named by PRICING_CONFIG_PATH,
// and environment overrides, in that order.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := DefaultConfig()
	if path := envutil.String(configPathEnv, ""); path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return Config{}, err
		}
		if log != nil {
			log.Info("Loaded config file", "path", path)
		}
	}
	applyEnv(&cfg)
	cfg.Pricing = cfg.Pricing.Normalize()
	if cfg.FlashTTL <= 0 {
		cfg.FlashTTL = flashcode.DefaultTTL
	}
	if cfg.JWTSecretKey == "" && log != nil {
		log.Warn("JWT_SECRET_KEY not set; service routes accept anonymous callers")
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if port := envutil.String("PORT", ""); port != "" {
		cfg.HTTPAddr = ":" + port
	}
	cfg.HTTPAddr = envutil.String("HTTP_ADDR", cfg.HTTPAddr)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.JWTSecretKey = envutil.String("JWT_SECRET_KEY", cfg.JWTSecretKey)
	if origins := envutil.String("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		cfg.AllowedOrigins = splitCSV(origins)
	}
	cfg.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.MetricsEnabled)

	cfg.DB.Driver = envutil.String("DB_DRIVER", cfg.DB.Driver)
	cfg.DB.DSN = envutil.String("DATABASE_URL", cfg.DB.DSN)

	cfg.Advisory.BaseURL = envutil.String("ADVISORY_BASE_URL", cfg.Advisory.BaseURL)
	cfg.Advisory.APIKey = envutil.String("ADVISORY_API_KEY", cfg.Advisory.APIKey)
	cfg.Advisory.Model = envutil.String("ADVISORY_MODEL", cfg.Advisory.Model)
	cfg.Advisory.Timeout = envutil.Duration("ADVISORY_TIMEOUT", cfg.Advisory.Timeout)
	cfg.Advisory.RatePerSec = envutil.Float("ADVISORY_RATE_PER_SEC", cfg.Advisory.RatePerSec)
	cfg.Advisory.Burst = envutil.Int("ADVISORY_BURST", cfg.Advisory.Burst)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)

	p := &cfg.Pricing
	p.SurgeWindow = envutil.Duration("PRICING_SURGE_WINDOW", p.SurgeWindow)
	p.SurgeMarkup = envutil.Float("PRICING_SURGE_MARKUP", p.SurgeMarkup)
	p.MatchDecrement = envutil.Float("PRICING_MATCH_DECREMENT", p.MatchDecrement)
	p.LadderIncrement = envutil.Float("PRICING_LADDER_INCREMENT", p.LadderIncrement)
	p.CounterBand = envutil.Float("PRICING_COUNTER_BAND", p.CounterBand)
	p.ClaimTolerance = envutil.Float("PRICING_CLAIM_TOLERANCE", p.ClaimTolerance)
	p.NewSellerWindow = envutil.Duration("PRICING_NEW_SELLER_WINDOW", p.NewSellerWindow)
	p.AdvisoryTimeout = envutil.Duration("PRICING_ADVISORY_TIMEOUT", p.AdvisoryTimeout)

	cfg.FlashTTL = envutil.Duration("FLASH_CODE_TTL", cfg.FlashTTL)
	cfg.Retention.Retention = envutil.Duration("OBSERVATION_RETENTION", cfg.Retention.Retention)
	cfg.Retention.Interval = envutil.Duration("RETENTION_INTERVAL", cfg.Retention.Interval)

	cfg.OTel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.OTel.Enabled)
	cfg.OTel.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.OTel.ServiceName)
	cfg.OTel.Environment = envutil.String("OTEL_ENVIRONMENT", cfg.OTel.Environment)
	cfg.OTel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTel.Endpoint)
	cfg.OTel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.OTel.Insecure)
	cfg.OTel.SampleRatio = envutil.Float("OTEL_SAMPLE_RATIO", cfg.OTel.SampleRatio)
	if raw := envutil.String("OTEL_EXPORTER_OTLP_HEADERS", ""); raw != "" {
		cfg.OTel.Headers = observability.ParseHeaders(raw)
	}
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
