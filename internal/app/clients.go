package app

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/pricing-engine/internal/flashcode"
	"github.com/yungbote/pricing-engine/internal/platform/advisory"
	"github.com/yungbote/pricing-engine/internal/platform/logger"
	"github.com/yungbote/pricing-engine/internal/pricing"
)

type Clients struct {
	// Advisor is nil when no advisory endpoint is configured.
	Advisor pricing.Advisor
	Redis   *goredis.Client
	Flash   flashcode.Store
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	// Advisory
	if strings.TrimSpace(cfg.Advisory.BaseURL) != "" {
		client, err := advisory.NewClient(cfg.Advisory, log)
		if err != nil {
			return Clients{}, fmt.Errorf("init advisory client: %w", err)
		}
		out.Advisor = advisory.NewLimited(client, cfg.Advisory.RatePerSec, cfg.Advisory.Burst)
	} else {
		log.Warn("ADVISORY_BASE_URL not set; every decision uses the deterministic fallback")
	}

	// Redis
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		rdb, err := flashcode.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		out.Redis = rdb
		out.Flash = flashcode.NewRedisStore(rdb, cfg.Redis.KeyPrefix, log)
	} else {
		log.Warn("REDIS_ADDR not set; flash codes are held in process memory")
		out.Flash = flashcode.NewMemoryStore()
	}

	return out, nil
}

func (c Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
