package flashcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/pricing-engine/internal/platform/logger"
)

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

type RedisStore struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	now    func() time.Time
}

// NewRedisClient dials and pings redis.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*goredis.Client, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func NewRedisStore(rdb *goredis.Client, keyPrefix string, baseLog *logger.Logger) *RedisStore {
	keyPrefix = strings.TrimSpace(keyPrefix)
	if keyPrefix == "" {
		keyPrefix = "flash:"
	}
	return &RedisStore{
		log:    baseLog.With("service", "FlashCodeRedisStore"),
		rdb:    rdb,
		prefix: keyPrefix,
		now:    time.Now,
	}
}

func (s *RedisStore) key(code string) string { return s.prefix + code }

func (s *RedisStore) Issue(ctx context.Context, productID uuid.UUID, price float64, ttl time.Duration) (Grant, error) {
	if s == nil || s.rdb == nil {
		return Grant{}, fmt.Errorf("flash code store not initialized")
	}
	if productID == uuid.Nil {
		return Grant{}, fmt.Errorf("product id required")
	}
	ttl = normalizeTTL(ttl)

	for attempt := 0; attempt < 5; attempt++ {
		code, err := Generate()
		if err != nil {
			return Grant{}, err
		}
		g := Grant{Code: code, ProductID: productID, Price: price, ExpiresAt: s.now().Add(ttl).UTC()}
		raw, err := json.Marshal(g)
		if err != nil {
			return Grant{}, err
		}
		ok, err := s.rdb.SetNX(ctx, s.key(code), raw, ttl).Result()
		if err != nil {
			return Grant{}, fmt.Errorf("store flash code: %w", err)
		}
		if ok {
			return g, nil
		}
		s.log.Debug("flash code collision, regenerating", "attempt", attempt)
	}
	return Grant{}, fmt.Errorf("flash code collision")
}

func (s *RedisStore) Redeem(ctx context.Context, code string, productID uuid.UUID) (Grant, error) {
	if s == nil || s.rdb == nil {
		return Grant{}, fmt.Errorf("flash code store not initialized")
	}
	code = Normalize(code)
	if !Valid(code) {
		return Grant{}, ErrNotFound
	}

	raw, err := s.rdb.Get(ctx, s.key(code)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return Grant{}, ErrNotFound
	}
	if err != nil {
		return Grant{}, fmt.Errorf("load flash code: %w", err)
	}
	var g Grant
	if err := json.Unmarshal(raw, &g); err != nil {
		return Grant{}, fmt.Errorf("decode flash code: %w", err)
	}
	if g.ProductID != productID {
		return Grant{}, ErrProductMismatch
	}

	// DEL decides the race between two concurrent redeemers.
	n, err := s.rdb.Del(ctx, s.key(code)).Result()
	if err != nil {
		return Grant{}, fmt.Errorf("consume flash code: %w", err)
	}
	if n == 0 {
		return Grant{}, ErrNotFound
	}
	return g, nil
}

func (s *RedisStore) Revoke(ctx context.Context, code string) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("flash code store not initialized")
	}
	code = Normalize(code)
	if !Valid(code) {
		return nil
	}
	if err := s.rdb.Del(ctx, s.key(code)).Err(); err != nil {
		return fmt.Errorf("revoke flash code: %w", err)
	}
	return nil
}
