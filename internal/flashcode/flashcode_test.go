package flashcode

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pricing-engine/internal/platform/logger"
)

func TestGenerateShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code, err := Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if !Valid(code) {
			t.Fatalf("bad code shape: %q", code)
		}
		seen[code] = true
	}
	if len(seen) < 190 {
		t.Fatalf("codes are not random enough: %d distinct of 200", len(seen))
	}
	if Valid("PAY-abc123") || Valid("PAY-ABC12") || Valid("XPAY-ABC123") {
		t.Fatalf("Valid accepted a malformed code")
	}
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	productID := uuid.New()

	g, err := store.Issue(ctx, productID, 108500, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !strings.HasPrefix(g.Code, Prefix) || g.Price != 108500 || g.ProductID != productID {
		t.Fatalf("unexpected grant: %+v", g)
	}

	if _, err := store.Redeem(ctx, g.Code, uuid.New()); !errors.Is(err, ErrProductMismatch) {
		t.Fatalf("other product: want ErrProductMismatch got %v", err)
	}

	got, err := store.Redeem(ctx, strings.ToLower(g.Code)+" ", productID)
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if got.Price != 108500 {
		t.Fatalf("redeemed price: want=108500 got=%v", got.Price)
	}

	if _, err := store.Redeem(ctx, g.Code, productID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second redeem: want ErrNotFound got %v", err)
	}
	if _, err := store.Redeem(ctx, "PAY-ZZZZZZ", productID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown code: want ErrNotFound got %v", err)
	}

	revoked, err := store.Issue(ctx, productID, 101000, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := store.Revoke(ctx, strings.ToLower(revoked.Code)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := store.Redeem(ctx, revoked.Code, productID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("revoked code: want ErrNotFound got %v", err)
	}
	if err := store.Revoke(ctx, revoked.Code); err != nil {
		t.Fatalf("second revoke: want=nil got=%v", err)
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	productID := uuid.New()
	g, err := store.Issue(context.Background(), productID, 99000, 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !g.ExpiresAt.Equal(now.Add(DefaultTTL)) {
		t.Fatalf("default ttl: want=%v got=%v", now.Add(DefaultTTL), g.ExpiresAt)
	}

	now = now.Add(DefaultTTL)
	if _, err := store.Redeem(context.Background(), g.Code, productID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired code: want ErrNotFound got %v", err)
	}
}

func TestRedisStoreLifecycle(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb, err := NewRedisClient(context.Background(), RedisConfig{Addr: addr})
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })

	exerciseStore(t, NewRedisStore(rdb, "test:flash:"+uuid.NewString()+":", logger.NewNop()))
}
