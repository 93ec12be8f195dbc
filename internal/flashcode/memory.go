package flashcode

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps codes in process. Used when redis is not configured and in tests.
type MemoryStore struct {
	mu     sync.Mutex
	grants map[string]Grant
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{grants: map[string]Grant{}, now: time.Now}
}

func (s *MemoryStore) Issue(ctx context.Context, productID uuid.UUID, price float64, ttl time.Duration) (Grant, error) {
	if productID == uuid.Nil {
		return Grant{}, fmt.Errorf("product id required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	for attempt := 0; attempt < 5; attempt++ {
		code, err := Generate()
		if err != nil {
			return Grant{}, err
		}
		if _, taken := s.grants[code]; taken {
			continue
		}
		g := Grant{
			Code:      code,
			ProductID: productID,
			Price:     price,
			ExpiresAt: s.now().Add(normalizeTTL(ttl)).UTC(),
		}
		s.grants[code] = g
		return g, nil
	}
	return Grant{}, fmt.Errorf("flash code collision")
}

func (s *MemoryStore) Redeem(ctx context.Context, code string, productID uuid.UUID) (Grant, error) {
	code = Normalize(code)
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.grants[code]
	if !ok || !s.now().Before(g.ExpiresAt) {
		delete(s.grants, code)
		return Grant{}, ErrNotFound
	}
	if g.ProductID != productID {
		return Grant{}, ErrProductMismatch
	}
	delete(s.grants, code)
	return g, nil
}

func (s *MemoryStore) Revoke(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grants, Normalize(code))
	return nil
}

func (s *MemoryStore) sweepLocked() {
	now := s.now()
	for code, g := range s.grants {
		if !now.Before(g.ExpiresAt) {
			delete(s.grants, code)
		}
	}
}
