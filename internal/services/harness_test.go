package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/pricing-engine/internal/data/repos"
	"github.com/yungbote/pricing-engine/internal/data/repos/testutil"
	types "github.com/yungbote/pricing-engine/internal/domain"
	"github.com/yungbote/pricing-engine/internal/flashcode"
	"github.com/yungbote/pricing-engine/internal/pricing"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type advisorFunc func(ctx context.Context, system, user string) (string, error)

func (f advisorFunc) Complete(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

type harness struct {
	db           *gorm.DB
	products     repos.ProductRepo
	customers    repos.CustomerRepo
	signals      repos.CustomerSignalRepo
	observations repos.PriceObservationRepo
	decisions    repos.PricingDecisionRepo
	flash        *flashcode.MemoryStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return &harness{
		db:           db,
		products:     repos.NewProductRepo(db, log),
		customers:    repos.NewCustomerRepo(db, log),
		signals:      repos.NewCustomerSignalRepo(db, log),
		observations: repos.NewPriceObservationRepo(db, log),
		decisions:    repos.NewPricingDecisionRepo(db, log),
		flash:        flashcode.NewMemoryStore(),
	}
}

func (h *harness) decisionService(t *testing.T, advisor pricing.Advisor, cfg pricing.Config, decisions repos.PricingDecisionRepo) DecisionService {
	t.Helper()
	if decisions == nil {
		decisions = h.decisions
	}
	svc := NewDecisionService(testutil.Logger(t), DecisionServiceConfig{Pricing: cfg}, h.products, h.customers, h.observations, decisions, advisor, nil, h.flash)
	svc.(*decisionService).now = func() time.Time { return testNow }
	return svc
}

func (h *harness) negotiationService(t *testing.T, decisions repos.PricingDecisionRepo) NegotiationService {
	t.Helper()
	if decisions == nil {
		decisions = h.decisions
	}
	return NewNegotiationService(testutil.Logger(t), pricing.DefaultConfig(), h.products, h.customers, decisions, nil)
}

func (h *harness) product(t *testing.T, current, floor float64) *types.Product {
	t.Helper()
	return testutil.SeedProduct(t, context.Background(), h.db, current, floor)
}

func (h *harness) observe(t *testing.T, productID uuid.UUID, tier types.Tier, price float64, outOfStock bool, age time.Duration) {
	t.Helper()
	testutil.SeedObservation(t, context.Background(), h.db, productID, tier, price, outOfStock, testNow.Add(-age))
}

// failingDecisionRepo simulates an unavailable audit store.
type failingDecisionRepo struct {
	repos.PricingDecisionRepo
	err error
}

func (f failingDecisionRepo) Create(ctx context.Context, tx *gorm.DB, decision *types.PricingDecision) (*types.PricingDecision, error) {
	return nil, f.err
}
