package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pricing-engine/internal/data/repos"
	types "github.com/yungbote/pricing-engine/internal/domain"
	"github.com/yungbote/pricing-engine/internal/observability"
	"github.com/yungbote/pricing-engine/internal/platform/logger"
	"github.com/yungbote/pricing-engine/internal/pricing"
)

type ObservationService interface {
	Ingest(ctx context.Context, observations []*types.PriceObservation) (int, error)
	MarketIntel(ctx context.Context, productID uuid.UUID) (*pricing.MarketIntel, error)
	Purge(ctx context.Context, retention time.Duration) (int64, error)
}

type observationService struct {
	log             *logger.Logger
	cfg             pricing.Config
	productRepo     repos.ProductRepo
	observationRepo repos.PriceObservationRepo
	now             func() time.Time
}

func NewObservationService(
	baseLog *logger.Logger,
	cfg pricing.Config,
	productRepo repos.ProductRepo,
	observationRepo repos.PriceObservationRepo,
) ObservationService {
	return &observationService{
		log:             baseLog.With("service", "ObservationService"),
		cfg:             cfg.Normalize(),
		productRepo:     productRepo,
		observationRepo: observationRepo,
		now:             time.Now,
	}
}

// Ingest validates and appends a batch. Nothing is written when any row is invalid.
func (s *observationService) Ingest(ctx context.Context, observations []*types.PriceObservation) (int, error) {
	if len(observations) == 0 {
		return 0, nil
	}
	now := s.now().UTC()
	productIDs := make([]uuid.UUID, 0, len(observations))
	seen := map[uuid.UUID]bool{}

	for i, o := range observations {
		if o == nil {
			return 0, fmt.Errorf("%w: observation %d is empty", ErrInvalidInput, i)
		}
		o.Tier = types.Tier(strings.ToLower(strings.TrimSpace(string(o.Tier))))
		if !o.Tier.Valid() {
			return 0, fmt.Errorf("%w: observation %d has tier %q", ErrInvalidTier, i, o.Tier)
		}
		if o.ProductID == uuid.Nil {
			return 0, fmt.Errorf("%w: observation %d has no product_id", ErrInvalidInput, i)
		}
		if o.Price <= 0 || math.IsInf(o.Price, 0) || math.IsNaN(o.Price) {
			return 0, fmt.Errorf("%w: observation %d has a non-positive price", ErrInvalidInput, i)
		}
		o.Source = strings.TrimSpace(o.Source)
		if o.Source == "" {
			return 0, fmt.Errorf("%w: observation %d has no source", ErrInvalidInput, i)
		}
		o.ID = uuid.Nil
		if o.ObservedAt.IsZero() {
			o.ObservedAt = now
		}
		o.ObservedAt = o.ObservedAt.UTC()
		if !seen[o.ProductID] {
			seen[o.ProductID] = true
			productIDs = append(productIDs, o.ProductID)
		}
	}

	products, err := s.productRepo.GetByIDs(ctx, nil, productIDs)
	if err != nil {
		return 0, fmt.Errorf("load products: %w", err)
	}
	if len(products) != len(productIDs) {
		return 0, ErrProductNotFound
	}

	inserted, err := s.observationRepo.Append(ctx, nil, observations)
	if err != nil {
		s.log.Error("Observation append failed", "count", len(observations), "error", err)
		return 0, fmt.Errorf("append observations: %w", err)
	}

	perTier := map[types.Tier]int{}
	for _, o := range inserted {
		perTier[o.Tier]++
	}
	for tier, n := range perTier {
		observability.Current().AddObservationsIngested(string(tier), n)
	}
	s.log.Debug("Observations ingested", "count", len(inserted), "products", len(productIDs))
	return len(inserted), nil
}

// MarketIntel is the aggregated view served to callers. It never includes the floor.
func (s *observationService) MarketIntel(ctx context.Context, productID uuid.UUID) (*pricing.MarketIntel, error) {
	if productID == uuid.Nil {
		return nil, ErrProductNotFound
	}
	products, err := s.productRepo.GetByIDs(ctx, nil, []uuid.UUID{productID})
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if len(products) == 0 {
		return nil, ErrProductNotFound
	}
	obs, err := s.observationRepo.ListForProduct(ctx, nil, productID, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("load observations: %w", err)
	}
	intel := pricing.Aggregate(obs, s.now(), s.cfg)
	return &intel, nil
}

// Purge deletes observations older than retention. Only the retention worker and
// the ops CLI call it.
func (s *observationService) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, fmt.Errorf("%w: retention must be positive", ErrInvalidInput)
	}
	cutoff := s.now().UTC().Add(-retention)
	n, err := s.observationRepo.PurgeOlderThan(ctx, nil, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge observations: %w", err)
	}
	observability.Current().AddObservationsPurged(n)
	if n > 0 {
		s.log.Info("Observations purged", "count", n, "cutoff", cutoff)
	}
	return n, nil
}
