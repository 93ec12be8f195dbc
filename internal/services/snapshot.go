package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/pricing-engine/internal/data/repos"
	types "github.com/yungbote/pricing-engine/internal/domain"
)

// snapshot is the point-in-time view one decision is computed from.
type snapshot struct {
	Product      *types.Product
	Customer     *types.Customer
	Observations []*types.PriceObservation
}

type snapshotLoader struct {
	productRepo     repos.ProductRepo
	customerRepo    repos.CustomerRepo
	observationRepo repos.PriceObservationRepo
}

// load fetches product, optional customer and (when withObservations) the product's
// observations concurrently. No locks are held across the decision.
func (l snapshotLoader) load(ctx context.Context, productID uuid.UUID, customerID *uuid.UUID, withObservations bool) (*snapshot, error) {
	if productID == uuid.Nil {
		return nil, ErrProductNotFound
	}
	snap := &snapshot{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := l.productRepo.GetByIDs(gctx, nil, []uuid.UUID{productID})
		if err != nil {
			return fmt.Errorf("load product: %w", err)
		}
		if len(rows) == 0 || rows[0] == nil {
			return ErrProductNotFound
		}
		snap.Product = rows[0]
		return nil
	})

	if customerID != nil && *customerID != uuid.Nil {
		id := *customerID
		g.Go(func() error {
			rows, err := l.customerRepo.GetByIDs(gctx, nil, []uuid.UUID{id})
			if err != nil {
				return fmt.Errorf("load customer: %w", err)
			}
			if len(rows) == 0 || rows[0] == nil {
				return ErrCustomerNotFound
			}
			snap.Customer = rows[0]
			return nil
		})
	}

	if withObservations {
		g.Go(func() error {
			rows, err := l.observationRepo.ListForProduct(gctx, nil, productID, time.Time{})
			if err != nil {
				return fmt.Errorf("load observations: %w", err)
			}
			snap.Observations = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *snapshot) customerType() types.CustomerType {
	if s == nil || s.Customer == nil {
		return types.CustomerUnknown
	}
	return s.Customer.CustomerType
}

func (s *snapshot) customerID() *uuid.UUID {
	if s == nil || s.Customer == nil {
		return nil
	}
	id := s.Customer.ID
	return &id
}
