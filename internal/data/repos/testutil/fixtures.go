package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/pricing-engine/internal/domain"
	"gorm.io/gorm"
)

func SeedProduct(tb testing.TB, ctx context.Context, tx *gorm.DB, current, floor float64) *types.Product {
	tb.Helper()
	p := &types.Product{
		ID:             uuid.New(),
		Name:           "iPhone 13 Pro 256GB",
		Category:       "phones",
		CurrentPrice:   current,
		FloorPrice:     floor,
		InventoryCount: 3,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return p
}

func SeedCustomer(tb testing.TB, ctx context.Context, tx *gorm.DB, phone string, ct types.CustomerType) *types.Customer {
	tb.Helper()
	c := &types.Customer{
		ID:           uuid.New(),
		Phone:        phone,
		Name:         "Ada",
		CustomerType: ct,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed customer: %v", err)
	}
	return c
}

func SeedObservation(tb testing.TB, ctx context.Context, tx *gorm.DB, productID uuid.UUID, tier types.Tier, price float64, outOfStock bool, observedAt time.Time) *types.PriceObservation {
	tb.Helper()
	o := &types.PriceObservation{
		ID:         uuid.New(),
		ProductID:  productID,
		Source:     string(tier) + "-source",
		Price:      price,
		Tier:       tier,
		OutOfStock: outOfStock,
		ObservedAt: observedAt.UTC(),
	}
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed observation: %v", err)
	}
	return o
}
