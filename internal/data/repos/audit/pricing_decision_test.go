package audit

import (
	"context"
	"testing"

	"github.com/yungbote/pricing-engine/internal/data/repos/testutil"
	types "github.com/yungbote/pricing-engine/internal/domain"
)

func TestPricingDecisionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPricingDecisionRepo(db, testutil.Logger(t))
	ctx := context.Background()

	product := testutil.SeedProduct(t, ctx, tx, 120000, 100000)

	first, err := repo.Create(ctx, tx, &types.PricingDecision{
		ProductID: product.ID,
		OldPrice:  120000,
		NewPrice:  110000,
		Strategy:  "match_offer",
		Source:    "fallback",
		Reasoning: "match market",
		FlashCode: "PAY-AB12CD",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(ctx, tx, &types.PricingDecision{
		ProductID: product.ID,
		OldPrice:  120000,
		NewPrice:  120000,
		Strategy:  "value_reinforcement",
		Source:    "advisory",
	}); err != nil {
		t.Fatalf("Create (second): %v", err)
	}

	list, err := repo.ListForProduct(ctx, tx, product.ID, 10)
	if err != nil {
		t.Fatalf("ListForProduct: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListForProduct: want=2 got=%d", len(list))
	}

	got, err := repo.GetByFlashCode(ctx, tx, "PAY-AB12CD")
	if err != nil {
		t.Fatalf("GetByFlashCode: %v", err)
	}
	if got == nil || got.ID != first.ID {
		t.Fatalf("GetByFlashCode: unexpected result %+v", got)
	}

	missing, err := repo.GetByFlashCode(ctx, tx, "PAY-ZZZZZZ")
	if err != nil {
		t.Fatalf("GetByFlashCode (missing): %v", err)
	}
	if missing != nil {
		t.Fatalf("GetByFlashCode (missing): want nil got %+v", missing)
	}
}

func TestPricingDecisionIsWriteOnce(t *testing.T) {
	db := testutil.DB(t)
	repo := NewPricingDecisionRepo(db, testutil.Logger(t))
	ctx := context.Background()

	product := testutil.SeedProduct(t, ctx, db, 120000, 100000)
	d, err := repo.Create(ctx, nil, &types.PricingDecision{
		ProductID: product.ID,
		OldPrice:  120000,
		NewPrice:  120000,
		Strategy:  "value_reinforcement",
		Source:    "fallback",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	d.NewPrice = 1
	if err := db.WithContext(ctx).Save(d).Error; err == nil {
		t.Fatalf("Save: expected write-once error")
	}
}
