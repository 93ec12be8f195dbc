package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tier string

const (
	TierTruth  Tier = "truth"
	TierMarket Tier = "market"
	TierNoise  Tier = "noise"
)

// Rank orders tiers by trust; lower is more trusted.
func (t Tier) Rank() int {
	switch t {
	case TierTruth:
		return 0
	case TierMarket:
		return 1
	case TierNoise:
		return 2
	default:
		return 3
	}
}

func (t Tier) Valid() bool { return t.Rank() < 3 }

// PriceObservation is append-only; rows are only removed by retention.
type PriceObservation struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_observation_product_time,priority:1" json:"product_id"`
	Source         string     `gorm:"column:source;not null" json:"source"`
	URL            string     `gorm:"column:url" json:"url,omitempty"`
	Price          float64    `gorm:"column:price;not null" json:"price"`
	Tier           Tier       `gorm:"column:tier;not null;index" json:"tier"`
	OutOfStock     bool       `gorm:"column:out_of_stock;not null;default:false" json:"out_of_stock"`
	SellerVerified bool       `gorm:"column:seller_verified;not null;default:false" json:"seller_verified"`
	SellerJoinedAt *time.Time `gorm:"column:seller_joined_at" json:"seller_joined_at,omitempty"`
	ObservedAt     time.Time  `gorm:"column:observed_at;not null;index:idx_observation_product_time,priority:2" json:"observed_at"`
}

func (PriceObservation) TableName() string { return "price_observation" }

func (o *PriceObservation) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.ObservedAt.IsZero() {
		o.ObservedAt = time.Now().UTC()
	}
	return nil
}
