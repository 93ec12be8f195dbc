package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PricingDecision is the write-once audit record of one recommendation.
type PricingDecision struct {
	ID                    uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID             uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	CustomerID            *uuid.UUID     `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	OldPrice              float64        `gorm:"column:old_price;not null" json:"old_price"`
	NewPrice              float64        `gorm:"column:new_price;not null" json:"new_price"`
	Strategy              string         `gorm:"column:strategy;not null;index" json:"strategy"`
	Source                string         `gorm:"column:source;not null" json:"source"`
	Reasoning             string         `gorm:"column:reasoning" json:"reasoning"`
	MessageAngle          string         `gorm:"column:message_angle" json:"message_angle,omitempty"`
	MarketAvgPrice        float64        `gorm:"column:market_avg_price" json:"market_avg_price"`
	LowestCompetitorPrice float64        `gorm:"column:lowest_competitor_price" json:"lowest_competitor_price"`
	ConversionProbability float64        `gorm:"column:conversion_probability" json:"conversion_probability"`
	SurgeMode             bool           `gorm:"column:surge_mode;not null;default:false" json:"surge_mode"`
	FlashCode             string         `gorm:"column:flash_code;index" json:"flash_code,omitempty"`
	MarketIntel           datatypes.JSON `gorm:"column:market_intel" json:"market_intel,omitempty"`
	CreatedAt             time.Time      `gorm:"not null;index" json:"created_at"`
}

func (PricingDecision) TableName() string { return "pricing_decision" }

func (d *PricingDecision) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Decisions are never updated.
func (d *PricingDecision) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableDecision
}
