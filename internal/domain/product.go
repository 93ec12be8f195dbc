package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is read-only to the pricing engine. FloorPrice is never serialized.
type Product struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	Category       string    `gorm:"column:category;index" json:"category,omitempty"`
	CurrentPrice   float64   `gorm:"column:current_price;not null" json:"current_price"`
	FloorPrice     float64   `gorm:"column:floor_price;not null" json:"-"`
	InventoryCount int       `gorm:"column:inventory_count;not null;default:0" json:"inventory_count"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

func (Product) TableName() string { return "product" }

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
