package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerType string

const (
	CustomerPriceSensitive   CustomerType = "price_sensitive"
	CustomerQualitySensitive CustomerType = "quality_sensitive"
	CustomerUnknown          CustomerType = "unknown"
)

func ParseCustomerType(s string) CustomerType {
	switch CustomerType(s) {
	case CustomerPriceSensitive, CustomerQualitySensitive:
		return CustomerType(s)
	default:
		return CustomerUnknown
	}
}

type Customer struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Phone           string       `gorm:"column:phone;uniqueIndex;not null" json:"-"`
	Name            string       `gorm:"column:name" json:"name,omitempty"`
	CustomerType    CustomerType `gorm:"column:customer_type;not null;default:unknown" json:"customer_type"`
	CreatedAt       time.Time    `gorm:"not null" json:"created_at"`
	LastInteraction time.Time    `gorm:"not null" json:"last_interaction"`
}

func (Customer) TableName() string { return "customer" }

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CustomerType == "" {
		c.CustomerType = CustomerUnknown
	}
	if c.LastInteraction.IsZero() {
		c.LastInteraction = time.Now().UTC()
	}
	return nil
}

// CustomerSignal is one classified customer message.
type CustomerSignal struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID uuid.UUID    `gorm:"type:uuid;not null;index" json:"customer_id"`
	SignalText string       `gorm:"column:signal_text" json:"signal_text"`
	SignalType CustomerType `gorm:"column:signal_type;not null" json:"signal_type"`
	Confidence float64      `gorm:"column:confidence;not null" json:"confidence"`
	DetectedAt time.Time    `gorm:"column:detected_at;not null;index" json:"detected_at"`
}

func (CustomerSignal) TableName() string { return "customer_signal" }

func (s *CustomerSignal) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.DetectedAt.IsZero() {
		s.DetectedAt = time.Now().UTC()
	}
	return nil
}
