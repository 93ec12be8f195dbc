package db

import (
	types "github.com/yungbote/pricing-engine/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Catalog (read-only to the engine)
		&types.Product{},

		// Customers + profiler signals
		&types.Customer{},
		&types.CustomerSignal{},

		// Market observations (append-only, purged by retention)
		&types.PriceObservation{},

		// Audit trail
		&types.PricingDecision{},
	)
}
