package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/pricing-engine/internal/data/repos"
	"github.com/yungbote/pricing-engine/internal/platform/logger"
)

type Repos struct {
	Product        repos.ProductRepo
	Customer       repos.CustomerRepo
	CustomerSignal repos.CustomerSignalRepo
	Observation    repos.PriceObservationRepo
	Decision       repos.PricingDecisionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Product:        repos.NewProductRepo(db, log),
		Customer:       repos.NewCustomerRepo(db, log),
		CustomerSignal: repos.NewCustomerSignalRepo(db, log),
		Observation:    repos.NewPriceObservationRepo(db, log),
		Decision:       repos.NewPricingDecisionRepo(db, log),
	}
}
