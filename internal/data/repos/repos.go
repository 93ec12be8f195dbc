package repos

import (
	"github.com/yungbote/pricing-engine/internal/data/repos/audit"
	"github.com/yungbote/pricing-engine/internal/data/repos/catalog"
	"github.com/yungbote/pricing-engine/internal/data/repos/customer"
	"github.com/yungbote/pricing-engine/internal/data/repos/market"
	"github.com/yungbote/pricing-engine/internal/platform/logger"
	"gorm.io/gorm"
)

type ProductRepo = catalog.ProductRepo

type CustomerRepo = customer.CustomerRepo
type CustomerSignalRepo = customer.CustomerSignalRepo

type PriceObservationRepo = market.PriceObservationRepo

type PricingDecisionRepo = audit.PricingDecisionRepo

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return catalog.NewProductRepo(db, baseLog)
}

func NewCustomerRepo(db *gorm.DB, baseLog *logger.Logger) CustomerRepo {
	return customer.NewCustomerRepo(db, baseLog)
}
func NewCustomerSignalRepo(db *gorm.DB, baseLog *logger.Logger) CustomerSignalRepo {
	return customer.NewCustomerSignalRepo(db, baseLog)
}

func NewPriceObservationRepo(db *gorm.DB, baseLog *logger.Logger) PriceObservationRepo {
	return market.NewPriceObservationRepo(db, baseLog)
}

func NewPricingDecisionRepo(db *gorm.DB, baseLog *logger.Logger) PricingDecisionRepo {
	return audit.NewPricingDecisionRepo(db, baseLog)
}
