package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/pricing-engine/internal/jobs/worker"
	"github.com/yungbote/pricing-engine/internal/platform/logger"
	"github.com/yungbote/pricing-engine/internal/pricing"
	"github.com/yungbote/pricing-engine/internal/services"
)

type Services struct {
	Decision    services.DecisionService
	Negotiation services.NegotiationService
	Observation services.ObservationService
	Profile     services.ProfileService

	RetentionWorker *worker.RetentionWorker
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) Services {
	log.Info("Wiring services...")
	estimator := pricing.DefaultEstimator()

	observation := services.NewObservationService(log, cfg.Pricing, repos.Product, repos.Observation)

	return Services{
		Decision: services.NewDecisionService(
			log,
			services.DecisionServiceConfig{Pricing: cfg.Pricing, FlashTTL: cfg.FlashTTL},
			repos.Product,
			repos.Customer,
			repos.Observation,
			repos.Decision,
			clients.Advisor,
			estimator,
			clients.Flash,
		),
		Negotiation:     services.NewNegotiationService(log, cfg.Pricing, repos.Product, repos.Customer, repos.Decision, estimator),
		Observation:     observation,
		Profile:         services.NewProfileService(db, log, repos.Customer, repos.CustomerSignal),
		RetentionWorker: worker.NewRetentionWorker(log, observation, cfg.Retention),
	}
}
