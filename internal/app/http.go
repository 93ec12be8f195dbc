package app

import (
	httpapi "github.com/yungbote/pricing-engine/internal/http"
	httpH "github.com/yungbote/pricing-engine/internal/http/handlers"
	httpMW "github.com/yungbote/pricing-engine/internal/http/middleware"
	"github.com/yungbote/pricing-engine/internal/observability"
	"github.com/yungbote/pricing-engine/internal/platform/logger"
)

type Middleware struct {
	ServiceAuth *httpMW.ServiceAuth
}

type Handlers struct {
	Health      *httpH.HealthHandler
	Metrics     *httpH.MetricsHandler
	Decision    *httpH.DecisionHandler
	Negotiation *httpH.NegotiationHandler
	Observation *httpH.ObservationHandler
	Customer    *httpH.CustomerHandler
}

func wireHandlers(log *logger.Logger, services Services, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	h := Handlers{
		Health:      httpH.NewHealthHandler(),
		Decision:    httpH.NewDecisionHandler(services.Decision),
		Negotiation: httpH.NewNegotiationHandler(services.Negotiation),
		Observation: httpH.NewObservationHandler(services.Observation),
		Customer:    httpH.NewCustomerHandler(services.Profile),
	}
	if metrics != nil {
		h.Metrics = httpH.NewMetricsHandler(metrics)
	}
	return h
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		ServiceAuth: httpMW.NewServiceAuth(log, cfg.JWTSecretKey),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *httpapi.Server {
	return httpapi.NewServer(cfg.HTTPAddr, httpapi.RouterConfig{
		Log:                log,
		ServiceName:        cfg.OTel.ServiceName,
		AllowedOrigins:     cfg.AllowedOrigins,
		Metrics:            metrics,
		ServiceAuth:        middleware.ServiceAuth,
		HealthHandler:      handlers.Health,
		MetricsHandler:     handlers.Metrics,
		DecisionHandler:    handlers.Decision,
		NegotiationHandler: handlers.Negotiation,
		ObservationHandler: handlers.Observation,
		CustomerHandler:    handlers.Customer,
	})
}
