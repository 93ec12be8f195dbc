package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/pricing-engine/internal/http/handlers"
	httpMW "github.com/yungbote/pricing-engine/internal/http/middleware"
	"github.com/yungbote/pricing-engine/internal/observability"
	"github.com/yungbote/pricing-engine/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics
	ServiceAuth    *httpMW.ServiceAuth

	HealthHandler      *httpH.HealthHandler
	MetricsHandler     *httpH.MetricsHandler
	DecisionHandler    *httpH.DecisionHandler
	NegotiationHandler *httpH.NegotiationHandler
	ObservationHandler *httpH.ObservationHandler
	CustomerHandler    *httpH.CustomerHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "pricing-engine"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", cfg.MetricsHandler.Metrics)
	}

	api := r.Group("/api")
	{
		// Decisions
		if cfg.DecisionHandler != nil {
			api.POST("/decisions", cfg.DecisionHandler.Decide)
			api.POST("/flash-codes/:code/redeem", cfg.DecisionHandler.RedeemFlashCode)
			api.GET("/products/:id/decisions", cfg.ServiceAuth.RequireScope(httpMW.ScopeDecisionsRead), cfg.DecisionHandler.ListDecisions)
		}

		// Negotiation ladder
		if cfg.NegotiationHandler != nil {
			api.POST("/negotiations", cfg.NegotiationHandler.Negotiate)
		}

		// Market observations
		if cfg.ObservationHandler != nil {
			api.POST("/observations", cfg.ServiceAuth.RequireScope(httpMW.ScopeObservationsWrite), cfg.ObservationHandler.Ingest)
			api.GET("/products/:id/market", cfg.ObservationHandler.MarketIntel)
		}

		// Customer profiling
		if cfg.CustomerHandler != nil {
			api.POST("/customers", cfg.CustomerHandler.EnsureCustomer)
			api.POST("/customers/:id/signals", cfg.CustomerHandler.RecordSignal)
		}
	}

	return r
}
