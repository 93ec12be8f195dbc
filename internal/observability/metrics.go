package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/pricing-engine/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	decisions        *CounterVec
	decisionLatency  *HistogramVec
	fallbacks        *CounterVec
	floorClamps      *CounterVec
	decisionLogFails *Counter
	negotiations     *CounterVec

	advisoryRequests *CounterVec
	advisoryLatency  *HistogramVec

	flashCodes *CounterVec

	observationsIngested *CounterVec
	observationsPurged   *Counter

	pgStats   *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Current returns the process metrics, or nil when metrics are disabled.
// Every method is safe on a nil receiver.
func Current() *Metrics {
	return instance
}

func Init(log *logger.Logger, enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

// New builds an unregistered Metrics set.
func New() *Metrics {
	latency := []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}
	return &Metrics{
		apiRequests: NewCounterVec("pe_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency:  NewHistogramVec("pe_api_request_duration_seconds", "API request latency in seconds by method/route/status.", []string{"method", "route", "status"}, latency),
		apiInflight: NewGauge("pe_api_inflight_requests", "In-flight API requests."),

		decisions:        NewCounterVec("pe_decisions_total", "Pricing decisions by strategy/source.", []string{"strategy", "source"}),
		decisionLatency:  NewHistogramVec("pe_decision_duration_seconds", "End-to-end decide latency by source.", []string{"source"}, latency),
		fallbacks:        NewCounterVec("pe_strategy_fallbacks_total", "Fallback rule table activations by reason.", []string{"reason"}),
		floorClamps:      NewCounterVec("pe_floor_clamps_total", "Recommendations clamped to the floor by path.", []string{"path"}),
		decisionLogFails: NewCounter("pe_decision_log_failures_total", "Audit writes that failed."),
		negotiations:     NewCounterVec("pe_negotiations_total", "Negotiation ladder outcomes by status.", []string{"status"}),

		advisoryRequests: NewCounterVec("pe_advisory_requests_total", "Advisory calls by model/status.", []string{"model", "status"}),
		advisoryLatency:  NewHistogramVec("pe_advisory_request_duration_seconds", "Advisory call latency by model/status.", []string{"model", "status"}, latency),

		flashCodes: NewCounterVec("pe_flash_codes_total", "Flash code lifecycle events.", []string{"event"}),

		observationsIngested: NewCounterVec("pe_observations_ingested_total", "Observations appended by tier.", []string{"tier"}),
		observationsPurged:   NewCounter("pe_observations_purged_total", "Observations removed by retention."),

		pgStats:   NewGaugeVec("pe_db_pool", "Database pool stats.", []string{"stat"}),
		redisUp:   NewGauge("pe_redis_up", "Redis reachability (1 up, 0 down)."),
		redisPing: NewGauge("pe_redis_ping_seconds", "Last redis ping latency in seconds."),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

type promWriter interface {
	WritePrometheus(w io.Writer) error
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []promWriter{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.decisions, m.decisionLatency, m.fallbacks, m.floorClamps, m.decisionLogFails, m.negotiations,
		m.advisoryRequests, m.advisoryLatency,
		m.flashCodes,
		m.observationsIngested, m.observationsPurged,
		m.pgStats, m.redisUp, m.redisPing,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveDecision(strategy, source string, dur time.Duration) {
	if m == nil {
		return
	}
	m.decisions.Inc(strategy, source)
	m.decisionLatency.Observe(dur.Seconds(), source)
}

func (m *Metrics) IncFallback(reason string) {
	if m == nil {
		return
	}
	m.fallbacks.Inc(reason)
}

func (m *Metrics) IncFloorClamp(path string) {
	if m == nil {
		return
	}
	m.floorClamps.Inc(path)
}

func (m *Metrics) IncDecisionLogFailure() {
	if m == nil {
		return
	}
	m.decisionLogFails.Inc()
}

func (m *Metrics) IncNegotiation(status string) {
	if m == nil {
		return
	}
	m.negotiations.Inc(status)
}

func (m *Metrics) ObserveAdvisoryRequest(model, status string, dur time.Duration) {
	if m == nil {
		return
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = "unknown"
	}
	m.advisoryRequests.Inc(model, status)
	if dur > 0 {
		m.advisoryLatency.Observe(dur.Seconds(), model, status)
	}
}

func (m *Metrics) IncFlashCode(event string) {
	if m == nil {
		return
	}
	m.flashCodes.Inc(event)
}

func (m *Metrics) AddObservationsIngested(tier string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.observationsIngested.Add(float64(n), tier)
}

func (m *Metrics) AddObservationsPurged(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.observationsPurged.Add(float64(n))
}

// StartDBCollector samples the connection pool until ctx is done.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB, interval time.Duration) {
	if m == nil || db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		if log != nil {
			log.Warn("metrics: db pool unavailable", "error", err)
		}
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := sqlDB.Stats()
				m.pgStats.Set(float64(stats.OpenConnections), "open")
				m.pgStats.Set(float64(stats.InUse), "in_use")
				m.pgStats.Set(float64(stats.Idle), "idle")
				m.pgStats.Set(float64(stats.WaitCount), "wait_count")
			}
		}
	}()
}

// StartRedisCollector pings rdb until ctx is done.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb *redis.Client, interval time.Duration) {
	if m == nil || rdb == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
