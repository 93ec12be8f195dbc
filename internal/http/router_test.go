package http

import (
	"bytes"
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pricing-engine/internal/data/repos"
	"github.com/yungbote/pricing-engine/internal/data/repos/testutil"
	"github.com/yungbote/pricing-engine/internal/flashcode"
	httpH "github.com/yungbote/pricing-engine/internal/http/handlers"
	httpMW "github.com/yungbote/pricing-engine/internal/http/middleware"
	"github.com/yungbote/pricing-engine/internal/observability"
	"github.com/yungbote/pricing-engine/internal/pricing"
	"github.com/yungbote/pricing-engine/internal/services"
)

const testSecret = "router-test-secret"

func call(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouterEndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()

	productRepo := repos.NewProductRepo(db, log)
	customerRepo := repos.NewCustomerRepo(db, log)
	decisionRepo := repos.NewPricingDecisionRepo(db, log)
	observationRepo := repos.NewPriceObservationRepo(db, log)
	cfg := pricing.DefaultConfig()

	metrics := observability.New()
	r := NewRouter(RouterConfig{
		Log:                log,
		Metrics:            metrics,
		ServiceAuth:        httpMW.NewServiceAuth(log, testSecret),
		HealthHandler:      httpH.NewHealthHandler(),
		MetricsHandler:     httpH.NewMetricsHandler(metrics),
		DecisionHandler:    httpH.NewDecisionHandler(services.NewDecisionService(log, services.DecisionServiceConfig{Pricing: cfg}, productRepo, customerRepo, observationRepo, decisionRepo, nil, nil, flashcode.NewMemoryStore())),
		NegotiationHandler: httpH.NewNegotiationHandler(services.NewNegotiationService(log, cfg, productRepo, customerRepo, decisionRepo, nil)),
		ObservationHandler: httpH.NewObservationHandler(services.NewObservationService(log, cfg, productRepo, observationRepo)),
		CustomerHandler:    httpH.NewCustomerHandler(services.NewProfileService(db, log, customerRepo, repos.NewCustomerSignalRepo(db, log))),
	})

	p := testutil.SeedProduct(t, ctx, db, 120000, 100000)
	writer, err := httpMW.SignServiceToken(testSecret, "scraper", []string{httpMW.ScopeObservationsWrite}, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if rec := call(t, r, nethttp.MethodGet, "/healthcheck", "", nil); rec.Code != nethttp.StatusOK {
		t.Fatalf("healthcheck: %d", rec.Code)
	}

	batch := map[string]any{"observations": []map[string]any{
		{"product_id": p.ID.String(), "source": "slot", "price": 105000, "tier": "truth", "observed_at": time.Now().Add(-time.Hour)},
		{"product_id": p.ID.String(), "source": "jiji", "price": 80000, "tier": "noise"},
	}}
	if rec := call(t, r, nethttp.MethodPost, "/api/observations", "", batch); rec.Code != nethttp.StatusUnauthorized {
		t.Fatalf("ingest without token: want 401 got %d", rec.Code)
	}
	if rec := call(t, r, nethttp.MethodPost, "/api/observations", writer, batch); rec.Code != nethttp.StatusCreated {
		t.Fatalf("ingest: want 201 got %d %s", rec.Code, rec.Body.String())
	}

	rec := call(t, r, nethttp.MethodGet, "/api/products/"+p.ID.String()+"/market", "", nil)
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("market: %d %s", rec.Code, rec.Body.String())
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("floor")) {
		t.Fatalf("market intel leaks the floor: %s", rec.Body.String())
	}

	rec = call(t, r, nethttp.MethodPost, "/api/decisions", "", map[string]any{"product_id": p.ID.String()})
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("decide: %d %s", rec.Code, rec.Body.String())
	}
	var decision services.DecisionResult
	if err := json.Unmarshal(rec.Body.Bytes(), &decision); err != nil {
		t.Fatalf("decode decision: %v", err)
	}
	if decision.Strategy != pricing.StrategyMatchOffer || decision.RecommendedPrice != 104500 || decision.FlashCode == "" {
		t.Fatalf("decision: unexpected %+v", decision)
	}

	rec = call(t, r, nethttp.MethodPost, "/api/flash-codes/"+decision.FlashCode+"/redeem", "", map[string]any{"product_id": p.ID.String()})
	if rec.Code != nethttp.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte(`"valid":true`)) {
		t.Fatalf("redeem: %d %s", rec.Code, rec.Body.String())
	}

	rec = call(t, r, nethttp.MethodPost, "/api/negotiations", "", map[string]any{"product_id": p.ID.String(), "message": "last price 95k"})
	if rec.Code != nethttp.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte(`"price":100500`)) {
		t.Fatalf("negotiate: %d %s", rec.Code, rec.Body.String())
	}

	if rec := call(t, r, nethttp.MethodGet, "/api/products/"+p.ID.String()+"/decisions", writer, nil); rec.Code != nethttp.StatusForbidden {
		t.Fatalf("audit read with write-only token: want 403 got %d", rec.Code)
	}
	reader, _ := httpMW.SignServiceToken(testSecret, "dashboard", []string{httpMW.ScopeDecisionsRead}, time.Minute)
	rec = call(t, r, nethttp.MethodGet, "/api/products/"+p.ID.String()+"/decisions", reader, nil)
	var audit struct {
		Decisions []map[string]any `json:"decisions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &audit); err != nil || len(audit.Decisions) != 2 {
		t.Fatalf("audit trail: want 2 rows got %d (%v) %s", len(audit.Decisions), err, rec.Body.String())
	}

	rec = call(t, r, nethttp.MethodGet, "/metrics", "", nil)
	if rec.Code != nethttp.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte(`pe_api_requests_total{method="POST",route="/api/decisions",status="200"}`)) {
		t.Fatalf("metrics: %d %s", rec.Code, rec.Body.String())
	}
}
