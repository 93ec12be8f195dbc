package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/pricing-engine/internal/domain"
	"github.com/yungbote/pricing-engine/internal/flashcode"
	"github.com/yungbote/pricing-engine/internal/http/response"
	"github.com/yungbote/pricing-engine/internal/pricing"
	"github.com/yungbote/pricing-engine/internal/services"
)

type fakeDecisionService struct {
	decideErr error
	redeemErr error
	lastReq   services.DecideRequest
}

func (f *fakeDecisionService) Decide(ctx context.Context, req services.DecideRequest) (*services.DecisionResult, error) {
	f.lastReq = req
	if f.decideErr != nil {
		return nil, f.decideErr
	}
	return &services.DecisionResult{
		DecisionID:       uuid.New(),
		Strategy:         pricing.StrategyMatchOffer,
		RecommendedPrice: 104500,
		Source:           pricing.SourceFallback,
		FlashCode:        "PAY-ABC123",
	}, nil
}

func (f *fakeDecisionService) RedeemFlashCode(ctx context.Context, code string, productID uuid.UUID) (*services.FlashRedemption, error) {
	if f.redeemErr != nil {
		return nil, f.redeemErr
	}
	return &services.FlashRedemption{Code: code, ProductID: productID, Price: 104500}, nil
}

func (f *fakeDecisionService) ListDecisions(ctx context.Context, productID uuid.UUID, limit int) ([]*types.PricingDecision, error) {
	return []*types.PricingDecision{{ProductID: productID, NewPrice: 104500}}, nil
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorEnvelope {
	t.Helper()
	var env response.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v body=%s", err, rec.Body.String())
	}
	return env
}

func decisionRouter(svc services.DecisionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewDecisionHandler(svc)
	r := gin.New()
	r.POST("/api/decisions", h.Decide)
	r.POST("/api/flash-codes/:code/redeem", h.RedeemFlashCode)
	r.GET("/api/products/:id/decisions", h.ListDecisions)
	return r
}

func TestDecideHandlerMapsErrors(t *testing.T) {
	productID := uuid.New().String()
	cases := []struct {
		name     string
		err      error
		body     any
		wantCode int
		wantErr  string
	}{
		{"ok", nil, map[string]any{"product_id": productID, "claim": 90000}, http.StatusOK, ""},
		{"bad id", nil, map[string]any{"product_id": "nope"}, http.StatusBadRequest, "invalid_request"},
		{"missing id", nil, map[string]any{}, http.StatusBadRequest, "invalid_request"},
		{"not found", services.ErrProductNotFound, map[string]any{"product_id": productID}, http.StatusNotFound, "not_found"},
		{"audit", fmt.Errorf("%w: db gone", services.ErrDecisionLog), map[string]any{"product_id": productID}, http.StatusInternalServerError, "decision_log_failed"},
		{"internal", errors.New("boom"), map[string]any{"product_id": productID}, http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		svc := &fakeDecisionService{decideErr: tc.err}
		rec := doJSON(t, decisionRouter(svc), http.MethodPost, "/api/decisions", tc.body)
		if rec.Code != tc.wantCode {
			t.Fatalf("%s: status want=%d got=%d body=%s", tc.name, tc.wantCode, rec.Code, rec.Body.String())
		}
		if tc.wantErr != "" {
			env := decodeError(t, rec)
			if env.Error.Code != tc.wantErr {
				t.Fatalf("%s: code want=%s got=%s", tc.name, tc.wantErr, env.Error.Code)
			}
			if tc.name == "internal" && env.Error.Message == "boom" {
				t.Fatalf("internal error cause leaked to client")
			}
		}
		if tc.name == "ok" && (svc.lastReq.Claim == nil || *svc.lastReq.Claim != 90000) {
			t.Fatalf("claim not forwarded: %+v", svc.lastReq)
		}
	}
}

func TestRedeemHandler(t *testing.T) {
	body := map[string]any{"product_id": uuid.New().String()}

	rec := doJSON(t, decisionRouter(&fakeDecisionService{}), http.MethodPost, "/api/flash-codes/PAY-ABC123/redeem", body)
	var ok struct {
		Valid bool    `json:"valid"`
		Price float64 `json:"price"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &ok); err != nil || !ok.Valid || ok.Price != 104500 {
		t.Fatalf("redeem: unexpected %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, decisionRouter(&fakeDecisionService{redeemErr: flashcode.ErrNotFound}), http.MethodPost, "/api/flash-codes/PAY-ZZZZZZ/redeem", body)
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte(`"valid":false`)) {
		t.Fatalf("expired code: unexpected %d %s", rec.Code, rec.Body.String())
	}
}

func TestListDecisionsRejectsBadLimit(t *testing.T) {
	r := decisionRouter(&fakeDecisionService{})
	id := uuid.New().String()

	if rec := doJSON(t, r, http.MethodGet, "/api/products/"+id+"/decisions?limit=-1", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("negative limit: want 400 got %d", rec.Code)
	}
	if rec := doJSON(t, r, http.MethodGet, "/api/products/not-a-uuid/decisions", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id: want 400 got %d", rec.Code)
	}
	if rec := doJSON(t, r, http.MethodGet, "/api/products/"+id+"/decisions", nil); rec.Code != http.StatusOK {
		t.Fatalf("list: want 200 got %d", rec.Code)
	}
}

type fakeNegotiationService struct {
	gotOffer float64
	gotText  string
}

func (f *fakeNegotiationService) Negotiate(ctx context.Context, req services.NegotiateRequest) (*services.NegotiationResult, error) {
	f.gotOffer = req.OfferedPrice
	if req.OfferedPrice <= 0 {
		return nil, services.ErrInvalidOffer
	}
	return &services.NegotiationResult{OfferedPrice: req.OfferedPrice, LadderOutcome: pricing.Ladder(req.OfferedPrice, 100000, pricing.DefaultConfig())}, nil
}

func (f *fakeNegotiationService) NegotiateText(ctx context.Context, productID uuid.UUID, customerID *uuid.UUID, text string) (*services.NegotiationResult, error) {
	f.gotText = text
	return nil, pricing.ErrNoOffer
}

func TestNegotiateHandlerRoutesByInput(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeNegotiationService{}
	r := gin.New()
	r.POST("/api/negotiations", NewNegotiationHandler(svc).Negotiate)
	productID := uuid.New().String()

	rec := doJSON(t, r, http.MethodPost, "/api/negotiations", map[string]any{"product_id": productID, "offered_price": 95000})
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte(`"status":"counter_offer"`)) {
		t.Fatalf("offer: unexpected %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodPost, "/api/negotiations", map[string]any{"product_id": productID, "offered_price": 0})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("zero offer: want 400 got %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodPost, "/api/negotiations", map[string]any{"product_id": productID, "message": "is it original"})
	if rec.Code != http.StatusBadRequest || svc.gotText != "is it original" {
		t.Fatalf("no offer in text: want 400 got %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodPost, "/api/negotiations", map[string]any{"product_id": productID})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty request: want 400 got %d", rec.Code)
	}
}
