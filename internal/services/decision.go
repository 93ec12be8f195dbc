package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/pricing-engine/internal/data/repos"
	types "github.com/yungbote/pricing-engine/internal/domain"
	"github.com/yungbote/pricing-engine/internal/flashcode"
	"github.com/yungbote/pricing-engine/internal/observability"
	"github.com/yungbote/pricing-engine/internal/platform/logger"
	"github.com/yungbote/pricing-engine/internal/pricing"
)

type DecideRequest struct {
	ProductID  uuid.UUID  `json:"product_id"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	Claim      *float64   `json:"claim,omitempty"`
}

type DecisionResult struct {
	DecisionID            uuid.UUID           `json:"decision_id"`
	Strategy              pricing.Strategy    `json:"strategy"`
	RecommendedPrice      float64             `json:"recommended_price"`
	Reasoning             string              `json:"reasoning"`
	MessageAngle          string              `json:"message_angle"`
	ConversionProbability float64             `json:"conversion_probability"`
	FlashCode             string              `json:"flash_code,omitempty"`
	FlashCodeExpiresAt    *time.Time          `json:"flash_code_expires_at,omitempty"`
	SurgeMode             bool                `json:"surge_mode"`
	MarketIntel           pricing.MarketIntel `json:"market_intel"`
	ClaimCheck            pricing.ClaimCheck  `json:"claim_check"`
	Source                pricing.Source      `json:"source"`
	FallbackReason        string              `json:"fallback_reason,omitempty"`
}

type FlashRedemption struct {
	Code       string     `json:"code"`
	ProductID  uuid.UUID  `json:"product_id"`
	Price      float64    `json:"price"`
	DecisionID *uuid.UUID `json:"decision_id,omitempty"`
}

type DecisionService interface {
	Decide(ctx context.Context, req DecideRequest) (*DecisionResult, error)
	RedeemFlashCode(ctx context.Context, code string, productID uuid.UUID) (*FlashRedemption, error)
	ListDecisions(ctx context.Context, productID uuid.UUID, limit int) ([]*types.PricingDecision, error)
}

type DecisionServiceConfig struct {
	Pricing  pricing.Config
	FlashTTL time.Duration
}

type decisionService struct {
	log       *logger.Logger
	cfg       pricing.Config
	flashTTL  time.Duration
	loader    snapshotLoader
	selector  *pricing.Selector
	estimator pricing.Estimator
	flash     flashcode.Store
	audit     decisionLogger
	auditRepo repos.PricingDecisionRepo
	now       func() time.Time
}

// NewDecisionService wires the decide pipeline. advisor may be nil (fallback only);
// flash may be nil (no flash codes are issued).
func NewDecisionService(
	baseLog *logger.Logger,
	cfg DecisionServiceConfig,
	productRepo repos.ProductRepo,
	customerRepo repos.CustomerRepo,
	observationRepo repos.PriceObservationRepo,
	decisionRepo repos.PricingDecisionRepo,
	advisor pricing.Advisor,
	estimator pricing.Estimator,
	flash flashcode.Store,
) DecisionService {
	serviceLog := baseLog.With("service", "DecisionService")
	pcfg := cfg.Pricing.Normalize()
	if estimator == nil {
		estimator = pricing.DefaultEstimator()
	}
	ttl := cfg.FlashTTL
	if ttl <= 0 {
		ttl = flashcode.DefaultTTL
	}
	pcfg.DiscountValidity = ttl
	return &decisionService{
		log:      serviceLog,
		cfg:      pcfg,
		flashTTL: ttl,
		loader: snapshotLoader{
			productRepo:     productRepo,
			customerRepo:    customerRepo,
			observationRepo: observationRepo,
		},
		selector:  pricing.NewSelector(advisor, pcfg, serviceLog),
		estimator: estimator,
		flash:     flash,
		audit:     decisionLogger{repo: decisionRepo, log: serviceLog},
		auditRepo: decisionRepo,
		now:       time.Now,
	}
}

func (s *decisionService) Decide(ctx context.Context, req DecideRequest) (result *DecisionResult, err error) {
	ctx, span := observability.Tracer().Start(ctx, "pricing.decide")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	start := time.Now()

	snap, err := s.loader.load(ctx, req.ProductID, req.CustomerID, true)
	if err != nil {
		return nil, err
	}
	product := snap.Product
	now := s.now().UTC()

	intel := pricing.Aggregate(snap.Observations, now, s.cfg)
	check := pricing.CheckClaim(req.Claim, intel, now, s.cfg)

	sel := s.selector.Select(ctx, pricing.SelectionInput{
		ProductName:  product.Name,
		CurrentPrice: product.CurrentPrice,
		FloorPrice:   product.FloorPrice,
		Intel:        intel,
		Claim:        check,
		CustomerType: snap.customerType(),
	})
	if sel.FallbackReason != "" {
		observability.Current().IncFallback(sel.FallbackReason)
	}

	rec, clamped := pricing.EnforceFloor(sel.Recommendation, product.FloorPrice)
	if clamped {
		observability.Current().IncFloorClamp(string(rec.Source))
		s.log.Info("Recommendation clamped to floor", "product_id", product.ID, "source", rec.Source)
	}

	prob := s.estimator.Estimate(
		product.CurrentPrice,
		rec.RecommendedPrice,
		intel.MarketPrice,
		pricing.CustomerTypeScore(snap.customerType()),
	)

	result = &DecisionResult{
		Strategy:              rec.Strategy,
		RecommendedPrice:      rec.RecommendedPrice,
		Reasoning:             rec.Reasoning,
		MessageAngle:          rec.MessageAngle,
		ConversionProbability: prob,
		SurgeMode:             intel.SurgeMode,
		MarketIntel:           intel,
		ClaimCheck:            check,
		Source:                rec.Source,
		FallbackReason:        sel.FallbackReason,
	}

	if rec.RecommendedPrice < product.CurrentPrice {
		s.issueFlashCode(ctx, product.ID, rec.RecommendedPrice, result)
	}

	saved, err := s.audit.record(ctx, &types.PricingDecision{
		ProductID:             product.ID,
		CustomerID:            snap.customerID(),
		OldPrice:              product.CurrentPrice,
		NewPrice:              rec.RecommendedPrice,
		Strategy:              string(rec.Strategy),
		Source:                string(rec.Source),
		Reasoning:             rec.Reasoning,
		MessageAngle:          rec.MessageAngle,
		MarketAvgPrice:        intel.MarketPrice,
		LowestCompetitorPrice: intel.LowestTrustedPrice,
		ConversionProbability: prob,
		SurgeMode:             intel.SurgeMode,
		FlashCode:             result.FlashCode,
		CreatedAt:             now,
	}, &intel)
	if err != nil {
		s.revokeFlashCode(ctx, result.FlashCode)
		return nil, err
	}
	result.DecisionID = saved.ID

	observability.Current().ObserveDecision(string(rec.Strategy), string(rec.Source), time.Since(start))
	span.SetAttributes(
		attribute.String("pricing.strategy", string(rec.Strategy)),
		attribute.String("pricing.source", string(rec.Source)),
		attribute.Bool("pricing.surge", intel.SurgeMode),
		attribute.Bool("pricing.floor_clamped", clamped),
	)
	s.log.Info("Decision recorded",
		"decision_id", saved.ID,
		"product_id", product.ID,
		"strategy", rec.Strategy,
		"source", rec.Source,
		"surge", intel.SurgeMode,
	)
	return result, nil
}

// issueFlashCode attaches a code to result. Store failures drop the code, not the decision.
func (s *decisionService) issueFlashCode(ctx context.Context, productID uuid.UUID, price float64, result *DecisionResult) {
	if s.flash == nil {
		return
	}
	grant, err := s.flash.Issue(ctx, productID, price, s.flashTTL)
	if err != nil {
		observability.Current().IncFlashCode("issue_failed")
		s.log.Warn("Flash code issue failed", "product_id", productID, "error", err)
		return
	}
	observability.Current().IncFlashCode("issued")
	expires := grant.ExpiresAt
	result.FlashCode = grant.Code
	result.FlashCodeExpiresAt = &expires
}

// revokeFlashCode drops a code whose decision never reached the audit log.
func (s *decisionService) revokeFlashCode(ctx context.Context, code string) {
	if s.flash == nil || code == "" {
		return
	}
	if err := s.flash.Revoke(context.WithoutCancel(ctx), code); err != nil {
		observability.Current().IncFlashCode("revoke_failed")
		s.log.Warn("Flash code revoke failed", "code", code, "error", err)
		return
	}
	observability.Current().IncFlashCode("revoked")
}

func (s *decisionService) RedeemFlashCode(ctx context.Context, code string, productID uuid.UUID) (*FlashRedemption, error) {
	if s.flash == nil {
		return nil, flashcode.ErrNotFound
	}
	grant, err := s.flash.Redeem(ctx, code, productID)
	if err != nil {
		if errors.Is(err, flashcode.ErrNotFound) || errors.Is(err, flashcode.ErrProductMismatch) {
			observability.Current().IncFlashCode("rejected")
		}
		return nil, err
	}
	observability.Current().IncFlashCode("redeemed")

	out := &FlashRedemption{Code: grant.Code, ProductID: grant.ProductID, Price: grant.Price}
	decision, err := s.auditRepo.GetByFlashCode(ctx, nil, grant.Code)
	if err != nil {
		s.log.Warn("Flash code decision lookup failed", "code", grant.Code, "error", err)
	} else if decision != nil {
		id := decision.ID
		out.DecisionID = &id
	}
	return out, nil
}

func (s *decisionService) ListDecisions(ctx context.Context, productID uuid.UUID, limit int) ([]*types.PricingDecision, error) {
	if productID == uuid.Nil {
		return nil, ErrProductNotFound
	}
	rows, err := s.auditRepo.ListForProduct(ctx, nil, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	return rows, nil
}
