package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/pricing-engine/internal/data/repos"
	types "github.com/yungbote/pricing-engine/internal/domain"
	"github.com/yungbote/pricing-engine/internal/observability"
	"github.com/yungbote/pricing-engine/internal/platform/logger"
	"github.com/yungbote/pricing-engine/internal/pricing"
)

type NegotiateRequest struct {
	ProductID    uuid.UUID  `json:"product_id"`
	CustomerID   *uuid.UUID `json:"customer_id,omitempty"`
	OfferedPrice float64    `json:"offered_price"`
}

type NegotiationResult struct {
	DecisionID   uuid.UUID `json:"decision_id"`
	OfferedPrice float64   `json:"offered_price"`
	pricing.LadderOutcome
}

type NegotiationService interface {
	Negotiate(ctx context.Context, req NegotiateRequest) (*NegotiationResult, error)
	NegotiateText(ctx context.Context, productID uuid.UUID, customerID *uuid.UUID, text string) (*NegotiationResult, error)
}

type negotiationService struct {
	log       *logger.Logger
	cfg       pricing.Config
	loader    snapshotLoader
	estimator pricing.Estimator
	audit     decisionLogger
	now       func() time.Time
}

func NewNegotiationService(
	baseLog *logger.Logger,
	cfg pricing.Config,
	productRepo repos.ProductRepo,
	customerRepo repos.CustomerRepo,
	decisionRepo repos.PricingDecisionRepo,
	estimator pricing.Estimator,
) NegotiationService {
	serviceLog := baseLog.With("service", "NegotiationService")
	if estimator == nil {
		estimator = pricing.DefaultEstimator()
	}
	return &negotiationService{
		log: serviceLog,
		cfg: cfg.Normalize(),
		loader: snapshotLoader{
			productRepo:  productRepo,
			customerRepo: customerRepo,
		},
		estimator: estimator,
		audit:     decisionLogger{repo: decisionRepo, log: serviceLog},
		now:       time.Now,
	}
}

func (s *negotiationService) Negotiate(ctx context.Context, req NegotiateRequest) (*NegotiationResult, error) {
	if !validOffer(req.OfferedPrice) {
		return nil, ErrInvalidOffer
	}
	snap, err := s.loader.load(ctx, req.ProductID, req.CustomerID, false)
	if err != nil {
		return nil, err
	}
	return s.negotiate(ctx, snap, req.OfferedPrice)
}

// NegotiateText pulls the offer out of a customer message before running the ladder.
func (s *negotiationService) NegotiateText(ctx context.Context, productID uuid.UUID, customerID *uuid.UUID, text string) (*NegotiationResult, error) {
	snap, err := s.loader.load(ctx, productID, customerID, false)
	if err != nil {
		return nil, err
	}
	offered, err := pricing.ExtractOffer(text, snap.Product.CurrentPrice, s.cfg)
	if err != nil {
		if errors.Is(err, pricing.ErrNoOffer) {
			return nil, err
		}
		return nil, fmt.Errorf("extract offer: %w", err)
	}
	return s.negotiate(ctx, snap, offered)
}

func (s *negotiationService) negotiate(ctx context.Context, snap *snapshot, offered float64) (result *NegotiationResult, err error) {
	ctx, span := observability.Tracer().Start(ctx, "pricing.negotiate")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	product := snap.Product
	outcome := pricing.Ladder(offered, product.FloorPrice, s.cfg)

	rec, clamped := pricing.EnforceFloor(pricing.Recommendation{
		Strategy:         outcome.Strategy(),
		RecommendedPrice: outcome.Price,
		Reasoning:        outcome.Message,
		MessageAngle:     string(outcome.Status),
		Source:           pricing.SourceLadder,
	}, product.FloorPrice)
	if clamped {
		observability.Current().IncFloorClamp(string(pricing.SourceLadder))
		outcome.Price = rec.RecommendedPrice
	}

	prob := s.estimator.Estimate(product.CurrentPrice, rec.RecommendedPrice, 0, pricing.CustomerTypeScore(snap.customerType()))

	saved, err := s.audit.record(ctx, &types.PricingDecision{
		ProductID:             product.ID,
		CustomerID:            snap.customerID(),
		OldPrice:              product.CurrentPrice,
		NewPrice:              rec.RecommendedPrice,
		Strategy:              string(rec.Strategy),
		Source:                string(rec.Source),
		Reasoning:             rec.Reasoning,
		MessageAngle:          rec.MessageAngle,
		ConversionProbability: prob,
		CreatedAt:             s.now().UTC(),
	}, nil)
	if err != nil {
		return nil, err
	}

	observability.Current().IncNegotiation(string(outcome.Status))
	span.SetAttributes(
		attribute.String("negotiation.status", string(outcome.Status)),
		attribute.Bool("pricing.floor_clamped", clamped),
	)
	s.log.Info("Negotiation answered",
		"decision_id", saved.ID,
		"product_id", product.ID,
		"status", outcome.Status,
	)
	return &NegotiationResult{DecisionID: saved.ID, OfferedPrice: offered, LadderOutcome: outcome}, nil
}

func validOffer(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
