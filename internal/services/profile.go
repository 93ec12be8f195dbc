package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/pricing-engine/internal/data/repos"
	types "github.com/yungbote/pricing-engine/internal/domain"
	"github.com/yungbote/pricing-engine/internal/platform/logger"
	"github.com/yungbote/pricing-engine/internal/pricing"
)

const signalWindow = 30 * 24 * time.Hour

type ProfileResult struct {
	CustomerID     uuid.UUID              `json:"customer_id"`
	Classification pricing.Classification `json:"classification"`
	CustomerType   types.CustomerType     `json:"customer_type"`
	RecentSignals  int                    `json:"recent_signals"`
}

type ProfileService interface {
	RecordSignal(ctx context.Context, customerID uuid.UUID, message string) (*ProfileResult, error)
	EnsureCustomer(ctx context.Context, phone, name string) (*types.Customer, error)
}

type profileService struct {
	db           *gorm.DB
	log          *logger.Logger
	customerRepo repos.CustomerRepo
	signalRepo   repos.CustomerSignalRepo
	now          func() time.Time
}

func NewProfileService(
	db *gorm.DB,
	baseLog *logger.Logger,
	customerRepo repos.CustomerRepo,
	signalRepo repos.CustomerSignalRepo,
) ProfileService {
	return &profileService{
		db:           db,
		log:          baseLog.With("service", "ProfileService"),
		customerRepo: customerRepo,
		signalRepo:   signalRepo,
		now:          time.Now,
	}
}

// RecordSignal classifies one message, stores it and refolds the customer's type from
// the last 30 days of signals.
func (s *profileService) RecordSignal(ctx context.Context, customerID uuid.UUID, message string) (*ProfileResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	if customerID == uuid.Nil {
		return nil, ErrCustomerNotFound
	}
	now := s.now().UTC()
	class := pricing.ClassifyMessage(message)
	out := &ProfileResult{CustomerID: customerID, Classification: class}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customers, err := s.customerRepo.GetByIDs(ctx, tx, []uuid.UUID{customerID})
		if err != nil {
			return fmt.Errorf("load customer: %w", err)
		}
		if len(customers) == 0 {
			return ErrCustomerNotFound
		}
		customer := customers[0]

		if _, err := s.signalRepo.Create(ctx, tx, []*types.CustomerSignal{{
			CustomerID: customerID,
			SignalText: message,
			SignalType: class.CustomerType,
			Confidence: class.Confidence,
			DetectedAt: now,
		}}); err != nil {
			return fmt.Errorf("store signal: %w", err)
		}

		recent, err := s.signalRepo.ListSince(ctx, tx, customerID, now.Add(-signalWindow))
		if err != nil {
			return fmt.Errorf("load signals: %w", err)
		}
		out.RecentSignals = len(recent)

		resolved := pricing.ResolveCustomerType(customer.CustomerType, recent)
		if resolved != customer.CustomerType {
			if err := s.customerRepo.UpdateType(ctx, tx, customerID, resolved); err != nil {
				return fmt.Errorf("update customer type: %w", err)
			}
			s.log.Info("Customer type changed", "customer_id", customerID, "from", customer.CustomerType, "to", resolved)
		}
		out.CustomerType = resolved
		return s.customerRepo.TouchLastInteraction(ctx, tx, customerID, now)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EnsureCustomer returns the customer for phone, creating an unknown-type record on first contact.
func (s *profileService) EnsureCustomer(ctx context.Context, phone, name string) (*types.Customer, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrInvalidInput)
	}
	existing, err := s.customerRepo.GetByPhone(ctx, nil, phone)
	if err != nil {
		return nil, fmt.Errorf("lookup customer: %w", err)
	}
	if existing != nil {
		return existing, nil
	}
	created, err := s.customerRepo.Create(ctx, nil, []*types.Customer{{
		Phone:        phone,
		Name:         strings.TrimSpace(name),
		CustomerType: types.CustomerUnknown,
	}})
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return created[0], nil
}
