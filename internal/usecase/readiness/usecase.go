package usecase

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-booking-service/internal/usecase/events"
)

type ReadinessUsecase interface {
	RecordReadinessView(ctx context.Context, orderID string)
	ConfirmReady(ctx context.Context, orderID, specialistID string) (*domain.Order, error)
	ConfirmNotReady(ctx context.Context, orderID, specialistID, reason string) (*domain.Order, error)
	Deadline(ctx context.Context, orderID string) (*domain.Deadline, error)

	DispatchReadinessChecks(ctx context.Context) (int, error)
	SendReminders(ctx context.Context) (int, error)
	SendMovementReminders(ctx context.Context) (int, error)
	NotifyExpiredOrders(ctx context.Context) (int, error)
}

// Policy - параметры фонового опроса готовности.
type Policy struct {
	CheckWindow       time.Duration
	ReminderInterval  time.Duration
	MaxReminders      int
	PenaltyPercentage int

	MovementWindow            time.Duration
	MovementPenaltyPercentage int
	// ExpiryLookback bounds how far back an unannounced expiry is still announced.
	ExpiryLookback time.Duration

	Location *time.Location
}

func DefaultPolicy() Policy {
	return Policy{
		CheckWindow:               time.Hour,
		ReminderInterval:          5 * time.Minute,
		MaxReminders:              3,
		PenaltyPercentage:         10,
		MovementWindow:            30 * time.Minute,
		MovementPenaltyPercentage: 5,
		ExpiryLookback:            10 * time.Minute,
		Location:                  time.UTC,
	}
}

type DefaultReadinessUsecase struct {
	Repo      domain.ReadinessRepository
	Orders    domain.OrderRepository
	Contacts  domain.ContactRepository
	Messenger *events.Messenger
	Events    *events.Emitter
	Metrics   *metrics.BookingMetrics
	Policy    Policy
	Clock     func() time.Time
}

func NewDefaultReadinessUsecase(
	repo domain.ReadinessRepository,
	orders domain.OrderRepository,
	contacts domain.ContactRepository,
	messenger *events.Messenger,
	emitter *events.Emitter,
	bookingMetrics *metrics.BookingMetrics,
	policy Policy,
) *DefaultReadinessUsecase {
	if policy.Location == nil {
		policy.Location = time.UTC
	}
	return &DefaultReadinessUsecase{
		Repo:      repo,
		Orders:    orders,
		Contacts:  contacts,
		Messenger: messenger,
		Events:    emitter,
		Metrics:   bookingMetrics,
		Policy:    policy,
		Clock:     func() time.Time { return time.Now().UTC() },
	}
}

func (uc *DefaultReadinessUsecase) now() time.Time {
	return uc.Clock().UTC()
}
