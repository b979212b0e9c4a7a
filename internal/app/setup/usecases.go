package setup

import (
	"fmt"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	auditusecase "github.com/LavaJover/shvark-booking-service/internal/usecase/audit"
	"github.com/LavaJover/shvark-booking-service/internal/usecase/events"
	orderusecase "github.com/LavaJover/shvark-booking-service/internal/usecase/order"
	paymentusecase "github.com/LavaJover/shvark-booking-service/internal/usecase/payment"
	readinessusecase "github.com/LavaJover/shvark-booking-service/internal/usecase/readiness"
)

type UseCases struct {
	OrderUsecase     orderusecase.OrderUsecase
	ReadinessUsecase readinessusecase.ReadinessUsecase
	PaymentUsecase   paymentusecase.PaymentUsecase
	AuditUsecase     auditusecase.AuditUsecase

	Emitter   *events.Emitter
	Messenger *events.Messenger
}

// Drain waits for fire-and-forget messages and event publishes to finish.
func (u *UseCases) Drain() {
	u.Messenger.Wait()
	u.Emitter.Wait()
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	cfg := deps.Config

	var eventPublisher domain.EventPublisher
	if deps.OrderPublisher != nil {
		eventPublisher = deps.OrderPublisher
	}
	emitter := events.NewEmitter(eventPublisher, deps.Journal, deps.Logger)
	messenger := events.NewMessenger(deps.Sink, deps.Metrics, deps.Logger)

	orderUsecase, err := orderusecase.NewDefaultOrderUsecase(
		deps.Repositories.OrderRepo,
		deps.Repositories.ContactRepo,
		emitter,
		deps.Metrics,
		cfg.Payments.Currency,
	)
	if err != nil {
		return nil, fmt.Errorf("order usecase: %w", err)
	}
	orderUsecase.QuoteWindow = cfg.Orders.QuoteWindow

	loc, err := cfg.Readiness.Location()
	if err != nil {
		return nil, fmt.Errorf("booking timezone: %w", err)
	}
	readinessUsecase := readinessusecase.NewDefaultReadinessUsecase(
		deps.Repositories.ReadinessRepo,
		deps.Repositories.OrderRepo,
		deps.Repositories.ContactRepo,
		messenger,
		emitter,
		deps.Metrics,
		readinessusecase.Policy{
			CheckWindow:               cfg.Readiness.CheckWindow,
			ReminderInterval:          cfg.Readiness.ReminderInterval,
			MaxReminders:              cfg.Readiness.MaxReminders,
			PenaltyPercentage:         cfg.Readiness.NoResponsePenaltyPct,
			MovementWindow:            cfg.Readiness.MovementWindow,
			MovementPenaltyPercentage: cfg.Readiness.NoMovementPenaltyPct,
			ExpiryLookback:            cfg.Readiness.ExpiryLookback,
			Location:                  loc,
		},
	)

	paymentUsecase := paymentusecase.NewDefaultPaymentUsecase(
		deps.Repositories.PaymentRepo,
		deps.Repositories.OrderRepo,
		deps.Repositories.ContactRepo,
		messenger,
		emitter,
		deps.Metrics,
		cfg.Payments.Currency,
		cfg.Notifier.Language,
	)

	auditUsecase := auditusecase.NewDefaultAuditUsecase(deps.Repositories.Consistency, emitter, deps.Metrics)

	return &UseCases{
		OrderUsecase:     orderUsecase,
		ReadinessUsecase: readinessUsecase,
		PaymentUsecase:   paymentUsecase,
		AuditUsecase:     auditUsecase,
		Emitter:          emitter,
		Messenger:        messenger,
	}, nil
}
