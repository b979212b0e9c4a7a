package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
)

// RecordReadinessView stamps the first time the prompt was seen. Advisory
// only: failures are logged and never reach the caller.
func (uc *DefaultReadinessUsecase) RecordReadinessView(ctx context.Context, orderID string) {
	stamped, err := uc.Repo.MarkViewed(ctx, orderID, uc.now())
	if err != nil {
		slog.Warn("failed to record readiness view", "order_id", orderID, "error", err)
		return
	}
	if stamped {
		slog.Debug("readiness prompt viewed", "order_id", orderID)
	}
}

// ConfirmReady resolves a pending readiness check. With a non-empty
// specialistID the order must still be assigned to that specialist.
func (uc *DefaultReadinessUsecase) ConfirmReady(ctx context.Context, orderID, specialistID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, domain.NewValidation("order_id", "is required")
	}

	now := uc.now()
	order, err := uc.Repo.ConfirmReady(ctx, orderID, specialistID, now)
	if err != nil {
		return nil, err
	}

	ev := domain.NewOrderEvent(domain.EventReadinessConfirmed, order, now)
	ev.SpecialistID = order.SpecialistID
	uc.Events.Emit(ctx, ev)
	uc.Metrics.RecordReadinessResponse(string(domain.ReadinessReady))
	return order, nil
}

// ConfirmNotReady rejects the specialist's candidacy and releases the order
// in one transaction.
func (uc *DefaultReadinessUsecase) ConfirmNotReady(ctx context.Context, orderID, specialistID, reason string) (*domain.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.NewValidation("reason", "is required when not ready")
	}
	if orderID == "" {
		return nil, domain.NewValidation("order_id", "is required")
	}

	now := uc.now()
	order, err := uc.Repo.ConfirmNotReady(ctx, orderID, specialistID, reason, now)
	if err != nil {
		return nil, err
	}

	ev := domain.NewOrderEvent(domain.EventReadinessDeclined, order, now)
	ev.SpecialistID = specialistID
	ev.Details = map[string]string{"reason": reason}
	uc.Events.Emit(ctx, ev)
	uc.Metrics.RecordReadinessResponse(string(domain.ReadinessNotReady))
	return order, nil
}

func (uc *DefaultReadinessUsecase) Deadline(ctx context.Context, orderID string) (*domain.Deadline, error) {
	order, err := uc.Orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	d := domain.ComputeDeadline(order.BookingDate, order.BookingTime, uc.now(), uc.Policy.Location)
	return &d, nil
}
