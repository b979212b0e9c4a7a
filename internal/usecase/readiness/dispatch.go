package usecase

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
)

// DispatchReadinessChecks asks the assigned specialist to confirm readiness
// once the booking start is within the check window. Named slots have no
// start instant and are never prompted automatically.
func (uc *DefaultReadinessUsecase) DispatchReadinessChecks(ctx context.Context) (int, error) {
	orders, err := uc.Repo.FindCheckCandidates(ctx)
	if err != nil {
		return 0, err
	}

	now := uc.now()
	sent := 0
	for _, order := range orders {
		if !order.BookingTime.HasInstant() {
			continue
		}
		d := domain.ComputeDeadline(order.BookingDate, order.BookingTime, now, uc.Policy.Location)
		if d.Remaining <= 0 || d.Remaining > uc.Policy.CheckWindow {
			continue
		}

		marked, err := uc.Repo.MarkCheckSent(ctx, order.ID, now)
		if err != nil {
			slog.Error("failed to mark readiness check", "order_id", order.ID, "error", err)
			continue
		}
		if !marked {
			continue
		}
		sent++

		uc.notifySpecialist(ctx, "readiness_check", order, readinessCheckMessage(order, d))
		uc.Events.Emit(ctx, domain.OrderEvent{
			Type:         domain.EventReadinessRequested,
			OrderID:      order.ID,
			OrderNumber:  order.OrderNumber,
			Status:       string(order.Status),
			SpecialistID: order.SpecialistID,
			CustomerID:   order.CustomerID,
			OccurredAt:   now,
		})
		uc.Metrics.RecordReadinessCheckSent()
	}

	if sent > 0 {
		slog.Info("readiness checks dispatched", "count", sent)
	}
	return sent, nil
}

// SendReminders re-prompts specialists who have not answered. The last
// allowed reminder is still delivered; the same pass then marks the order
// no_response and announces the penalty.
func (uc *DefaultReadinessUsecase) SendReminders(ctx context.Context) (int, error) {
	now := uc.now()
	orders, err := uc.Repo.FindReminderCandidates(ctx, uc.Policy.MaxReminders, now.Add(-uc.Policy.ReminderInterval))
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, order := range orders {
		next := order.Readiness.ReminderCount + 1
		exhausted := next >= uc.Policy.MaxReminders

		ok, err := uc.Repo.RecordReminder(ctx, domain.ReadinessReminder{
			OrderID:           order.ID,
			ExpectedCount:     order.Readiness.ReminderCount,
			At:                now,
			Exhausted:         exhausted,
			PenaltyPercentage: uc.Policy.PenaltyPercentage,
		})
		if err != nil {
			slog.Error("failed to record readiness reminder", "order_id", order.ID, "error", err)
			continue
		}
		if !ok {
			continue
		}
		sent++

		uc.notifySpecialist(ctx, "readiness_reminder", order, reminderMessage(order, next, uc.Policy.MaxReminders))
		uc.emitReminder(ctx, domain.EventReadinessReminded, order, next, now)
		if exhausted {
			uc.notifySpecialist(ctx, "readiness_no_response", order, noResponseMessage(order, uc.Policy.PenaltyPercentage))
			uc.emitReminder(ctx, domain.EventReadinessExpired, order, next, now)
			slog.Info("readiness marked no_response", "order_id", order.ID, "reminders", next)
		}
		uc.Metrics.RecordReadinessReminder(exhausted)
	}
	return sent, nil
}

// SendMovementReminders nudges specialists who confirmed readiness but have
// not started moving once the booking is within the movement window. After
// the last reminder the order is flagged needs_reassignment with a penalty.
func (uc *DefaultReadinessUsecase) SendMovementReminders(ctx context.Context) (int, error) {
	now := uc.now()
	orders, err := uc.Repo.FindMovementReminderCandidates(ctx, uc.Policy.MaxReminders, now.Add(-uc.Policy.ReminderInterval))
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, order := range orders {
		if !order.BookingTime.HasInstant() {
			continue
		}
		d := domain.ComputeDeadline(order.BookingDate, order.BookingTime, now, uc.Policy.Location)
		if d.Remaining > uc.Policy.MovementWindow {
			continue
		}

		next := order.Readiness.MovementReminderCount + 1
		exhausted := next >= uc.Policy.MaxReminders

		ok, err := uc.Repo.RecordMovementReminder(ctx, domain.ReadinessReminder{
			OrderID:           order.ID,
			ExpectedCount:     order.Readiness.MovementReminderCount,
			At:                now,
			Exhausted:         exhausted,
			PenaltyPercentage: uc.Policy.MovementPenaltyPercentage,
		})
		if err != nil {
			slog.Error("failed to record movement reminder", "order_id", order.ID, "error", err)
			continue
		}
		if !ok {
			continue
		}
		sent++

		uc.notifySpecialist(ctx, "movement_reminder", order, movementReminderMessage(order, next, uc.Policy.MaxReminders))
		uc.emitReminder(ctx, domain.EventMovementReminded, order, next, now)
		if exhausted {
			uc.notifySpecialist(ctx, "movement_overdue", order, needsReassignmentMessage(order, uc.Policy.MovementPenaltyPercentage))
			uc.emitReminder(ctx, domain.EventMovementOverdue, order, next, now)
			slog.Info("order needs reassignment", "order_id", order.ID, "reminders", next)
		}
		uc.Metrics.RecordMovementReminder(exhausted)
	}
	return sent, nil
}

func (uc *DefaultReadinessUsecase) emitReminder(ctx context.Context, evType domain.OrderEventType, order *domain.Order, n int, at time.Time) {
	uc.Events.Emit(ctx, domain.OrderEvent{
		Type:         evType,
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		Status:       string(order.Status),
		SpecialistID: order.SpecialistID,
		Details:      map[string]string{"reminder": strconv.Itoa(n)},
		OccurredAt:   at,
	})
}

func (uc *DefaultReadinessUsecase) notifySpecialist(ctx context.Context, purpose string, order *domain.Order, body string) {
	contact, err := uc.Contacts.GetSpecialistContact(ctx, order.SpecialistID)
	if err != nil {
		slog.Warn("no specialist contact for readiness message", "order_id", order.ID, "error", err)
		return
	}
	uc.Messenger.Send(purpose, contact.WhatsappNumber, body)
}
