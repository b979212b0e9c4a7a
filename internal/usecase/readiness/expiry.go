package usecase

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
)

// NotifyExpiredOrders tells the undecided candidates of every order whose
// quoting window just closed, once per order. Expiries older than the
// lookback are never announced.
func (uc *DefaultReadinessUsecase) NotifyExpiredOrders(ctx context.Context) (int, error) {
	now := uc.now()
	orders, err := uc.Repo.FindExpiredOrders(ctx, now.Add(-uc.Policy.ExpiryLookback), now)
	if err != nil {
		return 0, err
	}

	notified := 0
	for _, order := range orders {
		candidates, err := uc.Orders.ListCandidates(ctx, order.ID)
		if err != nil {
			slog.Error("failed to list candidates of expired order", "order_id", order.ID, "error", err)
			continue
		}

		marked, err := uc.Repo.MarkExpiryNotified(ctx, order.ID, now)
		if err != nil {
			slog.Error("failed to mark expiry notified", "order_id", order.ID, "error", err)
			continue
		}
		if !marked {
			continue
		}
		notified++

		recipients := 0
		for _, c := range candidates {
			if c.RejectedAt != nil || c.IsAccepted != nil {
				continue
			}
			contact, err := uc.Contacts.GetSpecialistContact(ctx, c.SpecialistID)
			if err != nil {
				slog.Warn("no specialist contact for expiry notice", "order_id", order.ID, "specialist_id", c.SpecialistID, "error", err)
				continue
			}
			uc.Messenger.Send("order_expired", contact.WhatsappNumber, quotingExpiredMessage(order))
			recipients++
		}

		ev := domain.NewOrderEvent(domain.EventQuotingExpired, order, now)
		ev.Details = map[string]string{"recipients": strconv.Itoa(recipients)}
		uc.Events.Emit(ctx, ev)
		uc.Metrics.RecordExpiryNotice()
	}

	if notified > 0 {
		slog.Info("expired orders announced", "count", notified)
	}
	return notified, nil
}
