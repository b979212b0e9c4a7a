package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
)

// MaxWaitingWindow bounds the on-site waiting period a caller may request.
const MaxWaitingWindow = 2 * time.Hour

// orderTransition - описание условного перехода заказа.
type orderTransition struct {
	name  string
	event domain.OrderEventType
	from  []domain.OrderStatus
	// fromStages пусто = этап не проверяется
	fromStages []domain.TrackingStage
}

var (
	activeStatuses = []domain.OrderStatus{domain.StatusUpcoming, domain.StatusInProgress}

	waitingTransition = orderTransition{
		name:       "waiting",
		event:      domain.EventWaitingStarted,
		from:       activeStatuses,
		fromStages: []domain.TrackingStage{domain.StageNone, domain.StageWaiting},
	}
	workingTransition = orderTransition{
		name:       "working",
		event:      domain.EventWorkingStarted,
		from:       activeStatuses,
		fromStages: []domain.TrackingStage{domain.StageNone, domain.StageWaiting},
	}
	completeTransition = orderTransition{
		name:  "completed",
		event: domain.EventOrderCompleted,
		from:  activeStatuses,
	}
	cancelTransition = orderTransition{
		name:  "cancelled",
		event: domain.EventOrderCancelled,
		from: []domain.OrderStatus{
			domain.StatusPending, domain.StatusQuoted, domain.StatusAccepted,
			domain.StatusUpcoming, domain.StatusInProgress,
		},
	}
)

// StartWaiting opens the waiting window. A non-positive window uses the default.
func (uc *DefaultOrderUsecase) StartWaiting(ctx context.Context, orderID string, window time.Duration) (*domain.Order, error) {
	if window <= 0 {
		window = domain.DefaultWaitingWindow
	}
	if window > MaxWaitingWindow {
		return nil, domain.NewValidation("window", fmt.Sprintf("must not exceed %s", MaxWaitingWindow))
	}

	now := uc.now()
	ends := now.Add(window)
	return uc.apply(ctx, waitingTransition, domain.StatusUpdate{
		OrderID:           orderID,
		Status:            domain.StatusInProgress,
		Stage:             domain.StageWaiting,
		WaitingStartedAt:  &now,
		WaitingEndsAt:     &ends,
		RequireSpecialist: true,
		At:                now,
	})
}

// StartWorking clears the waiting window together with the stage change.
func (uc *DefaultOrderUsecase) StartWorking(ctx context.Context, orderID string) (*domain.Order, error) {
	return uc.apply(ctx, workingTransition, domain.StatusUpdate{
		OrderID:           orderID,
		Status:            domain.StatusInProgress,
		Stage:             domain.StageWorking,
		RequireSpecialist: true,
		At:                uc.now(),
	})
}

// CompleteOrder sets status and stage together; they never diverge.
func (uc *DefaultOrderUsecase) CompleteOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return uc.apply(ctx, completeTransition, domain.StatusUpdate{
		OrderID:           orderID,
		Status:            domain.StatusCompleted,
		Stage:             domain.StagePaymentReceived,
		RequireSpecialist: true,
		At:                uc.now(),
	})
}

func (uc *DefaultOrderUsecase) apply(ctx context.Context, t orderTransition, update domain.StatusUpdate) (*domain.Order, error) {
	update.FromStatuses = t.from
	update.FromStages = t.fromStages

	order, err := uc.OrderRepo.ApplyStatusUpdate(ctx, update)
	if err != nil {
		uc.recordError(t.name, err)
		return nil, err
	}

	ev := domain.NewOrderEvent(t.event, order, update.At)
	if update.CancellationReason != "" {
		ev.Details = map[string]string{"reason": update.CancellationReason}
	}
	uc.Events.Emit(ctx, ev)
	uc.Metrics.RecordTransition(t.name)
	return order, nil
}
