package usecase

import (
	"context"
	"strings"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
)

// CancelOrder works from any non-terminal status and always clears the
// tracking stage and waiting window.
func (uc *DefaultOrderUsecase) CancelOrder(ctx context.Context, orderID, reason string) (*domain.Order, error) {
	return uc.apply(ctx, cancelTransition, domain.StatusUpdate{
		OrderID:            orderID,
		Status:             domain.StatusCancelled,
		Stage:              domain.StageNone,
		CancellationReason: strings.TrimSpace(reason),
		At:                 uc.now(),
	})
}
