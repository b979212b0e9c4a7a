package usecase

import (
	"context"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-booking-service/internal/usecase/dto/order"
)

func (uc *DefaultOrderUsecase) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	return uc.OrderRepo.GetOrderByID(ctx, orderID)
}

func (uc *DefaultOrderUsecase) ListOrders(ctx context.Context, filter domain.OrderFilter) (*orderdto.ListOrdersOutput, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.NewValidation("status", "unknown order status")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	orders, total, err := uc.OrderRepo.ListOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &orderdto.ListOrdersOutput{Orders: orders, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (uc *DefaultOrderUsecase) ListCandidates(ctx context.Context, orderID string) ([]*domain.OrderSpecialist, error) {
	if _, err := uc.OrderRepo.GetOrderByID(ctx, orderID); err != nil {
		return nil, err
	}
	return uc.OrderRepo.ListCandidates(ctx, orderID)
}
