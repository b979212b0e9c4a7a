package usecase

import (
	"context"
	"strings"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-booking-service/internal/usecase/dto/order"
	"github.com/google/uuid"
)

func (uc *DefaultOrderUsecase) CreateOrder(ctx context.Context, input *orderdto.CreateOrderInput) (*domain.Order, error) {
	if strings.TrimSpace(input.CustomerID) == "" {
		return nil, domain.NewValidation("customer_id", "is required")
	}

	// Время бронирования разбираем один раз, при создании.
	bookingTime, err := domain.ParseBookingTime(input.BookingTime)
	if err != nil {
		return nil, err
	}

	if _, err := uc.Contacts.GetCustomerContact(ctx, input.CustomerID); err != nil {
		return nil, err
	}

	now := uc.now()
	order := &domain.Order{
		ID:             uuid.NewString(),
		OrderNumber:    uc.newOrderNumber(),
		CustomerID:     input.CustomerID,
		ServiceType:    strings.TrimSpace(input.ServiceType),
		Notes:          input.Notes,
		Status:         domain.StatusPending,
		BookingTimeRaw: strings.TrimSpace(input.BookingTime),
		BookingTime:    bookingTime,
		Currency:       uc.Currency,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	window := uc.QuoteWindow
	switch {
	case input.QuoteWindow < 0:
		return nil, domain.NewValidation("expires_in_minutes", "must not be negative")
	case input.QuoteWindow > 0:
		window = input.QuoteWindow
	}
	if window > 0 {
		expiresAt := now.Add(window)
		order.ExpiresAt = &expiresAt
	}
	if input.BookingDate != nil {
		d := domain.NormalizeBookingDate(*input.BookingDate)
		order.BookingDate = &d
	}

	if err := uc.OrderRepo.CreateOrder(ctx, order); err != nil {
		uc.recordError("create", err)
		return nil, err
	}

	uc.Events.Emit(ctx, domain.NewOrderEvent(domain.EventOrderCreated, order, now))
	uc.Metrics.RecordTransition("created")
	return order, nil
}
