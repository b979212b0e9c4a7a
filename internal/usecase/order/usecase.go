package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/metrics"
	orderdto "github.com/LavaJover/shvark-booking-service/internal/usecase/dto/order"
	"github.com/LavaJover/shvark-booking-service/internal/usecase/events"
	"github.com/jaevor/go-nanoid"
)

const orderNumberAlphabet = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"

type OrderUsecase interface {
	CreateOrder(ctx context.Context, input *orderdto.CreateOrderInput) (*domain.Order, error)
	SubmitQuote(ctx context.Context, input *orderdto.SubmitQuoteInput) (*domain.OrderSpecialist, error)
	AcceptQuote(ctx context.Context, orderID, specialistID string) (*domain.Order, error)

	StartWaiting(ctx context.Context, orderID string, window time.Duration) (*domain.Order, error)
	StartWorking(ctx context.Context, orderID string) (*domain.Order, error)
	CompleteOrder(ctx context.Context, orderID string) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID, reason string) (*domain.Order, error)

	GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) (*orderdto.ListOrdersOutput, error)
	ListCandidates(ctx context.Context, orderID string) ([]*domain.OrderSpecialist, error)
}

type DefaultOrderUsecase struct {
	OrderRepo domain.OrderRepository
	Contacts  domain.ContactRepository
	Events    *events.Emitter
	Metrics   *metrics.BookingMetrics
	Currency  string
	// QuoteWindow is how long a new order accepts quotes; zero means no expiry.
	QuoteWindow time.Duration
	Clock       func() time.Time

	newOrderNumber func() string
}

func NewDefaultOrderUsecase(
	orderRepo domain.OrderRepository,
	contacts domain.ContactRepository,
	emitter *events.Emitter,
	bookingMetrics *metrics.BookingMetrics,
	currency string,
) (*DefaultOrderUsecase, error) {
	gen, err := nanoid.CustomASCII(orderNumberAlphabet, 10)
	if err != nil {
		return nil, fmt.Errorf("order number generator: %w", err)
	}

	return &DefaultOrderUsecase{
		OrderRepo:      orderRepo,
		Contacts:       contacts,
		Events:         emitter,
		Metrics:        bookingMetrics,
		Currency:       currency,
		Clock:          func() time.Time { return time.Now().UTC() },
		newOrderNumber: gen,
	}, nil
}

func (uc *DefaultOrderUsecase) now() time.Time {
	return uc.Clock().UTC()
}
