package usecase

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/metrics"
	paymentdto "github.com/LavaJover/shvark-booking-service/internal/usecase/dto/payment"
	"github.com/LavaJover/shvark-booking-service/internal/usecase/events"
)

type PaymentUsecase interface {
	ConfirmPayment(ctx context.Context, input *paymentdto.ConfirmPaymentInput) (*paymentdto.ConfirmPaymentOutput, error)
	GetWallet(ctx context.Context, customerID string) (*domain.WalletStatement, error)
}

type DefaultPaymentUsecase struct {
	PaymentRepo domain.PaymentRepository
	OrderRepo   domain.OrderRepository
	Contacts    domain.ContactRepository
	Messenger   *events.Messenger
	Events      *events.Emitter
	Metrics     *metrics.BookingMetrics
	Currency    string
	Language    string
	Clock       func() time.Time
}

func NewDefaultPaymentUsecase(
	paymentRepo domain.PaymentRepository,
	orderRepo domain.OrderRepository,
	contacts domain.ContactRepository,
	messenger *events.Messenger,
	emitter *events.Emitter,
	bookingMetrics *metrics.BookingMetrics,
	currency, language string,
) *DefaultPaymentUsecase {
	return &DefaultPaymentUsecase{
		PaymentRepo: paymentRepo,
		OrderRepo:   orderRepo,
		Contacts:    contacts,
		Messenger:   messenger,
		Events:      emitter,
		Metrics:     bookingMetrics,
		Currency:    currency,
		Language:    language,
		Clock:       func() time.Time { return time.Now().UTC() },
	}
}

func (uc *DefaultPaymentUsecase) now() time.Time {
	return uc.Clock().UTC()
}

func (uc *DefaultPaymentUsecase) GetWallet(ctx context.Context, customerID string) (*domain.WalletStatement, error) {
	if customerID == "" {
		return nil, domain.NewValidation("customer_id", "is required")
	}
	return uc.PaymentRepo.GetWalletStatement(ctx, customerID)
}
