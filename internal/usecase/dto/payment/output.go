package paymentdto

import (
	"github.com/LavaJover/shvark-booking-service/internal/domain"
)

type ConfirmPaymentOutput struct {
	Order             *domain.Order
	Confirmation      domain.PaymentConfirmation
	WalletTransaction *domain.CustomerWalletTransaction
}
