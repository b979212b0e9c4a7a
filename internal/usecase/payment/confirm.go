package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	paymentdto "github.com/LavaJover/shvark-booking-service/internal/usecase/dto/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// reconciliation is the validated outcome of the confirmation dialog.
type reconciliation struct {
	invoice  decimal.Decimal
	received decimal.Decimal
	diff     decimal.Decimal
	cause    domain.DifferenceCause
	note     string
}

// ConfirmPayment reconciles the received amount against the invoice exactly
// once per order. The confirmation, the order payment fields and any wallet
// credit are committed together; the customer message goes out afterwards
// and never affects the result.
func (uc *DefaultPaymentUsecase) ConfirmPayment(ctx context.Context, input *paymentdto.ConfirmPaymentInput) (*paymentdto.ConfirmPaymentOutput, error) {
	if input == nil || input.OrderID == "" {
		return nil, domain.NewValidation("order_id", "is required")
	}

	order, err := uc.OrderRepo.GetOrderByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Payment.IsConfirmed() {
		return nil, domain.NewConflict("order", order.ID, "payment already confirmed")
	}

	rec, err := resolveReconciliation(input, order.TotalAmount)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	cmd := domain.ReconciliationCommand{
		Confirmation: domain.PaymentConfirmation{
			ID:               uuid.New().String(),
			OrderID:          order.ID,
			SpecialistID:     order.SpecialistID,
			CustomerID:       order.CustomerID,
			InvoiceAmount:    rec.invoice,
			AmountReceived:   rec.received,
			DifferenceAmount: rec.diff,
			DifferenceCause:  rec.cause,
			Notes:            rec.note,
			CreatedAt:        now,
		},
		ConfirmedAt: now,
	}
	// чаевые пока фиксируются только в подтверждении
	if rec.cause.CreditsWallet() && rec.diff.IsPositive() {
		cmd.Credit = &domain.WalletCredit{
			Amount:      rec.diff,
			Description: "Payment surplus from order " + orderRef(order),
		}
	}

	started := time.Now()
	result, err := uc.PaymentRepo.CommitReconciliation(ctx, cmd)
	if err != nil {
		if domain.IsConflict(err) || errors.Is(err, domain.ErrOrderNotFound) || domain.IsReconciliation(err) {
			return nil, err
		}
		return nil, &domain.ReconciliationError{OrderID: order.ID, Step: "commit", Err: err}
	}

	diffF, _ := rec.diff.Float64()
	uc.Metrics.RecordPaymentConfirmed(string(rec.cause), order.Currency, diffF, time.Since(started).Seconds())

	order.Payment = domain.PaymentInfo{
		Status:         domain.PaymentStatusReceived,
		ConfirmedAt:    &now,
		ConfirmationID: result.Confirmation.ID,
	}

	ev := domain.NewOrderEvent(domain.EventPaymentConfirmed, order, now)
	ev.Amount = rec.received.StringFixed(2)
	ev.Details = map[string]string{
		"cause":      string(rec.cause),
		"invoice":    rec.invoice.StringFixed(2),
		"difference": rec.diff.StringFixed(2),
	}
	uc.Events.Emit(ctx, ev)

	if wt := result.WalletTransaction; wt != nil {
		amountF, _ := wt.Amount.Float64()
		uc.Metrics.RecordWalletCredit(amountF)

		credited := domain.NewOrderEvent(domain.EventWalletCredited, order, now)
		credited.Amount = wt.Amount.StringFixed(2)
		credited.Details = map[string]string{
			"wallet_id":     wt.WalletID,
			"balance_after": wt.BalanceAfter.StringFixed(2),
		}
		uc.Events.Emit(ctx, credited)
	}

	uc.notifyCustomer(ctx, order, rec, result.WalletTransaction)

	slog.Info("payment confirmed",
		"order_id", order.ID,
		"cause", rec.cause,
		"invoice", rec.invoice.StringFixed(2),
		"received", rec.received.StringFixed(2),
	)

	return &paymentdto.ConfirmPaymentOutput{
		Order:             order,
		Confirmation:      result.Confirmation,
		WalletTransaction: result.WalletTransaction,
	}, nil
}

func resolveReconciliation(input *paymentdto.ConfirmPaymentInput, total decimal.Decimal) (*reconciliation, error) {
	invoice := total
	if input.InvoiceAmount != nil {
		invoice = *input.InvoiceAmount
	}
	invoice = invoice.Round(2)
	if !invoice.IsPositive() {
		return nil, domain.NewValidation("invoice_amount", "must be greater than zero")
	}

	if input.AmountMatches {
		return &reconciliation{
			invoice:  invoice,
			received: invoice,
			diff:     decimal.Zero,
			cause:    domain.CauseMatching,
		}, nil
	}

	received := input.AmountReceived.Round(2)
	if !received.IsPositive() {
		return nil, domain.NewValidation("amount_received", "must be greater than zero")
	}

	cause := domain.DifferenceCause(strings.TrimSpace(input.Cause))
	note := strings.TrimSpace(input.Note)
	diff := received.Sub(invoice)

	if diff.IsZero() {
		return &reconciliation{
			invoice:  invoice,
			received: received,
			diff:     decimal.Zero,
			cause:    domain.CauseMatching,
			note:     note,
		}, nil
	}

	switch cause {
	case domain.CauseTip, domain.CauseWallet, domain.CauseNoChange:
	case domain.CauseOther:
		if note == "" {
			return nil, domain.NewValidation("note", "is required for cause other")
		}
	case "":
		return nil, domain.NewValidation("cause", "is required when amounts differ")
	default:
		return nil, domain.NewValidation("cause", "unknown difference cause "+string(cause))
	}

	return &reconciliation{
		invoice:  invoice,
		received: received,
		diff:     diff,
		cause:    cause,
		note:     note,
	}, nil
}

func (uc *DefaultPaymentUsecase) notifyCustomer(ctx context.Context, order *domain.Order, rec *reconciliation, wt *domain.CustomerWalletTransaction) {
	contact, err := uc.Contacts.GetCustomerContact(ctx, order.CustomerID)
	if err != nil {
		slog.Warn("no customer contact for payment message", "order_id", order.ID, "error", err)
		return
	}

	currency := order.Currency
	if currency == "" {
		currency = uc.Currency
	}
	body := RenderPaymentMessage(uc.Language, PaymentMessage{
		OrderRef: orderRef(order),
		Cause:    rec.cause,
		Invoice:  rec.invoice,
		Received: rec.received,
		Diff:     rec.diff,
		Currency: currency,
		Credited: wt != nil,
	})
	uc.Messenger.Send("payment_confirmation", contact.WhatsappNumber, body)
}
