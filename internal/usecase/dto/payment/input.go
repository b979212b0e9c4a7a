package paymentdto

import "github.com/shopspring/decimal"

// ConfirmPaymentInput - данные диалога подтверждения оплаты.
type ConfirmPaymentInput struct {
	OrderID string
	// AmountMatches skips the amount step: received = invoice, cause = matching.
	AmountMatches  bool
	AmountReceived decimal.Decimal
	// InvoiceAmount overrides the order total when set.
	InvoiceAmount *decimal.Decimal
	Cause         string
	Note          string
}
