package request

import "github.com/shopspring/decimal"

type ConfirmPaymentRequest struct {
	AmountMatches  bool             `json:"amount_matches"`
	AmountReceived decimal.Decimal  `json:"amount_received"`
	InvoiceAmount  *decimal.Decimal `json:"invoice_amount,omitempty"`
	Cause          string           `json:"cause"`
	Note           string           `json:"note"`
}

type FixRequest struct {
	Rules []string `json:"rules"`
}
