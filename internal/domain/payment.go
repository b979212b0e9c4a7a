package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DifferenceCause string

const (
	CauseMatching DifferenceCause = "matching"
	CauseTip      DifferenceCause = "tip"
	CauseWallet   DifferenceCause = "wallet"
	CauseNoChange DifferenceCause = "no_change"
	CauseOther    DifferenceCause = "other"
)

func (c DifferenceCause) Valid() bool {
	switch c {
	case CauseMatching, CauseTip, CauseWallet, CauseNoChange, CauseOther:
		return true
	}
	return false
}

// CreditsWallet reports whether a surplus with this cause goes to the customer wallet.
func (c DifferenceCause) CreditsWallet() bool {
	return c == CauseWallet || c == CauseNoChange
}

// PaymentConfirmation is immutable once written.
type PaymentConfirmation struct {
	ID               string
	OrderID          string
	SpecialistID     string
	CustomerID       string
	InvoiceAmount    decimal.Decimal
	AmountReceived   decimal.Decimal
	DifferenceAmount decimal.Decimal
	DifferenceCause  DifferenceCause
	Notes            string
	CreatedAt        time.Time
}

type CustomerWallet struct {
	ID         string
	CustomerID string
	Balance    decimal.Decimal
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CustomerWalletTransaction - запись журнала кошелька, только добавление.
type CustomerWalletTransaction struct {
	ID                    string
	WalletID              string
	CustomerID            string
	OrderID               string
	PaymentConfirmationID string
	TransactionType       string
	Amount                decimal.Decimal
	BalanceAfter          decimal.Decimal
	// WalletVersion is the wallet version this entry produced; strictly increasing per wallet.
	WalletVersion int64
	Description   string
	CreatedAt     time.Time
}

const WalletTxCredit = "credit"

// WalletCredit is the surplus routed to the customer's wallet within a reconciliation.
type WalletCredit struct {
	Amount      decimal.Decimal
	Description string
}

// ReconciliationCommand is everything the store needs to commit one confirmation atomically.
type ReconciliationCommand struct {
	Confirmation PaymentConfirmation
	ConfirmedAt  time.Time
	// Credit is nil when no wallet mutation is due.
	Credit *WalletCredit
}

type ReconciliationResult struct {
	Confirmation      PaymentConfirmation
	WalletTransaction *CustomerWalletTransaction
}

type WalletStatement struct {
	Wallet       CustomerWallet
	Transactions []CustomerWalletTransaction
}
