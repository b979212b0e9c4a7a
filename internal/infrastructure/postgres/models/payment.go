package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentConfirmationModel - одна запись на заказ, не изменяется.
type PaymentConfirmationModel struct {
	ID               string          `gorm:"primaryKey;type:uuid"`
	OrderID          string          `gorm:"type:uuid;not null;uniqueIndex"`
	SpecialistID     *string         `gorm:"type:uuid"`
	CustomerID       string          `gorm:"type:uuid;not null;index"`
	InvoiceAmount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	AmountReceived   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DifferenceAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DifferenceCause  string          `gorm:"not null"`
	Notes            *string
	CreatedAt        time.Time
}

func (PaymentConfirmationModel) TableName() string { return "payment_confirmations" }

type CustomerWalletModel struct {
	ID         string          `gorm:"primaryKey;type:uuid"`
	CustomerID string          `gorm:"type:uuid;not null;uniqueIndex"`
	Balance    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Version    int64           `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (CustomerWalletModel) TableName() string { return "customer_wallets" }

type CustomerWalletTransactionModel struct {
	ID                    string          `gorm:"primaryKey;type:uuid"`
	WalletID              string          `gorm:"type:uuid;not null;uniqueIndex:idx_wallet_tx_version"`
	CustomerID            string          `gorm:"type:uuid;not null;index"`
	OrderID               *string         `gorm:"type:uuid"`
	PaymentConfirmationID *string         `gorm:"type:uuid"`
	TransactionType       string          `gorm:"not null"`
	Amount                decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	BalanceAfter          decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	WalletVersion         int64           `gorm:"not null;uniqueIndex:idx_wallet_tx_version"`
	Description           string
	CreatedAt             time.Time `gorm:"index"`
}

func (CustomerWalletTransactionModel) TableName() string { return "customer_wallet_transactions" }
