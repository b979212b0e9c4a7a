package response

import (
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
)

type ConfirmationResponse struct {
	ID               string    `json:"id"`
	OrderID          string    `json:"order_id"`
	InvoiceAmount    string    `json:"invoice_amount"`
	AmountReceived   string    `json:"amount_received"`
	DifferenceAmount string    `json:"difference_amount"`
	DifferenceCause  string    `json:"difference_cause"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type WalletTransactionResponse struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"order_id,omitempty"`
	Type          string    `json:"type"`
	Amount        string    `json:"amount"`
	BalanceAfter  string    `json:"balance_after"`
	WalletVersion int64     `json:"wallet_version"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type PaymentConfirmationResponse struct {
	Order             OrderResponse              `json:"order"`
	Confirmation      ConfirmationResponse       `json:"confirmation"`
	WalletTransaction *WalletTransactionResponse `json:"wallet_transaction,omitempty"`
}

type WalletResponse struct {
	CustomerID   string                      `json:"customer_id"`
	Balance      string                      `json:"balance"`
	Version      int64                       `json:"version"`
	Transactions []WalletTransactionResponse `json:"transactions"`
}

func FromConfirmation(c domain.PaymentConfirmation) ConfirmationResponse {
	return ConfirmationResponse{
		ID:               c.ID,
		OrderID:          c.OrderID,
		InvoiceAmount:    c.InvoiceAmount.StringFixed(2),
		AmountReceived:   c.AmountReceived.StringFixed(2),
		DifferenceAmount: c.DifferenceAmount.StringFixed(2),
		DifferenceCause:  string(c.DifferenceCause),
		Notes:            c.Notes,
		CreatedAt:        c.CreatedAt,
	}
}

func FromWalletTransaction(t domain.CustomerWalletTransaction) WalletTransactionResponse {
	return WalletTransactionResponse{
		ID:            t.ID,
		OrderID:       t.OrderID,
		Type:          t.TransactionType,
		Amount:        t.Amount.StringFixed(2),
		BalanceAfter:  t.BalanceAfter.StringFixed(2),
		WalletVersion: t.WalletVersion,
		Description:   t.Description,
		CreatedAt:     t.CreatedAt,
	}
}

func FromWalletStatement(s *domain.WalletStatement) WalletResponse {
	resp := WalletResponse{
		CustomerID:   s.Wallet.CustomerID,
		Balance:      s.Wallet.Balance.StringFixed(2),
		Version:      s.Wallet.Version,
		Transactions: make([]WalletTransactionResponse, 0, len(s.Transactions)),
	}
	for _, t := range s.Transactions {
		resp.Transactions = append(resp.Transactions, FromWalletTransaction(t))
	}
	return resp
}
