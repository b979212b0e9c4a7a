package mappers

import (
	"github.com/LavaJover/shvark-booking-service/internal/domain"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/models"
)

func ToGORMPaymentConfirmation(c *domain.PaymentConfirmation) *models.PaymentConfirmationModel {
	return &models.PaymentConfirmationModel{
		ID:               c.ID,
		OrderID:          c.OrderID,
		SpecialistID:     ptr(c.SpecialistID),
		CustomerID:       c.CustomerID,
		InvoiceAmount:    c.InvoiceAmount,
		AmountReceived:   c.AmountReceived,
		DifferenceAmount: c.DifferenceAmount,
		DifferenceCause:  string(c.DifferenceCause),
		Notes:            ptr(c.Notes),
		CreatedAt:        c.CreatedAt,
	}
}

func ToDomainPaymentConfirmation(m *models.PaymentConfirmationModel) *domain.PaymentConfirmation {
	return &domain.PaymentConfirmation{
		ID:               m.ID,
		OrderID:          m.OrderID,
		SpecialistID:     deref(m.SpecialistID),
		CustomerID:       m.CustomerID,
		InvoiceAmount:    m.InvoiceAmount,
		AmountReceived:   m.AmountReceived,
		DifferenceAmount: m.DifferenceAmount,
		DifferenceCause:  domain.DifferenceCause(m.DifferenceCause),
		Notes:            deref(m.Notes),
		CreatedAt:        m.CreatedAt.UTC(),
	}
}

func ToDomainWallet(m *models.CustomerWalletModel) *domain.CustomerWallet {
	return &domain.CustomerWallet{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		Balance:    m.Balance,
		Version:    m.Version,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

func ToDomainWalletTransaction(m *models.CustomerWalletTransactionModel) *domain.CustomerWalletTransaction {
	return &domain.CustomerWalletTransaction{
		ID:                    m.ID,
		WalletID:              m.WalletID,
		CustomerID:            m.CustomerID,
		OrderID:               deref(m.OrderID),
		PaymentConfirmationID: deref(m.PaymentConfirmationID),
		TransactionType:       m.TransactionType,
		Amount:                m.Amount,
		BalanceAfter:          m.BalanceAfter,
		WalletVersion:         m.WalletVersion,
		Description:           m.Description,
		CreatedAt:             m.CreatedAt.UTC(),
	}
}
