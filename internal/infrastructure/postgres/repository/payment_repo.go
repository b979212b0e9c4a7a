package repository

import (
	"context"
	"errors"
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	stepOrderUpdate  = "order_update"
	stepConfirmation = "insert_confirmation"
	stepWalletCredit = "wallet_credit"
	stepLedger       = "wallet_ledger"
)

type DefaultPaymentRepository struct {
	DB *gorm.DB
}

func NewDefaultPaymentRepository(db *gorm.DB) *DefaultPaymentRepository {
	return &DefaultPaymentRepository{DB: db}
}

// CommitReconciliation пишет подтверждение, статус оплаты заказа и (при необходимости)
// пополнение кошелька в одной транзакции. Либо всё, либо ничего.
//
// Заказ обновляется первым и условно (payment_confirmation_id IS NULL): строка
// заказа блокируется до конца транзакции, вторая попытка получает ConflictError.
// Баланс кошелька меняется атомарным upsert (balance = balance + delta), поэтому
// параллельные зачисления одному клиенту сериализуются на строке кошелька.
func (r *DefaultPaymentRepository) CommitReconciliation(ctx context.Context, cmd domain.ReconciliationCommand) (*domain.ReconciliationResult, error) {
	c := cmd.Confirmation
	result := &domain.ReconciliationResult{Confirmation: c}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.OrderModel{}).
			Where("id = ? AND payment_confirmation_id IS NULL", c.OrderID).
			Updates(map[string]interface{}{
				"payment_status":          domain.PaymentStatusReceived,
				"payment_confirmed_at":    cmd.ConfirmedAt,
				"payment_confirmation_id": c.ID,
				"updated_at":              cmd.ConfirmedAt,
			})
		if res.Error != nil {
			return reconErr(c.OrderID, stepOrderUpdate, res.Error)
		}
		if res.RowsAffected == 0 {
			err := orderMissOrConflict(tx, c.OrderID, "payment already confirmed")
			if domain.IsStore(err) {
				return reconErr(c.OrderID, stepOrderUpdate, err)
			}
			return err
		}

		if err := tx.Create(mappers.ToGORMPaymentConfirmation(&c)).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.NewConflict("order", c.OrderID, "payment already confirmed")
			}
			return reconErr(c.OrderID, stepConfirmation, err)
		}

		if cmd.Credit == nil {
			return nil
		}

		walletTx, err := creditWallet(tx, c, *cmd.Credit, cmd.ConfirmedAt)
		if err != nil {
			return err
		}
		result.WalletTransaction = walletTx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func creditWallet(tx *gorm.DB, c domain.PaymentConfirmation, credit domain.WalletCredit, at time.Time) (*domain.CustomerWalletTransaction, error) {
	wallet := models.CustomerWalletModel{
		ID:         uuid.NewString(),
		CustomerID: c.CustomerID,
		Balance:    credit.Amount,
		Version:    1,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "customer_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"balance":    gorm.Expr("customer_wallets.balance + excluded.balance"),
			"version":    gorm.Expr("customer_wallets.version + 1"),
			"updated_at": at,
		}),
	}).Create(&wallet).Error
	if err != nil {
		return nil, reconErr(c.OrderID, stepWalletCredit, err)
	}

	// Перечитываем внутри транзакции: строка заблокирована нами, баланс окончательный.
	var stored models.CustomerWalletModel
	if err := tx.Where("customer_id = ?", c.CustomerID).First(&stored).Error; err != nil {
		return nil, reconErr(c.OrderID, stepWalletCredit, err)
	}

	entry := models.CustomerWalletTransactionModel{
		ID:                    uuid.NewString(),
		WalletID:              stored.ID,
		CustomerID:            c.CustomerID,
		OrderID:               &c.OrderID,
		PaymentConfirmationID: &c.ID,
		TransactionType:       domain.WalletTxCredit,
		Amount:                credit.Amount,
		BalanceAfter:          stored.Balance,
		WalletVersion:         stored.Version,
		Description:           credit.Description,
		CreatedAt:             at,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, reconErr(c.OrderID, stepLedger, err)
	}
	return mappers.ToDomainWalletTransaction(&entry), nil
}

func (r *DefaultPaymentRepository) GetConfirmationByOrderID(ctx context.Context, orderID string) (*domain.PaymentConfirmation, error) {
	var m models.PaymentConfirmationModel
	if err := r.DB.WithContext(ctx).First(&m, "order_id = ?", orderID).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, storeErr("get payment confirmation", err)
	}
	return mappers.ToDomainPaymentConfirmation(&m), nil
}

func (r *DefaultPaymentRepository) GetWalletStatement(ctx context.Context, customerID string) (*domain.WalletStatement, error) {
	db := r.DB.WithContext(ctx)

	var wallet models.CustomerWalletModel
	if err := db.First(&wallet, "customer_id = ?", customerID).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, storeErr("get wallet", err)
	}

	var rows []models.CustomerWalletTransactionModel
	if err := db.Where("wallet_id = ?", wallet.ID).Order("wallet_version ASC").Find(&rows).Error; err != nil {
		return nil, storeErr("list wallet transactions", err)
	}

	statement := &domain.WalletStatement{
		Wallet:       *mappers.ToDomainWallet(&wallet),
		Transactions: make([]domain.CustomerWalletTransaction, len(rows)),
	}
	for i := range rows {
		statement.Transactions[i] = *mappers.ToDomainWalletTransaction(&rows[i])
	}
	return statement, nil
}

func reconErr(orderID, step string, err error) error {
	return &domain.ReconciliationError{OrderID: orderID, Step: step, Err: err}
}
