package repository

import (
	"errors"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &domain.StoreError{Op: op, Err: err}
}

// nullable maps the zero value to SQL NULL for map-based updates.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// orderMissOrConflict explains why a conditional update on an order touched no rows.
func orderMissOrConflict(db *gorm.DB, orderID, reason string) error {
	var count int64
	if err := db.Model(&models.OrderModel{}).Where("id = ?", orderID).Count(&count).Error; err != nil {
		return storeErr("count order", err)
	}
	if count == 0 {
		return domain.ErrOrderNotFound
	}
	return domain.NewConflict("order", orderID, reason)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
