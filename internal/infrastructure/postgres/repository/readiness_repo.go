package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultReadinessRepository struct {
	DB *gorm.DB
}

func NewDefaultReadinessRepository(db *gorm.DB) *DefaultReadinessRepository {
	return &DefaultReadinessRepository{DB: db}
}

func (r *DefaultReadinessRepository) MarkViewed(ctx context.Context, orderID string, at time.Time) (bool, error) {
	db := r.DB.WithContext(ctx)
	res := db.Model(&models.OrderModel{}).
		Where("id = ? AND readiness_notification_viewed_at IS NULL", orderID).
		Update("readiness_notification_viewed_at", at)
	if res.Error != nil {
		return false, storeErr("mark readiness viewed", res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	// Уже отмечено - не ошибка.
	if err := orderMissOrConflict(db, orderID, "already viewed"); !domain.IsConflict(err) {
		return false, err
	}
	return false, nil
}

func (r *DefaultReadinessRepository) ConfirmReady(ctx context.Context, orderID, specialistID string, at time.Time) (*domain.Order, error) {
	db := r.DB.WithContext(ctx)

	q := db.Model(&models.OrderModel{}).
		Where("id = ? AND specialist_readiness_status = ?", orderID, string(domain.ReadinessPending))
	if specialistID != "" {
		q = q.Where("specialist_id = ?", specialistID)
	}
	res := q.Updates(map[string]interface{}{
		"specialist_readiness_status":      string(domain.ReadinessReady),
		"specialist_readiness_response_at": at,
		"specialist_not_ready_reason":      nil,
		"updated_at":                       at,
	})
	if res.Error != nil {
		return nil, storeErr("confirm ready", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, readinessConflict(db, orderID, specialistID)
	}
	return getOrder(db, orderID)
}

// ConfirmNotReady отклоняет кандидатуру и снимает специалиста с заказа в одной транзакции.
func (r *DefaultReadinessRepository) ConfirmNotReady(ctx context.Context, orderID, specialistID, reason string, at time.Time) (*domain.Order, error) {
	db := r.DB.WithContext(ctx)

	err := db.Transaction(func(tx *gorm.DB) error {
		order, err := getOrder(tx, orderID)
		if err != nil {
			return err
		}
		if order.Readiness.Status != domain.ReadinessPending {
			return domain.NewConflict("order", orderID, fmt.Sprintf("readiness already resolved (%s)", readinessLabel(order.Readiness.Status)))
		}
		if specialistID != "" && order.SpecialistID != specialistID {
			return domain.NewConflict("order", orderID, "specialist is no longer assigned")
		}

		if order.SpecialistID != "" {
			err := tx.Model(&models.OrderSpecialistModel{}).
				Where("order_id = ? AND specialist_id = ?", orderID, order.SpecialistID).
				Updates(map[string]interface{}{
					"is_accepted":      false,
					"rejected_at":      at,
					"rejection_reason": reason,
					"updated_at":       at,
				}).Error
			if err != nil {
				return storeErr("reject candidacy", err)
			}
		}

		q := tx.Model(&models.OrderModel{}).
			Where("id = ? AND specialist_readiness_status = ?", orderID, string(domain.ReadinessPending))
		if order.SpecialistID != "" {
			q = q.Where("specialist_id = ?", order.SpecialistID)
		} else {
			q = q.Where("specialist_id IS NULL")
		}
		res := q.Updates(map[string]interface{}{
			"specialist_id":                    nil,
			"specialist_readiness_status":      string(domain.ReadinessNotReady),
			"specialist_readiness_response_at": at,
			"specialist_not_ready_reason":      reason,
			"updated_at":                       at,
		})
		if res.Error != nil {
			return storeErr("release specialist", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.NewConflict("order", orderID, "readiness changed concurrently")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return getOrder(db, orderID)
}

func (r *DefaultReadinessRepository) FindCheckCandidates(ctx context.Context) ([]*domain.Order, error) {
	var rows []models.OrderModel
	err := r.DB.WithContext(ctx).
		Where("status = ?", string(domain.StatusUpcoming)).
		Where("specialist_id IS NOT NULL AND booking_date IS NOT NULL AND booking_time IS NOT NULL").
		Where("readiness_check_sent_at IS NULL").
		Order("booking_date ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, storeErr("find readiness candidates", err)
	}
	return toDomainOrders(rows), nil
}

func (r *DefaultReadinessRepository) MarkCheckSent(ctx context.Context, orderID string, at time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.OrderModel{}).
		Where("id = ? AND status = ? AND readiness_check_sent_at IS NULL", orderID, string(domain.StatusUpcoming)).
		Updates(map[string]interface{}{
			"readiness_check_sent_at":     at,
			"specialist_readiness_status": string(domain.ReadinessPending),
			"readiness_reminder_count":    0,
			"readiness_last_reminder_at":  nil,
			"updated_at":                  at,
		})
	if res.Error != nil {
		return false, storeErr("mark readiness check sent", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// FindReminderCandidates: pending checks whose last prompt (check or reminder) is older than remindBefore.
func (r *DefaultReadinessRepository) FindReminderCandidates(ctx context.Context, maxReminders int, remindBefore time.Time) ([]*domain.Order, error) {
	var rows []models.OrderModel
	err := r.DB.WithContext(ctx).
		Where("status = ? AND specialist_readiness_status = ?", string(domain.StatusUpcoming), string(domain.ReadinessPending)).
		Where("specialist_id IS NOT NULL").
		Where("readiness_reminder_count < ?", maxReminders).
		Where("readiness_check_sent_at IS NOT NULL AND readiness_check_sent_at <= ?", remindBefore).
		Where("(readiness_last_reminder_at IS NULL OR readiness_last_reminder_at <= ?)", remindBefore).
		Order("readiness_check_sent_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, storeErr("find reminder candidates", err)
	}
	return toDomainOrders(rows), nil
}

func (r *DefaultReadinessRepository) RecordReminder(ctx context.Context, rem domain.ReadinessReminder) (bool, error) {
	updates := map[string]interface{}{
		"readiness_reminder_count":   rem.ExpectedCount + 1,
		"readiness_last_reminder_at": rem.At,
		"updated_at":                 rem.At,
	}
	if rem.Exhausted {
		updates["specialist_readiness_status"] = string(domain.ReadinessNoResponse)
		updates["readiness_penalty_percentage"] = rem.PenaltyPercentage
	}
	res := r.DB.WithContext(ctx).Model(&models.OrderModel{}).
		Where("id = ? AND specialist_readiness_status = ? AND readiness_reminder_count = ?",
			rem.OrderID, string(domain.ReadinessPending), rem.ExpectedCount).
		Updates(updates)
	if res.Error != nil {
		return false, storeErr("record readiness reminder", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// FindMovementReminderCandidates: specialists who answered ready (at or before
// remindBefore) but have not reached any tracking stage yet.
func (r *DefaultReadinessRepository) FindMovementReminderCandidates(ctx context.Context, maxReminders int, remindBefore time.Time) ([]*domain.Order, error) {
	var rows []models.OrderModel
	err := r.DB.WithContext(ctx).
		Where("status = ? AND specialist_readiness_status = ?", string(domain.StatusUpcoming), string(domain.ReadinessReady)).
		Where("specialist_id IS NOT NULL AND tracking_stage IS NULL").
		Where("movement_reminder_count < ?", maxReminders).
		Where("specialist_readiness_response_at IS NOT NULL AND specialist_readiness_response_at <= ?", remindBefore).
		Where("(movement_last_reminder_at IS NULL OR movement_last_reminder_at <= ?)", remindBefore).
		Order("specialist_readiness_response_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, storeErr("find movement reminder candidates", err)
	}
	return toDomainOrders(rows), nil
}

func (r *DefaultReadinessRepository) RecordMovementReminder(ctx context.Context, rem domain.ReadinessReminder) (bool, error) {
	updates := map[string]interface{}{
		"movement_reminder_count":   rem.ExpectedCount + 1,
		"movement_last_reminder_at": rem.At,
		"updated_at":                rem.At,
	}
	if rem.Exhausted {
		updates["specialist_readiness_status"] = string(domain.ReadinessNeedsReassignment)
		updates["readiness_penalty_percentage"] = rem.PenaltyPercentage
	}
	res := r.DB.WithContext(ctx).Model(&models.OrderModel{}).
		Where("id = ? AND status = ? AND specialist_readiness_status = ? AND tracking_stage IS NULL AND movement_reminder_count = ?",
			rem.OrderID, string(domain.StatusUpcoming), string(domain.ReadinessReady), rem.ExpectedCount).
		Updates(updates)
	if res.Error != nil {
		return false, storeErr("record movement reminder", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *DefaultReadinessRepository) FindExpiredOrders(ctx context.Context, from, to time.Time) ([]*domain.Order, error) {
	var rows []models.OrderModel
	err := r.DB.WithContext(ctx).
		Where("status IN ?", []string{string(domain.StatusPending), string(domain.StatusQuoted)}).
		Where("expires_at > ? AND expires_at <= ?", from, to).
		Where("expiry_notified_at IS NULL").
		Order("expires_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, storeErr("find expired orders", err)
	}
	return toDomainOrders(rows), nil
}

// MarkExpiryNotified stamps the first announcement only.
func (r *DefaultReadinessRepository) MarkExpiryNotified(ctx context.Context, orderID string, at time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.OrderModel{}).
		Where("id = ? AND expiry_notified_at IS NULL", orderID).
		Updates(map[string]interface{}{"expiry_notified_at": at, "updated_at": at})
	if res.Error != nil {
		return false, storeErr("mark expiry notified", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func readinessConflict(db *gorm.DB, orderID, specialistID string) error {
	order, err := getOrder(db, orderID)
	if err != nil {
		return err
	}
	if specialistID != "" && order.SpecialistID != specialistID {
		return domain.NewConflict("order", orderID, "specialist is no longer assigned")
	}
	return domain.NewConflict("order", orderID, fmt.Sprintf("readiness already resolved (%s)", readinessLabel(order.Readiness.Status)))
}

func readinessLabel(s domain.ReadinessStatus) string {
	if s == domain.ReadinessNone {
		return "not requested"
	}
	return string(s)
}

func toDomainOrders(rows []models.OrderModel) []*domain.Order {
	out := make([]*domain.Order, len(rows))
	for i := range rows {
		out[i] = mappers.ToDomainOrder(&rows[i])
	}
	return out
}
