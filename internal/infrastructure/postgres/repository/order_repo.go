package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxPageSize = 100

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	orderModel := mappers.ToGORMOrder(order)
	if err := r.DB.WithContext(ctx).Create(orderModel).Error; err != nil {
		return storeErr("create order", err)
	}
	return nil
}

func (r *DefaultOrderRepository) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	return getOrder(r.DB.WithContext(ctx), orderID)
}

func getOrder(db *gorm.DB, orderID string) (*domain.Order, error) {
	var order models.OrderModel
	if err := db.First(&order, "id = ?", orderID).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, storeErr("get order", err)
	}
	return mappers.ToDomainOrder(&order), nil
}

func (r *DefaultOrderRepository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, int64, error) {
	var (
		orderModels []models.OrderModel
		total       int64
	)

	baseQuery := r.DB.WithContext(ctx).Model(&models.OrderModel{})
	if filter.Status != "" {
		baseQuery = baseQuery.Where("status = ?", string(filter.Status))
	}
	if filter.CustomerID != "" {
		baseQuery = baseQuery.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.SpecialistID != "" {
		baseQuery = baseQuery.Where("specialist_id = ?", filter.SpecialistID)
	}

	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, storeErr("count orders", err)
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageSize {
		limit = 20
	}

	err := baseQuery.
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orderModels).Error
	if err != nil {
		return nil, 0, storeErr("list orders", err)
	}

	orders := make([]*domain.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = mappers.ToDomainOrder(&orderModels[i])
	}
	return orders, total, nil
}

// ApplyStatusUpdate - условное обновление: статус (и этап) проверяются в WHERE,
// поэтому параллельный переход приводит к ConflictError, а не к перезаписи.
func (r *DefaultOrderRepository) ApplyStatusUpdate(ctx context.Context, u domain.StatusUpdate) (*domain.Order, error) {
	db := r.DB.WithContext(ctx)

	updates := map[string]interface{}{
		"status":             string(u.Status),
		"tracking_stage":     nullable(string(u.Stage)),
		"waiting_started_at": u.WaitingStartedAt,
		"waiting_ends_at":    u.WaitingEndsAt,
		"updated_at":         u.At,
	}
	if u.CancellationReason != "" {
		updates["cancellation_reason"] = u.CancellationReason
	}

	q := db.Model(&models.OrderModel{}).
		Where("id = ?", u.OrderID).
		Where("status IN ?", statusStrings(u.FromStatuses))
	if len(u.FromStages) > 0 {
		q = whereStageIn(q, u.FromStages)
	}
	if u.RequireSpecialist {
		q = q.Where("specialist_id IS NOT NULL")
	}

	res := q.Updates(updates)
	if res.Error != nil {
		return nil, storeErr("update order status", res.Error)
	}
	if res.RowsAffected == 0 {
		if u.RequireSpecialist {
			if current, err := getOrder(db, u.OrderID); err == nil && current.SpecialistID == "" {
				return nil, domain.ErrNoSpecialistAssigned
			}
		}
		return nil, orderMissOrConflict(db, u.OrderID, fmt.Sprintf("cannot move to %s/%s from current state", u.Status, stageLabel(u.Stage)))
	}
	return getOrder(db, u.OrderID)
}

func (r *DefaultOrderRepository) SubmitQuote(ctx context.Context, orderID, specialistID string, price decimal.Decimal, at time.Time) (*domain.OrderSpecialist, error) {
	var candidacy models.OrderSpecialistModel

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.OrderModel{}).
			Where("id = ? AND status IN ?", orderID, []string{string(domain.StatusPending), string(domain.StatusQuoted)}).
			Where("(expires_at IS NULL OR expires_at > ?)", at).
			Updates(map[string]interface{}{"status": string(domain.StatusQuoted), "updated_at": at})
		if res.Error != nil {
			return storeErr("mark order quoted", res.Error)
		}
		if res.RowsAffected == 0 {
			return orderMissOrConflict(tx, orderID, "order no longer accepts quotes")
		}

		err := tx.Where("order_id = ? AND specialist_id = ?", orderID, specialistID).First(&candidacy).Error
		switch {
		case isNotFound(err):
			candidacy = models.OrderSpecialistModel{
				ID:           uuid.NewString(),
				OrderID:      orderID,
				SpecialistID: specialistID,
				QuotedPrice:  price,
				QuotedAt:     &at,
				CreatedAt:    at,
				UpdatedAt:    at,
			}
			if err := tx.Create(&candidacy).Error; err != nil {
				return storeErr("create candidacy", err)
			}
			return nil
		case err != nil:
			return storeErr("get candidacy", err)
		}

		if candidacy.RejectedAt != nil || (candidacy.IsAccepted != nil && !*candidacy.IsAccepted) {
			return domain.NewConflict("order_specialist", candidacy.ID, "candidacy was rejected")
		}
		candidacy.QuotedPrice = price
		candidacy.QuotedAt = &at
		candidacy.UpdatedAt = at
		res = tx.Model(&models.OrderSpecialistModel{}).
			Where("id = ?", candidacy.ID).
			Updates(map[string]interface{}{"quoted_price": price, "quoted_at": at, "updated_at": at})
		return storeErr("update quote", res.Error)
	})
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainOrderSpecialist(&candidacy), nil
}

// AcceptQuote назначает специалиста и отклоняет остальных кандидатов одной транзакцией.
func (r *DefaultOrderRepository) AcceptQuote(ctx context.Context, orderID, specialistID, rejectionReason string, at time.Time) (*domain.Order, error) {
	db := r.DB.WithContext(ctx)

	err := db.Transaction(func(tx *gorm.DB) error {
		var candidacy models.OrderSpecialistModel
		err := tx.Where("order_id = ? AND specialist_id = ?", orderID, specialistID).First(&candidacy).Error
		if isNotFound(err) {
			return domain.ErrSpecialistNotFound
		}
		if err != nil {
			return storeErr("get candidacy", err)
		}
		if candidacy.IsAccepted != nil || candidacy.QuotedAt == nil {
			return domain.NewConflict("order_specialist", candidacy.ID, "candidacy is not an open quote")
		}

		res := tx.Model(&models.OrderModel{}).
			Where("id = ? AND status = ?", orderID, string(domain.StatusQuoted)).
			Updates(map[string]interface{}{
				"status":                           string(domain.StatusUpcoming),
				"specialist_id":                    specialistID,
				"total_amount":                     candidacy.QuotedPrice,
				"specialist_readiness_status":      nil,
				"readiness_check_sent_at":          nil,
				"specialist_readiness_response_at": nil,
				"readiness_notification_viewed_at": nil,
				"specialist_not_ready_reason":      nil,
				"readiness_reminder_count":         0,
				"readiness_last_reminder_at":       nil,
				"updated_at":                       at,
			})
		if res.Error != nil {
			return storeErr("assign specialist", res.Error)
		}
		if res.RowsAffected == 0 {
			return orderMissOrConflict(tx, orderID, "order is not awaiting a quote decision")
		}

		if err := tx.Model(&models.OrderSpecialistModel{}).
			Where("id = ?", candidacy.ID).
			Updates(map[string]interface{}{"is_accepted": true, "updated_at": at}).Error; err != nil {
			return storeErr("accept candidacy", err)
		}

		err = tx.Model(&models.OrderSpecialistModel{}).
			Where("order_id = ? AND id <> ? AND is_accepted IS NULL", orderID, candidacy.ID).
			Updates(map[string]interface{}{
				"is_accepted":      false,
				"rejected_at":      at,
				"rejection_reason": rejectionReason,
				"updated_at":       at,
			}).Error
		return storeErr("reject other candidacies", err)
	})
	if err != nil {
		return nil, err
	}
	return getOrder(db, orderID)
}

func (r *DefaultOrderRepository) ListCandidates(ctx context.Context, orderID string) ([]*domain.OrderSpecialist, error) {
	var rows []models.OrderSpecialistModel
	if err := r.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, storeErr("list candidacies", err)
	}
	out := make([]*domain.OrderSpecialist, len(rows))
	for i := range rows {
		out[i] = mappers.ToDomainOrderSpecialist(&rows[i])
	}
	return out, nil
}

func statusStrings(statuses []domain.OrderStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// whereStageIn treats StageNone as IS NULL.
func whereStageIn(q *gorm.DB, stages []domain.TrackingStage) *gorm.DB {
	var (
		values    []string
		allowNull bool
	)
	for _, s := range stages {
		if s == domain.StageNone {
			allowNull = true
			continue
		}
		values = append(values, string(s))
	}
	switch {
	case allowNull && len(values) > 0:
		return q.Where("(tracking_stage IN ? OR tracking_stage IS NULL)", values)
	case allowNull:
		return q.Where("tracking_stage IS NULL")
	default:
		return q.Where("tracking_stage IN ?", values)
	}
}

func stageLabel(s domain.TrackingStage) string {
	if s == domain.StageNone {
		return "none"
	}
	return string(s)
}
