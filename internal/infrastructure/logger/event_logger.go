package logger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	"gorm.io/gorm"
)

// OrderEventLog - журнал действий по заказу (activity log).
type OrderEventLog struct {
	ID        uint   `gorm:"primaryKey"`
	OrderID   string `gorm:"type:uuid;not null;index"`
	Event     string `gorm:"not null"`
	Status    string
	Stage     string
	Details   string    `gorm:"type:text"`
	Timestamp time.Time `gorm:"not null;index"`
}

func (OrderEventLog) TableName() string { return "order_event_logs" }

type PGOrderJournal struct {
	db *gorm.DB
}

func NewPGOrderJournal(db *gorm.DB) *PGOrderJournal {
	return &PGOrderJournal{db: db}
}

func (l *PGOrderJournal) Record(ctx context.Context, event domain.OrderEvent) error {
	row := OrderEventLog{
		OrderID:   event.OrderID,
		Event:     string(event.Type),
		Status:    event.Status,
		Stage:     event.TrackingStage,
		Timestamp: event.OccurredAt,
	}
	if len(event.Details) > 0 {
		raw, err := json.Marshal(event.Details)
		if err != nil {
			return err
		}
		row.Details = string(raw)
	}
	return l.db.WithContext(ctx).Create(&row).Error
}

// History returns the journal of one order, oldest first.
func (l *PGOrderJournal) History(ctx context.Context, orderID string) ([]OrderEventLog, error) {
	var rows []OrderEventLog
	err := l.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("timestamp ASC, id ASC").
		Find(&rows).Error
	return rows, err
}
