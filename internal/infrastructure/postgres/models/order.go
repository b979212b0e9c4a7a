package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderModel struct {
	ID           string  `gorm:"primaryKey;type:uuid"`
	OrderNumber  string  `gorm:"not null;uniqueIndex"`
	CustomerID   string  `gorm:"type:uuid;not null;index"`
	SpecialistID *string `gorm:"type:uuid;index"`
	ServiceType  string
	Notes        string

	Status           string  `gorm:"not null;index:idx_orders_status_stage"`
	TrackingStage    *string `gorm:"index:idx_orders_status_stage"`
	WaitingStartedAt *time.Time
	WaitingEndsAt    *time.Time

	BookingDate *time.Time `gorm:"type:date"`
	BookingTime *string

	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Currency    string

	// Готовность специалиста
	SpecialistReadinessStatus     *string `gorm:"index"`
	ReadinessCheckSentAt          *time.Time
	SpecialistReadinessResponseAt *time.Time
	ReadinessNotificationViewedAt *time.Time
	SpecialistNotReadyReason      *string
	ReadinessReminderCount        int `gorm:"not null;default:0"`
	ReadinessLastReminderAt       *time.Time
	ReadinessPenaltyPercentage    int `gorm:"not null;default:0"`
	MovementReminderCount         int `gorm:"not null;default:0"`
	MovementLastReminderAt        *time.Time

	// Оплата
	PaymentStatus         *string
	PaymentConfirmedAt    *time.Time
	PaymentConfirmationID *string `gorm:"type:uuid"`

	ExpiresAt        *time.Time `gorm:"index"`
	ExpiryNotifiedAt *time.Time

	CancellationReason *string
	CreatedAt          time.Time `gorm:"index"`
	UpdatedAt          time.Time
}

func (OrderModel) TableName() string { return "orders" }

type OrderSpecialistModel struct {
	ID              string `gorm:"primaryKey;type:uuid"`
	OrderID         string `gorm:"type:uuid;not null;uniqueIndex:idx_order_specialist"`
	SpecialistID    string `gorm:"type:uuid;not null;uniqueIndex:idx_order_specialist"`
	IsAccepted      *bool
	QuotedPrice     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	QuotedAt        *time.Time
	RejectedAt      *time.Time
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (OrderSpecialistModel) TableName() string { return "order_specialists" }
