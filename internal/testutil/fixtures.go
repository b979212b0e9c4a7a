package testutil

import (
	"testing"
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// BaseTime is the reference "now" of most tests.
var BaseTime = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

// FixedClock returns a clock frozen at t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func Ptr[T any](v T) *T { return &v }

func CreateCustomer(t *testing.T, db *gorm.DB, whatsapp string) *models.CustomerModel {
	t.Helper()
	c := &models.CustomerModel{ID: uuid.NewString(), Name: "Customer", CreatedAt: BaseTime}
	if whatsapp != "" {
		c.WhatsappNumber = &whatsapp
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func CreateSpecialist(t *testing.T, db *gorm.DB, whatsapp string) *models.SpecialistModel {
	t.Helper()
	s := &models.SpecialistModel{ID: uuid.NewString(), Name: "Specialist", CreatedAt: BaseTime}
	if whatsapp != "" {
		s.WhatsappNumber = &whatsapp
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

// OrderOption tweaks a fixture order before insert.
type OrderOption func(o *models.OrderModel)

func WithStatus(s domain.OrderStatus) OrderOption {
	return func(o *models.OrderModel) { o.Status = string(s) }
}

func WithStage(s domain.TrackingStage) OrderOption {
	return func(o *models.OrderModel) {
		if s == domain.StageNone {
			o.TrackingStage = nil
			return
		}
		o.TrackingStage = Ptr(string(s))
	}
}

func WithSpecialist(id string) OrderOption {
	return func(o *models.OrderModel) { o.SpecialistID = &id }
}

func WithWaiting(started, ends *time.Time) OrderOption {
	return func(o *models.OrderModel) {
		o.WaitingStartedAt = started
		o.WaitingEndsAt = ends
	}
}

func WithTotal(amount string) OrderOption {
	return func(o *models.OrderModel) { o.TotalAmount = decimal.RequireFromString(amount) }
}

func WithReadiness(s domain.ReadinessStatus, checkSentAt *time.Time) OrderOption {
	return func(o *models.OrderModel) {
		o.SpecialistReadinessStatus = Ptr(string(s))
		o.ReadinessCheckSentAt = checkSentAt
	}
}

// WithReadyAt marks the specialist as having confirmed readiness at.
func WithReadyAt(at time.Time) OrderOption {
	return func(o *models.OrderModel) {
		o.SpecialistReadinessStatus = Ptr(string(domain.ReadinessReady))
		o.ReadinessCheckSentAt = Ptr(at.Add(-time.Minute))
		o.SpecialistReadinessResponseAt = &at
	}
}

func WithExpiresAt(at time.Time) OrderOption {
	return func(o *models.OrderModel) { o.ExpiresAt = &at }
}

func WithBooking(date time.Time, bookingTime string) OrderOption {
	return func(o *models.OrderModel) {
		d := domain.NormalizeBookingDate(date)
		o.BookingDate = &d
		o.BookingTime = &bookingTime
	}
}

func WithCreatedAt(at time.Time) OrderOption {
	return func(o *models.OrderModel) {
		o.CreatedAt = at
		o.UpdatedAt = at
	}
}

// CreateOrder inserts a pending order for customerID.
func CreateOrder(t *testing.T, db *gorm.DB, customerID string, opts ...OrderOption) *models.OrderModel {
	t.Helper()
	id := uuid.NewString()
	o := &models.OrderModel{
		ID:          id,
		OrderNumber: "BK" + id[len(id)-8:],
		CustomerID:  customerID,
		ServiceType: "manicure",
		Status:      string(domain.StatusPending),
		TotalAmount: decimal.Zero,
		Currency:    "SAR",
		CreatedAt:   BaseTime,
		UpdatedAt:   BaseTime,
	}
	for _, opt := range opts {
		opt(o)
	}
	require.NoError(t, db.Create(o).Error)
	return o
}

// CreateCandidacy inserts an order_specialists row.
func CreateCandidacy(t *testing.T, db *gorm.DB, orderID, specialistID string, price string, accepted *bool) *models.OrderSpecialistModel {
	t.Helper()
	c := &models.OrderSpecialistModel{
		ID:           uuid.NewString(),
		OrderID:      orderID,
		SpecialistID: specialistID,
		IsAccepted:   accepted,
		QuotedPrice:  decimal.RequireFromString(price),
		QuotedAt:     Ptr(BaseTime),
		CreatedAt:    BaseTime,
		UpdatedAt:    BaseTime,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

// ReloadOrder reads the order row back from the database.
func ReloadOrder(t *testing.T, db *gorm.DB, id string) *models.OrderModel {
	t.Helper()
	var o models.OrderModel
	require.NoError(t, db.First(&o, "id = ?", id).Error)
	return &o
}
