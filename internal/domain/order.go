package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusQuoted     OrderStatus = "quoted"
	StatusAccepted   OrderStatus = "accepted"
	StatusUpcoming   OrderStatus = "upcoming"
	StatusInProgress OrderStatus = "in_progress"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// IsTerminal reports whether no further lifecycle transition is allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusQuoted, StatusAccepted, StatusUpcoming,
		StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// TrackingStage - вторичная ось состояния активного заказа. StageNone = NULL.
type TrackingStage string

const (
	StageNone            TrackingStage = ""
	StageWaiting         TrackingStage = "waiting"
	StageWorking         TrackingStage = "working"
	StagePaymentReceived TrackingStage = "payment_received"
)

// ReadinessStatus of the assigned specialist. ReadinessNone = NULL.
type ReadinessStatus string

const (
	ReadinessNone       ReadinessStatus = ""
	ReadinessPending    ReadinessStatus = "pending"
	ReadinessReady      ReadinessStatus = "ready"
	ReadinessNotReady   ReadinessStatus = "not_ready"
	ReadinessNoResponse ReadinessStatus = "no_response"
	// ReadinessNeedsReassignment: confirmed ready but never started moving.
	ReadinessNeedsReassignment ReadinessStatus = "needs_reassignment"
)

const PaymentStatusReceived = "received"

// DefaultWaitingWindow is how long a specialist waits on site before starting work.
const DefaultWaitingWindow = 5 * time.Minute

type Order struct {
	ID          string
	OrderNumber string
	CustomerID  string
	// SpecialistID is empty when no specialist is engaged.
	SpecialistID string
	ServiceType  string
	Notes        string

	Status           OrderStatus
	TrackingStage    TrackingStage
	WaitingStartedAt *time.Time
	WaitingEndsAt    *time.Time

	BookingDate    *time.Time
	BookingTimeRaw string
	BookingTime    BookingTime

	TotalAmount decimal.Decimal
	Currency    string

	Readiness ReadinessInfo
	Payment   PaymentInfo

	// ExpiresAt closes the quoting window of a pending order; nil never expires.
	ExpiresAt        *time.Time
	ExpiryNotifiedAt *time.Time

	CancellationReason string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type ReadinessInfo struct {
	Status               ReadinessStatus
	CheckSentAt          *time.Time
	ResponseAt           *time.Time
	NotificationViewedAt *time.Time
	NotReadyReason       string
	ReminderCount        int
	LastReminderAt       *time.Time
	PenaltyPercentage    int

	MovementReminderCount  int
	MovementLastReminderAt *time.Time
}

type PaymentInfo struct {
	Status         string
	ConfirmedAt    *time.Time
	ConfirmationID string
}

// IsConfirmed reports whether a payment confirmation is already linked.
func (p PaymentInfo) IsConfirmed() bool {
	return p.ConfirmationID != ""
}

// OrderSpecialist - кандидатура специалиста на заказ.
type OrderSpecialist struct {
	ID           string
	OrderID      string
	SpecialistID string
	// IsAccepted is nil while the candidacy is undecided.
	IsAccepted      *bool
	QuotedPrice     decimal.Decimal
	QuotedAt        *time.Time
	RejectedAt      *time.Time
	RejectionReason string
	CreatedAt       time.Time
}

// Contact is the notification address of a customer or specialist.
type Contact struct {
	ID             string
	Name           string
	WhatsappNumber string
}

type OrderFilter struct {
	Status       OrderStatus
	CustomerID   string
	SpecialistID string
	Page         int
	Limit        int
}
