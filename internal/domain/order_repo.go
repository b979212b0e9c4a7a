package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StatusUpdate is a conditional write: it only applies while the order is in
// one of FromStatuses (and, when set, one of FromStages).
type StatusUpdate struct {
	OrderID      string
	FromStatuses []OrderStatus
	FromStages   []TrackingStage

	Status           OrderStatus
	Stage            TrackingStage
	WaitingStartedAt *time.Time
	WaitingEndsAt    *time.Time
	// RequireSpecialist rejects the update while no specialist is assigned.
	RequireSpecialist bool
	// CancellationReason is written only for cancellations.
	CancellationReason string
	At                 time.Time
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetOrderByID(ctx context.Context, orderID string) (*Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]*Order, int64, error)
	ApplyStatusUpdate(ctx context.Context, update StatusUpdate) (*Order, error)

	SubmitQuote(ctx context.Context, orderID, specialistID string, price decimal.Decimal, at time.Time) (*OrderSpecialist, error)
	AcceptQuote(ctx context.Context, orderID, specialistID, rejectionReason string, at time.Time) (*Order, error)
	ListCandidates(ctx context.Context, orderID string) ([]*OrderSpecialist, error)
}

type ReadinessRepository interface {
	// MarkViewed stamps the first view only; false means it was already stamped.
	MarkViewed(ctx context.Context, orderID string, at time.Time) (bool, error)
	ConfirmReady(ctx context.Context, orderID, specialistID string, at time.Time) (*Order, error)
	ConfirmNotReady(ctx context.Context, orderID, specialistID, reason string, at time.Time) (*Order, error)

	FindCheckCandidates(ctx context.Context) ([]*Order, error)
	MarkCheckSent(ctx context.Context, orderID string, at time.Time) (bool, error)
	FindReminderCandidates(ctx context.Context, maxReminders int, remindBefore time.Time) ([]*Order, error)
	RecordReminder(ctx context.Context, reminder ReadinessReminder) (bool, error)

	// Ready specialists who have not started moving (tracking stage still NULL).
	FindMovementReminderCandidates(ctx context.Context, maxReminders int, remindBefore time.Time) ([]*Order, error)
	RecordMovementReminder(ctx context.Context, reminder ReadinessReminder) (bool, error)

	// FindExpiredOrders returns pending or quoted orders whose expires_at is in
	// (from, to] and whose expiry has not been announced yet.
	FindExpiredOrders(ctx context.Context, from, to time.Time) ([]*Order, error)
	MarkExpiryNotified(ctx context.Context, orderID string, at time.Time) (bool, error)
}

// ReadinessReminder advances a reminder counter from ExpectedCount by one.
// When Exhausted is set the readiness status is escalated (no_response for
// readiness reminders, needs_reassignment for movement reminders).
type ReadinessReminder struct {
	OrderID           string
	ExpectedCount     int
	At                time.Time
	Exhausted         bool
	PenaltyPercentage int
}

type PaymentRepository interface {
	CommitReconciliation(ctx context.Context, cmd ReconciliationCommand) (*ReconciliationResult, error)
	GetConfirmationByOrderID(ctx context.Context, orderID string) (*PaymentConfirmation, error)
	GetWalletStatement(ctx context.Context, customerID string) (*WalletStatement, error)
}

type ContactRepository interface {
	GetCustomerContact(ctx context.Context, customerID string) (*Contact, error)
	GetSpecialistContact(ctx context.Context, specialistID string) (*Contact, error)
}
