package domain

import (
	"context"
	"time"
)

type OrderEventType string

const (
	EventOrderCreated       OrderEventType = "order.created"
	EventQuoteSubmitted     OrderEventType = "order.quote_submitted"
	EventQuoteAccepted      OrderEventType = "order.quote_accepted"
	EventWaitingStarted     OrderEventType = "order.waiting_started"
	EventWorkingStarted     OrderEventType = "order.working_started"
	EventOrderCompleted     OrderEventType = "order.completed"
	EventOrderCancelled     OrderEventType = "order.cancelled"
	EventReadinessRequested OrderEventType = "readiness.requested"
	EventReadinessReminded  OrderEventType = "readiness.reminded"
	EventReadinessConfirmed OrderEventType = "readiness.ready"
	EventReadinessDeclined  OrderEventType = "readiness.not_ready"
	EventReadinessExpired   OrderEventType = "readiness.no_response"
	EventMovementReminded   OrderEventType = "readiness.movement_reminded"
	EventMovementOverdue    OrderEventType = "readiness.needs_reassignment"
	EventQuotingExpired     OrderEventType = "order.expired"
	EventPaymentConfirmed   OrderEventType = "payment.confirmed"
	EventWalletCredited     OrderEventType = "wallet.credited"
	EventConsistencyFixed   OrderEventType = "audit.fixed"
)

// OrderEvent carries identifiers and a summary only; consumers re-read state.
type OrderEvent struct {
	Type          OrderEventType    `json:"type"`
	OrderID       string            `json:"order_id"`
	OrderNumber   string            `json:"order_number,omitempty"`
	Status        string            `json:"status,omitempty"`
	TrackingStage string            `json:"tracking_stage,omitempty"`
	CustomerID    string            `json:"customer_id,omitempty"`
	SpecialistID  string            `json:"specialist_id,omitempty"`
	Amount        string            `json:"amount,omitempty"`
	Currency      string            `json:"currency,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
}

// EventJournal persists events as the order activity log.
type EventJournal interface {
	Record(ctx context.Context, event OrderEvent) error
}

// NotificationSink delivers a message to a destination address (WhatsApp number).
type NotificationSink interface {
	Send(ctx context.Context, to, body string) error
}

// NewOrderEvent fills the event summary from the order's current state.
func NewOrderEvent(t OrderEventType, o *Order, at time.Time) OrderEvent {
	ev := OrderEvent{
		Type:          t,
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		Status:        string(o.Status),
		TrackingStage: string(o.TrackingStage),
		CustomerID:    o.CustomerID,
		SpecialistID:  o.SpecialistID,
		Currency:      o.Currency,
		OccurredAt:    at,
	}
	if !o.TotalAmount.IsZero() {
		ev.Amount = o.TotalAmount.StringFixed(2)
	}
	return ev
}
