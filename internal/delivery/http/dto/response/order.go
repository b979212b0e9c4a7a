package response

import (
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
)

type ReadinessResponse struct {
	Status               string     `json:"status,omitempty"`
	CheckSentAt          *time.Time `json:"check_sent_at,omitempty"`
	ResponseAt           *time.Time `json:"response_at,omitempty"`
	NotificationViewedAt *time.Time `json:"notification_viewed_at,omitempty"`
	NotReadyReason       string     `json:"not_ready_reason,omitempty"`
	ReminderCount        int        `json:"reminder_count"`
	PenaltyPercentage    int        `json:"penalty_percentage,omitempty"`
	MovementReminders    int        `json:"movement_reminder_count,omitempty"`
}

type PaymentResponse struct {
	Status         string     `json:"status,omitempty"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
	ConfirmationID string     `json:"confirmation_id,omitempty"`
}

type OrderResponse struct {
	ID                 string            `json:"id"`
	OrderNumber        string            `json:"order_number"`
	CustomerID         string            `json:"customer_id"`
	SpecialistID       string            `json:"specialist_id,omitempty"`
	ServiceType        string            `json:"service_type"`
	Notes              string            `json:"notes,omitempty"`
	Status             string            `json:"status"`
	TrackingStage      string            `json:"tracking_stage,omitempty"`
	WaitingStartedAt   *time.Time        `json:"waiting_started_at,omitempty"`
	WaitingEndsAt      *time.Time        `json:"waiting_ends_at,omitempty"`
	BookingDate        string            `json:"booking_date,omitempty"`
	BookingTime        string            `json:"booking_time,omitempty"`
	TotalAmount        string            `json:"total_amount"`
	Currency           string            `json:"currency"`
	Readiness          ReadinessResponse `json:"readiness"`
	Payment            PaymentResponse   `json:"payment"`
	ExpiresAt          *time.Time        `json:"expires_at,omitempty"`
	CancellationReason string            `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

func FromOrder(o *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		CustomerID:       o.CustomerID,
		SpecialistID:     o.SpecialistID,
		ServiceType:      o.ServiceType,
		Notes:            o.Notes,
		Status:           string(o.Status),
		TrackingStage:    string(o.TrackingStage),
		WaitingStartedAt: o.WaitingStartedAt,
		WaitingEndsAt:    o.WaitingEndsAt,
		BookingTime:      o.BookingTimeRaw,
		TotalAmount:      o.TotalAmount.StringFixed(2),
		Currency:         o.Currency,
		Readiness: ReadinessResponse{
			Status:               string(o.Readiness.Status),
			CheckSentAt:          o.Readiness.CheckSentAt,
			ResponseAt:           o.Readiness.ResponseAt,
			NotificationViewedAt: o.Readiness.NotificationViewedAt,
			NotReadyReason:       o.Readiness.NotReadyReason,
			ReminderCount:        o.Readiness.ReminderCount,
			PenaltyPercentage:    o.Readiness.PenaltyPercentage,
			MovementReminders:    o.Readiness.MovementReminderCount,
		},
		Payment: PaymentResponse{
			Status:         o.Payment.Status,
			ConfirmedAt:    o.Payment.ConfirmedAt,
			ConfirmationID: o.Payment.ConfirmationID,
		},
		ExpiresAt:          o.ExpiresAt,
		CancellationReason: o.CancellationReason,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
	if o.BookingDate != nil {
		resp.BookingDate = o.BookingDate.Format("2006-01-02")
	}
	return resp
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

type CandidateResponse struct {
	ID              string     `json:"id"`
	SpecialistID    string     `json:"specialist_id"`
	IsAccepted      *bool      `json:"is_accepted"`
	QuotedPrice     string     `json:"quoted_price"`
	QuotedAt        *time.Time `json:"quoted_at,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
}

func FromCandidate(c *domain.OrderSpecialist) CandidateResponse {
	return CandidateResponse{
		ID:              c.ID,
		SpecialistID:    c.SpecialistID,
		IsAccepted:      c.IsAccepted,
		QuotedPrice:     c.QuotedPrice.StringFixed(2),
		QuotedAt:        c.QuotedAt,
		RejectedAt:      c.RejectedAt,
		RejectionReason: c.RejectionReason,
	}
}

type DeadlineResponse struct {
	At               *time.Time `json:"at,omitempty"`
	RemainingSeconds int64      `json:"remaining_seconds"`
	Urgency          string     `json:"urgency"`
}

func FromDeadline(d *domain.Deadline) DeadlineResponse {
	resp := DeadlineResponse{Urgency: string(d.Urgency)}
	if d.Urgency != domain.UrgencyUnscheduled {
		at := d.At
		resp.At = &at
		resp.RemainingSeconds = int64(d.Remaining.Seconds())
	}
	return resp
}

type ActivityResponse struct {
	Event     string    `json:"event"`
	Status    string    `json:"status,omitempty"`
	Stage     string    `json:"stage,omitempty"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
