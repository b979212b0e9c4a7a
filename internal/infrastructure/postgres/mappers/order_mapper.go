package mappers

import (
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/models"
)

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	order := &domain.Order{
		ID:               model.ID,
		OrderNumber:      model.OrderNumber,
		CustomerID:       model.CustomerID,
		SpecialistID:     deref(model.SpecialistID),
		ServiceType:      model.ServiceType,
		Notes:            model.Notes,
		Status:           domain.OrderStatus(model.Status),
		TrackingStage:    domain.TrackingStage(deref(model.TrackingStage)),
		WaitingStartedAt: utcPtr(model.WaitingStartedAt),
		WaitingEndsAt:    utcPtr(model.WaitingEndsAt),
		BookingDate:      model.BookingDate,
		BookingTimeRaw:   deref(model.BookingTime),
		TotalAmount:      model.TotalAmount,
		Currency:         model.Currency,
		Readiness: domain.ReadinessInfo{
			Status:               domain.ReadinessStatus(deref(model.SpecialistReadinessStatus)),
			CheckSentAt:          utcPtr(model.ReadinessCheckSentAt),
			ResponseAt:           utcPtr(model.SpecialistReadinessResponseAt),
			NotificationViewedAt: utcPtr(model.ReadinessNotificationViewedAt),
			NotReadyReason:       deref(model.SpecialistNotReadyReason),
			ReminderCount:        model.ReadinessReminderCount,
			LastReminderAt:       utcPtr(model.ReadinessLastReminderAt),
			PenaltyPercentage:    model.ReadinessPenaltyPercentage,

			MovementReminderCount:  model.MovementReminderCount,
			MovementLastReminderAt: utcPtr(model.MovementLastReminderAt),
		},
		Payment: domain.PaymentInfo{
			Status:         deref(model.PaymentStatus),
			ConfirmedAt:    utcPtr(model.PaymentConfirmedAt),
			ConfirmationID: deref(model.PaymentConfirmationID),
		},
		ExpiresAt:          utcPtr(model.ExpiresAt),
		ExpiryNotifiedAt:   utcPtr(model.ExpiryNotifiedAt),
		CancellationReason: deref(model.CancellationReason),
		CreatedAt:          model.CreatedAt.UTC(),
		UpdatedAt:          model.UpdatedAt.UTC(),
	}
	if model.BookingDate != nil {
		d := domain.NormalizeBookingDate(*model.BookingDate)
		order.BookingDate = &d
	}
	// Строка уже проверена при создании; битые исторические значения считаем неразмеченными.
	if bt, err := domain.ParseBookingTime(order.BookingTimeRaw); err == nil {
		order.BookingTime = bt
	}
	return order
}

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	return &models.OrderModel{
		ID:                            order.ID,
		OrderNumber:                   order.OrderNumber,
		CustomerID:                    order.CustomerID,
		SpecialistID:                  ptr(order.SpecialistID),
		ServiceType:                   order.ServiceType,
		Notes:                         order.Notes,
		Status:                        string(order.Status),
		TrackingStage:                 ptr(string(order.TrackingStage)),
		WaitingStartedAt:              order.WaitingStartedAt,
		WaitingEndsAt:                 order.WaitingEndsAt,
		BookingDate:                   order.BookingDate,
		BookingTime:                   ptr(order.BookingTimeRaw),
		TotalAmount:                   order.TotalAmount,
		Currency:                      order.Currency,
		SpecialistReadinessStatus:     ptr(string(order.Readiness.Status)),
		ReadinessCheckSentAt:          order.Readiness.CheckSentAt,
		SpecialistReadinessResponseAt: order.Readiness.ResponseAt,
		ReadinessNotificationViewedAt: order.Readiness.NotificationViewedAt,
		SpecialistNotReadyReason:      ptr(order.Readiness.NotReadyReason),
		ReadinessReminderCount:        order.Readiness.ReminderCount,
		ReadinessLastReminderAt:       order.Readiness.LastReminderAt,
		ReadinessPenaltyPercentage:    order.Readiness.PenaltyPercentage,
		MovementReminderCount:         order.Readiness.MovementReminderCount,
		MovementLastReminderAt:        order.Readiness.MovementLastReminderAt,
		PaymentStatus:                 ptr(order.Payment.Status),
		PaymentConfirmedAt:            order.Payment.ConfirmedAt,
		PaymentConfirmationID:         ptr(order.Payment.ConfirmationID),
		ExpiresAt:                     order.ExpiresAt,
		ExpiryNotifiedAt:              order.ExpiryNotifiedAt,
		CancellationReason:            ptr(order.CancellationReason),
		CreatedAt:                     order.CreatedAt,
		UpdatedAt:                     order.UpdatedAt,
	}
}

func ToDomainOrderSpecialist(model *models.OrderSpecialistModel) *domain.OrderSpecialist {
	return &domain.OrderSpecialist{
		ID:              model.ID,
		OrderID:         model.OrderID,
		SpecialistID:    model.SpecialistID,
		IsAccepted:      model.IsAccepted,
		QuotedPrice:     model.QuotedPrice,
		QuotedAt:        utcPtr(model.QuotedAt),
		RejectedAt:      utcPtr(model.RejectedAt),
		RejectionReason: deref(model.RejectionReason),
		CreatedAt:       model.CreatedAt.UTC(),
	}
}

func ToOrderSnapshot(model *models.OrderModel) domain.OrderSnapshot {
	return domain.OrderSnapshot{
		ID:               model.ID,
		OrderNumber:      model.OrderNumber,
		Status:           domain.OrderStatus(model.Status),
		TrackingStage:    domain.TrackingStage(deref(model.TrackingStage)),
		WaitingStartedAt: utcPtr(model.WaitingStartedAt),
		WaitingEndsAt:    utcPtr(model.WaitingEndsAt),
		SpecialistID:     deref(model.SpecialistID),
		ReadinessStatus:  domain.ReadinessStatus(deref(model.SpecialistReadinessStatus)),
		UpdatedAt:        model.UpdatedAt.UTC(),
	}
}

func ToDomainContact(id, name string, whatsapp *string) *domain.Contact {
	return &domain.Contact{ID: id, Name: name, WhatsappNumber: deref(whatsapp)}
}

// ptr maps the zero value to NULL.
func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
