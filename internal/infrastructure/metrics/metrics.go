package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BookingMetrics содержит все метрики сервиса бронирований.
type BookingMetrics struct {
	// Переходы жизненного цикла заказа
	OrderTransitionsTotal *prometheus.CounterVec
	OrderErrorsTotal      *prometheus.CounterVec

	// Готовность специалистов
	ReadinessResponsesTotal *prometheus.CounterVec
	ReadinessChecksSent     prometheus.Counter
	ReadinessRemindersSent  *prometheus.CounterVec
	MovementRemindersSent   *prometheus.CounterVec
	ExpiryNoticesSent       prometheus.Counter

	// Сверка оплат и кошельки
	PaymentConfirmationsTotal *prometheus.CounterVec
	PaymentDifferenceTotal    *prometheus.CounterVec
	WalletCreditsTotal        prometheus.Counter
	WalletCreditAmountTotal   prometheus.Counter
	ReconciliationDuration    prometheus.Histogram

	// Аудитор
	AuditorIssues     *prometheus.GaugeVec
	AuditorFixesTotal *prometheus.CounterVec

	// Уведомления
	NotificationFailuresTotal *prometheus.CounterVec
}

// NewBookingMetrics registers all collectors on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration.
func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	f := promauto.With(reg)
	return &BookingMetrics{
		OrderTransitionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_order_transitions_total",
				Help: "Order lifecycle transitions by kind",
			},
			[]string{"transition"},
		),
		OrderErrorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_order_errors_total",
				Help: "Failed order operations by operation and error kind",
			},
			[]string{"operation", "kind"},
		),

		ReadinessResponsesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_readiness_responses_total",
				Help: "Specialist readiness responses by outcome",
			},
			[]string{"outcome"},
		),
		ReadinessChecksSent: f.NewCounter(
			prometheus.CounterOpts{
				Name: "booking_readiness_checks_sent_total",
				Help: "Readiness checks dispatched to specialists",
			},
		),
		ReadinessRemindersSent: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_readiness_reminders_total",
				Help: "Readiness reminders sent, labelled by whether it was the last one",
			},
			[]string{"final"},
		),
		MovementRemindersSent: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_movement_reminders_total",
				Help: "Reminders to start moving sent to ready specialists, labelled by whether it was the last one",
			},
			[]string{"final"},
		),
		ExpiryNoticesSent: f.NewCounter(
			prometheus.CounterOpts{
				Name: "booking_expiry_notices_total",
				Help: "Expired orders announced to their candidate specialists",
			},
		),

		PaymentConfirmationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_payment_confirmations_total",
				Help: "Committed payment confirmations by difference cause",
			},
			[]string{"cause"},
		),
		PaymentDifferenceTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_payment_difference_amount_total",
				Help: "Sum of positive payment differences by cause and currency",
			},
			[]string{"cause", "currency"},
		),
		WalletCreditsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "booking_wallet_credits_total",
				Help: "Customer wallet credits from payment surpluses",
			},
		),
		WalletCreditAmountTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "booking_wallet_credit_amount_total",
				Help: "Total amount credited to customer wallets",
			},
		),
		ReconciliationDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "booking_reconciliation_commit_seconds",
				Help:    "Duration of the payment reconciliation commit",
				Buckets: prometheus.DefBuckets,
			},
		),

		AuditorIssues: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "booking_auditor_issues",
				Help: "Orders currently matching each consistency rule",
			},
			[]string{"rule", "severity"},
		),
		AuditorFixesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_auditor_fixes_total",
				Help: "Auto-fix attempts by rule and result (fixed, skipped, failed)",
			},
			[]string{"rule", "result"},
		),

		NotificationFailuresTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_notification_failures_total",
				Help: "Notifications that could not be delivered, by purpose",
			},
			[]string{"purpose"},
		),
	}
}

// ============= ХЕЛПЕРЫ (безопасны для nil) =============

func (m *BookingMetrics) RecordTransition(transition string) {
	if m == nil {
		return
	}
	m.OrderTransitionsTotal.WithLabelValues(transition).Inc()
}

func (m *BookingMetrics) RecordOrderError(operation, kind string) {
	if m == nil {
		return
	}
	m.OrderErrorsTotal.WithLabelValues(operation, kind).Inc()
}

func (m *BookingMetrics) RecordReadinessResponse(outcome string) {
	if m == nil {
		return
	}
	m.ReadinessResponsesTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) RecordReadinessCheckSent() {
	if m == nil {
		return
	}
	m.ReadinessChecksSent.Inc()
}

func (m *BookingMetrics) RecordReadinessReminder(final bool) {
	if m == nil {
		return
	}
	label := "false"
	if final {
		label = "true"
	}
	m.ReadinessRemindersSent.WithLabelValues(label).Inc()
}

func (m *BookingMetrics) RecordMovementReminder(final bool) {
	if m == nil {
		return
	}
	label := "false"
	if final {
		label = "true"
	}
	m.MovementRemindersSent.WithLabelValues(label).Inc()
}

func (m *BookingMetrics) RecordExpiryNotice() {
	if m == nil {
		return
	}
	m.ExpiryNoticesSent.Inc()
}

func (m *BookingMetrics) RecordPaymentConfirmed(cause, currency string, difference float64, seconds float64) {
	if m == nil {
		return
	}
	m.PaymentConfirmationsTotal.WithLabelValues(cause).Inc()
	if difference > 0 {
		m.PaymentDifferenceTotal.WithLabelValues(cause, currency).Add(difference)
	}
	m.ReconciliationDuration.Observe(seconds)
}

func (m *BookingMetrics) RecordWalletCredit(amount float64) {
	if m == nil {
		return
	}
	m.WalletCreditsTotal.Inc()
	m.WalletCreditAmountTotal.Add(amount)
}

func (m *BookingMetrics) SetAuditorIssues(rule, severity string, count int) {
	if m == nil {
		return
	}
	m.AuditorIssues.WithLabelValues(rule, severity).Set(float64(count))
}

func (m *BookingMetrics) RecordAuditorFix(rule, result string) {
	if m == nil {
		return
	}
	m.AuditorFixesTotal.WithLabelValues(rule, result).Inc()
}

func (m *BookingMetrics) RecordNotificationFailure(purpose string) {
	if m == nil {
		return
	}
	m.NotificationFailuresTotal.WithLabelValues(purpose).Inc()
}
