package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *BookingMetrics
	assert.NotPanics(t, func() {
		m.RecordTransition("accept")
		m.RecordOrderError("accept", "conflict")
		m.RecordReadinessResponse("ready")
		m.RecordReadinessCheckSent()
		m.RecordReadinessReminder(true)
		m.RecordMovementReminder(false)
		m.RecordExpiryNotice()
		m.RecordPaymentConfirmed("wallet", "SAR", 10, 0.01)
		m.RecordWalletCredit(10)
		m.SetAuditorIssues("stuck-in-waiting", "high", 2)
		m.RecordAuditorFix("cancelled-with-stage", "fixed")
		m.RecordNotificationFailure("payment")
	})
}

func TestBookingMetrics(t *testing.T) {
	m := NewBookingMetrics(prometheus.NewRegistry())

	m.RecordPaymentConfirmed("wallet", "SAR", 20, 0.05)
	m.RecordPaymentConfirmed("matching", "SAR", 0, 0.01)
	m.RecordWalletCredit(20)
	m.SetAuditorIssues("stuck-in-waiting", "high", 3)
	m.RecordReadinessReminder(false)
	m.RecordReadinessReminder(true)
	m.RecordMovementReminder(true)
	m.RecordExpiryNotice()
	m.RecordExpiryNotice()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PaymentConfirmationsTotal.WithLabelValues("wallet")))
	assert.Equal(t, 20.0, testutil.ToFloat64(m.PaymentDifferenceTotal.WithLabelValues("wallet", "SAR")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.PaymentDifferenceTotal), "zero differences are not recorded")
	assert.Equal(t, 20.0, testutil.ToFloat64(m.WalletCreditAmountTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.AuditorIssues.WithLabelValues("stuck-in-waiting", "high")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReadinessRemindersSent.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MovementRemindersSent.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ExpiryNoticesSent))
}
