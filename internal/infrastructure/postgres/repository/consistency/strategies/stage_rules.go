package strategies

import (
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	"gorm.io/gorm"
)

func CancelledWithStage() ConsistencyStrategy {
	return &predicateStrategy{
		name:        "cancelled-with-stage",
		title:       "Cancelled with Tracking Stage",
		description: "Cancelled orders should not have a tracking stage",
		severity:    domain.SeverityHigh,
		scope: func(q *gorm.DB, _ time.Time) *gorm.DB {
			return q.Where("status = ? AND tracking_stage IS NOT NULL", string(domain.StatusCancelled))
		},
		fix: map[string]interface{}{"tracking_stage": nil},
	}
}

func WorkingWithWaitingTimes() ConsistencyStrategy {
	return &predicateStrategy{
		name:        "working-with-waiting-times",
		title:       "Working with Waiting Times",
		description: "Orders in working stage should not have waiting timestamps",
		severity:    domain.SeverityHigh,
		scope: func(q *gorm.DB, _ time.Time) *gorm.DB {
			return q.Where("tracking_stage = ? AND (waiting_started_at IS NOT NULL OR waiting_ends_at IS NOT NULL)",
				string(domain.StageWorking))
		},
		fix: map[string]interface{}{"waiting_started_at": nil, "waiting_ends_at": nil},
	}
}

func PaymentWithoutCompletion() ConsistencyStrategy {
	return &predicateStrategy{
		name:        "payment-without-completion",
		title:       "Payment Received but Not Completed",
		description: "Orders with payment received should be marked as completed",
		severity:    domain.SeverityMedium,
		scope: func(q *gorm.DB, _ time.Time) *gorm.DB {
			return q.Where("tracking_stage = ? AND status <> ?",
				string(domain.StagePaymentReceived), string(domain.StatusCompleted))
		},
		fix: map[string]interface{}{"status": string(domain.StatusCompleted)},
	}
}

// CompletedWithoutPaymentStage - NULL-этап тоже считается нарушением.
func CompletedWithoutPaymentStage() ConsistencyStrategy {
	return &predicateStrategy{
		name:        "completed-without-payment-stage",
		title:       "Completed without Payment Received",
		description: "Completed orders should have payment_received tracking stage",
		severity:    domain.SeverityMedium,
		scope: func(q *gorm.DB, _ time.Time) *gorm.DB {
			return q.Where("status = ? AND (tracking_stage IS NULL OR tracking_stage <> ?)",
				string(domain.StatusCompleted), string(domain.StagePaymentReceived))
		},
		fix: map[string]interface{}{"tracking_stage": string(domain.StagePaymentReceived)},
	}
}

func PendingWithStage() ConsistencyStrategy {
	return &predicateStrategy{
		name:        "pending-with-stage",
		title:       "Pending with Tracking Stage",
		description: "Pending orders should not have a tracking stage",
		severity:    domain.SeverityMedium,
		scope: func(q *gorm.DB, _ time.Time) *gorm.DB {
			return q.Where("status = ? AND tracking_stage IS NOT NULL", string(domain.StatusPending))
		},
		fix: map[string]interface{}{"tracking_stage": nil},
	}
}
