package strategies

import (
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	"gorm.io/gorm"
)

// Правила ниже только сообщают о проблеме: безопасного автоисправления нет.

func WaitingMissingTimes() ConsistencyStrategy {
	return &predicateStrategy{
		name:        "waiting-missing-times",
		title:       "Waiting without Proper Times",
		description: "Orders in waiting stage should have both waiting timestamps",
		severity:    domain.SeverityLow,
		scope: func(q *gorm.DB, _ time.Time) *gorm.DB {
			return q.Where("tracking_stage = ? AND (waiting_started_at IS NULL OR waiting_ends_at IS NULL)",
				string(domain.StageWaiting))
		},
	}
}

func StuckInWaiting() ConsistencyStrategy {
	return &predicateStrategy{
		name:        "stuck-in-waiting",
		title:       "Stuck in Waiting",
		description: "Waiting window expired but the order was never advanced to working or cancelled",
		severity:    domain.SeverityHigh,
		scope: func(q *gorm.DB, now time.Time) *gorm.DB {
			return q.Where("tracking_stage = ? AND waiting_ends_at IS NOT NULL AND waiting_ends_at < ?",
				string(domain.StageWaiting), now)
		},
	}
}

// NotReadyStillAssigned catches a not-ready answer that did not release the specialist.
func NotReadyStillAssigned() ConsistencyStrategy {
	return &predicateStrategy{
		name:        "not-ready-still-assigned",
		title:       "Not Ready but Still Assigned",
		description: "Specialist answered not ready but is still assigned to the order",
		severity:    domain.SeverityMedium,
		scope: func(q *gorm.DB, _ time.Time) *gorm.DB {
			return q.Where("specialist_readiness_status = ? AND specialist_id IS NOT NULL",
				string(domain.ReadinessNotReady))
		},
	}
}
