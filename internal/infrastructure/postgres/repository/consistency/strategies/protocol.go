package strategies

import (
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	"gorm.io/gorm"
)

// ============= ИНТЕРФЕЙС ПРАВИЛА СОГЛАСОВАННОСТИ =============

// ConsistencyStrategy - одно правило: предикат над orders и (опционально) исправление.
type ConsistencyStrategy interface {
	Name() string
	Title() string
	GetDescription() string
	Severity() domain.Severity
	// Scope adds the rule predicate to q. The same predicate guards fix writes,
	// so an order that stopped matching is skipped rather than overwritten.
	Scope(q *gorm.DB, now time.Time) *gorm.DB
	// Fix returns the columns to write, or nil when the rule is flag-only.
	Fix() map[string]interface{}
}

type predicateStrategy struct {
	name        string
	title       string
	description string
	severity    domain.Severity
	scope       func(q *gorm.DB, now time.Time) *gorm.DB
	fix         map[string]interface{}
}

func (s *predicateStrategy) Name() string              { return s.name }
func (s *predicateStrategy) Title() string             { return s.title }
func (s *predicateStrategy) GetDescription() string    { return s.description }
func (s *predicateStrategy) Severity() domain.Severity { return s.severity }

func (s *predicateStrategy) Scope(q *gorm.DB, now time.Time) *gorm.DB {
	return s.scope(q, now)
}

func (s *predicateStrategy) Fix() map[string]interface{} {
	if s.fix == nil {
		return nil
	}
	out := make(map[string]interface{}, len(s.fix))
	for k, v := range s.fix {
		out[k] = v
	}
	return out
}

// Default returns the built-in rules in the order they are evaluated and fixed.
func Default() []ConsistencyStrategy {
	return []ConsistencyStrategy{
		CancelledWithStage(),
		WorkingWithWaitingTimes(),
		PaymentWithoutCompletion(),
		CompletedWithoutPaymentStage(),
		PendingWithStage(),
		WaitingMissingTimes(),
		StuckInWaiting(),
		NotReadyStillAssigned(),
	}
}
