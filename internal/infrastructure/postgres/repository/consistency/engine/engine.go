package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/models"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/repository/consistency/strategies"
	"gorm.io/gorm"
)

// ============= ДВИЖОК ПРОВЕРКИ СОГЛАСОВАННОСТИ ЗАКАЗОВ =============

type ConsistencyEngine struct {
	db         *gorm.DB
	strategies []strategies.ConsistencyStrategy
	byName     map[string]strategies.ConsistencyStrategy
	logger     *slog.Logger
}

func NewConsistencyEngine(db *gorm.DB, logger *slog.Logger) *ConsistencyEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsistencyEngine{
		db:     db,
		byName: make(map[string]strategies.ConsistencyStrategy),
		logger: logger,
	}
}

// NewDefaultEngine registers the built-in rules.
func NewDefaultEngine(db *gorm.DB, logger *slog.Logger) *ConsistencyEngine {
	e := NewConsistencyEngine(db, logger)
	for _, s := range strategies.Default() {
		e.RegisterStrategy(s)
	}
	return e
}

// RegisterStrategy appends a rule; registration order is evaluation and fix order.
func (e *ConsistencyEngine) RegisterStrategy(strategy strategies.ConsistencyStrategy) {
	if _, exists := e.byName[strategy.Name()]; exists {
		e.logger.Warn("Consistency strategy already registered", "name", strategy.Name())
		return
	}
	e.strategies = append(e.strategies, strategy)
	e.byName[strategy.Name()] = strategy
	e.logger.Debug("Registered consistency strategy", "name", strategy.Name())
}

func (e *ConsistencyEngine) Strategies() []strategies.ConsistencyStrategy {
	out := make([]strategies.ConsistencyStrategy, len(e.strategies))
	copy(out, e.strategies)
	return out
}

// Diagnose runs every rule read-only. An order matching several rules is
// reported once per rule.
func (e *ConsistencyEngine) Diagnose(ctx context.Context, now time.Time) (*domain.DiagnosticsReport, error) {
	report := &domain.DiagnosticsReport{
		Rules:     make([]domain.RuleReport, 0, len(e.strategies)),
		CheckedAt: now,
	}

	for _, s := range e.strategies {
		var rows []models.OrderModel
		q := s.Scope(e.db.WithContext(ctx).Model(&models.OrderModel{}), now)
		if err := q.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
			return nil, &domain.StoreError{Op: "diagnose " + s.Name(), Err: err}
		}

		rr := domain.RuleReport{
			Rule:        s.Name(),
			Title:       s.Title(),
			Description: s.GetDescription(),
			Severity:    s.Severity(),
			AutoFix:     s.Fix() != nil,
			Orders:      make([]domain.OrderSnapshot, len(rows)),
		}
		for i := range rows {
			rr.Orders[i] = mappers.ToOrderSnapshot(&rows[i])
		}
		report.Rules = append(report.Rules, rr)
		report.Total += len(rows)
	}

	return report, nil
}

// Fix applies the corrective write of each auto-fixable rule to every order
// matching it. With ruleNames only those rules run. Each row is updated under
// its rule predicate; a row that no longer matches is counted as skipped.
func (e *ConsistencyEngine) Fix(ctx context.Context, now time.Time, ruleNames ...string) (*domain.FixSummary, error) {
	selected, err := e.selectFixable(ruleNames)
	if err != nil {
		return nil, err
	}

	summary := &domain.FixSummary{}
	for _, s := range selected {
		var ids []string
		q := s.Scope(e.db.WithContext(ctx).Model(&models.OrderModel{}), now)
		if err := q.Order("created_at ASC, id ASC").Pluck("id", &ids).Error; err != nil {
			return summary, &domain.StoreError{Op: "collect " + s.Name(), Err: err}
		}

		for _, id := range ids {
			summary.Attempted++

			updates := s.Fix()
			updates["updated_at"] = now
			res := s.Scope(e.db.WithContext(ctx).Model(&models.OrderModel{}).Where("id = ?", id), now).
				Updates(updates)

			switch {
			case res.Error != nil:
				e.logger.Error("Failed to fix order", "rule", s.Name(), "order_id", id, "error", res.Error)
				summary.Failures = append(summary.Failures, domain.FixFailure{
					Rule: s.Name(), OrderID: id, Error: res.Error.Error(),
				})
			case res.RowsAffected == 0:
				summary.Skipped++
			default:
				summary.Fixed++
				summary.Applied = append(summary.Applied, domain.AppliedFix{Rule: s.Name(), OrderID: id})
			}
		}
	}

	return summary, nil
}

func (e *ConsistencyEngine) selectFixable(ruleNames []string) ([]strategies.ConsistencyStrategy, error) {
	wanted := make(map[string]bool, len(ruleNames))
	for _, name := range ruleNames {
		s, ok := e.byName[name]
		if !ok {
			return nil, domain.NewValidation("rule", fmt.Sprintf("unknown rule %q", name))
		}
		if s.Fix() == nil {
			return nil, domain.NewValidation("rule", fmt.Sprintf("rule %q has no automatic fix", name))
		}
		wanted[name] = true
	}

	var out []strategies.ConsistencyStrategy
	for _, s := range e.strategies {
		if s.Fix() == nil {
			continue
		}
		if len(wanted) == 0 || wanted[s.Name()] {
			out = append(out, s)
		}
	}
	return out, nil
}
