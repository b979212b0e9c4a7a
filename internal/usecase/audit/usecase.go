package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-booking-service/internal/usecase/events"
)

// RuleEngine evaluates the consistency rules against the order store.
type RuleEngine interface {
	Diagnose(ctx context.Context, now time.Time) (*domain.DiagnosticsReport, error)
	Fix(ctx context.Context, now time.Time, ruleNames ...string) (*domain.FixSummary, error)
}

type AuditUsecase interface {
	RunDiagnostics(ctx context.Context) (*domain.DiagnosticsReport, error)
	FixAll(ctx context.Context, rules ...string) (*domain.FixSummary, error)
}

type DefaultAuditUsecase struct {
	Engine  RuleEngine
	Events  *events.Emitter
	Metrics *metrics.BookingMetrics
	Clock   func() time.Time
}

func NewDefaultAuditUsecase(engine RuleEngine, emitter *events.Emitter, bookingMetrics *metrics.BookingMetrics) *DefaultAuditUsecase {
	return &DefaultAuditUsecase{
		Engine:  engine,
		Events:  emitter,
		Metrics: bookingMetrics,
		Clock:   func() time.Time { return time.Now().UTC() },
	}
}

// RunDiagnostics is read-only; it refreshes the per-rule issue gauges.
func (uc *DefaultAuditUsecase) RunDiagnostics(ctx context.Context) (*domain.DiagnosticsReport, error) {
	report, err := uc.Engine.Diagnose(ctx, uc.Clock().UTC())
	if err != nil {
		return nil, err
	}

	for _, rr := range report.Rules {
		uc.Metrics.SetAuditorIssues(rr.Rule, string(rr.Severity), len(rr.Orders))
	}
	if report.Total > 0 {
		slog.Warn("order consistency issues found", "total", report.Total)
	}
	return report, nil
}

// FixAll applies the automatic fixes. Rows that stopped matching are skipped;
// write failures are reported in the summary, not as an error.
func (uc *DefaultAuditUsecase) FixAll(ctx context.Context, rules ...string) (*domain.FixSummary, error) {
	now := uc.Clock().UTC()
	summary, err := uc.Engine.Fix(ctx, now, rules...)
	if err != nil {
		return summary, err
	}

	for _, applied := range summary.Applied {
		uc.Metrics.RecordAuditorFix(applied.Rule, "fixed")
		uc.Events.Emit(ctx, domain.OrderEvent{
			Type:       domain.EventConsistencyFixed,
			OrderID:    applied.OrderID,
			Details:    map[string]string{"rule": applied.Rule},
			OccurredAt: now,
		})
	}
	for _, f := range summary.Failures {
		uc.Metrics.RecordAuditorFix(f.Rule, "failed")
	}

	slog.Info("consistency fix finished",
		"attempted", summary.Attempted,
		"fixed", summary.Fixed,
		"skipped", summary.Skipped,
		"failed", len(summary.Failures),
	)
	return summary, nil
}
