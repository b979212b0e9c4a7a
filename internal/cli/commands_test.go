package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	readinessusecase "github.com/LavaJover/shvark-booking-service/internal/usecase/readiness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAudit struct {
	report  *domain.DiagnosticsReport
	summary *domain.FixSummary
	err     error
	rules   []string
}

func (s *stubAudit) RunDiagnostics(ctx context.Context) (*domain.DiagnosticsReport, error) {
	return s.report, s.err
}

func (s *stubAudit) FixAll(ctx context.Context, rules ...string) (*domain.FixSummary, error) {
	s.rules = rules
	return s.summary, s.err
}

type stubReadiness struct {
	readinessusecase.ReadinessUsecase
	checks    int
	reminders int
	movement  int
	expired   int
	err       error
}

func (s *stubReadiness) DispatchReadinessChecks(ctx context.Context) (int, error) {
	return s.checks, s.err
}

func (s *stubReadiness) SendReminders(ctx context.Context) (int, error) {
	return s.reminders, nil
}

func (s *stubReadiness) SendMovementReminders(ctx context.Context) (int, error) {
	return s.movement, nil
}

func (s *stubReadiness) NotifyExpiredOrders(ctx context.Context) (int, error) {
	return s.expired, nil
}

type stubMigrations struct {
	version uint
	dirty   bool
	upCalls int
	upErr   error
}

func (m *stubMigrations) Up() error {
	m.upCalls++
	if m.upErr != nil {
		return m.upErr
	}
	m.version = 2
	return nil
}

func (m *stubMigrations) Version() (uint, bool, error) {
	return m.version, m.dirty, nil
}

// runCLI executes bookingctl with args against rt and reports whether the
// runtime was closed.
func runCLI(t *testing.T, rt *Runtime, args ...string) (string, bool, error) {
	t.Helper()
	closed := false
	rt.Close = func() error {
		closed = true
		return nil
	}
	open := func(ctx context.Context, opts *RootOptions) (*Runtime, error) { return rt, nil }

	buf := &bytes.Buffer{}
	cmd := NewRootCommand(open)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), closed, err
}

func sampleReport() *domain.DiagnosticsReport {
	return &domain.DiagnosticsReport{
		Rules: []domain.RuleReport{
			{
				Rule:     "cancelled-with-stage",
				Title:    "Cancelled orders with a tracking stage",
				Severity: domain.SeverityHigh,
				AutoFix:  true,
				Orders:   []domain.OrderSnapshot{{ID: "order-1", Status: domain.StatusCancelled, TrackingStage: domain.StageWorking}},
			},
			{
				Rule:     "stuck-in-waiting",
				Title:    "Stuck in waiting",
				Severity: domain.SeverityHigh,
			},
		},
		Total:     1,
		CheckedAt: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
	}
}

func TestDiagnose_Text(t *testing.T) {
	rt := &Runtime{Audit: &stubAudit{report: sampleReport()}}

	out, closed, err := runCLI(t, rt, "diagnose")
	require.NoError(t, err)
	assert.True(t, closed)
	assert.Contains(t, out, "RULE")
	assert.Contains(t, out, "Cancelled orders with a tracking stage")
	assert.Contains(t, out, "Total issues: 1")
	assert.NotContains(t, out, "order-1")
}

func TestDiagnose_VerboseListsOrders(t *testing.T) {
	rt := &Runtime{Audit: &stubAudit{report: sampleReport()}}

	out, _, err := runCLI(t, rt, "diagnose", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "cancelled-with-stage:\n  order-1")
}

func TestDiagnose_JSON(t *testing.T) {
	rt := &Runtime{Audit: &stubAudit{report: sampleReport()}}

	out, _, err := runCLI(t, rt, "diagnose", "--json")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Total int `json:"total"`
			Rules []struct {
				Rule  string `json:"rule"`
				Count int    `json:"count"`
			} `json:"rules"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Total)
	require.Len(t, resp.Data.Rules, 2)
	assert.Equal(t, "cancelled-with-stage", resp.Data.Rules[0].Rule)
	assert.Equal(t, 1, resp.Data.Rules[0].Count)
}

func TestDiagnose_FailOnIssues(t *testing.T) {
	rt := &Runtime{Audit: &stubAudit{report: sampleReport()}}

	_, _, err := runCLI(t, rt, "diagnose", "--fail-on-issues")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "1 consistency issue(s) found")

	clean := &Runtime{Audit: &stubAudit{report: &domain.DiagnosticsReport{}}}
	_, _, err = runCLI(t, clean, "diagnose", "--fail-on-issues")
	assert.NoError(t, err)
}

func TestDiagnose_EngineError(t *testing.T) {
	rt := &Runtime{Audit: &stubAudit{err: errors.New("connection reset")}}

	_, closed, err := runCLI(t, rt, "diagnose")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.True(t, closed)
}

func TestOpenFailure(t *testing.T) {
	open := func(ctx context.Context, opts *RootOptions) (*Runtime, error) {
		assert.Equal(t, "/etc/booking.yaml", opts.ConfigPath)
		return nil, errors.New("dial tcp: connection refused")
	}
	cmd := NewRootCommand(open)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", "/etc/booking.yaml", "fix"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to open booking database")
}

func TestFix(t *testing.T) {
	audit := &stubAudit{summary: &domain.FixSummary{
		Attempted: 3,
		Fixed:     2,
		Skipped:   1,
		Applied: []domain.AppliedFix{
			{Rule: "cancelled-with-stage", OrderID: "o-1"},
			{Rule: "cancelled-with-stage", OrderID: "o-2"},
		},
	}}
	rt := &Runtime{Audit: audit}

	out, _, err := runCLI(t, rt, "fix", "--rule", "cancelled-with-stage", "--rule", "stuck-in-waiting")
	require.NoError(t, err)
	assert.Equal(t, []string{"cancelled-with-stage", "stuck-in-waiting"}, audit.rules)
	assert.Contains(t, out, "Attempted: 3\nFixed: 2\nSkipped: 1\nFailed: 0\n")
}

func TestFix_FailuresExitWithOne(t *testing.T) {
	rt := &Runtime{Audit: &stubAudit{summary: &domain.FixSummary{
		Attempted: 1,
		Failures:  []domain.FixFailure{{Rule: "stuck-in-waiting", OrderID: "o-9", Error: "database is locked"}},
	}}}

	out, _, err := runCLI(t, rt, "fix", "--json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Data struct {
			Failures []struct {
				OrderID string `json:"order_id"`
			} `json:"failures"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Failures, 1)
	assert.Equal(t, "o-9", resp.Data.Failures[0].OrderID)
}

func TestReadinessSweep(t *testing.T) {
	rt := &Runtime{Readiness: &stubReadiness{checks: 2, reminders: 5, movement: 1, expired: 3}}

	out, _, err := runCLI(t, rt, "readiness", "sweep")
	require.NoError(t, err)
	assert.Equal(t, "Readiness checks sent: 2\nReminders sent: 5\nMovement reminders sent: 1\nExpired orders notified: 3\n", out)

	out, _, err = runCLI(t, rt, "--json", "readiness", "sweep")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"checks_sent":2,"reminders_sent":5,"movement_reminders_sent":1,"expired_orders_notified":3}}`, out)

	failing := &Runtime{Readiness: &stubReadiness{err: errors.New("timeout")}}
	_, _, err = runCLI(t, failing, "readiness", "sweep")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestMigrate(t *testing.T) {
	m := &stubMigrations{}
	rt := &Runtime{Migrations: m}

	out, _, err := runCLI(t, rt, "migrate", "up")
	require.NoError(t, err)
	assert.Equal(t, 1, m.upCalls)
	assert.Equal(t, "Schema version: 2\n", out)

	m.dirty = true
	out, _, err = runCLI(t, rt, "migrate", "version")
	require.NoError(t, err)
	assert.Equal(t, "Schema version: 2 (dirty)\n", out)

	out, _, err = runCLI(t, rt, "--json", "migrate", "version")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"version":2,"dirty":true}}`, out)

	broken := &Runtime{Migrations: &stubMigrations{upErr: errors.New("no change")}}
	_, _, err = runCLI(t, broken, "migrate", "up")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
