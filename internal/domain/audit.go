package domain

import "time"

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// OrderSnapshot is the subset of order state a consistency rule reports on.
type OrderSnapshot struct {
	ID               string
	OrderNumber      string
	Status           OrderStatus
	TrackingStage    TrackingStage
	WaitingStartedAt *time.Time
	WaitingEndsAt    *time.Time
	SpecialistID     string
	ReadinessStatus  ReadinessStatus
	UpdatedAt        time.Time
}

type RuleReport struct {
	Rule        string
	Title       string
	Description string
	Severity    Severity
	AutoFix     bool
	Orders      []OrderSnapshot
}

type DiagnosticsReport struct {
	Rules     []RuleReport
	Total     int
	CheckedAt time.Time
}

// IssuesFor returns the report of one rule, or nil when the rule is unknown.
func (r *DiagnosticsReport) IssuesFor(rule string) *RuleReport {
	for i := range r.Rules {
		if r.Rules[i].Rule == rule {
			return &r.Rules[i]
		}
	}
	return nil
}

type FixFailure struct {
	Rule    string
	OrderID string
	Error   string
}

type AppliedFix struct {
	Rule    string
	OrderID string
}

// FixSummary: Attempted = Fixed + Skipped + len(Failures).
type FixSummary struct {
	Attempted int
	Fixed     int
	Skipped   int
	Applied   []AppliedFix
	Failures  []FixFailure
}
