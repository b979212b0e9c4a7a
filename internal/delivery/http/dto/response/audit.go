package response

import (
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
)

type AuditOrderResponse struct {
	ID               string     `json:"id"`
	OrderNumber      string     `json:"order_number"`
	Status           string     `json:"status"`
	TrackingStage    string     `json:"tracking_stage,omitempty"`
	WaitingStartedAt *time.Time `json:"waiting_started_at,omitempty"`
	WaitingEndsAt    *time.Time `json:"waiting_ends_at,omitempty"`
	SpecialistID     string     `json:"specialist_id,omitempty"`
	ReadinessStatus  string     `json:"readiness_status,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type RuleReportResponse struct {
	Rule        string               `json:"rule"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Severity    string               `json:"severity"`
	AutoFix     bool                 `json:"auto_fix"`
	Count       int                  `json:"count"`
	Orders      []AuditOrderResponse `json:"orders"`
}

type DiagnosticsResponse struct {
	Total     int                  `json:"total"`
	CheckedAt time.Time            `json:"checked_at"`
	Rules     []RuleReportResponse `json:"rules"`
}

type FixFailureResponse struct {
	Rule    string `json:"rule"`
	OrderID string `json:"order_id"`
	Error   string `json:"error"`
}

type FixSummaryResponse struct {
	Attempted int                  `json:"attempted"`
	Fixed     int                  `json:"fixed"`
	Skipped   int                  `json:"skipped"`
	PerRule   map[string]int       `json:"per_rule"`
	Failures  []FixFailureResponse `json:"failures"`
}

func FromDiagnostics(r *domain.DiagnosticsReport) DiagnosticsResponse {
	resp := DiagnosticsResponse{
		Total:     r.Total,
		CheckedAt: r.CheckedAt,
		Rules:     make([]RuleReportResponse, 0, len(r.Rules)),
	}
	for _, rr := range r.Rules {
		item := RuleReportResponse{
			Rule:        rr.Rule,
			Title:       rr.Title,
			Description: rr.Description,
			Severity:    string(rr.Severity),
			AutoFix:     rr.AutoFix,
			Count:       len(rr.Orders),
			Orders:      make([]AuditOrderResponse, 0, len(rr.Orders)),
		}
		for _, o := range rr.Orders {
			item.Orders = append(item.Orders, AuditOrderResponse{
				ID:               o.ID,
				OrderNumber:      o.OrderNumber,
				Status:           string(o.Status),
				TrackingStage:    string(o.TrackingStage),
				WaitingStartedAt: o.WaitingStartedAt,
				WaitingEndsAt:    o.WaitingEndsAt,
				SpecialistID:     o.SpecialistID,
				ReadinessStatus:  string(o.ReadinessStatus),
				UpdatedAt:        o.UpdatedAt,
			})
		}
		resp.Rules = append(resp.Rules, item)
	}
	return resp
}

func FromFixSummary(s *domain.FixSummary) FixSummaryResponse {
	resp := FixSummaryResponse{
		Attempted: s.Attempted,
		Fixed:     s.Fixed,
		Skipped:   s.Skipped,
		PerRule:   make(map[string]int),
		Failures:  make([]FixFailureResponse, 0, len(s.Failures)),
	}
	for _, a := range s.Applied {
		resp.PerRule[a.Rule]++
	}
	for _, f := range s.Failures {
		resp.Failures = append(resp.Failures, FixFailureResponse{Rule: f.Rule, OrderID: f.OrderID, Error: f.Error})
	}
	return resp
}
