package primary

import (
	"context"

	"github.com/example/grievance/internal/core/grievance"
)

// EscalationService defines the primary port for escalation operations.
type EscalationService interface {
	// Escalate moves a case up its category ladder.
	Escalate(ctx context.Context, req EscalateRequest) (*grievance.EscalationResult, error)
}

// EscalateRequest contains the parameters for an escalation.
type EscalateRequest struct {
	CaseID      string
	Trigger     string // must match a grievance.Trigger exactly
	Reason      string
	InitiatedBy string // defaults to the actor in context
}

// AnalyticsService defines the primary port for escalation reporting.
type AnalyticsService interface {
	// GetEscalationAnalytics summarizes escalations in the configured lookback window.
	GetEscalationAnalytics(ctx context.Context) (*grievance.EscalationSummary, error)
}
