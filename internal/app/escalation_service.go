package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/grievance/internal/core/grievance"
	"github.com/example/grievance/internal/ports/primary"
)

// EscalationServiceImpl implements the EscalationService interface.
type EscalationServiceImpl struct {
	rt Runtime
}

// NewEscalationService creates a new EscalationService with injected dependencies.
func NewEscalationService(rt Runtime) *EscalationServiceImpl {
	return &EscalationServiceImpl{rt: rt.withDefaults()}
}

// Escalate moves a case up its category ladder.
// The decision is computed by the pure core; effects run only after the save.
func (s *EscalationServiceImpl) Escalate(ctx context.Context, req primary.EscalateRequest) (*grievance.EscalationResult, error) {
	c, err := s.rt.Repo.FindByID(ctx, req.CaseID)
	if err != nil {
		return nil, err
	}

	now := s.rt.Now()
	decision, err := grievance.DecideEscalation(grievance.EscalationInput{
		Case:    *c,
		Trigger: req.Trigger,
		Reason:  req.Reason,
		Now:     now,
		Ladders: s.rt.Policy.Ladders,
		SLA:     s.rt.Policy.SLA,
	})
	if err != nil {
		return nil, err
	}

	actor := actorFrom(ctx)
	if req.InitiatedBy != "" {
		actor.ID = req.InitiatedBy
	}
	if err := grievance.ApplyEscalation(c, decision, req.Reason, actor, s.rt.NewID(), now); err != nil {
		return nil, err
	}
	if err := s.rt.Repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save escalation of %s: %w", c.CaseNumber, err)
	}

	s.rt.Metrics.Escalated(string(decision.Trigger), string(decision.Type))
	s.rt.Logger.Info("case escalated",
		zap.String("case_number", c.CaseNumber),
		zap.String("trigger", string(decision.Trigger)),
		zap.String("type", string(decision.Type)),
		zap.Int("previous_level", decision.PreviousLevel),
		zap.Int("new_level", decision.NewLevel),
		zap.String("assignee", decision.NewAssignee))

	s.rt.Executor.Execute(ctx, c, decision.Effects)

	result := decision.Result
	return &result, nil
}

// AnalyticsServiceImpl implements the AnalyticsService interface.
type AnalyticsServiceImpl struct {
	rt Runtime
}

// NewAnalyticsService creates a new AnalyticsService with injected dependencies.
func NewAnalyticsService(rt Runtime) *AnalyticsServiceImpl {
	return &AnalyticsServiceImpl{rt: rt.withDefaults()}
}

// GetEscalationAnalytics summarizes escalations in the lookback window.
func (s *AnalyticsServiceImpl) GetEscalationAnalytics(ctx context.Context) (*grievance.EscalationSummary, error) {
	now := s.rt.Now()
	since := now.AddDate(0, 0, -s.rt.Policy.LookbackDays)

	cases, err := s.rt.Repo.FindEscalatedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load escalated cases: %w", err)
	}
	summary := grievance.SummarizeEscalations(derefCases(cases), since, now)
	return &summary, nil
}

func derefCases(cases []*grievance.Case) []grievance.Case {
	out := make([]grievance.Case, len(cases))
	for i, c := range cases {
		out[i] = *c
	}
	return out
}
