package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/grievance/internal/core/effects"
	"github.com/example/grievance/internal/core/grievance"
	"github.com/example/grievance/internal/ports/primary"
	"github.com/example/grievance/internal/ports/secondary"
)

// IntakeServiceImpl implements the IntakeService interface.
type IntakeServiceImpl struct {
	rt      Runtime
	numbers secondary.NumberGenerator
}

// NewIntakeService creates a new IntakeService with injected dependencies.
func NewIntakeService(rt Runtime, numbers secondary.NumberGenerator) *IntakeServiceImpl {
	return &IntakeServiceImpl{rt: rt.withDefaults(), numbers: numbers}
}

// Submit validates, enriches and persists a new case.
func (s *IntakeServiceImpl) Submit(ctx context.Context, req primary.SubmitCaseRequest) (*grievance.Case, error) {
	sub, err := grievance.ValidateSubmission(req.Case, req.Channel, req.Context)
	if err != nil {
		return nil, err
	}

	now := s.rt.Now()
	number, err := s.numbers.NextCaseNumber(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate case number: %w", err)
	}

	c := grievance.NewCase(sub, grievance.CaseIdentity{
		ID:         s.rt.NewID(),
		CaseNumber: number,
		ActivityID: s.rt.NewID(),
	}, now)

	if err := s.rt.Repo.Create(ctx, &c); err != nil {
		return nil, fmt.Errorf("failed to create case: %w", err)
	}

	s.rt.Metrics.CaseSubmitted(string(c.SubmissionChannel))
	s.rt.Logger.Info("case submitted",
		zap.String("case_number", c.CaseNumber),
		zap.String("channel", string(c.SubmissionChannel)),
		zap.String("category", string(c.Category)),
		zap.String("priority", string(c.Priority)))

	s.rt.Executor.Execute(ctx, &c, []effects.Effect{effects.WorkflowHookEffect{CaseID: c.ID}})
	return &c, nil
}
