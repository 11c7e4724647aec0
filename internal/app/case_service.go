package app

import (
	"context"
	"fmt"

	"github.com/example/grievance/internal/apperr"
	"github.com/example/grievance/internal/core/effects"
	"github.com/example/grievance/internal/core/grievance"
	"github.com/example/grievance/internal/ports/primary"
)

// CaseServiceImpl implements the CaseService interface.
type CaseServiceImpl struct {
	rt Runtime
}

// NewCaseService creates a new CaseService with injected dependencies.
func NewCaseService(rt Runtime) *CaseServiceImpl {
	return &CaseServiceImpl{rt: rt.withDefaults()}
}

// GetCase retrieves a case by ID.
func (s *CaseServiceImpl) GetCase(ctx context.Context, id string) (*grievance.Case, error) {
	return s.rt.Repo.FindByID(ctx, id)
}

// GetCaseByNumber retrieves a case by case number.
func (s *CaseServiceImpl) GetCaseByNumber(ctx context.Context, number string) (*grievance.Case, error) {
	return s.rt.Repo.FindByCaseNumber(ctx, number)
}

// ListCases lists cases with optional filters.
func (s *CaseServiceImpl) ListCases(ctx context.Context, filters primary.CaseFilters) ([]*grievance.Case, error) {
	f, err := toCaseFilter(filters)
	if err != nil {
		return nil, err
	}
	cases, err := s.rt.Repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	return cases, nil
}

func toCaseFilter(in primary.CaseFilters) (grievance.CaseFilter, error) {
	f := grievance.CaseFilter{
		AssignedTo:    in.AssignedTo,
		EscalatedOnly: in.EscalatedOnly,
		Search:        in.Search,
		Limit:         in.Limit,
		Offset:        in.Offset,
	}
	var bad []string
	if in.Status != "" {
		st, ok := grievance.ParseStatus(in.Status)
		if !ok {
			bad = append(bad, "status")
		}
		f.Status = st
	}
	if in.Category != "" {
		cat, ok := grievance.ParseCategory(in.Category)
		if !ok {
			bad = append(bad, "category")
		}
		f.Category = cat
	}
	if in.Priority != "" {
		p, ok := grievance.ParsePriority(in.Priority)
		if !ok {
			bad = append(bad, "priority")
		}
		f.Priority = p
	}
	if in.Channel != "" {
		ch, ok := grievance.ParseChannel(in.Channel)
		if !ok {
			bad = append(bad, "channel")
		}
		f.Channel = ch
	}
	if in.Limit < 0 || in.Offset < 0 {
		bad = append(bad, "paging")
	}
	if len(bad) > 0 {
		return grievance.CaseFilter{}, apperr.Validation(bad...)
	}
	return f, nil
}

// AssignCase hands a case to an assignee.
func (s *CaseServiceImpl) AssignCase(ctx context.Context, id, assignee string) (*grievance.Case, error) {
	return s.rt.mutate(ctx, id, func(c *grievance.Case, m grievance.Mutation) ([]effects.Effect, error) {
		return grievance.ApplyAssignment(c, assignee, s.rt.Policy.SLA, m)
	})
}

// ChangeStatus moves a case to a manually requested status.
func (s *CaseServiceImpl) ChangeStatus(ctx context.Context, id, status, note string) (*grievance.Case, error) {
	return s.rt.mutate(ctx, id, func(c *grievance.Case, m grievance.Mutation) ([]effects.Effect, error) {
		return grievance.ApplyStatusChange(c, status, note, m)
	})
}

// ResolveCase marks a case resolved.
func (s *CaseServiceImpl) ResolveCase(ctx context.Context, id, summary, actions string) (*grievance.Case, error) {
	return s.rt.mutate(ctx, id, func(c *grievance.Case, m grievance.Mutation) ([]effects.Effect, error) {
		return grievance.ApplyResolution(c, grievance.ResolveRequest{Summary: summary, Actions: actions}, m)
	})
}

// CloseCase closes a resolved case.
func (s *CaseServiceImpl) CloseCase(ctx context.Context, id string, rating int, feedback string) (*grievance.Case, error) {
	return s.rt.mutate(ctx, id, func(c *grievance.Case, m grievance.Mutation) ([]effects.Effect, error) {
		return grievance.ApplyClosure(c, grievance.CloseRequest{Rating: rating, Feedback: feedback}, m)
	})
}

// RejectCase rejects a case.
func (s *CaseServiceImpl) RejectCase(ctx context.Context, id, reason string) (*grievance.Case, error) {
	return s.rt.mutate(ctx, id, func(c *grievance.Case, m grievance.Mutation) ([]effects.Effect, error) {
		return grievance.ApplyRejection(c, reason, m)
	})
}

// CancelCase cancels a case.
func (s *CaseServiceImpl) CancelCase(ctx context.Context, id, reason string) (*grievance.Case, error) {
	return s.rt.mutate(ctx, id, func(c *grievance.Case, m grievance.Mutation) ([]effects.Effect, error) {
		return grievance.ApplyCancellation(c, reason, m)
	})
}

// ReopenCase returns a resolved case to review.
func (s *CaseServiceImpl) ReopenCase(ctx context.Context, id, reason string) (*grievance.Case, error) {
	return s.rt.mutate(ctx, id, func(c *grievance.Case, m grievance.Mutation) ([]effects.Effect, error) {
		return grievance.ApplyReopen(c, reason, m)
	})
}

// GetTimeline returns the activities of a case in chronological order.
func (s *CaseServiceImpl) GetTimeline(ctx context.Context, id string) ([]grievance.Activity, error) {
	c, err := s.rt.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return grievance.SortedActivities(c.Activities), nil
}

// GetStatistics summarizes every stored case.
func (s *CaseServiceImpl) GetStatistics(ctx context.Context) (*grievance.CaseStatistics, error) {
	cases, err := s.rt.Repo.List(ctx, grievance.CaseFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load cases: %w", err)
	}
	st := grievance.ComputeStatistics(derefCases(cases), s.rt.Now())
	return &st, nil
}
