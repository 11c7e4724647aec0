package primary

import (
	"context"

	"github.com/example/grievance/internal/core/grievance"
)

// CaseService defines the primary port for case management.
type CaseService interface {
	// GetCase retrieves a case with its activities by ID.
	GetCase(ctx context.Context, id string) (*grievance.Case, error)

	// GetCaseByNumber retrieves a case with its activities by case number.
	GetCaseByNumber(ctx context.Context, number string) (*grievance.Case, error)

	// ListCases lists cases without their activities.
	ListCases(ctx context.Context, filters CaseFilters) ([]*grievance.Case, error)

	// AssignCase hands a case to an assignee.
	AssignCase(ctx context.Context, id, assignee string) (*grievance.Case, error)

	// ChangeStatus moves a case to a manually requested status.
	ChangeStatus(ctx context.Context, id, status, note string) (*grievance.Case, error)

	// ResolveCase marks a case resolved.
	ResolveCase(ctx context.Context, id, summary, actions string) (*grievance.Case, error)

	// CloseCase closes a resolved case with optional satisfaction feedback.
	CloseCase(ctx context.Context, id string, rating int, feedback string) (*grievance.Case, error)

	// RejectCase rejects a case.
	RejectCase(ctx context.Context, id, reason string) (*grievance.Case, error)

	// CancelCase cancels a case.
	CancelCase(ctx context.Context, id, reason string) (*grievance.Case, error)

	// ReopenCase returns a resolved case to review.
	ReopenCase(ctx context.Context, id, reason string) (*grievance.Case, error)

	// GetTimeline returns the activities of a case in chronological order.
	GetTimeline(ctx context.Context, id string) ([]grievance.Activity, error)

	// GetStatistics summarizes the whole case population.
	GetStatistics(ctx context.Context) (*grievance.CaseStatistics, error)
}

// CaseFilters contains filter options for listing cases.
// Enum values are parsed leniently; an unknown value is a validation failure.
type CaseFilters struct {
	Status        string
	Category      string
	Priority      string
	Channel       string
	AssignedTo    string
	EscalatedOnly bool
	Search        string
	Limit         int
	Offset        int
}
