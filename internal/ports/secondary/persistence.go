// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"time"

	"github.com/example/grievance/internal/core/grievance"
)

// CaseRepository defines the secondary port for case persistence.
type CaseRepository interface {
	// Create persists a new case and its activities in one transaction.
	// The stored case starts at revision 1; c.Revision is updated.
	Create(ctx context.Context, c *grievance.Case) error

	// FindByID retrieves a case and its activities. Unknown ids are NotFound.
	FindByID(ctx context.Context, id string) (*grievance.Case, error)

	// FindByCaseNumber retrieves a case and its activities by case number.
	FindByCaseNumber(ctx context.Context, number string) (*grievance.Case, error)

	// Save writes the mutable case fields if the stored revision still equals
	// c.Revision, and inserts activities not yet stored. On success c.Revision
	// is incremented; a stale revision yields a Conflict error and writes nothing.
	// The case number is never updated.
	Save(ctx context.Context, c *grievance.Case) error

	// List retrieves cases matching the filter, newest first, without activities.
	List(ctx context.Context, filter grievance.CaseFilter) ([]*grievance.Case, error)

	// FindEscalatedSince retrieves cases escalated at or after since, without activities.
	FindEscalatedSince(ctx context.Context, since time.Time) ([]*grievance.Case, error)
}

// NumberGenerator allocates case numbers.
type NumberGenerator interface {
	// NextCaseNumber returns a never-before-issued case number for the year of at.
	NextCaseNumber(ctx context.Context, at time.Time) (string, error)
}
