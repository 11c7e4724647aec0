// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the CLI and the REST API drive the core.
package primary

import (
	"context"

	"github.com/example/grievance/internal/core/grievance"
)

// IntakeService defines the primary port for submitting grievances.
type IntakeService interface {
	// Submit validates, enriches and persists a new case received on channel.
	Submit(ctx context.Context, req SubmitCaseRequest) (*grievance.Case, error)
}

// SubmitCaseRequest contains the parameters for submitting a case.
type SubmitCaseRequest struct {
	Channel string
	Case    grievance.SubmitRequest
	Context grievance.ChannelContext
}
