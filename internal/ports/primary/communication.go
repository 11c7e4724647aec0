package primary

import (
	"context"

	"github.com/example/grievance/internal/core/grievance"
)

// CommunicationService defines the primary port for case communications.
type CommunicationService interface {
	// HandleInbound records a message received about a case.
	HandleInbound(ctx context.Context, req InboundRequest) (*grievance.Case, error)

	// SendOutbound delivers a message about a case and records the outcome.
	// Delivery failures are recorded, not returned.
	SendOutbound(ctx context.Context, req OutboundRequest) error

	// GetUnifiedTracking aggregates every communication of a case.
	GetUnifiedTracking(ctx context.Context, caseNumber string) (*grievance.TrackingView, error)
}

// InboundRequest contains the parameters for recording an inbound message.
type InboundRequest struct {
	CaseID  string
	Channel string
	Subject string
	Content string
	From    string
}

// OutboundRequest contains the parameters for sending a message.
type OutboundRequest struct {
	CaseID           string
	Channel          string
	Recipient        string // defaults to the complainant's contact for the channel
	Subject          string
	Content          string
	RequiresResponse bool
	IsAutomated      bool
	IsInternal       bool
}
