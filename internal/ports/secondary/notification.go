package secondary

import (
	"context"

	"github.com/example/grievance/internal/core/grievance"
)

// NotificationDispatcher delivers internal notifications about cases.
type NotificationDispatcher interface {
	// NotifyAssignment tells assignee a case is now theirs.
	NotifyAssignment(ctx context.Context, c *grievance.Case, assignee string) error

	// NotifyManagement alerts management about a level 2+ escalation.
	NotifyManagement(ctx context.Context, c *grievance.Case, result grievance.EscalationResult) error

	// NotifyCommunication tells stakeholders a communication arrived.
	NotifyCommunication(ctx context.Context, c *grievance.Case, activity grievance.Activity) error

	// NotifyStatusChange tells the complainant about a status change.
	NotifyStatusChange(ctx context.Context, c *grievance.Case, activity grievance.Activity) error
}

// Transport delivers outbound messages to complainants.
// The boolean reports whether the provider accepted the message.
type Transport interface {
	SendEmail(ctx context.Context, to, subject, body string) (bool, error)
	SendSMS(ctx context.Context, to, body string) (bool, error)
	SendPostalMail(ctx context.Context, recipient, subject, body string) (bool, error)
}

// ReassignmentAdvisor rebalances the workload freed by a reassignment.
type ReassignmentAdvisor interface {
	TransferWorkload(ctx context.Context, req WorkloadTransfer) error
}

// WorkloadTransfer describes the work an assignee no longer carries.
type WorkloadTransfer struct {
	PreviousAssignee string `json:"previous_assignee"`
	Category         string `json:"category"`
	Priority         string `json:"priority"`
	Reason           string `json:"reason"`
}

// WorkflowHook is notified when a case is created.
type WorkflowHook interface {
	CaseCreated(ctx context.Context, c *grievance.Case) error
}
