// Package effects defines effect types as data structures representing I/O operations.
// This is the foundation of the Functional Core / Imperative Shell pattern.
// Effects are pure data - they describe what should happen, not how.
package effects

// Effect is the base interface for all effects.
// Effects represent side effects as data that can be interpreted by the shell.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// WorkloadTransferEffect asks the reassignment advisor to rebalance the
// workload freed by PreviousAssignee.
type WorkloadTransferEffect struct {
	PreviousAssignee string
	Category         string
	Priority         string
	Reason           string // "Escalation", "Manual assignment"
}

func (e WorkloadTransferEffect) EffectType() string { return "workload_transfer" }

// AssignmentNoticeEffect notifies the new assignee of a case.
type AssignmentNoticeEffect struct {
	CaseID      string
	NewAssignee string
}

func (e AssignmentNoticeEffect) EffectType() string { return "assignment_notice" }

// ManagementNoticeEffect alerts management about a level 2+ escalation.
// Payload carries the escalation result as it will be returned to the caller.
type ManagementNoticeEffect struct {
	CaseID  string
	Payload any
}

func (e ManagementNoticeEffect) EffectType() string { return "management_notice" }

// CommunicationReceivedEffect notifies stakeholders of an inbound communication.
type CommunicationReceivedEffect struct {
	CaseID     string
	ActivityID string
}

func (e CommunicationReceivedEffect) EffectType() string { return "communication_received" }

// StatusNoticeEffect tells the complainant about a status change.
type StatusNoticeEffect struct {
	CaseID     string
	ActivityID string
}

func (e StatusNoticeEffect) EffectType() string { return "status_notice" }

// WorkflowHookEffect hands a freshly created case to the new-case workflow.
type WorkflowHookEffect struct {
	CaseID string
}

func (e WorkflowHookEffect) EffectType() string { return "workflow_hook" }

// LogEffect asks the shell to write a structured log entry for the case.
type LogEffect struct {
	Level   string
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }
