package gateway

import (
	"context"
	"time"

	"github.com/example/grievance/internal/core/grievance"
	"github.com/example/grievance/internal/ports/secondary"
)

var (
	_ secondary.ReassignmentAdvisor = (*Advisor)(nil)
	_ secondary.WorkflowHook        = (*WorkflowHook)(nil)
)

// Workload and workflow endpoints.
const (
	TransferPath    = "/v1/workload/transfers"
	CaseCreatedPath = "/v1/workflows/case-created"
)

// Advisor implements secondary.ReassignmentAdvisor over the workload service.
type Advisor struct {
	client *Client
}

// NewAdvisor creates a workload advisor.
func NewAdvisor(client *Client) *Advisor {
	return &Advisor{client: client}
}

// TransferWorkload reports the work freed by a reassignment.
func (a *Advisor) TransferWorkload(ctx context.Context, req secondary.WorkloadTransfer) error {
	return a.client.post(ctx, TransferPath, req, nil)
}

// caseCreated is the workflow engine's start payload.
type caseCreated struct {
	CaseID      string    `json:"case_id"`
	CaseNumber  string    `json:"case_number"`
	Category    string    `json:"category"`
	Priority    string    `json:"priority"`
	Channel     string    `json:"channel"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// WorkflowHook implements secondary.WorkflowHook over the workflow engine.
type WorkflowHook struct {
	client *Client
}

// NewWorkflowHook creates a workflow hook.
func NewWorkflowHook(client *Client) *WorkflowHook {
	return &WorkflowHook{client: client}
}

// CaseCreated starts the workflow for a new case.
func (h *WorkflowHook) CaseCreated(ctx context.Context, c *grievance.Case) error {
	return h.client.post(ctx, CaseCreatedPath, caseCreated{
		CaseID:      c.ID,
		CaseNumber:  c.CaseNumber,
		Category:    string(c.Category),
		Priority:    string(c.Priority),
		Channel:     string(c.SubmissionChannel),
		Status:      string(c.Status),
		SubmittedAt: c.SubmissionDate.UTC(),
	}, nil)
}
