// Package logonly provides collaborators that only write to the log.
// They stand in for every external system when none is configured.
package logonly

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/grievance/internal/core/grievance"
	"github.com/example/grievance/internal/ports/secondary"
)

var (
	_ secondary.NotificationDispatcher = (*Dispatcher)(nil)
	_ secondary.Transport              = (*Transport)(nil)
	_ secondary.ReassignmentAdvisor    = (*Advisor)(nil)
	_ secondary.WorkflowHook           = (*WorkflowHook)(nil)
)

// Dispatcher logs notifications instead of delivering them.
type Dispatcher struct {
	logger *zap.Logger
}

// NewDispatcher creates a logging dispatcher.
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{logger: logger.Named("notifications")}
}

func (d *Dispatcher) NotifyAssignment(ctx context.Context, c *grievance.Case, assignee string) error {
	d.logger.Info("assignment notice",
		zap.String("case_number", c.CaseNumber),
		zap.String("assignee", assignee))
	return nil
}

func (d *Dispatcher) NotifyManagement(ctx context.Context, c *grievance.Case, result grievance.EscalationResult) error {
	d.logger.Warn("management escalation notice",
		zap.String("case_number", c.CaseNumber),
		zap.Int("level", result.NewLevel),
		zap.String("escalation_type", string(result.EscalationType)),
		zap.String("assignee", result.NewAssignee))
	return nil
}

func (d *Dispatcher) NotifyCommunication(ctx context.Context, c *grievance.Case, activity grievance.Activity) error {
	d.logger.Info("communication notice",
		zap.String("case_number", c.CaseNumber),
		zap.String("channel", string(activity.Channel)),
		zap.Bool("requires_response", activity.RequiresResponse))
	return nil
}

func (d *Dispatcher) NotifyStatusChange(ctx context.Context, c *grievance.Case, activity grievance.Activity) error {
	d.logger.Info("status change notice",
		zap.String("case_number", c.CaseNumber),
		zap.String("previous_status", string(activity.PreviousStatus)),
		zap.String("new_status", string(activity.NewStatus)))
	return nil
}

// Transport logs outbound messages and reports them accepted.
type Transport struct {
	logger *zap.Logger
}

// NewTransport creates a logging transport.
func NewTransport(logger *zap.Logger) *Transport {
	return &Transport{logger: logger.Named("transport")}
}

func (t *Transport) SendEmail(ctx context.Context, to, subject, body string) (bool, error) {
	t.logger.Info("email", zap.String("to", to), zap.String("subject", subject), zap.Int("bytes", len(body)))
	return true, nil
}

func (t *Transport) SendSMS(ctx context.Context, to, body string) (bool, error) {
	t.logger.Info("sms", zap.String("to", to), zap.Int("bytes", len(body)))
	return true, nil
}

func (t *Transport) SendPostalMail(ctx context.Context, recipient, subject, body string) (bool, error) {
	t.logger.Info("postal mail", zap.String("recipient", recipient), zap.String("subject", subject))
	return true, nil
}

// Advisor logs workload transfers.
type Advisor struct {
	logger *zap.Logger
}

// NewAdvisor creates a logging advisor.
func NewAdvisor(logger *zap.Logger) *Advisor {
	return &Advisor{logger: logger.Named("workload")}
}

func (a *Advisor) TransferWorkload(ctx context.Context, req secondary.WorkloadTransfer) error {
	a.logger.Info("workload transfer",
		zap.String("previous_assignee", req.PreviousAssignee),
		zap.String("category", req.Category),
		zap.String("priority", req.Priority),
		zap.String("reason", req.Reason))
	return nil
}

// WorkflowHook logs case creation.
type WorkflowHook struct {
	logger *zap.Logger
}

// NewWorkflowHook creates a logging workflow hook.
func NewWorkflowHook(logger *zap.Logger) *WorkflowHook {
	return &WorkflowHook{logger: logger.Named("workflow")}
}

func (h *WorkflowHook) CaseCreated(ctx context.Context, c *grievance.Case) error {
	h.logger.Info("case created",
		zap.String("case_number", c.CaseNumber),
		zap.String("channel", string(c.SubmissionChannel)))
	return nil
}
