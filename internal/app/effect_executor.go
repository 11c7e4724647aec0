// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/grievance/internal/core/effects"
	"github.com/example/grievance/internal/core/grievance"
	"github.com/example/grievance/internal/ports/secondary"
	"github.com/example/grievance/internal/telemetry"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place notification I/O happens.
// Effects run after the case is committed; a failing effect is logged and
// counted but never reported to the caller or rolled back.
type EffectExecutor interface {
	Execute(ctx context.Context, c *grievance.Case, effs []effects.Effect)
}

// DefaultEffectExecutor implements EffectExecutor with the configured collaborators.
type DefaultEffectExecutor struct {
	notifier secondary.NotificationDispatcher
	advisor  secondary.ReassignmentAdvisor
	hook     secondary.WorkflowHook
	logger   *zap.Logger
	metrics  *telemetry.Metrics
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(
	notifier secondary.NotificationDispatcher,
	advisor secondary.ReassignmentAdvisor,
	hook secondary.WorkflowHook,
	logger *zap.Logger,
	metrics *telemetry.Metrics,
) *DefaultEffectExecutor {
	return &DefaultEffectExecutor{
		notifier: notifier,
		advisor:  advisor,
		hook:     hook,
		logger:   logger,
		metrics:  metrics,
	}
}

// Execute processes effects in order. Every effect is attempted.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, c *grievance.Case, effs []effects.Effect) {
	for _, eff := range effs {
		if err := e.executeOne(ctx, c, eff); err != nil {
			e.metrics.EffectFailed(eff.EffectType())
			e.logger.Error("effect failed",
				zap.String("effect", eff.EffectType()),
				zap.String("case_number", c.CaseNumber),
				zap.Error(err))
		}
	}
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, c *grievance.Case, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.WorkloadTransferEffect:
		return e.advisor.TransferWorkload(ctx, secondary.WorkloadTransfer{
			PreviousAssignee: typed.PreviousAssignee,
			Category:         typed.Category,
			Priority:         typed.Priority,
			Reason:           typed.Reason,
		})
	case effects.AssignmentNoticeEffect:
		return e.notifier.NotifyAssignment(ctx, c, typed.NewAssignee)
	case effects.ManagementNoticeEffect:
		result, ok := typed.Payload.(grievance.EscalationResult)
		if !ok {
			return fmt.Errorf("invalid management notice payload type: %T", typed.Payload)
		}
		return e.notifier.NotifyManagement(ctx, c, result)
	case effects.CommunicationReceivedEffect:
		a, err := findActivity(c, typed.ActivityID)
		if err != nil {
			return err
		}
		return e.notifier.NotifyCommunication(ctx, c, a)
	case effects.StatusNoticeEffect:
		a, err := findActivity(c, typed.ActivityID)
		if err != nil {
			return err
		}
		return e.notifier.NotifyStatusChange(ctx, c, a)
	case effects.WorkflowHookEffect:
		return e.hook.CaseCreated(ctx, c)
	case effects.LogEffect:
		fields := make([]zap.Field, 0, len(typed.Fields)+1)
		fields = append(fields, zap.String("case_number", c.CaseNumber))
		for k, v := range typed.Fields {
			fields = append(fields, zap.Any(k, v))
		}
		if ce := e.logger.Check(telemetry.ParseLevel(typed.Level), typed.Message); ce != nil {
			ce.Write(fields...)
		}
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func findActivity(c *grievance.Case, id string) (grievance.Activity, error) {
	for _, a := range c.Activities {
		if a.ID == id {
			return a, nil
		}
	}
	return grievance.Activity{}, fmt.Errorf("activity %s not found on case %s", id, c.CaseNumber)
}
