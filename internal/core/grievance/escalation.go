package grievance

import (
	"fmt"
	"time"

	"github.com/example/grievance/internal/apperr"
	"github.com/example/grievance/internal/core/effects"
)

// Trigger is the business reason initiating an escalation.
type Trigger string

const (
	TriggerSLABreach          Trigger = "SLA_BREACH"
	TriggerCriticalPriority   Trigger = "CRITICAL_PRIORITY"
	TriggerComplexity         Trigger = "COMPLEXITY"
	TriggerCustomerComplaint  Trigger = "CUSTOMER_COMPLAINT"
	TriggerExternalPressure   Trigger = "EXTERNAL_PRESSURE"
	TriggerRepeatedEscalation Trigger = "REPEATED_ESCALATION"
)

// Triggers lists every recognised trigger.
var Triggers = []Trigger{
	TriggerSLABreach, TriggerCriticalPriority, TriggerComplexity,
	TriggerCustomerComplaint, TriggerExternalPressure, TriggerRepeatedEscalation,
}

// ParseTrigger returns the trigger named by s or an InvalidTrigger error.
// Matching is exact: trigger strings are part of the external contract.
func ParseTrigger(s string) (Trigger, error) {
	t := Trigger(s)
	for _, known := range Triggers {
		if t == known {
			return t, nil
		}
	}
	return "", apperr.InvalidTrigger(s)
}

// EscalationType classifies how an escalation is handled downstream.
type EscalationType string

const (
	EscalationStandard   EscalationType = "STANDARD"
	EscalationEmergency  EscalationType = "EMERGENCY"
	EscalationManagement EscalationType = "MANAGEMENT"
)

// ManagementNoticeLevel is the level from which management is alerted.
const ManagementNoticeLevel = 2

// ResultSuccess is the status reported by a committed escalation.
const ResultSuccess = "SUCCESS"

// EscalationResult is returned to callers and carried by management notices.
type EscalationResult struct {
	CaseID             string         `json:"case_id"`
	CaseNumber         string         `json:"case_number"`
	PreviousAssignee   string         `json:"previous_assignee"`
	NewAssignee        string         `json:"new_assignee"`
	PreviousLevel      int            `json:"previous_level"`
	NewLevel           int            `json:"new_level"`
	EscalationType     EscalationType `json:"escalation_type"`
	Trigger            Trigger        `json:"trigger"`
	PreviousTargetDate *time.Time     `json:"previous_target_date,omitempty"`
	NewTargetDate      *time.Time     `json:"new_target_date,omitempty"`
	Status             string         `json:"status"`
}

// EscalationInput contains everything the decision needs.
// All values are pre-fetched by the caller - no I/O in the decision.
type EscalationInput struct {
	Case    Case
	Trigger string
	Reason  string
	Now     time.Time
	Ladders LadderTable
	SLA     SLAPolicy
}

// EscalationDecision is the outcome of DecideEscalation.
type EscalationDecision struct {
	Trigger          Trigger
	Type             EscalationType
	PreviousAssignee string
	NewAssignee      string
	PreviousLevel    int
	NewLevel         int
	PreviousTarget   *time.Time
	NewTarget        *time.Time
	Result           EscalationResult
	Effects          []effects.Effect
}

// DecideEscalation computes the new level, assignee, deadline and the ordered
// side effects of an escalation. It fails with InvalidTrigger for unknown
// triggers and InvalidStatusTransition for cases that are no longer open.
func DecideEscalation(in EscalationInput) (EscalationDecision, error) {
	trigger, err := ParseTrigger(in.Trigger)
	if err != nil {
		return EscalationDecision{}, err
	}
	if guard := CanEscalate(EscalateContext{CaseNumber: in.Case.CaseNumber, Status: in.Case.Status}); !guard.Allowed {
		return EscalationDecision{}, apperr.InvalidStatusTransition(guard.Reason)
	}

	c := in.Case
	ladder := in.Ladders.For(c.Category)
	current := c.EscalationLevel

	var (
		newLevel int
		escType  = EscalationStandard
		assignee string
	)
	switch trigger {
	case TriggerSLABreach, TriggerComplexity:
		newLevel = current + 1
	case TriggerCriticalPriority:
		newLevel = max(current+1, 2)
		escType = EscalationEmergency
	case TriggerCustomerComplaint:
		newLevel = max(current+1, 1)
	case TriggerExternalPressure:
		newLevel = max(current+1, 2)
		escType = EscalationManagement
	case TriggerRepeatedEscalation:
		newLevel = max(ladder.Top(), current)
		assignee = ladder.FinalAuthority()
	}
	if assignee == "" {
		assignee = ladder.RoleAt(newLevel)
	}

	var newTarget time.Time
	if c.Priority == PriorityCritical && escType == EscalationEmergency {
		newTarget = in.SLA.CompressTarget(c.Priority, c.ResolutionTargetDate, in.Now)
	} else {
		newTarget = in.SLA.AssignmentTarget(c.Priority, c.ResolutionTargetDate, in.Now)
	}

	d := EscalationDecision{
		Trigger:          trigger,
		Type:             escType,
		PreviousAssignee: c.AssignedTo,
		NewAssignee:      assignee,
		PreviousLevel:    current,
		NewLevel:         newLevel,
		PreviousTarget:   c.ResolutionTargetDate,
		NewTarget:        timePtr(newTarget),
	}
	d.Result = EscalationResult{
		CaseID:             c.ID,
		CaseNumber:         c.CaseNumber,
		PreviousAssignee:   d.PreviousAssignee,
		NewAssignee:        d.NewAssignee,
		PreviousLevel:      d.PreviousLevel,
		NewLevel:           d.NewLevel,
		EscalationType:     d.Type,
		Trigger:            trigger,
		PreviousTargetDate: d.PreviousTarget,
		NewTargetDate:      d.NewTarget,
		Status:             ResultSuccess,
	}

	d.Effects = append(d.Effects,
		effects.WorkloadTransferEffect{
			PreviousAssignee: d.PreviousAssignee,
			Category:         string(c.Category),
			Priority:         string(c.Priority),
			Reason:           "Escalation",
		},
		effects.AssignmentNoticeEffect{CaseID: c.ID, NewAssignee: assignee},
	)
	if newLevel >= ManagementNoticeLevel {
		d.Effects = append(d.Effects, effects.ManagementNoticeEffect{CaseID: c.ID, Payload: d.Result})
	}

	return d, nil
}

// ApplyEscalation commits a decision onto the case and appends exactly one
// CASE_ESCALATED activity.
func ApplyEscalation(c *Case, d EscalationDecision, reason string, actor Actor, activityID string, now time.Time) error {
	if d.NewLevel < c.EscalationLevel {
		return fmt.Errorf("escalation level cannot decrease from %d to %d", c.EscalationLevel, d.NewLevel)
	}
	next, err := Transition(c.Status, EventEscalate)
	if err != nil {
		return err
	}

	prevStatus := c.Status
	prevTarget := c.ResolutionTargetDate
	c.AssignedTo = d.NewAssignee
	c.AssignedDate = timePtr(now)
	c.EscalationLevel = d.NewLevel
	c.EscalationType = d.Type
	c.EscalatedTo = d.NewAssignee
	c.EscalationDate = timePtr(now)
	c.EscalationReason = reason
	c.ResolutionTargetDate = d.NewTarget
	c.Status = next

	c.Append(Activity{
		ID:               activityID,
		Type:             ActivityCaseEscalated,
		Description:      escalationDescription(d, reason, prevTarget),
		PerformedBy:      actor.ID,
		PerformedByRole:  actor.Role,
		Timestamp:        now,
		IsInternal:       true,
		PreviousAssignee: d.PreviousAssignee,
		NewAssignee:      d.NewAssignee,
		PreviousStatus:   prevStatus,
		NewStatus:        next,
		PreviousLevel:    d.PreviousLevel,
		NewLevel:         d.NewLevel,
	})
	return nil
}

func escalationDescription(d EscalationDecision, reason string, prevTarget *time.Time) string {
	desc := fmt.Sprintf("%s escalation (%s) to %s: level %d → %d.", d.Type, d.Trigger, d.NewAssignee, d.PreviousLevel, d.NewLevel)
	if !sameTime(prevTarget, d.NewTarget) {
		desc += fmt.Sprintf(" Target %s → %s.", formatTarget(prevTarget), formatTarget(d.NewTarget))
	}
	if reason != "" {
		desc += " " + reason
	}
	return desc
}

func formatTarget(t *time.Time) string {
	if t == nil {
		return "none"
	}
	return t.UTC().Format(time.RFC3339)
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
