package grievance

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/grievance/internal/apperr"
	"github.com/example/grievance/internal/core/effects"
)

// Mutation describes who changes a case and when.
type Mutation struct {
	Actor      Actor
	ActivityID string
	Now        time.Time
}

// ApplyAssignment hands the case to assignee, refreshes the resolution target
// and returns the workload transfer and assignment notice effects.
func ApplyAssignment(c *Case, assignee string, sla SLAPolicy, m Mutation) ([]effects.Effect, error) {
	guard := CanAssign(AssignContext{CaseNumber: c.CaseNumber, Status: c.Status, Assignee: assignee})
	if !guard.Allowed {
		if assignee == "" {
			return nil, apperr.Validation("assignee")
		}
		return nil, apperr.InvalidStatusTransition(guard.Reason)
	}
	next, err := Transition(c.Status, EventAssign)
	if err != nil {
		return nil, err
	}

	prevAssignee, prevStatus := c.AssignedTo, c.Status
	target := sla.AssignmentTarget(c.Priority, c.ResolutionTargetDate, m.Now)
	c.AssignedTo = assignee
	c.AssignedDate = timePtr(m.Now)
	c.ResolutionTargetDate = &target
	c.Status = next

	c.Append(Activity{
		ID:               m.ActivityID,
		Type:             ActivityAssignmentChanged,
		Description:      fmt.Sprintf("Assigned to %s; resolution due %s", assignee, target.UTC().Format(time.RFC3339)),
		PerformedBy:      m.Actor.ID,
		PerformedByRole:  m.Actor.Role,
		Timestamp:        m.Now,
		IsInternal:       true,
		PreviousAssignee: prevAssignee,
		NewAssignee:      assignee,
		PreviousStatus:   prevStatus,
		NewStatus:        next,
		PreviousLevel:    c.EscalationLevel,
		NewLevel:         c.EscalationLevel,
	})

	var effs []effects.Effect
	if prevAssignee != "" && prevAssignee != assignee {
		effs = append(effs, effects.WorkloadTransferEffect{
			PreviousAssignee: prevAssignee,
			Category:         string(c.Category),
			Priority:         string(c.Priority),
			Reason:           "Manual assignment",
		})
	}
	effs = append(effs, effects.AssignmentNoticeEffect{CaseID: c.ID, NewAssignee: assignee})
	return effs, nil
}

// ApplyStatusChange moves the case to a manually requested status.
func ApplyStatusChange(c *Case, target, note string, m Mutation) ([]effects.Effect, error) {
	ev, err := EventForTarget(c.Status, target)
	if err != nil {
		return nil, err
	}
	desc := fmt.Sprintf("Status changed to %s", strings.ToUpper(target))
	if note != "" {
		desc += ": " + note
	}
	return applyTransition(c, ev, ActivityStatusChanged, desc, m)
}

// ResolveRequest carries the resolution details.
type ResolveRequest struct {
	Summary string
	Actions string
}

// ApplyResolution marks the case resolved.
func ApplyResolution(c *Case, req ResolveRequest, m Mutation) ([]effects.Effect, error) {
	if strings.TrimSpace(req.Summary) == "" {
		return nil, apperr.Validation("resolution_summary")
	}
	if !CanTransition(c.Status, EventResolve) {
		return nil, apperr.InvalidStatusTransition(fmt.Sprintf("case %s is %s and cannot be resolved", c.CaseNumber, c.Status))
	}
	c.ResolutionSummary = req.Summary
	c.ResolutionActions = req.Actions
	c.ResolutionDate = timePtr(m.Now)
	return applyTransition(c, EventResolve, ActivityCaseResolved, "Resolved: "+req.Summary, m)
}

// CloseRequest carries the complainant's final feedback.
type CloseRequest struct {
	Rating   int
	Feedback string
}

// ApplyClosure closes a resolved case.
func ApplyClosure(c *Case, req CloseRequest, m Mutation) ([]effects.Effect, error) {
	if guard := CanRecordSatisfaction(CloseContext{Rating: req.Rating}); !guard.Allowed {
		return nil, apperr.Validation("satisfaction_rating")
	}
	if !CanTransition(c.Status, EventClose) {
		return nil, apperr.InvalidStatusTransition(fmt.Sprintf("case %s is %s; only resolved cases can be closed", c.CaseNumber, c.Status))
	}
	c.SatisfactionRating = req.Rating
	c.Feedback = req.Feedback
	desc := "Case closed"
	if req.Rating > 0 {
		desc = fmt.Sprintf("Case closed with satisfaction %d/%d", req.Rating, MaxSatisfactionRating)
	}
	return applyTransition(c, EventClose, ActivityCaseClosed, desc, m)
}

// ApplyRejection rejects the case.
func ApplyRejection(c *Case, reason string, m Mutation) ([]effects.Effect, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperr.Validation("reason")
	}
	return applyTransition(c, EventReject, ActivityCaseRejected, "Rejected: "+reason, m)
}

// ApplyCancellation cancels the case.
func ApplyCancellation(c *Case, reason string, m Mutation) ([]effects.Effect, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperr.Validation("reason")
	}
	return applyTransition(c, EventCancel, ActivityCaseCancelled, "Cancelled: "+reason, m)
}

// ApplyReopen returns a resolved case to review. The escalation level is kept.
func ApplyReopen(c *Case, reason string, m Mutation) ([]effects.Effect, error) {
	desc := "Reopened"
	if reason != "" {
		desc += ": " + reason
	}
	effs, err := applyTransition(c, EventReopen, ActivityCaseReopened, desc, m)
	if err != nil {
		return nil, err
	}
	c.ResolutionDate = nil
	return effs, nil
}

func applyTransition(c *Case, ev Event, typ ActivityType, desc string, m Mutation) ([]effects.Effect, error) {
	next, err := Transition(c.Status, ev)
	if err != nil {
		return nil, err
	}
	prev := c.Status
	c.Status = next
	c.Append(Activity{
		ID:              m.ActivityID,
		Type:            typ,
		Description:     desc,
		PerformedBy:     m.Actor.ID,
		PerformedByRole: m.Actor.Role,
		Timestamp:       m.Now,
		PreviousStatus:  prev,
		NewStatus:       next,
		PreviousLevel:   c.EscalationLevel,
		NewLevel:        c.EscalationLevel,
	})
	return []effects.Effect{effects.StatusNoticeEffect{CaseID: c.ID, ActivityID: m.ActivityID}}, nil
}
