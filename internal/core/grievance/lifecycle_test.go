package grievance

import (
	"errors"
	"testing"
	"time"

	"github.com/example/grievance/internal/apperr"
	"github.com/example/grievance/internal/core/effects"
)

var testMutation = Mutation{Actor: Actor{ID: "clerk-1", Role: "CASE_OFFICER"}, ActivityID: "act-1", Now: testNow}

func TestApplyAssignment(t *testing.T) {
	sla := DefaultSLAPolicy()

	t.Run("first assignment sets target and notifies", func(t *testing.T) {
		c := fixtureCase(CategoryOther, PriorityHigh, StatusSubmitted, 0)
		c.AssignedTo = ""
		effs, err := ApplyAssignment(&c, "officer-2", sla, testMutation)
		if err != nil {
			t.Fatalf("ApplyAssignment() error = %v", err)
		}
		if c.Status != StatusAssigned || c.AssignedTo != "officer-2" {
			t.Errorf("status = %s, assignee = %s", c.Status, c.AssignedTo)
		}
		if !c.ResolutionTargetDate.Equal(testNow.Add(36 * time.Hour)) {
			t.Errorf("target = %v", c.ResolutionTargetDate)
		}
		if len(effs) != 1 {
			t.Fatalf("effects = %v, want only the assignment notice", effs)
		}
		if _, ok := effs[0].(effects.AssignmentNoticeEffect); !ok {
			t.Errorf("effect = %T", effs[0])
		}
	})

	t.Run("reassignment keeps a live target and frees workload", func(t *testing.T) {
		c := fixtureCase(CategoryOther, PriorityLow, StatusUnderReview, 0)
		live := testNow.Add(5 * time.Hour)
		c.ResolutionTargetDate = &live
		effs, err := ApplyAssignment(&c, "officer-2", sla, testMutation)
		if err != nil {
			t.Fatalf("ApplyAssignment() error = %v", err)
		}
		if !c.ResolutionTargetDate.Equal(live) {
			t.Errorf("live target extended to %v", c.ResolutionTargetDate)
		}
		wt, ok := effs[0].(effects.WorkloadTransferEffect)
		if !ok || wt.PreviousAssignee != "officer-1" || wt.Reason != "Manual assignment" {
			t.Errorf("first effect = %#v", effs[0])
		}
		a := c.Activities[0]
		if a.Type != ActivityAssignmentChanged || a.PreviousAssignee != "officer-1" || a.NewAssignee != "officer-2" {
			t.Errorf("activity = %+v", a)
		}
	})

	t.Run("escalated cases stay escalated", func(t *testing.T) {
		c := fixtureCase(CategoryOther, PriorityLow, StatusEscalated, 1)
		if _, err := ApplyAssignment(&c, "officer-2", sla, testMutation); err != nil {
			t.Fatalf("ApplyAssignment() error = %v", err)
		}
		if c.Status != StatusEscalated || c.EscalationLevel != 1 {
			t.Errorf("status = %s, level = %d", c.Status, c.EscalationLevel)
		}
	})

	t.Run("empty assignee", func(t *testing.T) {
		c := fixtureCase(CategoryOther, PriorityLow, StatusSubmitted, 0)
		if _, err := ApplyAssignment(&c, "", sla, testMutation); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("error = %v, want validation failure", err)
		}
	})

	t.Run("closed case", func(t *testing.T) {
		c := fixtureCase(CategoryOther, PriorityLow, StatusClosed, 0)
		if _, err := ApplyAssignment(&c, "x", sla, testMutation); !errors.Is(err, apperr.ErrInvalidStatusTransition) {
			t.Errorf("error = %v, want InvalidStatusTransition", err)
		}
		if len(c.Activities) != 0 {
			t.Error("activity appended on failure")
		}
	})
}

func TestResolveCloseReopen(t *testing.T) {
	c := fixtureCase(CategoryOther, PriorityLow, StatusUnderReview, 0)

	if _, err := ApplyResolution(&c, ResolveRequest{}, testMutation); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("resolve without summary error = %v", err)
	}
	if _, err := ApplyClosure(&c, CloseRequest{Rating: 4}, testMutation); !errors.Is(err, apperr.ErrInvalidStatusTransition) {
		t.Fatalf("close unresolved error = %v", err)
	}

	effs, err := ApplyResolution(&c, ResolveRequest{Summary: "Payment reissued"}, testMutation)
	if err != nil {
		t.Fatalf("ApplyResolution() error = %v", err)
	}
	if c.Status != StatusResolved || c.ResolutionDate == nil {
		t.Errorf("status = %s, resolution date = %v", c.Status, c.ResolutionDate)
	}
	if _, ok := effs[0].(effects.StatusNoticeEffect); !ok {
		t.Errorf("effect = %T", effs[0])
	}

	if _, err := ApplyReopen(&c, "still unpaid", testMutation); err != nil {
		t.Fatalf("ApplyReopen() error = %v", err)
	}
	if c.Status != StatusUnderReview || c.ResolutionDate != nil {
		t.Errorf("after reopen status = %s, resolution date = %v", c.Status, c.ResolutionDate)
	}

	if _, err := ApplyResolution(&c, ResolveRequest{Summary: "Paid"}, testMutation); err != nil {
		t.Fatal(err)
	}
	if _, err := ApplyClosure(&c, CloseRequest{Rating: 6}, testMutation); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("rating 6 error = %v", err)
	}
	if _, err := ApplyClosure(&c, CloseRequest{Rating: 5, Feedback: "great"}, testMutation); err != nil {
		t.Fatalf("ApplyClosure() error = %v", err)
	}
	if c.Status != StatusClosed || c.SatisfactionRating != 5 {
		t.Errorf("status = %s, rating = %d", c.Status, c.SatisfactionRating)
	}

	// resolve, reopen, resolve, close: exactly one activity per successful mutation
	if len(c.Activities) != 4 {
		t.Errorf("activities = %d, want 4", len(c.Activities))
	}
}

func TestRejectAndCancel(t *testing.T) {
	c := fixtureCase(CategoryOther, PriorityLow, StatusSubmitted, 0)
	if _, err := ApplyRejection(&c, " ", testMutation); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("reject without reason error = %v", err)
	}
	if _, err := ApplyRejection(&c, "duplicate", testMutation); err != nil {
		t.Fatalf("ApplyRejection() error = %v", err)
	}
	if c.Status != StatusRejected {
		t.Errorf("status = %s", c.Status)
	}
	if _, err := ApplyCancellation(&c, "withdrawn", testMutation); !errors.Is(err, apperr.ErrInvalidStatusTransition) {
		t.Errorf("cancel rejected case error = %v", err)
	}

	p := fixtureCase(CategoryOther, PriorityLow, StatusPendingResponse, 0)
	if _, err := ApplyRejection(&p, "spam", testMutation); !errors.Is(err, apperr.ErrInvalidStatusTransition) {
		t.Errorf("reject pending case error = %v", err)
	}
	if _, err := ApplyCancellation(&p, "withdrawn", testMutation); err != nil {
		t.Errorf("cancel pending case error = %v", err)
	}
}

func TestApplyStatusChange(t *testing.T) {
	c := fixtureCase(CategoryOther, PriorityLow, StatusAssigned, 0)
	if _, err := ApplyStatusChange(&c, "UNDER_REVIEW", "picked up", testMutation); err != nil {
		t.Fatalf("ApplyStatusChange() error = %v", err)
	}
	a := c.Activities[0]
	if a.Type != ActivityStatusChanged || a.PreviousStatus != StatusAssigned || a.NewStatus != StatusUnderReview {
		t.Errorf("activity = %+v", a)
	}
	if _, err := ApplyStatusChange(&c, "RESOLVED", "", testMutation); !errors.Is(err, apperr.ErrInvalidStatusTransition) {
		t.Errorf("dedicated status error = %v", err)
	}
}
