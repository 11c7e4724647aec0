package grievance

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/example/grievance/internal/apperr"
	"github.com/example/grievance/internal/core/effects"
)

func fixtureCase(category Category, priority Priority, status Status, level int) Case {
	return Case{
		ID:              "case-1",
		CaseNumber:      "GRV-2026-N1-000001",
		ComplainantID:   "PSN-1",
		Category:        category,
		Priority:        priority,
		Status:          status,
		AssignedTo:      "officer-1",
		EscalationLevel: level,
		SubmissionDate:  testNow.Add(-72 * time.Hour),
	}
}

func decide(t *testing.T, c Case, trigger string) EscalationDecision {
	t.Helper()
	d, err := DecideEscalation(EscalationInput{
		Case:    c,
		Trigger: trigger,
		Reason:  "test",
		Now:     testNow,
		Ladders: DefaultLadderTable(),
		SLA:     DefaultSLAPolicy(),
	})
	if err != nil {
		t.Fatalf("DecideEscalation(%s) error = %v", trigger, err)
	}
	return d
}

func TestDecideEscalation_LevelRules(t *testing.T) {
	tests := []struct {
		trigger  Trigger
		start    int
		want     int
		wantType EscalationType
	}{
		{TriggerSLABreach, 0, 1, EscalationStandard},
		{TriggerSLABreach, 2, 3, EscalationStandard},
		{TriggerComplexity, 1, 2, EscalationStandard},
		{TriggerCriticalPriority, 0, 2, EscalationEmergency},
		{TriggerCriticalPriority, 2, 3, EscalationEmergency},
		{TriggerCustomerComplaint, 0, 1, EscalationStandard},
		{TriggerCustomerComplaint, 1, 2, EscalationStandard},
		{TriggerExternalPressure, 0, 2, EscalationManagement},
		{TriggerExternalPressure, 3, 4, EscalationManagement},
		{TriggerRepeatedEscalation, 0, 3, EscalationStandard},
		{TriggerRepeatedEscalation, 1, 3, EscalationStandard},
		{TriggerRepeatedEscalation, 5, 5, EscalationStandard},
	}
	for _, tt := range tests {
		t.Run(string(tt.trigger), func(t *testing.T) {
			d := decide(t, fixtureCase(CategoryServiceDelivery, PriorityMedium, StatusAssigned, tt.start), string(tt.trigger))
			if d.NewLevel != tt.want {
				t.Errorf("NewLevel = %d, want %d", d.NewLevel, tt.want)
			}
			if d.Type != tt.wantType {
				t.Errorf("Type = %s, want %s", d.Type, tt.wantType)
			}
			if d.PreviousLevel != tt.start {
				t.Errorf("PreviousLevel = %d, want %d", d.PreviousLevel, tt.start)
			}
		})
	}
}

func TestDecideEscalation_LevelNeverDecreases(t *testing.T) {
	for _, cat := range Categories {
		for _, trig := range Triggers {
			for start := 0; start <= 4; start++ {
				d := decide(t, fixtureCase(cat, PriorityHigh, StatusUnderReview, start), string(trig))
				switch {
				case trig == TriggerRepeatedEscalation:
					if d.NewLevel < start || d.NewLevel < 3 {
						t.Errorf("%s/%s from %d: NewLevel = %d", cat, trig, start, d.NewLevel)
					}
				case d.NewLevel <= start:
					t.Errorf("%s/%s from %d: NewLevel = %d, want > %d", cat, trig, start, d.NewLevel, start)
				}
				if d.NewAssignee == "" {
					t.Errorf("%s/%s from %d: empty assignee", cat, trig, start)
				}
			}
		}
	}
}

func TestDecideEscalation_Effects(t *testing.T) {
	t.Run("level 1 sends only the assignment notice", func(t *testing.T) {
		d := decide(t, fixtureCase(CategoryOther, PriorityLow, StatusAssigned, 0), string(TriggerSLABreach))
		if len(d.Effects) != 2 {
			t.Fatalf("expected 2 effects, got %d", len(d.Effects))
		}
		wt, ok := d.Effects[0].(effects.WorkloadTransferEffect)
		if !ok {
			t.Fatalf("first effect = %T, want WorkloadTransferEffect", d.Effects[0])
		}
		if wt.PreviousAssignee != "officer-1" || wt.Reason != "Escalation" {
			t.Errorf("workload transfer = %+v", wt)
		}
		if _, ok := d.Effects[1].(effects.AssignmentNoticeEffect); !ok {
			t.Errorf("second effect = %T, want AssignmentNoticeEffect", d.Effects[1])
		}
	})

	t.Run("level 2 adds one management notice", func(t *testing.T) {
		d := decide(t, fixtureCase(CategoryOther, PriorityLow, StatusAssigned, 1), string(TriggerSLABreach))
		if len(d.Effects) != 3 {
			t.Fatalf("expected 3 effects, got %d", len(d.Effects))
		}
		mn, ok := d.Effects[2].(effects.ManagementNoticeEffect)
		if !ok {
			t.Fatalf("third effect = %T, want ManagementNoticeEffect", d.Effects[2])
		}
		res, ok := mn.Payload.(EscalationResult)
		if !ok || res.NewLevel != 2 || res.Status != ResultSuccess {
			t.Errorf("management payload = %+v", mn.Payload)
		}
	})
}

func TestDecideEscalation_Errors(t *testing.T) {
	t.Run("unknown trigger", func(t *testing.T) {
		_, err := DecideEscalation(EscalationInput{
			Case:    fixtureCase(CategoryOther, PriorityLow, StatusAssigned, 0),
			Trigger: "BAD_MOOD",
			Now:     testNow,
			Ladders: DefaultLadderTable(),
			SLA:     DefaultSLAPolicy(),
		})
		if !errors.Is(err, apperr.ErrInvalidTrigger) {
			t.Errorf("error = %v, want InvalidTrigger", err)
		}
	})

	t.Run("trigger matching is exact", func(t *testing.T) {
		if _, err := ParseTrigger("sla_breach"); !errors.Is(err, apperr.ErrInvalidTrigger) {
			t.Errorf("ParseTrigger(lower case) error = %v, want InvalidTrigger", err)
		}
	})

	for _, st := range []Status{StatusResolved, StatusClosed, StatusRejected, StatusCancelled} {
		t.Run("closed lifecycle "+string(st), func(t *testing.T) {
			_, err := DecideEscalation(EscalationInput{
				Case:    fixtureCase(CategoryOther, PriorityLow, st, 0),
				Trigger: string(TriggerSLABreach),
				Now:     testNow,
				Ladders: DefaultLadderTable(),
				SLA:     DefaultSLAPolicy(),
			})
			if !errors.Is(err, apperr.ErrInvalidStatusTransition) {
				t.Errorf("error = %v, want InvalidStatusTransition", err)
			}
		})
	}
}

func TestScenarioA_SLABreachOnPaymentIssue(t *testing.T) {
	c := fixtureCase(CategoryPaymentIssue, PriorityMedium, StatusAssigned, 0)
	assigned := testNow.Add(-50 * time.Hour)
	target := assigned.Add(48 * time.Hour)
	c.AssignedDate = &assigned
	c.ResolutionTargetDate = &target

	d := decide(t, c, string(TriggerSLABreach))
	if err := ApplyEscalation(&c, d, "SLA breached", Actor{ID: "SYSTEM", Role: RoleSystem}, "act-1", testNow); err != nil {
		t.Fatalf("ApplyEscalation() error = %v", err)
	}

	if d.PreviousAssignee != "officer-1" {
		t.Errorf("PreviousAssignee = %q", d.PreviousAssignee)
	}
	if c.AssignedTo != "DOMAIN_SUPERVISOR" || c.EscalatedTo != c.AssignedTo {
		t.Errorf("AssignedTo = %q, EscalatedTo = %q", c.AssignedTo, c.EscalatedTo)
	}
	if c.EscalationLevel != 1 || c.Status != StatusEscalated {
		t.Errorf("level = %d, status = %s", c.EscalationLevel, c.Status)
	}
	notices := 0
	for _, e := range d.Effects {
		switch e.(type) {
		case effects.AssignmentNoticeEffect:
			notices++
		case effects.ManagementNoticeEffect:
			t.Error("unexpected management notice at level 1")
		}
	}
	if notices != 1 {
		t.Errorf("assignment notices = %d, want 1", notices)
	}
	if want := testNow.Add(48 * time.Hour); !c.ResolutionTargetDate.Equal(want) {
		t.Errorf("breached target should be renewed: got %v, want %v", c.ResolutionTargetDate, want)
	}
	if len(c.Activities) != 1 || c.Activities[0].Type != ActivityCaseEscalated {
		t.Fatalf("activities = %+v", c.Activities)
	}
	a := c.Activities[0]
	if a.PreviousAssignee != "officer-1" || a.NewAssignee != "DOMAIN_SUPERVISOR" || a.PreviousLevel != 0 || a.NewLevel != 1 {
		t.Errorf("activity = %+v", a)
	}
	wantTarget := "Target " + target.Format(time.RFC3339) + " → " + testNow.Add(48*time.Hour).Format(time.RFC3339) + "."
	if !strings.Contains(a.Description, wantTarget) {
		t.Errorf("Description = %q, want it to contain %q", a.Description, wantTarget)
	}
}

func TestScenarioB_CriticalCompression(t *testing.T) {
	c := fixtureCase(CategoryServiceDelivery, PriorityCritical, StatusUnderReview, 0)
	target := testNow.Add(20 * time.Hour)
	c.ResolutionTargetDate = &target

	d := decide(t, c, string(TriggerCriticalPriority))
	if err := ApplyEscalation(&c, d, "critical", Actor{ID: "u"}, "act-1", testNow); err != nil {
		t.Fatalf("ApplyEscalation() error = %v", err)
	}
	if !c.ResolutionTargetDate.Before(testNow.Add(15 * time.Hour)) {
		t.Errorf("target %v not before now+15h", c.ResolutionTargetDate)
	}
	if c.EscalationType != EscalationEmergency || c.EscalationLevel != 2 {
		t.Errorf("type = %s, level = %d", c.EscalationType, c.EscalationLevel)
	}
}

func TestScenarioD_RepeatedEscalationJumpsToTop(t *testing.T) {
	c := fixtureCase(CategoryCorruption, PriorityHigh, StatusEscalated, 1)
	d := decide(t, c, string(TriggerRepeatedEscalation))
	if err := ApplyEscalation(&c, d, "again", Actor{ID: "u"}, "act-1", testNow); err != nil {
		t.Fatalf("ApplyEscalation() error = %v", err)
	}
	if c.EscalationLevel != 3 || c.AssignedTo != "INSPECTOR_GENERAL" {
		t.Errorf("level = %d, assignee = %q", c.EscalationLevel, c.AssignedTo)
	}
}

func TestApplyEscalation_RejectsLevelDecrease(t *testing.T) {
	c := fixtureCase(CategoryOther, PriorityLow, StatusEscalated, 3)
	d := EscalationDecision{NewLevel: 2, NewAssignee: "X"}
	if err := ApplyEscalation(&c, d, "", Actor{}, "a", testNow); err == nil {
		t.Fatal("expected error for decreasing level")
	}
	if c.EscalationLevel != 3 || len(c.Activities) != 0 {
		t.Errorf("case mutated on failure: %+v", c)
	}
}
