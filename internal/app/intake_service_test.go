package app

import (
	"context"
	"errors"
	"testing"

	"github.com/example/grievance/internal/apperr"
	"github.com/example/grievance/internal/core/grievance"
	"github.com/example/grievance/internal/ports/primary"
)

func submitRequest(channel string, cc grievance.ChannelContext) primary.SubmitCaseRequest {
	return primary.SubmitCaseRequest{
		Channel: channel,
		Case: grievance.SubmitRequest{
			ComplainantID:    "PSN-1001",
			ComplainantName:  "Jane Doe",
			ComplainantEmail: "jane@example.org",
			Subject:          "Late benefit payment",
			Description:      "My March payment has not arrived.",
			Category:         "PAYMENT_ISSUE",
		},
		Context: cc,
	}
}

func TestSubmit_ScenarioC_EveryChannel(t *testing.T) {
	env := newTestEnv()
	intake := NewIntakeService(env.rt, env.numbers)
	cases := NewCaseService(env.rt)

	channels := []struct {
		channel string
		cc      grievance.ChannelContext
	}{
		{"WEB", grievance.ChannelContext{IPAddress: "10.0.0.1"}},
		{"MOBILE", grievance.ChannelContext{DeviceID: "dev-1"}},
		{"PHONE", grievance.ChannelContext{OperatorID: "OP-7", CallReference: "CALL-1"}},
		{"EMAIL", grievance.ChannelContext{OriginalSubject: "Help", OriginalBody: "Body"}},
		{"WALK_IN", grievance.ChannelContext{ReceivingOfficer: "FD-3", OfficeLocation: "Main St"}},
	}

	seen := make(map[string]bool)
	for _, ch := range channels {
		t.Run(ch.channel, func(t *testing.T) {
			created, err := intake.Submit(context.Background(), submitRequest(ch.channel, ch.cc))
			if err != nil {
				t.Fatalf("Submit() error = %v", err)
			}
			if seen[created.CaseNumber] {
				t.Fatalf("duplicate case number %s", created.CaseNumber)
			}
			seen[created.CaseNumber] = true

			got, err := cases.GetCaseByNumber(context.Background(), created.CaseNumber)
			if err != nil {
				t.Fatalf("GetCaseByNumber() error = %v", err)
			}
			if string(got.SubmissionChannel) != ch.channel {
				t.Errorf("SubmissionChannel = %s, want %s", got.SubmissionChannel, ch.channel)
			}
			if len(got.Activities) == 0 || got.Activities[0].Type != grievance.ActivityCaseCreated {
				t.Errorf("first activity = %+v", got.Activities)
			}
		})
	}

	if len(env.hook.created) != len(channels) {
		t.Errorf("workflow hook calls = %d, want %d", len(env.hook.created), len(channels))
	}
	if _, ok := seen["GRV-2026-N1-000005"]; !ok {
		t.Errorf("case numbers = %v, want a gapless sequence", seen)
	}
}

func TestSubmit_ValidationWritesNothing(t *testing.T) {
	env := newTestEnv()
	intake := NewIntakeService(env.rt, env.numbers)

	req := submitRequest("PHONE", grievance.ChannelContext{})
	req.Case.Subject = ""
	_, err := intake.Submit(context.Background(), req)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("Submit() error = %v, want validation failure", err)
	}
	fields := apperr.FieldsOf(err)
	if len(fields) != 2 || fields[0] != "subject" || fields[1] != "operator_id" {
		t.Errorf("fields = %v", fields)
	}
	if env.repo.writes() != 0 || len(env.hook.created) != 0 {
		t.Error("validation failure produced writes or hooks")
	}

	created, err := intake.Submit(context.Background(), submitRequest("WEB", grievance.ChannelContext{}))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if created.CaseNumber != "GRV-2026-N1-000001" {
		t.Errorf("CaseNumber = %s, want the first number of the sequence", created.CaseNumber)
	}
}

func TestSubmit_HookFailureIsSwallowed(t *testing.T) {
	env := newTestEnv()
	env.hook.err = errors.New("workflow engine unavailable")

	created, err := NewIntakeService(env.rt, env.numbers).Submit(context.Background(), submitRequest("WEB", grievance.ChannelContext{}))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := env.repo.FindByID(context.Background(), created.ID); err != nil {
		t.Errorf("case not persisted: %v", err)
	}
}
