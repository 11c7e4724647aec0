package app

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/example/grievance/internal/core/effects"
	"github.com/example/grievance/internal/core/grievance"
	"github.com/example/grievance/internal/telemetry"
)

type unknownEffect struct{}

func (unknownEffect) EffectType() string { return "unknown" }

func TestEffectExecutor_RunsEveryEffectAndCountsFailures(t *testing.T) {
	dispatcher := &mockDispatcher{err: errors.New("down")}
	advisor := &mockAdvisor{}
	hook := &mockHook{}
	metrics := telemetry.NewMetrics()
	exec := NewEffectExecutor(dispatcher, advisor, hook, zap.NewNop(), metrics)

	c := &grievance.Case{ID: "c1", CaseNumber: "GRV-2026-N1-000001",
		Activities: []grievance.Activity{{ID: "a1", NewStatus: grievance.StatusResolved}}}

	exec.Execute(context.Background(), c, []effects.Effect{
		effects.WorkloadTransferEffect{PreviousAssignee: "officer-1", Reason: "Escalation"},
		effects.AssignmentNoticeEffect{CaseID: "c1", NewAssignee: "boss"},
		effects.StatusNoticeEffect{CaseID: "c1", ActivityID: "a1"},
		effects.CommunicationReceivedEffect{CaseID: "c1", ActivityID: "missing"},
		effects.ManagementNoticeEffect{CaseID: "c1", Payload: "not a result"},
		effects.WorkflowHookEffect{CaseID: "c1"},
		effects.LogEffect{Level: "info", Message: "done", Fields: map[string]any{"k": 1}},
		unknownEffect{},
	})

	if len(advisor.transfers) != 1 || len(hook.created) != 1 {
		t.Errorf("advisor = %d, hook = %d", len(advisor.transfers), len(hook.created))
	}
	if len(dispatcher.assignments) != 1 || len(dispatcher.statusNotices) != 1 {
		t.Errorf("dispatcher assignments = %d, status notices = %d", len(dispatcher.assignments), len(dispatcher.statusNotices))
	}
	if len(dispatcher.communications) != 0 || len(dispatcher.management) != 0 {
		t.Error("effects with bad data reached the dispatcher")
	}

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`grievance_effect_failures_total{effect="assignment_notice"} 1`,
		`grievance_effect_failures_total{effect="status_notice"} 1`,
		`grievance_effect_failures_total{effect="communication_received"} 1`,
		`grievance_effect_failures_total{effect="management_notice"} 1`,
		`grievance_effect_failures_total{effect="unknown"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestEffectExecutor_LogEffectWritesAtLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	exec := NewEffectExecutor(&mockDispatcher{}, &mockAdvisor{}, &mockHook{}, zap.New(core), telemetry.NewMetrics())
	c := &grievance.Case{ID: "c1", CaseNumber: "GRV-2026-N1-000001"}

	exec.Execute(context.Background(), c, []effects.Effect{
		effects.LogEffect{Level: "info", Message: "complainant indicated satisfaction", Fields: map[string]any{"activity_id": "a1"}},
		effects.LogEffect{Level: "debug", Message: "below threshold"},
	})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if entries[0].Message != "complainant indicated satisfaction" || fields["case_number"] != "GRV-2026-N1-000001" || fields["activity_id"] != "a1" {
		t.Errorf("entry = %+v", entries[0])
	}
}
