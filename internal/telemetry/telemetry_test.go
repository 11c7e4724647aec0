package telemetry

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"":      zapcore.InfoLevel,
		"loud":  zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		logger, err := NewLogger("debug", format, "grievance-test")
		if err != nil {
			t.Fatalf("NewLogger(%s) error = %v", format, err)
		}
		if !logger.Core().Enabled(zapcore.DebugLevel) {
			t.Errorf("NewLogger(%s) debug not enabled", format)
		}
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	m.CaseSubmitted("WEB")
	m.CaseSubmitted("WEB")
	m.Escalated("SLA_BREACH", "STANDARD")
	m.EffectFailed("assignment_notice")
	m.Communication("OUTBOUND", "SMS", "FAILED")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`grievance_cases_submitted_total{channel="WEB"} 2`,
		`grievance_effect_failures_total{effect="assignment_notice"} 1`,
		`grievance_escalations_total{trigger="SLA_BREACH",type="STANDARD"} 1`,
		`grievance_communications_total{channel="SMS",direction="OUTBOUND",outcome="FAILED"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %s:\n%s", want, body)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.CaseSubmitted("WEB")
	m.Escalated("x", "y")
	m.EffectFailed("z")
	m.Communication("a", "b", "c")
}
