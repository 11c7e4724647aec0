package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/fatih/color"
)

var testConfigPath string

func TestMain(m *testing.M) {
	color.NoColor = true
	dir, err := os.MkdirTemp("", "grievance-cli")
	if err != nil {
		panic(err)
	}
	testConfigPath = filepath.Join(dir, "config.yaml")
	os.Setenv("GRIEVANCE_DB_DSN", filepath.Join(dir, "grievance.db"))
	os.Setenv("GRIEVANCE_LOG_LEVEL", "error")

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := RootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(append([]string{"--config", testConfigPath}, args...))
	err := root.Execute()
	return out.String(), err
}

var caseIDPattern = regexp.MustCompile(`ID:\s+(\S+)`)

func TestCaseCommands(t *testing.T) {
	out, err := run(t, "init")
	if err != nil {
		t.Fatalf("init error = %v\n%s", err, out)
	}
	if _, err := os.Stat(testConfigPath); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	out, err = run(t, "--actor", "clerk-1", "--role", "OFFICER", "case", "submit",
		"--channel", "WALK_IN", "--officer", "FD-3", "--office", "Main St",
		"--complainant", "PSN-1001", "--subject", "Rude staff", "--description", "Shouted at the front desk",
		"--category", "STAFF_CONDUCT")
	if err != nil {
		t.Fatalf("submit error = %v\n%s", err, out)
	}
	m := caseIDPattern.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("no case id in output:\n%s", out)
	}
	id := m[1]

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"case", "assign", id, "officer-1"}, "is now ASSIGNED"},
		{[]string{"case", "escalate", id, "--trigger", "COMPLEXITY", "--reason", "needs HR"}, "officer-1 → HR_MANAGER"},
		{[]string{"comm", "receive", id, "--channel", "EMAIL", "--content", "Any update? Please call me."}, "Recorded inbound EMAIL message"},
		{[]string{"comm", "send", id, "--channel", "SMS", "--recipient", "+15550100", "--content", "Reviewing"}, "Outbound SMS message recorded"},
		{[]string{"case", "show", id}, "Escalation:  level 1 (STANDARD) to HR_MANAGER"},
		{[]string{"case", "list", "--escalated"}, "STAFF_CONDUCT"},
		{[]string{"case", "timeline", id}, "CASE_ESCALATED"},
		{[]string{"case", "stats"}, "Total: 1"},
		{[]string{"analytics", "escalations"}, "STAFF_CONDUCT"},
	}
	for _, s := range steps {
		out, err := run(t, s.args...)
		if err != nil {
			t.Fatalf("%v error = %v\n%s", s.args, err, out)
		}
		if !strings.Contains(out, s.want) {
			t.Errorf("%v output missing %q:\n%s", s.args, s.want, out)
		}
	}

	if _, err := run(t, "case", "escalate", id, "--trigger", "BAD_MOOD"); err == nil || !strings.Contains(err.Error(), "INVALID_TRIGGER") {
		t.Errorf("bad trigger error = %v", err)
	}
	if _, err := run(t, "case", "reject", id); err == nil {
		t.Error("reject without --reason succeeded")
	}
	if _, err := run(t, "notifications", "recent"); err == nil {
		t.Error("notifications recent succeeded without redis")
	}
}
