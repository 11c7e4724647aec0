package version

import "testing"

func TestString(t *testing.T) {
	Version, Commit, BuildTime = "1.2.0", "0123456789abcdef", "2026-10-14"
	if got, want := String(), "grievance 1.2.0 (commit: 0123456, built: 2026-10-14)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
