package grievance

import (
	"testing"
	"time"
)

func escalatedCase(cat Category, level int, typ EscalationType, submitted, escalated time.Time) Case {
	return Case{
		Category:        cat,
		Status:          StatusEscalated,
		EscalationLevel: level,
		EscalationType:  typ,
		SubmissionDate:  submitted,
		EscalationDate:  &escalated,
	}
}

func TestSummarizeEscalations(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	since := now.AddDate(0, 0, -DefaultLookbackDays)

	cases := []Case{
		escalatedCase(CategoryCorruption, 1, EscalationStandard, now.Add(-30*time.Hour), now.Add(-20*time.Hour)),
		escalatedCase(CategoryCorruption, 2, EscalationEmergency, now.Add(-50*time.Hour), now.Add(-20*time.Hour)),
		escalatedCase(CategoryOther, 3, EscalationManagement, now.Add(-72*time.Hour), now.Add(-2*time.Hour)),
		// outside the window
		escalatedCase(CategoryOther, 1, EscalationStandard, now.AddDate(0, 0, -60), now.AddDate(0, 0, -40)),
		// never escalated
		{Category: CategoryOther, Status: StatusAssigned, SubmissionDate: now},
	}

	s := SummarizeEscalations(cases, since, now)
	if s.TotalEscalations != 3 {
		t.Fatalf("TotalEscalations = %d, want 3", s.TotalEscalations)
	}
	if s.ByCategory[CategoryCorruption] != 2 || s.ByCategory[CategoryOther] != 1 {
		t.Errorf("ByCategory = %v", s.ByCategory)
	}
	if s.ByLevel[1] != 1 || s.ByLevel[2] != 1 || s.ByLevel[3] != 1 {
		t.Errorf("ByLevel = %v", s.ByLevel)
	}
	if s.ByType[EscalationEmergency] != 1 {
		t.Errorf("ByType = %v", s.ByType)
	}
	if want := (10.0 + 30.0 + 70.0) / 3; s.AverageHoursToEscalation != want {
		t.Errorf("AverageHoursToEscalation = %v, want %v", s.AverageHoursToEscalation, want)
	}

	if len(s.Trend) != DefaultLookbackDays+1 {
		t.Fatalf("Trend has %d buckets, want %d", len(s.Trend), DefaultLookbackDays+1)
	}
	last := s.Trend[len(s.Trend)-1]
	if last.Date != "2026-03-10" || last.Count != 1 {
		t.Errorf("last bucket = %+v", last)
	}
	prev := s.Trend[len(s.Trend)-2]
	if prev.Date != "2026-03-09" || prev.Count != 2 {
		t.Errorf("previous bucket = %+v", prev)
	}
	if s.Trend[0].Count != 0 {
		t.Errorf("first bucket = %+v, want zero-filled", s.Trend[0])
	}
}

func TestSummarizeEscalations_Empty(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	s := SummarizeEscalations(nil, now.AddDate(0, 0, -7), now)
	if s.TotalEscalations != 0 || s.AverageHoursToEscalation != 0 {
		t.Errorf("summary = %+v", s)
	}
	if len(s.Trend) != 8 {
		t.Errorf("Trend buckets = %d, want 8", len(s.Trend))
	}
}

func TestCaseFilter_Matches(t *testing.T) {
	c := Case{
		CaseNumber:        "GRV-2026-N1-000007",
		Subject:           "Broken portal login",
		Status:            StatusAssigned,
		Category:          CategorySystemError,
		Priority:          PriorityHigh,
		SubmissionChannel: ChannelWeb,
		AssignedTo:        "officer-1",
	}
	tests := []struct {
		name   string
		filter CaseFilter
		want   bool
	}{
		{"empty", CaseFilter{}, true},
		{"status", CaseFilter{Status: StatusAssigned}, true},
		{"wrong status", CaseFilter{Status: StatusClosed}, false},
		{"category and priority", CaseFilter{Category: CategorySystemError, Priority: PriorityHigh}, true},
		{"channel", CaseFilter{Channel: ChannelEmail}, false},
		{"assignee", CaseFilter{AssignedTo: "officer-1"}, true},
		{"escalated only", CaseFilter{EscalatedOnly: true}, false},
		{"search subject", CaseFilter{Search: "PORTAL"}, true},
		{"search number", CaseFilter{Search: "000007"}, true},
		{"search miss", CaseFilter{Search: "water"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(c); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeStatistics(t *testing.T) {
	now := testNow
	past := now.Add(-time.Hour)
	resolvedAt := now.Add(-10 * time.Hour)
	cases := []Case{
		{Status: StatusAssigned, Category: CategoryOther, Priority: PriorityLow, SubmissionChannel: ChannelWeb, ResolutionTargetDate: &past},
		{Status: StatusEscalated, Category: CategoryOther, Priority: PriorityHigh, SubmissionChannel: ChannelPhone, EscalationLevel: 1},
		{Status: StatusResolved, Category: CategoryCorruption, Priority: PriorityLow, SubmissionChannel: ChannelWeb,
			SubmissionDate: now.Add(-30 * time.Hour), ResolutionDate: &resolvedAt, ResolutionTargetDate: &past},
	}
	st := ComputeStatistics(cases, now)
	if st.Total != 3 || st.Open != 2 || st.Overdue != 1 || st.Escalated != 1 {
		t.Errorf("stats = %+v", st)
	}
	if st.ByChannel[ChannelWeb] != 2 || st.ByStatus[StatusResolved] != 1 {
		t.Errorf("breakdowns = %+v", st)
	}
	if st.AverageResolutionHours != 20 {
		t.Errorf("AverageResolutionHours = %v, want 20", st.AverageResolutionHours)
	}
}
