package grievance

import (
	"strings"
	"time"
)

// DefaultLookbackDays is the analytics window when none is configured.
const DefaultLookbackDays = 30

// TrendPoint is the escalation count for one UTC day.
type TrendPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// EscalationSummary aggregates escalations inside a window.
type EscalationSummary struct {
	Since                    time.Time              `json:"since"`
	Until                    time.Time              `json:"until"`
	TotalEscalations         int                    `json:"total_escalations"`
	ByCategory               map[Category]int       `json:"by_category"`
	ByLevel                  map[int]int            `json:"by_level"`
	ByType                   map[EscalationType]int `json:"by_type"`
	AverageHoursToEscalation float64                `json:"average_hours_to_escalation"`
	Trend                    []TrendPoint           `json:"trend"`
}

// SummarizeEscalations folds the escalated cases whose escalation date falls
// in [since, now]. Cases outside the window are ignored.
func SummarizeEscalations(cases []Case, since, now time.Time) EscalationSummary {
	s := EscalationSummary{
		Since:      since,
		Until:      now,
		ByCategory: make(map[Category]int),
		ByLevel:    make(map[int]int),
		ByType:     make(map[EscalationType]int),
	}

	first := utcDay(since)
	last := utcDay(now)
	buckets := make(map[string]int)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		buckets[d.Format(time.DateOnly)] = 0
	}

	var totalHours float64
	for _, c := range cases {
		if c.EscalationLevel <= 0 || c.EscalationDate == nil {
			continue
		}
		at := *c.EscalationDate
		if at.Before(since) || at.After(now) {
			continue
		}
		s.TotalEscalations++
		s.ByCategory[c.Category]++
		s.ByLevel[c.EscalationLevel]++
		s.ByType[c.EscalationType]++
		totalHours += at.Sub(c.SubmissionDate).Hours()
		buckets[utcDay(at).Format(time.DateOnly)]++
	}
	if s.TotalEscalations > 0 {
		s.AverageHoursToEscalation = totalHours / float64(s.TotalEscalations)
	}

	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		s.Trend = append(s.Trend, TrendPoint{Date: key, Count: buckets[key]})
	}
	return s
}

func utcDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// CaseFilter narrows a case listing. Zero values match everything.
type CaseFilter struct {
	Status        Status
	Category      Category
	Priority      Priority
	Channel       Channel
	AssignedTo    string
	EscalatedOnly bool
	Search        string // case-insensitive match on number, subject or complainant
	Limit         int
	Offset        int
}

// Matches reports whether c passes every set criterion. Paging is not applied.
func (f CaseFilter) Matches(c Case) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	if f.Priority != "" && c.Priority != f.Priority {
		return false
	}
	if f.Channel != "" && c.SubmissionChannel != f.Channel {
		return false
	}
	if f.AssignedTo != "" && c.AssignedTo != f.AssignedTo {
		return false
	}
	if f.EscalatedOnly && c.EscalationLevel == 0 {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(c.CaseNumber), q) &&
			!strings.Contains(strings.ToLower(c.Subject), q) &&
			!strings.Contains(strings.ToLower(c.ComplainantName), q) &&
			!strings.Contains(strings.ToLower(c.ComplainantID), q) {
			return false
		}
	}
	return true
}

// CaseStatistics is the operational snapshot of the case population.
type CaseStatistics struct {
	Total                  int              `json:"total"`
	ByStatus               map[Status]int   `json:"by_status"`
	ByCategory             map[Category]int `json:"by_category"`
	ByPriority             map[Priority]int `json:"by_priority"`
	ByChannel              map[Channel]int  `json:"by_channel"`
	Open                   int              `json:"open"`
	Overdue                int              `json:"overdue"`
	Escalated              int              `json:"escalated"`
	AverageResolutionHours float64          `json:"average_resolution_hours"`
}

// ComputeStatistics folds cases into a CaseStatistics as of now.
func ComputeStatistics(cases []Case, now time.Time) CaseStatistics {
	st := CaseStatistics{
		ByStatus:   make(map[Status]int),
		ByCategory: make(map[Category]int),
		ByPriority: make(map[Priority]int),
		ByChannel:  make(map[Channel]int),
	}
	var resolved int
	var hours float64
	for i := range cases {
		c := &cases[i]
		st.Total++
		st.ByStatus[c.Status]++
		st.ByCategory[c.Category]++
		st.ByPriority[c.Priority]++
		st.ByChannel[c.SubmissionChannel]++
		if c.IsOpen() {
			st.Open++
		}
		if c.IsOverdue(now) {
			st.Overdue++
		}
		if c.EscalationLevel > 0 {
			st.Escalated++
		}
		if c.ResolutionDate != nil {
			resolved++
			hours += c.ResolutionDate.Sub(c.SubmissionDate).Hours()
		}
	}
	if resolved > 0 {
		st.AverageResolutionHours = hours / float64(resolved)
	}
	return st
}
