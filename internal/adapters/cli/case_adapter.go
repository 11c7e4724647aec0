// Package cli renders service results for the terminal.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/example/grievance/internal/apperr"
	"github.com/example/grievance/internal/core/grievance"
	"github.com/example/grievance/internal/ports/primary"
)

const timeFormat = "2006-01-02 15:04"

// CaseAdapter translates CLI case operations to service calls and prints
// the results.
type CaseAdapter struct {
	intake      primary.IntakeService
	cases       primary.CaseService
	escalations primary.EscalationService
	out         io.Writer
	now         func() time.Time
}

// NewCaseAdapter creates a new CaseAdapter writing to out.
func NewCaseAdapter(intake primary.IntakeService, cases primary.CaseService, escalations primary.EscalationService, out io.Writer) *CaseAdapter {
	return &CaseAdapter{
		intake:      intake,
		cases:       cases,
		escalations: escalations,
		out:         out,
		now:         time.Now,
	}
}

// Submit files a new case.
func (a *CaseAdapter) Submit(ctx context.Context, req primary.SubmitCaseRequest) (*grievance.Case, error) {
	c, err := a.intake.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Submitted case %s\n", c.CaseNumber)
	fmt.Fprintf(a.out, "  ID:       %s\n", c.ID)
	fmt.Fprintf(a.out, "  Priority: %s\n", priorityBadge(c.Priority))
	fmt.Fprintf(a.out, "  Status:   %s\n", statusBadge(c.Status))
	return c, nil
}

// Show prints a case looked up by ID, falling back to its case number.
func (a *CaseAdapter) Show(ctx context.Context, ref string) (*grievance.Case, error) {
	c, err := a.cases.GetCase(ctx, ref)
	if errors.Is(err, apperr.ErrNotFound) {
		c, err = a.cases.GetCaseByNumber(ctx, ref)
	}
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nCase: %s (%s)\n", c.CaseNumber, c.ID)
	fmt.Fprintf(a.out, "Subject:     %s\n", c.Subject)
	fmt.Fprintf(a.out, "Category:    %s\n", c.Category)
	fmt.Fprintf(a.out, "Priority:    %s\n", priorityBadge(c.Priority))
	fmt.Fprintf(a.out, "Status:      %s%s\n", statusBadge(c.Status), a.overdue(c))
	fmt.Fprintf(a.out, "Channel:     %s\n", c.SubmissionChannel)
	if c.Anonymous {
		fmt.Fprintln(a.out, "Complainant: (anonymous)")
	} else {
		fmt.Fprintf(a.out, "Complainant: %s %s\n", c.ComplainantID, c.ComplainantName)
	}
	if c.AssignedTo != "" {
		fmt.Fprintf(a.out, "Assigned to: %s\n", c.AssignedTo)
	}
	if c.EscalationLevel > 0 {
		fmt.Fprintf(a.out, "Escalation:  level %d (%s) to %s\n", c.EscalationLevel, c.EscalationType, c.EscalatedTo)
	}
	fmt.Fprintf(a.out, "Submitted:   %s\n", c.SubmissionDate.Format(timeFormat))
	if c.ResolutionTargetDate != nil {
		fmt.Fprintf(a.out, "Target:      %s\n", c.ResolutionTargetDate.Format(timeFormat))
	}
	if c.ResolutionSummary != "" {
		fmt.Fprintf(a.out, "Resolution:  %s\n", c.ResolutionSummary)
	}
	if c.SatisfactionRating > 0 {
		fmt.Fprintf(a.out, "Rating:      %d/5\n", c.SatisfactionRating)
	}
	fmt.Fprintln(a.out)
	return c, nil
}

// List prints the cases matching filters.
func (a *CaseAdapter) List(ctx context.Context, filters primary.CaseFilters) ([]*grievance.Case, error) {
	cases, err := a.cases.ListCases(ctx, filters)
	if err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		fmt.Fprintln(a.out, "No cases found.")
		return cases, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tPRIORITY\tSTATUS\tCATEGORY\tASSIGNED\tSUBJECT")
	fmt.Fprintln(w, "------\t--------\t------\t--------\t--------\t-------")
	for _, c := range cases {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.CaseNumber,
			priorityBadge(c.Priority),
			statusBadge(c.Status)+a.overdue(c),
			c.Category,
			orDash(c.AssignedTo),
			truncate(c.Subject, 40),
		)
	}
	w.Flush()
	return cases, nil
}

// Timeline prints the activity log of a case.
func (a *CaseAdapter) Timeline(ctx context.Context, id string) ([]grievance.Activity, error) {
	acts, err := a.cases.GetTimeline(ctx, id)
	if err != nil {
		return nil, err
	}
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tTYPE\tBY\tDETAIL")
	for _, act := range acts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			act.Timestamp.Format(timeFormat), act.Type, act.PerformedBy, activityDetail(act))
	}
	w.Flush()
	return acts, nil
}

// Stats prints the population snapshot.
func (a *CaseAdapter) Stats(ctx context.Context) (*grievance.CaseStatistics, error) {
	st, err := a.cases.GetStatistics(ctx)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "Total: %d  Open: %d  Overdue: %d  Escalated: %d\n", st.Total, st.Open, st.Overdue, st.Escalated)
	if st.AverageResolutionHours > 0 {
		fmt.Fprintf(a.out, "Average resolution: %.1fh\n", st.AverageResolutionHours)
	}
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTATUS\tCOUNT")
	for _, s := range grievance.Statuses {
		if n := st.ByStatus[s]; n > 0 {
			fmt.Fprintf(w, "%s\t%d\n", statusBadge(s), n)
		}
	}
	w.Flush()
	return st, nil
}

// Assign assigns a case.
func (a *CaseAdapter) Assign(ctx context.Context, id, assignee string) (*grievance.Case, error) {
	return a.transition(a.cases.AssignCase(ctx, id, assignee))
}

// ChangeStatus requests a manual status change.
func (a *CaseAdapter) ChangeStatus(ctx context.Context, id, status, note string) (*grievance.Case, error) {
	return a.transition(a.cases.ChangeStatus(ctx, id, status, note))
}

// Resolve resolves a case.
func (a *CaseAdapter) Resolve(ctx context.Context, id, summary, actions string) (*grievance.Case, error) {
	return a.transition(a.cases.ResolveCase(ctx, id, summary, actions))
}

// Close closes a resolved case.
func (a *CaseAdapter) Close(ctx context.Context, id string, rating int, feedback string) (*grievance.Case, error) {
	return a.transition(a.cases.CloseCase(ctx, id, rating, feedback))
}

// Reject rejects a case.
func (a *CaseAdapter) Reject(ctx context.Context, id, reason string) (*grievance.Case, error) {
	return a.transition(a.cases.RejectCase(ctx, id, reason))
}

// Cancel cancels a case.
func (a *CaseAdapter) Cancel(ctx context.Context, id, reason string) (*grievance.Case, error) {
	return a.transition(a.cases.CancelCase(ctx, id, reason))
}

// Reopen reopens a resolved case.
func (a *CaseAdapter) Reopen(ctx context.Context, id, reason string) (*grievance.Case, error) {
	return a.transition(a.cases.ReopenCase(ctx, id, reason))
}

// Escalate escalates a case and prints where it went.
func (a *CaseAdapter) Escalate(ctx context.Context, req primary.EscalateRequest) (*grievance.EscalationResult, error) {
	res, err := a.escalations.Escalate(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Escalated %s to level %d (%s)\n", res.CaseNumber, res.NewLevel, res.EscalationType)
	fmt.Fprintf(a.out, "  %s → %s\n", orDash(res.PreviousAssignee), res.NewAssignee)
	if res.NewTargetDate != nil {
		fmt.Fprintf(a.out, "  New target: %s\n", res.NewTargetDate.Format(timeFormat))
	}
	return res, nil
}

func (a *CaseAdapter) transition(c *grievance.Case, err error) (*grievance.Case, error) {
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Case %s is now %s\n", c.CaseNumber, statusBadge(c.Status))
	if c.AssignedTo != "" {
		fmt.Fprintf(a.out, "  Assigned to: %s\n", c.AssignedTo)
	}
	return c, nil
}

func (a *CaseAdapter) overdue(c *grievance.Case) string {
	if c.IsOverdue(a.now()) {
		return color.New(color.FgRed).Sprint(" [overdue]")
	}
	return ""
}

func activityDetail(act grievance.Activity) string {
	switch {
	case act.NewLevel > act.PreviousLevel:
		return fmt.Sprintf("level %d → %d, %s", act.PreviousLevel, act.NewLevel, act.NewAssignee)
	case act.Direction != "":
		detail := fmt.Sprintf("%s %s", act.Direction, act.Channel)
		if act.Outcome != "" {
			detail += " " + outcomeBadge(act.Outcome)
		}
		return detail
	case act.NewAssignee != "" && act.NewAssignee != act.PreviousAssignee:
		return fmt.Sprintf("%s → %s", orDash(act.PreviousAssignee), act.NewAssignee)
	case act.NewStatus != "" && act.NewStatus != act.PreviousStatus:
		return fmt.Sprintf("%s → %s", orDash(string(act.PreviousStatus)), act.NewStatus)
	default:
		return truncate(act.Description, 50)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
