package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/example/grievance/internal/core/grievance"
	"github.com/example/grievance/internal/ports/primary"
)

// CommunicationAdapter prints communication and analytics results.
type CommunicationAdapter struct {
	comms     primary.CommunicationService
	analytics primary.AnalyticsService
	out       io.Writer
}

// NewCommunicationAdapter creates a new CommunicationAdapter writing to out.
func NewCommunicationAdapter(comms primary.CommunicationService, analytics primary.AnalyticsService, out io.Writer) *CommunicationAdapter {
	return &CommunicationAdapter{comms: comms, analytics: analytics, out: out}
}

// Receive records an inbound message.
func (a *CommunicationAdapter) Receive(ctx context.Context, req primary.InboundRequest) (*grievance.Case, error) {
	c, err := a.comms.HandleInbound(ctx, req)
	if err != nil {
		return nil, err
	}
	last := c.Activities[len(c.Activities)-1]
	fmt.Fprintf(a.out, "✓ Recorded inbound %s message on %s\n", last.Channel, c.CaseNumber)
	if last.RequiresResponse && last.ResponseDueDate != nil {
		fmt.Fprintf(a.out, "  Response due: %s\n", last.ResponseDueDate.Format(timeFormat))
	}
	if len(last.Flags) > 0 {
		fmt.Fprintf(a.out, "  Flags: %v\n", last.Flags)
	}
	return c, nil
}

// Send delivers an outbound message.
func (a *CommunicationAdapter) Send(ctx context.Context, req primary.OutboundRequest) error {
	if err := a.comms.SendOutbound(ctx, req); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Outbound %s message recorded on case %s\n", req.Channel, req.CaseID)
	return nil
}

// Track prints the unified communication view of a case.
func (a *CommunicationAdapter) Track(ctx context.Context, caseNumber string) (*grievance.TrackingView, error) {
	view, err := a.comms.GetUnifiedTracking(ctx, caseNumber)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "\nCase %s (%s)\n", view.CaseNumber, statusBadge(view.Status))
	fmt.Fprintf(a.out, "Communications: %d (%d in, %d out), %d awaiting response\n",
		view.TotalCommunications, view.InboundCount, view.OutboundCount, view.PendingResponses)

	if len(view.Timeline) == 0 {
		fmt.Fprintln(a.out, "No communications recorded.")
		return view, nil
	}
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tDIR\tCHANNEL\tOUTCOME\tSUBJECT")
	for _, e := range view.Timeline {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Format(timeFormat), e.Direction, e.Channel, orDash(outcomeBadge(e.Outcome)), truncate(e.Subject, 40))
	}
	w.Flush()
	return view, nil
}

// EscalationReport prints the escalation analytics summary.
func (a *CommunicationAdapter) EscalationReport(ctx context.Context) (*grievance.EscalationSummary, error) {
	s, err := a.analytics.GetEscalationAnalytics(ctx)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "Escalations %s to %s: %d\n", s.Since.Format("2006-01-02"), s.Until.Format("2006-01-02"), s.TotalEscalations)
	if s.TotalEscalations == 0 {
		return s, nil
	}
	fmt.Fprintf(a.out, "Average time to escalation: %.1fh\n", s.AverageHoursToEscalation)

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nCATEGORY\tCOUNT")
	cats := make([]string, 0, len(s.ByCategory))
	for c := range s.ByCategory {
		cats = append(cats, string(c))
	}
	sort.Strings(cats)
	for _, c := range cats {
		fmt.Fprintf(w, "%s\t%d\n", c, s.ByCategory[grievance.Category(c)])
	}
	fmt.Fprintln(w, "\nLEVEL\tCOUNT")
	levels := make([]int, 0, len(s.ByLevel))
	for l := range s.ByLevel {
		levels = append(levels, l)
	}
	sort.Ints(levels)
	for _, l := range levels {
		fmt.Fprintf(w, "%d\t%d\n", l, s.ByLevel[l])
	}
	w.Flush()
	return s, nil
}
