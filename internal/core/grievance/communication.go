package grievance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/grievance/internal/core/effects"
)

// responseKeywords mark a message that expects a reply.
var responseKeywords = []string{
	"question", "when", "how", "why", "what", "please respond",
	"need answer", "clarification", "explain", "status update",
}

// infoRequestKeywords mark a complainant asking for more information.
var infoRequestKeywords = []string{
	"more information", "additional information", "more details",
	"need information", "provide information",
}

// satisfactionKeywords mark a message that reads as satisfied.
var satisfactionKeywords = []string{
	"thank you", "thanks", "satisfied", "happy with", "problem solved", "issue resolved",
}

// Classification is the keyword reading of a message body.
type Classification struct {
	RequiresResponse bool
	RequestsInfo     bool
	Satisfied        bool
}

// ClassifyContent applies the fixed keyword heuristics to content.
func ClassifyContent(content string) Classification {
	lower := strings.ToLower(content)
	return Classification{
		RequiresResponse: containsAny(lower, responseKeywords),
		RequestsInfo:     containsAny(lower, infoRequestKeywords),
		Satisfied:        containsAny(lower, satisfactionKeywords),
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// InboundCommunication is a message received from the complainant or a third party.
type InboundCommunication struct {
	Channel Channel
	Subject string
	Content string
	From    string
}

// ApplyInbound records an inbound communication as one COMMUNICATION_RECEIVED
// activity, applies the status heuristics and returns the notification effect.
func ApplyInbound(c *Case, comm InboundCommunication, sla SLAPolicy, m Mutation) []effects.Effect {
	cls := ClassifyContent(comm.Content)

	a := Activity{
		ID:              m.ActivityID,
		Type:            ActivityCommunicationReceived,
		Description:     fmt.Sprintf("Inbound %s communication", comm.Channel),
		PerformedBy:     m.Actor.ID,
		PerformedByRole: m.Actor.Role,
		Timestamp:       m.Now,
		Channel:         comm.Channel,
		Direction:       DirectionInbound,
		Subject:         comm.Subject,
		Content:         comm.Content,
		Recipient:       c.AssignedTo,
		PreviousLevel:   c.EscalationLevel,
		NewLevel:        c.EscalationLevel,
	}
	if comm.From != "" {
		a.Description += " from " + comm.From
	}
	if cls.RequiresResponse {
		a.RequiresResponse = true
		a.ResponseDueDate = timePtr(sla.ResponseDue(c.Priority, m.Now))
	}
	if cls.RequestsInfo && c.Status == StatusUnderReview {
		if next, err := Transition(c.Status, EventAwaitResponse); err == nil {
			a.PreviousStatus = c.Status
			a.NewStatus = next
			c.Status = next
		}
	}
	effs := []effects.Effect{effects.CommunicationReceivedEffect{CaseID: c.ID, ActivityID: a.ID}}
	if cls.Satisfied {
		a.Flags = append(a.Flags, FlagSatisfactionIndicated)
		c.SatisfactionIndicated = true
		effs = append(effs, effects.LogEffect{
			Level:   "info",
			Message: "complainant indicated satisfaction",
			Fields:  map[string]any{"activity_id": a.ID, "channel": string(comm.Channel), "status": string(c.Status)},
		})
	}

	c.Append(a)
	return effs
}

// Route tells the shell how an outbound communication is delivered.
type Route string

const (
	RouteEmail       Route = "EMAIL"
	RouteSMS         Route = "SMS"
	RoutePostal      Route = "POSTAL"
	RouteLogOnly     Route = "LOG_ONLY"    // phone calls: logged, assumed delivered
	RouteUnsupported Route = "UNSUPPORTED" // logged, no transport call
)

// OutboundCommunication is a message the agency sends about a case.
type OutboundCommunication struct {
	Channel          Channel
	Recipient        string
	Subject          string
	Content          string
	RequiresResponse bool
	IsAutomated      bool
	IsInternal       bool
}

// OutboundPlan is the delivery route with the resolved recipient.
type OutboundPlan struct {
	Route     Route
	Recipient string
}

// PlanOutbound picks a route by channel and defaults the recipient from the
// complainant's contact details.
func PlanOutbound(c *Case, comm OutboundCommunication) OutboundPlan {
	plan := OutboundPlan{Recipient: comm.Recipient}
	switch comm.Channel {
	case ChannelEmail:
		plan.Route = RouteEmail
		if plan.Recipient == "" {
			plan.Recipient = c.ComplainantEmail
		}
	case ChannelSMS:
		plan.Route = RouteSMS
		if plan.Recipient == "" {
			plan.Recipient = c.ComplainantPhone
		}
	case ChannelPostal:
		plan.Route = RoutePostal
		if plan.Recipient == "" {
			plan.Recipient = c.ComplainantName
		}
	case ChannelPhone:
		plan.Route = RouteLogOnly
		if plan.Recipient == "" {
			plan.Recipient = c.ComplainantPhone
		}
	default:
		plan.Route = RouteUnsupported
	}
	return plan
}

// RecordOutbound appends one COMMUNICATION_SENT activity with the delivery outcome.
func RecordOutbound(c *Case, comm OutboundCommunication, plan OutboundPlan, outcome Outcome, sla SLAPolicy, m Mutation) {
	desc := fmt.Sprintf("Outbound %s communication %s", comm.Channel, strings.ToLower(string(outcome)))
	if plan.Route == RouteUnsupported {
		desc = fmt.Sprintf("Outbound communication over unsupported channel %s not delivered", comm.Channel)
	}
	a := Activity{
		ID:               m.ActivityID,
		Type:             ActivityCommunicationSent,
		Description:      desc,
		PerformedBy:      m.Actor.ID,
		PerformedByRole:  m.Actor.Role,
		Timestamp:        m.Now,
		Channel:          comm.Channel,
		Direction:        DirectionOutbound,
		Subject:          comm.Subject,
		Content:          comm.Content,
		Recipient:        plan.Recipient,
		RequiresResponse: comm.RequiresResponse,
		IsAutomated:      comm.IsAutomated,
		IsInternal:       comm.IsInternal,
		Outcome:          outcome,
		PreviousLevel:    c.EscalationLevel,
		NewLevel:         c.EscalationLevel,
	}
	if comm.RequiresResponse {
		a.ResponseDueDate = timePtr(sla.ResponseDue(c.Priority, m.Now))
	}
	c.Append(a)
}

// TrackingEntry is one communication on the unified timeline.
type TrackingEntry struct {
	ActivityID       string     `json:"activity_id"`
	Timestamp        time.Time  `json:"timestamp"`
	Type             string     `json:"type"`
	Channel          Channel    `json:"channel"`
	Direction        Direction  `json:"direction"`
	Subject          string     `json:"subject,omitempty"`
	Content          string     `json:"content,omitempty"`
	Recipient        string     `json:"recipient,omitempty"`
	Outcome          Outcome    `json:"outcome,omitempty"`
	RequiresResponse bool       `json:"requires_response"`
	ResponseDueDate  *time.Time `json:"response_due_date,omitempty"`
	IsInternal       bool       `json:"is_internal"`
}

// TrackingView aggregates every communication on a case across channels.
type TrackingView struct {
	CaseID              string          `json:"case_id"`
	CaseNumber          string          `json:"case_number"`
	Status              Status          `json:"status"`
	TotalCommunications int             `json:"total_communications"`
	ChannelCounts       map[Channel]int `json:"channel_counts"`
	InboundCount        int             `json:"inbound_count"`
	OutboundCount       int             `json:"outbound_count"`
	PendingResponses    int             `json:"pending_responses"`
	LastCommunication   *time.Time      `json:"last_communication,omitempty"`
	Timeline            []TrackingEntry `json:"timeline"`
}

// BuildTracking folds the activity log into a TrackingView.
// An inbound message needing a reply stays pending until a later outbound
// communication is sent successfully.
func BuildTracking(c *Case) TrackingView {
	view := TrackingView{
		CaseID:        c.ID,
		CaseNumber:    c.CaseNumber,
		Status:        c.Status,
		ChannelCounts: make(map[Channel]int),
		Timeline:      []TrackingEntry{},
	}

	acts := SortedActivities(c.Activities)
	pending := 0
	for _, a := range acts {
		if !a.Type.IsCommunication() {
			continue
		}
		view.TotalCommunications++
		view.ChannelCounts[a.Channel]++
		switch a.Direction {
		case DirectionInbound:
			view.InboundCount++
			if a.RequiresResponse {
				pending++
			}
		case DirectionOutbound:
			view.OutboundCount++
			if a.Outcome == OutcomeSent {
				pending = 0
			}
		}
		ts := a.Timestamp
		view.LastCommunication = &ts
		view.Timeline = append(view.Timeline, TrackingEntry{
			ActivityID:       a.ID,
			Timestamp:        a.Timestamp,
			Type:             string(a.Type),
			Channel:          a.Channel,
			Direction:        a.Direction,
			Subject:          a.Subject,
			Content:          a.Content,
			Recipient:        a.Recipient,
			Outcome:          a.Outcome,
			RequiresResponse: a.RequiresResponse,
			ResponseDueDate:  a.ResponseDueDate,
			IsInternal:       a.IsInternal,
		})
	}
	view.PendingResponses = pending
	return view
}

// SortedActivities returns a chronological copy of acts, stable on ties.
func SortedActivities(acts []Activity) []Activity {
	out := make([]Activity, len(acts))
	copy(out, acts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
