package grievance

import (
	"fmt"

	"github.com/example/grievance/internal/apperr"
)

// Status represents the possible states of a case.
type Status string

const (
	StatusSubmitted       Status = "SUBMITTED"
	StatusAssigned        Status = "ASSIGNED"
	StatusUnderReview     Status = "UNDER_REVIEW"
	StatusPendingResponse Status = "PENDING_RESPONSE"
	StatusEscalated       Status = "ESCALATED"
	StatusResolved        Status = "RESOLVED"
	StatusClosed          Status = "CLOSED"
	StatusRejected        Status = "REJECTED"
	StatusCancelled       Status = "CANCELLED"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusSubmitted, StatusAssigned, StatusUnderReview, StatusPendingResponse,
	StatusEscalated, StatusResolved, StatusClosed, StatusRejected, StatusCancelled,
}

// ParseStatus normalizes s and reports whether it names a known status.
func ParseStatus(s string) (Status, bool) {
	st := Status(normalizeEnum(s))
	for _, known := range Statuses {
		if st == known {
			return st, true
		}
	}
	return "", false
}

// IsTerminal reports whether no event leaves s.
func (s Status) IsTerminal() bool {
	return s == StatusClosed || s == StatusRejected || s == StatusCancelled
}

// IsOpen reports whether a case in s is still being worked.
func (s Status) IsOpen() bool {
	return s != StatusResolved && !s.IsTerminal()
}

// Event drives a status transition.
type Event string

const (
	EventAssign           Event = "ASSIGN"
	EventStartReview      Event = "START_REVIEW"
	EventAwaitResponse    Event = "AWAIT_RESPONSE"
	EventResponseReceived Event = "RESPONSE_RECEIVED"
	EventEscalate         Event = "ESCALATE"
	EventResolve          Event = "RESOLVE"
	EventClose            Event = "CLOSE"
	EventReject           Event = "REJECT"
	EventCancel           Event = "CANCEL"
	EventReopen           Event = "REOPEN"
)

type transitionKey struct {
	from  Status
	event Event
}

// transitions is the complete table; any pair missing here is illegal.
var transitions = map[transitionKey]Status{
	{StatusSubmitted, EventAssign}:      StatusAssigned,
	{StatusSubmitted, EventStartReview}: StatusUnderReview,
	{StatusSubmitted, EventEscalate}:    StatusEscalated,
	{StatusSubmitted, EventReject}:      StatusRejected,
	{StatusSubmitted, EventCancel}:      StatusCancelled,

	{StatusAssigned, EventAssign}:      StatusAssigned,
	{StatusAssigned, EventStartReview}: StatusUnderReview,
	{StatusAssigned, EventEscalate}:    StatusEscalated,
	{StatusAssigned, EventResolve}:     StatusResolved,
	{StatusAssigned, EventReject}:      StatusRejected,
	{StatusAssigned, EventCancel}:      StatusCancelled,

	{StatusUnderReview, EventAssign}:        StatusAssigned,
	{StatusUnderReview, EventAwaitResponse}: StatusPendingResponse,
	{StatusUnderReview, EventEscalate}:      StatusEscalated,
	{StatusUnderReview, EventResolve}:       StatusResolved,
	{StatusUnderReview, EventReject}:        StatusRejected,
	{StatusUnderReview, EventCancel}:        StatusCancelled,

	{StatusPendingResponse, EventAssign}:           StatusAssigned,
	{StatusPendingResponse, EventResponseReceived}: StatusUnderReview,
	{StatusPendingResponse, EventEscalate}:         StatusEscalated,
	{StatusPendingResponse, EventResolve}:          StatusResolved,
	{StatusPendingResponse, EventCancel}:           StatusCancelled,

	{StatusEscalated, EventAssign}:      StatusEscalated,
	{StatusEscalated, EventStartReview}: StatusUnderReview,
	{StatusEscalated, EventEscalate}:    StatusEscalated,
	{StatusEscalated, EventResolve}:     StatusResolved,
	{StatusEscalated, EventReject}:      StatusRejected,
	{StatusEscalated, EventCancel}:      StatusCancelled,

	{StatusResolved, EventClose}:  StatusClosed,
	{StatusResolved, EventReopen}: StatusUnderReview,
}

// Transition returns the state reached from 'from' on event, or an
// InvalidStatusTransition error if the table has no such edge.
func Transition(from Status, event Event) (Status, error) {
	to, ok := transitions[transitionKey{from, event}]
	if !ok {
		return "", apperr.InvalidStatusTransition(fmt.Sprintf("cannot apply %s to a case in status %s", event, from))
	}
	return to, nil
}

// CanTransition reports whether the table has an edge for (from, event).
func CanTransition(from Status, event Event) bool {
	_, ok := transitions[transitionKey{from, event}]
	return ok
}

// EventForTarget maps a manually requested target status to the event that
// reaches it from 'from'. Statuses owned by dedicated operations (assignment,
// escalation, resolution, closure, rejection, cancellation) are refused.
func EventForTarget(from Status, target string) (Event, error) {
	st, ok := ParseStatus(target)
	if !ok {
		return "", apperr.InvalidStatusTransition(fmt.Sprintf("unsupported status %q", target))
	}

	var candidates []Event
	switch st {
	case StatusUnderReview:
		candidates = []Event{EventStartReview, EventResponseReceived, EventReopen}
	case StatusPendingResponse:
		candidates = []Event{EventAwaitResponse}
	default:
		return "", apperr.InvalidStatusTransition(fmt.Sprintf("status %s can only be reached through its dedicated operation", st))
	}

	for _, ev := range candidates {
		if CanTransition(from, ev) {
			return ev, nil
		}
	}
	return "", apperr.InvalidStatusTransition(fmt.Sprintf("cannot move a case from %s to %s", from, st))
}

// InitialStatus returns the status of a freshly submitted case.
func InitialStatus() Status {
	return StatusSubmitted
}
