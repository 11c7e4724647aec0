// Package grievance contains the pure business logic for grievance cases.
// This is part of the Functional Core - no I/O, only pure functions.
package grievance

import (
	"strings"
	"time"
)

// Category classifies the subject matter of a case.
type Category string

const (
	CategoryServiceDelivery    Category = "SERVICE_DELIVERY"
	CategoryPaymentIssue       Category = "PAYMENT_ISSUE"
	CategoryEligibilityDispute Category = "ELIGIBILITY_DISPUTE"
	CategoryStaffConduct       Category = "STAFF_CONDUCT"
	CategorySystemError        Category = "SYSTEM_ERROR"
	CategoryDataPrivacy        Category = "DATA_PRIVACY"
	CategoryDiscrimination     Category = "DISCRIMINATION"
	CategoryCorruption         Category = "CORRUPTION"
	CategoryAccessIssue        Category = "ACCESS_ISSUE"
	CategoryQualityConcern     Category = "QUALITY_CONCERN"
	CategoryOther              Category = "OTHER"
)

// Categories lists every category in declaration order.
var Categories = []Category{
	CategoryServiceDelivery, CategoryPaymentIssue, CategoryEligibilityDispute,
	CategoryStaffConduct, CategorySystemError, CategoryDataPrivacy,
	CategoryDiscrimination, CategoryCorruption, CategoryAccessIssue,
	CategoryQualityConcern, CategoryOther,
}

// ParseCategory normalizes s and reports whether it names a known category.
func ParseCategory(s string) (Category, bool) {
	c := Category(normalizeEnum(s))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// Priority is the urgency class that drives SLA windows.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// ParsePriority normalizes s and reports whether it names a known priority.
func ParsePriority(s string) (Priority, bool) {
	switch p := Priority(normalizeEnum(s)); p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return p, true
	}
	return "", false
}

// Channel is the medium of a submission or communication.
type Channel string

const (
	ChannelWeb    Channel = "WEB"
	ChannelMobile Channel = "MOBILE"
	ChannelPhone  Channel = "PHONE"
	ChannelEmail  Channel = "EMAIL"
	ChannelWalkIn Channel = "WALK_IN"
	ChannelSMS    Channel = "SMS"
	ChannelPostal Channel = "POSTAL"
)

// SubmissionChannels are the channels a case can originate from.
var SubmissionChannels = []Channel{ChannelWeb, ChannelMobile, ChannelPhone, ChannelEmail, ChannelWalkIn}

// ParseChannel normalizes s and reports whether it names any known channel.
func ParseChannel(s string) (Channel, bool) {
	switch c := Channel(normalizeEnum(s)); c {
	case ChannelWeb, ChannelMobile, ChannelPhone, ChannelEmail, ChannelWalkIn, ChannelSMS, ChannelPostal:
		return c, true
	}
	return "", false
}

// IsSubmissionChannel reports whether c can originate a case.
func IsSubmissionChannel(c Channel) bool {
	for _, sc := range SubmissionChannels {
		if c == sc {
			return true
		}
	}
	return false
}

// Direction of a communication relative to the agency.
type Direction string

const (
	DirectionInbound  Direction = "INBOUND"
	DirectionOutbound Direction = "OUTBOUND"
)

// ActivityType identifies an audit log entry.
type ActivityType string

const (
	ActivityCaseCreated           ActivityType = "CASE_CREATED"
	ActivityCommunicationReceived ActivityType = "COMMUNICATION_RECEIVED"
	ActivityCommunicationSent     ActivityType = "COMMUNICATION_SENT"
	ActivityStatusChanged         ActivityType = "STATUS_CHANGED"
	ActivityAssignmentChanged     ActivityType = "ASSIGNMENT_CHANGED"
	ActivityCaseEscalated         ActivityType = "CASE_ESCALATED"
	ActivityCaseResolved          ActivityType = "CASE_RESOLVED"
	ActivityCaseClosed            ActivityType = "CASE_CLOSED"
	ActivityCaseRejected          ActivityType = "CASE_REJECTED"
	ActivityCaseCancelled         ActivityType = "CASE_CANCELLED"
	ActivityCaseReopened          ActivityType = "CASE_REOPENED"
)

// IsCommunication reports whether t records a communication.
func (t ActivityType) IsCommunication() bool {
	return t == ActivityCommunicationReceived || t == ActivityCommunicationSent
}

// Outcome of an outbound communication.
type Outcome string

const (
	OutcomeSent   Outcome = "SENT"
	OutcomeFailed Outcome = "FAILED"
)

// FlagSatisfactionIndicated marks an inbound message that reads as satisfied.
const FlagSatisfactionIndicated = "SATISFACTION_INDICATED"

// Case is one grievance tracked from submission to resolution.
type Case struct {
	ID         string
	CaseNumber string

	ComplainantID    string // PSN
	ComplainantName  string
	ComplainantEmail string
	ComplainantPhone string
	Anonymous        bool

	Subject     string
	Description string
	Category    Category
	Priority    Priority
	Urgent      bool

	Status           Status
	AssignedTo       string
	AssignedDate     *time.Time
	EscalationLevel  int
	EscalationType   EscalationType
	EscalatedTo      string
	EscalationDate   *time.Time
	EscalationReason string

	SubmissionDate       time.Time
	ResolutionTargetDate *time.Time
	ResolutionDate       *time.Time

	ResolutionSummary     string
	ResolutionActions     string
	SatisfactionRating    int
	Feedback              string
	SatisfactionIndicated bool

	SubmissionChannel Channel
	OfficeLocation    string
	CreatedBy         string
	UpdatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Revision is the optimistic-concurrency counter; 0 until first persisted.
	Revision int64

	Activities []Activity
}

// Activity is one immutable audit entry belonging to a case.
type Activity struct {
	ID              string
	CaseID          string
	Type            ActivityType
	Description     string
	PerformedBy     string
	PerformedByRole string
	Timestamp       time.Time

	Channel          Channel
	Direction        Direction
	Subject          string
	Content          string
	Recipient        string
	RequiresResponse bool
	ResponseDueDate  *time.Time
	IsAutomated      bool
	IsInternal       bool
	Outcome          Outcome
	Flags            []string

	PreviousAssignee string
	NewAssignee      string
	PreviousStatus   Status
	NewStatus        Status
	PreviousLevel    int
	NewLevel         int
}

// HasFlag reports whether the activity carries flag.
func (a Activity) HasFlag(flag string) bool {
	for _, f := range a.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// IsOpen reports whether the case still awaits resolution.
func (c *Case) IsOpen() bool {
	return c.Status.IsOpen()
}

// IsOverdue reports whether an open case has passed its resolution target.
func (c *Case) IsOverdue(now time.Time) bool {
	return c.IsOpen() && c.ResolutionTargetDate != nil && now.After(*c.ResolutionTargetDate)
}

// Append adds an activity to the case and stamps the update metadata.
func (c *Case) Append(a Activity) {
	a.CaseID = c.ID
	c.Activities = append(c.Activities, a)
	c.UpdatedAt = a.Timestamp
	c.UpdatedBy = a.PerformedBy
}

// Actor identifies who performs a mutation.
type Actor struct {
	ID   string
	Role string
}

func normalizeEnum(s string) string {
	s = strings.TrimSpace(strings.ToUpper(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}

func timePtr(t time.Time) *time.Time {
	return &t
}
