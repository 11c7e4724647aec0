package grievance

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/grievance/internal/apperr"
)

// Roles recorded on creation activities.
const (
	RoleCitizen            = "CITIZEN"
	RoleCallCenterOperator = "CALL_CENTER_OPERATOR"
	RoleFrontDeskOfficer   = "FRONT_DESK_OFFICER"
	RoleSystem             = "SYSTEM"

	EmailGatewayActor = "EMAIL_GATEWAY"
)

// SubmitRequest is the channel-independent part of a new grievance.
type SubmitRequest struct {
	ComplainantID    string
	ComplainantName  string
	ComplainantEmail string
	ComplainantPhone string
	Anonymous        bool
	Subject          string
	Description      string
	Category         string
	Priority         string // optional
	Urgent           bool
}

// ChannelContext carries the metadata only some channels provide.
type ChannelContext struct {
	// PHONE
	OperatorID    string
	CallReference string
	// EMAIL
	OriginalSubject string
	OriginalBody    string
	FromAddress     string
	// WALK_IN
	ReceivingOfficer string
	OfficeLocation   string
	// MOBILE
	DeviceID   string
	AppVersion string
	// WEB
	IPAddress string
	UserAgent string
}

// Submission is a validated request with its enums resolved.
type Submission struct {
	Request  SubmitRequest
	Channel  Channel
	Category Category
	Priority Priority
	Context  ChannelContext
}

// ValidateSubmission checks a request arriving on channel and reports every
// offending field at once.
func ValidateSubmission(req SubmitRequest, channel string, cc ChannelContext) (Submission, error) {
	var bad []string
	sub := Submission{Request: req, Context: cc}

	if strings.TrimSpace(req.ComplainantID) == "" {
		bad = append(bad, "complainant_id")
	}
	if strings.TrimSpace(req.Subject) == "" {
		bad = append(bad, "subject")
	}
	if strings.TrimSpace(req.Description) == "" {
		bad = append(bad, "description")
	}
	if strings.TrimSpace(req.Category) == "" {
		bad = append(bad, "category")
	} else if cat, ok := ParseCategory(req.Category); ok {
		sub.Category = cat
	} else {
		bad = append(bad, "category")
	}

	switch {
	case strings.TrimSpace(req.Priority) == "":
		sub.Priority = defaultPriority(req.Urgent)
	default:
		p, ok := ParsePriority(req.Priority)
		if !ok {
			bad = append(bad, "priority")
		}
		sub.Priority = p
	}

	ch, ok := ParseChannel(channel)
	if !ok || !IsSubmissionChannel(ch) {
		bad = append(bad, "channel")
	}
	sub.Channel = ch

	switch ch {
	case ChannelPhone:
		if strings.TrimSpace(cc.OperatorID) == "" {
			bad = append(bad, "operator_id")
		}
	case ChannelWalkIn:
		if strings.TrimSpace(cc.ReceivingOfficer) == "" {
			bad = append(bad, "receiving_officer")
		}
	}

	if len(bad) > 0 {
		return Submission{}, apperr.Validation(bad...)
	}
	return sub, nil
}

func defaultPriority(urgent bool) Priority {
	if urgent {
		return PriorityHigh
	}
	return PriorityMedium
}

// CaseIdentity holds the identifiers allocated by the shell for a new case.
type CaseIdentity struct {
	ID         string
	CaseNumber string
	ActivityID string
}

// NewCase builds the case and its CASE_CREATED activity from a validated
// submission, applying the per-channel enrichment rules.
func NewCase(sub Submission, ids CaseIdentity, now time.Time) Case {
	req := sub.Request
	cc := sub.Context

	c := Case{
		ID:                ids.ID,
		CaseNumber:        ids.CaseNumber,
		ComplainantID:     strings.TrimSpace(req.ComplainantID),
		ComplainantName:   req.ComplainantName,
		ComplainantEmail:  req.ComplainantEmail,
		ComplainantPhone:  req.ComplainantPhone,
		Anonymous:         req.Anonymous,
		Subject:           strings.TrimSpace(req.Subject),
		Description:       req.Description,
		Category:          sub.Category,
		Priority:          sub.Priority,
		Urgent:            req.Urgent,
		Status:            InitialStatus(),
		SubmissionDate:    now,
		SubmissionChannel: sub.Channel,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	a := Activity{
		ID:          ids.ActivityID,
		Type:        ActivityCaseCreated,
		Description: fmt.Sprintf("Case submitted via %s", sub.Channel),
		Timestamp:   now,
		Channel:     sub.Channel,
		Direction:   DirectionInbound,
		Subject:     c.Subject,
		NewStatus:   c.Status,
	}

	switch sub.Channel {
	case ChannelWeb:
		a.PerformedBy, a.PerformedByRole = c.ComplainantID, RoleCitizen
		if cc.IPAddress != "" {
			a.Description += " from " + cc.IPAddress
		}
		if cc.UserAgent != "" {
			a.Description += " (" + cc.UserAgent + ")"
		}
	case ChannelMobile:
		a.PerformedBy, a.PerformedByRole = c.ComplainantID, RoleCitizen
		if cc.DeviceID != "" {
			a.Description += fmt.Sprintf(" on device %s", cc.DeviceID)
		}
		if cc.AppVersion != "" {
			a.Description += fmt.Sprintf(" app %s", cc.AppVersion)
		}
	case ChannelPhone:
		a.PerformedBy, a.PerformedByRole = cc.OperatorID, RoleCallCenterOperator
		if cc.CallReference != "" {
			a.Description += "; call reference " + cc.CallReference
		}
	case ChannelEmail:
		a.PerformedBy, a.PerformedByRole = EmailGatewayActor, RoleSystem
		a.IsAutomated = true
		if cc.FromAddress != "" {
			a.Description += " from " + cc.FromAddress
		}
		c.Description += fmt.Sprintf("\n\n--- Original email ---\nSubject: %s\n\n%s", cc.OriginalSubject, cc.OriginalBody)
	case ChannelWalkIn:
		a.PerformedBy, a.PerformedByRole = cc.ReceivingOfficer, RoleFrontDeskOfficer
		c.OfficeLocation = cc.OfficeLocation
		if cc.OfficeLocation != "" {
			a.Description += " at " + cc.OfficeLocation
		}
	}
	a.Content = c.Description

	c.CreatedBy = a.PerformedBy
	c.Append(a)
	return c
}
