package httpapi

import (
	"time"

	"github.com/example/grievance/internal/core/grievance"
)

type submitBody struct {
	Channel          string      `json:"channel"`
	ComplainantID    string      `json:"complainant_id"`
	ComplainantName  string      `json:"complainant_name"`
	ComplainantEmail string      `json:"complainant_email"`
	ComplainantPhone string      `json:"complainant_phone"`
	Anonymous        bool        `json:"anonymous"`
	Subject          string      `json:"subject"`
	Description      string      `json:"description"`
	Category         string      `json:"category"`
	Priority         string      `json:"priority"`
	Urgent           bool        `json:"urgent"`
	Context          contextBody `json:"context"`
}

type contextBody struct {
	OperatorID       string `json:"operator_id"`
	CallReference    string `json:"call_reference"`
	OriginalSubject  string `json:"original_subject"`
	OriginalBody     string `json:"original_body"`
	FromAddress      string `json:"from_address"`
	ReceivingOfficer string `json:"receiving_officer"`
	OfficeLocation   string `json:"office_location"`
	DeviceID         string `json:"device_id"`
	AppVersion       string `json:"app_version"`
	IPAddress        string `json:"ip_address"`
	UserAgent        string `json:"user_agent"`
}

type assignBody struct {
	Assignee string `json:"assignee"`
}

type statusBody struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

type resolveBody struct {
	Summary string `json:"summary"`
	Actions string `json:"actions"`
}

type closeBody struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

type reasonBody struct {
	Reason string `json:"reason"`
}

type escalateBody struct {
	Trigger     string `json:"trigger"`
	Reason      string `json:"reason"`
	InitiatedBy string `json:"initiated_by"`
}

type inboundBody struct {
	Channel string `json:"channel"`
	Subject string `json:"subject"`
	Content string `json:"content"`
	From    string `json:"from"`
}

type outboundBody struct {
	Channel          string `json:"channel"`
	Recipient        string `json:"recipient"`
	Subject          string `json:"subject"`
	Content          string `json:"content"`
	RequiresResponse bool   `json:"requires_response"`
	IsAutomated      bool   `json:"is_automated"`
	IsInternal       bool   `json:"is_internal"`
}

type caseView struct {
	ID                    string         `json:"id"`
	CaseNumber            string         `json:"case_number"`
	ComplainantID         string         `json:"complainant_id"`
	ComplainantName       string         `json:"complainant_name,omitempty"`
	ComplainantEmail      string         `json:"complainant_email,omitempty"`
	ComplainantPhone      string         `json:"complainant_phone,omitempty"`
	Anonymous             bool           `json:"anonymous"`
	Subject               string         `json:"subject"`
	Description           string         `json:"description"`
	Category              string         `json:"category"`
	Priority              string         `json:"priority"`
	Urgent                bool           `json:"urgent"`
	Status                string         `json:"status"`
	AssignedTo            string         `json:"assigned_to,omitempty"`
	AssignedDate          *time.Time     `json:"assigned_date,omitempty"`
	EscalationLevel       int            `json:"escalation_level"`
	EscalationType        string         `json:"escalation_type,omitempty"`
	EscalatedTo           string         `json:"escalated_to,omitempty"`
	EscalationDate        *time.Time     `json:"escalation_date,omitempty"`
	EscalationReason      string         `json:"escalation_reason,omitempty"`
	SubmissionDate        time.Time      `json:"submission_date"`
	ResolutionTargetDate  *time.Time     `json:"resolution_target_date,omitempty"`
	ResolutionDate        *time.Time     `json:"resolution_date,omitempty"`
	ResolutionSummary     string         `json:"resolution_summary,omitempty"`
	ResolutionActions     string         `json:"resolution_actions,omitempty"`
	SatisfactionRating    int            `json:"satisfaction_rating,omitempty"`
	Feedback              string         `json:"feedback,omitempty"`
	SatisfactionIndicated bool           `json:"satisfaction_indicated"`
	SubmissionChannel     string         `json:"submission_channel"`
	OfficeLocation        string         `json:"office_location,omitempty"`
	CreatedBy             string         `json:"created_by"`
	UpdatedBy             string         `json:"updated_by"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	Revision              int64          `json:"revision"`
	Activities            []activityView `json:"activities,omitempty"`
}

type activityView struct {
	ID               string     `json:"id"`
	Type             string     `json:"type"`
	Description      string     `json:"description"`
	PerformedBy      string     `json:"performed_by"`
	PerformedByRole  string     `json:"performed_by_role,omitempty"`
	Timestamp        time.Time  `json:"timestamp"`
	Channel          string     `json:"channel,omitempty"`
	Direction        string     `json:"direction,omitempty"`
	Subject          string     `json:"subject,omitempty"`
	Content          string     `json:"content,omitempty"`
	Recipient        string     `json:"recipient,omitempty"`
	RequiresResponse bool       `json:"requires_response,omitempty"`
	ResponseDueDate  *time.Time `json:"response_due_date,omitempty"`
	IsAutomated      bool       `json:"is_automated,omitempty"`
	IsInternal       bool       `json:"is_internal,omitempty"`
	Outcome          string     `json:"outcome,omitempty"`
	Flags            []string   `json:"flags,omitempty"`
	PreviousAssignee string     `json:"previous_assignee,omitempty"`
	NewAssignee      string     `json:"new_assignee,omitempty"`
	PreviousStatus   string     `json:"previous_status,omitempty"`
	NewStatus        string     `json:"new_status,omitempty"`
	PreviousLevel    int        `json:"previous_level,omitempty"`
	NewLevel         int        `json:"new_level,omitempty"`
}

func toCaseView(c *grievance.Case) caseView {
	v := caseView{
		ID:                    c.ID,
		CaseNumber:            c.CaseNumber,
		ComplainantID:         c.ComplainantID,
		ComplainantName:       c.ComplainantName,
		ComplainantEmail:      c.ComplainantEmail,
		ComplainantPhone:      c.ComplainantPhone,
		Anonymous:             c.Anonymous,
		Subject:               c.Subject,
		Description:           c.Description,
		Category:              string(c.Category),
		Priority:              string(c.Priority),
		Urgent:                c.Urgent,
		Status:                string(c.Status),
		AssignedTo:            c.AssignedTo,
		AssignedDate:          c.AssignedDate,
		EscalationLevel:       c.EscalationLevel,
		EscalationType:        string(c.EscalationType),
		EscalatedTo:           c.EscalatedTo,
		EscalationDate:        c.EscalationDate,
		EscalationReason:      c.EscalationReason,
		SubmissionDate:        c.SubmissionDate,
		ResolutionTargetDate:  c.ResolutionTargetDate,
		ResolutionDate:        c.ResolutionDate,
		ResolutionSummary:     c.ResolutionSummary,
		ResolutionActions:     c.ResolutionActions,
		SatisfactionRating:    c.SatisfactionRating,
		Feedback:              c.Feedback,
		SatisfactionIndicated: c.SatisfactionIndicated,
		SubmissionChannel:     string(c.SubmissionChannel),
		OfficeLocation:        c.OfficeLocation,
		CreatedBy:             c.CreatedBy,
		UpdatedBy:             c.UpdatedBy,
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
		Revision:              c.Revision,
	}
	for _, a := range c.Activities {
		v.Activities = append(v.Activities, toActivityView(a))
	}
	return v
}

func toActivityView(a grievance.Activity) activityView {
	return activityView{
		ID:               a.ID,
		Type:             string(a.Type),
		Description:      a.Description,
		PerformedBy:      a.PerformedBy,
		PerformedByRole:  a.PerformedByRole,
		Timestamp:        a.Timestamp,
		Channel:          string(a.Channel),
		Direction:        string(a.Direction),
		Subject:          a.Subject,
		Content:          a.Content,
		Recipient:        a.Recipient,
		RequiresResponse: a.RequiresResponse,
		ResponseDueDate:  a.ResponseDueDate,
		IsAutomated:      a.IsAutomated,
		IsInternal:       a.IsInternal,
		Outcome:          string(a.Outcome),
		Flags:            a.Flags,
		PreviousAssignee: a.PreviousAssignee,
		NewAssignee:      a.NewAssignee,
		PreviousStatus:   string(a.PreviousStatus),
		NewStatus:        string(a.NewStatus),
		PreviousLevel:    a.PreviousLevel,
		NewLevel:         a.NewLevel,
	}
}
