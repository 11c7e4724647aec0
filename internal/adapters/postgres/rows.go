package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/example/grievance/internal/core/grievance"
)

// dbCase is the row shape of the cases table.
type dbCase struct {
	ID                    string       `db:"id"`
	CaseNumber            string       `db:"case_number"`
	ComplainantID         string       `db:"complainant_id"`
	ComplainantName       string       `db:"complainant_name"`
	ComplainantEmail      string       `db:"complainant_email"`
	ComplainantPhone      string       `db:"complainant_phone"`
	Anonymous             bool         `db:"anonymous"`
	Subject               string       `db:"subject"`
	Description           string       `db:"description"`
	Category              string       `db:"category"`
	Priority              string       `db:"priority"`
	Urgent                bool         `db:"urgent"`
	Status                string       `db:"status"`
	AssignedTo            string       `db:"assigned_to"`
	AssignedDate          sql.NullTime `db:"assigned_date"`
	EscalationLevel       int          `db:"escalation_level"`
	EscalationType        string       `db:"escalation_type"`
	EscalatedTo           string       `db:"escalated_to"`
	EscalationDate        sql.NullTime `db:"escalation_date"`
	EscalationReason      string       `db:"escalation_reason"`
	SubmissionDate        time.Time    `db:"submission_date"`
	ResolutionTargetDate  sql.NullTime `db:"resolution_target_date"`
	ResolutionDate        sql.NullTime `db:"resolution_date"`
	ResolutionSummary     string       `db:"resolution_summary"`
	ResolutionActions     string       `db:"resolution_actions"`
	SatisfactionRating    int          `db:"satisfaction_rating"`
	Feedback              string       `db:"feedback"`
	SatisfactionIndicated bool         `db:"satisfaction_indicated"`
	SubmissionChannel     string       `db:"submission_channel"`
	OfficeLocation        string       `db:"office_location"`
	CreatedBy             string       `db:"created_by"`
	UpdatedBy             string       `db:"updated_by"`
	CreatedAt             time.Time    `db:"created_at"`
	UpdatedAt             time.Time    `db:"updated_at"`
	Revision              int64        `db:"revision"`
}

// dbActivity is the row shape of the case_activities table.
type dbActivity struct {
	ID               string         `db:"id"`
	CaseID           string         `db:"case_id"`
	Type             string         `db:"activity_type"`
	Description      string         `db:"description"`
	PerformedBy      string         `db:"performed_by"`
	PerformedByRole  string         `db:"performed_by_role"`
	Timestamp        time.Time      `db:"timestamp"`
	Channel          string         `db:"channel"`
	Direction        string         `db:"direction"`
	Subject          string         `db:"subject"`
	Content          string         `db:"content"`
	Recipient        string         `db:"recipient"`
	RequiresResponse bool           `db:"requires_response"`
	ResponseDueDate  sql.NullTime   `db:"response_due_date"`
	IsAutomated      bool           `db:"is_automated"`
	IsInternal       bool           `db:"is_internal"`
	Outcome          string         `db:"outcome"`
	Flags            pq.StringArray `db:"flags"`
	PreviousAssignee string         `db:"previous_assignee"`
	NewAssignee      string         `db:"new_assignee"`
	PreviousStatus   string         `db:"previous_status"`
	NewStatus        string         `db:"new_status"`
	PreviousLevel    int            `db:"previous_level"`
	NewLevel         int            `db:"new_level"`
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func fromNullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func toDBCase(c *grievance.Case) dbCase {
	return dbCase{
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
		AssignedDate:          toNullTime(c.AssignedDate),
		EscalationLevel:       c.EscalationLevel,
		EscalationType:        string(c.EscalationType),
		EscalatedTo:           c.EscalatedTo,
		EscalationDate:        toNullTime(c.EscalationDate),
		EscalationReason:      c.EscalationReason,
		SubmissionDate:        c.SubmissionDate.UTC(),
		ResolutionTargetDate:  toNullTime(c.ResolutionTargetDate),
		ResolutionDate:        toNullTime(c.ResolutionDate),
		ResolutionSummary:     c.ResolutionSummary,
		ResolutionActions:     c.ResolutionActions,
		SatisfactionRating:    c.SatisfactionRating,
		Feedback:              c.Feedback,
		SatisfactionIndicated: c.SatisfactionIndicated,
		SubmissionChannel:     string(c.SubmissionChannel),
		OfficeLocation:        c.OfficeLocation,
		CreatedBy:             c.CreatedBy,
		UpdatedBy:             c.UpdatedBy,
		CreatedAt:             c.CreatedAt.UTC(),
		UpdatedAt:             c.UpdatedAt.UTC(),
		Revision:              c.Revision,
	}
}

func (r dbCase) toCase() *grievance.Case {
	return &grievance.Case{
		ID:                    r.ID,
		CaseNumber:            r.CaseNumber,
		ComplainantID:         r.ComplainantID,
		ComplainantName:       r.ComplainantName,
		ComplainantEmail:      r.ComplainantEmail,
		ComplainantPhone:      r.ComplainantPhone,
		Anonymous:             r.Anonymous,
		Subject:               r.Subject,
		Description:           r.Description,
		Category:              grievance.Category(r.Category),
		Priority:              grievance.Priority(r.Priority),
		Urgent:                r.Urgent,
		Status:                grievance.Status(r.Status),
		AssignedTo:            r.AssignedTo,
		AssignedDate:          fromNullTime(r.AssignedDate),
		EscalationLevel:       r.EscalationLevel,
		EscalationType:        grievance.EscalationType(r.EscalationType),
		EscalatedTo:           r.EscalatedTo,
		EscalationDate:        fromNullTime(r.EscalationDate),
		EscalationReason:      r.EscalationReason,
		SubmissionDate:        r.SubmissionDate.UTC(),
		ResolutionTargetDate:  fromNullTime(r.ResolutionTargetDate),
		ResolutionDate:        fromNullTime(r.ResolutionDate),
		ResolutionSummary:     r.ResolutionSummary,
		ResolutionActions:     r.ResolutionActions,
		SatisfactionRating:    r.SatisfactionRating,
		Feedback:              r.Feedback,
		SatisfactionIndicated: r.SatisfactionIndicated,
		SubmissionChannel:     grievance.Channel(r.SubmissionChannel),
		OfficeLocation:        r.OfficeLocation,
		CreatedBy:             r.CreatedBy,
		UpdatedBy:             r.UpdatedBy,
		CreatedAt:             r.CreatedAt.UTC(),
		UpdatedAt:             r.UpdatedAt.UTC(),
		Revision:              r.Revision,
	}
}

func toDBActivity(caseID string, a grievance.Activity) dbActivity {
	flags := pq.StringArray(a.Flags)
	if flags == nil {
		flags = pq.StringArray{}
	}
	return dbActivity{
		ID:               a.ID,
		CaseID:           caseID,
		Type:             string(a.Type),
		Description:      a.Description,
		PerformedBy:      a.PerformedBy,
		PerformedByRole:  a.PerformedByRole,
		Timestamp:        a.Timestamp.UTC(),
		Channel:          string(a.Channel),
		Direction:        string(a.Direction),
		Subject:          a.Subject,
		Content:          a.Content,
		Recipient:        a.Recipient,
		RequiresResponse: a.RequiresResponse,
		ResponseDueDate:  toNullTime(a.ResponseDueDate),
		IsAutomated:      a.IsAutomated,
		IsInternal:       a.IsInternal,
		Outcome:          string(a.Outcome),
		Flags:            flags,
		PreviousAssignee: a.PreviousAssignee,
		NewAssignee:      a.NewAssignee,
		PreviousStatus:   string(a.PreviousStatus),
		NewStatus:        string(a.NewStatus),
		PreviousLevel:    a.PreviousLevel,
		NewLevel:         a.NewLevel,
	}
}

func (r dbActivity) toActivity() grievance.Activity {
	var flags []string
	if len(r.Flags) > 0 {
		flags = []string(r.Flags)
	}
	return grievance.Activity{
		ID:               r.ID,
		CaseID:           r.CaseID,
		Type:             grievance.ActivityType(r.Type),
		Description:      r.Description,
		PerformedBy:      r.PerformedBy,
		PerformedByRole:  r.PerformedByRole,
		Timestamp:        r.Timestamp.UTC(),
		Channel:          grievance.Channel(r.Channel),
		Direction:        grievance.Direction(r.Direction),
		Subject:          r.Subject,
		Content:          r.Content,
		Recipient:        r.Recipient,
		RequiresResponse: r.RequiresResponse,
		ResponseDueDate:  fromNullTime(r.ResponseDueDate),
		IsAutomated:      r.IsAutomated,
		IsInternal:       r.IsInternal,
		Outcome:          grievance.Outcome(r.Outcome),
		Flags:            flags,
		PreviousAssignee: r.PreviousAssignee,
		NewAssignee:      r.NewAssignee,
		PreviousStatus:   grievance.Status(r.PreviousStatus),
		NewStatus:        grievance.Status(r.NewStatus),
		PreviousLevel:    r.PreviousLevel,
		NewLevel:         r.NewLevel,
	}
}
