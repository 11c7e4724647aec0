// Package sqlite contains the SQLite implementations of the case store ports.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/example/grievance/internal/apperr"
	"github.com/example/grievance/internal/core/grievance"
	"github.com/example/grievance/internal/ports/secondary"
)

var _ secondary.CaseRepository = (*CaseRepository)(nil)

const caseColumns = `id, case_number, complainant_id, complainant_name, complainant_email, complainant_phone, anonymous,
	subject, description, category, priority, urgent,
	status, assigned_to, assigned_date, escalation_level, escalation_type, escalated_to, escalation_date, escalation_reason,
	submission_date, resolution_target_date, resolution_date,
	resolution_summary, resolution_actions, satisfaction_rating, feedback, satisfaction_indicated,
	submission_channel, office_location, created_by, updated_by, created_at, updated_at, revision`

const activityColumns = `id, case_id, activity_type, description, performed_by, performed_by_role, timestamp,
	channel, direction, subject, content, recipient, requires_response, response_due_date, is_automated, is_internal, outcome, flags,
	previous_assignee, new_assignee, previous_status, new_status, previous_level, new_level`

// CaseRepository implements secondary.CaseRepository with SQLite.
type CaseRepository struct {
	db *sql.DB
}

// NewCaseRepository creates a new SQLite case repository.
func NewCaseRepository(db *sql.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

// Create persists a new case and its activities.
func (r *CaseRepository) Create(ctx context.Context, c *grievance.Case) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO cases (`+caseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		c.ID, c.CaseNumber, c.ComplainantID, c.ComplainantName, c.ComplainantEmail, c.ComplainantPhone, c.Anonymous,
		c.Subject, c.Description, string(c.Category), string(c.Priority), c.Urgent,
		string(c.Status), c.AssignedTo, nullTime(c.AssignedDate), c.EscalationLevel, string(c.EscalationType), c.EscalatedTo, nullTime(c.EscalationDate), c.EscalationReason,
		formatTime(c.SubmissionDate), nullTime(c.ResolutionTargetDate), nullTime(c.ResolutionDate),
		c.ResolutionSummary, c.ResolutionActions, c.SatisfactionRating, c.Feedback, c.SatisfactionIndicated,
		string(c.SubmissionChannel), c.OfficeLocation, c.CreatedBy, c.UpdatedBy, formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return apperr.Conflict("case number", c.CaseNumber, 0)
		}
		return fmt.Errorf("failed to create case: %w", err)
	}

	if err := insertActivities(ctx, tx, c); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit case: %w", err)
	}

	c.Revision = 1
	return nil
}

// FindByID retrieves a case and its activities.
func (r *CaseRepository) FindByID(ctx context.Context, id string) (*grievance.Case, error) {
	return r.findOne(ctx, "id", id)
}

// FindByCaseNumber retrieves a case and its activities by case number.
func (r *CaseRepository) FindByCaseNumber(ctx context.Context, number string) (*grievance.Case, error) {
	return r.findOne(ctx, "case_number", number)
}

func (r *CaseRepository) findOne(ctx context.Context, column, value string) (*grievance.Case, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+caseColumns+` FROM cases WHERE `+column+` = ?`, value)
	c, err := scanCase(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("case", value)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+activityColumns+` FROM case_activities WHERE case_id = ? ORDER BY rowid`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get activities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		c.Activities = append(c.Activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read activities: %w", err)
	}
	return c, nil
}

// Save writes the mutable case fields under compare-and-swap on revision
// and appends activities that are not yet stored.
func (r *CaseRepository) Save(ctx context.Context, c *grievance.Case) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE cases SET
			complainant_name = ?, complainant_email = ?, complainant_phone = ?, anonymous = ?,
			subject = ?, description = ?, category = ?, priority = ?, urgent = ?,
			status = ?, assigned_to = ?, assigned_date = ?, escalation_level = ?, escalation_type = ?, escalated_to = ?, escalation_date = ?, escalation_reason = ?,
			resolution_target_date = ?, resolution_date = ?,
			resolution_summary = ?, resolution_actions = ?, satisfaction_rating = ?, feedback = ?, satisfaction_indicated = ?,
			office_location = ?, updated_by = ?, updated_at = ?, revision = revision + 1
		WHERE id = ? AND revision = ?`,
		c.ComplainantName, c.ComplainantEmail, c.ComplainantPhone, c.Anonymous,
		c.Subject, c.Description, string(c.Category), string(c.Priority), c.Urgent,
		string(c.Status), c.AssignedTo, nullTime(c.AssignedDate), c.EscalationLevel, string(c.EscalationType), c.EscalatedTo, nullTime(c.EscalationDate), c.EscalationReason,
		nullTime(c.ResolutionTargetDate), nullTime(c.ResolutionDate),
		c.ResolutionSummary, c.ResolutionActions, c.SatisfactionRating, c.Feedback, c.SatisfactionIndicated,
		c.OfficeLocation, c.UpdatedBy, formatTime(c.UpdatedAt),
		c.ID, c.Revision,
	)
	if err != nil {
		return fmt.Errorf("failed to update case: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		var exists int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM cases WHERE id = ?", c.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check case: %w", err)
		}
		if exists == 0 {
			return apperr.NotFound("case", c.ID)
		}
		return apperr.Conflict("case", c.ID, c.Revision)
	}

	if err := insertActivities(ctx, tx, c); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit case: %w", err)
	}

	c.Revision++
	return nil
}

// insertActivities stores every activity of c; already stored ids are skipped.
func insertActivities(ctx context.Context, tx *sql.Tx, c *grievance.Case) error {
	if len(c.Activities) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO case_activities (`+activityColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to prepare activity insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range c.Activities {
		_, err := stmt.ExecContext(ctx,
			a.ID, c.ID, string(a.Type), a.Description, a.PerformedBy, a.PerformedByRole, formatTime(a.Timestamp),
			string(a.Channel), string(a.Direction), a.Subject, a.Content, a.Recipient, a.RequiresResponse, nullTime(a.ResponseDueDate),
			a.IsAutomated, a.IsInternal, string(a.Outcome), joinFlags(a.Flags),
			a.PreviousAssignee, a.NewAssignee, string(a.PreviousStatus), string(a.NewStatus), a.PreviousLevel, a.NewLevel,
		)
		if err != nil {
			return fmt.Errorf("failed to insert activity %s: %w", a.ID, err)
		}
	}
	return nil
}

// List retrieves cases matching the filter, newest first.
func (r *CaseRepository) List(ctx context.Context, filter grievance.CaseFilter) ([]*grievance.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE 1=1`
	args := []any{}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, string(filter.Category))
	}
	if filter.Priority != "" {
		query += " AND priority = ?"
		args = append(args, string(filter.Priority))
	}
	if filter.Channel != "" {
		query += " AND submission_channel = ?"
		args = append(args, string(filter.Channel))
	}
	if filter.AssignedTo != "" {
		query += " AND assigned_to = ?"
		args = append(args, filter.AssignedTo)
	}
	if filter.EscalatedOnly {
		query += " AND escalation_level > 0"
	}
	if filter.Search != "" {
		like := likePattern(filter.Search)
		query += ` AND (LOWER(case_number) LIKE ? ESCAPE '\' OR LOWER(subject) LIKE ? ESCAPE '\'` +
			` OR LOWER(complainant_name) LIKE ? ESCAPE '\' OR LOWER(complainant_id) LIKE ? ESCAPE '\')`
		args = append(args, like, like, like, like)
	}

	query += " ORDER BY submission_date DESC, case_number DESC"
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := filter.Limit
		if limit <= 0 {
			limit = -1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, filter.Offset)
	}

	return r.queryCases(ctx, query, args...)
}

// FindEscalatedSince retrieves cases escalated at or after since.
func (r *CaseRepository) FindEscalatedSince(ctx context.Context, since time.Time) ([]*grievance.Case, error) {
	return r.queryCases(ctx,
		`SELECT `+caseColumns+` FROM cases WHERE escalation_date IS NOT NULL AND escalation_date >= ? ORDER BY escalation_date`,
		formatTime(since),
	)
}

func (r *CaseRepository) queryCases(ctx context.Context, query string, args ...any) ([]*grievance.Case, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	defer rows.Close()

	var cases []*grievance.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCase(s scanner) (*grievance.Case, error) {
	var (
		c                                            grievance.Case
		category, priority, status, escType, channel string
		assigned, escalated, target, resolved        sql.NullString
		submitted, created, updated                  string
	)
	err := s.Scan(&c.ID, &c.CaseNumber, &c.ComplainantID, &c.ComplainantName, &c.ComplainantEmail, &c.ComplainantPhone, &c.Anonymous,
		&c.Subject, &c.Description, &category, &priority, &c.Urgent,
		&status, &c.AssignedTo, &assigned, &c.EscalationLevel, &escType, &c.EscalatedTo, &escalated, &c.EscalationReason,
		&submitted, &target, &resolved,
		&c.ResolutionSummary, &c.ResolutionActions, &c.SatisfactionRating, &c.Feedback, &c.SatisfactionIndicated,
		&channel, &c.OfficeLocation, &c.CreatedBy, &c.UpdatedBy, &created, &updated, &c.Revision)
	if err != nil {
		return nil, err
	}

	c.Category = grievance.Category(category)
	c.Priority = grievance.Priority(priority)
	c.Status = grievance.Status(status)
	c.EscalationType = grievance.EscalationType(escType)
	c.SubmissionChannel = grievance.Channel(channel)

	var errs []error
	collect := func(dst **time.Time, src sql.NullString) {
		t, err := parseNullTime(src)
		*dst = t
		errs = append(errs, err)
	}
	collect(&c.AssignedDate, assigned)
	collect(&c.EscalationDate, escalated)
	collect(&c.ResolutionTargetDate, target)
	collect(&c.ResolutionDate, resolved)

	var err1, err2, err3 error
	c.SubmissionDate, err1 = parseTime(submitted)
	c.CreatedAt, err2 = parseTime(created)
	c.UpdatedAt, err3 = parseTime(updated)
	errs = append(errs, err1, err2, err3)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanActivity(s scanner) (grievance.Activity, error) {
	var (
		a                                                          grievance.Activity
		actType, channel, direction, outcome, flags, prevSt, newSt string
		timestamp                                                  string
		due                                                        sql.NullString
	)
	err := s.Scan(&a.ID, &a.CaseID, &actType, &a.Description, &a.PerformedBy, &a.PerformedByRole, &timestamp,
		&channel, &direction, &a.Subject, &a.Content, &a.Recipient, &a.RequiresResponse, &due, &a.IsAutomated, &a.IsInternal, &outcome, &flags,
		&a.PreviousAssignee, &a.NewAssignee, &prevSt, &newSt, &a.PreviousLevel, &a.NewLevel)
	if err != nil {
		return a, err
	}

	a.Type = grievance.ActivityType(actType)
	a.Channel = grievance.Channel(channel)
	a.Direction = grievance.Direction(direction)
	a.Outcome = grievance.Outcome(outcome)
	a.PreviousStatus = grievance.Status(prevSt)
	a.NewStatus = grievance.Status(newSt)
	a.Flags = splitFlags(flags)

	if a.Timestamp, err = parseTime(timestamp); err != nil {
		return a, err
	}
	if a.ResponseDueDate, err = parseNullTime(due); err != nil {
		return a, err
	}
	return a, nil
}
