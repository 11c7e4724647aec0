package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/example/grievance/internal/apperr"
	"github.com/example/grievance/internal/core/grievance"
	"github.com/example/grievance/internal/db"
	"github.com/example/grievance/internal/ports/secondary"
)

var _ secondary.CaseRepository = (*CaseRepository)(nil)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

const caseColumns = `
	id, case_number, complainant_id, complainant_name, complainant_email, complainant_phone,
	anonymous, subject, description, category, priority, urgent, status, assigned_to,
	assigned_date, escalation_level, escalation_type, escalated_to, escalation_date,
	escalation_reason, submission_date, resolution_target_date, resolution_date,
	resolution_summary, resolution_actions, satisfaction_rating, feedback,
	satisfaction_indicated, submission_channel, office_location, created_by, updated_by,
	created_at, updated_at, revision`

const activityColumns = `
	id, case_id, activity_type, description, performed_by, performed_by_role, timestamp,
	channel, direction, subject, content, recipient, requires_response, response_due_date,
	is_automated, is_internal, outcome, flags, previous_assignee, new_assignee,
	previous_status, new_status, previous_level, new_level`

const insertCaseSQL = `INSERT INTO cases (` + caseColumns + `) VALUES (
	:id, :case_number, :complainant_id, :complainant_name, :complainant_email,
	:complainant_phone, :anonymous, :subject, :description, :category, :priority, :urgent,
	:status, :assigned_to, :assigned_date, :escalation_level, :escalation_type,
	:escalated_to, :escalation_date, :escalation_reason, :submission_date,
	:resolution_target_date, :resolution_date, :resolution_summary, :resolution_actions,
	:satisfaction_rating, :feedback, :satisfaction_indicated, :submission_channel,
	:office_location, :created_by, :updated_by, :created_at, :updated_at, :revision)`

const insertActivitySQL = `INSERT INTO case_activities (` + activityColumns + `) VALUES (
	:id, :case_id, :activity_type, :description, :performed_by, :performed_by_role,
	:timestamp, :channel, :direction, :subject, :content, :recipient, :requires_response,
	:response_due_date, :is_automated, :is_internal, :outcome, :flags, :previous_assignee,
	:new_assignee, :previous_status, :new_status, :previous_level, :new_level)
	ON CONFLICT (id) DO NOTHING`

const updateCaseSQL = `
		UPDATE cases SET
			complainant_name = :complainant_name,
			complainant_email = :complainant_email,
			complainant_phone = :complainant_phone,
			anonymous = :anonymous,
			subject = :subject,
			description = :description,
			category = :category,
			priority = :priority,
			urgent = :urgent,
			status = :status,
			assigned_to = :assigned_to,
			assigned_date = :assigned_date,
			escalation_level = :escalation_level,
			escalation_type = :escalation_type,
			escalated_to = :escalated_to,
			escalation_date = :escalation_date,
			escalation_reason = :escalation_reason,
			resolution_target_date = :resolution_target_date,
			resolution_date = :resolution_date,
			resolution_summary = :resolution_summary,
			resolution_actions = :resolution_actions,
			satisfaction_rating = :satisfaction_rating,
			feedback = :feedback,
			satisfaction_indicated = :satisfaction_indicated,
			office_location = :office_location,
			updated_by = :updated_by,
			updated_at = :updated_at,
			revision = revision + 1
		WHERE id = :id AND revision = :revision
	`

// CaseRepository implements secondary.CaseRepository with PostgreSQL.
type CaseRepository struct {
	db *sqlx.DB
}

// NewCaseRepository creates a new PostgreSQL case repository.
func NewCaseRepository(db *sqlx.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

// EnsureSchema creates the case tables if they do not exist.
func (r *CaseRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, db.PostgresSchemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Create persists a new case and its activities.
func (r *CaseRepository) Create(ctx context.Context, c *grievance.Case) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := toDBCase(c)
	row.Revision = 1
	if _, err := tx.NamedExecContext(ctx, insertCaseSQL, row); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
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
	var row dbCase
	err := r.db.GetContext(ctx, &row, `SELECT `+caseColumns+` FROM cases WHERE `+column+` = $1`, value)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("case", value)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	var acts []dbActivity
	err = r.db.SelectContext(ctx, &acts, `SELECT `+activityColumns+` FROM case_activities WHERE case_id = $1 ORDER BY seq`, row.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get activities: %w", err)
	}

	c := row.toCase()
	for _, a := range acts {
		c.Activities = append(c.Activities, a.toActivity())
	}
	return c, nil
}

// Save writes the mutable case fields under compare-and-swap on revision
// and appends activities that are not yet stored.
func (r *CaseRepository) Save(ctx context.Context, c *grievance.Case) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.NamedExecContext(ctx, updateCaseSQL, toDBCase(c))
	if err != nil {
		return fmt.Errorf("failed to update case: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var exists bool
		if err := tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM cases WHERE id = $1)`, c.ID); err != nil {
			return fmt.Errorf("failed to check case: %w", err)
		}
		if !exists {
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

func insertActivities(ctx context.Context, tx *sqlx.Tx, c *grievance.Case) error {
	for _, a := range c.Activities {
		if _, err := tx.NamedExecContext(ctx, insertActivitySQL, toDBActivity(c.ID, a)); err != nil {
			return fmt.Errorf("failed to insert activity %s: %w", a.ID, err)
		}
	}
	return nil
}

// List retrieves cases matching the filter, newest first.
func (r *CaseRepository) List(ctx context.Context, filter grievance.CaseFilter) ([]*grievance.Case, error) {
	conditions := []string{"1=1"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		conditions = append(conditions, "status = "+arg(string(filter.Status)))
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = "+arg(string(filter.Category)))
	}
	if filter.Priority != "" {
		conditions = append(conditions, "priority = "+arg(string(filter.Priority)))
	}
	if filter.Channel != "" {
		conditions = append(conditions, "submission_channel = "+arg(string(filter.Channel)))
	}
	if filter.AssignedTo != "" {
		conditions = append(conditions, "assigned_to = "+arg(filter.AssignedTo))
	}
	if filter.EscalatedOnly {
		conditions = append(conditions, "escalation_level > 0")
	}
	if filter.Search != "" {
		p := arg(likePattern(filter.Search))
		conditions = append(conditions, fmt.Sprintf(
			"(case_number ILIKE %[1]s OR subject ILIKE %[1]s OR complainant_name ILIKE %[1]s OR complainant_id ILIKE %[1]s)", p))
	}

	query := `SELECT ` + caseColumns + ` FROM cases WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY submission_date DESC, case_number DESC`
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + arg(filter.Offset)
	}

	return r.selectCases(ctx, query, args...)
}

// FindEscalatedSince retrieves cases escalated at or after since.
func (r *CaseRepository) FindEscalatedSince(ctx context.Context, since time.Time) ([]*grievance.Case, error) {
	return r.selectCases(ctx,
		`SELECT `+caseColumns+` FROM cases WHERE escalation_date >= $1 ORDER BY escalation_date`,
		since.UTC())
}

func (r *CaseRepository) selectCases(ctx context.Context, query string, args ...any) ([]*grievance.Case, error) {
	var rows []dbCase
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	cases := make([]*grievance.Case, 0, len(rows))
	for _, row := range rows {
		cases = append(cases, row.toCase())
	}
	return cases, nil
}

// likePattern builds a substring pattern with escaped wildcards.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}
