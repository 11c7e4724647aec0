package db

// SchemaSQL is the complete schema for fresh grievance stores.
// It reflects the state after every migration in migrations.go.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the SQLite schema. Repository tests
// load it through GetSchemaSQL() instead of declaring their own tables, so a
// query that references a missing column fails with "no such column" at
// development time rather than in production.
//
// When adding new columns or tables:
//  1. Add a migration to migrations.go
//  2. Add the DDL fragment here
//  3. Run the sqlite adapter tests to verify alignment
const SchemaSQL = casesDDL + activitiesDDL + sequencesDDL + appendOnlyDDL

const casesDDL = `
-- Cases (one grievance from submission to closure)
CREATE TABLE IF NOT EXISTS cases (
	id TEXT PRIMARY KEY,
	case_number TEXT NOT NULL UNIQUE,
	complainant_id TEXT NOT NULL,
	complainant_name TEXT NOT NULL DEFAULT '',
	complainant_email TEXT NOT NULL DEFAULT '',
	complainant_phone TEXT NOT NULL DEFAULT '',
	anonymous INTEGER NOT NULL DEFAULT 0,
	subject TEXT NOT NULL,
	description TEXT NOT NULL,
	category TEXT NOT NULL,
	priority TEXT NOT NULL CHECK(priority IN ('LOW', 'MEDIUM', 'HIGH', 'CRITICAL')),
	urgent INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL CHECK(status IN ('SUBMITTED', 'ASSIGNED', 'UNDER_REVIEW', 'PENDING_RESPONSE', 'ESCALATED', 'RESOLVED', 'CLOSED', 'REJECTED', 'CANCELLED')),
	assigned_to TEXT NOT NULL DEFAULT '',
	assigned_date TEXT,
	escalation_level INTEGER NOT NULL DEFAULT 0 CHECK(escalation_level >= 0),
	escalation_type TEXT NOT NULL DEFAULT '',
	escalated_to TEXT NOT NULL DEFAULT '',
	escalation_date TEXT,
	escalation_reason TEXT NOT NULL DEFAULT '',
	submission_date TEXT NOT NULL,
	resolution_target_date TEXT,
	resolution_date TEXT,
	resolution_summary TEXT NOT NULL DEFAULT '',
	resolution_actions TEXT NOT NULL DEFAULT '',
	satisfaction_rating INTEGER NOT NULL DEFAULT 0 CHECK(satisfaction_rating BETWEEN 0 AND 5),
	feedback TEXT NOT NULL DEFAULT '',
	satisfaction_indicated INTEGER NOT NULL DEFAULT 0,
	submission_channel TEXT NOT NULL,
	office_location TEXT NOT NULL DEFAULT '',
	created_by TEXT NOT NULL DEFAULT '',
	updated_by TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	revision INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_cases_status ON cases(status);
CREATE INDEX IF NOT EXISTS idx_cases_assigned_to ON cases(assigned_to);
CREATE INDEX IF NOT EXISTS idx_cases_escalation_date ON cases(escalation_date);
`

const activitiesDDL = `
-- Case activities (append-only audit log)
CREATE TABLE IF NOT EXISTS case_activities (
	id TEXT PRIMARY KEY,
	case_id TEXT NOT NULL,
	activity_type TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	performed_by TEXT NOT NULL DEFAULT '',
	performed_by_role TEXT NOT NULL DEFAULT '',
	timestamp TEXT NOT NULL,
	channel TEXT NOT NULL DEFAULT '',
	direction TEXT NOT NULL DEFAULT '',
	subject TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '',
	recipient TEXT NOT NULL DEFAULT '',
	requires_response INTEGER NOT NULL DEFAULT 0,
	response_due_date TEXT,
	is_automated INTEGER NOT NULL DEFAULT 0,
	is_internal INTEGER NOT NULL DEFAULT 0,
	outcome TEXT NOT NULL DEFAULT '',
	flags TEXT NOT NULL DEFAULT '',
	previous_assignee TEXT NOT NULL DEFAULT '',
	new_assignee TEXT NOT NULL DEFAULT '',
	previous_status TEXT NOT NULL DEFAULT '',
	new_status TEXT NOT NULL DEFAULT '',
	previous_level INTEGER NOT NULL DEFAULT 0,
	new_level INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY (case_id) REFERENCES cases(id)
);

CREATE INDEX IF NOT EXISTS idx_case_activities_case ON case_activities(case_id, timestamp);
`

const sequencesDDL = `
-- Case number sequences (one counter per year and node)
CREATE TABLE IF NOT EXISTS case_sequences (
	year INTEGER NOT NULL,
	node_id TEXT NOT NULL,
	last_value INTEGER NOT NULL,
	PRIMARY KEY (year, node_id)
);
`

const appendOnlyDDL = `
CREATE TRIGGER IF NOT EXISTS case_activities_no_update
BEFORE UPDATE ON case_activities
BEGIN
	SELECT RAISE(ABORT, 'case activities are append-only');
END;

CREATE TRIGGER IF NOT EXISTS case_activities_no_delete
BEFORE DELETE ON case_activities
BEGIN
	SELECT RAISE(ABORT, 'case activities are append-only');
END;
`

// PostgresSchemaSQL is the PostgreSQL rendition of SchemaSQL used by the
// postgres adapter. Timestamps are native TIMESTAMPTZ columns.
const PostgresSchemaSQL = `
CREATE TABLE IF NOT EXISTS cases (
	id TEXT PRIMARY KEY,
	case_number TEXT NOT NULL UNIQUE,
	complainant_id TEXT NOT NULL,
	complainant_name TEXT NOT NULL DEFAULT '',
	complainant_email TEXT NOT NULL DEFAULT '',
	complainant_phone TEXT NOT NULL DEFAULT '',
	anonymous BOOLEAN NOT NULL DEFAULT FALSE,
	subject TEXT NOT NULL,
	description TEXT NOT NULL,
	category TEXT NOT NULL,
	priority TEXT NOT NULL,
	urgent BOOLEAN NOT NULL DEFAULT FALSE,
	status TEXT NOT NULL,
	assigned_to TEXT NOT NULL DEFAULT '',
	assigned_date TIMESTAMPTZ,
	escalation_level INTEGER NOT NULL DEFAULT 0 CHECK (escalation_level >= 0),
	escalation_type TEXT NOT NULL DEFAULT '',
	escalated_to TEXT NOT NULL DEFAULT '',
	escalation_date TIMESTAMPTZ,
	escalation_reason TEXT NOT NULL DEFAULT '',
	submission_date TIMESTAMPTZ NOT NULL,
	resolution_target_date TIMESTAMPTZ,
	resolution_date TIMESTAMPTZ,
	resolution_summary TEXT NOT NULL DEFAULT '',
	resolution_actions TEXT NOT NULL DEFAULT '',
	satisfaction_rating INTEGER NOT NULL DEFAULT 0 CHECK (satisfaction_rating BETWEEN 0 AND 5),
	feedback TEXT NOT NULL DEFAULT '',
	satisfaction_indicated BOOLEAN NOT NULL DEFAULT FALSE,
	submission_channel TEXT NOT NULL,
	office_location TEXT NOT NULL DEFAULT '',
	created_by TEXT NOT NULL DEFAULT '',
	updated_by TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	revision BIGINT NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_cases_status ON cases(status);
CREATE INDEX IF NOT EXISTS idx_cases_escalation_date ON cases(escalation_date);

CREATE TABLE IF NOT EXISTS case_activities (
	id TEXT PRIMARY KEY,
	case_id TEXT NOT NULL REFERENCES cases(id),
	seq BIGSERIAL,
	activity_type TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	performed_by TEXT NOT NULL DEFAULT '',
	performed_by_role TEXT NOT NULL DEFAULT '',
	timestamp TIMESTAMPTZ NOT NULL,
	channel TEXT NOT NULL DEFAULT '',
	direction TEXT NOT NULL DEFAULT '',
	subject TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '',
	recipient TEXT NOT NULL DEFAULT '',
	requires_response BOOLEAN NOT NULL DEFAULT FALSE,
	response_due_date TIMESTAMPTZ,
	is_automated BOOLEAN NOT NULL DEFAULT FALSE,
	is_internal BOOLEAN NOT NULL DEFAULT FALSE,
	outcome TEXT NOT NULL DEFAULT '',
	flags TEXT[] NOT NULL DEFAULT '{}',
	previous_assignee TEXT NOT NULL DEFAULT '',
	new_assignee TEXT NOT NULL DEFAULT '',
	previous_status TEXT NOT NULL DEFAULT '',
	new_status TEXT NOT NULL DEFAULT '',
	previous_level INTEGER NOT NULL DEFAULT 0,
	new_level INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_case_activities_case ON case_activities(case_id, timestamp);

CREATE TABLE IF NOT EXISTS case_sequences (
	year INTEGER NOT NULL,
	node_id TEXT NOT NULL,
	last_value BIGINT NOT NULL,
	PRIMARY KEY (year, node_id)
);
`

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
