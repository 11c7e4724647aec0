package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestOpen_FreshStoreIsFullyVersioned(t *testing.T) {
	conn, err := Open(filepath.Join(t.TempDir(), "nested", "grievance.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	version, err := CurrentVersion(conn)
	if err != nil {
		t.Fatal(err)
	}
	if version != LatestVersion() {
		t.Errorf("version = %d, want %d", version, LatestVersion())
	}

	// reopening must be a no-op
	if err := InitSchema(conn); err != nil {
		t.Errorf("InitSchema() on migrated store error = %v", err)
	}
}

func TestRunMigrations_UpgradesUnversionedStore(t *testing.T) {
	conn, err := sql.Open("sqlite3", MemoryPath)
	if err != nil {
		t.Fatal(err)
	}
	conn.SetMaxOpenConns(1)
	defer conn.Close()

	if _, err := conn.Exec(casesDDL + activitiesDDL + sequencesDDL); err != nil {
		t.Fatal(err)
	}
	if err := InitSchema(conn); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}

	var triggers int
	if err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='trigger'").Scan(&triggers); err != nil {
		t.Fatal(err)
	}
	if triggers != 2 {
		t.Errorf("triggers = %d, want 2", triggers)
	}
}

func TestActivitiesAreAppendOnly(t *testing.T) {
	conn, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	_, err = conn.Exec(`INSERT INTO cases (id, case_number, complainant_id, subject, description, category, priority, status, submission_date, submission_channel, created_at, updated_at)
		VALUES ('c1', 'GRV-2026-N1-000001', 'PSN-1', 's', 'd', 'OTHER', 'LOW', 'SUBMITTED', 'x', 'WEB', 'x', 'x')`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec(`INSERT INTO case_activities (id, case_id, activity_type, timestamp) VALUES ('a1', 'c1', 'CASE_CREATED', 'x')`); err != nil {
		t.Fatal(err)
	}

	if _, err := conn.Exec(`UPDATE case_activities SET description = 'edited' WHERE id = 'a1'`); err == nil {
		t.Error("expected update of an activity to fail")
	}
	if _, err := conn.Exec(`DELETE FROM case_activities WHERE id = 'a1'`); err == nil {
		t.Error("expected delete of an activity to fail")
	}
	if _, err := conn.Exec(`INSERT INTO case_activities (id, case_id, activity_type, timestamp) VALUES ('a2', 'missing', 'CASE_CREATED', 'x')`); err == nil {
		t.Error("expected foreign key violation for unknown case")
	}
}
