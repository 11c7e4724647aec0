// Package sqlite_test contains integration tests for the SQLite case store.
//
// # Schema Protection
//
// Every test opens its store through db.Open, which loads the authoritative
// schema from db.GetSchemaSQL(). DO NOT hardcode CREATE TABLE statements in
// test files.
package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/example/grievance/internal/core/grievance"
	"github.com/example/grievance/internal/db"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := db.Open(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() {
		testDB.Close()
	})
	return testDB
}

// newTestCase builds a submitted case with its creation activity.
func newTestCase(id, number string) *grievance.Case {
	c := &grievance.Case{
		ID:                id,
		CaseNumber:        number,
		ComplainantID:     "PSN-1001",
		ComplainantName:   "Jane Doe",
		ComplainantEmail:  "jane@example.org",
		Subject:           "Late benefit payment",
		Description:       "My March payment has not arrived.",
		Category:          grievance.CategoryPaymentIssue,
		Priority:          grievance.PriorityMedium,
		Status:            grievance.StatusSubmitted,
		SubmissionDate:    testNow,
		SubmissionChannel: grievance.ChannelWeb,
		CreatedBy:         "PSN-1001",
		CreatedAt:         testNow,
	}
	c.Append(grievance.Activity{
		ID:          id + "-a1",
		Type:        grievance.ActivityCaseCreated,
		Description: "Case submitted via WEB",
		PerformedBy: "PSN-1001",
		Timestamp:   testNow,
	})
	return c
}
