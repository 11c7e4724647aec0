package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/grievance/internal/apperr"
	"github.com/example/grievance/internal/core/grievance"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func setupMockCaseDB(t *testing.T) (sqlmock.Sqlmock, *CaseRepository) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return mock, NewCaseRepository(sqlx.NewDb(mockDB, "postgres"))
}

var caseRowColumns = []string{
	"id", "case_number", "complainant_id", "complainant_name", "complainant_email", "complainant_phone",
	"anonymous", "subject", "description", "category", "priority", "urgent", "status", "assigned_to",
	"assigned_date", "escalation_level", "escalation_type", "escalated_to", "escalation_date",
	"escalation_reason", "submission_date", "resolution_target_date", "resolution_date",
	"resolution_summary", "resolution_actions", "satisfaction_rating", "feedback",
	"satisfaction_indicated", "submission_channel", "office_location", "created_by", "updated_by",
	"created_at", "updated_at", "revision",
}

func caseRows(id, number string, level int, escalatedAt any) *sqlmock.Rows {
	return sqlmock.NewRows(caseRowColumns).AddRow(
		id, number, "PSN-1001", "Jane Doe", "jane@example.org", "",
		false, "Late benefit payment", "No payment", "PAYMENT_ISSUE", "HIGH", false, "ESCALATED", "DOMAIN_SUPERVISOR",
		testNow, level, "STANDARD", "DOMAIN_SUPERVISOR", escalatedAt,
		"breach", testNow.Add(-72*time.Hour), testNow.Add(24*time.Hour), nil,
		"", "", 0, "",
		false, "WEB", "", "PSN-1001", "sla-monitor",
		testNow.Add(-72*time.Hour), testNow, int64(3),
	)
}

var activityRowColumns = []string{
	"id", "case_id", "activity_type", "description", "performed_by", "performed_by_role", "timestamp",
	"channel", "direction", "subject", "content", "recipient", "requires_response", "response_due_date",
	"is_automated", "is_internal", "outcome", "flags", "previous_assignee", "new_assignee",
	"previous_status", "new_status", "previous_level", "new_level",
}

func testCase() *grievance.Case {
	c := &grievance.Case{
		ID:                "case-1",
		CaseNumber:        "GRV-2026-N1-000001",
		ComplainantID:     "PSN-1001",
		Subject:           "Late benefit payment",
		Description:       "No payment",
		Category:          grievance.CategoryPaymentIssue,
		Priority:          grievance.PriorityHigh,
		Status:            grievance.StatusSubmitted,
		SubmissionDate:    testNow,
		SubmissionChannel: grievance.ChannelWeb,
		CreatedAt:         testNow,
	}
	c.Append(grievance.Activity{ID: "a1", Type: grievance.ActivityCaseCreated, Timestamp: testNow})
	return c
}

func TestCreate_Success(t *testing.T) {
	mock, repo := setupMockCaseDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO cases`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO case_activities`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c := testCase()
	err := repo.Create(context.Background(), c)

	require.NoError(t, err)
	assert.Equal(t, int64(1), c.Revision)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateNumberConflicts(t *testing.T) {
	mock, repo := setupMockCaseDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO cases`).WillReturnError(&pq.Error{Code: uniqueViolation})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), testCase())

	assert.True(t, errors.Is(err, apperr.ErrConflict), "err = %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_LoadsActivitiesInOrder(t *testing.T) {
	mock, repo := setupMockCaseDB(t)

	mock.ExpectQuery(`FROM cases WHERE id = \$1`).
		WithArgs("case-1").
		WillReturnRows(caseRows("case-1", "GRV-2026-N1-000001", 1, testNow))
	mock.ExpectQuery(`FROM case_activities WHERE case_id = \$1 ORDER BY seq`).
		WithArgs("case-1").
		WillReturnRows(sqlmock.NewRows(activityRowColumns).
			AddRow("a1", "case-1", "CASE_CREATED", "created", "PSN-1001", "CITIZEN", testNow.Add(-72*time.Hour),
				"", "", "", "", "", false, nil, false, false, "", []byte("{}"), "", "", "", "", 0, 0).
			AddRow("a2", "case-1", "COMMUNICATION_RECEIVED", "", "PSN-1001", "CITIZEN", testNow,
				"EMAIL", "INBOUND", "", "thanks", "", true, testNow.Add(8*time.Hour), false, false, "", []byte("{SATISFACTION_INDICATED}"), "", "", "", "", 0, 0))

	c, err := repo.FindByID(context.Background(), "case-1")

	require.NoError(t, err)
	assert.Equal(t, grievance.StatusEscalated, c.Status)
	assert.Equal(t, int64(3), c.Revision)
	assert.Nil(t, c.ResolutionDate)
	require.NotNil(t, c.EscalationDate)
	assert.True(t, c.EscalationDate.Equal(testNow))
	require.Len(t, c.Activities, 2)
	assert.Nil(t, c.Activities[0].Flags)
	assert.True(t, c.Activities[1].HasFlag(grievance.FlagSatisfactionIndicated))
	assert.True(t, c.Activities[1].ResponseDueDate.Equal(testNow.Add(8*time.Hour)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByCaseNumber_NotFound(t *testing.T) {
	mock, repo := setupMockCaseDB(t)

	mock.ExpectQuery(`FROM cases WHERE case_number = \$1`).
		WithArgs("GRV-2026-N1-000404").
		WillReturnRows(sqlmock.NewRows(caseRowColumns))

	c, err := repo.FindByCaseNumber(context.Background(), "GRV-2026-N1-000404")

	assert.Nil(t, c)
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "err = %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_Success(t *testing.T) {
	mock, repo := setupMockCaseDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE cases SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO case_activities`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO case_activities`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c := testCase()
	c.Revision = 4
	c.Append(grievance.Activity{ID: "a2", Type: grievance.ActivityAssignmentChanged, Timestamp: testNow})
	err := repo.Save(context.Background(), c)

	require.NoError(t, err)
	assert.Equal(t, int64(5), c.Revision)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_StaleRevision(t *testing.T) {
	tests := []struct {
		name    string
		exists  bool
		wantErr error
	}{
		{"concurrent writer", true, apperr.ErrConflict},
		{"deleted case", false, apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, repo := setupMockCaseDB(t)

			mock.ExpectBegin()
			mock.ExpectExec(`UPDATE cases SET`).WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectQuery(`SELECT EXISTS`).
				WithArgs("case-1").
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tt.exists))
			mock.ExpectRollback()

			c := testCase()
			c.Revision = 2
			err := repo.Save(context.Background(), c)

			assert.True(t, errors.Is(err, tt.wantErr), "err = %v", err)
			assert.Equal(t, int64(2), c.Revision)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestList_BuildsFilteredQuery(t *testing.T) {
	mock, repo := setupMockCaseDB(t)

	mock.ExpectQuery(`WHERE 1=1 AND category = \$1 AND escalation_level > 0 AND \(case_number ILIKE \$2 OR .*\) ORDER BY submission_date DESC, case_number DESC LIMIT \$3 OFFSET \$4`).
		WithArgs("PAYMENT_ISSUE", `%50\%%`, 10, 5).
		WillReturnRows(caseRows("case-1", "GRV-2026-N1-000001", 1, testNow))

	cases, err := repo.List(context.Background(), grievance.CaseFilter{
		Category:      grievance.CategoryPaymentIssue,
		EscalatedOnly: true,
		Search:        "50%",
		Limit:         10,
		Offset:        5,
	})

	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Nil(t, cases[0].Activities)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindEscalatedSince(t *testing.T) {
	mock, repo := setupMockCaseDB(t)
	since := testNow.AddDate(0, 0, -30)

	mock.ExpectQuery(`WHERE escalation_date >= \$1 ORDER BY escalation_date`).
		WithArgs(since).
		WillReturnRows(caseRows("case-1", "GRV-2026-N1-000001", 1, testNow).
			AddRow(caseRowValues("case-2", "GRV-2026-N1-000002")...))

	cases, err := repo.FindEscalatedSince(context.Background(), since)

	require.NoError(t, err)
	assert.Len(t, cases, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func caseRowValues(id, number string) []driver.Value {
	return []driver.Value{
		id, number, "PSN-1002", "", "", "",
		true, "Rude officer", "Details", "STAFF_CONDUCT", "MEDIUM", false, "ESCALATED", "HR_DIRECTOR",
		nil, 2, "MANAGEMENT", "HR_DIRECTOR", testNow,
		"", testNow, nil, nil,
		"", "", 0, "",
		false, "PHONE", "", "OP-7", "OP-7",
		testNow, testNow, int64(1),
	}
}

func TestSequenceGenerator_NextCaseNumber(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	gen, err := NewSequenceGenerator(sqlx.NewDb(mockDB, "postgres"), "N1")
	require.NoError(t, err)

	mock.ExpectQuery(`INSERT INTO case_sequences`).
		WithArgs(2026, "N1").
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(int64(7)))

	number, err := gen.NextCaseNumber(context.Background(), testNow)

	require.NoError(t, err)
	assert.Equal(t, "GRV-2026-N1-000007", number)
	require.NoError(t, mock.ExpectationsWereMet())

	_, err = NewSequenceGenerator(sqlx.NewDb(mockDB, "postgres"), "north")
	assert.Error(t, err)
}
