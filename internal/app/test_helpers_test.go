package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/grievance/internal/apperr"
	"github.com/example/grievance/internal/core/grievance"
	"github.com/example/grievance/internal/ports/secondary"
	"github.com/example/grievance/internal/telemetry"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// Ensure mocks implement the interfaces
var (
	_ secondary.CaseRepository         = (*mockCaseRepository)(nil)
	_ secondary.NumberGenerator        = (*memNumberGenerator)(nil)
	_ secondary.NotificationDispatcher = (*mockDispatcher)(nil)
	_ secondary.Transport              = (*mockTransport)(nil)
	_ secondary.ReassignmentAdvisor    = (*mockAdvisor)(nil)
	_ secondary.WorkflowHook           = (*mockHook)(nil)
)

// mockCaseRepository implements secondary.CaseRepository with compare-and-swap.
type mockCaseRepository struct {
	mu      sync.Mutex
	cases   map[string]*grievance.Case
	creates int
	saves   int
	saveErr error
}

func newMockCaseRepository() *mockCaseRepository {
	return &mockCaseRepository{cases: make(map[string]*grievance.Case)}
}

func cloneCase(c *grievance.Case) *grievance.Case {
	cp := *c
	cp.Activities = append([]grievance.Activity(nil), c.Activities...)
	return &cp
}

func (m *mockCaseRepository) writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creates + m.saves
}

func (m *mockCaseRepository) put(c *grievance.Case) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.Revision == 0 {
		c.Revision = 1
	}
	m.cases[c.ID] = cloneCase(c)
}

func (m *mockCaseRepository) Create(ctx context.Context, c *grievance.Case) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.cases {
		if existing.CaseNumber == c.CaseNumber {
			return fmt.Errorf("duplicate case number %s", c.CaseNumber)
		}
	}
	c.Revision = 1
	m.cases[c.ID] = cloneCase(c)
	m.creates++
	return nil
}

func (m *mockCaseRepository) FindByID(ctx context.Context, id string) (*grievance.Case, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cases[id]
	if !ok {
		return nil, apperr.NotFound("case", id)
	}
	return cloneCase(c), nil
}

func (m *mockCaseRepository) FindByCaseNumber(ctx context.Context, number string) (*grievance.Case, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.cases {
		if c.CaseNumber == number {
			return cloneCase(c), nil
		}
	}
	return nil, apperr.NotFound("case", number)
}

func (m *mockCaseRepository) Save(ctx context.Context, c *grievance.Case) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	stored, ok := m.cases[c.ID]
	if !ok {
		return apperr.NotFound("case", c.ID)
	}
	if stored.Revision != c.Revision {
		return apperr.Conflict("case", c.ID, c.Revision)
	}
	if stored.CaseNumber != c.CaseNumber {
		return errors.New("case number must not change")
	}
	c.Revision++
	m.cases[c.ID] = cloneCase(c)
	m.saves++
	return nil
}

func (m *mockCaseRepository) List(ctx context.Context, filter grievance.CaseFilter) ([]*grievance.Case, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*grievance.Case
	for _, c := range m.cases {
		if filter.Matches(*c) {
			cp := cloneCase(c)
			cp.Activities = nil
			out = append(out, cp)
		}
	}
	return out, nil
}

func (m *mockCaseRepository) FindEscalatedSince(ctx context.Context, since time.Time) ([]*grievance.Case, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*grievance.Case
	for _, c := range m.cases {
		if c.EscalationDate != nil && !c.EscalationDate.Before(since) {
			out = append(out, cloneCase(c))
		}
	}
	return out, nil
}

// memNumberGenerator is a monotonic in-memory sequence per year.
type memNumberGenerator struct {
	mu   sync.Mutex
	node string
	seq  map[int]int64
}

func newMemNumberGenerator(node string) *memNumberGenerator {
	return &memNumberGenerator{node: node, seq: make(map[int]int64)}
}

func (g *memNumberGenerator) NextCaseNumber(ctx context.Context, at time.Time) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	year := at.UTC().Year()
	g.seq[year]++
	return grievance.FormatCaseNumber(year, g.node, g.seq[year]), nil
}

// mockDispatcher records every notification.
type mockDispatcher struct {
	mu             sync.Mutex
	assignments    []string
	management     []grievance.EscalationResult
	communications []string
	statusNotices  []grievance.Status
	err            error
}

func (m *mockDispatcher) NotifyAssignment(ctx context.Context, c *grievance.Case, assignee string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments = append(m.assignments, assignee)
	return m.err
}

func (m *mockDispatcher) NotifyManagement(ctx context.Context, c *grievance.Case, result grievance.EscalationResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.management = append(m.management, result)
	return m.err
}

func (m *mockDispatcher) NotifyCommunication(ctx context.Context, c *grievance.Case, a grievance.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.communications = append(m.communications, a.ID)
	return m.err
}

func (m *mockDispatcher) NotifyStatusChange(ctx context.Context, c *grievance.Case, a grievance.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusNotices = append(m.statusNotices, a.NewStatus)
	return m.err
}

func (m *mockDispatcher) total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.assignments) + len(m.management) + len(m.communications) + len(m.statusNotices)
}

// mockTransport records deliveries and returns the configured outcome.
type mockTransport struct {
	calls []string
	sent  bool
	err   error
}

func (m *mockTransport) SendEmail(ctx context.Context, to, subject, body string) (bool, error) {
	m.calls = append(m.calls, "email:"+to)
	return m.sent, m.err
}

func (m *mockTransport) SendSMS(ctx context.Context, to, body string) (bool, error) {
	m.calls = append(m.calls, "sms:"+to)
	return m.sent, m.err
}

func (m *mockTransport) SendPostalMail(ctx context.Context, recipient, subject, body string) (bool, error) {
	m.calls = append(m.calls, "postal:"+recipient)
	return m.sent, m.err
}

type mockAdvisor struct {
	transfers []secondary.WorkloadTransfer
	err       error
}

func (m *mockAdvisor) TransferWorkload(ctx context.Context, req secondary.WorkloadTransfer) error {
	m.transfers = append(m.transfers, req)
	return m.err
}

type mockHook struct {
	created []string
	err     error
}

func (m *mockHook) CaseCreated(ctx context.Context, c *grievance.Case) error {
	m.created = append(m.created, c.CaseNumber)
	return m.err
}

// testEnv wires every service against the mocks.
type testEnv struct {
	repo       *mockCaseRepository
	numbers    *memNumberGenerator
	dispatcher *mockDispatcher
	transport  *mockTransport
	advisor    *mockAdvisor
	hook       *mockHook
	metrics    *telemetry.Metrics
	rt         Runtime
	seq        int
}

func newTestEnv() *testEnv {
	env := &testEnv{
		repo:       newMockCaseRepository(),
		numbers:    newMemNumberGenerator("N1"),
		dispatcher: &mockDispatcher{},
		transport:  &mockTransport{sent: true},
		advisor:    &mockAdvisor{},
		hook:       &mockHook{},
		metrics:    telemetry.NewMetrics(),
	}
	logger := zap.NewNop()
	env.rt = Runtime{
		Repo:     env.repo,
		Executor: NewEffectExecutor(env.dispatcher, env.advisor, env.hook, logger, env.metrics),
		Policy:   DefaultPolicy(),
		Logger:   logger,
		Metrics:  env.metrics,
		Now:      func() time.Time { return testNow },
		NewID: func() string {
			env.seq++
			return fmt.Sprintf("id-%04d", env.seq)
		},
	}
	return env
}

// seedCase stores an open case and returns its id.
func (e *testEnv) seedCase(category grievance.Category, priority grievance.Priority, status grievance.Status, level int, assignee string) *grievance.Case {
	c := &grievance.Case{
		ID:                "case-" + fmt.Sprint(len(e.repo.cases)+1),
		CaseNumber:        grievance.FormatCaseNumber(2026, "N1", int64(900+len(e.repo.cases))),
		ComplainantID:     "PSN-1",
		ComplainantName:   "Jane Doe",
		ComplainantEmail:  "jane@example.org",
		ComplainantPhone:  "+15550100",
		Subject:           "Late payment",
		Category:          category,
		Priority:          priority,
		Status:            status,
		AssignedTo:        assignee,
		EscalationLevel:   level,
		SubmissionDate:    testNow.Add(-72 * time.Hour),
		SubmissionChannel: grievance.ChannelWeb,
	}
	e.repo.put(c)
	return c
}
