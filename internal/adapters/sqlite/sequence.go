package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/grievance/internal/core/grievance"
	"github.com/example/grievance/internal/ports/secondary"
)

var _ secondary.NumberGenerator = (*SequenceGenerator)(nil)

// SequenceGenerator allocates case numbers from the case_sequences table.
// Each (year, node) pair has its own gapless counter.
type SequenceGenerator struct {
	db   *sql.DB
	node string
}

// NewSequenceGenerator creates a generator issuing numbers for node.
func NewSequenceGenerator(db *sql.DB, node string) (*SequenceGenerator, error) {
	if !grievance.ValidNodeID(node) {
		return nil, fmt.Errorf("invalid node id %q: use upper-case letters and digits", node)
	}
	return &SequenceGenerator{db: db, node: node}, nil
}

// NextCaseNumber increments the counter for the UTC year of at.
func (g *SequenceGenerator) NextCaseNumber(ctx context.Context, at time.Time) (string, error) {
	year := at.UTC().Year()

	var seq int64
	err := g.db.QueryRowContext(ctx,
		`INSERT INTO case_sequences (year, node_id, last_value) VALUES (?, ?, 1)
		ON CONFLICT(year, node_id) DO UPDATE SET last_value = last_value + 1
		RETURNING last_value`,
		year, g.node,
	).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("failed to allocate case number: %w", err)
	}

	return grievance.FormatCaseNumber(year, g.node, seq), nil
}
