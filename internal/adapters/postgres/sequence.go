package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/grievance/internal/core/grievance"
	"github.com/example/grievance/internal/ports/secondary"
)

var _ secondary.NumberGenerator = (*SequenceGenerator)(nil)

const nextSequenceSQL = `
	INSERT INTO case_sequences (year, node_id, last_value) VALUES ($1, $2, 1)
	ON CONFLICT (year, node_id) DO UPDATE SET last_value = case_sequences.last_value + 1
	RETURNING last_value`

// SequenceGenerator allocates case numbers from the case_sequences table.
// The upsert takes a row lock, so concurrent callers on any replica serialize.
type SequenceGenerator struct {
	db   *sqlx.DB
	node string
}

// NewSequenceGenerator creates a generator issuing numbers for node.
func NewSequenceGenerator(db *sqlx.DB, node string) (*SequenceGenerator, error) {
	if !grievance.ValidNodeID(node) {
		return nil, fmt.Errorf("invalid node id %q: use upper-case letters and digits", node)
	}
	return &SequenceGenerator{db: db, node: node}, nil
}

// NextCaseNumber increments the counter for the UTC year of at.
func (g *SequenceGenerator) NextCaseNumber(ctx context.Context, at time.Time) (string, error) {
	year := at.UTC().Year()
	var seq int64
	if err := g.db.GetContext(ctx, &seq, nextSequenceSQL, year, g.node); err != nil {
		return "", fmt.Errorf("failed to allocate case number: %w", err)
	}
	return grievance.FormatCaseNumber(year, g.node, seq), nil
}
