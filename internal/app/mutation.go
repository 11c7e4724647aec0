package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/grievance/internal/core/effects"
	"github.com/example/grievance/internal/core/grievance"
	"github.com/example/grievance/internal/ctxutil"
	"github.com/example/grievance/internal/ports/secondary"
	"github.com/example/grievance/internal/telemetry"
)

// Policy holds the business tables the services apply.
type Policy struct {
	SLA          grievance.SLAPolicy
	Ladders      grievance.LadderTable
	LookbackDays int
}

// DefaultPolicy returns the built-in SLA windows, ladders and lookback.
func DefaultPolicy() Policy {
	return Policy{
		SLA:          grievance.DefaultSLAPolicy(),
		Ladders:      grievance.DefaultLadderTable(),
		LookbackDays: grievance.DefaultLookbackDays,
	}
}

// Runtime bundles the collaborators every service shares.
type Runtime struct {
	Repo     secondary.CaseRepository
	Executor EffectExecutor
	Policy   Policy
	Logger   *zap.Logger
	Metrics  *telemetry.Metrics
	Now      func() time.Time
	NewID    func() string
}

func (r Runtime) withDefaults() Runtime {
	if r.Logger == nil {
		r.Logger = zap.NewNop()
	}
	if r.Now == nil {
		r.Now = func() time.Time { return time.Now().UTC() }
	}
	if r.NewID == nil {
		r.NewID = uuid.NewString
	}
	if r.Policy.LookbackDays <= 0 {
		r.Policy.LookbackDays = grievance.DefaultLookbackDays
	}
	return r
}

// actorFrom reads the acting user from ctx; unattributed calls act as SYSTEM.
func actorFrom(ctx context.Context) grievance.Actor {
	a := grievance.Actor{ID: ctxutil.ActorFromContext(ctx), Role: ctxutil.RoleFromContext(ctx)}
	if a.ID == "" {
		a.ID = "SYSTEM"
	}
	if a.Role == "" {
		a.Role = grievance.RoleSystem
	}
	return a
}

func (r Runtime) mutation(ctx context.Context) grievance.Mutation {
	return grievance.Mutation{Actor: actorFrom(ctx), ActivityID: r.NewID(), Now: r.Now()}
}

// mutate loads a case, applies fn, saves with compare-and-swap and then runs
// the returned effects. Nothing is written when fn fails.
func (r Runtime) mutate(ctx context.Context, id string, fn func(c *grievance.Case, m grievance.Mutation) ([]effects.Effect, error)) (*grievance.Case, error) {
	c, err := r.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	effs, err := fn(c, r.mutation(ctx))
	if err != nil {
		return nil, err
	}
	if err := r.Repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save case %s: %w", c.CaseNumber, err)
	}
	r.Executor.Execute(ctx, c, effs)
	return c, nil
}
