package ctxutil

import (
	"context"
	"testing"
)

func TestActorRoundTrip(t *testing.T) {
	ctx := context.Background()
	if got := ActorFromContext(ctx); got != "" {
		t.Errorf("ActorFromContext(empty) = %q", got)
	}

	ctx = WithActor(ctx, "clerk-1", "CASE_OFFICER")
	if got := ActorFromContext(ctx); got != "clerk-1" {
		t.Errorf("ActorFromContext() = %q, want clerk-1", got)
	}
	if got := RoleFromContext(ctx); got != "CASE_OFFICER" {
		t.Errorf("RoleFromContext() = %q, want CASE_OFFICER", got)
	}

	ctx = WithActorID(context.Background(), "only-id")
	if got := RoleFromContext(ctx); got != "" {
		t.Errorf("RoleFromContext() = %q, want empty", got)
	}
}
