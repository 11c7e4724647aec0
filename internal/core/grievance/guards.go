package grievance

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// EscalateContext provides context for escalation guards.
type EscalateContext struct {
	CaseNumber string
	Status     Status
}

// CanEscalate evaluates whether a case may be escalated.
// Rule: resolved, closed, rejected and cancelled cases cannot be escalated.
func CanEscalate(ctx EscalateContext) GuardResult {
	if !CanTransition(ctx.Status, EventEscalate) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("case %s is %s and cannot be escalated", ctx.CaseNumber, ctx.Status),
		}
	}
	return GuardResult{Allowed: true}
}

// AssignContext provides context for manual assignment guards.
type AssignContext struct {
	CaseNumber string
	Status     Status
	Assignee   string
}

// CanAssign evaluates whether a case may be assigned.
// Rules:
// - an assignee must be named
// - the case must be open
func CanAssign(ctx AssignContext) GuardResult {
	if ctx.Assignee == "" {
		return GuardResult{Allowed: false, Reason: "assignee is required"}
	}
	if !CanTransition(ctx.Status, EventAssign) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("case %s is %s and cannot be assigned", ctx.CaseNumber, ctx.Status),
		}
	}
	return GuardResult{Allowed: true}
}

// CloseContext provides context for closure guards.
type CloseContext struct {
	Rating int
}

// MaxSatisfactionRating is the top of the 1..5 satisfaction scale.
const MaxSatisfactionRating = 5

// CanRecordSatisfaction evaluates whether a satisfaction rating is acceptable.
// Rule: 0 means "not rated", otherwise 1..5.
func CanRecordSatisfaction(ctx CloseContext) GuardResult {
	if ctx.Rating < 0 || ctx.Rating > MaxSatisfactionRating {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("satisfaction rating %d is outside 0..%d", ctx.Rating, MaxSatisfactionRating),
		}
	}
	return GuardResult{Allowed: true}
}
