package grievance

import "time"

// SLAPolicy holds the priority-derived time windows.
type SLAPolicy struct {
	ResolutionWindows     map[Priority]time.Duration
	ResponseWindows       map[Priority]time.Duration
	DefaultResponseWindow time.Duration
	// EmergencyFactor scales the remaining time on an emergency escalation; 0 < f < 1.
	EmergencyFactor float64
}

// DefaultSLAPolicy returns the built-in windows.
func DefaultSLAPolicy() SLAPolicy {
	return SLAPolicy{
		ResolutionWindows: map[Priority]time.Duration{
			PriorityCritical: 24 * time.Hour,
			PriorityHigh:     36 * time.Hour,
			PriorityMedium:   48 * time.Hour,
			PriorityLow:      96 * time.Hour,
		},
		ResponseWindows: map[Priority]time.Duration{
			PriorityCritical: 2 * time.Hour,
			PriorityHigh:     8 * time.Hour,
			PriorityMedium:   24 * time.Hour,
			PriorityLow:      48 * time.Hour,
		},
		DefaultResponseWindow: 48 * time.Hour,
		EmergencyFactor:       0.5,
	}
}

// ResolutionWindow returns the resolution window for p, falling back to LOW.
func (p SLAPolicy) ResolutionWindow(priority Priority) time.Duration {
	if w, ok := p.ResolutionWindows[priority]; ok {
		return w
	}
	return p.ResolutionWindows[PriorityLow]
}

// ResponseDue returns when a reply is due for a communication processed at 'at'.
func (p SLAPolicy) ResponseDue(priority Priority, at time.Time) time.Time {
	if w, ok := p.ResponseWindows[priority]; ok {
		return at.Add(w)
	}
	return at.Add(p.DefaultResponseWindow)
}

// AssignmentTarget computes the resolution target after a (re)assignment.
// A target still in the future is never pushed later; a missing or breached
// target gets a fresh window.
func (p SLAPolicy) AssignmentTarget(priority Priority, current *time.Time, now time.Time) time.Time {
	candidate := now.Add(p.ResolutionWindow(priority))
	if current == nil || !current.After(now) {
		return candidate
	}
	if current.Before(candidate) {
		return *current
	}
	return candidate
}

// CompressTarget shortens the resolution target for an emergency escalation.
// The result is never later than current.
func (p SLAPolicy) CompressTarget(priority Priority, current *time.Time, now time.Time) time.Time {
	factor := p.EmergencyFactor
	if factor <= 0 || factor >= 1 {
		factor = 0.5
	}
	if current == nil {
		return now.Add(time.Duration(float64(p.ResolutionWindow(priority)) * factor))
	}
	remaining := current.Sub(now)
	if remaining <= 0 {
		return *current
	}
	return now.Add(time.Duration(float64(remaining) * factor))
}
