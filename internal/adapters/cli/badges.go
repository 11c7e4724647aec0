package cli

import (
	"github.com/fatih/color"

	"github.com/example/grievance/internal/core/grievance"
)

func statusBadge(s grievance.Status) string {
	switch s {
	case grievance.StatusSubmitted:
		return color.New(color.FgBlue).Sprint(s)
	case grievance.StatusAssigned, grievance.StatusUnderReview:
		return color.New(color.FgCyan).Sprint(s)
	case grievance.StatusPendingResponse:
		return color.New(color.FgYellow).Sprint(s)
	case grievance.StatusEscalated:
		return color.New(color.FgRed, color.Bold).Sprint(s)
	case grievance.StatusResolved, grievance.StatusClosed:
		return color.New(color.FgGreen).Sprint(s)
	default:
		return color.New(color.FgHiBlack).Sprint(s)
	}
}

func priorityBadge(p grievance.Priority) string {
	switch p {
	case grievance.PriorityCritical:
		return color.New(color.FgHiRed, color.Bold).Sprint(p)
	case grievance.PriorityHigh:
		return color.New(color.FgRed).Sprint(p)
	case grievance.PriorityMedium:
		return color.New(color.FgYellow).Sprint(p)
	default:
		return string(p)
	}
}

func outcomeBadge(o grievance.Outcome) string {
	switch o {
	case grievance.OutcomeFailed:
		return color.New(color.FgRed).Sprint("✗ " + string(o))
	case "":
		return ""
	default:
		return color.New(color.FgGreen).Sprint("✓ " + string(o))
	}
}
