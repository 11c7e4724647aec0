package grievance

import "fmt"

// Ladder is the ordered sequence of assignee roles for escalation levels
// 1..len(Roles).
type Ladder struct {
	Roles []string
}

// Top returns the highest configured level.
func (l Ladder) Top() int {
	return len(l.Roles)
}

// FinalAuthority returns the role at the top of the ladder.
func (l Ladder) FinalAuthority() string {
	if len(l.Roles) == 0 {
		return ""
	}
	return l.Roles[len(l.Roles)-1]
}

// RoleAt returns the role for level. Levels above the top resolve to the
// final authority; levels below 1 have no ladder role.
func (l Ladder) RoleAt(level int) string {
	if level < 1 {
		return ""
	}
	if level > len(l.Roles) {
		return l.FinalAuthority()
	}
	return l.Roles[level-1]
}

// LadderTable maps categories to ladders with a default for the rest.
type LadderTable struct {
	Default    Ladder
	ByCategory map[Category]Ladder
}

// For returns the ladder used for category.
func (t LadderTable) For(category Category) Ladder {
	if l, ok := t.ByCategory[category]; ok && len(l.Roles) > 0 {
		return l
	}
	return t.Default
}

// Validate checks that every ladder has at least one role.
func (t LadderTable) Validate() error {
	if len(t.Default.Roles) == 0 {
		return fmt.Errorf("default escalation ladder has no roles")
	}
	for cat, l := range t.ByCategory {
		if _, ok := ParseCategory(string(cat)); !ok {
			return fmt.Errorf("escalation ladder for unknown category %q", cat)
		}
		if len(l.Roles) == 0 {
			return fmt.Errorf("escalation ladder for %s has no roles", cat)
		}
		for i, r := range l.Roles {
			if r == "" {
				return fmt.Errorf("escalation ladder for %s has an empty role at level %d", cat, i+1)
			}
		}
	}
	return nil
}

// DefaultLadderTable returns the built-in ladders.
func DefaultLadderTable() LadderTable {
	return LadderTable{
		Default: Ladder{Roles: []string{"DOMAIN_SUPERVISOR", "DEPARTMENT_MANAGER", "FINANCE_DIRECTOR"}},
		ByCategory: map[Category]Ladder{
			CategoryCorruption:         {Roles: []string{"SENIOR_INTEGRITY_OFFICER", "INTEGRITY_DIRECTOR", "INSPECTOR_GENERAL"}},
			CategoryStaffConduct:       {Roles: []string{"HR_MANAGER", "HR_DIRECTOR", "AGENCY_DIRECTOR"}},
			CategorySystemError:        {Roles: []string{"SENIOR_IT_MANAGER", "IT_DIRECTOR", "CHIEF_INFORMATION_OFFICER"}},
			CategoryEligibilityDispute: {Roles: []string{"ELIGIBILITY_SUPERVISOR", "ELIGIBILITY_MANAGER", "PROGRAM_DIRECTOR"}},
		},
	}
}
