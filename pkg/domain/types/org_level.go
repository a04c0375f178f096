package types

import "fmt"

// OrgLevel is a level of the organizational structure
type OrgLevel string

const (
	OrgLevelGerencia     OrgLevel = "gerencia"
	OrgLevelMacroproceso OrgLevel = "macroproceso"
	OrgLevelProceso      OrgLevel = "proceso"
	OrgLevelSubproceso   OrgLevel = "subproceso"
)

// AllOrgLevels returns all levels from the top of the hierarchy down
func AllOrgLevels() []OrgLevel {
	return []OrgLevel{
		OrgLevelGerencia,
		OrgLevelMacroproceso,
		OrgLevelProceso,
		OrgLevelSubproceso,
	}
}

// Depth returns 0 for gerencia and increases by one per level. Unknown levels return -1.
func (l OrgLevel) Depth() int {
	for i, level := range AllOrgLevels() {
		if level == l {
			return i
		}
	}
	return -1
}

// Parent returns the level a unit of this level must hang from.
// The second value is false for the top level and for unknown levels.
func (l OrgLevel) Parent() (OrgLevel, bool) {
	d := l.Depth()
	if d <= 0 {
		return "", false
	}
	return AllOrgLevels()[d-1], true
}

// IsValid checks if the level is valid
func (l OrgLevel) IsValid() bool {
	return l.Depth() >= 0
}

func (l OrgLevel) String() string {
	return string(l)
}

// ParseOrgLevel parses a string into an OrgLevel
func ParseOrgLevel(s string) (OrgLevel, error) {
	l := OrgLevel(s)
	if !l.IsValid() {
		return "", fmt.Errorf("invalid org level: %s", s)
	}
	return l, nil
}
