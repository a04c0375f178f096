package types

import "fmt"

// ControlType represents how a control acts on a risk
type ControlType string

const (
	ControlTypePreventive ControlType = "preventive"
	ControlTypeDetective  ControlType = "detective"
	ControlTypeCorrective ControlType = "corrective"
)

// AllControlTypes returns all valid control types
func AllControlTypes() []ControlType {
	return []ControlType{
		ControlTypePreventive,
		ControlTypeDetective,
		ControlTypeCorrective,
	}
}

// IsValid checks if the control type is valid
func (t ControlType) IsValid() bool {
	switch t {
	case ControlTypePreventive, ControlTypeDetective, ControlTypeCorrective:
		return true
	default:
		return false
	}
}

func (t ControlType) String() string {
	return string(t)
}

// ParseControlType parses a string into a ControlType
func ParseControlType(s string) (ControlType, error) {
	t := ControlType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid control type: %s", s)
	}
	return t, nil
}
