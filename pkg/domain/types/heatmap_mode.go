package types

import "fmt"

// HeatmapMode selects which score a heatmap buckets risks by
type HeatmapMode string

const (
	HeatmapModeInherent HeatmapMode = "inherent"
	HeatmapModeResidual HeatmapMode = "residual"
)

// IsValid checks if the heatmap mode is valid
func (m HeatmapMode) IsValid() bool {
	switch m {
	case HeatmapModeInherent, HeatmapModeResidual:
		return true
	default:
		return false
	}
}

func (m HeatmapMode) String() string {
	return string(m)
}

// ParseHeatmapMode parses a string into a HeatmapMode. Empty input means inherent.
func ParseHeatmapMode(s string) (HeatmapMode, error) {
	if s == "" {
		return HeatmapModeInherent, nil
	}
	mode := HeatmapMode(s)
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid heatmap mode: %s", s)
	}
	return mode, nil
}
