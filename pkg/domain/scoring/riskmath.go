// Package scoring holds the pure risk arithmetic: band classification, control
// combination, residual risk, probability factor aggregation and the heatmap grid.
//
// Every function is total. Out-of-range input is clamped and NaN is read as 0,
// so callers never need to handle an error from this package.
package scoring

import (
	"math"

	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model/config"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
)

const (
	minLevel = 1
	maxLevel = 5
)

// Classify maps a score to its band using the given thresholds
func Classify(score float64, t config.Thresholds) model.Classification {
	score = sanitize(score)

	var band types.RiskBand
	switch {
	case score <= t.Low:
		band = types.RiskBandLow
	case score <= t.Medium:
		band = types.RiskBandMedium
	case score <= t.High:
		band = types.RiskBandHigh
	default:
		band = types.RiskBandCritical
	}

	return model.Classification{
		Band:  band,
		Label: band.String(),
		Color: band.Color(),
	}
}

// CombineControls returns the mitigation of independent controls, 1 - Π(1 - eᵢ).
// An empty list mitigates nothing.
func CombineControls(effectivenesses []float64) float64 {
	remaining := 1.0
	for _, e := range effectivenesses {
		remaining *= 1 - clamp01(e)
	}
	return clamp01(1 - remaining)
}

// ResidualFromControls reduces the inherent score by the combined effectiveness.
// The result stays in [0, 25].
func ResidualFromControls(inherent, combined float64) float64 {
	inherent = clamp(sanitize(inherent), 0, config.MaxScore)
	return clamp(inherent*(1-clamp01(combined)), 0, config.MaxScore)
}

// InherentRisk returns probability x impact with both ratings clamped to [1, 5]
func InherentRisk(probability, impact int) int {
	return clampLevel(probability) * clampLevel(impact)
}

// ResidualAxes places a mitigated risk back on the grid. Both axes shrink by
// sqrt(1 - combined) so that their product matches the residual score before
// rounding; each axis is then rounded half-up and clamped to [1, 5].
func ResidualAxes(probability, impact int, combined float64) (int, int) {
	factor := math.Sqrt(1 - clamp01(combined))
	p := roundLevel(float64(clampLevel(probability)) * factor)
	i := roundLevel(float64(clampLevel(impact)) * factor)
	return p, i
}

// Assess scores a risk item against the thresholds
func Assess(item model.RiskCellItem, t config.Thresholds) model.RiskAssessment {
	p, i := clampLevel(item.Probability), clampLevel(item.Impact)
	inherent := float64(p * i)
	combined := CombineControls(item.ControlEffectiveness)
	residual := ResidualFromControls(inherent, combined)
	rp, ri := ResidualAxes(p, i, combined)

	return model.RiskAssessment{
		RiskID:                item.ID,
		Code:                  item.Code,
		Name:                  item.Name,
		Probability:           p,
		Impact:                i,
		Inherent:              inherent,
		InherentClass:         Classify(inherent, t),
		CombinedEffectiveness: combined,
		Residual:              residual,
		ResidualClass:         Classify(residual, t),
		ResidualProbability:   rp,
		ResidualImpact:        ri,
	}
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clamp01(v float64) float64 {
	return clamp(sanitize(v), 0, 1)
}

func clampLevel(v int) int {
	if v < minLevel {
		return minLevel
	}
	if v > maxLevel {
		return maxLevel
	}
	return v
}

// roundLevel rounds half-up and clamps to a 1-5 rating
func roundLevel(v float64) int {
	return clampLevel(int(math.Floor(sanitize(v) + 0.5)))
}
