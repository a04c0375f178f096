package config

import (
	"math"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
)

// MaxScore is the highest possible probability x impact score
const MaxScore = 25

// Thresholds are the inclusive upper bounds of the Bajo, Medio and Alto bands.
// Scores above High are Crítico.
type Thresholds struct {
	Low    float64
	Medium float64
	High   float64
}

// DefaultThresholds returns the thresholds used when no configuration is given
func DefaultThresholds() Thresholds {
	return Thresholds{
		Low:    6,
		Medium: 12,
		High:   19,
	}
}

// Validate checks that the thresholds are strictly increasing inside (0, MaxScore)
func (t Thresholds) Validate() error {
	for name, v := range map[string]float64{"low": t.Low, "medium": t.Medium, "high": t.High} {
		if !isFinite(v) {
			return goerr.New("threshold must be a finite number", goerr.V(name, v))
		}
	}
	if t.Low <= 0 {
		return goerr.New("low threshold must be positive", goerr.V("low", t.Low))
	}
	if t.Medium <= t.Low {
		return goerr.New("medium threshold must be greater than low",
			goerr.V("low", t.Low), goerr.V("medium", t.Medium))
	}
	if t.High <= t.Medium {
		return goerr.New("high threshold must be greater than medium",
			goerr.V("medium", t.Medium), goerr.V("high", t.High))
	}
	if t.High >= MaxScore {
		return goerr.New("high threshold must be less than the maximum score",
			goerr.V("high", t.High), goerr.V("max", MaxScore))
	}
	return nil
}

// FactorWeights holds the relative weight of each probability factor.
// Factors missing from the map weigh zero.
type FactorWeights map[types.FactorKey]float64

// DefaultFactorWeights weighs every factor equally
func DefaultFactorWeights() FactorWeights {
	w := make(FactorWeights, len(types.AllFactorKeys()))
	for _, key := range types.AllFactorKeys() {
		w[key] = 1
	}
	return w
}

// Validate checks weights are finite and non-negative, keys are known and at least one weight is positive
func (w FactorWeights) Validate() error {
	var total float64
	for key, weight := range w {
		if !key.IsValid() {
			return goerr.New("unknown probability factor", goerr.V("factor", key))
		}
		if !isFinite(weight) {
			return goerr.New("factor weight must be a finite number", goerr.V("factor", key), goerr.V("weight", weight))
		}
		if weight < 0 {
			return goerr.New("factor weight must not be negative", goerr.V("factor", key), goerr.V("weight", weight))
		}
		total += weight
	}
	if total <= 0 {
		return goerr.New("at least one factor weight must be positive")
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ScoringConfig holds all scoring related configuration
type ScoringConfig struct {
	Thresholds Thresholds
	Weights    FactorWeights
}

// DefaultScoringConfig returns the built-in scoring configuration
func DefaultScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		Thresholds: DefaultThresholds(),
		Weights:    DefaultFactorWeights(),
	}
}

// Validate checks the whole scoring configuration
func (c *ScoringConfig) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return goerr.Wrap(err, "invalid thresholds")
	}
	if err := c.Weights.Validate(); err != nil {
		return goerr.Wrap(err, "invalid factor weights")
	}
	return nil
}
