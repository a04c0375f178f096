package scoring

import (
	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model/config"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
)

// CalculateProbability aggregates the seven factor ratings into a 1-5 probability.
// It is the weighted mean of the clamped ratings, rounded half-up. Negative
// weights count as zero, and when no weight is positive all factors weigh the same.
func CalculateProbability(f model.ProbabilityFactors, w config.FactorWeights) int {
	levels := f.Levels()

	var sum, total float64
	for _, key := range types.AllFactorKeys() {
		weight := sanitize(w[key])
		if weight <= 0 {
			continue
		}
		sum += weight * float64(clampLevel(levels[key]))
		total += weight
	}

	if total == 0 {
		for _, key := range types.AllFactorKeys() {
			sum += float64(clampLevel(levels[key]))
		}
		total = float64(len(types.AllFactorKeys()))
	}

	return roundLevel(sum / total)
}
