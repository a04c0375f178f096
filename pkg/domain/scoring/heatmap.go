package scoring

import (
	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model/config"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
)

const gridSize = maxLevel - minLevel + 1

// BuildGrid buckets risks into the 5x5 probability/impact grid.
//
// In inherent mode a risk lands on its clamped (probability, impact) and the cell
// score is the product of the cell coordinates. In residual mode a risk lands on
// its ResidualAxes and a non-empty cell scores the mean residual of its members.
// An unknown mode is treated as inherent.
func BuildGrid(risks []model.RiskCellItem, mode types.HeatmapMode, t config.Thresholds) *model.Heatmap {
	if !mode.IsValid() {
		mode = types.HeatmapModeInherent
	}

	h := &model.Heatmap{
		Mode:  mode,
		Cells: make([]model.HeatmapCell, gridSize*gridSize),
	}
	for p := minLevel; p <= maxLevel; p++ {
		for i := minLevel; i <= maxLevel; i++ {
			h.Cells[cellIndex(p, i)] = model.HeatmapCell{
				Probability: p,
				Impact:      i,
				RiskIDs:     []int64{},
				RiskCodes:   []types.Code{},
			}
		}
	}

	residualSum := make([]float64, len(h.Cells))
	for _, item := range risks {
		p, i := clampLevel(item.Probability), clampLevel(item.Impact)
		if mode == types.HeatmapModeResidual {
			a := Assess(item, t)
			p, i = a.ResidualProbability, a.ResidualImpact
			residualSum[cellIndex(p, i)] += a.Residual
		}

		cell := &h.Cells[cellIndex(p, i)]
		cell.Count++
		cell.RiskIDs = append(cell.RiskIDs, item.ID)
		cell.RiskCodes = append(cell.RiskCodes, item.Code)
	}

	for idx := range h.Cells {
		cell := &h.Cells[idx]
		cell.Score = float64(cell.Probability * cell.Impact)
		if mode == types.HeatmapModeResidual && cell.Count > 0 {
			cell.Score = residualSum[idx] / float64(cell.Count)
		}
		cell.Classification = Classify(cell.Score, t)
	}

	return h
}

func cellIndex(probability, impact int) int {
	return (probability-minLevel)*gridSize + (impact - minLevel)
}
