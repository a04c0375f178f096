package model

import "github.com/secmon-lab/riskmatrix/pkg/domain/types"

// RiskCellItem is the input of a heatmap: one risk with the effectiveness of its controls
type RiskCellItem struct {
	ID                   int64
	Code                 types.Code
	Name                 string
	Probability          int
	Impact               int
	ControlEffectiveness []float64
}

// InherentRisk returns probability x impact without any clamping
func (i RiskCellItem) InherentRisk() int {
	return i.Probability * i.Impact
}

// HeatmapCell is one of the 25 probability/impact cells
type HeatmapCell struct {
	Probability    int            `json:"probability"`
	Impact         int            `json:"impact"`
	Count          int            `json:"count"`
	RiskIDs        []int64        `json:"risk_ids"`
	RiskCodes      []types.Code   `json:"risk_codes"`
	Score          float64        `json:"score"`
	Classification Classification `json:"classification"`
}

// Heatmap is a 5x5 grid ordered by probability (rows) then impact (columns)
type Heatmap struct {
	Mode  types.HeatmapMode `json:"mode"`
	Cells []HeatmapCell     `json:"cells"`
}

// Cell returns the cell at the given coordinate, or nil when out of the grid
func (h *Heatmap) Cell(probability, impact int) *HeatmapCell {
	if probability < 1 || probability > 5 || impact < 1 || impact > 5 {
		return nil
	}
	idx := (probability-1)*5 + (impact - 1)
	if idx >= len(h.Cells) {
		return nil
	}
	return &h.Cells[idx]
}

// Total returns the number of risks placed on the grid
func (h *Heatmap) Total() int {
	var n int
	for _, c := range h.Cells {
		n += c.Count
	}
	return n
}
