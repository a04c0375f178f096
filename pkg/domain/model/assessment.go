package model

import "github.com/secmon-lab/riskmatrix/pkg/domain/types"

// Classification is a band with its display label and color
type Classification struct {
	Band  types.RiskBand `json:"band"`
	Label string         `json:"label"`
	Color string         `json:"color"`
}

// RiskAssessment is the scored view of a single risk
type RiskAssessment struct {
	RiskID                int64
	Code                  types.Code
	Name                  string
	Probability           int
	Impact                int
	Inherent              float64
	InherentClass         Classification
	CombinedEffectiveness float64
	Residual              float64
	ResidualClass         Classification
	ResidualProbability   int
	ResidualImpact        int
}
