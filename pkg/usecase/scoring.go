package usecase

import (
	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model/config"
	"github.com/secmon-lab/riskmatrix/pkg/domain/scoring"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
)

// ScoringUseCase exposes the stateless risk math with the configured thresholds and weights
type ScoringUseCase struct {
	cfg *config.ScoringConfig
}

// ResidualResult is the outcome of combining controls over an inherent score
type ResidualResult struct {
	Combined       float64
	Residual       float64
	Classification model.Classification
}

func NewScoringUseCase(cfg *config.ScoringConfig) *ScoringUseCase {
	return &ScoringUseCase{cfg: cfg}
}

func (uc *ScoringUseCase) Config() *config.ScoringConfig {
	return uc.cfg
}

func (uc *ScoringUseCase) Catalog() []types.FactorInfo {
	return types.FactorCatalog()
}

func (uc *ScoringUseCase) Classify(score float64) model.Classification {
	return scoring.Classify(score, uc.cfg.Thresholds)
}

func (uc *ScoringUseCase) Residual(inherent float64, effectiveness []float64) ResidualResult {
	combined := scoring.CombineControls(effectiveness)
	residual := scoring.ResidualFromControls(inherent, combined)
	return ResidualResult{
		Combined:       combined,
		Residual:       residual,
		Classification: scoring.Classify(residual, uc.cfg.Thresholds),
	}
}

func (uc *ScoringUseCase) Probability(f model.ProbabilityFactors) int {
	return scoring.CalculateProbability(f, uc.cfg.Weights)
}
