package usecase

import (
	"github.com/secmon-lab/riskmatrix/pkg/domain/interfaces"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model/config"
	"github.com/secmon-lab/riskmatrix/pkg/utils/metrics"
)

type UseCases struct {
	repo     interfaces.Repository
	scoring  *config.ScoringConfig
	storage  interfaces.EvidenceStorage
	notifier interfaces.Notifier
	metrics  *metrics.Metrics

	Scoring    *ScoringUseCase
	OrgUnit    *OrgUnitUseCase
	Control    *ControlUseCase
	Risk       *RiskUseCase
	ActionPlan *ActionPlanUseCase
	Heatmap    *HeatmapUseCase
}

type Option func(*UseCases)

func WithScoringConfig(cfg *config.ScoringConfig) Option {
	return func(uc *UseCases) {
		uc.scoring = cfg
	}
}

func WithEvidenceStorage(storage interfaces.EvidenceStorage) Option {
	return func(uc *UseCases) {
		uc.storage = storage
	}
}

// WithNotifier enables alerts for assessments in the critical band
func WithNotifier(notifier interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = notifier
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(uc *UseCases) {
		uc.metrics = m
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}
	if uc.scoring == nil {
		uc.scoring = config.DefaultScoringConfig()
	}

	uc.Scoring = NewScoringUseCase(uc.scoring)
	uc.OrgUnit = NewOrgUnitUseCase(repo)
	uc.Control = NewControlUseCase(repo)
	uc.Risk = NewRiskUseCase(repo, uc.scoring, uc.notifier, uc.metrics)
	uc.ActionPlan = NewActionPlanUseCase(repo, uc.storage, uc.metrics)
	uc.Heatmap = NewHeatmapUseCase(repo, uc.scoring, uc.metrics)

	return uc
}

// ScoringConfig returns the configuration in effect
func (uc *UseCases) ScoringConfig() *config.ScoringConfig {
	return uc.scoring
}
