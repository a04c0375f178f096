package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/interfaces"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model/config"
	"github.com/secmon-lab/riskmatrix/pkg/domain/scoring"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
	"github.com/secmon-lab/riskmatrix/pkg/utils/async"
	"github.com/secmon-lab/riskmatrix/pkg/utils/logging"
	"github.com/secmon-lab/riskmatrix/pkg/utils/metrics"
)

type RiskUseCase struct {
	repo     interfaces.Repository
	cfg      *config.ScoringConfig
	notifier interfaces.Notifier
	metrics  *metrics.Metrics
}

func NewRiskUseCase(repo interfaces.Repository, cfg *config.ScoringConfig, notifier interfaces.Notifier, m *metrics.Metrics) *RiskUseCase {
	if cfg == nil {
		cfg = config.DefaultScoringConfig()
	}
	return &RiskUseCase{
		repo:     repo,
		cfg:      cfg,
		notifier: notifier,
		metrics:  m,
	}
}

// CreateRisk stores a new risk. When factors are given the probability is
// derived from them and any probability in the input is ignored.
func (uc *RiskUseCase) CreateRisk(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	if err := uc.prepare(ctx, risk); err != nil {
		return nil, err
	}

	created, err := uc.repo.Risk().Create(ctx, risk)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create risk")
	}

	uc.alertIfCritical(ctx, created)
	return created, nil
}

func (uc *RiskUseCase) GetRisk(ctx context.Context, id int64) (*model.Risk, error) {
	risk, err := uc.repo.Risk().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V(RiskIDKey, id))
	}
	return risk, nil
}

func (uc *RiskUseCase) ListRisks(ctx context.Context) ([]*model.Risk, error) {
	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks")
	}
	return risks, nil
}

func (uc *RiskUseCase) UpdateRisk(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	if _, err := uc.repo.Risk().Get(ctx, risk.ID); err != nil {
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V(RiskIDKey, risk.ID))
	}
	if err := uc.prepare(ctx, risk); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Risk().Update(ctx, risk)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update risk", goerr.V(RiskIDKey, risk.ID))
	}

	uc.alertIfCritical(ctx, updated)
	return updated, nil
}

// DeleteRisk refuses while action plans still belong to the risk
func (uc *RiskUseCase) DeleteRisk(ctx context.Context, id int64) error {
	if _, err := uc.repo.Risk().Get(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to get risk", goerr.V(RiskIDKey, id))
	}

	plans, err := uc.repo.ActionPlan().GetByRisk(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to list action plans", goerr.V(RiskIDKey, id))
	}
	if len(plans) > 0 {
		return goerr.Wrap(ErrConflict, "risk has action plans",
			goerr.V(RiskIDKey, id), goerr.V("action_plans", len(plans)))
	}

	if err := uc.repo.Risk().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete risk", goerr.V(RiskIDKey, id))
	}
	return nil
}

// Assess scores one risk with the effectiveness of its linked controls
func (uc *RiskUseCase) Assess(ctx context.Context, id int64) (*model.RiskAssessment, error) {
	risk, err := uc.repo.Risk().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V(RiskIDKey, id))
	}

	assessment, err := uc.assess(ctx, risk)
	if err != nil {
		return nil, err
	}

	uc.notify(ctx, assessment)
	return assessment, nil
}

// AssessAll scores every risk in the register. No alerts are sent.
func (uc *RiskUseCase) AssessAll(ctx context.Context) ([]*model.RiskAssessment, error) {
	items, err := loadCellItems(ctx, uc.repo)
	if err != nil {
		return nil, err
	}

	assessments := make([]*model.RiskAssessment, len(items))
	for i, item := range items {
		a := scoring.Assess(item, uc.cfg.Thresholds)
		uc.metrics.ObserveAssessment(a.ResidualClass.Band)
		assessments[i] = &a
	}
	return assessments, nil
}

func (uc *RiskUseCase) prepare(ctx context.Context, risk *model.Risk) error {
	if risk.Factors != nil {
		if err := risk.Factors.Validate(); err != nil {
			return invalid(err)
		}
		risk.Probability = scoring.CalculateProbability(*risk.Factors, uc.cfg.Weights)
	}
	if err := risk.Validate(); err != nil {
		return invalid(err)
	}

	if risk.OrgUnitID != 0 {
		if _, err := uc.repo.OrgUnit().Get(ctx, risk.OrgUnitID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return goerr.Wrap(ErrValidation, "org unit does not exist", goerr.V(OrgUnitIDKey, risk.OrgUnitID))
			}
			return goerr.Wrap(err, "failed to get org unit", goerr.V(OrgUnitIDKey, risk.OrgUnitID))
		}
	}

	if len(risk.ControlIDs) > 0 {
		controls, err := uc.repo.Control().GetMany(ctx, risk.ControlIDs)
		if err != nil {
			return goerr.Wrap(err, "failed to get controls")
		}
		for _, id := range risk.ControlIDs {
			if _, ok := controls[id]; !ok {
				return goerr.Wrap(ErrValidation, "control does not exist", goerr.V(ControlIDKey, id))
			}
		}
	}
	return nil
}

func (uc *RiskUseCase) assess(ctx context.Context, risk *model.Risk) (*model.RiskAssessment, error) {
	controls, err := uc.repo.Control().GetMany(ctx, risk.ControlIDs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get controls", goerr.V(RiskIDKey, risk.ID))
	}

	a := scoring.Assess(toCellItem(risk, controls), uc.cfg.Thresholds)
	uc.metrics.ObserveAssessment(a.ResidualClass.Band)
	return &a, nil
}

func (uc *RiskUseCase) alertIfCritical(ctx context.Context, risk *model.Risk) {
	if uc.notifier == nil {
		return
	}
	a, err := uc.assess(ctx, risk)
	if err != nil {
		logging.From(ctx).Warn("failed to assess risk for alert", "error", err, "risk_id", risk.ID)
		return
	}
	uc.notify(ctx, a)
}

func (uc *RiskUseCase) notify(ctx context.Context, a *model.RiskAssessment) {
	if uc.notifier == nil || a.ResidualClass.Band != types.RiskBandCritical {
		return
	}

	alert := *a
	notifier := uc.notifier
	async.Dispatch(ctx, func(ctx context.Context) error {
		if err := notifier.NotifyCriticalRisk(ctx, &alert); err != nil {
			return goerr.Wrap(err, "failed to notify critical risk", goerr.V(RiskIDKey, alert.RiskID))
		}
		logging.From(ctx).Info("critical risk alert sent", "risk_id", alert.RiskID, "code", alert.Code)
		return nil
	})
}

// toCellItem joins a risk with its controls in the order they are linked.
// Links to controls that no longer exist are skipped.
func toCellItem(risk *model.Risk, controls map[types.ControlID]*model.Control) model.RiskCellItem {
	effectiveness := make([]float64, 0, len(risk.ControlIDs))
	for _, id := range risk.ControlIDs {
		if c, ok := controls[id]; ok {
			effectiveness = append(effectiveness, c.Effectiveness)
		}
	}
	return model.RiskCellItem{
		ID:                   risk.ID,
		Code:                 risk.Code,
		Name:                 risk.Name,
		Probability:          risk.Probability,
		Impact:               risk.Impact,
		ControlEffectiveness: effectiveness,
	}
}
