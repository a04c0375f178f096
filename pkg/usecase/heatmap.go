package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/interfaces"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model/config"
	"github.com/secmon-lab/riskmatrix/pkg/domain/scoring"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
	"github.com/secmon-lab/riskmatrix/pkg/utils/metrics"
	"golang.org/x/sync/errgroup"
)

type HeatmapUseCase struct {
	repo    interfaces.Repository
	cfg     *config.ScoringConfig
	metrics *metrics.Metrics
}

func NewHeatmapUseCase(repo interfaces.Repository, cfg *config.ScoringConfig, m *metrics.Metrics) *HeatmapUseCase {
	if cfg == nil {
		cfg = config.DefaultScoringConfig()
	}
	return &HeatmapUseCase{repo: repo, cfg: cfg, metrics: m}
}

// HeatmapFilter narrows the risks placed on the grid
type HeatmapFilter struct {
	// OrgUnitID keeps risks of this unit and every unit below it. 0 keeps all.
	OrgUnitID int64
}

// Heatmap builds the 5x5 grid for mode over the risk register
func (uc *HeatmapUseCase) Heatmap(ctx context.Context, mode types.HeatmapMode, filter HeatmapFilter) (*model.Heatmap, error) {
	if !mode.IsValid() {
		return nil, goerr.Wrap(ErrValidation, "invalid heatmap mode", goerr.V("mode", mode))
	}

	var (
		risks    []*model.Risk
		controls map[types.ControlID]*model.Control
		units    []*model.OrgUnit
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		risks, controls, err = loadRegister(egCtx, uc.repo)
		return err
	})
	if filter.OrgUnitID != 0 {
		eg.Go(func() error {
			if _, err := uc.repo.OrgUnit().Get(egCtx, filter.OrgUnitID); err != nil {
				return goerr.Wrap(err, "failed to get org unit", goerr.V(OrgUnitIDKey, filter.OrgUnitID))
			}
			var err error
			units, err = uc.repo.OrgUnit().List(egCtx)
			if err != nil {
				return goerr.Wrap(err, "failed to list org units")
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var keep map[int64]bool
	if filter.OrgUnitID != 0 {
		keep = descendants(units, filter.OrgUnitID)
	}

	items := make([]model.RiskCellItem, 0, len(risks))
	for _, r := range risks {
		if keep != nil && !keep[r.OrgUnitID] {
			continue
		}
		items = append(items, toCellItem(r, controls))
	}

	h := scoring.BuildGrid(items, mode, uc.cfg.Thresholds)
	uc.metrics.ObserveHeatmap(mode)
	return h, nil
}

// loadCellItems joins every risk with the effectiveness of its controls
func loadCellItems(ctx context.Context, repo interfaces.Repository) ([]model.RiskCellItem, error) {
	risks, controls, err := loadRegister(ctx, repo)
	if err != nil {
		return nil, err
	}

	items := make([]model.RiskCellItem, len(risks))
	for i, r := range risks {
		items[i] = toCellItem(r, controls)
	}
	return items, nil
}

// loadRegister reads risks and controls concurrently
func loadRegister(ctx context.Context, repo interfaces.Repository) ([]*model.Risk, map[types.ControlID]*model.Control, error) {
	var (
		risks    []*model.Risk
		controls []*model.Control
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		risks, err = repo.Risk().List(egCtx)
		if err != nil {
			return goerr.Wrap(err, "failed to list risks")
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		controls, err = repo.Control().List(egCtx)
		if err != nil {
			return goerr.Wrap(err, "failed to list controls")
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	byID := make(map[types.ControlID]*model.Control, len(controls))
	for _, c := range controls {
		byID[c.ID] = c
	}
	return risks, byID, nil
}
