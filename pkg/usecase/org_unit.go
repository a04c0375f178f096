package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/interfaces"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
)

type OrgUnitUseCase struct {
	repo interfaces.Repository
}

func NewOrgUnitUseCase(repo interfaces.Repository) *OrgUnitUseCase {
	return &OrgUnitUseCase{repo: repo}
}

func (uc *OrgUnitUseCase) CreateOrgUnit(ctx context.Context, unit *model.OrgUnit) (*model.OrgUnit, error) {
	if err := uc.validate(ctx, unit); err != nil {
		return nil, err
	}

	created, err := uc.repo.OrgUnit().Create(ctx, unit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create org unit")
	}
	return created, nil
}

func (uc *OrgUnitUseCase) GetOrgUnit(ctx context.Context, id int64) (*model.OrgUnit, error) {
	unit, err := uc.repo.OrgUnit().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get org unit", goerr.V(OrgUnitIDKey, id))
	}
	return unit, nil
}

func (uc *OrgUnitUseCase) ListOrgUnits(ctx context.Context) ([]*model.OrgUnit, error) {
	units, err := uc.repo.OrgUnit().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list org units")
	}
	return units, nil
}

// UpdateOrgUnit replaces the mutable fields. The level of a unit never changes.
func (uc *OrgUnitUseCase) UpdateOrgUnit(ctx context.Context, unit *model.OrgUnit) (*model.OrgUnit, error) {
	existing, err := uc.repo.OrgUnit().Get(ctx, unit.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get org unit", goerr.V(OrgUnitIDKey, unit.ID))
	}
	if existing.Level != unit.Level {
		return nil, goerr.Wrap(ErrValidation, "org unit level cannot be changed",
			goerr.V(OrgUnitIDKey, unit.ID),
			goerr.V("from", existing.Level),
			goerr.V("to", unit.Level))
	}
	if unit.ParentID == unit.ID {
		return nil, goerr.Wrap(ErrValidation, "org unit cannot be its own parent", goerr.V(OrgUnitIDKey, unit.ID))
	}
	if err := uc.validate(ctx, unit); err != nil {
		return nil, err
	}

	updated, err := uc.repo.OrgUnit().Update(ctx, unit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update org unit", goerr.V(OrgUnitIDKey, unit.ID))
	}
	return updated, nil
}

// DeleteOrgUnit refuses while child units or risks reference the unit
func (uc *OrgUnitUseCase) DeleteOrgUnit(ctx context.Context, id int64) error {
	if _, err := uc.repo.OrgUnit().Get(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to get org unit", goerr.V(OrgUnitIDKey, id))
	}

	children, err := uc.repo.OrgUnit().ListChildren(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to list child org units", goerr.V(OrgUnitIDKey, id))
	}
	if len(children) > 0 {
		return goerr.Wrap(ErrConflict, "org unit has child units",
			goerr.V(OrgUnitIDKey, id), goerr.V("children", len(children)))
	}

	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list risks")
	}
	for _, r := range risks {
		if r.OrgUnitID == id {
			return goerr.Wrap(ErrConflict, "org unit is referenced by a risk",
				goerr.V(OrgUnitIDKey, id), goerr.V(RiskIDKey, r.ID))
		}
	}

	if err := uc.repo.OrgUnit().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete org unit", goerr.V(OrgUnitIDKey, id))
	}
	return nil
}

// descendants returns root and the IDs of every unit below it
func descendants(units []*model.OrgUnit, root int64) map[int64]bool {
	children := make(map[int64][]int64)
	for _, u := range units {
		children[u.ParentID] = append(children[u.ParentID], u.ID)
	}

	result := map[int64]bool{root: true}
	queue := []int64{root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range children[id] {
			if !result[child] {
				result[child] = true
				queue = append(queue, child)
			}
		}
	}
	return result
}

func (uc *OrgUnitUseCase) validate(ctx context.Context, unit *model.OrgUnit) error {
	if err := unit.Validate(); err != nil {
		return invalid(err)
	}

	var parent *model.OrgUnit
	if unit.ParentID != 0 {
		p, err := uc.repo.OrgUnit().Get(ctx, unit.ParentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return goerr.Wrap(ErrValidation, "parent org unit does not exist", goerr.V("parent_id", unit.ParentID))
			}
			return goerr.Wrap(err, "failed to get parent org unit", goerr.V("parent_id", unit.ParentID))
		}
		parent = p
	}

	if err := unit.ValidateParent(parent); err != nil {
		return invalid(err)
	}
	return nil
}
