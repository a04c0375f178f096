package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/interfaces"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
)

type ControlUseCase struct {
	repo interfaces.Repository
}

func NewControlUseCase(repo interfaces.Repository) *ControlUseCase {
	return &ControlUseCase{repo: repo}
}

func (uc *ControlUseCase) CreateControl(ctx context.Context, control *model.Control) (*model.Control, error) {
	if control.ID == "" {
		control.ID = types.NewControlID()
	} else {
		if err := control.ID.Validate(); err != nil {
			return nil, invalid(err)
		}
		if _, err := uc.repo.Control().Get(ctx, control.ID); err == nil {
			return nil, goerr.Wrap(ErrConflict, "control already exists", goerr.V(ControlIDKey, control.ID))
		}
	}
	if err := control.Validate(); err != nil {
		return nil, invalid(err)
	}

	created, err := uc.repo.Control().Create(ctx, control)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create control", goerr.V(ControlIDKey, control.ID))
	}
	return created, nil
}

func (uc *ControlUseCase) GetControl(ctx context.Context, id types.ControlID) (*model.Control, error) {
	control, err := uc.repo.Control().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get control", goerr.V(ControlIDKey, id))
	}
	return control, nil
}

func (uc *ControlUseCase) ListControls(ctx context.Context) ([]*model.Control, error) {
	controls, err := uc.repo.Control().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list controls")
	}
	return controls, nil
}

func (uc *ControlUseCase) UpdateControl(ctx context.Context, control *model.Control) (*model.Control, error) {
	if err := control.Validate(); err != nil {
		return nil, invalid(err)
	}

	updated, err := uc.repo.Control().Update(ctx, control)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update control", goerr.V(ControlIDKey, control.ID))
	}
	return updated, nil
}

// DeleteControl refuses while any risk links the control
func (uc *ControlUseCase) DeleteControl(ctx context.Context, id types.ControlID) error {
	if _, err := uc.repo.Control().Get(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to get control", goerr.V(ControlIDKey, id))
	}

	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list risks")
	}
	for _, r := range risks {
		if r.HasControl(id) {
			return goerr.Wrap(ErrConflict, "control is linked to a risk",
				goerr.V(ControlIDKey, id), goerr.V(RiskIDKey, r.ID))
		}
	}

	if err := uc.repo.Control().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete control", goerr.V(ControlIDKey, id))
	}
	return nil
}
