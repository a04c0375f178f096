package interfaces

import (
	"context"

	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
)

type ActionPlanRepository interface {
	Create(ctx context.Context, plan *model.ActionPlan) (*model.ActionPlan, error)
	Get(ctx context.Context, id int64) (*model.ActionPlan, error)
	List(ctx context.Context) ([]*model.ActionPlan, error)

	// GetByRisk returns the action plans attached to a risk
	GetByRisk(ctx context.Context, riskID int64) ([]*model.ActionPlan, error)

	Update(ctx context.Context, plan *model.ActionPlan) (*model.ActionPlan, error)

	// Modify loads the plan, applies fn and stores the result atomically.
	// Nothing is written when fn returns an error, which Modify returns as is.
	// fn may run more than once and must only depend on the plan it is given.
	Modify(ctx context.Context, id int64, fn func(plan *model.ActionPlan) error) (*model.ActionPlan, error)

	Delete(ctx context.Context, id int64) error
}
