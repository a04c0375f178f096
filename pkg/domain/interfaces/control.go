package interfaces

import (
	"context"

	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
)

type ControlRepository interface {
	// Create stores a new control. An empty ID is replaced with a generated one.
	Create(ctx context.Context, control *model.Control) (*model.Control, error)

	Get(ctx context.Context, id types.ControlID) (*model.Control, error)

	// GetMany returns the controls found for ids keyed by ID. Missing IDs are skipped.
	GetMany(ctx context.Context, ids []types.ControlID) (map[types.ControlID]*model.Control, error)

	List(ctx context.Context) ([]*model.Control, error)
	Update(ctx context.Context, control *model.Control) (*model.Control, error)
	Delete(ctx context.Context, id types.ControlID) error
}
