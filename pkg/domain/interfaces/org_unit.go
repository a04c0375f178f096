package interfaces

import (
	"context"

	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
)

type OrgUnitRepository interface {
	Create(ctx context.Context, unit *model.OrgUnit) (*model.OrgUnit, error)
	Get(ctx context.Context, id int64) (*model.OrgUnit, error)
	List(ctx context.Context) ([]*model.OrgUnit, error)

	// ListChildren returns the units whose ParentID is parentID
	ListChildren(ctx context.Context, parentID int64) ([]*model.OrgUnit, error)

	Update(ctx context.Context, unit *model.OrgUnit) (*model.OrgUnit, error)
	Delete(ctx context.Context, id int64) error
}
