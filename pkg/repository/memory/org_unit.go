package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
)

type orgUnitRepository struct {
	mu     sync.RWMutex
	units  map[int64]*model.OrgUnit
	nextID int64
}

func newOrgUnitRepository() *orgUnitRepository {
	return &orgUnitRepository{
		units:  make(map[int64]*model.OrgUnit),
		nextID: 1,
	}
}

func copyOrgUnit(u *model.OrgUnit) *model.OrgUnit {
	copied := *u
	return &copied
}

func (r *orgUnitRepository) Create(ctx context.Context, unit *model.OrgUnit) (*model.OrgUnit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyOrgUnit(unit)
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.units[created.ID] = created
	return copyOrgUnit(created), nil
}

func (r *orgUnitRepository) Get(ctx context.Context, id int64) (*model.OrgUnit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	unit, exists := r.units[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "org unit not found", goerr.V("id", id))
	}
	return copyOrgUnit(unit), nil
}

func (r *orgUnitRepository) List(ctx context.Context) ([]*model.OrgUnit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	units := make([]*model.OrgUnit, 0, len(r.units))
	for _, unit := range r.units {
		units = append(units, copyOrgUnit(unit))
	}
	sort.Slice(units, func(i, j int) bool {
		return units[i].ID < units[j].ID
	})
	return units, nil
}

func (r *orgUnitRepository) ListChildren(ctx context.Context, parentID int64) ([]*model.OrgUnit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	units := make([]*model.OrgUnit, 0)
	for _, unit := range r.units {
		if unit.ParentID == parentID {
			units = append(units, copyOrgUnit(unit))
		}
	}
	sort.Slice(units, func(i, j int) bool {
		return units[i].ID < units[j].ID
	})
	return units, nil
}

func (r *orgUnitRepository) Update(ctx context.Context, unit *model.OrgUnit) (*model.OrgUnit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.units[unit.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "org unit not found", goerr.V("id", unit.ID))
	}

	updated := copyOrgUnit(unit)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.units[updated.ID] = updated
	return copyOrgUnit(updated), nil
}

func (r *orgUnitRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.units[id]; !exists {
		return goerr.Wrap(ErrNotFound, "org unit not found", goerr.V("id", id))
	}

	delete(r.units, id)
	return nil
}
