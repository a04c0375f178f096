package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
)

type controlRepository struct {
	mu       sync.RWMutex
	controls map[types.ControlID]*model.Control
}

func newControlRepository() *controlRepository {
	return &controlRepository{
		controls: make(map[types.ControlID]*model.Control),
	}
}

func copyControl(c *model.Control) *model.Control {
	copied := *c
	return &copied
}

func (r *controlRepository) Create(ctx context.Context, control *model.Control) (*model.Control, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyControl(control)
	if created.ID == "" {
		created.ID = types.NewControlID()
	}
	if _, exists := r.controls[created.ID]; exists {
		return nil, goerr.New("control already exists", goerr.V("id", created.ID))
	}

	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.controls[created.ID] = created
	return copyControl(created), nil
}

func (r *controlRepository) Get(ctx context.Context, id types.ControlID) (*model.Control, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	control, exists := r.controls[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "control not found", goerr.V("id", id))
	}
	return copyControl(control), nil
}

func (r *controlRepository) GetMany(ctx context.Context, ids []types.ControlID) (map[types.ControlID]*model.Control, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[types.ControlID]*model.Control, len(ids))
	for _, id := range ids {
		if control, exists := r.controls[id]; exists {
			result[id] = copyControl(control)
		}
	}
	return result, nil
}

func (r *controlRepository) List(ctx context.Context) ([]*model.Control, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	controls := make([]*model.Control, 0, len(r.controls))
	for _, control := range r.controls {
		controls = append(controls, copyControl(control))
	}
	sort.Slice(controls, func(i, j int) bool {
		return controls[i].Code < controls[j].Code
	})
	return controls, nil
}

func (r *controlRepository) Update(ctx context.Context, control *model.Control) (*model.Control, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.controls[control.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "control not found", goerr.V("id", control.ID))
	}

	updated := copyControl(control)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.controls[updated.ID] = updated
	return copyControl(updated), nil
}

func (r *controlRepository) Delete(ctx context.Context, id types.ControlID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.controls[id]; !exists {
		return goerr.Wrap(ErrNotFound, "control not found", goerr.V("id", id))
	}

	delete(r.controls, id)
	return nil
}
