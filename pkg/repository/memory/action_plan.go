package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
)

type actionPlanRepository struct {
	mu     sync.RWMutex
	plans  map[int64]*model.ActionPlan
	nextID int64
}

func newActionPlanRepository() *actionPlanRepository {
	return &actionPlanRepository{
		plans:  make(map[int64]*model.ActionPlan),
		nextID: 1,
	}
}

func sortPlans(plans []*model.ActionPlan) {
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].ID < plans[j].ID
	})
}

func (r *actionPlanRepository) Create(ctx context.Context, plan *model.ActionPlan) (*model.ActionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := plan.Copy()
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.plans[created.ID] = created
	return created.Copy(), nil
}

func (r *actionPlanRepository) Get(ctx context.Context, id int64) (*model.ActionPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plan, exists := r.plans[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "action plan not found", goerr.V("id", id))
	}
	return plan.Copy(), nil
}

func (r *actionPlanRepository) List(ctx context.Context) ([]*model.ActionPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plans := make([]*model.ActionPlan, 0, len(r.plans))
	for _, plan := range r.plans {
		plans = append(plans, plan.Copy())
	}
	sortPlans(plans)
	return plans, nil
}

func (r *actionPlanRepository) GetByRisk(ctx context.Context, riskID int64) ([]*model.ActionPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plans := make([]*model.ActionPlan, 0)
	for _, plan := range r.plans {
		if plan.RiskID == riskID {
			plans = append(plans, plan.Copy())
		}
	}
	sortPlans(plans)
	return plans, nil
}

func (r *actionPlanRepository) Update(ctx context.Context, plan *model.ActionPlan) (*model.ActionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.plans[plan.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "action plan not found", goerr.V("id", plan.ID))
	}

	updated := plan.Copy()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.plans[updated.ID] = updated
	return updated.Copy(), nil
}

func (r *actionPlanRepository) Modify(ctx context.Context, id int64, fn func(plan *model.ActionPlan) error) (*model.ActionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.plans[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "action plan not found", goerr.V("id", id))
	}

	updated := existing.Copy()
	if err := fn(updated); err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.plans[id] = updated
	return updated.Copy(), nil
}

func (r *actionPlanRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plans[id]; !exists {
		return goerr.Wrap(ErrNotFound, "action plan not found", goerr.V("id", id))
	}

	delete(r.plans, id)
	return nil
}
