package firestore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type evidenceDocument struct {
	ID            string     `firestore:"id"`
	FileName      string     `firestore:"file_name"`
	ContentType   string     `firestore:"content_type"`
	Size          int64      `firestore:"size"`
	StorageKey    string     `firestore:"storage_key"`
	ReviewStatus  string     `firestore:"review_status"`
	ReviewComment string     `firestore:"review_comment"`
	UploadedAt    time.Time  `firestore:"uploaded_at"`
	ReviewedAt    *time.Time `firestore:"reviewed_at"`
}

type actionPlanDocument struct {
	ID          int64              `firestore:"id"`
	RiskID      int64              `firestore:"risk_id"`
	Title       string             `firestore:"title"`
	Description string             `firestore:"description"`
	Owner       string             `firestore:"owner"`
	DueDate     *time.Time         `firestore:"due_date"`
	Status      string             `firestore:"status"`
	Evidence    []evidenceDocument `firestore:"evidence"`
	CreatedAt   time.Time          `firestore:"created_at"`
	UpdatedAt   time.Time          `firestore:"updated_at"`
}

func toActionPlanDocument(p *model.ActionPlan) *actionPlanDocument {
	doc := &actionPlanDocument{
		ID:          p.ID,
		RiskID:      p.RiskID,
		Title:       p.Title,
		Description: p.Description,
		Owner:       p.Owner,
		DueDate:     p.DueDate,
		Status:      string(p.Status),
		Evidence:    make([]evidenceDocument, len(p.Evidence)),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for i, ev := range p.Evidence {
		doc.Evidence[i] = evidenceDocument{
			ID:            string(ev.ID),
			FileName:      ev.FileName,
			ContentType:   ev.ContentType,
			Size:          ev.Size,
			StorageKey:    ev.StorageKey,
			ReviewStatus:  string(ev.ReviewStatus),
			ReviewComment: ev.ReviewComment,
			UploadedAt:    ev.UploadedAt,
			ReviewedAt:    ev.ReviewedAt,
		}
	}
	return doc
}

func (d *actionPlanDocument) toModel() *model.ActionPlan {
	plan := &model.ActionPlan{
		ID:          d.ID,
		RiskID:      d.RiskID,
		Title:       d.Title,
		Description: d.Description,
		Owner:       d.Owner,
		DueDate:     d.DueDate,
		Status:      types.ActionPlanStatus(d.Status),
		Evidence:    make([]model.Evidence, len(d.Evidence)),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	for i, ev := range d.Evidence {
		plan.Evidence[i] = model.Evidence{
			ID:            types.EvidenceID(ev.ID),
			FileName:      ev.FileName,
			ContentType:   ev.ContentType,
			Size:          ev.Size,
			StorageKey:    ev.StorageKey,
			ReviewStatus:  types.EvidenceReviewStatus(ev.ReviewStatus),
			ReviewComment: ev.ReviewComment,
			UploadedAt:    ev.UploadedAt,
			ReviewedAt:    ev.ReviewedAt,
		}
	}
	return plan
}

type actionPlanRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newActionPlanRepository(client *firestore.Client) *actionPlanRepository {
	return &actionPlanRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *actionPlanRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(prefixed(r.collectionPrefix, "action_plans"))
}

func (r *actionPlanRepository) docRef(id int64) *firestore.DocumentRef {
	return r.collection().Doc(fmt.Sprintf("%d", id))
}

func (r *actionPlanRepository) Create(ctx context.Context, plan *model.ActionPlan) (*model.ActionPlan, error) {
	id, err := nextID(ctx, r.client, r.collectionPrefix, "action_plan_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := toActionPlanDocument(plan)
	doc.ID = id
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.docRef(id).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create action plan")
	}
	return doc.toModel(), nil
}

func (r *actionPlanRepository) Get(ctx context.Context, id int64) (*model.ActionPlan, error) {
	snap, err := r.docRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "action plan not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get action plan", goerr.V("id", id))
	}

	var doc actionPlanDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal action plan", goerr.V("id", id))
	}
	return doc.toModel(), nil
}

func (r *actionPlanRepository) list(iter *firestore.DocumentIterator) ([]*model.ActionPlan, error) {
	defer iter.Stop()

	plans := []*model.ActionPlan{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate action plans")
		}

		var doc actionPlanDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal action plan")
		}
		plans = append(plans, doc.toModel())
	}

	sort.Slice(plans, func(i, j int) bool {
		return plans[i].ID < plans[j].ID
	})
	return plans, nil
}

func (r *actionPlanRepository) List(ctx context.Context) ([]*model.ActionPlan, error) {
	return r.list(r.collection().Documents(ctx))
}

func (r *actionPlanRepository) GetByRisk(ctx context.Context, riskID int64) ([]*model.ActionPlan, error) {
	return r.list(r.collection().Where("risk_id", "==", riskID).OrderBy("id", firestore.Asc).Documents(ctx))
}

func (r *actionPlanRepository) Update(ctx context.Context, plan *model.ActionPlan) (*model.ActionPlan, error) {
	ref := r.docRef(plan.ID)

	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "action plan not found", goerr.V("id", plan.ID))
		}
		return nil, goerr.Wrap(err, "failed to get action plan", goerr.V("id", plan.ID))
	}

	var existing actionPlanDocument
	if err := snap.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal action plan", goerr.V("id", plan.ID))
	}

	updated := toActionPlanDocument(plan)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := ref.Set(ctx, updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update action plan", goerr.V("id", plan.ID))
	}
	return updated.toModel(), nil
}

func (r *actionPlanRepository) Modify(ctx context.Context, id int64, fn func(plan *model.ActionPlan) error) (*model.ActionPlan, error) {
	ref := r.docRef(id)

	var saved *actionPlanDocument
	var fnErr error
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		fnErr = nil
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "action plan not found", goerr.V("id", id))
			}
			return goerr.Wrap(err, "failed to get action plan", goerr.V("id", id))
		}

		var existing actionPlanDocument
		if err := snap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to unmarshal action plan", goerr.V("id", id))
		}

		plan := existing.toModel()
		if err := fn(plan); err != nil {
			fnErr = err
			return err
		}

		updated := toActionPlanDocument(plan)
		updated.ID = existing.ID
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = time.Now().UTC()
		saved = updated
		return tx.Set(ref, updated)
	})
	if fnErr != nil {
		return nil, fnErr
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to modify action plan", goerr.V("id", id))
	}
	return saved.toModel(), nil
}

func (r *actionPlanRepository) Delete(ctx context.Context, id int64) error {
	ref := r.docRef(id)

	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "action plan not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get action plan", goerr.V("id", id))
	}

	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete action plan", goerr.V("id", id))
	}
	return nil
}
