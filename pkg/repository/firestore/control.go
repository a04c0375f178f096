package firestore

import (
	"context"
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

type controlDocument struct {
	ID            string    `firestore:"id"`
	Code          string    `firestore:"code"`
	Name          string    `firestore:"name"`
	Description   string    `firestore:"description"`
	Type          string    `firestore:"type"`
	Effectiveness float64   `firestore:"effectiveness"`
	CreatedAt     time.Time `firestore:"created_at"`
	UpdatedAt     time.Time `firestore:"updated_at"`
}

func toControlDocument(c *model.Control) *controlDocument {
	return &controlDocument{
		ID:            string(c.ID),
		Code:          string(c.Code),
		Name:          c.Name,
		Description:   c.Description,
		Type:          string(c.Type),
		Effectiveness: c.Effectiveness,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func (d *controlDocument) toModel() *model.Control {
	return &model.Control{
		ID:            types.ControlID(d.ID),
		Code:          types.Code(d.Code),
		Name:          d.Name,
		Description:   d.Description,
		Type:          types.ControlType(d.Type),
		Effectiveness: d.Effectiveness,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type controlRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newControlRepository(client *firestore.Client) *controlRepository {
	return &controlRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *controlRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(prefixed(r.collectionPrefix, "controls"))
}

func (r *controlRepository) Create(ctx context.Context, control *model.Control) (*model.Control, error) {
	doc := toControlDocument(control)
	if doc.ID == "" {
		doc.ID = types.NewControlID().String()
	}

	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	// Create fails when the document already exists
	if _, err := r.collection().Doc(doc.ID).Create(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create control", goerr.V("id", doc.ID))
	}

	return doc.toModel(), nil
}

func (r *controlRepository) Get(ctx context.Context, id types.ControlID) (*model.Control, error) {
	snap, err := r.collection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "control not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get control", goerr.V("id", id))
	}

	var doc controlDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal control", goerr.V("id", id))
	}
	return doc.toModel(), nil
}

func (r *controlRepository) GetMany(ctx context.Context, ids []types.ControlID) (map[types.ControlID]*model.Control, error) {
	result := make(map[types.ControlID]*model.Control, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	refs := make([]*firestore.DocumentRef, len(ids))
	for i, id := range ids {
		refs[i] = r.collection().Doc(id.String())
	}

	snaps, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get controls", goerr.V("count", len(ids)))
	}

	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		var doc controlDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal control", goerr.V("doc", snap.Ref.ID))
		}
		control := doc.toModel()
		result[control.ID] = control
	}

	return result, nil
}

func (r *controlRepository) List(ctx context.Context) ([]*model.Control, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	controls := []*model.Control{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate controls")
		}

		var doc controlDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal control")
		}
		controls = append(controls, doc.toModel())
	}

	sort.Slice(controls, func(i, j int) bool {
		return controls[i].Code < controls[j].Code
	})
	return controls, nil
}

func (r *controlRepository) Update(ctx context.Context, control *model.Control) (*model.Control, error) {
	ref := r.collection().Doc(control.ID.String())

	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "control not found", goerr.V("id", control.ID))
		}
		return nil, goerr.Wrap(err, "failed to get control", goerr.V("id", control.ID))
	}

	var existing controlDocument
	if err := snap.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal control", goerr.V("id", control.ID))
	}

	updated := toControlDocument(control)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := ref.Set(ctx, updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update control", goerr.V("id", control.ID))
	}
	return updated.toModel(), nil
}

func (r *controlRepository) Delete(ctx context.Context, id types.ControlID) error {
	ref := r.collection().Doc(id.String())

	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "control not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get control", goerr.V("id", id))
	}

	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete control", goerr.V("id", id))
	}
	return nil
}
