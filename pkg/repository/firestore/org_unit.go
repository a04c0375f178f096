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

type orgUnitDocument struct {
	ID          int64     `firestore:"id"`
	Level       string    `firestore:"level"`
	Code        string    `firestore:"code"`
	Name        string    `firestore:"name"`
	Description string    `firestore:"description"`
	ParentID    int64     `firestore:"parent_id"`
	CreatedAt   time.Time `firestore:"created_at"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

func toOrgUnitDocument(u *model.OrgUnit) *orgUnitDocument {
	return &orgUnitDocument{
		ID:          u.ID,
		Level:       string(u.Level),
		Code:        string(u.Code),
		Name:        u.Name,
		Description: u.Description,
		ParentID:    u.ParentID,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (d *orgUnitDocument) toModel() *model.OrgUnit {
	return &model.OrgUnit{
		ID:          d.ID,
		Level:       types.OrgLevel(d.Level),
		Code:        types.Code(d.Code),
		Name:        d.Name,
		Description: d.Description,
		ParentID:    d.ParentID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type orgUnitRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newOrgUnitRepository(client *firestore.Client) *orgUnitRepository {
	return &orgUnitRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *orgUnitRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(prefixed(r.collectionPrefix, "org_units"))
}

func (r *orgUnitRepository) docRef(id int64) *firestore.DocumentRef {
	return r.collection().Doc(fmt.Sprintf("%d", id))
}

func (r *orgUnitRepository) Create(ctx context.Context, unit *model.OrgUnit) (*model.OrgUnit, error) {
	id, err := nextID(ctx, r.client, r.collectionPrefix, "org_unit_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := toOrgUnitDocument(unit)
	doc.ID = id
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.docRef(id).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create org unit")
	}
	return doc.toModel(), nil
}

func (r *orgUnitRepository) Get(ctx context.Context, id int64) (*model.OrgUnit, error) {
	snap, err := r.docRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "org unit not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get org unit", goerr.V("id", id))
	}

	var doc orgUnitDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal org unit", goerr.V("id", id))
	}
	return doc.toModel(), nil
}

func (r *orgUnitRepository) list(iter *firestore.DocumentIterator) ([]*model.OrgUnit, error) {
	defer iter.Stop()

	units := []*model.OrgUnit{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate org units")
		}

		var doc orgUnitDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal org unit")
		}
		units = append(units, doc.toModel())
	}

	sort.Slice(units, func(i, j int) bool {
		return units[i].ID < units[j].ID
	})
	return units, nil
}

func (r *orgUnitRepository) List(ctx context.Context) ([]*model.OrgUnit, error) {
	return r.list(r.collection().Documents(ctx))
}

func (r *orgUnitRepository) ListChildren(ctx context.Context, parentID int64) ([]*model.OrgUnit, error) {
	return r.list(r.collection().Where("parent_id", "==", parentID).OrderBy("id", firestore.Asc).Documents(ctx))
}

func (r *orgUnitRepository) Update(ctx context.Context, unit *model.OrgUnit) (*model.OrgUnit, error) {
	ref := r.docRef(unit.ID)

	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "org unit not found", goerr.V("id", unit.ID))
		}
		return nil, goerr.Wrap(err, "failed to get org unit", goerr.V("id", unit.ID))
	}

	var existing orgUnitDocument
	if err := snap.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal org unit", goerr.V("id", unit.ID))
	}

	updated := toOrgUnitDocument(unit)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := ref.Set(ctx, updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update org unit", goerr.V("id", unit.ID))
	}
	return updated.toModel(), nil
}

func (r *orgUnitRepository) Delete(ctx context.Context, id int64) error {
	ref := r.docRef(id)

	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "org unit not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get org unit", goerr.V("id", id))
	}

	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete org unit", goerr.V("id", id))
	}
	return nil
}
