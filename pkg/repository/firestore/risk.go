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

type factorsDocument struct {
	Frequency       int `firestore:"frequency"`
	Volume          int `firestore:"volume"`
	Massivity       int `firestore:"massivity"`
	CriticalPath    int `firestore:"critical_path"`
	Complexity      int `firestore:"complexity"`
	Volatility      int `firestore:"volatility"`
	Vulnerabilities int `firestore:"vulnerabilities"`
}

type riskDocument struct {
	ID          int64            `firestore:"id"`
	Code        string           `firestore:"code"`
	Name        string           `firestore:"name"`
	Description string           `firestore:"description"`
	OrgUnitID   int64            `firestore:"org_unit_id"`
	Probability int              `firestore:"probability"`
	Impact      int              `firestore:"impact"`
	Factors     *factorsDocument `firestore:"factors"`
	ControlIDs  []string         `firestore:"control_ids"`
	CreatedAt   time.Time        `firestore:"created_at"`
	UpdatedAt   time.Time        `firestore:"updated_at"`
}

func toRiskDocument(risk *model.Risk) *riskDocument {
	doc := &riskDocument{
		ID:          risk.ID,
		Code:        string(risk.Code),
		Name:        risk.Name,
		Description: risk.Description,
		OrgUnitID:   risk.OrgUnitID,
		Probability: risk.Probability,
		Impact:      risk.Impact,
		ControlIDs:  make([]string, len(risk.ControlIDs)),
		CreatedAt:   risk.CreatedAt,
		UpdatedAt:   risk.UpdatedAt,
	}
	for i, id := range risk.ControlIDs {
		doc.ControlIDs[i] = string(id)
	}
	if f := risk.Factors; f != nil {
		doc.Factors = &factorsDocument{
			Frequency:       f.Frequency,
			Volume:          f.Volume,
			Massivity:       f.Massivity,
			CriticalPath:    f.CriticalPath,
			Complexity:      f.Complexity,
			Volatility:      f.Volatility,
			Vulnerabilities: f.Vulnerabilities,
		}
	}
	return doc
}

func (d *riskDocument) toModel() *model.Risk {
	risk := &model.Risk{
		ID:          d.ID,
		Code:        types.Code(d.Code),
		Name:        d.Name,
		Description: d.Description,
		OrgUnitID:   d.OrgUnitID,
		Probability: d.Probability,
		Impact:      d.Impact,
		ControlIDs:  make([]types.ControlID, len(d.ControlIDs)),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	for i, id := range d.ControlIDs {
		risk.ControlIDs[i] = types.ControlID(id)
	}
	if f := d.Factors; f != nil {
		risk.Factors = &model.ProbabilityFactors{
			Frequency:       f.Frequency,
			Volume:          f.Volume,
			Massivity:       f.Massivity,
			CriticalPath:    f.CriticalPath,
			Complexity:      f.Complexity,
			Volatility:      f.Volatility,
			Vulnerabilities: f.Vulnerabilities,
		}
	}
	return risk
}

type riskRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRiskRepository(client *firestore.Client) *riskRepository {
	return &riskRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *riskRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(prefixed(r.collectionPrefix, "risks"))
}

func (r *riskRepository) docRef(id int64) *firestore.DocumentRef {
	return r.collection().Doc(fmt.Sprintf("%d", id))
}

func (r *riskRepository) Create(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	id, err := nextID(ctx, r.client, r.collectionPrefix, "risk_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := toRiskDocument(risk)
	doc.ID = id
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.docRef(id).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create risk")
	}

	return doc.toModel(), nil
}

func (r *riskRepository) Get(ctx context.Context, id int64) (*model.Risk, error) {
	snap, err := r.docRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("id", id))
	}

	var doc riskDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *riskRepository) List(ctx context.Context) ([]*model.Risk, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	risks := []*model.Risk{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate risks")
		}

		var doc riskDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal risk")
		}
		risks = append(risks, doc.toModel())
	}

	sort.Slice(risks, func(i, j int) bool {
		return risks[i].ID < risks[j].ID
	})
	return risks, nil
}

func (r *riskRepository) Update(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	ref := r.docRef(risk.ID)

	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", risk.ID))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("id", risk.ID))
	}

	var existing riskDocument
	if err := snap.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V("id", risk.ID))
	}

	updated := toRiskDocument(risk)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := ref.Set(ctx, updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update risk", goerr.V("id", risk.ID))
	}

	return updated.toModel(), nil
}

func (r *riskRepository) Delete(ctx context.Context, id int64) error {
	ref := r.docRef(id)

	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get risk", goerr.V("id", id))
	}

	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete risk", goerr.V("id", id))
	}

	return nil
}
