package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
)

// ActionPlan is a remediation task attached to a risk
type ActionPlan struct {
	ID          int64
	RiskID      int64 // Required: an action plan always belongs to a risk
	Title       string
	Description string
	Owner       string
	DueDate     *time.Time
	Status      types.ActionPlanStatus
	Evidence    []Evidence
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Evidence is a file uploaded to prove an action plan was carried out
type Evidence struct {
	ID            types.EvidenceID
	FileName      string
	ContentType   string
	Size          int64
	StorageKey    string
	ReviewStatus  types.EvidenceReviewStatus
	ReviewComment string
	UploadedAt    time.Time
	ReviewedAt    *time.Time
}

// Validate checks the fields an action plan must carry before it is stored
func (p *ActionPlan) Validate() error {
	if p.RiskID == 0 {
		return goerr.Wrap(ErrMissingRequired, "risk ID is required")
	}
	if p.Title == "" {
		return goerr.Wrap(ErrMissingRequired, "action plan title is required")
	}
	if !p.Status.IsValid() {
		return goerr.Wrap(ErrInvalidStatus, "invalid action plan status", goerr.V(StatusKey, p.Status))
	}
	return nil
}

// FindEvidence returns the index of the evidence with the given ID, or -1
func (p *ActionPlan) FindEvidence(id types.EvidenceID) int {
	for i := range p.Evidence {
		if p.Evidence[i].ID == id {
			return i
		}
	}
	return -1
}

// Copy returns a deep copy of the action plan
func (p *ActionPlan) Copy() *ActionPlan {
	copied := *p
	if p.DueDate != nil {
		d := *p.DueDate
		copied.DueDate = &d
	}
	if p.Evidence != nil {
		copied.Evidence = make([]Evidence, len(p.Evidence))
		for i, ev := range p.Evidence {
			copied.Evidence[i] = ev
			if ev.ReviewedAt != nil {
				r := *ev.ReviewedAt
				copied.Evidence[i].ReviewedAt = &r
			}
		}
	}
	return &copied
}
