package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
)

// Risk is an entry of the risk register
type Risk struct {
	ID          int64
	Code        types.Code
	Name        string
	Description string
	OrgUnitID   int64 // Optional: 0 when the risk is not attached to a process
	Probability int
	Impact      int
	Factors     *ProbabilityFactors // Optional: when set, Probability is derived from it
	ControlIDs  []types.ControlID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the fields a risk must carry before it is stored
func (r *Risk) Validate() error {
	if err := r.Code.Validate(); err != nil {
		return goerr.Wrap(err, "invalid risk code")
	}
	if r.Name == "" {
		return goerr.Wrap(ErrMissingRequired, "risk name is required")
	}
	if r.Probability < 1 || r.Probability > 5 {
		return goerr.Wrap(ErrOutOfRange, "probability must be between 1 and 5",
			goerr.V(FieldKey, "probability"), goerr.V(ValueKey, r.Probability))
	}
	if r.Impact < 1 || r.Impact > 5 {
		return goerr.Wrap(ErrOutOfRange, "impact must be between 1 and 5",
			goerr.V(FieldKey, "impact"), goerr.V(ValueKey, r.Impact))
	}
	if r.Factors != nil {
		if err := r.Factors.Validate(); err != nil {
			return goerr.Wrap(err, "invalid probability factors")
		}
	}
	seen := make(map[types.ControlID]bool, len(r.ControlIDs))
	for _, id := range r.ControlIDs {
		if seen[id] {
			return goerr.New("duplicate control ID", goerr.V("control_id", id))
		}
		seen[id] = true
	}
	return nil
}

// HasControl reports whether the risk links the given control
func (r *Risk) HasControl(id types.ControlID) bool {
	for _, cid := range r.ControlIDs {
		if cid == id {
			return true
		}
	}
	return false
}

// Copy returns a deep copy of the risk
func (r *Risk) Copy() *Risk {
	copied := *r
	if r.Factors != nil {
		f := *r.Factors
		copied.Factors = &f
	}
	if r.ControlIDs != nil {
		copied.ControlIDs = make([]types.ControlID, len(r.ControlIDs))
		copy(copied.ControlIDs, r.ControlIDs)
	}
	return &copied
}
