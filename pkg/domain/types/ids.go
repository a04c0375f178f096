package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// ControlID identifies a control in the catalog
type ControlID string

// NewControlID generates a new random ControlID
func NewControlID() ControlID {
	return ControlID(uuid.NewString())
}

// Validate checks if the ControlID is a valid UUID
func (id ControlID) Validate() error {
	if id == "" {
		return goerr.New("control ID cannot be empty")
	}
	if _, err := uuid.Parse(string(id)); err != nil {
		return goerr.Wrap(err, "control ID must be a UUID", goerr.V("id", id))
	}
	return nil
}

func (id ControlID) String() string {
	return string(id)
}

// EvidenceID identifies an evidence file attached to an action plan
type EvidenceID string

// NewEvidenceID generates a new random EvidenceID
func NewEvidenceID() EvidenceID {
	return EvidenceID(uuid.NewString())
}

func (id EvidenceID) String() string {
	return string(id)
}
