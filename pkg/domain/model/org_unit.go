package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
)

// OrgUnit is a node of the organizational structure (gerencia, macroproceso, proceso, subproceso)
type OrgUnit struct {
	ID          int64
	Level       types.OrgLevel
	Code        types.Code
	Name        string
	Description string
	ParentID    int64 // 0 for gerencias
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the unit's own fields. The parent relationship is checked by ValidateParent.
func (u *OrgUnit) Validate() error {
	if !u.Level.IsValid() {
		return goerr.New("invalid org level", goerr.V(LevelKey, u.Level))
	}
	if err := u.Code.Validate(); err != nil {
		return goerr.Wrap(err, "invalid org unit code")
	}
	if u.Name == "" {
		return goerr.Wrap(ErrMissingRequired, "org unit name is required")
	}
	return nil
}

// ValidateParent checks that parent may hold u. parent is nil when u has no parent.
func (u *OrgUnit) ValidateParent(parent *OrgUnit) error {
	wantLevel, needsParent := u.Level.Parent()
	if !needsParent {
		if parent != nil || u.ParentID != 0 {
			return goerr.Wrap(ErrInvalidHierarchy, "top level unit cannot have a parent",
				goerr.V(LevelKey, u.Level))
		}
		return nil
	}

	if parent == nil {
		return goerr.Wrap(ErrInvalidHierarchy, "unit requires a parent",
			goerr.V(LevelKey, u.Level), goerr.V(ParentKey, wantLevel))
	}
	if parent.Level != wantLevel {
		return goerr.Wrap(ErrInvalidHierarchy, "parent has wrong level",
			goerr.V(LevelKey, u.Level), goerr.V(ParentKey, parent.Level))
	}
	return nil
}
