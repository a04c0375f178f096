package usecase

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/interfaces"
)

// Sentinel errors for use case layer
var (
	ErrNotFound          = interfaces.ErrNotFound
	ErrValidation        = goerr.New("invalid request")
	ErrInvalidTransition = goerr.New("invalid status transition")
	ErrConflict          = goerr.New("conflict with existing records")

	ErrStorageNotConfigured = goerr.New("evidence storage is not configured")
	ErrEvidenceTooLarge     = goerr.New("evidence exceeds maximum size")
)

// Context keys for error values
const (
	RiskIDKey       = "risk_id"
	ControlIDKey    = "control_id"
	OrgUnitIDKey    = "org_unit_id"
	ActionPlanIDKey = "action_plan_id"
	EvidenceIDKey   = "evidence_id"
	StatusKey       = "status"
)

// invalid marks err as a client side validation failure
func invalid(err error, opts ...goerr.Option) error {
	return goerr.Wrap(ErrValidation, err.Error(), opts...)
}
