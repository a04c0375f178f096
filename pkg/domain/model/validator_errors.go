package model

import "github.com/m-mizutani/goerr/v2"

// Validation errors
var (
	ErrMissingRequired      = goerr.New("required field is missing")
	ErrOutOfRange           = goerr.New("value out of range")
	ErrInvalidHierarchy     = goerr.New("invalid organizational hierarchy")
	ErrInvalidEffectiveness = goerr.New("control effectiveness must be between 0 and 1")
	ErrInvalidStatus        = goerr.New("invalid status")
)

// Context keys for error values
const (
	FieldKey  = "field"
	ValueKey  = "value"
	LevelKey  = "level"
	ParentKey = "parent_level"
	StatusKey = "status"
)
