// Package storage provides EvidenceStorage backends for action plan evidence.
package storage

import (
	"github.com/secmon-lab/riskmatrix/pkg/domain/interfaces"
)

// ErrNotFound is returned when an evidence object does not exist
var ErrNotFound = interfaces.ErrNotFound
