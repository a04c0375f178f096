package memory

import (
	"github.com/secmon-lab/riskmatrix/pkg/domain/interfaces"
)

// ErrNotFound is returned when the requested entity does not exist
var ErrNotFound = interfaces.ErrNotFound

// Memory keeps the register in process memory. Every read returns a copy.
type Memory struct {
	risk       *riskRepository
	control    *controlRepository
	orgUnit    *orgUnitRepository
	actionPlan *actionPlanRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		risk:       newRiskRepository(),
		control:    newControlRepository(),
		orgUnit:    newOrgUnitRepository(),
		actionPlan: newActionPlanRepository(),
	}
}

func (m *Memory) Risk() interfaces.RiskRepository {
	return m.risk
}

func (m *Memory) Control() interfaces.ControlRepository {
	return m.control
}

func (m *Memory) OrgUnit() interfaces.OrgUnitRepository {
	return m.orgUnit
}

func (m *Memory) ActionPlan() interfaces.ActionPlanRepository {
	return m.actionPlan
}

func (m *Memory) Close() error {
	return nil
}
