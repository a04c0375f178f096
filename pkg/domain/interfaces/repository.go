package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Risk() RiskRepository
	Control() ControlRepository
	OrgUnit() OrgUnitRepository
	ActionPlan() ActionPlanRepository

	// Close releases the underlying client
	Close() error
}
