package interfaces

import (
	"context"

	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
)

// Notifier announces risk assessments that need attention
type Notifier interface {
	NotifyCriticalRisk(ctx context.Context, assessment *model.RiskAssessment) error
}
