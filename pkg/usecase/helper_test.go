package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
	"github.com/secmon-lab/riskmatrix/pkg/usecase"
)

// mockNotifier records critical risk alerts
type mockNotifier struct {
	mu     sync.Mutex
	alerts []model.RiskAssessment
	sent   chan struct{}
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{sent: make(chan struct{}, 16)}
}

func (m *mockNotifier) NotifyCriticalRisk(ctx context.Context, a *model.RiskAssessment) error {
	m.mu.Lock()
	m.alerts = append(m.alerts, *a)
	m.mu.Unlock()
	m.sent <- struct{}{}
	return nil
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.alerts)
}

func createControl(t *testing.T, uc *usecase.UseCases, code types.Code, effectiveness float64) *model.Control {
	t.Helper()
	c, err := uc.Control.CreateControl(context.Background(), &model.Control{
		Code:          code,
		Name:          "Control " + code.String(),
		Type:          types.ControlTypePreventive,
		Effectiveness: effectiveness,
	})
	gt.NoError(t, err).Required()
	return c
}

func createRisk(t *testing.T, uc *usecase.UseCases, code types.Code, probability, impact int, controls ...types.ControlID) *model.Risk {
	t.Helper()
	r, err := uc.Risk.CreateRisk(context.Background(), &model.Risk{
		Code:        code,
		Name:        "Risk " + code.String(),
		Probability: probability,
		Impact:      impact,
		ControlIDs:  controls,
	})
	gt.NoError(t, err).Required()
	return r
}
