package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
	"github.com/secmon-lab/riskmatrix/pkg/repository/memory"
	"github.com/secmon-lab/riskmatrix/pkg/service/worker"
	"github.com/secmon-lab/riskmatrix/pkg/usecase"
)

// mockAssessor is a mock implementation of worker.Assessor for testing
type mockAssessor struct {
	mu     sync.Mutex
	calls  int
	result []*model.RiskAssessment
	err    error
}

func (m *mockAssessor) AssessAll(ctx context.Context) ([]*model.RiskAssessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.result, m.err
}

func (m *mockAssessor) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestReassessmentWorker_Summary(t *testing.T) {
	ctx := context.Background()
	uc := usecase.New(memory.New())
	for _, r := range []*model.Risk{
		{Code: "R-1", Name: "A", Probability: 5, Impact: 5},
		{Code: "R-2", Name: "B", Probability: 4, Impact: 5},
		{Code: "R-3", Name: "C", Probability: 1, Impact: 2},
	} {
		_, err := uc.Risk.CreateRisk(ctx, r)
		gt.NoError(t, err).Required()
	}

	w := worker.NewReassessmentWorker(uc.Risk, time.Hour)
	gt.NoError(t, w.Start(ctx)).Required()
	waitFor(t, func() bool { return w.Last() != nil })
	w.Stop()

	last := w.Last()
	gt.Value(t, last.Total).Equal(3)
	gt.Value(t, last.ByBand[types.RiskBandCritical]).Equal(2)
	gt.Value(t, last.ByBand[types.RiskBandLow]).Equal(1)
	gt.Value(t, last.ByBand[types.RiskBandHigh]).Equal(0)
}

func TestReassessmentWorker_Periodic(t *testing.T) {
	m := &mockAssessor{}
	w := worker.NewReassessmentWorker(m, 10*time.Millisecond)
	gt.NoError(t, w.Start(context.Background())).Required()

	waitFor(t, func() bool { return m.callCount() >= 3 })
	w.Stop()
}

func TestReassessmentWorker_ErrorKeepsRunning(t *testing.T) {
	m := &mockAssessor{err: errors.New("firestore unavailable")}
	w := worker.NewReassessmentWorker(m, 10*time.Millisecond)
	gt.NoError(t, w.Start(context.Background())).Required()

	waitFor(t, func() bool { return m.callCount() >= 2 })
	w.Stop()
	gt.Value(t, w.Last()).Nil()
}

func TestReassessmentWorker_ContextCancel(t *testing.T) {
	m := &mockAssessor{}
	ctx, cancel := context.WithCancel(context.Background())
	w := worker.NewReassessmentWorker(m, time.Hour)
	gt.NoError(t, w.Start(ctx)).Required()

	waitFor(t, func() bool { return m.callCount() >= 1 })
	cancel()
	w.Stop()
}

func TestReassessmentWorker_InvalidInterval(t *testing.T) {
	w := worker.NewReassessmentWorker(&mockAssessor{}, 0)
	gt.Value(t, w.Start(context.Background())).NotNil()
}
