package worker

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
	"github.com/secmon-lab/riskmatrix/pkg/utils/logging"
)

// Assessor scores the whole risk register
type Assessor interface {
	AssessAll(ctx context.Context) ([]*model.RiskAssessment, error)
}

// Summary is the outcome of one reassessment cycle
type Summary struct {
	At     time.Time
	Total  int
	ByBand map[types.RiskBand]int
}

// ReassessmentWorker periodically rescores every risk so that band metrics
// follow changes in control effectiveness and thresholds.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
type ReassessmentWorker struct {
	assessor Assessor
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}

	mu   sync.RWMutex
	last *Summary
}

// NewReassessmentWorker creates a new worker running every interval
func NewReassessmentWorker(assessor Assessor, interval time.Duration) *ReassessmentWorker {
	return &ReassessmentWorker{
		assessor: assessor,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background loop. It does not block server startup.
func (w *ReassessmentWorker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return goerr.New("reassessment interval must be positive", goerr.V("interval", w.interval))
	}

	logging.Default().Info("Reassessment worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *ReassessmentWorker) Stop() {
	logging.Default().Info("Reassessment worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Reassessment worker stopped")
}

// Last returns the summary of the latest successful cycle, or nil
func (w *ReassessmentWorker) Last() *Summary {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.last
}

func (w *ReassessmentWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if err := w.reassess(ctx); err != nil {
		logging.Default().Error("Initial reassessment failed (will retry next interval)",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.reassess(ctx); err != nil {
				logging.Default().Error("Reassessment failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("Reassessment worker context cancelled")
			return
		}
	}
}

func (w *ReassessmentWorker) reassess(ctx context.Context) error {
	startTime := time.Now()

	assessments, err := w.assessor.AssessAll(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to assess risks")
	}

	summary := &Summary{
		At:     startTime,
		Total:  len(assessments),
		ByBand: make(map[types.RiskBand]int, len(types.AllRiskBands())),
	}
	for _, band := range types.AllRiskBands() {
		summary.ByBand[band] = 0
	}
	for _, a := range assessments {
		summary.ByBand[a.ResidualClass.Band]++
	}

	w.mu.Lock()
	w.last = summary
	w.mu.Unlock()

	logging.Default().Info("Reassessment completed",
		"total", summary.Total,
		"critical", summary.ByBand[types.RiskBandCritical],
		"high", summary.ByBand[types.RiskBandHigh],
		"duration", time.Since(startTime).String())

	return nil
}
