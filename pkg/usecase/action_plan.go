package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/interfaces"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
	"github.com/secmon-lab/riskmatrix/pkg/utils/logging"
	"github.com/secmon-lab/riskmatrix/pkg/utils/metrics"
)

// MaxEvidenceSize is the largest evidence file accepted, in bytes
const MaxEvidenceSize = 20 << 20

type ActionPlanUseCase struct {
	repo    interfaces.Repository
	storage interfaces.EvidenceStorage
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewActionPlanUseCase(repo interfaces.Repository, storage interfaces.EvidenceStorage, m *metrics.Metrics) *ActionPlanUseCase {
	return &ActionPlanUseCase{
		repo:    repo,
		storage: storage,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateActionPlan stores a plan for an existing risk. New plans always start PENDING.
func (uc *ActionPlanUseCase) CreateActionPlan(ctx context.Context, plan *model.ActionPlan) (*model.ActionPlan, error) {
	plan.Status = types.ActionPlanStatusPending
	plan.Evidence = nil
	if err := plan.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err := uc.requireRisk(ctx, plan.RiskID); err != nil {
		return nil, err
	}

	created, err := uc.repo.ActionPlan().Create(ctx, plan)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create action plan", goerr.V(RiskIDKey, plan.RiskID))
	}
	return created, nil
}

func (uc *ActionPlanUseCase) GetActionPlan(ctx context.Context, id int64) (*model.ActionPlan, error) {
	plan, err := uc.repo.ActionPlan().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get action plan", goerr.V(ActionPlanIDKey, id))
	}
	return plan, nil
}

// ListActionPlans returns every plan, or only those of riskID when it is not 0
func (uc *ActionPlanUseCase) ListActionPlans(ctx context.Context, riskID int64) ([]*model.ActionPlan, error) {
	if riskID != 0 {
		plans, err := uc.repo.ActionPlan().GetByRisk(ctx, riskID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list action plans", goerr.V(RiskIDKey, riskID))
		}
		return plans, nil
	}

	plans, err := uc.repo.ActionPlan().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list action plans")
	}
	return plans, nil
}

// UpdateActionPlan replaces descriptive fields. Status and evidence only change
// through TransitionActionPlan and the evidence workflow.
func (uc *ActionPlanUseCase) UpdateActionPlan(ctx context.Context, plan *model.ActionPlan) (*model.ActionPlan, error) {
	existing, err := uc.repo.ActionPlan().Get(ctx, plan.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get action plan", goerr.V(ActionPlanIDKey, plan.ID))
	}

	updated := existing.Copy()
	updated.Title = plan.Title
	updated.Description = plan.Description
	updated.Owner = plan.Owner
	updated.DueDate = plan.DueDate
	if plan.RiskID != 0 && plan.RiskID != existing.RiskID {
		if err := uc.requireRisk(ctx, plan.RiskID); err != nil {
			return nil, err
		}
		updated.RiskID = plan.RiskID
	}
	if err := updated.Validate(); err != nil {
		return nil, invalid(err)
	}

	saved, err := uc.repo.ActionPlan().Update(ctx, updated)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update action plan", goerr.V(ActionPlanIDKey, plan.ID))
	}
	return saved, nil
}

// DeleteActionPlan removes the plan and, best effort, its stored evidence
func (uc *ActionPlanUseCase) DeleteActionPlan(ctx context.Context, id int64) error {
	plan, err := uc.repo.ActionPlan().Get(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to get action plan", goerr.V(ActionPlanIDKey, id))
	}

	if err := uc.repo.ActionPlan().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete action plan", goerr.V(ActionPlanIDKey, id))
	}

	if uc.storage != nil {
		for _, ev := range plan.Evidence {
			if err := uc.storage.Delete(ctx, ev.StorageKey); err != nil && !errors.Is(err, ErrNotFound) {
				logging.From(ctx).Warn("failed to delete evidence object",
					"error", err, "action_plan_id", id, "key", ev.StorageKey)
			}
		}
	}
	return nil
}

// TransitionActionPlan moves a plan to status. EVIDENCE_SUBMITTED and COMPLETED
// are reached only by uploading and approving evidence.
func (uc *ActionPlanUseCase) TransitionActionPlan(ctx context.Context, id int64, status types.ActionPlanStatus) (*model.ActionPlan, error) {
	if !status.IsValid() {
		return nil, goerr.Wrap(ErrValidation, "invalid action plan status", goerr.V(StatusKey, status))
	}
	if status == types.ActionPlanStatusEvidenceSubmitted || status == types.ActionPlanStatusCompleted {
		return nil, goerr.Wrap(ErrInvalidTransition, "status is set by the evidence workflow",
			goerr.V(ActionPlanIDKey, id), goerr.V(StatusKey, status))
	}

	saved, err := uc.repo.ActionPlan().Modify(ctx, id, func(plan *model.ActionPlan) error {
		if err := checkTransition(plan, status); err != nil {
			return err
		}
		plan.Status = status
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update action plan", goerr.V(ActionPlanIDKey, id))
	}
	return saved, nil
}

// UploadEvidence stores r and attaches it to the plan as pending evidence.
// A PENDING plan is started implicitly.
func (uc *ActionPlanUseCase) UploadEvidence(ctx context.Context, planID int64, fileName, contentType string, r io.Reader) (*model.ActionPlan, *model.Evidence, error) {
	if uc.storage == nil {
		return nil, nil, goerr.Wrap(ErrStorageNotConfigured, "cannot upload evidence", goerr.V(ActionPlanIDKey, planID))
	}

	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return nil, nil, goerr.Wrap(ErrValidation, "evidence file name is required", goerr.V(ActionPlanIDKey, planID))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	plan, err := uc.repo.ActionPlan().Get(ctx, planID)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to get action plan", goerr.V(ActionPlanIDKey, planID))
	}
	if plan.Status.IsTerminal() {
		return nil, nil, goerr.Wrap(ErrInvalidTransition, "action plan is closed",
			goerr.V(ActionPlanIDKey, planID), goerr.V(StatusKey, plan.Status))
	}

	ev := model.Evidence{
		ID:           types.NewEvidenceID(),
		FileName:     name,
		ContentType:  contentType,
		ReviewStatus: types.EvidenceReviewPending,
		UploadedAt:   uc.now(),
	}
	ev.StorageKey = fmt.Sprintf("action-plans/%d/%s/%s", planID, ev.ID, name)

	size, err := uc.storage.Put(ctx, ev.StorageKey, contentType, &limitedReader{r: r, remaining: MaxEvidenceSize})
	if err != nil {
		if errors.Is(err, ErrEvidenceTooLarge) {
			_ = uc.storage.Delete(ctx, ev.StorageKey)
			return nil, nil, goerr.Wrap(ErrValidation, "evidence exceeds 20 MiB",
				goerr.V(ActionPlanIDKey, planID), goerr.V("file_name", name))
		}
		return nil, nil, goerr.Wrap(err, "failed to store evidence", goerr.V(ActionPlanIDKey, planID))
	}
	ev.Size = size

	saved, err := uc.repo.ActionPlan().Modify(ctx, planID, func(plan *model.ActionPlan) error {
		if plan.Status.IsTerminal() {
			return goerr.Wrap(ErrInvalidTransition, "action plan is closed",
				goerr.V(ActionPlanIDKey, planID), goerr.V(StatusKey, plan.Status))
		}
		plan.Evidence = append(plan.Evidence, ev)
		plan.Status = types.ActionPlanStatusEvidenceSubmitted
		return nil
	})
	if err != nil {
		_ = uc.storage.Delete(ctx, ev.StorageKey)
		return nil, nil, goerr.Wrap(err, "failed to attach evidence", goerr.V(ActionPlanIDKey, planID))
	}
	uc.metrics.ObserveEvidenceUpload()

	logging.From(ctx).Info("evidence uploaded",
		"action_plan_id", planID, "evidence_id", ev.ID, "size", size)
	idx := saved.FindEvidence(ev.ID)
	return saved, &saved.Evidence[idx], nil
}

// ReviewEvidence approves or rejects pending evidence. Approval completes the
// plan. Rejection requires a comment and reopens the plan once no other
// evidence awaits review.
func (uc *ActionPlanUseCase) ReviewEvidence(ctx context.Context, planID int64, evidenceID types.EvidenceID, approve bool, comment string) (*model.ActionPlan, error) {
	if !approve && strings.TrimSpace(comment) == "" {
		return nil, goerr.Wrap(ErrValidation, "a comment is required to reject evidence",
			goerr.V(ActionPlanIDKey, planID), goerr.V(EvidenceIDKey, evidenceID))
	}

	now := uc.now()
	saved, err := uc.repo.ActionPlan().Modify(ctx, planID, func(plan *model.ActionPlan) error {
		idx := plan.FindEvidence(evidenceID)
		if idx < 0 {
			return goerr.Wrap(ErrNotFound, "evidence not found",
				goerr.V(ActionPlanIDKey, planID), goerr.V(EvidenceIDKey, evidenceID))
		}
		if plan.Status != types.ActionPlanStatusEvidenceSubmitted {
			return goerr.Wrap(ErrInvalidTransition, "action plan has no evidence under review",
				goerr.V(ActionPlanIDKey, planID), goerr.V(StatusKey, plan.Status))
		}
		if plan.Evidence[idx].ReviewStatus != types.EvidenceReviewPending {
			return goerr.Wrap(ErrInvalidTransition, "evidence was already reviewed",
				goerr.V(EvidenceIDKey, evidenceID), goerr.V(StatusKey, plan.Evidence[idx].ReviewStatus))
		}

		plan.Evidence[idx].ReviewComment = comment
		plan.Evidence[idx].ReviewedAt = &now
		if approve {
			plan.Evidence[idx].ReviewStatus = types.EvidenceReviewApproved
			plan.Status = types.ActionPlanStatusCompleted
		} else {
			plan.Evidence[idx].ReviewStatus = types.EvidenceReviewRejected
			if !hasPendingEvidence(plan) {
				plan.Status = types.ActionPlanStatusInProgress
			}
		}
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save evidence review", goerr.V(ActionPlanIDKey, planID))
	}
	return saved, nil
}

// OpenEvidence streams a stored evidence file. The caller closes the reader.
func (uc *ActionPlanUseCase) OpenEvidence(ctx context.Context, planID int64, evidenceID types.EvidenceID) (io.ReadCloser, *model.Evidence, error) {
	if uc.storage == nil {
		return nil, nil, goerr.Wrap(ErrStorageNotConfigured, "cannot open evidence", goerr.V(ActionPlanIDKey, planID))
	}

	plan, err := uc.repo.ActionPlan().Get(ctx, planID)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to get action plan", goerr.V(ActionPlanIDKey, planID))
	}
	idx := plan.FindEvidence(evidenceID)
	if idx < 0 {
		return nil, nil, goerr.Wrap(ErrNotFound, "evidence not found",
			goerr.V(ActionPlanIDKey, planID), goerr.V(EvidenceIDKey, evidenceID))
	}
	ev := plan.Evidence[idx]

	rc, err := uc.storage.Open(ctx, ev.StorageKey)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to open evidence",
			goerr.V(ActionPlanIDKey, planID), goerr.V(EvidenceIDKey, evidenceID))
	}
	return rc, &ev, nil
}

func (uc *ActionPlanUseCase) requireRisk(ctx context.Context, riskID int64) error {
	if _, err := uc.repo.Risk().Get(ctx, riskID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return goerr.Wrap(ErrValidation, "risk does not exist", goerr.V(RiskIDKey, riskID))
		}
		return goerr.Wrap(err, "failed to get risk", goerr.V(RiskIDKey, riskID))
	}
	return nil
}

func checkTransition(plan *model.ActionPlan, to types.ActionPlanStatus) error {
	if !plan.Status.CanTransitionTo(to) {
		return goerr.Wrap(ErrInvalidTransition, "action plan cannot move to status",
			goerr.V(ActionPlanIDKey, plan.ID),
			goerr.V("from", plan.Status),
			goerr.V("to", to))
	}
	return nil
}

func hasPendingEvidence(plan *model.ActionPlan) bool {
	for _, ev := range plan.Evidence {
		if ev.ReviewStatus == types.EvidenceReviewPending {
			return true
		}
	}
	return false
}

// limitedReader fails with ErrEvidenceTooLarge once more than remaining bytes are read
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		return 0, ErrEvidenceTooLarge
	}
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, ErrEvidenceTooLarge
	}
	return n, err
}
