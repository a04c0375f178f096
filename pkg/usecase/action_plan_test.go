package usecase_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
	"github.com/secmon-lab/riskmatrix/pkg/repository/memory"
	"github.com/secmon-lab/riskmatrix/pkg/service/storage"
	"github.com/secmon-lab/riskmatrix/pkg/usecase"
	"golang.org/x/sync/errgroup"
)

func setupActionPlan(t *testing.T) (*usecase.UseCases, *model.ActionPlan) {
	t.Helper()
	uc := usecase.New(memory.New(), usecase.WithEvidenceStorage(storage.NewMemory()))
	r := createRisk(t, uc, "R-1", 4, 4)

	plan, err := uc.ActionPlan.CreateActionPlan(context.Background(), &model.ActionPlan{
		RiskID: r.ID,
		Title:  "Conciliación diaria",
		Owner:  "tesoreria@example.com",
		Status: types.ActionPlanStatusCompleted,
	})
	gt.NoError(t, err).Required()
	return uc, plan
}

func TestActionPlanUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("always starts pending", func(t *testing.T) {
		_, plan := setupActionPlan(t)
		gt.Value(t, plan.Status).Equal(types.ActionPlanStatusPending)
	})

	t.Run("requires an existing risk", func(t *testing.T) {
		uc := usecase.New(memory.New())
		_, err := uc.ActionPlan.CreateActionPlan(ctx, &model.ActionPlan{RiskID: 9, Title: "Plan"})
		gt.Error(t, err).Is(usecase.ErrValidation)
	})

	t.Run("lists by risk", func(t *testing.T) {
		uc, plan := setupActionPlan(t)
		plans, err := uc.ActionPlan.ListActionPlans(ctx, plan.RiskID)
		gt.NoError(t, err).Required()
		gt.Array(t, plans).Length(1)

		plans, err = uc.ActionPlan.ListActionPlans(ctx, plan.RiskID+1)
		gt.NoError(t, err).Required()
		gt.Array(t, plans).Length(0)
	})

	t.Run("update keeps status", func(t *testing.T) {
		uc, plan := setupActionPlan(t)
		updated, err := uc.ActionPlan.UpdateActionPlan(ctx, &model.ActionPlan{
			ID:     plan.ID,
			Title:  "Conciliación semanal",
			Status: types.ActionPlanStatusCompleted,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Title).Equal("Conciliación semanal")
		gt.Value(t, updated.Status).Equal(types.ActionPlanStatusPending)
		gt.Value(t, updated.RiskID).Equal(plan.RiskID)
	})
}

func TestActionPlanUseCase_Transition(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name string
		path []types.ActionPlanStatus
		err  error
	}{
		{
			name: "start then cancel",
			path: []types.ActionPlanStatus{types.ActionPlanStatusInProgress, types.ActionPlanStatusCancelled},
		},
		{
			name: "cancel from pending",
			path: []types.ActionPlanStatus{types.ActionPlanStatusCancelled},
		},
		{
			name: "cannot reopen a cancelled plan",
			path: []types.ActionPlanStatus{types.ActionPlanStatusCancelled, types.ActionPlanStatusInProgress},
			err:  usecase.ErrInvalidTransition,
		},
		{
			name: "cannot complete without evidence",
			path: []types.ActionPlanStatus{types.ActionPlanStatusInProgress, types.ActionPlanStatusCompleted},
			err:  usecase.ErrInvalidTransition,
		},
		{
			name: "cannot submit without evidence",
			path: []types.ActionPlanStatus{types.ActionPlanStatusEvidenceSubmitted},
			err:  usecase.ErrInvalidTransition,
		},
		{
			name: "unknown status",
			path: []types.ActionPlanStatus{"DONE"},
			err:  usecase.ErrValidation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			uc, plan := setupActionPlan(t)

			var err error
			for _, status := range tc.path {
				if _, err = uc.ActionPlan.TransitionActionPlan(ctx, plan.ID, status); err != nil {
					break
				}
			}

			if tc.err != nil {
				gt.Error(t, err).Is(tc.err)
				return
			}
			gt.NoError(t, err).Required()
			got, err := uc.ActionPlan.GetActionPlan(ctx, plan.ID)
			gt.NoError(t, err).Required()
			gt.Value(t, got.Status).Equal(tc.path[len(tc.path)-1])
		})
	}
}

func TestActionPlanUseCase_EvidenceWorkflow(t *testing.T) {
	ctx := context.Background()

	t.Run("upload then approve completes the plan", func(t *testing.T) {
		uc, plan := setupActionPlan(t)

		saved, ev, err := uc.ActionPlan.UploadEvidence(ctx, plan.ID, "../../acta.pdf", "application/pdf", strings.NewReader("%PDF-1.7"))
		gt.NoError(t, err).Required()
		gt.Value(t, saved.Status).Equal(types.ActionPlanStatusEvidenceSubmitted)
		gt.Value(t, ev.FileName).Equal("acta.pdf")
		gt.Value(t, ev.Size).Equal(int64(8))
		gt.Value(t, ev.ReviewStatus).Equal(types.EvidenceReviewPending)

		rc, opened, err := uc.ActionPlan.OpenEvidence(ctx, plan.ID, ev.ID)
		gt.NoError(t, err).Required()
		data, err := io.ReadAll(rc)
		gt.NoError(t, err).Required()
		gt.NoError(t, rc.Close())
		gt.Value(t, string(data)).Equal("%PDF-1.7")
		gt.Value(t, opened.ContentType).Equal("application/pdf")

		approved, err := uc.ActionPlan.ReviewEvidence(ctx, plan.ID, ev.ID, true, "")
		gt.NoError(t, err).Required()
		gt.Value(t, approved.Status).Equal(types.ActionPlanStatusCompleted)
		gt.Value(t, approved.Evidence[0].ReviewStatus).Equal(types.EvidenceReviewApproved)
		gt.Value(t, approved.Evidence[0].ReviewedAt).NotNil()

		// Closed plans take no more evidence
		_, _, err = uc.ActionPlan.UploadEvidence(ctx, plan.ID, "otra.pdf", "application/pdf", strings.NewReader("x"))
		gt.Error(t, err).Is(usecase.ErrInvalidTransition)
	})

	t.Run("reject requires a comment and reopens the plan", func(t *testing.T) {
		uc, plan := setupActionPlan(t)

		_, ev, err := uc.ActionPlan.UploadEvidence(ctx, plan.ID, "foto.png", "image/png", strings.NewReader("png"))
		gt.NoError(t, err).Required()

		_, err = uc.ActionPlan.ReviewEvidence(ctx, plan.ID, ev.ID, false, "  ")
		gt.Error(t, err).Is(usecase.ErrValidation)

		rejected, err := uc.ActionPlan.ReviewEvidence(ctx, plan.ID, ev.ID, false, "Ilegible")
		gt.NoError(t, err).Required()
		gt.Value(t, rejected.Status).Equal(types.ActionPlanStatusInProgress)
		gt.Value(t, rejected.Evidence[0].ReviewStatus).Equal(types.EvidenceReviewRejected)
		gt.Value(t, rejected.Evidence[0].ReviewComment).Equal("Ilegible")

		_, err = uc.ActionPlan.ReviewEvidence(ctx, plan.ID, ev.ID, true, "")
		gt.Error(t, err).Is(usecase.ErrInvalidTransition)
	})

	t.Run("reject keeps the plan under review while other evidence is pending", func(t *testing.T) {
		uc, plan := setupActionPlan(t)

		_, first, err := uc.ActionPlan.UploadEvidence(ctx, plan.ID, "a.txt", "text/plain", strings.NewReader("a"))
		gt.NoError(t, err).Required()
		_, second, err := uc.ActionPlan.UploadEvidence(ctx, plan.ID, "b.txt", "text/plain", strings.NewReader("b"))
		gt.NoError(t, err).Required()

		saved, err := uc.ActionPlan.ReviewEvidence(ctx, plan.ID, first.ID, false, "Incompleto")
		gt.NoError(t, err).Required()
		gt.Value(t, saved.Status).Equal(types.ActionPlanStatusEvidenceSubmitted)

		saved, err = uc.ActionPlan.ReviewEvidence(ctx, plan.ID, second.ID, true, "OK")
		gt.NoError(t, err).Required()
		gt.Value(t, saved.Status).Equal(types.ActionPlanStatusCompleted)
	})

	t.Run("concurrent uploads keep every evidence", func(t *testing.T) {
		store := storage.NewMemory()
		uc := usecase.New(memory.New(), usecase.WithEvidenceStorage(store))
		r := createRisk(t, uc, "R-1", 2, 2)
		plan, err := uc.ActionPlan.CreateActionPlan(ctx, &model.ActionPlan{RiskID: r.ID, Title: "Plan"})
		gt.NoError(t, err).Required()

		const uploads = 10
		var eg errgroup.Group
		for i := range uploads {
			eg.Go(func() error {
				_, _, err := uc.ActionPlan.UploadEvidence(ctx, plan.ID, fmt.Sprintf("e%d.txt", i), "text/plain", strings.NewReader("x"))
				return err
			})
		}
		gt.NoError(t, eg.Wait()).Required()

		got, err := uc.ActionPlan.GetActionPlan(ctx, plan.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, got.Evidence).Length(uploads).Required()
		for _, ev := range got.Evidence {
			rc, err := store.Open(ctx, ev.StorageKey)
			gt.NoError(t, err).Required()
			gt.NoError(t, rc.Close())
		}
	})

	t.Run("rejects files over the size limit", func(t *testing.T) {
		uc, plan := setupActionPlan(t)

		big := bytes.NewReader(make([]byte, usecase.MaxEvidenceSize+1))
		_, _, err := uc.ActionPlan.UploadEvidence(ctx, plan.ID, "big.bin", "", big)
		gt.Error(t, err).Is(usecase.ErrValidation)

		got, err := uc.ActionPlan.GetActionPlan(ctx, plan.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, got.Evidence).Length(0)
		gt.Value(t, got.Status).Equal(types.ActionPlanStatusPending)
	})

	t.Run("accepts a file of exactly the size limit", func(t *testing.T) {
		uc, plan := setupActionPlan(t)

		_, ev, err := uc.ActionPlan.UploadEvidence(ctx, plan.ID, "max.bin", "", bytes.NewReader(make([]byte, usecase.MaxEvidenceSize)))
		gt.NoError(t, err).Required()
		gt.Value(t, ev.Size).Equal(int64(usecase.MaxEvidenceSize))
		gt.Value(t, ev.ContentType).Equal("application/octet-stream")
	})

	t.Run("unknown evidence is not found", func(t *testing.T) {
		uc, plan := setupActionPlan(t)

		_, _, err := uc.ActionPlan.OpenEvidence(ctx, plan.ID, types.NewEvidenceID())
		gt.Error(t, err).Is(usecase.ErrNotFound)

		_, err = uc.ActionPlan.ReviewEvidence(ctx, plan.ID, types.NewEvidenceID(), true, "")
		gt.Error(t, err).Is(usecase.ErrNotFound)
	})

	t.Run("requires storage", func(t *testing.T) {
		uc := usecase.New(memory.New())
		r := createRisk(t, uc, "R-1", 1, 1)
		plan, err := uc.ActionPlan.CreateActionPlan(ctx, &model.ActionPlan{RiskID: r.ID, Title: "Plan"})
		gt.NoError(t, err).Required()

		_, _, err = uc.ActionPlan.UploadEvidence(ctx, plan.ID, "a.txt", "text/plain", strings.NewReader("a"))
		gt.Error(t, err).Is(usecase.ErrStorageNotConfigured)
	})

	t.Run("delete removes stored evidence", func(t *testing.T) {
		store := storage.NewMemory()
		uc := usecase.New(memory.New(), usecase.WithEvidenceStorage(store))
		r := createRisk(t, uc, "R-1", 1, 1)
		plan, err := uc.ActionPlan.CreateActionPlan(ctx, &model.ActionPlan{RiskID: r.ID, Title: "Plan"})
		gt.NoError(t, err).Required()

		_, ev, err := uc.ActionPlan.UploadEvidence(ctx, plan.ID, "a.txt", "text/plain", strings.NewReader("a"))
		gt.NoError(t, err).Required()

		gt.NoError(t, uc.ActionPlan.DeleteActionPlan(ctx, plan.ID)).Required()
		_, err = store.Open(ctx, ev.StorageKey)
		gt.Error(t, err).Is(storage.ErrNotFound)
	})
}
