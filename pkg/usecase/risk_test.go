package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model/config"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
	"github.com/secmon-lab/riskmatrix/pkg/repository/memory"
	"github.com/secmon-lab/riskmatrix/pkg/usecase"
)

func TestRiskUseCase_CreateRisk(t *testing.T) {
	ctx := context.Background()

	t.Run("derives probability from factors", func(t *testing.T) {
		uc := usecase.New(memory.New())

		factors := model.UniformFactors(2).
			With(types.FactorFrequency, 5).
			With(types.FactorVolume, 5).
			With(types.FactorMassivity, 5)
		created, err := uc.Risk.CreateRisk(ctx, &model.Risk{
			Code:        "R-1",
			Name:        "Fraude",
			Probability: 1,
			Impact:      4,
			Factors:     &factors,
		})
		gt.NoError(t, err).Required()

		// (5*3 + 2*4) / 7 = 3.29
		gt.Value(t, created.Probability).Equal(3)
	})

	t.Run("respects configured weights", func(t *testing.T) {
		cfg := config.DefaultScoringConfig()
		cfg.Weights = config.FactorWeights{types.FactorFrequency: 1}
		uc := usecase.New(memory.New(), usecase.WithScoringConfig(cfg))

		factors := model.UniformFactors(1).With(types.FactorFrequency, 5)
		created, err := uc.Risk.CreateRisk(ctx, &model.Risk{Code: "R-1", Name: "Fraude", Impact: 2, Factors: &factors})
		gt.NoError(t, err).Required()
		gt.Value(t, created.Probability).Equal(5)
	})

	t.Run("rejects invalid ratings and references", func(t *testing.T) {
		uc := usecase.New(memory.New())

		_, err := uc.Risk.CreateRisk(ctx, &model.Risk{Code: "R-1", Name: "Fraude", Probability: 6, Impact: 1})
		gt.Error(t, err).Is(usecase.ErrValidation)

		_, err = uc.Risk.CreateRisk(ctx, &model.Risk{Code: "r 1", Name: "Fraude", Probability: 1, Impact: 1})
		gt.Error(t, err).Is(usecase.ErrValidation)

		_, err = uc.Risk.CreateRisk(ctx, &model.Risk{Code: "R-1", Name: "Fraude", Probability: 1, Impact: 1, OrgUnitID: 7})
		gt.Error(t, err).Is(usecase.ErrValidation)

		_, err = uc.Risk.CreateRisk(ctx, &model.Risk{Code: "R-1", Name: "Fraude", Probability: 1, Impact: 1, ControlIDs: []types.ControlID{types.NewControlID()}})
		gt.Error(t, err).Is(usecase.ErrValidation)
	})
}

func TestRiskUseCase_Assess(t *testing.T) {
	ctx := context.Background()

	t.Run("combines linked controls", func(t *testing.T) {
		uc := usecase.New(memory.New())
		c1 := createControl(t, uc, "C-1", 0.5)
		c2 := createControl(t, uc, "C-2", 0.5)
		r := createRisk(t, uc, "R-1", 4, 5, c1.ID, c2.ID)

		a, err := uc.Risk.Assess(ctx, r.ID)
		gt.NoError(t, err).Required()

		gt.Value(t, a.Inherent).Equal(20.0)
		gt.Value(t, a.InherentClass.Band).Equal(types.RiskBandCritical)
		gt.Value(t, a.CombinedEffectiveness).Equal(0.75)
		gt.Value(t, a.Residual).Equal(5.0)
		gt.Value(t, a.ResidualClass.Band).Equal(types.RiskBandLow)
		gt.Value(t, a.ResidualProbability).Equal(2)
		gt.Value(t, a.ResidualImpact).Equal(3)
	})

	t.Run("follows control effectiveness changes", func(t *testing.T) {
		uc := usecase.New(memory.New())
		c := createControl(t, uc, "C-1", 0.5)
		r := createRisk(t, uc, "R-1", 4, 5, c.ID)

		a, err := uc.Risk.Assess(ctx, r.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, a.Residual).Equal(10.0)
		gt.Value(t, a.ResidualClass.Band).Equal(types.RiskBandMedium)

		c.Effectiveness = 0
		_, err = uc.Control.UpdateControl(ctx, c)
		gt.NoError(t, err).Required()

		a, err = uc.Risk.Assess(ctx, r.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, a.Residual).Equal(20.0)
	})

	t.Run("missing risk is not found", func(t *testing.T) {
		uc := usecase.New(memory.New())
		_, err := uc.Risk.Assess(ctx, 404)
		gt.Error(t, err).Is(usecase.ErrNotFound)
	})

	t.Run("AssessAll covers every risk", func(t *testing.T) {
		uc := usecase.New(memory.New())
		c := createControl(t, uc, "C-1", 0.5)
		createRisk(t, uc, "R-1", 5, 5, c.ID)
		createRisk(t, uc, "R-2", 1, 2)

		all, err := uc.Risk.AssessAll(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(2)
		gt.Value(t, all[0].Code).Equal(types.Code("R-1"))
		gt.Value(t, all[0].CombinedEffectiveness).Equal(0.5)
		gt.Value(t, all[1].Inherent).Equal(2.0)
	})
}

func TestRiskUseCase_CriticalAlert(t *testing.T) {
	ctx := context.Background()
	notifier := newMockNotifier()
	uc := usecase.New(memory.New(), usecase.WithNotifier(notifier))

	low := createRisk(t, uc, "R-1", 1, 1)
	critical := createRisk(t, uc, "R-2", 5, 5)

	select {
	case <-notifier.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("critical alert was not sent")
	}
	gt.Value(t, notifier.count()).Equal(1)
	gt.Value(t, notifier.alerts[0].RiskID).Equal(critical.ID)

	_, err := uc.Risk.Assess(ctx, low.ID)
	gt.NoError(t, err).Required()

	_, err = uc.Risk.Assess(ctx, critical.ID)
	gt.NoError(t, err).Required()
	select {
	case <-notifier.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("critical alert was not sent on assessment")
	}
	gt.Value(t, notifier.count()).Equal(2)
}

func TestRiskUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	uc := usecase.New(memory.New())
	r := createRisk(t, uc, "R-1", 3, 3)

	plan, err := uc.ActionPlan.CreateActionPlan(ctx, &model.ActionPlan{RiskID: r.ID, Title: "Mitigar"})
	gt.NoError(t, err).Required()

	gt.Error(t, uc.Risk.DeleteRisk(ctx, r.ID)).Is(usecase.ErrConflict)

	gt.NoError(t, uc.ActionPlan.DeleteActionPlan(ctx, plan.ID)).Required()
	gt.NoError(t, uc.Risk.DeleteRisk(ctx, r.ID)).Required()

	_, err = uc.Risk.GetRisk(ctx, r.ID)
	gt.Error(t, err).Is(usecase.ErrNotFound)
}
