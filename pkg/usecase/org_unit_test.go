package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
	"github.com/secmon-lab/riskmatrix/pkg/repository/memory"
	"github.com/secmon-lab/riskmatrix/pkg/usecase"
)

func TestOrgUnitUseCase_Hierarchy(t *testing.T) {
	ctx := context.Background()

	t.Run("builds a full chain", func(t *testing.T) {
		uc := usecase.New(memory.New())

		ger, err := uc.OrgUnit.CreateOrgUnit(ctx, &model.OrgUnit{Level: types.OrgLevelGerencia, Code: "GER", Name: "Finanzas"})
		gt.NoError(t, err).Required()
		mac, err := uc.OrgUnit.CreateOrgUnit(ctx, &model.OrgUnit{Level: types.OrgLevelMacroproceso, Code: "MAC", Name: "Tesorería", ParentID: ger.ID})
		gt.NoError(t, err).Required()
		pro, err := uc.OrgUnit.CreateOrgUnit(ctx, &model.OrgUnit{Level: types.OrgLevelProceso, Code: "PRO", Name: "Pagos", ParentID: mac.ID})
		gt.NoError(t, err).Required()
		sub, err := uc.OrgUnit.CreateOrgUnit(ctx, &model.OrgUnit{Level: types.OrgLevelSubproceso, Code: "SUB", Name: "Transferencias", ParentID: pro.ID})
		gt.NoError(t, err).Required()

		// A macroproceso heatmap covers every level below it but not its gerencia
		for i, unitID := range []int64{ger.ID, mac.ID, pro.ID, sub.ID} {
			_, err := uc.Risk.CreateRisk(ctx, &model.Risk{
				Code:        types.Code(fmt.Sprintf("R-%d", i+1)),
				Name:        "Riesgo",
				Probability: i + 1,
				Impact:      1,
				OrgUnitID:   unitID,
			})
			gt.NoError(t, err).Required()
		}

		h, err := uc.Heatmap.Heatmap(ctx, types.HeatmapModeInherent, usecase.HeatmapFilter{OrgUnitID: mac.ID})
		gt.NoError(t, err).Required()
		gt.Value(t, h.Total()).Equal(3)
		gt.Value(t, h.Cell(1, 1).Count).Equal(0)
		gt.Value(t, h.Cell(4, 1).Count).Equal(1)
	})

	t.Run("rejects a parent of the wrong level", func(t *testing.T) {
		uc := usecase.New(memory.New())

		ger, err := uc.OrgUnit.CreateOrgUnit(ctx, &model.OrgUnit{Level: types.OrgLevelGerencia, Code: "GER", Name: "Finanzas"})
		gt.NoError(t, err).Required()

		_, err = uc.OrgUnit.CreateOrgUnit(ctx, &model.OrgUnit{Level: types.OrgLevelProceso, Code: "PRO", Name: "Pagos", ParentID: ger.ID})
		gt.Error(t, err).Is(usecase.ErrValidation)
	})

	t.Run("rejects a gerencia with a parent and orphans", func(t *testing.T) {
		uc := usecase.New(memory.New())

		ger, err := uc.OrgUnit.CreateOrgUnit(ctx, &model.OrgUnit{Level: types.OrgLevelGerencia, Code: "GER", Name: "Finanzas"})
		gt.NoError(t, err).Required()

		_, err = uc.OrgUnit.CreateOrgUnit(ctx, &model.OrgUnit{Level: types.OrgLevelGerencia, Code: "GER-2", Name: "Otra", ParentID: ger.ID})
		gt.Error(t, err).Is(usecase.ErrValidation)

		_, err = uc.OrgUnit.CreateOrgUnit(ctx, &model.OrgUnit{Level: types.OrgLevelMacroproceso, Code: "MAC", Name: "Sin padre"})
		gt.Error(t, err).Is(usecase.ErrValidation)

		_, err = uc.OrgUnit.CreateOrgUnit(ctx, &model.OrgUnit{Level: types.OrgLevelMacroproceso, Code: "MAC", Name: "Padre inexistente", ParentID: 999})
		gt.Error(t, err).Is(usecase.ErrValidation)
	})

	t.Run("level is immutable on update", func(t *testing.T) {
		uc := usecase.New(memory.New())

		ger, err := uc.OrgUnit.CreateOrgUnit(ctx, &model.OrgUnit{Level: types.OrgLevelGerencia, Code: "GER", Name: "Finanzas"})
		gt.NoError(t, err).Required()

		ger.Level = types.OrgLevelProceso
		_, err = uc.OrgUnit.UpdateOrgUnit(ctx, ger)
		gt.Error(t, err).Is(usecase.ErrValidation)

		ger.Level = types.OrgLevelGerencia
		ger.Name = "Gerencia de Finanzas"
		updated, err := uc.OrgUnit.UpdateOrgUnit(ctx, ger)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Name).Equal("Gerencia de Finanzas")
	})
}

func TestOrgUnitUseCase_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("refused while children exist", func(t *testing.T) {
		uc := usecase.New(memory.New())

		ger, err := uc.OrgUnit.CreateOrgUnit(ctx, &model.OrgUnit{Level: types.OrgLevelGerencia, Code: "GER", Name: "Finanzas"})
		gt.NoError(t, err).Required()
		mac, err := uc.OrgUnit.CreateOrgUnit(ctx, &model.OrgUnit{Level: types.OrgLevelMacroproceso, Code: "MAC", Name: "Tesorería", ParentID: ger.ID})
		gt.NoError(t, err).Required()

		gt.Error(t, uc.OrgUnit.DeleteOrgUnit(ctx, ger.ID)).Is(usecase.ErrConflict)

		gt.NoError(t, uc.OrgUnit.DeleteOrgUnit(ctx, mac.ID)).Required()
		gt.NoError(t, uc.OrgUnit.DeleteOrgUnit(ctx, ger.ID)).Required()
	})

	t.Run("refused while a risk references the unit", func(t *testing.T) {
		uc := usecase.New(memory.New())

		ger, err := uc.OrgUnit.CreateOrgUnit(ctx, &model.OrgUnit{Level: types.OrgLevelGerencia, Code: "GER", Name: "Finanzas"})
		gt.NoError(t, err).Required()
		_, err = uc.Risk.CreateRisk(ctx, &model.Risk{Code: "R-1", Name: "Fraude", Probability: 3, Impact: 3, OrgUnitID: ger.ID})
		gt.NoError(t, err).Required()

		gt.Error(t, uc.OrgUnit.DeleteOrgUnit(ctx, ger.ID)).Is(usecase.ErrConflict)
	})

	t.Run("missing unit is not found", func(t *testing.T) {
		uc := usecase.New(memory.New())
		gt.Error(t, uc.OrgUnit.DeleteOrgUnit(ctx, 42)).Is(usecase.ErrNotFound)
	})
}
