package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
)

func TestCode_Validate(t *testing.T) {
	tests := []struct {
		name    string
		code    types.Code
		wantErr bool
	}{
		{"valid risk code", "R-001", false},
		{"valid single word", "GERFIN", false},
		{"valid with numbers", "CTRL-12-A", false},
		{"empty", "", true},
		{"lowercase", "r-001", true},
		{"spaces", "R 001", true},
		{"underscore", "R_001", true},
		{"starting with hyphen", "-R001", true},
		{"ending with hyphen", "R001-", true},
		{"double hyphen", "R--001", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.code.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Code.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestControlID_Validate(t *testing.T) {
	gt.NoError(t, types.NewControlID().Validate())
	gt.Value(t, types.ControlID("").Validate()).NotNil()
	gt.Value(t, types.ControlID("not-a-uuid").Validate()).NotNil()
}

func TestRiskBand_Rank(t *testing.T) {
	bands := types.AllRiskBands()
	for i, b := range bands {
		gt.Value(t, b.Rank()).Equal(i + 1)
		gt.Bool(t, b.IsValid()).True()
	}
	gt.Value(t, types.RiskBand("unknown").Rank()).Equal(0)
	gt.Bool(t, types.RiskBand("").IsValid()).False()
}

func TestParseHeatmapMode(t *testing.T) {
	t.Run("empty defaults to inherent", func(t *testing.T) {
		mode, err := types.ParseHeatmapMode("")
		gt.NoError(t, err).Required()
		gt.Value(t, mode).Equal(types.HeatmapModeInherent)
	})

	t.Run("residual", func(t *testing.T) {
		mode, err := types.ParseHeatmapMode("residual")
		gt.NoError(t, err).Required()
		gt.Value(t, mode).Equal(types.HeatmapModeResidual)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := types.ParseHeatmapMode("target")
		gt.Value(t, err).NotNil()
	})
}

func TestOrgLevel_Parent(t *testing.T) {
	tests := []struct {
		level      types.OrgLevel
		wantParent types.OrgLevel
		wantOK     bool
	}{
		{types.OrgLevelGerencia, "", false},
		{types.OrgLevelMacroproceso, types.OrgLevelGerencia, true},
		{types.OrgLevelProceso, types.OrgLevelMacroproceso, true},
		{types.OrgLevelSubproceso, types.OrgLevelProceso, true},
		{types.OrgLevel("area"), "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			parent, ok := tt.level.Parent()
			gt.Value(t, ok).Equal(tt.wantOK)
			gt.Value(t, parent).Equal(tt.wantParent)
		})
	}
}

func TestControlType_Parse(t *testing.T) {
	for _, ct := range types.AllControlTypes() {
		parsed, err := types.ParseControlType(ct.String())
		gt.NoError(t, err).Required()
		gt.Value(t, parsed).Equal(ct)
	}

	_, err := types.ParseControlType("manual")
	gt.Value(t, err).NotNil()
}

func TestFactorCatalog(t *testing.T) {
	catalog := types.FactorCatalog()
	gt.Array(t, catalog).Length(len(types.AllFactorKeys()))

	for i, info := range catalog {
		gt.Value(t, info.Key).Equal(types.AllFactorKeys()[i])
		gt.String(t, info.Name).NotEqual("")
		for _, desc := range info.Levels {
			gt.String(t, desc).NotEqual("")
		}
	}

	// Mutating the returned slice must not affect the catalog
	catalog[0].Name = "changed"
	gt.String(t, types.FactorCatalog()[0].Name).NotEqual("changed")
}
