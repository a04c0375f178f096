package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskmatrix/pkg/cli"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model/config"
	"github.com/secmon-lab/riskmatrix/pkg/domain/scoring"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

const registerTOML = `
[[control]]
code = "C-001"
name = "Dual approval"
type = "preventive"
effectiveness = 0.5

[[risk]]
code = "R-001"
name = "Payment fraud"
probability = 4
impact = 5
controls = ["C-001"]
`

func run(args ...string) error {
	return cli.Run(context.Background(), append([]string{"riskmatrix", "--log-level", "error"}, args...), "test")
}

func TestRun_ValidateCommand(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		gt.NoError(t, run("validate"))
	})

	t.Run("valid scoring and register", func(t *testing.T) {
		scoringPath := writeFile(t, "scoring.toml", "[thresholds]\nlow = 5\nmedium = 10\nhigh = 18\n")
		registerPath := writeFile(t, "register.toml", registerTOML)
		gt.NoError(t, run("validate", "--scoring-config", scoringPath, "--register", registerPath))
	})

	t.Run("invalid thresholds", func(t *testing.T) {
		scoringPath := writeFile(t, "scoring.yaml", "thresholds:\n  low: 15\n")
		gt.Error(t, run("validate", "--scoring-config", scoringPath))
	})

	t.Run("register with bad impact", func(t *testing.T) {
		registerPath := writeFile(t, "register.yaml", `
risks:
  - code: R-001
    name: Payment fraud
    probability: 3
    impact: 9
`)
		gt.Error(t, run("validate", "--register", registerPath))
	})
}

func TestRun_HeatmapCommand(t *testing.T) {
	registerPath := writeFile(t, "register.toml", registerTOML)

	gt.NoError(t, run("heatmap", "--register", registerPath, "--no-color"))
	gt.NoError(t, run("heatmap", "--register", registerPath, "--mode", "residual", "--format", "json"))
	gt.Error(t, run("heatmap", "--register", registerPath, "--mode", "bogus"))
	gt.Error(t, run("heatmap", "--register", registerPath, "--format", "xml"))
	gt.Error(t, run("heatmap"))
}

func TestRun_ScoreCommand(t *testing.T) {
	gt.NoError(t, run("score", "--score", "20"))
	gt.NoError(t, run("score", "-p", "4", "-i", "5", "-e", "0.5", "-e", "0.3", "--format", "json"))
	gt.Error(t, run("score"))
	gt.NoError(t, run("score", "--score", "30"))
	gt.NoError(t, run("score", "-p", "4", "-i", "5", "-e", "1.5"))
	gt.Error(t, run("score", "-p", "6", "-i", "5"))
}

func TestRun_InvalidLogLevel(t *testing.T) {
	err := cli.Run(context.Background(), []string{"riskmatrix", "--log-level", "verbose", "validate"}, "test")
	gt.Error(t, err)
}

func TestRenderHeatmap(t *testing.T) {
	items := []model.RiskCellItem{
		{ID: 1, Code: "R-001", Probability: 4, Impact: 5},
		{ID: 2, Code: "R-002", Probability: 4, Impact: 5},
		{ID: 3, Code: "R-003", Probability: 1, Impact: 2},
	}
	h := scoring.BuildGrid(items, types.HeatmapModeInherent, config.DefaultThresholds())

	var buf bytes.Buffer
	gt.NoError(t, cli.RenderHeatmap(&buf, h, false)).Required()

	out := buf.String()
	gt.String(t, out).Contains("Heatmap (inherent), 3 risk(s)")
	gt.String(t, out).Contains("P4 x I5 [Crítico]: R-001, R-002")
	gt.String(t, out).Contains("P1 x I2 [Bajo]: R-003")
	gt.String(t, out).Contains("  2  20.0 ")
}

func TestIndexConfig(t *testing.T) {
	cfg := cli.IndexConfig("test")
	gt.Array(t, cfg.Collections).Length(2).Required()

	gt.Value(t, cfg.Collections[0].Name).Equal("test_action_plans")
	gt.Value(t, cfg.Collections[0].Indexes[0].Fields[0].Path).Equal("risk_id")
	gt.Value(t, cfg.Collections[0].Indexes[0].Fields[1].Path).Equal("id")

	gt.Value(t, cfg.Collections[1].Name).Equal("test_org_units")
	gt.Value(t, cfg.Collections[1].Indexes[0].Fields[0].Path).Equal("parent_id")

	gt.Value(t, cli.IndexConfig("").Collections[0].Name).Equal("action_plans")
}

func TestRun_MigrateRequiresProject(t *testing.T) {
	t.Setenv("RISKMATRIX_FIRESTORE_PROJECT_ID", "")
	gt.NoError(t, os.Unsetenv("RISKMATRIX_FIRESTORE_PROJECT_ID"))
	gt.Error(t, run("migrate", "--dry-run"))
}
