package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskmatrix/pkg/cli/config"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func TestLoadScoringConfig(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantErr  error
		wantHigh float64
		wantFreq float64
	}{
		{
			name: "toml with thresholds and weights",
			file: "scoring.toml",
			content: `
[thresholds]
low = 5
medium = 10
high = 18

[weights]
frequency = 2
volume = 1
`,
			wantHigh: 18,
			wantFreq: 2,
		},
		{
			name: "yaml with thresholds only",
			file: "scoring.yaml",
			content: `
thresholds:
  high: 20
`,
			wantHigh: 20,
			wantFreq: 1,
		},
		{
			name:     "empty yaml keeps defaults",
			file:     "scoring.yml",
			content:  "",
			wantHigh: 19,
			wantFreq: 1,
		},
		{
			name: "thresholds not increasing",
			file: "scoring.toml",
			content: `
[thresholds]
low = 12
medium = 6
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "high threshold at max score",
			file: "scoring.toml",
			content: `
[thresholds]
high = 25
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "nan threshold",
			file: "scoring.toml",
			content: `
[thresholds]
low = nan
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "infinite high threshold in yaml",
			file: "scoring.yaml",
			content: `
thresholds:
  high: -.inf
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "infinite weight",
			file: "scoring.toml",
			content: `
[weights]
frequency = inf
volume = 1
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "nan weight in yaml",
			file: "scoring.yaml",
			content: `
weights:
  frequency: .nan
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "unknown factor",
			file: "scoring.toml",
			content: `
[weights]
luck = 1
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "all weights zero",
			file: "scoring.yaml",
			content: `
weights:
  frequency: 0
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "unknown key",
			file: "scoring.toml",
			content: `
[bands]
x = 1
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "malformed toml",
			file:    "scoring.toml",
			content: `[thresholds`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "unsupported extension",
			file:    "scoring.json",
			content: `{}`,
			wantErr: config.ErrUnsupportedFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			cfg, err := config.LoadScoringConfig(path)
			if tt.wantErr != nil {
				gt.Error(t, err).Is(tt.wantErr)
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, cfg.Thresholds.High).Equal(tt.wantHigh)
			gt.Value(t, cfg.Weights[types.FactorFrequency]).Equal(tt.wantFreq)
		})
	}
}

func TestLoadScoringConfig_PartialWeights(t *testing.T) {
	path := writeFile(t, "scoring.toml", `
[weights]
frequency = 3
`)
	cfg, err := config.LoadScoringConfig(path)
	gt.NoError(t, err).Required()
	gt.Value(t, cfg.Weights[types.FactorFrequency]).Equal(3.0)
	gt.Value(t, cfg.Weights[types.FactorVolume]).Equal(0.0)
	gt.Value(t, cfg.Thresholds.Low).Equal(6.0)
}

func TestScoring_Configure(t *testing.T) {
	t.Run("defaults without a file", func(t *testing.T) {
		cfg, err := config.NewScoringForTest("").Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, cfg.Thresholds.Medium).Equal(12.0)
		gt.Map(t, cfg.Weights).HasKey(types.FactorVulnerabilities)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.NewScoringForTest(filepath.Join(t.TempDir(), "nope.toml")).Configure()
		gt.Error(t, err).Is(config.ErrConfigNotFound)
	})
}
