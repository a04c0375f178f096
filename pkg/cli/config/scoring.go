package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/secmon-lab/riskmatrix/pkg/domain/model/config"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Scoring holds the path of the scoring configuration file
type Scoring struct {
	path string
}

func (x *Scoring) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "scoring-config",
			Aliases:     []string{"c"},
			Usage:       "Scoring configuration file (.toml, .yaml or .yml). Built-in defaults when omitted",
			Category:    "Scoring",
			Sources:     cli.EnvVars("RISKMATRIX_SCORING_CONFIG"),
			Destination: &x.path,
		},
	}
}

// Path returns the configured file path
func (x *Scoring) Path() string {
	return x.path
}

// Configure loads the scoring configuration, falling back to defaults when no file is set
func (x *Scoring) Configure() (*domainConfig.ScoringConfig, error) {
	if x.path == "" {
		return domainConfig.DefaultScoringConfig(), nil
	}
	return LoadScoringConfig(x.path)
}

type thresholdsFile struct {
	Low    *float64 `toml:"low" yaml:"low"`
	Medium *float64 `toml:"medium" yaml:"medium"`
	High   *float64 `toml:"high" yaml:"high"`
}

type scoringFile struct {
	Thresholds thresholdsFile     `toml:"thresholds" yaml:"thresholds"`
	Weights    map[string]float64 `toml:"weights" yaml:"weights"`
}

// LoadScoringConfig reads a TOML or YAML scoring file. Thresholds left out keep
// their default value; when [weights] is absent every factor weighs 1.
func LoadScoringConfig(path string) (*domainConfig.ScoringConfig, error) {
	var file scoringFile
	if err := decodeFile(path, &file); err != nil {
		return nil, err
	}

	cfg := domainConfig.DefaultScoringConfig()
	if v := file.Thresholds.Low; v != nil {
		cfg.Thresholds.Low = *v
	}
	if v := file.Thresholds.Medium; v != nil {
		cfg.Thresholds.Medium = *v
	}
	if v := file.Thresholds.High; v != nil {
		cfg.Thresholds.High = *v
	}
	if file.Weights != nil {
		cfg.Weights = make(domainConfig.FactorWeights, len(file.Weights))
		for key, w := range file.Weights {
			cfg.Weights[types.FactorKey(key)] = w
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, err.Error(), goerr.V(ConfigPathKey, path))
	}
	return cfg, nil
}

// decodeFile unmarshals path into v, choosing the decoder by file extension
func decodeFile(path string, v any) error {
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return goerr.Wrap(ErrConfigNotFound, "file does not exist", goerr.V(ConfigPathKey, path))
		}
		return goerr.Wrap(err, "failed to read file", goerr.V(ConfigPathKey, path))
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(raw)).DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return goerr.Wrap(ErrInvalidConfig, "failed to parse TOML",
				goerr.V(ConfigPathKey, path), goerr.V("cause", err.Error()))
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
			return goerr.Wrap(ErrInvalidConfig, "failed to parse YAML",
				goerr.V(ConfigPathKey, path), goerr.V("cause", err.Error()))
		}
	default:
		return goerr.Wrap(ErrUnsupportedFormat, "expected .toml, .yaml or .yml",
			goerr.V(ConfigPathKey, path), goerr.V(ExtensionKey, ext))
	}
	return nil
}
