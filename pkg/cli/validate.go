package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/cli/config"
	"github.com/secmon-lab/riskmatrix/pkg/repository/memory"
	"github.com/secmon-lab/riskmatrix/pkg/usecase"
	"github.com/secmon-lab/riskmatrix/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var scoringCfg config.Scoring
	var registerPath string

	flags := scoringCfg.Flags()
	flags = append(flags, &cli.StringFlag{
		Name:        "register",
		Aliases:     []string{"r"},
		Usage:       "Risk register file (.toml, .yaml or .yml) to check against the scoring configuration",
		Destination: &registerPath,
	})

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the scoring configuration and optionally a risk register file",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			scoring, err := scoringCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "scoring configuration validation failed")
			}
			logger.Info("Scoring configuration validation passed",
				"path", scoringCfg.Path(),
				"low", scoring.Thresholds.Low,
				"medium", scoring.Thresholds.Medium,
				"high", scoring.Thresholds.High,
			)

			if registerPath == "" {
				return nil
			}

			reg, err := config.LoadRegister(registerPath)
			if err != nil {
				return goerr.Wrap(err, "failed to load risk register")
			}
			uc := usecase.New(memory.New(), usecase.WithScoringConfig(scoring))
			if err := reg.Seed(ctx, uc); err != nil {
				return goerr.Wrap(err, "risk register validation failed", goerr.V("path", registerPath))
			}

			logger.Info("Risk register validation passed",
				"path", registerPath,
				"control_count", len(reg.Controls),
				"risk_count", len(reg.Risks),
			)
			return nil
		},
	}
}
