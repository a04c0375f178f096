package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/cli/config"
	"github.com/secmon-lab/riskmatrix/pkg/usecase"
	"github.com/urfave/cli/v3"
)

type scoreResult struct {
	Score        float64  `json:"score"`
	Band         string   `json:"band"`
	Combined     *float64 `json:"combined,omitempty"`
	Residual     *float64 `json:"residual,omitempty"`
	ResidualBand string   `json:"residual_band,omitempty"`
}

func cmdScore() *cli.Command {
	var scoringCfg config.Scoring
	var score float64
	var probability, impact int
	var effectiveness []float64
	var format string

	flags := []cli.Flag{
		&cli.FloatFlag{
			Name:        "score",
			Aliases:     []string{"s"},
			Usage:       "Risk score to classify, clamped to 0-25",
			Destination: &score,
		},
		&cli.IntFlag{
			Name:        "probability",
			Aliases:     []string{"p"},
			Usage:       "Probability level (1-5), used with --impact instead of --score",
			Destination: &probability,
		},
		&cli.IntFlag{
			Name:        "impact",
			Aliases:     []string{"i"},
			Usage:       "Impact level (1-5), used with --probability instead of --score",
			Destination: &impact,
		},
		&cli.FloatSliceFlag{
			Name:        "effectiveness",
			Aliases:     []string{"e"},
			Usage:       "Control effectiveness (0-1). Repeat to combine several controls into a residual score",
			Destination: &effectiveness,
		},
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Output format (text or json)",
			Value:       "text",
			Destination: &format,
		},
	}
	flags = append(flags, scoringCfg.Flags()...)

	return &cli.Command{
		Name:  "score",
		Usage: "Classify a score and optionally compute its residual after controls",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			scoring, err := scoringCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load scoring configuration")
			}
			uc := usecase.NewScoringUseCase(scoring)

			switch {
			case c.IsSet("score"):
			case c.IsSet("probability") && c.IsSet("impact"):
				if probability < 1 || probability > 5 || impact < 1 || impact > 5 {
					return goerr.New("probability and impact must be between 1 and 5",
						goerr.V("probability", probability), goerr.V("impact", impact))
				}
				score = float64(probability * impact)
			default:
				return goerr.New("either --score or both --probability and --impact are required")
			}
			result := scoreResult{
				Score: score,
				Band:  string(uc.Classify(score).Band),
			}
			if len(effectiveness) > 0 {
				res := uc.Residual(score, effectiveness)
				result.Combined = &res.Combined
				result.Residual = &res.Residual
				result.ResidualBand = string(res.Classification.Band)
			}

			w := c.Root().Writer
			switch format {
			case "json":
				if err := json.NewEncoder(w).Encode(result); err != nil {
					return goerr.Wrap(err, "failed to write result")
				}
			case "text":
				fmt.Fprintf(w, "score: %.2f (%s)\n", result.Score, result.Band)
				if result.Residual != nil {
					fmt.Fprintf(w, "combined effectiveness: %.4f\n", *result.Combined)
					fmt.Fprintf(w, "residual: %.2f (%s)\n", *result.Residual, result.ResidualBand)
				}
			default:
				return goerr.New("invalid output format", goerr.V("format", format))
			}
			return nil
		},
	}
}
