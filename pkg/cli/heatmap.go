package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/cli/config"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
	"github.com/secmon-lab/riskmatrix/pkg/repository/memory"
	"github.com/secmon-lab/riskmatrix/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdHeatmap() *cli.Command {
	var scoringCfg config.Scoring
	var registerPath string
	var mode string
	var format string
	var noColor bool

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "register",
			Aliases:     []string{"r"},
			Usage:       "Risk register file (.toml, .yaml or .yml)",
			Required:    true,
			Destination: &registerPath,
		},
		&cli.StringFlag{
			Name:        "mode",
			Aliases:     []string{"m"},
			Usage:       "Heatmap mode (inherent or residual)",
			Value:       string(types.HeatmapModeInherent),
			Destination: &mode,
		},
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Output format (text or json)",
			Value:       "text",
			Destination: &format,
		},
		&cli.BoolFlag{
			Name:        "no-color",
			Usage:       "Disable colored output",
			Destination: &noColor,
		},
	}
	flags = append(flags, scoringCfg.Flags()...)

	return &cli.Command{
		Name:    "heatmap",
		Aliases: []string{"hm"},
		Usage:   "Print the 5x5 heatmap of a risk register file",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			heatmapMode, err := types.ParseHeatmapMode(mode)
			if err != nil {
				return goerr.Wrap(err, "invalid heatmap mode", goerr.V("mode", mode))
			}

			scoring, err := scoringCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load scoring configuration")
			}

			reg, err := config.LoadRegister(registerPath)
			if err != nil {
				return goerr.Wrap(err, "failed to load risk register")
			}

			uc := usecase.New(memory.New(), usecase.WithScoringConfig(scoring))
			if err := reg.Seed(ctx, uc); err != nil {
				return goerr.Wrap(err, "failed to load risk register", goerr.V("path", registerPath))
			}

			h, err := uc.Heatmap.Heatmap(ctx, heatmapMode, usecase.HeatmapFilter{})
			if err != nil {
				return goerr.Wrap(err, "failed to build heatmap")
			}

			w := c.Root().Writer
			switch format {
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(h); err != nil {
					return goerr.Wrap(err, "failed to write heatmap")
				}
				return nil
			case "text":
				return renderHeatmap(w, h, !noColor)
			default:
				return goerr.New("invalid output format", goerr.V("format", format))
			}
		},
	}
}

func bandColor(band types.RiskBand) *color.Color {
	switch band {
	case types.RiskBandLow:
		return color.New(color.BgGreen, color.FgBlack)
	case types.RiskBandMedium:
		return color.New(color.BgYellow, color.FgBlack)
	case types.RiskBandHigh:
		return color.New(color.BgHiRed, color.FgBlack)
	case types.RiskBandCritical:
		return color.New(color.BgRed, color.FgWhite, color.Bold)
	default:
		return color.New(color.Reset)
	}
}

// renderHeatmap prints probability rows from 5 down to 1 and impact columns from 1 to 5.
// Each cell shows the number of risks and the cell score.
func renderHeatmap(w io.Writer, h *model.Heatmap, useColor bool) error {
	if _, err := fmt.Fprintf(w, "Heatmap (%s), %d risk(s)\n\n", h.Mode, h.Total()); err != nil {
		return goerr.Wrap(err, "failed to write heatmap")
	}

	for p := 5; p >= 1; p-- {
		fmt.Fprintf(w, "P%d ", p)
		for i := 1; i <= 5; i++ {
			cell := h.Cell(p, i)
			c := bandColor(cell.Classification.Band)
			if useColor {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
			c.Fprintf(w, " %2d %5.1f ", cell.Count, cell.Score) //nolint:errcheck
			fmt.Fprint(w, " ")
		}
		fmt.Fprintln(w)
	}

	fmt.Fprint(w, "   ")
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(w, "     I%d    ", i)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w)
	for _, cell := range h.Cells {
		if cell.Count == 0 {
			continue
		}
		codes := make([]string, len(cell.RiskCodes))
		for j, code := range cell.RiskCodes {
			codes[j] = code.String()
		}
		fmt.Fprintf(w, "P%d x I%d [%s]: %s\n", cell.Probability, cell.Impact,
			cell.Classification.Label, strings.Join(codes, ", "))
	}
	return nil
}
