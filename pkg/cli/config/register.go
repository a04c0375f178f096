package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
	"github.com/secmon-lab/riskmatrix/pkg/usecase"
)

// ControlEntry is a control as written in a register file
type ControlEntry struct {
	Code          string  `toml:"code" yaml:"code"`
	Name          string  `toml:"name" yaml:"name"`
	Description   string  `toml:"description" yaml:"description"`
	Type          string  `toml:"type" yaml:"type"`
	Effectiveness float64 `toml:"effectiveness" yaml:"effectiveness"`
}

// RiskEntry is a risk as written in a register file. Controls lists control codes.
type RiskEntry struct {
	Code        string                    `toml:"code" yaml:"code"`
	Name        string                    `toml:"name" yaml:"name"`
	Description string                    `toml:"description" yaml:"description"`
	Probability int                       `toml:"probability" yaml:"probability"`
	Impact      int                       `toml:"impact" yaml:"impact"`
	Factors     *model.ProbabilityFactors `toml:"factors" yaml:"factors"`
	Controls    []string                  `toml:"controls" yaml:"controls"`
}

// Register is the content of a risk register file
type Register struct {
	Controls []ControlEntry `toml:"control" yaml:"controls"`
	Risks    []RiskEntry    `toml:"risk" yaml:"risks"`
}

// LoadRegister reads a TOML ([[control]], [[risk]]) or YAML (controls:, risks:) register file
func LoadRegister(path string) (*Register, error) {
	var reg Register
	if err := decodeFile(path, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Seed stores the register through uc, resolving control codes to IDs
func (x *Register) Seed(ctx context.Context, uc *usecase.UseCases) error {
	ids := make(map[string]types.ControlID, len(x.Controls))
	for _, entry := range x.Controls {
		if _, dup := ids[entry.Code]; dup {
			return goerr.Wrap(ErrInvalidConfig, "duplicate control code", goerr.V(CodeKey, entry.Code))
		}
		created, err := uc.Control.CreateControl(ctx, &model.Control{
			Code:          types.Code(entry.Code),
			Name:          entry.Name,
			Description:   entry.Description,
			Type:          types.ControlType(entry.Type),
			Effectiveness: entry.Effectiveness,
		})
		if err != nil {
			return goerr.Wrap(err, "failed to load control", goerr.V(CodeKey, entry.Code))
		}
		ids[entry.Code] = created.ID
	}

	for _, entry := range x.Risks {
		risk := &model.Risk{
			Code:        types.Code(entry.Code),
			Name:        entry.Name,
			Description: entry.Description,
			Probability: entry.Probability,
			Impact:      entry.Impact,
			Factors:     entry.Factors,
		}
		for _, code := range entry.Controls {
			id, ok := ids[code]
			if !ok {
				return goerr.Wrap(ErrInvalidConfig, "risk references unknown control",
					goerr.V(CodeKey, entry.Code), goerr.V("control", code))
			}
			risk.ControlIDs = append(risk.ControlIDs, id)
		}
		if _, err := uc.Risk.CreateRisk(ctx, risk); err != nil {
			return goerr.Wrap(err, "failed to load risk", goerr.V(CodeKey, entry.Code))
		}
	}
	return nil
}
