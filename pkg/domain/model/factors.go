package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
)

// ProbabilityFactors holds the 1-5 rating of each qualitative probability factor
type ProbabilityFactors struct {
	Frequency       int `json:"frequency" toml:"frequency" yaml:"frequency"`
	Volume          int `json:"volume" toml:"volume" yaml:"volume"`
	Massivity       int `json:"massivity" toml:"massivity" yaml:"massivity"`
	CriticalPath    int `json:"critical_path" toml:"critical_path" yaml:"critical_path"`
	Complexity      int `json:"complexity" toml:"complexity" yaml:"complexity"`
	Volatility      int `json:"volatility" toml:"volatility" yaml:"volatility"`
	Vulnerabilities int `json:"vulnerabilities" toml:"vulnerabilities" yaml:"vulnerabilities"`
}

// UniformFactors returns factors with every rating set to level
func UniformFactors(level int) ProbabilityFactors {
	return ProbabilityFactors{
		Frequency:       level,
		Volume:          level,
		Massivity:       level,
		CriticalPath:    level,
		Complexity:      level,
		Volatility:      level,
		Vulnerabilities: level,
	}
}

// Levels returns the ratings keyed by factor
func (f ProbabilityFactors) Levels() map[types.FactorKey]int {
	return map[types.FactorKey]int{
		types.FactorFrequency:       f.Frequency,
		types.FactorVolume:          f.Volume,
		types.FactorMassivity:       f.Massivity,
		types.FactorCriticalPath:    f.CriticalPath,
		types.FactorComplexity:      f.Complexity,
		types.FactorVolatility:      f.Volatility,
		types.FactorVulnerabilities: f.Vulnerabilities,
	}
}

// With returns a copy of f with the given factor set to level. Unknown keys leave f unchanged.
func (f ProbabilityFactors) With(key types.FactorKey, level int) ProbabilityFactors {
	switch key {
	case types.FactorFrequency:
		f.Frequency = level
	case types.FactorVolume:
		f.Volume = level
	case types.FactorMassivity:
		f.Massivity = level
	case types.FactorCriticalPath:
		f.CriticalPath = level
	case types.FactorComplexity:
		f.Complexity = level
	case types.FactorVolatility:
		f.Volatility = level
	case types.FactorVulnerabilities:
		f.Vulnerabilities = level
	}
	return f
}

// Validate checks every rating is between 1 and 5
func (f ProbabilityFactors) Validate() error {
	for _, key := range types.AllFactorKeys() {
		level := f.Levels()[key]
		if level < 1 || level > 5 {
			return goerr.Wrap(ErrOutOfRange, "factor level must be between 1 and 5",
				goerr.V(FieldKey, key), goerr.V(ValueKey, level))
		}
	}
	return nil
}
