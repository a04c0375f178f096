package model

import (
	"math"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
)

// Control is an entry of the control catalog
type Control struct {
	ID            types.ControlID
	Code          types.Code
	Name          string
	Description   string
	Type          types.ControlType
	Effectiveness float64 // Fraction of risk the control removes, 0..1
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks the fields a control must carry before it is stored
func (c *Control) Validate() error {
	if err := c.Code.Validate(); err != nil {
		return goerr.Wrap(err, "invalid control code")
	}
	if c.Name == "" {
		return goerr.Wrap(ErrMissingRequired, "control name is required")
	}
	if !c.Type.IsValid() {
		return goerr.New("invalid control type", goerr.V("type", c.Type))
	}
	if math.IsNaN(c.Effectiveness) || c.Effectiveness < 0 || c.Effectiveness > 1 {
		return goerr.Wrap(ErrInvalidEffectiveness, "invalid control effectiveness",
			goerr.V(ValueKey, c.Effectiveness))
	}
	return nil
}
