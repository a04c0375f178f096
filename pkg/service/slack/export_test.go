package slack

import (
	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
	"github.com/slack-go/slack"
)

// BuildBlocks renders alert blocks without posting them
func BuildBlocks(baseURL string, a *model.RiskAssessment) []slack.Block {
	c := &client{baseURL: baseURL}
	return c.buildBlocks(a)
}
