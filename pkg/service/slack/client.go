package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/interfaces"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
	"github.com/slack-go/slack"
)

// client implements interfaces.Notifier by posting to a single channel
type client struct {
	api       *slack.Client
	channelID string
	baseURL   string
}

var _ interfaces.Notifier = (*client)(nil)

// Option is a functional option for client configuration
type Option func(*client, *[]slack.Option)

// WithAPIURL overrides the Slack API endpoint
func WithAPIURL(url string) Option {
	return func(_ *client, opts *[]slack.Option) {
		if !strings.HasSuffix(url, "/") {
			url += "/"
		}
		*opts = append(*opts, slack.OptionAPIURL(url))
	}
}

// WithBaseURL sets the frontend URL linked from alerts
func WithBaseURL(url string) Option {
	return func(c *client, _ *[]slack.Option) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// New creates a notifier with the provided bot token and channel ID
func New(token, channelID string, opts ...Option) (interfaces.Notifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}

	c := &client{channelID: channelID}
	var apiOpts []slack.Option
	for _, opt := range opts {
		opt(c, &apiOpts)
	}
	c.api = slack.New(token, apiOpts...)

	return c, nil
}

// NotifyCriticalRisk posts a Block Kit alert for an assessment
func (c *client) NotifyCriticalRisk(ctx context.Context, a *model.RiskAssessment) error {
	if a == nil {
		return nil
	}

	text := fmt.Sprintf("Riesgo crítico %s: %s (residual %.1f)", a.Code, a.Name, a.Residual)
	_, _, err := c.api.PostMessageContext(ctx, c.channelID,
		slack.MsgOptionBlocks(c.buildBlocks(a)...),
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post critical risk alert",
			goerr.V("channel_id", c.channelID),
			goerr.V("risk_id", a.RiskID),
		)
	}
	return nil
}

func (c *client) buildBlocks(a *model.RiskAssessment) []slack.Block {
	header := slack.NewHeaderBlock(
		slack.NewTextBlockObject(slack.PlainTextType, fmt.Sprintf(":rotating_light: Riesgo %s", a.ResidualClass.Label), true, false),
	)

	title := fmt.Sprintf("*%s* %s", a.Code, a.Name)
	if base := strings.TrimRight(c.baseURL, "/"); base != "" {
		title = fmt.Sprintf("*<%s/risks/%d|%s>* %s", base, a.RiskID, a.Code, a.Name)
	}
	summary := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, title, false, false),
		[]*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Probabilidad × Impacto*\n%d × %d", a.Probability, a.Impact), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Inherente*\n%.0f (%s)", a.Inherent, a.InherentClass.Label), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Efectividad de controles*\n%.0f%%", a.CombinedEffectiveness*100), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Residual*\n%.1f (%s)", a.Residual, a.ResidualClass.Label), false, false),
		},
		nil,
	)

	return []slack.Block{header, summary}
}
