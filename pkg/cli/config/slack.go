package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/interfaces"
	"github.com/secmon-lab/riskmatrix/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

type Slack struct {
	botToken  string
	channelID string
	baseURL   string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token for critical risk alerts",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("RISKMATRIX_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID receiving critical risk alerts",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("RISKMATRIX_SLACK_CHANNEL_ID"),
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Base URL of this service, used for links in alerts (e.g., https://risk.example.com)",
			Destination: &x.baseURL,
			Sources:     cli.EnvVars("RISKMATRIX_BASE_URL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel-id", x.channelID),
	)
}

// IsConfigured reports whether both token and channel are set
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channelID != ""
}

// Configure returns the critical risk notifier, or nil when Slack is not configured
func (x *Slack) Configure() (interfaces.Notifier, error) {
	if x.botToken == "" && x.channelID == "" {
		return nil, nil
	}
	if !x.IsConfigured() {
		return nil, goerr.Wrap(ErrInvalidConfig, "slack-bot-token and slack-channel-id must be set together")
	}

	var opts []slack.Option
	if x.baseURL != "" {
		opts = append(opts, slack.WithBaseURL(x.baseURL))
	}
	notifier, err := slack.New(x.botToken, x.channelID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack notifier")
	}
	return notifier, nil
}
