package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskmatrix/pkg/utils/logging"
)

func TestFromFallsBackToDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, logging.FormatJSON, slog.LevelInfo)

	prev := logging.Default()
	logging.SetDefault(logger)
	t.Cleanup(func() { logging.SetDefault(prev) })

	gt.Value(t, logging.From(context.Background())).Equal(logger)

	other := logging.New(&bytes.Buffer{}, logging.FormatJSON, slog.LevelInfo)
	ctx := logging.With(context.Background(), other)
	gt.Value(t, logging.From(ctx)).Equal(other)
}

func TestJSONRedactsSecrets(t *testing.T) {
	type slackConfig struct {
		Channel string
		Token   string
	}

	var buf bytes.Buffer
	logger := logging.New(&buf, logging.FormatJSON, slog.LevelInfo)
	logger.Info("configured", "slack", slackConfig{Channel: "#grc", Token: "xoxb-secret"})

	var record map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &record)).Required()
	gt.String(t, buf.String()).Contains("#grc")
	gt.Bool(t, bytes.Contains(buf.Bytes(), []byte("xoxb-secret"))).False()
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, logging.FormatJSON, slog.LevelWarn)
	logger.Info("hidden")
	gt.Value(t, buf.Len()).Equal(0)

	logger.Warn("shown")
	gt.String(t, buf.String()).Contains("shown")
}
