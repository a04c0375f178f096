package config_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskmatrix/pkg/cli/config"
)

func TestRepository_Configure(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		repo, err := config.NewRepositoryForTest("memory", "").Configure(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, repo).NotNil()
		gt.NoError(t, repo.Close())
	})

	t.Run("firestore without project", func(t *testing.T) {
		_, err := config.NewRepositoryForTest("firestore", "").Configure(ctx)
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := config.NewRepositoryForTest("postgres", "").Configure(ctx)
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}

func TestStorage_Configure(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		store, closer, err := config.NewStorageForTest("memory", "").Configure(ctx)
		gt.NoError(t, err).Required()
		defer closer()

		n, err := store.Put(ctx, "k", "text/plain", bytes.NewReader([]byte("abc")))
		gt.NoError(t, err).Required()
		gt.Value(t, n).Equal(int64(3))

		rc, err := store.Open(ctx, "k")
		gt.NoError(t, err).Required()
		raw, err := io.ReadAll(rc)
		gt.NoError(t, err)
		gt.NoError(t, rc.Close())
		gt.Value(t, string(raw)).Equal("abc")
	})

	t.Run("none", func(t *testing.T) {
		store, _, err := config.NewStorageForTest("none", "").Configure(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, store).Nil()
	})

	t.Run("gcs without bucket", func(t *testing.T) {
		_, _, err := config.NewStorageForTest("gcs", "").Configure(ctx)
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, _, err := config.NewStorageForTest("s3", "").Configure(ctx)
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}

func TestSlack_Configure(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		notifier, err := config.NewSlackForTest("", "").Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, notifier).Nil()
	})

	t.Run("token without channel", func(t *testing.T) {
		_, err := config.NewSlackForTest("xoxb-test", "").Configure()
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("configured", func(t *testing.T) {
		cfg := config.NewSlackForTest("xoxb-test", "C0123456")
		gt.Bool(t, cfg.IsConfigured()).True()
		notifier, err := cfg.Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, notifier).NotNil()
	})
}
