package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/interfaces"
	"github.com/secmon-lab/riskmatrix/pkg/service/storage"
	"github.com/secmon-lab/riskmatrix/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Storage holds CLI flags for the evidence store
type Storage struct {
	backend string
	bucket  string
	prefix  string
}

func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "evidence-backend",
			Usage:       "Evidence storage backend (memory, gcs or none)",
			Category:    "Evidence",
			Value:       "memory",
			Sources:     cli.EnvVars("RISKMATRIX_EVIDENCE_BACKEND"),
			Destination: &x.backend,
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Cloud Storage bucket for evidence files (required when using gcs backend)",
			Category:    "Evidence",
			Sources:     cli.EnvVars("RISKMATRIX_GCS_BUCKET"),
			Destination: &x.bucket,
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object name prefix inside the bucket",
			Category:    "Evidence",
			Sources:     cli.EnvVars("RISKMATRIX_GCS_PREFIX"),
			Destination: &x.prefix,
		},
	}
}

// Configure returns the evidence store and a closer. A nil store disables evidence uploads.
func (x *Storage) Configure(ctx context.Context) (interfaces.EvidenceStorage, func(), error) {
	switch x.backend {
	case "memory", "":
		logging.Default().Info("Using in-memory evidence storage (development mode)")
		return storage.NewMemory(), func() {}, nil

	case "gcs":
		if x.bucket == "" {
			return nil, nil, goerr.Wrap(ErrInvalidConfig, "gcs-bucket is required when using gcs backend")
		}
		var opts []storage.GCSOption
		if x.prefix != "" {
			opts = append(opts, storage.WithPrefix(x.prefix))
		}
		gcs, err := storage.NewGCS(ctx, x.bucket, opts...)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to initialize evidence storage", goerr.V("bucket", x.bucket))
		}
		logging.Default().Info("Using Cloud Storage for evidence", "bucket", x.bucket, "prefix", x.prefix)
		return gcs, func() {
			if err := gcs.Close(); err != nil {
				logging.Default().Error("failed to close storage client", "error", err)
			}
		}, nil

	case "none":
		logging.Default().Warn("Evidence storage disabled, uploads will be refused")
		return nil, func() {}, nil

	default:
		return nil, nil, goerr.Wrap(ErrInvalidConfig, "invalid evidence backend", goerr.V(BackendKey, x.backend))
	}
}
