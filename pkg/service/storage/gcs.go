package storage

import (
	"context"
	"errors"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/interfaces"
	"google.golang.org/api/option"
)

// GCS stores evidence in a Cloud Storage bucket under an optional prefix
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ interfaces.EvidenceStorage = (*GCS)(nil)

// GCSOption configures GCS
type GCSOption func(*gcsConfig)

type gcsConfig struct {
	prefix     string
	clientOpts []option.ClientOption
}

// WithPrefix places every object under prefix
func WithPrefix(prefix string) GCSOption {
	return func(c *gcsConfig) {
		c.prefix = prefix
	}
}

// WithClientOptions passes options to the underlying storage client
func WithClientOptions(opts ...option.ClientOption) GCSOption {
	return func(c *gcsConfig) {
		c.clientOpts = append(c.clientOpts, opts...)
	}
}

func NewGCS(ctx context.Context, bucket string, opts ...GCSOption) (*GCS, error) {
	if bucket == "" {
		return nil, goerr.New("GCS bucket is required")
	}

	var cfg gcsConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	client, err := storage.NewClient(ctx, cfg.clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	return &GCS{client: client, bucket: bucket, prefix: cfg.prefix}, nil
}

func (g *GCS) object(key string) *storage.ObjectHandle {
	return g.client.Bucket(g.bucket).Object(path.Join(g.prefix, key))
}

func (g *GCS) Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	// Cancelling the writer context aborts the upload instead of committing a partial object
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := g.object(key).NewWriter(wctx)
	w.ContentType = contentType

	n, err := io.Copy(w, r)
	if err != nil {
		cancel()
		_ = w.Close()
		return 0, goerr.Wrap(err, "failed to upload evidence", goerr.V("bucket", g.bucket), goerr.V("key", key))
	}
	if err := w.Close(); err != nil {
		return 0, goerr.Wrap(err, "failed to finalize evidence upload", goerr.V("bucket", g.bucket), goerr.V("key", key))
	}
	return n, nil
}

func (g *GCS) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rd, err := g.object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, goerr.Wrap(ErrNotFound, "evidence object not found", goerr.V("bucket", g.bucket), goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to open evidence", goerr.V("bucket", g.bucket), goerr.V("key", key))
	}
	return rd, nil
}

func (g *GCS) Delete(ctx context.Context, key string) error {
	if err := g.object(key).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return goerr.Wrap(ErrNotFound, "evidence object not found", goerr.V("bucket", g.bucket), goerr.V("key", key))
		}
		return goerr.Wrap(err, "failed to delete evidence", goerr.V("bucket", g.bucket), goerr.V("key", key))
	}
	return nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}
