package storage_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskmatrix/pkg/domain/interfaces"
	"github.com/secmon-lab/riskmatrix/pkg/service/storage"
)

func runEvidenceStorageTest(t *testing.T, newStorage func(t *testing.T) interfaces.EvidenceStorage) {
	t.Helper()

	t.Run("Put then Open returns the same bytes", func(t *testing.T) {
		s := newStorage(t)
		ctx := context.Background()

		n, err := s.Put(ctx, "action-plans/1/acta.txt", "text/plain", strings.NewReader("acta firmada"))
		gt.NoError(t, err).Required()
		gt.Value(t, n).Equal(int64(len("acta firmada")))

		rc, err := s.Open(ctx, "action-plans/1/acta.txt")
		gt.NoError(t, err).Required()
		defer rc.Close()

		data, err := io.ReadAll(rc)
		gt.NoError(t, err).Required()
		gt.Value(t, string(data)).Equal("acta firmada")
	})

	t.Run("Open and Delete report missing objects", func(t *testing.T) {
		s := newStorage(t)
		ctx := context.Background()

		_, err := s.Open(ctx, "missing")
		gt.Bool(t, errors.Is(err, storage.ErrNotFound)).True()

		err = s.Delete(ctx, "missing")
		gt.Bool(t, errors.Is(err, storage.ErrNotFound)).True()
	})

	t.Run("Delete removes object", func(t *testing.T) {
		s := newStorage(t)
		ctx := context.Background()

		_, err := s.Put(ctx, "k", "text/plain", strings.NewReader("x"))
		gt.NoError(t, err).Required()
		gt.NoError(t, s.Delete(ctx, "k")).Required()

		_, err = s.Open(ctx, "k")
		gt.Bool(t, errors.Is(err, storage.ErrNotFound)).True()
	})
}

func TestMemoryEvidenceStorage(t *testing.T) {
	runEvidenceStorageTest(t, func(t *testing.T) interfaces.EvidenceStorage {
		return storage.NewMemory()
	})
}

func TestGCSEvidenceStorage(t *testing.T) {
	runEvidenceStorageTest(t, func(t *testing.T) interfaces.EvidenceStorage {
		bucket := os.Getenv("TEST_GCS_BUCKET")
		if bucket == "" {
			t.Skip("TEST_GCS_BUCKET not set")
		}

		ctx := context.Background()
		prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
		s, err := storage.NewGCS(ctx, bucket, storage.WithPrefix(prefix))
		gt.NoError(t, err).Required()
		t.Cleanup(func() {
			if err := s.Close(); err != nil {
				t.Errorf("failed to close storage: %v", err)
			}
		})
		return s
	})
}

func TestNewGCSRequiresBucket(t *testing.T) {
	_, err := storage.NewGCS(context.Background(), "")
	gt.Value(t, err).NotNil()
}
