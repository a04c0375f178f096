package storage

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/interfaces"
)

type object struct {
	contentType string
	data        []byte
}

// Memory keeps evidence blobs in process memory
type Memory struct {
	mu      sync.RWMutex
	objects map[string]object
}

var _ interfaces.EvidenceStorage = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{objects: make(map[string]object)}
}

func (m *Memory) Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to read evidence", goerr.V("key", key))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = object{contentType: contentType, data: data}
	return int64(len(data)), nil
}

func (m *Memory) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "evidence object not found", goerr.V("key", key))
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[key]; !ok {
		return goerr.Wrap(ErrNotFound, "evidence object not found", goerr.V("key", key))
	}
	delete(m.objects, key)
	return nil
}
