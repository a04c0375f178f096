package safe_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskmatrix/pkg/utils/safe"
)

type failingCloser struct{ closed bool }

func (f *failingCloser) Close() error {
	f.closed = true
	return errors.New("boom")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestClose(t *testing.T) {
	ctx := context.Background()
	safe.Close(ctx, nil)

	c := &failingCloser{}
	safe.Close(ctx, c)
	gt.Bool(t, c.closed).True()
}

func TestCopy(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	n := safe.Copy(ctx, &buf, strings.NewReader("evidence"))
	gt.Value(t, n).Equal(int64(8))
	gt.Value(t, buf.String()).Equal("evidence")

	n = safe.Copy(ctx, &buf, failingReader{})
	gt.Value(t, n).Equal(int64(0))
}
