package safe

import (
	"context"
	"io"

	"github.com/secmon-lab/riskmatrix/pkg/utils/logging"
)

// Close closes closer and logs the error. A nil closer is ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Warn("failed to close", "error", err)
	}
}

// Copy streams src into dst and returns the number of bytes written. Errors are
// logged only, since callers use it after the response header is committed.
func Copy(ctx context.Context, dst io.Writer, src io.Reader) int64 {
	n, err := io.Copy(dst, src)
	if err != nil {
		logging.From(ctx).Warn("failed to copy", "error", err, "written", n)
	}
	return n
}
