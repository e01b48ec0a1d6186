package serialio

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/kstaniek/go-aimms30-server/internal/logging"
	"github.com/kstaniek/go-aimms30-server/internal/streambuf"
)

const (
	readBufSize  = 4096
	backoffMin   = 20 * time.Millisecond
	backoffMax   = 500 * time.Millisecond
)

// sleepFn allows tests to intercept backoff sleeps, same hook pattern the
// teacher uses in cmd/can-server/backend_serial.go.
var sleepFn = time.Sleep

// Run reads from p and appends every byte received to buf until ctx is
// cancelled or a fatal I/O error occurs (device removed). Transient read
// errors back off exponentially, mirroring the teacher's serial RX loop.
func Run(ctx context.Context, p Port, buf *streambuf.ByteBuffer, logger *slog.Logger) {
	if logger == nil {
		logger = logging.L()
	}
	rb := make([]byte, readBufSize)
	backoff := backoffMin
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		n, err := p.Read(rb)
		if n > 0 {
			buf.AppendSlice(rb[:n])
			backoff = backoffMin
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			var perr *os.PathError
			if errors.As(err, &perr) {
				logger.Error("serial_read_fatal", "error", err)
				return
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				continue // transient, e.g. read timeout with no data
			}
			logger.Warn("serial_read_error", "error", err, "backoff", backoff)
			sleepFn(backoff)
			backoff *= 2
			if backoff > backoffMax {
				backoff = backoffMax
			}
		}
	}
}
