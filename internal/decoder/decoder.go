// Package decoder runs the framer loop over a ByteBuffer, publishing
// decoded records to an output queue (§4.5).
package decoder

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kstaniek/go-aimms30-server/internal/framer"
	"github.com/kstaniek/go-aimms30-server/internal/logging"
	"github.com/kstaniek/go-aimms30-server/internal/queue"
	"github.com/kstaniek/go-aimms30-server/internal/streambuf"
	"github.com/kstaniek/go-aimms30-server/internal/telemetry/metrics"
)

const (
	defaultWatermark  = 500
	defaultLoopPeriod = 10 * time.Millisecond
)

// StreamDecoder drives the framer against a shared ByteBuffer and publishes
// decoded records to its output queue. Construct with New and run Loop in its own
// goroutine; Loop returns when ctx is cancelled.
type StreamDecoder struct {
	buf        *streambuf.ByteBuffer
	out        *queue.Queue
	framer     *framer.Framer
	watermark  int
	loopPeriod time.Duration
	logger     *slog.Logger
}

// Option configures a StreamDecoder.
type Option func(*StreamDecoder)

// WithWatermark overrides the default 500-byte watermark.
func WithWatermark(n int) Option {
	return func(d *StreamDecoder) {
		if n > 0 {
			d.watermark = n
		}
	}
}

// WithLoopPeriod overrides the default 10ms minimum loop delay.
func WithLoopPeriod(p time.Duration) Option {
	return func(d *StreamDecoder) {
		if p > 0 {
			d.loopPeriod = p
		}
	}
}

// WithLogger overrides the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *StreamDecoder) {
		if l != nil {
			d.logger = l
		}
	}
}

// New constructs a StreamDecoder over buf, publishing to out.
func New(buf *streambuf.ByteBuffer, out *queue.Queue, opts ...Option) *StreamDecoder {
	d := &StreamDecoder{
		buf:        buf,
		out:        out,
		framer:     framer.New(),
		watermark:  defaultWatermark,
		loopPeriod: defaultLoopPeriod,
		logger:     logging.L(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Loop runs the bounded-wait / framer / resync cycle until ctx is
// cancelled. It finishes any in-flight framer call before returning
// (cancellation is only observed at iteration boundaries, §5).
func (d *StreamDecoder) Loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if d.buf.Len() < d.watermark {
			sleep(ctx, d.loopPeriod)
			continue
		}

		rec, err := d.framer.TryDecode(d.buf)
		metrics.SetBufferDepth(d.buf.Len())
		switch {
		case err == nil:
			metrics.IncFrameDecoded(string(rec.Type))
			d.out.Push(rec)
			continue // no delay: keep draining while frames are available
		case errors.Is(err, framer.Underrun):
			sleep(ctx, d.loopPeriod)
		case errors.Is(err, framer.Misaligned):
			d.buf.DropOne()
			metrics.IncResyncByte()
		case errors.Is(err, framer.ChecksumMismatch):
			d.buf.DropOne()
			metrics.IncResyncByte()
			metrics.IncChecksumMismatch()
			d.logger.Warn("checksum_mismatch")
		default:
			// A codec bug surfaced from a schema whose width the header
			// already proved available (§7). Not expected in practice;
			// resync the same as a misalignment rather than wedge the loop.
			d.buf.DropOne()
			metrics.IncResyncByte()
			d.logger.Error("framer_decode_error", "error", err)
		}
	}
}

// sleep waits for d, or returns early if ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
