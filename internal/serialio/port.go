// Package serialio is the producer side of the pipeline: it owns the
// RS-232 link to the AIMMS-30 and appends received bytes to a ByteBuffer
// (§6 producer interface).
package serialio

import (
	"time"

	"github.com/tarm/serial"
)

// Port abstracts tarm/serial for testability, same shape as the teacher's
// internal/serial.Port.
type Port interface {
	Read(p []byte) (int, error)
	Close() error
}

// Open opens the named serial device at the given baud rate, 8 data bits,
// no parity, one stop bit (8N1), with a bounded read timeout so the
// producer loop can observe context cancellation between reads.
func Open(name string, baud int, readTimeout time.Duration) (Port, error) {
	cfg := &serial.Config{Name: name, Baud: baud, ReadTimeout: readTimeout}
	return serial.OpenPort(cfg)
}
