// Package framer recovers frame alignment in a byte stream and decodes
// validated AIMMS-30 frames into telemetry.Record values (§4.4).
package framer

import (
	"encoding/binary"
	"errors"

	"github.com/kstaniek/go-aimms30-server/internal/streambuf"
	"github.com/kstaniek/go-aimms30-server/internal/telemetry"
)

// Sentinel errors classify why a frame could not be decoded this attempt.
// Callers use errors.Is to branch, mirroring the teacher's server package.
var (
	// Underrun means fewer bytes are buffered than the candidate frame
	// requires. The buffer is left untouched; the caller should wait for
	// more data.
	Underrun = errors.New("framer: underrun")
	// Misaligned means the 4-byte header failed self-consistency
	// (bad start byte, bad complement, unknown id, or wrong body_length).
	Misaligned = errors.New("framer: misaligned")
	// ChecksumMismatch means the header was well-formed but the trailing
	// 16-bit additive checksum did not match.
	ChecksumMismatch = errors.New("framer: checksum mismatch")
)

const (
	headerLen = 4
	footerLen = 2
	startByte = 0x01
)

// Framer is a pure function over a ByteBuffer prefix; it mutates the
// buffer only through DropFront/DropOne, never by any other means.
type Framer struct{}

// New returns a Framer. It holds no state: schemas are looked up from the
// telemetry package's static table per attempt.
func New() *Framer { return &Framer{} }

// TryDecode attempts to decode one frame at offset 0 of buf.
//
//   - A Record and nil error: the frame's bytes have been dropped from buf.
//   - Underrun: buf is untouched; wait for more bytes.
//   - Misaligned or ChecksumMismatch: buf is untouched by TryDecode itself;
//     the caller must DropFront(1) and retry (the one-byte resync, §4.4).
func (f *Framer) TryDecode(buf *streambuf.ByteBuffer) (telemetry.Record, error) {
	if buf.Len() < headerLen {
		return telemetry.Record{}, Underrun
	}
	header, err := buf.Read(0, headerLen)
	if err != nil {
		return telemetry.Record{}, Underrun
	}

	start, id, complement, bodyLen := header[0], header[1], header[2], header[3]
	if start != startByte {
		return telemetry.Record{}, Misaligned
	}
	if complement != 255-id {
		return telemetry.Record{}, Misaligned
	}
	schema, ok := telemetry.SchemaFor(id)
	if !ok {
		return telemetry.Record{}, Misaligned
	}
	if int(bodyLen) != schema.BodyLen {
		return telemetry.Record{}, Misaligned
	}

	total := headerLen + schema.BodyLen + footerLen
	if buf.Len() < total {
		return telemetry.Record{}, Underrun
	}

	frame, err := buf.Read(0, total)
	if err != nil {
		return telemetry.Record{}, Underrun
	}

	var sum uint32
	for _, b := range frame[:headerLen+schema.BodyLen] {
		sum += uint32(b)
	}
	sum &= 0xFFFF
	footer := binary.LittleEndian.Uint16(frame[headerLen+schema.BodyLen:])
	if uint16(sum) != footer {
		return telemetry.Record{}, ChecksumMismatch
	}

	body := frame[headerLen : headerLen+schema.BodyLen]
	rec, err := schema.DecodeBody(body)
	if err != nil {
		// The schema proved its width available before decode (§7); a
		// failure here would mean a codec bug, not a framing problem.
		return telemetry.Record{}, err
	}

	if err := buf.DropFront(total); err != nil {
		return telemetry.Record{}, err
	}
	return rec, nil
}
