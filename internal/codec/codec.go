// Package codec implements the leaf field encoders/decoders for the
// AIMMS-30 wire format: fixed-width little-endian primitives, a scaled
// wrapper, and the status bitfield.
package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Field decodes and encodes one fixed-width value from/to a little-endian
// byte slice. Width reports how many bytes the field occupies on the wire.
type Field interface {
	Width() int
	Decode(b []byte) (any, error)
	Encode(v any) ([]byte, error)
}

type u8 struct{}

// U8 decodes a raw unsigned byte.
var U8 Field = u8{}

func (u8) Width() int { return 1 }
func (u8) Decode(b []byte) (any, error) {
	if err := checkWidth(b, 1); err != nil {
		return nil, err
	}
	return b[0], nil
}
func (u8) Encode(v any) ([]byte, error) {
	n, err := asUint(v)
	if err != nil {
		return nil, err
	}
	return []byte{byte(n)}, nil
}

type i8 struct{}

// I8 decodes a two's-complement signed byte.
var I8 Field = i8{}

func (i8) Width() int { return 1 }
func (i8) Decode(b []byte) (any, error) {
	if err := checkWidth(b, 1); err != nil {
		return nil, err
	}
	return int8(b[0]), nil
}
func (i8) Encode(v any) ([]byte, error) {
	n, err := asInt(v)
	if err != nil {
		return nil, err
	}
	return []byte{byte(int8(n))}, nil
}

type u16 struct{}

// U16 decodes a little-endian unsigned 16-bit integer.
var U16 Field = u16{}

func (u16) Width() int { return 2 }
func (u16) Decode(b []byte) (any, error) {
	if err := checkWidth(b, 2); err != nil {
		return nil, err
	}
	return binary.LittleEndian.Uint16(b), nil
}
func (u16) Encode(v any) ([]byte, error) {
	n, err := asUint(v)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 2)
	binary.LittleEndian.PutUint16(out, uint16(n))
	return out, nil
}

type i16 struct{}

// I16 decodes a little-endian two's-complement signed 16-bit integer.
var I16 Field = i16{}

func (i16) Width() int { return 2 }
func (i16) Decode(b []byte) (any, error) {
	if err := checkWidth(b, 2); err != nil {
		return nil, err
	}
	return int16(binary.LittleEndian.Uint16(b)), nil
}
func (i16) Encode(v any) ([]byte, error) {
	n, err := asInt(v)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 2)
	binary.LittleEndian.PutUint16(out, uint16(int16(n)))
	return out, nil
}

type f32 struct{}

// F32 decodes an IEEE-754 little-endian 32-bit float.
var F32 Field = f32{}

func (f32) Width() int { return 4 }
func (f32) Decode(b []byte) (any, error) {
	if err := checkWidth(b, 4); err != nil {
		return nil, err
	}
	bits := binary.LittleEndian.Uint32(b)
	return math.Float32frombits(bits), nil
}
func (f32) Encode(v any) ([]byte, error) {
	f, ok := v.(float32)
	if !ok {
		f64, ok2 := v.(float64)
		if !ok2 {
			return nil, fmt.Errorf("codec: F32 encode: %v is not a float", v)
		}
		f = float32(f64)
	}
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, math.Float32bits(f))
	return out, nil
}

// Scaled wraps a base integer Field and multiplies the decoded value by a
// fixed rational factor (§4.2). Width is inherited from the base field.
type scaled struct {
	base  Field
	scale float64
}

// Scaled returns a codec whose decoded value is base.Decode(b) * s.
func Scaled(base Field, s float64) Field {
	return scaled{base: base, scale: s}
}

func (s scaled) Width() int { return s.base.Width() }
func (s scaled) Decode(b []byte) (any, error) {
	raw, err := s.base.Decode(b)
	if err != nil {
		return nil, err
	}
	f, err := asFloat(raw)
	if err != nil {
		return nil, err
	}
	return f * s.scale, nil
}
func (s scaled) Encode(v any) ([]byte, error) {
	f, err := asFloat(v)
	if err != nil {
		return nil, err
	}
	return s.base.Encode(int64(math.Round(f / s.scale)))
}

// Flags is the decoded form of the single-byte status bitfield produced by
// StatusField.
type Flags struct {
	Wind  bool
	Purge bool
	GPS   bool
}

const (
	maskWind  = 1 << 0
	maskPurge = 1 << 1
	maskGPS   = 1 << 2
)

type status struct{}

// StatusField is the bitfield codec used by the met packet's status byte.
var StatusField Field = status{}

func (status) Width() int { return 1 }
func (status) Decode(b []byte) (any, error) {
	if err := checkWidth(b, 1); err != nil {
		return nil, err
	}
	raw := b[0]
	return Flags{
		Wind:  raw&maskWind != 0,
		Purge: raw&maskPurge != 0,
		GPS:   raw&maskGPS != 0,
	}, nil
}
func (status) Encode(v any) ([]byte, error) {
	flags, ok := v.(Flags)
	if !ok {
		return nil, fmt.Errorf("codec: Status encode: %v is not codec.Flags", v)
	}
	var raw byte
	if flags.Wind {
		raw |= maskWind
	}
	if flags.Purge {
		raw |= maskPurge
	}
	if flags.GPS {
		raw |= maskGPS
	}
	return []byte{raw}, nil
}

func checkWidth(b []byte, want int) error {
	if len(b) != want {
		return fmt.Errorf("codec: expected %d bytes, got %d", want, len(b))
	}
	return nil
}

func asUint(v any) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint32:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint8:
		return uint64(n), nil
	case int:
		return uint64(n), nil
	case int64:
		return uint64(n), nil
	default:
		return 0, fmt.Errorf("codec: %v is not an unsigned integer", v)
	}
}

func asInt(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("codec: %v is not a signed integer", v)
	}
}

func asFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("codec: %v is not numeric", v)
	}
}
