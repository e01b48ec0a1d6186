// Package telemetry declares the AIMMS-30 packet schemas (§4.3) and the
// typed Record the framer assembles from a validated frame.
package telemetry

import "github.com/kstaniek/go-aimms30-server/internal/codec"

// Type tags the four known packet kinds.
type Type string

const (
	Met      Type = "met"
	Position Type = "position"
	Purge    Type = "purge"
	Temp     Type = "temp"
)

// Header packet ids, fixed by the wire format.
const (
	IDMet      = 0
	IDPosition = 1
	IDPurge    = 4
	IDTemp     = 5
)

// field is one named, positioned entry in a packet schema.
type field struct {
	Name  string
	Start int // inclusive, relative to body start
	End   int // exclusive, relative to body start
	Codec codec.Field
}

// Schema is the ordered field list for one packet id, plus its declared
// body length (used to validate the header's body_length byte).
type Schema struct {
	ID      byte
	Type    Type
	BodyLen int
	Fields  []field
}

func f(name string, start int, c codec.Field) field {
	return field{Name: name, Start: start, End: start + c.Width(), Codec: c}
}

var metSchema = Schema{
	ID:      IDMet,
	Type:    Met,
	BodyLen: 18,
	Fields: []field{
		f("utc_hours", 0, codec.U8),
		f("utc_minutes", 1, codec.U8),
		f("utc_seconds", 2, codec.U8),
		f("temperature", 3, codec.Scaled(codec.I16, 0.01)),
		f("rh", 5, codec.Scaled(codec.U16, 0.001)),
		f("pressure", 7, codec.Scaled(codec.U16, 2.0)),
		f("wind_vector_north", 9, codec.Scaled(codec.I16, 0.01)),
		f("wind_vector_east", 11, codec.Scaled(codec.I16, 0.01)),
		f("wind_speed", 13, codec.Scaled(codec.I16, 0.01)),
		f("wind_direction", 15, codec.Scaled(codec.U16, 0.01)),
		f("status", 17, codec.StatusField),
	},
}

var positionSchema = Schema{
	ID:      IDPosition,
	Type:    Position,
	BodyLen: 35,
	Fields: []field{
		f("utc_hours", 0, codec.U8),
		f("utc_minutes", 1, codec.U8),
		f("utc_seconds", 2, codec.U8),
		f("latitude", 3, codec.F32),
		f("longitude", 7, codec.F32),
		f("altitude", 11, codec.I16),
		f("velocity_north", 13, codec.Scaled(codec.I16, 0.01)),
		f("velocity_east", 15, codec.Scaled(codec.I16, 0.01)),
		f("velocity_down", 17, codec.Scaled(codec.I16, 0.01)),
		f("roll", 19, codec.Scaled(codec.I16, 0.01)),
		f("pitch", 21, codec.Scaled(codec.I16, 0.01)),
		f("yaw", 23, codec.Scaled(codec.I16, 0.02)),
		f("airspeed", 25, codec.Scaled(codec.I16, 0.01)),
		f("wind_vertical", 27, codec.Scaled(codec.I16, 0.01)),
		f("sideslip", 29, codec.Scaled(codec.I16, 0.01)),
		f("aoa_differential", 31, codec.Scaled(codec.I16, 0.0001)),
		f("sideslip_differential", 33, codec.Scaled(codec.I16, 0.0001)),
	},
}

var purgeSchema = Schema{
	ID:      IDPurge,
	Type:    Purge,
	BodyLen: 2,
	Fields: []field{
		f("flow", 0, codec.I16),
	},
}

var tempSchema = Schema{
	ID:      IDTemp,
	Type:    Temp,
	BodyLen: 6,
	Fields: []field{
		f("forward", 0, codec.I16),
		f("aft", 2, codec.I16),
		f("threshold", 4, codec.I16),
	},
}

// schemaByID is the direct indexed lookup table design notes §9 calls for:
// four known ids, no linear scan, no silent fallthrough on an unknown id.
var schemaByID = map[byte]*Schema{
	IDMet:      &metSchema,
	IDPosition: &positionSchema,
	IDPurge:    &purgeSchema,
	IDTemp:     &tempSchema,
}

// SchemaFor returns the schema for a packet id, or (nil, false) if the id is
// unknown.
func SchemaFor(id byte) (*Schema, bool) {
	s, ok := schemaByID[id]
	return s, ok
}

// Record is a decoded, typed telemetry packet. Fields holds named scalar
// values (float64, float32, uint8, int16, or codec.Flags for the met status
// field).
// Records are self-contained; none reference buffer memory.
type Record struct {
	Type         Type
	Fields       map[string]any
	GoodChecksum bool
}

// Get returns a field value and whether it was present.
func (r Record) Get(name string) (any, bool) {
	v, ok := r.Fields[name]
	return v, ok
}
