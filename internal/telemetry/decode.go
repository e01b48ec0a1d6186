package telemetry

import "fmt"

// DecodeBody assembles a Record from a packet's body bytes using the
// schema's ordered field list. body must be exactly s.BodyLen
// bytes; the framer guarantees this before calling in.
func (s *Schema) DecodeBody(body []byte) (Record, error) {
	if len(body) != s.BodyLen {
		return Record{}, fmt.Errorf("telemetry: %s body is %d bytes, want %d", s.Type, len(body), s.BodyLen)
	}
	fields := make(map[string]any, len(s.Fields))
	for _, fd := range s.Fields {
		v, err := fd.Codec.Decode(body[fd.Start:fd.End])
		if err != nil {
			return Record{}, fmt.Errorf("telemetry: decode %s.%s: %w", s.Type, fd.Name, err)
		}
		fields[fd.Name] = v
	}
	return Record{Type: s.Type, Fields: fields, GoodChecksum: true}, nil
}

// EncodeBody is the schema's inverse of DecodeBody; not required by the
// core spec but useful for round-trip tests and for any future encoder.
func (s *Schema) EncodeBody(fields map[string]any) ([]byte, error) {
	body := make([]byte, s.BodyLen)
	for _, fd := range s.Fields {
		v, ok := fields[fd.Name]
		if !ok {
			return nil, fmt.Errorf("telemetry: encode %s: missing field %q", s.Type, fd.Name)
		}
		b, err := fd.Codec.Encode(v)
		if err != nil {
			return nil, fmt.Errorf("telemetry: encode %s.%s: %w", s.Type, fd.Name, err)
		}
		copy(body[fd.Start:fd.End], b)
	}
	return body, nil
}
