package telemetry

import (
	"testing"

	"github.com/kstaniek/go-aimms30-server/internal/codec"
	"github.com/stretchr/testify/require"
)

func TestSchemaFor_KnownIDs(t *testing.T) {
	for _, id := range []byte{IDMet, IDPosition, IDPurge, IDTemp} {
		s, ok := SchemaFor(id)
		require.True(t, ok)
		require.NotNil(t, s)
	}
}

func TestSchemaFor_UnknownID(t *testing.T) {
	_, ok := SchemaFor(2)
	require.False(t, ok)
}

func TestMetSchema_RoundTrip(t *testing.T) {
	s, _ := SchemaFor(IDMet)
	want := map[string]any{
		"utc_hours":         byte(12),
		"utc_minutes":       byte(34),
		"utc_seconds":       byte(56),
		"temperature":       25.0,
		"rh":                0.5,
		"pressure":          2000.0,
		"wind_vector_north": 0.0,
		"wind_vector_east":  0.0,
		"wind_speed":        0.0,
		"wind_direction":    0.0,
		"status":            codec.Flags{Wind: true, Purge: false, GPS: true},
	}
	body, err := s.EncodeBody(want)
	require.NoError(t, err)
	require.Len(t, body, 18)

	rec, err := s.DecodeBody(body)
	require.NoError(t, err)
	require.Equal(t, Met, rec.Type)
	require.True(t, rec.GoodChecksum)
	require.InDelta(t, 25.0, rec.Fields["temperature"], 1e-9)
	require.InDelta(t, 0.5, rec.Fields["rh"], 1e-9)
	require.InDelta(t, 2000.0, rec.Fields["pressure"], 1e-9)
	require.Equal(t, codec.Flags{Wind: true, Purge: false, GPS: true}, rec.Fields["status"])
}

func TestPositionSchema_LatLonRoundTrip(t *testing.T) {
	s, _ := SchemaFor(IDPosition)
	want := map[string]any{
		"utc_hours": byte(1), "utc_minutes": byte(2), "utc_seconds": byte(3),
		"latitude": float32(47.3769), "longitude": float32(8.5417),
		"altitude": int16(1200),
		"velocity_north": 0.0, "velocity_east": 0.0, "velocity_down": 0.0,
		"roll": 0.0, "pitch": 0.0, "yaw": 0.0, "airspeed": 0.0,
		"wind_vertical": 0.0, "sideslip": 0.0,
		"aoa_differential": 0.0, "sideslip_differential": 0.0,
	}
	body, err := s.EncodeBody(want)
	require.NoError(t, err)
	require.Len(t, body, 35)

	rec, err := s.DecodeBody(body)
	require.NoError(t, err)
	require.InDelta(t, 47.3769, float64(rec.Fields["latitude"].(float32)), 1e-3)
	require.Equal(t, int16(1200), rec.Fields["altitude"])
}

func TestPurgeAndTempSchemas_BodyLen(t *testing.T) {
	purge, _ := SchemaFor(IDPurge)
	require.Equal(t, 2, purge.BodyLen)
	temp, _ := SchemaFor(IDTemp)
	require.Equal(t, 6, temp.BodyLen)
}

func TestDecodeBody_WrongLength(t *testing.T) {
	s, _ := SchemaFor(IDMet)
	_, err := s.DecodeBody(make([]byte, 10))
	require.Error(t, err)
}
