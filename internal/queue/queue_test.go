package queue

import (
	"testing"

	"github.com/kstaniek/go-aimms30-server/internal/telemetry"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFOOrder(t *testing.T) {
	q := New()
	_, ok := q.TryPop()
	require.False(t, ok)

	q.Push(telemetry.Record{Type: telemetry.Met})
	q.Push(telemetry.Record{Type: telemetry.Position})
	require.Equal(t, 2, q.Len())

	r1, ok := q.TryPop()
	require.True(t, ok)
	require.Equal(t, telemetry.Met, r1.Type)

	r2, ok := q.TryPop()
	require.True(t, ok)
	require.Equal(t, telemetry.Position, r2.Type)

	_, ok = q.TryPop()
	require.False(t, ok)
}
