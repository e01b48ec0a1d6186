package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kstaniek/go-aimms30-server/internal/httpapi"
	"github.com/kstaniek/go-aimms30-server/internal/queue"
	"github.com/kstaniek/go-aimms30-server/internal/recorder"
	"github.com/kstaniek/go-aimms30-server/internal/telemetry"
	"github.com/stretchr/testify/require"
)

// TestRunDispatcher_FansOutToBothSinks guards against the regression where
// the HTTP status state and the recorder independently raced TryPop on the
// same queue: every record must reach both sinks, not just whichever
// consumer happened to pop it first.
func TestRunDispatcher_FansOutToBothSinks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "packets.ndjson")

	rec, err := recorder.New(path)
	require.NoError(t, err)
	defer rec.Close()

	out := queue.New()
	state := httpapi.NewState()

	out.Push(telemetry.Record{Type: telemetry.Met, Fields: map[string]any{"temperature": 25.0}})
	out.Push(telemetry.Record{Type: telemetry.Purge, Fields: map[string]any{"flow": int16(3)}})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	go runDispatcher(ctx, out, state, rec, time.Millisecond, testLogger())

	require.Eventually(t, func() bool {
		_, metOK := state.Get(telemetry.Met)
		_, purgeOK := state.Get(telemetry.Purge)
		return metOK && purgeOK
	}, 80*time.Millisecond, time.Millisecond)

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		lines := 0
		for _, b := range data {
			if b == '\n' {
				lines++
			}
		}
		return lines == 2
	}, 80*time.Millisecond, time.Millisecond)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var first map[string]any
	lines := splitLines(data)
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.Equal(t, "met", first["type"])
}

func splitLines(data []byte) []string {
	var out []string
	start := 0
	for i, b := range data {
		if b == '\n' {
			out = append(out, string(data[start:i]))
			start = i + 1
		}
	}
	return out
}

func TestRunDispatcher_NilRecorderOnlyUpdatesState(t *testing.T) {
	out := queue.New()
	state := httpapi.NewState()
	out.Push(telemetry.Record{Type: telemetry.Temp, Fields: map[string]any{"forward": int16(1)}})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	go runDispatcher(ctx, out, state, nil, time.Millisecond, testLogger())

	require.Eventually(t, func() bool {
		_, ok := state.Get(telemetry.Temp)
		return ok
	}, 40*time.Millisecond, time.Millisecond)
}
