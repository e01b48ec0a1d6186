package recorder

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/kstaniek/go-aimms30-server/internal/telemetry"
	"github.com/stretchr/testify/require"
)

func TestRecorder_AppendsOneJSONObjectPerLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "packets.ndjson")

	r, err := New(path)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.Append(telemetry.Record{Type: telemetry.Met, Fields: map[string]any{"temperature": 25.0}}))
	require.NoError(t, r.Append(telemetry.Record{Type: telemetry.Purge, Fields: map[string]any{"flow": int16(12)}}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.Equal(t, "met", first["type"])
}

func TestRecorder_AppendModePreservesExistingContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "packets.ndjson")
	require.NoError(t, os.WriteFile(path, []byte("{\"preexisting\":true}\n"), 0644))

	r, err := New(path)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.Append(telemetry.Record{Type: telemetry.Temp, Fields: map[string]any{"forward": int16(1)}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "preexisting")
	require.Contains(t, string(data), "temp")
}
