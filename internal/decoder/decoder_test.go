package decoder

import (
	"context"
	"encoding/binary"
	"testing"
	"time"

	"github.com/kstaniek/go-aimms30-server/internal/queue"
	"github.com/kstaniek/go-aimms30-server/internal/streambuf"
	"github.com/kstaniek/go-aimms30-server/internal/telemetry"
	"github.com/stretchr/testify/require"
)

func buildMetFrame(t *testing.T) []byte {
	t.Helper()
	header := []byte{0x01, 0x00, 0xFF, 0x12}
	body := make([]byte, 18)
	body[0], body[1], body[2] = 1, 2, 3
	sum := uint32(0)
	for _, b := range header {
		sum += uint32(b)
	}
	for _, b := range body {
		sum += uint32(b)
	}
	footer := make([]byte, 2)
	binary.LittleEndian.PutUint16(footer, uint16(sum&0xFFFF))
	return append(append(append([]byte{}, header...), body...), footer...)
}

func TestStreamDecoder_EmitsFrameOncePastWatermark(t *testing.T) {
	buf := streambuf.New()
	out := queue.New()
	d := New(buf, out, WithWatermark(1), WithLoopPeriod(time.Millisecond))

	buf.AppendSlice(buildMetFrame(t))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	go d.Loop(ctx)

	require.Eventually(t, func() bool {
		return out.Len() == 1
	}, 150*time.Millisecond, time.Millisecond)

	rec, ok := out.TryPop()
	require.True(t, ok)
	require.Equal(t, telemetry.Met, rec.Type)
}

func TestStreamDecoder_ResyncsThroughGarbage(t *testing.T) {
	buf := streambuf.New()
	out := queue.New()
	d := New(buf, out, WithWatermark(1), WithLoopPeriod(time.Millisecond))

	buf.AppendSlice([]byte{0x00, 0x00, 0x00})
	buf.AppendSlice(buildMetFrame(t))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	go d.Loop(ctx)

	require.Eventually(t, func() bool {
		return out.Len() == 1
	}, 150*time.Millisecond, time.Millisecond)
}

func TestStreamDecoder_StopsAtContextCancel(t *testing.T) {
	buf := streambuf.New()
	out := queue.New()
	d := New(buf, out, WithLoopPeriod(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Loop(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("decoder loop did not exit after cancellation")
	}
}
