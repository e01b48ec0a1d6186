package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestIncFrameDecoded_IncrementsCounterAndLocalMirror(t *testing.T) {
	before := Snap().FramesDecoded
	IncFrameDecoded("met")
	IncFrameDecoded("met")
	IncFrameDecoded("position")

	require.Equal(t, float64(2), testutil.ToFloat64(FramesDecoded.WithLabelValues("met")))
	require.Equal(t, float64(1), testutil.ToFloat64(FramesDecoded.WithLabelValues("position")))
	require.Equal(t, before+3, Snap().FramesDecoded)
}

func TestIncResyncByte_IncrementsCounterAndLocalMirror(t *testing.T) {
	before := Snap().ResyncBytes
	beforeMetric := testutil.ToFloat64(ResyncBytes)
	IncResyncByte()
	require.Equal(t, beforeMetric+1, testutil.ToFloat64(ResyncBytes))
	require.Equal(t, before+1, Snap().ResyncBytes)
}

func TestIncChecksumMismatch_IncrementsCounterAndLocalMirror(t *testing.T) {
	before := Snap().ChecksumMismatches
	beforeMetric := testutil.ToFloat64(ChecksumMismatches)
	IncChecksumMismatch()
	require.Equal(t, beforeMetric+1, testutil.ToFloat64(ChecksumMismatches))
	require.Equal(t, before+1, Snap().ChecksumMismatches)
}

func TestSetBufferDepth_SetsGaugeValue(t *testing.T) {
	SetBufferDepth(742)
	require.Equal(t, float64(742), testutil.ToFloat64(BufferDepth))
	SetBufferDepth(0)
	require.Equal(t, float64(0), testutil.ToFloat64(BufferDepth))
}

func TestInitBuildInfo_SetsLabeledGauge(t *testing.T) {
	InitBuildInfo("v1.2.3", "abcdef", "2026-07-31")
	require.Equal(t, float64(1), testutil.ToFloat64(BuildInfo.WithLabelValues("v1.2.3", "abcdef", "2026-07-31")))
}
