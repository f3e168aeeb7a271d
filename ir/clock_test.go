package ir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tracekit/ctf/ir"
)

func TestClockSnapshotNanosecondsFromOrigin(t *testing.T) {
	cc, err := ir.NewClockClass("clk", "", 1_000_000_000, 0, 0)
	require.NoError(t, err)

	cs := ir.NewClockSnapshot(cc, 5_000_000_000)
	ns, err := cs.NanosecondsFromOrigin()
	require.NoError(t, err)
	require.Equal(t, int64(5_000_000_000), ns)
}

func TestClockSnapshotNonIntegerFrequency(t *testing.T) {
	cc, err := ir.NewClockClass("clk", "", 3, 0, 0)
	require.NoError(t, err)

	cs := ir.NewClockSnapshot(cc, 7)
	ns, err := cs.NanosecondsFromOrigin()
	require.NoError(t, err)
	// floor(7/3)*1e9 + (7 mod 3)*1e9/3 = 2e9 + floor(1e9/3) = 2_333_333_333
	require.Equal(t, int64(2_333_333_333), ns)
}

func TestClockSnapshotOffsetAccumulates(t *testing.T) {
	cc, err := ir.NewClockClass("clk", "", 1_000_000_000, 10, 500_000_000)
	require.NoError(t, err)

	cs := ir.NewClockSnapshot(cc, 0)
	ns, err := cs.NanosecondsFromOrigin()
	require.NoError(t, err)
	require.Equal(t, int64(10_500_000_000), ns)
}

func TestClockSnapshotOverflow(t *testing.T) {
	cc, err := ir.NewClockClass("clk", "", 1, 0, 0)
	require.NoError(t, err)

	cs := ir.NewClockSnapshot(cc, 1<<63)
	_, err = cs.NanosecondsFromOrigin()
	require.ErrorIs(t, err, ir.ErrOverflow)
}

func TestClockClassInvalidFrequency(t *testing.T) {
	_, err := ir.NewClockClass("clk", "", 0, 0, 0)
	require.Error(t, err)
}

func TestClockClassInvalidOffsetCycles(t *testing.T) {
	_, err := ir.NewClockClass("clk", "", 100, 0, 100)
	require.Error(t, err)
}

func TestClockClassFreezeIsIdempotent(t *testing.T) {
	cc, err := ir.NewClockClass("clk", "", 1000, 0, 0)
	require.NoError(t, err)

	require.False(t, cc.Frozen())
	cc.Freeze()
	require.True(t, cc.Frozen())
	cc.Freeze()
	require.True(t, cc.Frozen())

	require.Error(t, cc.SetPrecision(1))
}
