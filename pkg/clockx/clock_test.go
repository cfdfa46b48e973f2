package clockx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSystem_TracksWallClock(t *testing.T) {
	before := time.Now()
	now := System{}.Now()
	after := time.Now()

	require.False(t, now.Before(before))
	require.False(t, now.After(after))
}

func TestFake_PinnedAndAdvanced(t *testing.T) {
	start := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	f := &Fake{T: start}

	require.Equal(t, start, f.Now())
	require.Equal(t, start, f.Now())

	f.Advance(90 * time.Second)
	require.Equal(t, start.Add(90*time.Second), f.Now())
}
