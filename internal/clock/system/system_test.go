package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNowTracksWallClock(t *testing.T) {
	before := time.Now()
	got := New().Now()
	after := time.Now()

	require.False(t, got.Before(before))
	require.False(t, got.After(after))
}
