package useradmin_test

import (
	"testing"
	"time"

	useradmin "github.com/goliatone/go-useradmin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWithinThresholdPeriod(t *testing.T) {
	recent := time.Now().Add(-time.Hour)
	stale := time.Now().Add(-48 * time.Hour)

	within, err := useradmin.IsWithinThresholdPeriod(recent, "24h")
	require.NoError(t, err)
	assert.True(t, within)

	within, err = useradmin.IsWithinThresholdPeriod(stale, "24h")
	require.NoError(t, err)
	assert.False(t, within)
}

func TestIsOutsideThresholdPeriod(t *testing.T) {
	stale := time.Now().Add(-48 * time.Hour)

	outside, err := useradmin.IsOutsideThresholdPeriod(stale, "24h")
	require.NoError(t, err)
	assert.True(t, outside)
}

func TestThresholdPeriodBadPattern(t *testing.T) {
	_, err := useradmin.IsWithinThresholdPeriod(time.Now(), "one day")
	assert.Error(t, err)
}
