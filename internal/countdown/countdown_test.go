// ABOUTME: Tests for the remaining-time projection and its display format

package countdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestTimer_ProjectsBetweenFetches(t *testing.T) {
	var timer Timer
	timer.Observe(7, intPtr(125), true)
	assert.Equal(t, "2h 5m", timer.Format())

	for i := 0; i < 5; i++ {
		timer.Tick()
	}
	assert.Equal(t, "2h 0m", timer.Format())
	assert.True(t, timer.Ongoing())

	minutes, known := timer.Remaining()
	assert.True(t, known)
	assert.Equal(t, 120, minutes)
}

func TestTimer_ReachingZeroEndsOngoing(t *testing.T) {
	var timer Timer
	timer.Observe(7, intPtr(2), true)

	timer.Tick()
	assert.True(t, timer.Ongoing())
	timer.Tick()
	assert.False(t, timer.Ongoing(), "a timer at zero is no longer ongoing")
	assert.Equal(t, "0h 0m", timer.Format(), "a landed flight keeps its zero until the next fetch")

	// Further ticks are inert.
	timer.Tick()
	minutes, _ := timer.Remaining()
	assert.Equal(t, 0, minutes)
}

func TestTimer_RunsDownToZero(t *testing.T) {
	var timer Timer
	timer.Observe(3, intPtr(5), true)

	for i := 0; i < 5; i++ {
		timer.Tick()
	}

	minutes, known := timer.Remaining()
	assert.True(t, known)
	assert.Equal(t, 0, minutes)
	assert.False(t, timer.Ongoing())
	assert.Equal(t, "0h 0m", timer.Format())
}

func TestTimer_ServerObservationWins(t *testing.T) {
	var timer Timer
	timer.Observe(7, intPtr(10), true)
	timer.Tick()
	timer.Tick()

	// A fetch lands with the authoritative figure.
	timer.Observe(7, intPtr(45), true)
	assert.Equal(t, "0h 45m", timer.Format())
}

func TestTimer_FlightIdentityChangeResets(t *testing.T) {
	var timer Timer
	timer.Observe(7, intPtr(30), true)
	timer.Observe(8, nil, true)

	assert.Equal(t, "--", timer.Format(), "new flight with no remaining time starts unknown")
	timer.Tick()
	assert.True(t, timer.Ongoing(), "tick without a known figure must not end the flight")
}

func TestTimer_UnknownShowsPlaceholder(t *testing.T) {
	var timer Timer
	assert.Equal(t, "--", timer.Format())

	timer.Observe(7, intPtr(90), false)
	assert.Equal(t, "1h 30m", timer.Format(), "a known figure renders even when the flight is not ongoing")

	timer.Observe(7, nil, false)
	assert.Equal(t, "--", timer.Format())
}

func TestTimer_NegativeObservationClampsToZero(t *testing.T) {
	var timer Timer
	timer.Observe(7, intPtr(-3), true)
	minutes, known := timer.Remaining()
	assert.True(t, known)
	assert.Equal(t, 0, minutes)
}

func TestFormatMinutes(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{0, "0h 0m"},
		{59, "0h 59m"},
		{60, "1h 0m"},
		{125, "2h 5m"},
		{1441, "24h 1m"},
		{-1, "--"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatMinutes(tc.minutes), "minutes=%d", tc.minutes)
	}
}
