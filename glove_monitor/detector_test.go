package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExtractGesture(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		line    string
		want    string
		wantHit bool
	}{
		{"plain", "Gesture: Open Hand", "Open Hand", true},
		{"extra spaces", "Gesture:    Fist   ", "Fist", true},
		{"emoji marker", "🖐 Detected: Peace", "Peace", true},
		{"first colon wins", "Gesture: Time: 12:00", "Time: 12:00", true},
		{"no colon takes whole line", "Gesture Wave", "Gesture Wave", true},
		{"empty value", "Gesture:   ", "", false},
		{"no marker", "noise", "", false},
		{"colon without marker", "Accel: 1.0", "", false},
		{"marker is case sensitive", "gesture: fist", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := extractGesture(tt.line)
			require.Equal(t, tt.wantHit, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTracker_DeduplicatesConsecutive(t *testing.T) {
	t.Parallel()

	history := NewHistory()
	tracker := NewTracker(history)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)

	var fired []string
	for i, line := range []string{"noise", "Gesture: Open Hand", "Gesture: Open Hand", "Gesture: Fist"} {
		if g, ok := tracker.Observe(line, now.Add(time.Duration(i)*time.Second)); ok {
			fired = append(fired, g)
		}
	}

	require.Equal(t, []string{"Open Hand", "Fist"}, fired)
	entries := history.Recent(0)
	require.Len(t, entries, 2)
	require.Equal(t, "Fist", entries[0].Gesture)
	require.Equal(t, "Open Hand", entries[1].Gesture)
	require.Equal(t, "Fist", tracker.Last())
}

func TestTracker_RepeatAfterDifferentGesture(t *testing.T) {
	t.Parallel()

	tracker := NewTracker(NewHistory())
	now := time.Now()

	_, ok := tracker.Observe("Gesture: A", now)
	require.True(t, ok)
	_, ok = tracker.Observe("Gesture: B", now)
	require.True(t, ok)
	_, ok = tracker.Observe("Gesture: A", now)
	require.True(t, ok, "A is new again after B")
}

func TestTracker_NoiseDoesNotResetDedup(t *testing.T) {
	t.Parallel()

	history := NewHistory()
	tracker := NewTracker(history)
	now := time.Now()

	tracker.Observe("Gesture: Fist", now)
	tracker.Observe("temperature 21.5", now)
	_, ok := tracker.Observe("Gesture: Fist", now)
	require.False(t, ok)
	require.Equal(t, 1, history.Len())
}

func TestTracker_Reset(t *testing.T) {
	t.Parallel()

	tracker := NewTracker(NewHistory())
	tracker.Observe("Gesture: Fist", time.Now())
	tracker.Reset()
	require.Empty(t, tracker.Last())

	_, ok := tracker.Observe("Gesture: Fist", time.Now())
	require.True(t, ok)
}
