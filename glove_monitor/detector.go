package main

import (
	"strings"
	"time"
)

// Substrings that identify a gesture line from the glove firmware
var gestureMarkers = []string{"Gesture", "🖐"}

// extractGesture returns the gesture carried by line, if it carries one.
// The value is everything after the first colon, so a gesture containing
// a colon is cut at that colon. A marked line without a colon yields the
// whole trimmed line.
func extractGesture(line string) (string, bool) {
	if !hasGestureMarker(line) {
		return "", false
	}
	value := line
	if _, after, found := strings.Cut(line, ":"); found {
		value = after
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func hasGestureMarker(line string) bool {
	for _, marker := range gestureMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

// Tracker turns a stream of lines into distinct gesture detections
type Tracker struct {
	last    string
	history *History
}

func NewTracker(history *History) *Tracker {
	return &Tracker{history: history}
}

// Observe inspects one line. It records and returns the gesture only when
// it differs from the previously recorded one.
func (t *Tracker) Observe(line string, now time.Time) (string, bool) {
	gesture, ok := extractGesture(line)
	if !ok || gesture == t.last {
		return "", false
	}
	t.last = gesture
	t.history.Add(HistoryEntry{Time: now, Gesture: gesture})
	return gesture, true
}

// Last returns the most recently recorded gesture
func (t *Tracker) Last() string {
	return t.last
}

// Reset forgets the last gesture so the next one is announced again
func (t *Tracker) Reset() {
	t.last = ""
}
