package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// Number of history entries shown by renderers
const historyDisplaySize = 10

// HistoryEntry is one detected gesture stamped with local time
type HistoryEntry struct {
	Time    time.Time `json:"time"`
	Gesture string    `json:"gesture"`
}

// String formats the entry the way the history panel shows it
func (e HistoryEntry) String() string {
	return fmt.Sprintf("%s - %s", e.Time.Format("15:04:05"), e.Gesture)
}

// History stores gesture detections in detection order
type History struct {
	mu      sync.RWMutex
	entries []HistoryEntry // oldest first; read newest first
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Add(entry HistoryEntry) {
	h.mu.Lock()
	h.entries = append(h.entries, entry)
	h.mu.Unlock()
}

// Recent returns up to n entries, newest first. n <= 0 returns all.
func (h *History) Recent(n int) []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n <= 0 || n > len(h.entries) {
		n = len(h.entries)
	}
	result := make([]HistoryEntry, 0, n)
	for i := len(h.entries) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, h.entries[i])
	}
	return result
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// ExportJSON writes every entry, newest first, to a new file. It fails
// with an error matching fs.ErrExist rather than overwrite filename.
func (h *History) ExportJSON(filename string) error {
	entries := h.Recent(0)

	file, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(entries); err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	return file.Close()
}

func (h *History) Clear() {
	h.mu.Lock()
	h.entries = nil
	h.mu.Unlock()
}
