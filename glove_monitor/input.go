package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
)

// handleKeyboardEvent processes keyboard input and reports whether to quit
func handleKeyboardEvent(ev *tcell.EventKey, p *Presenter, exportDir string) bool {
	switch ev.Key() {
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return true
		case 'e', 'E':
			handleExport(p, exportDir, time.Now())
		case 'c', 'C':
			p.Clear()
		case 'm', 'M':
			muted := p.ToggleMute()
			slog.Info("speech mute toggled", "muted", muted)
		}
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return true
	}
	return false
}

// Exports made in the same second get a -1, -2, ... suffix
const maxExportSuffix = 1000

// handleExport writes the gesture history to a timestamped JSON file and
// reports the outcome in the status line
func handleExport(p *Presenter, exportDir string, now time.Time) string {
	prefix := filepath.Join(exportDir, fmt.Sprintf("gestures_%s", now.Format("2006-01-02_15-04-05")))
	filename := prefix + ".json"

	err := p.History().ExportJSON(filename)
	for i := 1; errors.Is(err, fs.ErrExist) && i <= maxExportSuffix; i++ {
		filename = fmt.Sprintf("%s-%d.json", prefix, i)
		err = p.History().ExportJSON(filename)
	}
	if err != nil {
		slog.Error("history export failed", "file", filename, "err", err)
		p.SetWarning(fmt.Sprintf("export failed: %v", err))
		return ""
	}
	slog.Info("history exported", "file", filename, "entries", p.History().Len())
	p.SetWarning("")
	return filename
}

// handleResizeEvent resyncs the screen and redraws
func handleResizeEvent(s tcell.Screen, p *Presenter) {
	s.Sync()
	p.Redraw()
}
