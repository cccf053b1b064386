package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

const (
	gesturePanelHeight = 5
	statusHelp         = "q: Quit | e: Export | c: Clear | m: Mute"
)

// screenRenderer draws the feed, gesture and history panels with tcell
type screenRenderer struct {
	s tcell.Screen
}

func newScreenRenderer(s tcell.Screen) *screenRenderer {
	return &screenRenderer{s: s}
}

// Render lays out a left feed column and a right gesture/history column,
// with a status line on the bottom row
func (r *screenRenderer) Render(v View) {
	s := r.s
	s.Clear()
	width, height := s.Size()
	if width <= 0 || height <= 1 {
		s.Show()
		return
	}

	leftWidth := width / 2
	rightX := leftWidth
	rightWidth := width - leftWidth
	availableHeight := height - 1

	titleStyle := tcell.StyleDefault.Bold(true).Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	normalStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)

	// Live feed
	drawText(s, 0, 0, leftWidth, titleStyle, " LIVE SERIAL MONITOR ")
	for i, line := range v.Lines {
		row := 1 + i
		if row >= availableHeight {
			break
		}
		drawText(s, 0, row, leftWidth, normalStyle, line)
	}

	// Current gesture
	drawText(s, rightX, 0, rightWidth, titleStyle, " DETECTED GESTURE ")
	gestureStyle := tcell.StyleDefault.Bold(true).Foreground(tcell.ColorGold).Background(tcell.ColorBlack)
	gesture := v.Gesture
	if gesture == "" {
		gesture = "waiting..."
		gestureStyle = tcell.StyleDefault.Foreground(tcell.ColorGray).Background(tcell.ColorBlack)
	}
	if gesturePanelHeight/2 < availableHeight {
		drawCenteredText(s, rightX, gesturePanelHeight/2, rightWidth, gestureStyle, gesture)
	}

	// History
	historyRow := gesturePanelHeight
	if historyRow < availableHeight {
		drawText(s, rightX, historyRow, rightWidth, titleStyle, " GESTURE HISTORY ")
	}
	for i, entry := range v.History {
		row := historyRow + 1 + i
		if row >= availableHeight {
			break
		}
		drawText(s, rightX, row, rightWidth, normalStyle, entry.String())
	}

	drawText(s, 0, height-1, width, statusStyle(v), statusText(v))
	s.Show()
}

func statusStyle(v View) tcell.Style {
	if v.Warning != "" {
		return tcell.StyleDefault.Background(tcell.ColorDarkRed).Foreground(tcell.ColorWhite)
	}
	return tcell.StyleDefault.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite)
}

func statusText(v View) string {
	text := statusHelp
	if v.Connected {
		text += fmt.Sprintf(" | ✓ %s @ %d", v.Port, v.BaudRate)
	} else {
		text += " | ○ NOT CONNECTED"
	}
	if v.Muted {
		text += " | [MUTED]"
	}
	if v.Warning != "" {
		text += " | " + v.Warning
	}
	return text
}

// drawText draws text at a specific position, padding to width
func drawText(s tcell.Screen, x, y, width int, style tcell.Style, text string) {
	// Convert string to runes to properly handle UTF-8 multi-byte characters
	runes := []rune(text)
	col := 0

	for i := 0; i < len(runes) && col < width; i++ {
		s.SetContent(x+col, y, runes[i], nil, style)
		col++
	}

	for col < width {
		s.SetContent(x+col, y, ' ', nil, style)
		col++
	}
}

// drawCenteredText draws text centered within a given width
func drawCenteredText(s tcell.Screen, x, y, width int, style tcell.Style, text string) {
	runes := []rune(text)
	textX := x + (width-len(runes))/2
	for i, ch := range runes {
		if textX+i >= x && textX+i < x+width {
			s.SetContent(textX+i, y, ch, nil, style)
		}
	}
}
