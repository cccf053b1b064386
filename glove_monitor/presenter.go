package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// View is everything a renderer needs for one frame
type View struct {
	Lines     []string       `json:"lines"`
	Gesture   string         `json:"gesture"`
	History   []HistoryEntry `json:"history"`
	Connected bool           `json:"connected"`
	Port      string         `json:"port"`
	BaudRate  int            `json:"baud_rate"`
	Muted     bool           `json:"muted"`
	Warning   string         `json:"warning,omitempty"`
}

// Renderer draws a View. Render is only called from the presentation loop.
type Renderer interface {
	Render(View)
}

// Presenter is the single owner of UI state. It drains the hand-off queue
// on every tick and never blocks on it.
type Presenter struct {
	queue     <-chan string
	window    *RingBuffer[string]
	history   *History
	tracker   *Tracker
	speaker   Speaker
	connState *ConnectionState
	renderers []Renderer
	now       func() time.Time

	muted   bool
	warning string
}

func NewPresenter(queue <-chan string, speaker Speaker, connState *ConnectionState, renderers ...Renderer) *Presenter {
	history := NewHistory()
	return &Presenter{
		queue:     queue,
		window:    NewRingBuffer[string](feedWindowSize),
		history:   history,
		tracker:   NewTracker(history),
		speaker:   speaker,
		connState: connState,
		renderers: renderers,
		now:       time.Now,
	}
}

// Tick drains every queued line and reports whether any arrived
func (p *Presenter) Tick() bool {
	changed := false
	for {
		select {
		case line := <-p.queue:
			p.process(line)
			changed = true
		default:
			return changed
		}
	}
}

// process handles one line: feed update, detection, announcement
func (p *Presenter) process(line string) {
	p.window.Push(line)
	p.render()

	gesture, ok := p.tracker.Observe(line, p.now())
	if !ok {
		return
	}
	slog.Info("gesture detected", "gesture", gesture)
	// Show the gesture before speaking; speech blocks the loop
	p.render()
	p.announce(gesture)
	p.render()
}

// announce speaks synchronously; the loop stalls for the utterance
func (p *Presenter) announce(gesture string) {
	if p.muted {
		return
	}
	if err := p.speaker.Speak(gesture); err != nil {
		if !errors.Is(err, ErrSpeech) {
			err = fmt.Errorf("%w: %v", ErrSpeech, err)
		}
		slog.Warn("speech failed", "gesture", gesture, "err", err)
		p.warning = fmt.Sprintf("TTS error: %v", err)
	}
}

// View builds the current frame
func (p *Presenter) View() View {
	connected, port, baud := p.connState.GetStatus()
	return View{
		Lines:     p.window.Newest(),
		Gesture:   p.tracker.Last(),
		History:   p.history.Recent(historyDisplaySize),
		Connected: connected,
		Port:      port,
		BaudRate:  baud,
		Muted:     p.muted,
		Warning:   p.warning,
	}
}

func (p *Presenter) render() {
	view := p.View()
	for _, r := range p.renderers {
		r.Render(view)
	}
}

// Redraw renders the current frame without consuming input
func (p *Presenter) Redraw() {
	p.render()
}

// Clear empties the feed and history
func (p *Presenter) Clear() {
	p.window.Reset()
	p.history.Clear()
	p.tracker.Reset()
	p.warning = ""
	p.render()
}

// ToggleMute flips speech on or off and returns the new muted state
func (p *Presenter) ToggleMute() bool {
	p.muted = !p.muted
	p.render()
	return p.muted
}

// SetWarning shows msg in the status line until replaced
func (p *Presenter) SetWarning(msg string) {
	p.warning = msg
	p.render()
}

func (p *Presenter) History() *History {
	return p.history
}
