package main

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordingSpeaker struct {
	spoken []string
	err    error
}

func (s *recordingSpeaker) Speak(text string) error {
	s.spoken = append(s.spoken, text)
	return s.err
}

type recordingRenderer struct {
	views []View
}

func (r *recordingRenderer) Render(v View) {
	r.views = append(r.views, v)
}

func (r *recordingRenderer) last() View {
	return r.views[len(r.views)-1]
}

func newTestPresenter(speaker Speaker) (*Presenter, chan string, *recordingRenderer) {
	queue := make(chan string, queueCapacity)
	conn := &ConnectionState{}
	conn.SetConnected("COM2", defaultBaudRate)
	renderer := &recordingRenderer{}
	p := NewPresenter(queue, speaker, conn, renderer)

	clock := time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local)
	p.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return p, queue, renderer
}

func TestPresenter_GestureScenario(t *testing.T) {
	t.Parallel()

	speaker := &recordingSpeaker{}
	p, queue, renderer := newTestPresenter(speaker)

	for _, line := range []string{"noise", "Gesture: Open Hand", "Gesture: Open Hand", "Gesture: Fist"} {
		queue <- line
	}
	require.True(t, p.Tick())

	require.Equal(t, []string{"Open Hand", "Fist"}, speaker.spoken)

	v := renderer.last()
	require.Equal(t, []string{"Gesture: Fist", "Gesture: Open Hand", "Gesture: Open Hand", "noise"}, v.Lines)
	require.Equal(t, "Fist", v.Gesture)
	require.Len(t, v.History, 2)
	require.Equal(t, "Fist", v.History[0].Gesture)
	require.Equal(t, "Open Hand", v.History[1].Gesture)
	require.True(t, v.History[0].Time.After(v.History[1].Time))
	require.True(t, v.Connected)
	require.Equal(t, "COM2", v.Port)
}

func TestPresenter_EmptyTickIsNoop(t *testing.T) {
	t.Parallel()

	p, _, renderer := newTestPresenter(&recordingSpeaker{})
	require.False(t, p.Tick())
	require.Empty(t, renderer.views)
}

func TestPresenter_WindowAndHistoryCaps(t *testing.T) {
	t.Parallel()

	p, queue, renderer := newTestPresenter(&recordingSpeaker{})
	for i := 0; i < 30; i++ {
		queue <- fmt.Sprintf("Gesture: G%d", i)
	}
	p.Tick()

	v := renderer.last()
	require.Len(t, v.Lines, feedWindowSize)
	require.Equal(t, "Gesture: G29", v.Lines[0])
	require.Len(t, v.History, historyDisplaySize)
	require.Equal(t, "G29", v.History[0].Gesture)
	require.Equal(t, "G20", v.History[historyDisplaySize-1].Gesture)
	require.Equal(t, 30, p.History().Len())
}

func TestPresenter_SpeechFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	speaker := &recordingSpeaker{err: errors.New("audio device busy")}
	p, queue, renderer := newTestPresenter(speaker)

	queue <- "Gesture: Fist"
	queue <- "Gesture: Wave"
	p.Tick()

	require.Equal(t, []string{"Fist", "Wave"}, speaker.spoken)
	v := renderer.last()
	require.Len(t, v.History, 2)
	require.Contains(t, v.Warning, "TTS error")
	require.Contains(t, v.Warning, "audio device busy")
}

func TestPresenter_KeepsPollingAfterReaderFailure(t *testing.T) {
	t.Parallel()

	p, queue, renderer := newTestPresenter(&recordingSpeaker{})
	queue <- serialErrorLine(errors.New("device disconnected"))
	require.True(t, p.Tick())

	for i := 0; i < 5; i++ {
		require.False(t, p.Tick())
	}
	v := renderer.last()
	require.Equal(t, []string{"❌ Serial Error: device disconnected"}, v.Lines)
	require.Empty(t, v.History)
	require.True(t, v.Connected)
}

func TestPresenter_MuteSkipsSpeechButRecords(t *testing.T) {
	t.Parallel()

	speaker := &recordingSpeaker{}
	p, queue, renderer := newTestPresenter(speaker)
	require.True(t, p.ToggleMute())

	queue <- "Gesture: Fist"
	p.Tick()

	require.Empty(t, speaker.spoken)
	require.Len(t, renderer.last().History, 1)
	require.True(t, renderer.last().Muted)
	require.False(t, p.ToggleMute())
}

func TestPresenter_Clear(t *testing.T) {
	t.Parallel()

	speaker := &recordingSpeaker{}
	p, queue, renderer := newTestPresenter(speaker)
	queue <- "Gesture: Fist"
	p.Tick()

	p.Clear()
	v := renderer.last()
	require.Empty(t, v.Lines)
	require.Empty(t, v.History)
	require.Empty(t, v.Gesture)

	queue <- "Gesture: Fist"
	p.Tick()
	require.Equal(t, []string{"Fist", "Fist"}, speaker.spoken)
}

// viewCheckingSpeaker records what the renderer showed while speaking
type viewCheckingSpeaker struct {
	renderer *recordingRenderer
	shown    []View
}

func (s *viewCheckingSpeaker) Speak(string) error {
	s.shown = append(s.shown, s.renderer.last())
	return nil
}

func TestPresenter_ShowsGestureBeforeSpeaking(t *testing.T) {
	t.Parallel()

	speaker := &viewCheckingSpeaker{}
	p, queue, renderer := newTestPresenter(speaker)
	speaker.renderer = renderer

	queue <- "Gesture: Open Hand"
	queue <- "Gesture: Fist"
	p.Tick()

	require.Len(t, speaker.shown, 2)
	require.Equal(t, "Open Hand", speaker.shown[0].Gesture)
	require.Equal(t, "Open Hand", speaker.shown[0].History[0].Gesture)
	require.Equal(t, "Fist", speaker.shown[1].Gesture)
	require.Equal(t, "Fist", renderer.last().Gesture)
}
