package main

import (
	"time"

	"github.com/gen2brain/beeep"
)

// beepNotifier plays connection sounds. Each sound runs in its own
// goroutine so the reader never waits on audio.
type beepNotifier struct{}

func (beepNotifier) Connected() {
	go func() {
		// Ascending two-tone success melody
		beeep.Beep(600, 150)
		time.Sleep(50 * time.Millisecond)
		beeep.Beep(800, 150)
	}()
}

func (beepNotifier) Failed() {
	go func() {
		// Low frequency, longer duration
		beeep.Beep(400, 300)
	}()
}
