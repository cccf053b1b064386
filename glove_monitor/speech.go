package main

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const (
	speechRateWPM = 170
	// espeak amplitude runs 0-200; 200 is full volume
	espeakAmplitude = 200
)

// ErrSpeech wraps every text-to-speech failure
var ErrSpeech = errors.New("speech failed")

// ErrNoSpeechEngine is returned when no TTS command exists on this system
var ErrNoSpeechEngine = errors.New("no text-to-speech engine found")

// Speaker announces text. Speak blocks until the utterance is done.
type Speaker interface {
	Speak(text string) error
}

// muteSpeaker discards everything
type muteSpeaker struct{}

func (muteSpeaker) Speak(string) error { return nil }

// runFunc executes a command and returns its combined output
type runFunc func(name string, args ...string) ([]byte, error)

func runCommand(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// commandSpeaker drives a platform TTS command
type commandSpeaker struct {
	command string
	args    func(text string) []string
	run     runFunc
}

func (s *commandSpeaker) Speak(text string) error {
	out, err := s.run(s.command, s.args(text)...)
	if err != nil {
		detail := strings.TrimSpace(string(bytes.ToValidUTF8(out, nil)))
		if detail != "" {
			return fmt.Errorf("%w: %s: %v: %s", ErrSpeech, s.command, err, detail)
		}
		return fmt.Errorf("%w: %s: %v", ErrSpeech, s.command, err)
	}
	return nil
}

// newSpeaker picks the TTS command for goos. An empty voice selects the
// engine's first voice.
func newSpeaker(goos, voice string, lookPath func(string) (string, error)) (*commandSpeaker, error) {
	switch goos {
	case "darwin":
		path, err := lookPath("say")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoSpeechEngine, err)
		}
		return &commandSpeaker{command: path, args: sayArgs(voice), run: runCommand}, nil

	case "windows":
		path, err := lookPath("powershell")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoSpeechEngine, err)
		}
		return &commandSpeaker{command: path, args: powershellArgs(voice), run: runCommand}, nil

	default:
		for _, name := range []string{"espeak-ng", "espeak"} {
			if path, err := lookPath(name); err == nil {
				return &commandSpeaker{command: path, args: espeakArgs(voice), run: runCommand}, nil
			}
		}
		return nil, ErrNoSpeechEngine
	}
}

func espeakArgs(voice string) func(string) []string {
	return func(text string) []string {
		args := []string{"-s", fmt.Sprint(speechRateWPM), "-a", fmt.Sprint(espeakAmplitude)}
		if voice != "" {
			args = append(args, "-v", voice)
		}
		// "--" keeps gestures starting with "-" from being read as flags
		return append(args, "--", text)
	}
}

func sayArgs(voice string) func(string) []string {
	return func(text string) []string {
		args := []string{"-r", fmt.Sprint(speechRateWPM)}
		if voice != "" {
			args = append(args, "-v", voice)
		}
		return append(args, "--", text)
	}
}

// powershellArgs builds a System.Speech script. SAPI rate 1 is close to
// 170 words per minute.
func powershellArgs(voice string) func(string) []string {
	return func(text string) []string {
		selectVoice := "$s.SelectVoice($s.GetInstalledVoices()[0].VoiceInfo.Name);"
		if voice != "" {
			selectVoice = fmt.Sprintf("$s.SelectVoice(%s);", psQuote(voice))
		}
		script := "Add-Type -AssemblyName System.Speech;" +
			"$s = New-Object System.Speech.Synthesis.SpeechSynthesizer;" +
			"$s.Rate = 1; $s.Volume = 100;" +
			selectVoice +
			fmt.Sprintf("$s.Speak(%s);", psQuote(text))
		return []string{"-NoProfile", "-NonInteractive", "-Command", script}
	}
}

// psQuote returns a single-quoted PowerShell literal
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
