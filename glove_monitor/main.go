package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
)

func main() {
	// Command-line flags
	serialPort := flag.String("port", "", "Serial port device (e.g., /dev/ttyUSB0, COM3, or - for stdin). If not specified, the first connectable port is used.")
	baudRate := flag.Int("baud", defaultBaudRate, "Baud rate for serial port")
	tick := flag.Duration("tick", 100*time.Millisecond, "Polling interval of the display loop")
	httpAddr := flag.String("http", "", "Serve a read-only web view on this address (e.g., :8501)")
	logFile := flag.String("log", "glovex-monitor.log", "Log file path")
	debug := flag.Bool("debug", false, "Enable debug logging")
	voice := flag.String("voice", "", "Text-to-speech voice name (default: first installed voice)")
	mute := flag.Bool("mute", false, "Start with speech muted")
	quiet := flag.Bool("quiet", false, "Disable connection beeps")
	exportDir := flag.String("export-dir", ".", "Directory for history exports")
	flag.Parse()

	if *tick <= 0 {
		fmt.Fprintf(os.Stderr, "Error: -tick must be positive\n")
		os.Exit(1)
	}

	rotator := setupLogging(*logFile, *debug)
	defer rotator.Close()

	// Find the glove when no port was given
	port := *serialPort
	if port == "" {
		found, err := discoverPort(listPorts, openSerialPort, *baudRate)
		if err != nil {
			slog.Error("port discovery failed", "err", err)
			if errors.Is(err, ErrPortUnavailable) {
				fmt.Fprintf(os.Stderr, "No ESP32 detected (%v). Plug it in and try again.\n", err)
			} else {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			os.Exit(1)
		}
		port = found
	}

	speaker := chooseSpeaker(*voice)

	var notify connectionNotifier = beepNotifier{}
	if *quiet {
		notify = noopNotifier{}
	}

	connState := &ConnectionState{}
	connState.SetConnected(port, *baudRate)

	// Done channel for graceful shutdown
	done := make(chan struct{})
	queue := make(chan string, queueCapacity)

	go func() {
		if err := readSerial(port, *baudRate, openSerialPort, queue, done, notify); err != nil {
			slog.Warn("serial reader exited", "err", err)
		}
	}()

	// Initialize screen
	s, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := s.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	defer s.Fini()
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))

	renderers := []Renderer{newScreenRenderer(s)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if *httpAddr != "" {
		web := &webRenderer{}
		renderers = append(renderers, web)
		go func() {
			if err := serveWeb(ctx, *httpAddr, web); err != nil {
				slog.Error("web view stopped", "err", err)
			}
		}()
	}

	presenter := NewPresenter(queue, speaker, connState, renderers...)
	if *mute {
		presenter.ToggleMute()
	}
	slog.Info("monitor started", "port", port, "baud", *baudRate)

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(*tick)
	defer ticker.Stop()

	presenter.Redraw()

	// Event loop
	quit := false
	for !quit {
		select {
		case <-ticker.C:
			presenter.Tick()

		case <-sigChan:
			quit = true

		default:
			// Check for key events (non-blocking)
			if s.HasPendingEvent() {
				switch ev := s.PollEvent().(type) {
				case *tcell.EventKey:
					if handleKeyboardEvent(ev, presenter, *exportDir) {
						quit = true
					}
				case *tcell.EventResize:
					handleResizeEvent(s, presenter)
				}
			}
			time.Sleep(10 * time.Millisecond)
		}
	}

	close(done)
	slog.Info("monitor stopped")
}

// chooseSpeaker falls back to silence when the platform has no TTS command
func chooseSpeaker(voice string) Speaker {
	speaker, err := newSpeaker(runtime.GOOS, voice, exec.LookPath)
	if err != nil {
		slog.Warn("speech disabled", "err", err)
		return muteSpeaker{}
	}
	slog.Info("speech enabled", "command", speaker.command)
	return speaker
}
