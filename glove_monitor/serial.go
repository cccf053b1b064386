package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.bug.st/serial"
	"golang.org/x/text/transform"
)

const (
	defaultBaudRate   = 115200
	serialReadTimeout = 1 * time.Second
	queueCapacity     = 256
	maxLineLength     = 64 * 1024
	stdinPortName     = "-"
)

// ConnectionState records which port the monitor attached to.
// It is set once at startup.
type ConnectionState struct {
	mu        sync.RWMutex
	connected bool
	port      string
	baudRate  int
}

func (cs *ConnectionState) SetConnected(port string, baudRate int) {
	cs.mu.Lock()
	cs.connected = true
	cs.port = port
	cs.baudRate = baudRate
	cs.mu.Unlock()
}

func (cs *ConnectionState) GetStatus() (connected bool, port string, baudRate int) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.connected, cs.port, cs.baudRate
}

// openFunc opens a line source; tests substitute fakes
type openFunc func(portPath string, baudRate int) (io.ReadCloser, error)

// openSerialPort opens a serial port 8N1 with the fixed read timeout
func openSerialPort(portPath string, baudRate int) (io.ReadCloser, error) {
	if portPath == stdinPortName {
		return io.NopCloser(os.Stdin), nil
	}

	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portPath, mode)
	if err != nil {
		return nil, err
	}
	if err := port.SetReadTimeout(serialReadTimeout); err != nil {
		port.Close()
		return nil, err
	}
	return port, nil
}

// connectionNotifier is told about reader lifecycle events
type connectionNotifier interface {
	Connected()
	Failed()
}

type noopNotifier struct{}

func (noopNotifier) Connected() {}
func (noopNotifier) Failed()    {}

// readSerial owns one connection for its whole life. It pushes decoded
// lines onto queue until done is closed or the connection fails. A failure
// produces exactly one diagnostic line and ends the task; there is no
// reconnect.
func readSerial(portPath string, baudRate int, open openFunc, queue chan<- string, done <-chan struct{}, notify connectionNotifier) error {
	logger := slog.With("port", portPath, "baud", baudRate)

	reader, err := open(portPath, baudRate)
	if err != nil {
		logger.Error("serial open failed", "err", err)
		notify.Failed()
		push(queue, done, serialErrorLine(err))
		return fmt.Errorf("opening %s: %w", portPath, err)
	}
	defer reader.Close()

	logger.Info("serial connected")
	notify.Connected()
	if !push(queue, done, fmt.Sprintf("✅ Connected to %s at %d baud.", portPath, baudRate)) {
		return nil
	}

	err = readSerialLoop(reader, queue, done)
	if err != nil {
		logger.Error("serial read failed", "err", err)
		notify.Failed()
		push(queue, done, serialErrorLine(err))
		return fmt.Errorf("reading %s: %w", portPath, err)
	}

	logger.Info("serial reader stopped")
	return nil
}

// readSerialLoop splits the byte stream into lines. A read that times out
// returns no bytes, which gives the loop a chance to see done. A partial
// record is pushed when a read times out or fails, the way a line read
// with a timeout hands back whatever arrived.
func readSerialLoop(reader io.Reader, queue chan<- string, done <-chan struct{}) error {
	buf := make([]byte, 4096)
	var pending []byte

	flush := func() bool {
		line := decodeLine(pending)
		pending = nil
		return line == "" || push(queue, done, line)
	}

	for {
		select {
		case <-done:
			return nil
		default:
		}

		n, err := reader.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
			for {
				idx := bytes.IndexByte(pending, '\n')
				if idx < 0 {
					break
				}
				line := decodeLine(pending[:idx])
				pending = pending[idx+1:]
				if line != "" && !push(queue, done, line) {
					return nil
				}
			}
			if len(pending) > maxLineLength {
				// No terminator in sight; flush what we have
				if !flush() {
					return nil
				}
			}
		} else if err == nil && len(pending) > 0 {
			// Read timed out mid-record
			if !flush() {
				return nil
			}
		}
		if err != nil {
			if len(pending) > 0 && !flush() {
				return nil
			}
			return err
		}
	}
}

// push hands one line to the presentation loop. It reports false when the
// monitor is shutting down.
func push(queue chan<- string, done <-chan struct{}, line string) bool {
	select {
	case queue <- line:
		return true
	case <-done:
		return false
	}
}

func serialErrorLine(err error) string {
	return fmt.Sprintf("❌ Serial Error: %v", err)
}

// illFormedDropper removes invalid UTF-8 byte sequences and passes valid
// text through untouched, including encoded U+FFFD
type illFormedDropper struct{ transform.NopResetter }

func (illFormedDropper) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if c := src[nSrc]; c < utf8.RuneSelf {
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
			nSrc++
			continue
		}

		r, size := utf8.DecodeRune(src[nSrc:])
		if r == utf8.RuneError && size == 1 {
			if !atEOF && !utf8.FullRune(src[nSrc:]) {
				return nDst, nSrc, transform.ErrShortSrc
			}
			nSrc++
			continue
		}
		if nDst+size > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], src[nSrc:nSrc+size])
		nSrc += size
	}
	return nDst, nSrc, nil
}

// decodeLine converts a raw record to trimmed text, dropping invalid
// UTF-8 sequences rather than failing
func decodeLine(raw []byte) string {
	out, _, err := transform.Bytes(illFormedDropper{}, raw)
	if err != nil {
		return strings.TrimSpace(strings.ToValidUTF8(string(raw), ""))
	}
	return strings.TrimSpace(string(out))
}
