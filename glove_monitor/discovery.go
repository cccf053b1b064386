package main

import (
	"errors"
	"fmt"
	"log/slog"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// ErrPortUnavailable is returned when no serial port could be opened
var ErrPortUnavailable = errors.New("no connectable serial port found")

// listFunc enumerates candidate port identifiers
type listFunc func() ([]string, error)

// listPorts returns system serial ports in enumeration order
func listPorts() ([]string, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		slog.Debug("detailed port enumeration failed, falling back", "err", err)
		return serial.GetPortsList()
	}

	names := make([]string, 0, len(details))
	for _, d := range details {
		if d.IsUSB {
			slog.Debug("found port", "name", d.Name, "vid", d.VID, "pid", d.PID, "product", d.Product, "serial", d.SerialNumber)
		} else {
			slog.Debug("found port", "name", d.Name)
		}
		names = append(names, d.Name)
	}
	return names, nil
}

// discoverPort trial-opens each candidate and returns the first that
// opens. The probe closes the port straight away; some boards reset when
// that happens.
func discoverPort(list listFunc, open openFunc, baudRate int) (string, error) {
	ports, err := list()
	if err != nil {
		return "", fmt.Errorf("%w: listing ports: %v", ErrPortUnavailable, err)
	}

	for _, port := range ports {
		conn, err := open(port, baudRate)
		if err != nil {
			slog.Debug("port probe failed", "port", port, "err", err)
			continue
		}
		conn.Close()
		slog.Info("port probe succeeded", "port", port)
		return port, nil
	}

	return "", ErrPortUnavailable
}
