// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package device talks to the Arduino over its line-oriented serial
// protocol: the board prints "READY" once initialized, then streams
// "<value>,<tag>" lines; single-character commands select the active mode.
package device

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	serial "github.com/jacobsa/go-serial/serial"
	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/grip_rig/internal/reading"
)

// Command is a single-character mode command understood by the firmware.
type Command byte

const (
	CmdGripStrength   Command = '1'
	CmdJointStiffness Command = '2'
	CmdStop           Command = '3'
)

// ParseCommand validates a one-character command string from an operator
// surface (web button, MQTT message).
func ParseCommand(s string) (Command, error) {
	switch s {
	case "1":
		return CmdGripStrength, nil
	case "2":
		return CmdJointStiffness, nil
	case "3":
		return CmdStop, nil
	default:
		return 0, fmt.Errorf("unknown device command %q", s)
	}
}

// Options describes how to open the serial port.
type Options struct {
	Port string
	Baud uint
}

// Link is a connected device.
type Link struct {
	port io.ReadWriteCloser
	r    *bufio.Reader
}

// Open opens the serial port. The Arduino resets on open; call WaitReady
// before expecting data.
func Open(opts Options) (*Link, error) {
	port, err := serial.Open(serial.OpenOptions{
		PortName:              opts.Port,
		BaudRate:              opts.Baud,
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", opts.Port, err)
	}
	log.Infof("device: serial port opened on %s at %d baud", opts.Port, opts.Baud)
	return NewLink(port), nil
}

// NewLink wraps an already-open connection. Split out from Open so tests can
// drive the protocol over an in-memory pipe.
func NewLink(rw io.ReadWriteCloser) *Link {
	return &Link{port: rw, r: bufio.NewReader(rw)}
}

// WaitReady blocks until the firmware announces itself with a line
// containing "READY", discarding boot noise before it.
func (l *Link) WaitReady() error {
	for {
		line, err := l.r.ReadString('\n')
		if err != nil {
			return fmt.Errorf("waiting for device READY: %w", err)
		}
		if strings.Contains(line, "READY") {
			return nil
		}
	}
}

// Next blocks until the device produces one parseable reading. Malformed
// lines are logged and dropped, never fatal to the session. The caller
// stamps the arrival time.
func (l *Link) Next() (reading.Reading, error) {
	for {
		line, err := l.r.ReadString('\n')
		if err != nil {
			return reading.Reading{}, fmt.Errorf("device read: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		rd, err := reading.ParseLine(line)
		if err != nil {
			log.Warnf("device: invalid data received: %q", line)
			continue
		}
		return rd, nil
	}
}

// SendCommand relays one mode command to the firmware.
func (l *Link) SendCommand(c Command) error {
	if _, err := l.port.Write([]byte{byte(c)}); err != nil {
		return fmt.Errorf("device command %q: %w", c, err)
	}
	return nil
}

// Close closes the serial port.
func (l *Link) Close() error {
	return l.port.Close()
}
