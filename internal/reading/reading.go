// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package reading

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Channel identifies one sensor stream on the rig.
type Channel string

const (
	// ChannelWeight is the load-cell channel (grip strength, kg).
	ChannelWeight Channel = "Weight"
	// ChannelFSR is the force-sensitive-resistor channel (joint stiffness).
	ChannelFSR Channel = "FSR"
)

// ErrUnsupportedChannel is returned when a channel label is not in the
// recognized vocabulary.
var ErrUnsupportedChannel = errors.New("unsupported sensor channel")

// ParseChannel maps a label to a known channel. "Force" is accepted as an
// alias for the FSR channel.
func ParseChannel(label string) (Channel, error) {
	switch strings.TrimSpace(label) {
	case "Weight":
		return ChannelWeight, nil
	case "FSR", "Force":
		return ChannelFSR, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedChannel, label)
	}
}

// Reading is a single measurement suitable for JSON and MQTT.
type Reading struct {
	Value   float64   `json:"value"`
	Channel Channel   `json:"channel"`
	At      time.Time `json:"time"`
}

// Source is anything that can provide readings over time: the serial link,
// the mock generator, maybe a replay source from file later.
type Source interface {
	Next() (Reading, error)
}

// ParseLine parses one line of the device protocol: "<value>,<tag>",
// e.g. "23.41,Weight". The caller stamps the arrival time.
func ParseLine(line string) (Reading, error) {
	line = strings.TrimSpace(line)
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return Reading{}, fmt.Errorf("malformed reading line %q", line)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Reading{}, fmt.Errorf("malformed reading value in %q: %w", line, err)
	}

	ch, err := ParseChannel(parts[1])
	if err != nil {
		return Reading{}, err
	}

	return Reading{Value: value, Channel: ch}, nil
}
