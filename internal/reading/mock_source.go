// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package reading

import (
	"math"
	"time"
)

type mockSource struct {
	start   time.Time
	channel Channel
	n       int
}

// NewMockSource creates a mock reading source that traces a plausible
// effort curve: fast onset, a noisy plateau, then a slow decay. Useful for
// exercising the pipeline without the rig attached.
func NewMockSource(ch Channel) Source {
	return &mockSource{start: time.Now(), channel: ch}
}

func (m *mockSource) Next() (Reading, error) {
	elapsed := time.Since(m.start).Seconds()
	m.n++

	// onset over ~1s, hold near 40, decay after 8s
	level := 40 * (1 - math.Exp(-3*elapsed))
	if elapsed > 8 {
		level *= math.Exp(-(elapsed - 8) / 4)
	}
	jitter := 0.8 * math.Sin(float64(m.n)*1.3)

	return Reading{
		Value:   level + jitter,
		Channel: m.channel,
		At:      time.Now(),
	}, nil
}
