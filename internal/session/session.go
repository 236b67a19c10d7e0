// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package session owns the in-memory state of one live trial: per-channel
// traces with time measured from the first reading of the trial. Viewers
// take snapshot copies; a single consumer goroutine feeds the buffers from
// a channel, so producers never touch shared state directly.
package session

import (
	"sync"
	"time"

	"github.com/relabs-tech/grip_rig/internal/metrics"
	"github.com/relabs-tech/grip_rig/internal/reading"
)

// Session accumulates readings of one live trial.
type Session struct {
	mu        sync.RWMutex
	start     time.Time
	haveStart bool
	traces    map[reading.Channel]metrics.Series
}

// New returns an empty session. t=0 is latched on the first reading added.
func New() *Session {
	return &Session{traces: make(map[reading.Channel]metrics.Series)}
}

// Add appends one reading to its channel's trace.
func (s *Session) Add(rd reading.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.haveStart {
		s.start = rd.At
		s.haveStart = true
	}
	s.traces[rd.Channel] = append(s.traces[rd.Channel], metrics.Point{
		Time:  rd.At.Sub(s.start).Seconds(),
		Value: rd.Value,
	})
}

// Consume drains readings from in until it is closed. Run it on exactly one
// goroutine; everything upstream stays single-producer/single-consumer.
func (s *Session) Consume(in <-chan reading.Reading) {
	for rd := range in {
		s.Add(rd)
	}
}

// Trace returns a copy of one channel's trace, safe to read while the trial
// is still appending.
func (s *Session) Trace(ch reading.Channel) metrics.Series {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.traces[ch]
	out := make(metrics.Series, len(src))
	copy(out, src)
	return out
}

// Latest returns the most recent point of one channel's trace.
func (s *Session) Latest(ch reading.Channel) (metrics.Point, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.traces[ch]
	if len(src) == 0 {
		return metrics.Point{}, false
	}
	return src[len(src)-1], true
}

// Len returns the number of readings held for one channel.
func (s *Session) Len(ch reading.Channel) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.traces[ch])
}
