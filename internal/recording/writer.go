// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package recording persists rig readings as delimited session files and
// loads them back as per-channel traces for analysis.
package recording

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/relabs-tech/grip_rig/internal/reading"
)

// TimestampLayout is the wall-clock format stored in session files.
const TimestampLayout = "2006-01-02 15:04:05"

// header row of every session file
var header = []string{"Timestamp", "Value", "Sensor"}

// Recorder appends timestamped readings to a session CSV file.
type Recorder struct {
	mu sync.Mutex
	f  *os.File
	w  *csv.Writer
}

// NewRecorder creates (truncating) the session file and writes the header.
func NewRecorder(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create session file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write session header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}

	return &Recorder{f: f, w: w}, nil
}

// Append writes one reading. Rows are flushed immediately so a session file
// is readable while the trial is still running.
func (r *Recorder) Append(rd reading.Reading) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := []string{
		rd.At.Format(TimestampLayout),
		strconv.FormatFloat(rd.Value, 'g', -1, 64),
		string(rd.Channel),
	}
	if err := r.w.Write(row); err != nil {
		return fmt.Errorf("failed to append reading: %w", err)
	}
	r.w.Flush()
	return r.w.Error()
}

// Close flushes and closes the session file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.w.Flush()
	if err := r.w.Error(); err != nil {
		r.f.Close()
		return err
	}
	return r.f.Close()
}

// SessionFileName returns the conventional name for a session started at t,
// e.g. "session-20260312-141503.csv".
func SessionFileName(t time.Time) string {
	return "session-" + t.Format("20060102-150405") + ".csv"
}
