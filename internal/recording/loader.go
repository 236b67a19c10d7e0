// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package recording

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/relabs-tech/grip_rig/internal/metrics"
	"github.com/relabs-tech/grip_rig/internal/reading"
)

// LoadSeries reads a session file, keeps only the rows of the requested
// channel, and re-zeroes time so the first row of that channel is t=0.
// The returned series is never empty: a file with no rows for the channel
// is an error.
func LoadSeries(path string, ch reading.Channel) (metrics.Series, error) {
	ch, err := reading.ParseChannel(string(ch))
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 3

	// header row
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("failed to read session header: %w", err)
	}

	var (
		series metrics.Series
		start  time.Time
		line   = 1
	)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("session file line %d: %w", line, err)
		}

		rowCh, err := reading.ParseChannel(row[2])
		if err != nil {
			return nil, fmt.Errorf("session file line %d: %w", line, err)
		}
		if rowCh != ch {
			continue
		}

		ts, err := time.Parse(TimestampLayout, row[0])
		if err != nil {
			return nil, fmt.Errorf("session file line %d: bad timestamp %q: %w", line, row[0], err)
		}
		value, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("session file line %d: bad value %q: %w", line, row[1], err)
		}

		if len(series) == 0 {
			start = ts
		}
		series = append(series, metrics.Point{
			Time:  ts.Sub(start).Seconds(),
			Value: value,
		})
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("no %s samples in %s", ch, path)
	}
	return series, nil
}
