// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package metrics computes biomechanical summary statistics over a recorded
// single-channel trace: peak effort, plateau variability, post-peak decay
// timing, relaxation rate, impulse and rate of development.
package metrics

import (
	"errors"
	"math"

	"github.com/montanaflynn/stats"
)

// ErrEmptySeries is returned when a metric is asked about an empty trace.
var ErrEmptySeries = errors.New("empty series")

// plateauThreshold defines the plateau region as all samples at or above
// this fraction of the peak value.
const plateauThreshold = 0.9

// onsetWindow is the leading window, in seconds, over which the rate of
// development is measured.
const onsetWindow = 0.1

// Peak returns the maximum value of the series and the time of its first
// occurrence (ties broken by earliest time).
func Peak(s Series) (value, at float64, err error) {
	if len(s) == 0 {
		return 0, 0, ErrEmptySeries
	}
	value, at = s[0].Value, s[0].Time
	for _, p := range s[1:] {
		if p.Value > value {
			value, at = p.Value, p.Time
		}
	}
	return value, at, nil
}

// PlateauVariation returns the coefficient of variation, in percent, of the
// plateau region (samples >= 90% of peak). The second return is false when
// no finite coefficient exists: an empty or single-sample plateau, a NaN
// spread, or a zero mean.
func PlateauVariation(s Series) (float64, bool) {
	peak, _, err := Peak(s)
	if err != nil {
		return 0, false
	}

	threshold := plateauThreshold * peak
	var plateau []float64
	for _, p := range s {
		if p.Value >= threshold {
			plateau = append(plateau, p.Value)
		}
	}
	if len(plateau) < 2 {
		// A lone peak sample has no spread to measure.
		return 0, false
	}

	mean, err := stats.Mean(plateau)
	if err != nil {
		return 0, false
	}
	sdev, err := stats.StandardDeviationSample(plateau)
	if err != nil {
		return 0, false
	}

	cv := 100 * sdev / mean
	if math.IsNaN(cv) || math.IsInf(cv, 0) {
		return 0, false
	}
	return cv, true
}

// FractionTime is the decay duration to one requested fraction of peak.
type FractionTime struct {
	Fraction int     `json:"fraction"` // percent of peak
	Seconds  float64 `json:"seconds"`  // time after the peak, valid when Reached
	Reached  bool    `json:"reached"`
}

// TimeToFractions reports, for each requested fraction of the peak value
// (in percent), how long after the peak the trace first dropped to or below
// that level. Results preserve the caller's fraction order; a fraction the
// trace never reaches is reported with Reached=false.
func TimeToFractions(s Series, fractions []int) ([]FractionTime, error) {
	peak, peakTime, err := Peak(s)
	if err != nil {
		return nil, err
	}

	out := make([]FractionTime, 0, len(fractions))
	for _, f := range fractions {
		target := peak * float64(f) / 100
		entry := FractionTime{Fraction: f}
		for _, p := range s {
			if p.Time < peakTime {
				continue
			}
			if p.Value <= target {
				entry.Seconds = p.Time - peakTime
				entry.Reached = true
				break
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

// RelaxationRate approximates the mean rate of decay after the peak: the
// average of the negative consecutive-sample slopes from the peak sample
// onward. The second return is false when no descending segment exists.
func RelaxationRate(s Series) (float64, bool) {
	peakIdx := 0
	for i, p := range s {
		if p.Value > s[peakIdx].Value {
			peakIdx = i
		}
	}

	var sum float64
	var n int
	for i := peakIdx; i+1 < len(s); i++ {
		dt := s[i+1].Time - s[i].Time
		if dt <= 0 {
			// duplicate second-resolution timestamps carry no slope
			continue
		}
		slope := (s[i+1].Value - s[i].Value) / dt
		if slope < 0 {
			sum += slope
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Impulse is the trapezoidal-rule integral of value over time across the
// whole series (the force-time integral). A single-sample series integrates
// to zero.
func Impulse(s Series) float64 {
	var total float64
	for i := 0; i+1 < len(s); i++ {
		total += 0.5 * (s[i].Value + s[i+1].Value) * (s[i+1].Time - s[i].Time)
	}
	return total
}

// RateOfDevelopment returns the steepest consecutive-sample slope within
// the first 100 ms of the trace. The second return is false when fewer than
// two samples fall inside the window or no slope can be formed.
func RateOfDevelopment(s Series) (float64, bool) {
	if len(s) == 0 {
		return 0, false
	}

	limit := s[0].Time + onsetWindow
	var window Series
	for _, p := range s {
		if p.Time <= limit {
			window = append(window, p)
		}
	}
	if len(window) < 2 {
		return 0, false
	}

	best := math.Inf(-1)
	found := false
	for i := 0; i+1 < len(window); i++ {
		dt := window[i+1].Time - window[i].Time
		if dt <= 0 {
			continue
		}
		slope := (window[i+1].Value - window[i].Value) / dt
		if slope > best {
			best = slope
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return best, true
}
