// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package metrics

// Point is one sample of a loaded trace: seconds since the first sample of
// its channel, and the measured value.
type Point struct {
	Time  float64 `json:"t"`
	Value float64 `json:"v"`
}

// Series is a single-channel trace ordered by time ascending. Loaders
// guarantee non-emptiness and relative time starting at zero; the metric
// functions never mutate it.
type Series []Point
