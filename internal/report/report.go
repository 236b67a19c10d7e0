// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package report runs the full analysis pipeline over a completed session
// file and renders the operator-facing summary. The grip (Weight) and joint
// stiffness (FSR) sections are computed independently so one channel's
// failure never hides the other's results.
package report

import (
	"fmt"
	"io"

	"github.com/relabs-tech/grip_rig/internal/metrics"
	"github.com/relabs-tech/grip_rig/internal/reading"
	"github.com/relabs-tech/grip_rig/internal/recording"
)

// gripFractions are the decay targets reported for grip strength trials,
// in percent of peak.
var gripFractions = []int{25, 50, 75, 80}

// GripMetrics summarizes the load-cell (grip strength) channel.
type GripMetrics struct {
	PlateauCV *float64               `json:"plateau_cv,omitempty"` // percent
	Peak      float64                `json:"peak_kg"`
	PeakTime  float64                `json:"peak_time_s"`
	Decay     []metrics.FractionTime `json:"decay"`
}

// StiffnessMetrics summarizes the FSR (joint stiffness) channel.
type StiffnessMetrics struct {
	RelaxationRate *float64 `json:"relaxation_rate,omitempty"` // N/s
	Impulse        float64  `json:"impulse"`                   // N·s
	RFD            *float64 `json:"rfd,omitempty"`             // N/s, first 100 ms
}

// Report holds both analysis sections for one session file. A section is
// nil when its channel could not be loaded; the corresponding error text is
// kept so partial results are still reportable.
type Report struct {
	Source         string            `json:"source"`
	Grip           *GripMetrics      `json:"grip,omitempty"`
	GripError      string            `json:"grip_error,omitempty"`
	Stiffness      *StiffnessMetrics `json:"stiffness,omitempty"`
	StiffnessError string            `json:"stiffness_error,omitempty"`
}

// AnalyzeGrip computes the grip strength section from a non-empty series.
func AnalyzeGrip(s metrics.Series) (*GripMetrics, error) {
	peak, peakTime, err := metrics.Peak(s)
	if err != nil {
		return nil, err
	}
	decay, err := metrics.TimeToFractions(s, gripFractions)
	if err != nil {
		return nil, err
	}

	g := &GripMetrics{Peak: peak, PeakTime: peakTime, Decay: decay}
	if cv, ok := metrics.PlateauVariation(s); ok {
		g.PlateauCV = &cv
	}
	return g, nil
}

// AnalyzeStiffness computes the joint stiffness section from a non-empty
// series.
func AnalyzeStiffness(s metrics.Series) (*StiffnessMetrics, error) {
	if len(s) == 0 {
		return nil, metrics.ErrEmptySeries
	}

	m := &StiffnessMetrics{Impulse: metrics.Impulse(s)}
	if rate, ok := metrics.RelaxationRate(s); ok {
		m.RelaxationRate = &rate
	}
	if rfd, ok := metrics.RateOfDevelopment(s); ok {
		m.RFD = &rfd
	}
	return m, nil
}

// Analyze loads both channels from a session file and computes whatever
// sections the file supports.
func Analyze(path string) *Report {
	r := &Report{Source: path}

	if s, err := recording.LoadSeries(path, reading.ChannelWeight); err != nil {
		r.GripError = err.Error()
	} else if g, err := AnalyzeGrip(s); err != nil {
		r.GripError = err.Error()
	} else {
		r.Grip = g
	}

	if s, err := recording.LoadSeries(path, reading.ChannelFSR); err != nil {
		r.StiffnessError = err.Error()
	} else if m, err := AnalyzeStiffness(s); err != nil {
		r.StiffnessError = err.Error()
	} else {
		r.Stiffness = m
	}

	return r
}

// Render writes the report in the wording operators know from the rig.
func (r *Report) Render(w io.Writer) {
	fmt.Fprintf(w, "\nGrip Strength Analysis:\n")
	if r.Grip == nil {
		fmt.Fprintf(w, "Grip Strength Analysis: %s\n", r.GripError)
	} else {
		g := r.Grip
		if g.PlateauCV != nil {
			fmt.Fprintf(w, "Plateau Coefficient of Variation: %.2f\n", *g.PlateauCV)
		} else {
			fmt.Fprintf(w, "Plateau Coefficient of Variation: Not calculated (no plateau region found)\n")
		}
		fmt.Fprintf(w, "Peak Grip Strength: %.2f kg at %.2f seconds\n", g.Peak, g.PeakTime)
		for _, ft := range g.Decay {
			if ft.Reached {
				fmt.Fprintf(w, "Time to reach %d%% of max grip strength: %.2f seconds\n", ft.Fraction, ft.Seconds)
			} else {
				fmt.Fprintf(w, "%d%% of max grip strength was not reached during the recording.\n", ft.Fraction)
			}
		}
	}

	fmt.Fprintf(w, "\nJoint Stiffness Analysis:\n")
	if r.Stiffness == nil {
		fmt.Fprintf(w, "Joint Stiffness Analysis: %s\n", r.StiffnessError)
	} else {
		m := r.Stiffness
		if m.RelaxationRate != nil {
			fmt.Fprintf(w, "Force Relaxation Rate: %.2f N/s\n", *m.RelaxationRate)
		} else {
			fmt.Fprintf(w, "Force Relaxation Rate: Not calculated (insufficient descending data)\n")
		}
		fmt.Fprintf(w, "Force-Time Integral (Impulse): %.2f N·s\n", m.Impulse)
		if m.RFD != nil {
			fmt.Fprintf(w, "Rate of Force Development (RFD, first 100 ms): %.2f N/s\n", *m.RFD)
		} else {
			fmt.Fprintf(w, "Rate of Force Development (RFD): Not calculated (insufficient data in initial phase)\n")
		}
	}
}
