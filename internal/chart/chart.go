// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package chart renders a completed recording as the two-panel figure
// operators are used to: FSR force-time on top, load-cell weight-time below.
package chart

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/relabs-tech/grip_rig/internal/metrics"
)

// Render draws both traces into one stacked PNG. Either series may be nil
// when the session never produced that channel; its panel stays empty.
func Render(w io.Writer, fsr, weight metrics.Series) error {
	top, err := panel("FSR Force-Time", "FSR Reading", fsr)
	if err != nil {
		return err
	}
	bottom, err := panel("Load Cell Weight-Time", "Weight (kg)", weight)
	if err != nil {
		return err
	}

	img := vgimg.New(8*vg.Inch, 6*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: 2, Cols: 1, PadY: vg.Millimeter * 4}

	canvases := plot.Align([][]*plot.Plot{{top}, {bottom}}, tiles, dc)
	top.Draw(canvases[0][0])
	bottom.Draw(canvases[1][0])

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write chart PNG: %w", err)
	}
	return nil
}

func panel(title, ylabel string, s metrics.Series) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())

	if len(s) == 0 {
		return p, nil
	}

	xys := make(plotter.XYs, len(s))
	for i, pt := range s {
		xys[i].X = pt.Time
		xys[i].Y = pt.Value
	}
	if err := plotutil.AddLinePoints(p, xys); err != nil {
		return nil, fmt.Errorf("failed to add trace to chart: %w", err)
	}
	return p, nil
}
