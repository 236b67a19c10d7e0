// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/relabs-tech/grip_rig/internal/metrics"
	"github.com/relabs-tech/grip_rig/internal/reading"
	"github.com/relabs-tech/grip_rig/internal/session"
)

const (
	snapshotWidth  = 640
	snapshotHeight = 360
	snapshotMargin = 24
)

var (
	snapshotBG  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	snapshotFG  = color.RGBA{R: 32, G: 32, B: 32, A: 255}
	fsrColor    = color.RGBA{R: 200, G: 60, B: 40, A: 255}
	weightColor = color.RGBA{R: 40, G: 80, B: 200, A: 255}
)

// renderSnapshot draws both live traces as stacked sparklines. This is the
// cheap always-available view; the chart command produces the full figure.
func renderSnapshot(sess *session.Session) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, snapshotWidth, snapshotHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(snapshotBG), image.Point{}, draw.Src)

	half := snapshotHeight / 2
	drawTrace(img, image.Rect(0, 0, snapshotWidth, half),
		"FSR Force-Time", sess.Trace(reading.ChannelFSR), fsrColor)
	drawTrace(img, image.Rect(0, half, snapshotWidth, snapshotHeight),
		"Load Cell Weight-Time", sess.Trace(reading.ChannelWeight), weightColor)

	return img
}

// drawTrace plots one series inside bounds with a title label.
func drawTrace(img *image.RGBA, bounds image.Rectangle, title string, s metrics.Series, c color.RGBA) {
	drawString(img, bounds.Min.X+snapshotMargin, bounds.Min.Y+16, title, snapshotFG)

	if len(s) == 0 {
		drawString(img, bounds.Min.X+snapshotMargin, bounds.Min.Y+34, "no data yet", snapshotFG)
		return
	}
	drawString(img, bounds.Min.X+snapshotMargin, bounds.Min.Y+34,
		fmt.Sprintf("latest %.2f", s[len(s)-1].Value), snapshotFG)

	minT, maxT := s[0].Time, s[len(s)-1].Time
	minV, maxV := s[0].Value, s[0].Value
	for _, p := range s {
		if p.Value < minV {
			minV = p.Value
		}
		if p.Value > maxV {
			maxV = p.Value
		}
	}
	if maxT == minT {
		maxT = minT + 1
	}
	if maxV == minV {
		maxV = minV + 1
	}

	plotArea := image.Rect(
		bounds.Min.X+snapshotMargin, bounds.Min.Y+44,
		bounds.Max.X-snapshotMargin, bounds.Max.Y-snapshotMargin,
	)

	toXY := func(p metrics.Point) (float64, float64) {
		x := float64(plotArea.Min.X) + (p.Time-minT)/(maxT-minT)*float64(plotArea.Dx())
		y := float64(plotArea.Max.Y) - (p.Value-minV)/(maxV-minV)*float64(plotArea.Dy())
		return x, y
	}

	for i := 0; i+1 < len(s); i++ {
		x0, y0 := toXY(s[i])
		x1, y1 := toXY(s[i+1])
		drawSegment(img, x0, y0, x1, y1, c)
	}
}

// drawSegment rasterizes one line segment by uniform stepping. Good enough
// for a monitoring sparkline.
func drawSegment(img *image.RGBA, x0, y0, x1, y1 float64, c color.RGBA) {
	dx, dy := x1-x0, y1-y0
	steps := int(math.Max(math.Abs(dx), math.Abs(dy))) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		img.Set(int(x0+t*dx), int(y0+t*dy), c)
	}
}

// drawString renders text with the fixed 7x13 bitmap face.
func drawString(img *image.RGBA, x, y int, text string, c color.RGBA) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
