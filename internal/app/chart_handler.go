// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/grip_rig/internal/chart"
	"github.com/relabs-tech/grip_rig/internal/metrics"
	"github.com/relabs-tech/grip_rig/internal/reading"
	"github.com/relabs-tech/grip_rig/internal/recording"
)

// RunChart renders a completed session file as the two-panel PNG figure.
// The output name defaults to the session file with a .png extension.
func RunChart(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage{Msg: "usage: chart <csv_filename> [output.png]"}
	}

	path, err := resolveRecording(args[0])
	if err != nil {
		return err
	}

	out := strings.TrimSuffix(path, ".csv") + ".png"
	if len(args) == 2 {
		out = args[1]
	}

	// either channel may be absent from the file; its panel stays empty
	load := func(ch reading.Channel) metrics.Series {
		s, err := recording.LoadSeries(path, ch)
		if err != nil {
			log.Warnf("chart: %v", err)
			return nil
		}
		return s
	}
	fsr := load(reading.ChannelFSR)
	weight := load(reading.ChannelWeight)

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := chart.Render(f, fsr, weight); err != nil {
		return err
	}
	log.Infof("chart: wrote %s", out)
	return nil
}
