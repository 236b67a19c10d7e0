// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/grip_rig/internal/chart"
	"github.com/relabs-tech/grip_rig/internal/config"
	"github.com/relabs-tech/grip_rig/internal/metrics"
	"github.com/relabs-tech/grip_rig/internal/reading"
	"github.com/relabs-tech/grip_rig/internal/store"
)

// RunHistory browses the trial archive. With no arguments it lists all
// archived trials; with a trial ID it re-renders that trial's report; with
// an additional output name it also redraws the figure from the archived
// samples.
func RunHistory(args []string) error {
	if len(args) > 2 {
		return ErrUsage{Msg: "usage: history [trial_id] [output.png]"}
	}

	cfg := config.Get()
	st, err := store.Open(cfg.StoreDir)
	if err != nil {
		return err
	}
	defer st.Close()

	if len(args) == 0 {
		return listTrials(st)
	}

	trial, err := st.Get(args[0])
	if err != nil {
		return err
	}
	trial.Report.Render(os.Stdout)

	if len(args) == 2 {
		return redrawTrial(st, trial.ID, args[1])
	}
	return nil
}

func listTrials(st *store.Store) error {
	trials, err := st.List()
	if err != nil {
		return err
	}
	if len(trials) == 0 {
		fmt.Println("no archived trials")
		return nil
	}

	for _, t := range trials {
		peak := "-"
		if t.Report != nil && t.Report.Grip != nil {
			peak = fmt.Sprintf("%.2f kg", t.Report.Grip.Peak)
		}
		fmt.Printf("%-32s  %s  peak %s\n",
			t.ID, t.ArchivedAt.Format("2006-01-02 15:04:05"), peak)
	}
	return nil
}

// redrawTrial rebuilds the two-panel figure from the archived samples.
func redrawTrial(st *store.Store, id, out string) error {
	load := func(ch reading.Channel) metrics.Series {
		s, err := st.Samples(id, ch)
		if err != nil {
			log.Warnf("history: %v", err)
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
	log.Infof("history: wrote %s", out)
	return nil
}
