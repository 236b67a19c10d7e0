// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/grip_rig/internal/config"
	"github.com/relabs-tech/grip_rig/internal/metrics"
	"github.com/relabs-tech/grip_rig/internal/reading"
	"github.com/relabs-tech/grip_rig/internal/recording"
	"github.com/relabs-tech/grip_rig/internal/report"
	"github.com/relabs-tech/grip_rig/internal/store"
)

// RunWatcher watches the recordings directory and, once a session file has
// stopped growing, analyzes it and archives the result in the trial store.
func RunWatcher() error {
	cfg := config.Get()

	if err := os.MkdirAll(cfg.RecordingsDir, 0o755); err != nil {
		return err
	}

	st, err := store.Open(cfg.StoreDir)
	if err != nil {
		return err
	}
	defer st.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(cfg.RecordingsDir); err != nil {
		return err
	}
	log.Infof("watch: watching %s", cfg.RecordingsDir)

	settle := time.Duration(cfg.WatcherSettleSeconds) * time.Second
	pending := make(map[string]time.Time) // path -> last write seen

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(ev.Name) != ".csv" {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				pending[ev.Name] = time.Now()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorf("watch: %v", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < settle {
					continue
				}
				delete(pending, path)
				archiveRecording(st, path)
			}

		case <-sigCh:
			log.Println("watch: shutting down")
			return nil
		}
	}
}

// archiveRecording runs the analysis over one settled session file and
// stores the report plus both raw traces.
func archiveRecording(st *store.Store, path string) {
	log.Infof("watch: session settled, analyzing %s", path)

	r := report.Analyze(path)
	r.Render(os.Stdout)

	traces := make(map[reading.Channel]metrics.Series)
	for _, ch := range []reading.Channel{reading.ChannelWeight, reading.ChannelFSR} {
		if s, err := recording.LoadSeries(path, ch); err == nil {
			traces[ch] = s
		}
	}

	trial := store.Trial{
		ID:         strings.TrimSuffix(filepath.Base(path), ".csv"),
		ArchivedAt: time.Now(),
		Report:     r,
	}
	if err := st.Put(trial, traces); err != nil {
		log.Errorf("watch: failed to archive %s: %v", trial.ID, err)
		return
	}
	log.Infof("watch: archived trial %s", trial.ID)
}
