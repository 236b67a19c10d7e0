// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/relabs-tech/grip_rig/internal/config"
	"github.com/relabs-tech/grip_rig/internal/report"
)

// ErrUsage marks operator mistakes (bad arguments, missing input file);
// mains exit nonzero without a stack of log noise.
type ErrUsage struct{ Msg string }

func (e ErrUsage) Error() string { return e.Msg }

// resolveRecording turns the positional file argument into a real path
// inside the recordings directory. Absolute paths are taken as-is.
func resolveRecording(name string) (string, error) {
	cfg := config.Get()

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.RecordingsDir, name)
	}
	if _, err := os.Stat(path); err != nil {
		return "", ErrUsage{Msg: fmt.Sprintf(
			"the file %q does not exist in the directory %q", name, cfg.RecordingsDir)}
	}
	return path, nil
}

// RunAnalysis is the standalone analysis entry point: one positional
// argument naming a session file, resolved against the recordings
// directory; both analysis sections are printed to stdout.
func RunAnalysis(args []string) error {
	if len(args) != 1 {
		return ErrUsage{Msg: "usage: analysis <csv_filename>"}
	}

	path, err := resolveRecording(args[0])
	if err != nil {
		return err
	}

	r := report.Analyze(path)
	r.Render(os.Stdout)
	return nil
}
