// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/grip_rig/internal/app"
)

func main() {
	if err := app.Init(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if err := app.RunHistory(os.Args[1:]); err != nil {
		var usage app.ErrUsage
		if errors.As(err, &usage) {
			fmt.Fprintln(os.Stderr, usage.Msg)
			os.Exit(1)
		}
		log.Fatalf("fatal: %v", err)
	}
}
