// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/grip_rig/internal/app"
)

func main() {
	log.Println("starting grip-rig console viewer")

	if err := app.Init(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if err := app.RunConsole(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
