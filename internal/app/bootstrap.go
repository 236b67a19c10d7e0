// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/grip_rig/internal/config"
)

// Init loads the rig configuration and applies the configured log level.
// Every binary calls this before its Run function.
func Init() error {
	if err := config.InitGlobal(config.DefaultPath); err != nil {
		return err
	}

	lvl, err := log.ParseLevel(config.Get().LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	log.SetLevel(lvl)
	return nil
}
