// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/grip_rig/internal/config"
	"github.com/relabs-tech/grip_rig/internal/device"
	"github.com/relabs-tech/grip_rig/internal/reading"
	"github.com/relabs-tech/grip_rig/internal/recording"
)

// RunRecorder subscribes to both reading topics and appends every reading
// to a fresh session CSV. All writes go through one channel and one
// goroutine, so the file never sees concurrent appends. A stop command on
// the command topic (or Ctrl+C) ends the session.
func RunRecorder() error {
	cfg := config.Get()

	if err := os.MkdirAll(cfg.RecordingsDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(cfg.RecordingsDir, recording.SessionFileName(time.Now()))
	rec, err := recording.NewRecorder(path)
	if err != nil {
		return err
	}
	log.Infof("recorder: writing session to %s", path)

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDRecorder)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Infof("recorder: connected to MQTT broker at %s", cfg.MQTTBroker)

	in := make(chan reading.Reading, 256)
	handler := func(_ mqtt.Client, msg mqtt.Message) {
		var rd reading.Reading
		if err := json.Unmarshal(msg.Payload(), &rd); err != nil {
			log.Warnf("recorder: payload unmarshal error: %v", err)
			return
		}
		in <- rd
	}
	for _, topic := range []string{cfg.TopicWeight, cfg.TopicFSR} {
		token := client.Subscribe(topic, 0, handler)
		token.Wait()
		if token.Error() != nil {
			return token.Error()
		}
		log.Infof("recorder: subscribed to %s", topic)
	}

	// stop on the operator's mode-3 command as well as on a signal
	stop := make(chan struct{})
	cmdToken := client.Subscribe(cfg.TopicCommand, 1, func(_ mqtt.Client, msg mqtt.Message) {
		if cmd, err := device.ParseCommand(string(msg.Payload())); err == nil && cmd == device.CmdStop {
			select {
			case stop <- struct{}{}:
			default:
			}
		}
	})
	cmdToken.Wait()
	if cmdToken.Error() != nil {
		return cmdToken.Error()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for rd := range in {
			if err := rec.Append(rd); err != nil {
				log.Errorf("recorder: append error: %v", err)
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("recorder: shutting down")
	case <-stop:
		log.Println("recorder: stop command received")
	}

	client.Disconnect(250)
	close(in)
	<-done
	return rec.Close()
}
