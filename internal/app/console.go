// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/grip_rig/internal/config"
	"github.com/relabs-tech/grip_rig/internal/reading"
	"github.com/relabs-tech/grip_rig/internal/session"
)

// RunConsole prints live readings from both channels and a periodic
// one-line session summary.
func RunConsole() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Infof("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	sess := session.New()
	in := make(chan reading.Reading, 256)
	go sess.Consume(in)

	handler := func(tag string) mqtt.MessageHandler {
		return func(_ mqtt.Client, msg mqtt.Message) {
			var rd reading.Reading
			if err := json.Unmarshal(msg.Payload(), &rd); err != nil {
				log.Warnf("console: payload unmarshal error: %v", err)
				return
			}
			fmt.Printf("[%s] %8.2f\n", tag, rd.Value)
			in <- rd
		}
	}

	weightToken := client.Subscribe(cfg.TopicWeight, 0, handler("WGT"))
	weightToken.Wait()
	if weightToken.Error() != nil {
		return weightToken.Error()
	}
	log.Infof("console: subscribed to %s", cfg.TopicWeight)

	fsrToken := client.Subscribe(cfg.TopicFSR, 0, handler("FSR"))
	fsrToken.Wait()
	if fsrToken.Error() != nil {
		return fsrToken.Error()
	}
	log.Infof("console: subscribed to %s", cfg.TopicFSR)

	ticker := time.NewTicker(time.Duration(cfg.ConsoleLogInterval) * time.Millisecond)
	defer ticker.Stop()
	go func() {
		for range ticker.C {
			nw := sess.Len(reading.ChannelWeight)
			nf := sess.Len(reading.ChannelFSR)
			if nw == 0 && nf == 0 {
				continue
			}
			fmt.Printf("[SESS] weight=%d fsr=%d readings\n", nw, nf)
		}
	}()

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
