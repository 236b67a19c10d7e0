// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/grip_rig/internal/config"
	"github.com/relabs-tech/grip_rig/internal/reading"
)

// RunMockProducer publishes synthetic effort curves for both channels so
// the recorder, console and web viewer can be exercised without the rig.
func RunMockProducer() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDProducer + "-mock")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Infof("mock producer: connected to MQTT broker at %s", cfg.MQTTBroker)

	sources := []reading.Source{
		reading.NewMockSource(reading.ChannelWeight),
		reading.NewMockSource(reading.ChannelFSR),
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		for _, src := range sources {
			rd, err := src.Next()
			if err != nil {
				log.Errorf("mock producer: %v", err)
				continue
			}

			payload, err := json.Marshal(rd)
			if err != nil {
				log.Errorf("mock producer: json marshal error: %v", err)
				continue
			}

			token := client.Publish(topicFor(cfg, rd.Channel), 0, false, payload)
			token.Wait()
			if token.Error() != nil {
				log.Errorf("mock producer: publish error: %v", token.Error())
			}
		}
	}
	return nil
}
