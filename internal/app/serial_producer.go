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
	"github.com/relabs-tech/grip_rig/internal/device"
	"github.com/relabs-tech/grip_rig/internal/reading"
)

// RunSerialProducer opens the Arduino serial link, waits for the READY
// handshake, and publishes every reading as JSON to its channel topic.
// Operator mode commands arriving on the command topic are relayed to the
// firmware as single characters.
func RunSerialProducer() error {
	cfg := config.Get()

	// 1) Connect to MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDProducer)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Infof("producer: connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Open the device and wait for the firmware handshake
	link, err := device.Open(device.Options{Port: cfg.SerialPort, Baud: cfg.SerialBaud})
	if err != nil {
		return err
	}
	defer link.Close()

	log.Println("producer: waiting for device READY")
	if err := link.WaitReady(); err != nil {
		return err
	}
	log.Println("producer: device is ready")

	// 3) Relay mode commands from the bus to the firmware
	cmdToken := client.Subscribe(cfg.TopicCommand, 1, func(_ mqtt.Client, msg mqtt.Message) {
		cmd, err := device.ParseCommand(string(msg.Payload()))
		if err != nil {
			log.Warnf("producer: %v", err)
			return
		}
		if err := link.SendCommand(cmd); err != nil {
			log.Errorf("producer: %v", err)
			return
		}
		log.Infof("producer: sent command %s to device", msg.Payload())
	})
	cmdToken.Wait()
	if cmdToken.Error() != nil {
		return cmdToken.Error()
	}
	log.Infof("producer: subscribed to %s", cfg.TopicCommand)

	// 4) Stream readings until the link drops
	return publishReadings(client, cfg, link)
}

// publishReadings pumps one reading source onto the bus. Shared by the
// serial and mock producers.
func publishReadings(client mqtt.Client, cfg *config.Config, src reading.Source) error {
	for {
		rd, err := src.Next()
		if err != nil {
			return err
		}
		rd.At = time.Now()

		payload, err := json.Marshal(rd)
		if err != nil {
			log.Errorf("producer: json marshal error: %v", err)
			continue
		}

		token := client.Publish(topicFor(cfg, rd.Channel), 0, false, payload)
		token.Wait()
		if token.Error() != nil {
			log.Errorf("producer: publish error: %v", token.Error())
		}
	}
}

func topicFor(cfg *config.Config, ch reading.Channel) string {
	if ch == reading.ChannelWeight {
		return cfg.TopicWeight
	}
	return cfg.TopicFSR
}
