// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/hx711"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/grip_rig/internal/config"
	"github.com/relabs-tech/grip_rig/internal/reading"
)

// RunHX711Producer reads a GPIO-wired HX711 load cell amplifier directly
// and publishes Weight readings to the same topic the serial producer uses.
// This is the setup without the Arduino in the loop: the load cell hangs
// off the host's own pins.
func RunHX711Producer() error {
	cfg := config.Get()

	// Initialize periph host
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	clk := gpioreg.ByName(cfg.HX711ClockPin)
	if clk == nil {
		return fmt.Errorf("unknown HX711 clock pin %q", cfg.HX711ClockPin)
	}
	data := gpioreg.ByName(cfg.HX711DataPin)
	if data == nil {
		return fmt.Errorf("unknown HX711 data pin %q", cfg.HX711DataPin)
	}

	dev, err := hx711.New(clk, data)
	if err != nil {
		return fmt.Errorf("failed to initialize HX711: %w", err)
	}
	defer dev.Halt()
	log.Infof("hx711: load cell on clk=%s data=%s, scale %.1f counts/kg",
		cfg.HX711ClockPin, cfg.HX711DataPin, cfg.HX711Scale)

	// Connect to MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDProducer + "-hx711")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Infof("hx711: connected to MQTT broker at %s", cfg.MQTTBroker)

	ticker := time.NewTicker(time.Duration(cfg.HX711SampleInterval) * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		raw, err := dev.ReadTimeout(time.Second)
		if err != nil {
			log.Warnf("hx711: read error: %v", err)
			continue
		}

		rd := reading.Reading{
			Value:   (float64(raw) - float64(cfg.HX711Offset)) / cfg.HX711Scale,
			Channel: reading.ChannelWeight,
			At:      time.Now(),
		}
		payload, err := json.Marshal(rd)
		if err != nil {
			log.Errorf("hx711: json marshal error: %v", err)
			continue
		}

		token := client.Publish(cfg.TopicWeight, 0, false, payload)
		token.Wait()
		if token.Error() != nil {
			log.Errorf("hx711: publish error: %v", token.Error())
		}
	}
	return nil
}
