// Copyright (c) 2026 Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// DefaultPath is the config file looked up by the rig binaries.
const DefaultPath = "grip_config.txt"

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDRecorder string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string

	// Topics
	TopicWeight  string
	TopicFSR     string
	TopicCommand string

	// Serial device
	SerialPort string
	SerialBaud uint

	// HX711 load cell (direct GPIO wiring, optional)
	HX711ClockPin       string
	HX711DataPin        string
	HX711Scale          float64 // raw counts per kg
	HX711Offset         int32   // tare offset in raw counts
	HX711SampleInterval int     // milliseconds

	// Paths
	RecordingsDir string
	StoreDir      string

	// Timing
	ConsoleLogInterval int // milliseconds

	// Web server
	WebServerPort int

	// Watcher
	WatcherSettleSeconds int

	// Logging
	LogLevel string
}

// Package-level singleton, initialized once via InitGlobal and read through
// Get. The RWMutex keeps Get safe from any goroutine.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// defaults returns a Config pre-filled with the values a bench setup
// usually runs with; the file only needs to override what differs.
func defaults() *Config {
	return &Config{
		MQTTBroker:           "tcp://localhost:1883",
		MQTTClientIDProducer: "grip-rig-producer",
		MQTTClientIDRecorder: "grip-rig-recorder",
		MQTTClientIDConsole:  "grip-rig-console",
		MQTTClientIDWeb:      "grip-rig-web",
		TopicWeight:          "grip/reading/weight",
		TopicFSR:             "grip/reading/fsr",
		TopicCommand:         "grip/command",
		SerialPort:           "/dev/ttyUSB0",
		SerialBaud:           9600,
		HX711ClockPin:        "GPIO6",
		HX711DataPin:         "GPIO5",
		HX711Scale:           21500,
		HX711SampleInterval:  100,
		RecordingsDir:        "recordings",
		StoreDir:             "trialstore",
		ConsoleLogInterval:   1000,
		WebServerPort:        8080,
		WatcherSettleSeconds: 5,
		LogLevel:             "info",
	}
}

// Load reads the KEY=VALUE configuration file and returns a Config struct.
// A missing file is not an error: the defaults cover a standard bench setup.
func Load(configPath string) (*Config, error) {
	cfg := defaults()

	values, err := godotenv.Read(configPath)
	if os.IsNotExist(err) {
		values = nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	for key, value := range values {
		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config %s: %w", configPath, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_RECORDER":
		c.MQTTClientIDRecorder = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value

	// Topics
	case "TOPIC_WEIGHT":
		c.TopicWeight = value
	case "TOPIC_FSR":
		c.TopicFSR = value
	case "TOPIC_COMMAND":
		c.TopicCommand = value

	// Serial
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD":
		baud, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid SERIAL_BAUD %q: %w", value, err)
		}
		c.SerialBaud = uint(baud)

	// HX711
	case "HX711_CLOCK_PIN":
		c.HX711ClockPin = value
	case "HX711_DATA_PIN":
		c.HX711DataPin = value
	case "HX711_SCALE":
		scale, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid HX711_SCALE %q: %w", value, err)
		}
		if scale == 0 {
			return fmt.Errorf("HX711_SCALE must be non-zero")
		}
		c.HX711Scale = scale
	case "HX711_OFFSET":
		offset, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid HX711_OFFSET %q: %w", value, err)
		}
		c.HX711Offset = int32(offset)
	case "HX711_SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid HX711_SAMPLE_INTERVAL %q: %w", value, err)
		}
		c.HX711SampleInterval = interval

	// Paths
	case "RECORDINGS_DIR":
		c.RecordingsDir = value
	case "STORE_DIR":
		c.StoreDir = value

	// Timing
	case "CONSOLE_LOG_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CONSOLE_LOG_INTERVAL %q: %w", value, err)
		}
		c.ConsoleLogInterval = interval

	// Web server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Watcher
	case "WATCHER_SETTLE_SECONDS":
		secs, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WATCHER_SETTLE_SECONDS %q: %w", value, err)
		}
		c.WatcherSettleSeconds = secs

	// Logging
	case "LOG_LEVEL":
		c.LogLevel = value

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.SerialPort == "" {
		return fmt.Errorf("SERIAL_PORT is required")
	}
	if c.SerialBaud == 0 {
		return fmt.Errorf("SERIAL_BAUD is required")
	}
	if c.RecordingsDir == "" {
		return fmt.Errorf("RECORDINGS_DIR is required")
	}
	if c.StoreDir == "" {
		return fmt.Errorf("STORE_DIR is required")
	}
	if c.ConsoleLogInterval <= 0 {
		return fmt.Errorf("CONSOLE_LOG_INTERVAL must be positive")
	}
	if c.WatcherSettleSeconds <= 0 {
		return fmt.Errorf("WATCHER_SETTLE_SECONDS must be positive")
	}
	return nil
}

// InitGlobal initializes the global configuration from file. Uses sync.Once
// so repeated calls are harmless.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance. InitGlobal must be called
// first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
