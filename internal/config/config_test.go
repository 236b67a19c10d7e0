package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grip_config.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
# bench setup
SERIAL_PORT=/dev/ttyACM0
SERIAL_BAUD=115200
WEB_SERVER_PORT=9090
HX711_SCALE=12345.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", cfg.SerialPort)
	assert.Equal(t, uint(115200), cfg.SerialBaud)
	assert.Equal(t, 9090, cfg.WebServerPort)
	assert.Equal(t, 12345.5, cfg.HX711Scale)

	// untouched keys keep their defaults
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
	assert.Equal(t, "grip/reading/weight", cfg.TopicWeight)
	assert.Equal(t, 1000, cfg.ConsoleLogInterval)
}

func TestLoadUnknownKey(t *testing.T) {
	path := writeConfig(t, "SERIAL_SPEED=9600\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown config key")
}

func TestLoadBadValue(t *testing.T) {
	path := writeConfig(t, "SERIAL_BAUD=fast\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "SERIAL_BAUD")
}

func TestLoadValidation(t *testing.T) {
	path := writeConfig(t, "RECORDINGS_DIR=\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "RECORDINGS_DIR is required")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.txt"))
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", cfg.SerialPort)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
}
