package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"

	"github.com/mklimuk/soil/seesaw"
)

// clearSoilEnv blanks every override variable so tests see only what they
// set; t.Setenv restores the environment afterwards.
func clearSoilEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SOIL_ADAPTER", "SOIL_DEVICE", "SOIL_BUS", "SOIL_SPEED",
		"SOIL_ADDRESS", "SOIL_A0", "SOIL_A1", "SOIL_UNIT",
		"SOIL_TEMPERATURE_DELAY_NS", "SOIL_MOISTURE_DELAY_NS",
		"SOIL_INFLUX_URL", "SOIL_INFLUX_ORG", "SOIL_INFLUX_BUCKET",
		"SOIL_INFLUX_MEASUREMENT", "SOIL_INFLUX_TOKEN",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearSoilEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "mcp2221", cfg.Transport.Adapter)
	assert.Equal(t, "/dev/i2c-1", cfg.Transport.Device)
	assert.Equal(t, 0, cfg.Transport.Bus)
	assert.Empty(t, cfg.Transport.Speed)
	assert.Equal(t, seesaw.DefaultAddress, cfg.Sensor.Address)
	assert.Equal(t, "fahrenheit", cfg.Sensor.Unit)
	assert.Equal(t, seesaw.DefaultTemperatureDelayNs, cfg.Sensor.TemperatureDelayNs)
	assert.Equal(t, seesaw.DefaultMoistureDelayNs, cfg.Sensor.MoistureDelayNs)
	assert.Empty(t, cfg.Influx.URL)
}

func TestLoadConfig_Precedence(t *testing.T) {
	clearSoilEnv(t)

	path := filepath.Join(t.TempDir(), "soil.yaml")
	file := `transport:
  adapter: generic
  device: /dev/i2c-7
  speed: 400kHz
sensor:
  address: 0x38
  unit: celsius
influx:
  url: http://influx.local:8086
  bucket: plants
  tags:
    greenhouse: north
`
	require.NoError(t, os.WriteFile(path, []byte(file), 0o644))

	t.Setenv("SOIL_DEVICE", "/dev/i2c-2")
	t.Setenv("SOIL_TEMPERATURE_DELAY_NS", "250000")
	t.Setenv("SOIL_INFLUX_TOKEN", "secret")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// file over default
	assert.Equal(t, "generic", cfg.Transport.Adapter)
	assert.Equal(t, "400kHz", cfg.Transport.Speed)
	assert.Equal(t, byte(0x38), cfg.Sensor.Address)
	assert.Equal(t, "celsius", cfg.Sensor.Unit)
	assert.Equal(t, "http://influx.local:8086", cfg.Influx.URL)
	assert.Equal(t, "plants", cfg.Influx.Bucket)
	assert.Equal(t, map[string]string{"greenhouse": "north"}, cfg.Influx.Tags)

	// env over file
	assert.Equal(t, "/dev/i2c-2", cfg.Transport.Device)
	assert.Equal(t, uint32(250_000), cfg.Sensor.TemperatureDelayNs)
	assert.Equal(t, "secret", cfg.Influx.Token)

	// untouched values keep their defaults
	assert.Equal(t, seesaw.DefaultMoistureDelayNs, cfg.Sensor.MoistureDelayNs)
}

func TestLoadConfig_MalformedEnvKeepsValue(t *testing.T) {
	clearSoilEnv(t)

	t.Setenv("SOIL_ADDRESS", "not-a-number")
	t.Setenv("SOIL_BUS", "2")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, seesaw.DefaultAddress, cfg.Sensor.Address)
	assert.Equal(t, 2, cfg.Transport.Bus)
}

func TestLoadConfig_Errors(t *testing.T) {
	clearSoilEnv(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "could not read config file")

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sensor: ["), 0o644))
	_, err = LoadConfig(path)
	assert.ErrorContains(t, err, "could not parse config file")

	t.Setenv("SOIL_UNIT", "kelvin")
	_, err = LoadConfig("")
	assert.ErrorContains(t, err, "unknown temperature unit")
	t.Setenv("SOIL_UNIT", "")

	t.Setenv("SOIL_SPEED", "fast")
	_, err = LoadConfig("")
	assert.ErrorContains(t, err, "could not parse bus speed")
}

func TestSensorConfig_DeviceAddress(t *testing.T) {
	tests := []struct {
		name     string
		config   SensorConfig
		expected byte
	}{
		{
			name:     "explicit address",
			config:   SensorConfig{Address: 0x42},
			expected: 0x42,
		},
		{
			name:     "a0 bridged",
			config:   SensorConfig{Address: 0x42, A0: true},
			expected: 0x37,
		},
		{
			name:     "a1 bridged",
			config:   SensorConfig{Address: 0x42, A1: true},
			expected: 0x38,
		},
		{
			name:     "both pads derive from base, not the explicit address",
			config:   SensorConfig{Address: 0x42, A0: true, A1: true},
			expected: 0x39,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.deviceAddress())
		})
	}
}

func TestParseUnit(t *testing.T) {
	unit, err := parseUnit("celsius")
	assert.NoError(t, err)
	assert.Equal(t, seesaw.Celsius, unit)

	unit, err = parseUnit("fahrenheit")
	assert.NoError(t, err)
	assert.Equal(t, seesaw.Fahrenheit, unit)

	_, err = parseUnit("kelvin")
	assert.ErrorContains(t, err, "unknown temperature unit")
}

func TestParseAddress(t *testing.T) {
	addr, err := parseAddress("0x39")
	assert.NoError(t, err)
	assert.Equal(t, byte(0x39), addr)

	addr, err = parseAddress("54")
	assert.NoError(t, err)
	assert.Equal(t, byte(54), addr)

	_, err = parseAddress("0x1234")
	assert.Error(t, err)
}

func TestParseSpeed(t *testing.T) {
	speed, err := parseSpeed("")
	assert.NoError(t, err)
	assert.Equal(t, physic.Frequency(0), speed)

	speed, err = parseSpeed("400kHz")
	assert.NoError(t, err)
	assert.Equal(t, 400*physic.KiloHertz, speed)

	speed, err = parseSpeed("100kHz")
	assert.NoError(t, err)
	assert.Equal(t, 100*physic.KiloHertz, speed)

	_, err = parseSpeed("fast")
	assert.ErrorContains(t, err, "could not parse bus speed")
}

func TestCheckDelayNs(t *testing.T) {
	ns, err := checkDelayNs("temp-delay-ns", 125_000)
	assert.NoError(t, err)
	assert.Equal(t, uint32(125_000), ns)

	// the full 32-bit range is usable
	ns, err = checkDelayNs("temp-delay-ns", math.MaxUint32)
	assert.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), ns)

	_, err = checkDelayNs("moisture-delay-ns", uint64(math.MaxUint32)+1)
	assert.ErrorContains(t, err, "overflows the 32-bit nanosecond range")
	assert.ErrorContains(t, err, "moisture-delay-ns")
}
