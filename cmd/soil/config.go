package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"

	"github.com/mklimuk/soil/seesaw"
)

// Config collects everything the commands need to assemble a transport and a
// sensor. Values resolve in precedence order: command-line flag, SOIL_* env
// variable, yaml file, default.
type Config struct {
	Transport TransportConfig `yaml:"transport"`
	Sensor    SensorConfig    `yaml:"sensor"`
	Influx    InfluxConfig    `yaml:"influx"`
}

type TransportConfig struct {
	// Adapter selects the bus implementation: mcp2221, generic, nanopi or
	// mock (no hardware, demo readings).
	Adapter string `yaml:"adapter"`
	// Device is the /dev/i2c-* path used by the generic adapter.
	Device string `yaml:"device"`
	// Bus is the i2c bus number used by the nanopi adapter.
	Bus int `yaml:"bus"`
	// Speed is the bus clock applied by the generic adapter, e.g. 100kHz or
	// 400kHz. Empty keeps the bus default.
	Speed string `yaml:"speed"`
}

type SensorConfig struct {
	Address            uint8  `yaml:"address"`
	A0                 bool   `yaml:"a0"`
	A1                 bool   `yaml:"a1"`
	Unit               string `yaml:"unit"`
	TemperatureDelayNs uint32 `yaml:"temperature_delay_ns"`
	MoistureDelayNs    uint32 `yaml:"moisture_delay_ns"`
}

type InfluxConfig struct {
	URL          string            `yaml:"url"`
	Organization string            `yaml:"organization"`
	Bucket       string            `yaml:"bucket"`
	Measurement  string            `yaml:"measurement"`
	Token        string            `yaml:"token"`
	Tags         map[string]string `yaml:"tags"`
}

// deviceAddress resolves the address the sensor will answer on, mirroring the
// strap-pad derivation the driver applies. Bridged pads win over an explicit
// address.
func (s SensorConfig) deviceAddress() byte {
	if s.A0 || s.A1 {
		addr := seesaw.DefaultAddress
		if s.A0 {
			addr++
		}
		if s.A1 {
			addr += 2
		}
		return addr
	}
	return s.Address
}

// LoadConfig builds the configuration from defaults, then the yaml file at
// path (optional), then SOIL_* environment variables. A .env file in the
// working directory is picked up before the environment is read.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		Transport: TransportConfig{
			Adapter: "mcp2221",
			Device:  "/dev/i2c-1",
		},
		Sensor: SensorConfig{
			Address:            seesaw.DefaultAddress,
			Unit:               seesaw.Fahrenheit.String(),
			TemperatureDelayNs: seesaw.DefaultTemperatureDelayNs,
			MoistureDelayNs:    seesaw.DefaultMoistureDelayNs,
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("could not read config file %s: %w", path, err)
		}
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("could not parse config file %s: %w", path, err)
		}
		slog.Debug("loaded configuration file", "path", path)
	}

	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	if val := os.Getenv("SOIL_ADAPTER"); val != "" {
		cfg.Transport.Adapter = val
	}
	if val := os.Getenv("SOIL_DEVICE"); val != "" {
		cfg.Transport.Device = val
	}
	envInt("SOIL_BUS", &cfg.Transport.Bus)
	if val := os.Getenv("SOIL_SPEED"); val != "" {
		cfg.Transport.Speed = val
	}
	envByte("SOIL_ADDRESS", &cfg.Sensor.Address)
	envBool("SOIL_A0", &cfg.Sensor.A0)
	envBool("SOIL_A1", &cfg.Sensor.A1)
	if val := os.Getenv("SOIL_UNIT"); val != "" {
		cfg.Sensor.Unit = val
	}
	envUint32("SOIL_TEMPERATURE_DELAY_NS", &cfg.Sensor.TemperatureDelayNs)
	envUint32("SOIL_MOISTURE_DELAY_NS", &cfg.Sensor.MoistureDelayNs)
	if val := os.Getenv("SOIL_INFLUX_URL"); val != "" {
		cfg.Influx.URL = val
	}
	if val := os.Getenv("SOIL_INFLUX_ORG"); val != "" {
		cfg.Influx.Organization = val
	}
	if val := os.Getenv("SOIL_INFLUX_BUCKET"); val != "" {
		cfg.Influx.Bucket = val
	}
	if val := os.Getenv("SOIL_INFLUX_MEASUREMENT"); val != "" {
		cfg.Influx.Measurement = val
	}
	if val := os.Getenv("SOIL_INFLUX_TOKEN"); val != "" {
		cfg.Influx.Token = val
	}

	if _, err := parseUnit(cfg.Sensor.Unit); err != nil {
		return cfg, err
	}
	if _, err := parseSpeed(cfg.Transport.Speed); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// env overrides keep the previous value on a malformed variable; the warning
// names the variable so the typo is findable.

func envInt(key string, target *int) {
	val := os.Getenv(key)
	if val == "" {
		return
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		slog.Warn("ignoring malformed env variable", "variable", key, "value", val, "error", err)
		return
	}
	*target = parsed
}

func envByte(key string, target *uint8) {
	val := os.Getenv(key)
	if val == "" {
		return
	}
	parsed, err := strconv.ParseUint(val, 0, 8)
	if err != nil {
		slog.Warn("ignoring malformed env variable", "variable", key, "value", val, "error", err)
		return
	}
	*target = uint8(parsed)
}

func envUint32(key string, target *uint32) {
	val := os.Getenv(key)
	if val == "" {
		return
	}
	parsed, err := strconv.ParseUint(val, 0, 32)
	if err != nil {
		slog.Warn("ignoring malformed env variable", "variable", key, "value", val, "error", err)
		return
	}
	*target = uint32(parsed)
}

func envBool(key string, target *bool) {
	val := os.Getenv(key)
	if val == "" {
		return
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		slog.Warn("ignoring malformed env variable", "variable", key, "value", val, "error", err)
		return
	}
	*target = parsed
}

func parseUnit(unit string) (seesaw.TemperatureUnit, error) {
	switch unit {
	case "celsius":
		return seesaw.Celsius, nil
	case "fahrenheit", "":
		return seesaw.Fahrenheit, nil
	}
	return seesaw.Fahrenheit, fmt.Errorf("unknown temperature unit %q (use celsius or fahrenheit)", unit)
}

func parseAddress(address string) (byte, error) {
	parsed, err := strconv.ParseUint(address, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("could not parse address %q: %w", address, err)
	}
	return byte(parsed), nil
}

// parseSpeed reads a bus clock with its unit, e.g. 100kHz. Empty means the
// bus default and parses to zero.
func parseSpeed(speed string) (physic.Frequency, error) {
	if speed == "" {
		return 0, nil
	}
	var frequency physic.Frequency
	if err := frequency.Set(speed); err != nil {
		return 0, fmt.Errorf("could not parse bus speed %q: %w", speed, err)
	}
	return frequency, nil
}

// checkDelayNs bounds a delay flag to the driver's 32-bit nanosecond range,
// the same limit the env override path enforces.
func checkDelayNs(name string, ns uint64) (uint32, error) {
	if ns > math.MaxUint32 {
		return 0, fmt.Errorf("delay flag %s overflows the 32-bit nanosecond range: %d", name, ns)
	}
	return uint32(ns), nil
}
