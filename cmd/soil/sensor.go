package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"

	"github.com/mklimuk/soil"
	"github.com/mklimuk/soil/adapter"
	"github.com/mklimuk/soil/gobotio"
	"github.com/mklimuk/soil/i2c"
	"github.com/mklimuk/soil/seesaw"
)

// soilSensor is the driver surface the commands consume; satisfied by the
// real sensor and by the hardware-free mock.
type soilSensor interface {
	Temperature(ctx context.Context) (float32, error)
	Moisture(ctx context.Context) (uint16, error)
	Read(ctx context.Context) (seesaw.Reading, error)
}

// sensorHandle bundles an assembled sensor with the transport teardown and
// the resolved configuration the commands print and tag readings with.
type sensorHandle struct {
	sensor  soilSensor
	address byte
	unit    seesaw.TemperatureUnit
	close   func()
}

func sensorFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "adapter",
			Aliases: []string{"a"},
			Usage:   "transport adapter: mcp2221, generic, nanopi or mock",
		},
		&cli.StringFlag{
			Name:    "device",
			Aliases: []string{"d"},
			Usage:   "i2c device path for the generic adapter",
		},
		&cli.IntFlag{
			Name:  "bus",
			Usage: "i2c bus number for the nanopi adapter",
		},
		&cli.StringFlag{
			Name:  "speed",
			Usage: "bus clock for the generic adapter, e.g. 100kHz or 400kHz",
		},
		&cli.StringFlag{
			Name:  "address",
			Usage: "sensor address, e.g. 0x36",
		},
		&cli.BoolFlag{
			Name:  "a0",
			Usage: "A0 strap pad bridged (adds 1 to the base address, overrides --address)",
		},
		&cli.BoolFlag{
			Name:  "a1",
			Usage: "A1 strap pad bridged (adds 2 to the base address, overrides --address)",
		},
		&cli.StringFlag{
			Name:    "unit",
			Aliases: []string{"u"},
			Usage:   "temperature unit: celsius or fahrenheit",
		},
		&cli.UintFlag{
			Name:  "temp-delay-ns",
			Usage: "settling delay between temperature register write and read",
		},
		&cli.UintFlag{
			Name:  "moisture-delay-ns",
			Usage: "settling delay between moisture register write and read",
		},
	}
}

// loadConfig resolves the configuration for a command invocation: file and
// env through LoadConfig, then flags on top.
func loadConfig(c *cli.Context) (Config, error) {
	cfg, err := LoadConfig(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if c.IsSet("adapter") {
		cfg.Transport.Adapter = c.String("adapter")
	}
	if c.IsSet("device") {
		cfg.Transport.Device = c.String("device")
	}
	if c.IsSet("bus") {
		cfg.Transport.Bus = c.Int("bus")
	}
	if c.IsSet("speed") {
		cfg.Transport.Speed = c.String("speed")
	}
	if c.IsSet("address") {
		addr, err := parseAddress(c.String("address"))
		if err != nil {
			return cfg, err
		}
		cfg.Sensor.Address = addr
	}
	if c.IsSet("a0") {
		cfg.Sensor.A0 = c.Bool("a0")
	}
	if c.IsSet("a1") {
		cfg.Sensor.A1 = c.Bool("a1")
	}
	if c.IsSet("unit") {
		cfg.Sensor.Unit = c.String("unit")
	}
	if c.IsSet("temp-delay-ns") {
		ns, err := checkDelayNs("temp-delay-ns", uint64(c.Uint("temp-delay-ns")))
		if err != nil {
			return cfg, err
		}
		cfg.Sensor.TemperatureDelayNs = ns
	}
	if c.IsSet("moisture-delay-ns") {
		ns, err := checkDelayNs("moisture-delay-ns", uint64(c.Uint("moisture-delay-ns")))
		if err != nil {
			return cfg, err
		}
		cfg.Sensor.MoistureDelayNs = ns
	}
	if c.IsSet("influx-url") {
		cfg.Influx.URL = c.String("influx-url")
	}
	if c.IsSet("influx-org") {
		cfg.Influx.Organization = c.String("influx-org")
	}
	if c.IsSet("influx-bucket") {
		cfg.Influx.Bucket = c.String("influx-bucket")
	}
	if c.IsSet("influx-measurement") {
		cfg.Influx.Measurement = c.String("influx-measurement")
	}
	if c.IsSet("influx-token") {
		cfg.Influx.Token = c.String("influx-token")
	}
	if _, err := parseUnit(cfg.Sensor.Unit); err != nil {
		return cfg, err
	}
	if _, err := parseSpeed(cfg.Transport.Speed); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// openTransport selects and initializes the bus implementation.
func openTransport(cfg Config) (soil.I2CBus, func(), error) {
	switch cfg.Transport.Adapter {
	case "mcp2221":
		a := adapter.NewMCP2221()
		if err := a.Init(); err != nil {
			return nil, nil, fmt.Errorf("adapter initialization error: %w", err)
		}
		return a, func() { _ = a.Close() }, nil
	case "generic":
		bus, err := i2c.NewGenericBus(cfg.Transport.Device)
		if err != nil {
			return nil, nil, fmt.Errorf("adapter initialization error: %w", err)
		}
		if cfg.Transport.Speed != "" {
			speed, err := parseSpeed(cfg.Transport.Speed)
			if err != nil {
				_ = bus.Close()
				return nil, nil, err
			}
			if err = bus.SetSpeed(speed); err != nil {
				_ = bus.Close()
				return nil, nil, fmt.Errorf("could not set bus speed %s: %w", speed, err)
			}
		}
		return bus, func() { _ = bus.Close() }, nil
	case "nanopi":
		npi := nanopi.NewNeoAdaptor()
		if err := npi.I2cBusAdaptor.Connect(); err != nil {
			return nil, nil, fmt.Errorf("adaptor connect error: %w", err)
		}
		bus := gobotio.NewBus(npi, cfg.Transport.Bus)
		return bus, func() {
			_ = bus.Close()
			_ = npi.I2cBusAdaptor.Finalize()
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown adapter %q (use mcp2221, generic, nanopi or mock)", cfg.Transport.Adapter)
}

// sensorFromConfig assembles the driver on top of the configured transport.
func sensorFromConfig(cfg Config) (*sensorHandle, error) {
	unit, err := parseUnit(cfg.Sensor.Unit)
	if err != nil {
		return nil, err
	}
	handle := &sensorHandle{
		address: cfg.Sensor.deviceAddress(),
		unit:    unit,
		close:   func() {},
	}
	if cfg.Transport.Adapter == "mock" {
		handle.sensor = demoSensor(unit)
		return handle, nil
	}
	bus, closeTransport, err := openTransport(cfg)
	if err != nil {
		return nil, err
	}
	sensor := seesaw.New(bus, soil.SleepDelay{}).
		WithUnit(unit).
		WithAddress(cfg.Sensor.Address).
		WithDelay(cfg.Sensor.TemperatureDelayNs, cfg.Sensor.MoistureDelayNs)
	if cfg.Sensor.A0 || cfg.Sensor.A1 {
		sensor = sensor.WithAddressPins(cfg.Sensor.A0, cfg.Sensor.A1)
	}
	handle.sensor = sensor
	handle.close = closeTransport
	return handle, nil
}

// demoSensor fakes a pot on a windowsill: steady temperature, slowly drying
// soil. Useful for trying the tooling without a probe attached.
func demoSensor(unit seesaw.TemperatureUnit) *seesaw.MockSoilSensor {
	temperature := float32(22.5)
	if unit == seesaw.Fahrenheit {
		temperature = temperature*1.8 + 32.0
	}
	moisture := uint16(820)
	return seesaw.NewMockSoilSensor(
		func(ctx context.Context) (float32, error) {
			return temperature, nil
		},
		func(ctx context.Context) (uint16, error) {
			if moisture > 200 {
				moisture -= 5
			}
			return moisture, nil
		},
	)
}
