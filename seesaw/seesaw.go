package seesaw

import (
	"context"
	"encoding/binary"

	"github.com/mklimuk/soil"
)

// Register pointers of the seesaw firmware running on the sensor. A register
// is addressed with two bytes: module base, then function offset.
const (
	statusBase byte = 0x00
	statusTemp byte = 0x04
	touchBase  byte = 0x0F
	touchRead  byte = 0x10
)

// DefaultAddress is the address with both strap pads open. Bridging A0 adds
// one, bridging A1 adds two.
const DefaultAddress byte = 0x36

// Settling times between the register pointer write and the data read. The
// firmware samples asynchronously; reading back earlier than this does not
// fail, it returns stale data.
const (
	DefaultTemperatureDelayNs uint32 = 125_000
	DefaultMoistureDelayNs    uint32 = 5_000_000
)

// tempScale is the temperature register resolution, 1/65536 °C per LSB.
const tempScale float32 = 0.000015258789

type TemperatureUnit uint8

const (
	Celsius TemperatureUnit = iota
	Fahrenheit
)

func (u TemperatureUnit) String() string {
	if u == Celsius {
		return "celsius"
	}
	return "fahrenheit"
}

// SoilSensor drives the Adafruit STEMMA capacitive soil sensor (product
// 4026), an ATSAMD10 running the seesaw firmware.
// See: https://learn.adafruit.com/adafruit-stemma-soil-sensor-i2c-capacitive-moisture-sensor
//
// Construct with New. Configuration setters return a modified copy, so
// derived sensors never share mutable state:
//
//	sensor := seesaw.New(bus, soil.SleepDelay{}).WithUnit(seesaw.Celsius)
//
// A sensor value supports one transaction at a time; wrap the transport in a
// mutex-carrying implementation when several goroutines share the bus.
type SoilSensor struct {
	transport       soil.I2CBus
	delay           soil.Delay
	unit            TemperatureUnit
	address         byte
	tempDelayNs     uint32
	moistureDelayNs uint32
}

// New returns a sensor configured with the default address, Fahrenheit
// readings and the datasheet settling delays.
func New(transport soil.I2CBus, delay soil.Delay) SoilSensor {
	return SoilSensor{
		transport:       transport,
		delay:           delay,
		unit:            Fahrenheit,
		address:         DefaultAddress,
		tempDelayNs:     DefaultTemperatureDelayNs,
		moistureDelayNs: DefaultMoistureDelayNs,
	}
}

func (sensor SoilSensor) WithUnit(unit TemperatureUnit) SoilSensor {
	sensor.unit = unit
	return sensor
}

// WithAddress sets the device address. Any byte is accepted; the sensor does
// not validate bus ranges.
func (sensor SoilSensor) WithAddress(address byte) SoilSensor {
	sensor.address = address
	return sensor
}

// WithAddressPins derives the address from the A0/A1 strap pads. It always
// recomputes from the base address, discarding any previously set one.
func (sensor SoilSensor) WithAddressPins(a0, a1 bool) SoilSensor {
	sensor.address = DefaultAddress
	if a0 {
		sensor.address++
	}
	if a1 {
		sensor.address += 2
	}
	return sensor
}

// WithDelay sets both settling delays, in nanoseconds.
func (sensor SoilSensor) WithDelay(temperatureNs, moistureNs uint32) SoilSensor {
	sensor.tempDelayNs = temperatureNs
	sensor.moistureDelayNs = moistureNs
	return sensor
}

func (sensor SoilSensor) WithTemperatureDelay(ns uint32) SoilSensor {
	sensor.tempDelayNs = ns
	return sensor
}

func (sensor SoilSensor) WithMoistureDelay(ns uint32) SoilSensor {
	sensor.moistureDelayNs = ns
	return sensor
}

// Reading is a combined measurement. Temperature is in the sensor's
// configured unit, Moisture is the raw capacitance (roughly 200 in air,
// 2000 submerged).
type Reading struct {
	Temperature float32 `yaml:"temperature"`
	Moisture    uint16  `yaml:"moisture"`
}

// Temperature reads the internal temperature register, converted to the
// configured unit. The vendor rates the reading at ±2°C; it is a trend
// indicator, not a calibrated thermometer.
func (sensor SoilSensor) Temperature(ctx context.Context) (float32, error) {
	resp := make([]byte, 4)
	err := sensor.transact(ctx, []byte{statusBase, statusTemp}, resp, sensor.tempDelayNs)
	if err != nil {
		return 0, err
	}
	celsius := float32(int32(binary.BigEndian.Uint32(resp))) * tempScale
	if sensor.unit == Fahrenheit {
		return celsius*1.8 + 32.0, nil
	}
	return celsius, nil
}

// Moisture reads the raw probe capacitance. No scaling is applied.
func (sensor SoilSensor) Moisture(ctx context.Context) (uint16, error) {
	resp := make([]byte, 2)
	err := sensor.transact(ctx, []byte{touchBase, touchRead}, resp, sensor.moistureDelayNs)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(resp), nil
}

// Read takes both measurements in sequence, temperature first. The two are
// separate bus transactions; a temperature failure aborts before the
// moisture transaction starts.
func (sensor SoilSensor) Read(ctx context.Context) (Reading, error) {
	temperature, err := sensor.Temperature(ctx)
	if err != nil {
		return Reading{}, err
	}
	moisture, err := sensor.Moisture(ctx)
	if err != nil {
		return Reading{}, err
	}
	return Reading{Temperature: temperature, Moisture: moisture}, nil
}

// transact runs one register transaction: point, settle, read back. There is
// no retry; the first failing phase aborts the transaction and names itself
// in the returned error.
func (sensor SoilSensor) transact(ctx context.Context, pointer, resp []byte, delayNs uint32) error {
	if err := sensor.transport.WriteToAddr(ctx, sensor.address, pointer); err != nil {
		return &Error{Kind: WriteError, Cause: err}
	}
	sensor.delay.Delay(delayNs)
	if err := sensor.transport.ReadFromAddr(ctx, sensor.address, resp); err != nil {
		return &Error{Kind: ReadError, Cause: err}
	}
	return nil
}
