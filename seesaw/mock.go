package seesaw

import (
	"context"
)

// TemperatureBehaviorFunc defines the function signature for temperature behavior.
// It returns the temperature in the mocked sensor's unit or an error.
type TemperatureBehaviorFunc func(ctx context.Context) (float32, error)

// MoistureBehaviorFunc defines the function signature for moisture behavior.
// It returns the raw capacitance value or an error.
type MoistureBehaviorFunc func(ctx context.Context) (uint16, error)

// MockSoilSensor is a mock implementation of the soil sensor that uses
// behavior functions to produce results without requiring any hardware.
type MockSoilSensor struct {
	tempBehavior     TemperatureBehaviorFunc
	moistureBehavior MoistureBehaviorFunc
}

// NewMockSoilSensor creates a new mock soil sensor with the given behavior functions.
// The temperature behavior is called by Temperature() and Read().
// The moisture behavior is called by Moisture() and Read().
//
// Example usage:
//
//	// Simple static values
//	sensor := NewMockSoilSensor(
//		func(ctx context.Context) (float32, error) { return 72.5, nil },
//		func(ctx context.Context) (uint16, error) { return 650, nil },
//	)
//
//	// Drying pot
//	moisture := uint16(900)
//	sensor := NewMockSoilSensor(
//		func(ctx context.Context) (float32, error) { return 71.0, nil },
//		func(ctx context.Context) (uint16, error) { moisture -= 10; return moisture, nil },
//	)
func NewMockSoilSensor(tempBehavior TemperatureBehaviorFunc, moistureBehavior MoistureBehaviorFunc) *MockSoilSensor {
	return &MockSoilSensor{
		tempBehavior:     tempBehavior,
		moistureBehavior: moistureBehavior,
	}
}

// Temperature returns the temperature by calling the temperature behavior function.
func (m *MockSoilSensor) Temperature(ctx context.Context) (float32, error) {
	return m.tempBehavior(ctx)
}

// Moisture returns the raw moisture by calling the moisture behavior function.
func (m *MockSoilSensor) Moisture(ctx context.Context) (uint16, error) {
	return m.moistureBehavior(ctx)
}

// Read returns a combined reading, calling the temperature behavior first
// and skipping the moisture behavior when it fails, like the real sensor.
func (m *MockSoilSensor) Read(ctx context.Context) (Reading, error) {
	temperature, err := m.tempBehavior(ctx)
	if err != nil {
		return Reading{}, err
	}
	moisture, err := m.moistureBehavior(ctx)
	if err != nil {
		return Reading{}, err
	}
	return Reading{Temperature: temperature, Moisture: moisture}, nil
}
