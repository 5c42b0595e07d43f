package seesaw

import (
	"context"
	"fmt"
	"testing"
)

func TestMockSoilSensor_StaticValues(t *testing.T) {
	// Create a mock that always returns the same reading
	sensor := NewMockSoilSensor(
		func(ctx context.Context) (float32, error) {
			return 72.5, nil
		},
		func(ctx context.Context) (uint16, error) {
			return 650, nil
		},
	)

	ctx := context.Background()
	reading, err := sensor.Read(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reading.Temperature != 72.5 {
		t.Errorf("expected temperature 72.5, got %f", reading.Temperature)
	}
	if reading.Moisture != 650 {
		t.Errorf("expected moisture 650, got %d", reading.Moisture)
	}
}

func TestMockSoilSensor_DynamicBehavior(t *testing.T) {
	// Simulate a pot drying out between readings
	moisture := uint16(900)

	sensor := NewMockSoilSensor(
		func(ctx context.Context) (float32, error) {
			return 71.0, nil
		},
		func(ctx context.Context) (uint16, error) {
			moisture -= 50
			return moisture, nil
		},
	)

	ctx := context.Background()

	first, err := sensor.Moisture(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != 850 {
		t.Errorf("first call: expected 850, got %d", first)
	}

	second, err := sensor.Moisture(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != 800 {
		t.Errorf("second call: expected 800, got %d", second)
	}
}

func TestMockSoilSensor_ErrorPropagation(t *testing.T) {
	sensor := NewMockSoilSensor(
		func(ctx context.Context) (float32, error) {
			return 0, fmt.Errorf("probe disconnected")
		},
		func(ctx context.Context) (uint16, error) {
			return 650, nil
		},
	)

	ctx := context.Background()
	_, err := sensor.Temperature(ctx)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "probe disconnected" {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestMockSoilSensor_ReadShortCircuitsOnTemperatureError(t *testing.T) {
	moistureCalls := 0

	sensor := NewMockSoilSensor(
		func(ctx context.Context) (float32, error) {
			return 0, fmt.Errorf("probe disconnected")
		},
		func(ctx context.Context) (uint16, error) {
			moistureCalls++
			return 650, nil
		},
	)

	ctx := context.Background()
	_, err := sensor.Read(ctx)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	// the moisture behavior must not run when temperature fails
	if moistureCalls != 0 {
		t.Errorf("expected no moisture calls, got %d", moistureCalls)
	}
}

func TestMockSoilSensor_ContextUsage(t *testing.T) {
	// Verify that context is passed through to the behavior functions
	var receivedCtx context.Context

	sensor := NewMockSoilSensor(
		func(ctx context.Context) (float32, error) {
			receivedCtx = ctx
			return 70.0, nil
		},
		func(ctx context.Context) (uint16, error) {
			return 650, nil
		},
	)

	type contextKey string
	key := contextKey("test")
	ctx := context.WithValue(context.Background(), key, "test-value")

	_, err := sensor.Temperature(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if receivedCtx.Value(key) != "test-value" {
		t.Error("context was not passed through correctly")
	}
}
