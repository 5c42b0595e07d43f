package store

import (
	"context"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/pkg/errors"

	"github.com/mklimuk/soil/seesaw"
)

const defaultMeasurement = "soil"

// InfluxWriter pushes combined readings to an InfluxDB 2.x bucket, one point
// per reading with temperature and moisture fields. Fill in the exported
// fields, call Setup once, then WriteReading per measurement.
type InfluxWriter struct {
	Host         string
	Organization string
	Bucket       string
	Measurement  string
	Token        string
	Tags         map[string]string

	client influxdb2.Client
	write  api.WriteAPIBlocking
}

// Setup builds the client and verifies the server is reachable.
func (w *InfluxWriter) Setup() error {
	if w.Measurement == "" {
		w.Measurement = defaultMeasurement
	}
	w.client = influxdb2.NewClient(w.Host, w.Token)
	up, err := w.client.Ping(context.Background())
	if err != nil {
		return errors.Wrapf(err, "failed to ping influx server %s", w.Host)
	}
	if !up {
		return errors.Errorf("influx server %s is not ready", w.Host)
	}
	w.write = w.client.WriteAPIBlocking(w.Organization, w.Bucket)
	return nil
}

// WriteReading writes one point, stamped with the current time and the
// configured tags. Writes are blocking; the sensor read cadence is slow
// enough that batching buys nothing.
func (w *InfluxWriter) WriteReading(ctx context.Context, reading seesaw.Reading) error {
	if w.write == nil {
		return errors.New("influx writer used before Setup")
	}
	return errors.Wrap(w.write.WritePoint(ctx, w.point(reading, time.Now())), "failed to write reading point")
}

func (w *InfluxWriter) point(reading seesaw.Reading, ts time.Time) *write.Point {
	measurement := w.Measurement
	if measurement == "" {
		measurement = defaultMeasurement
	}
	return influxdb2.NewPoint(measurement, w.Tags, map[string]interface{}{
		"temperature": float64(reading.Temperature),
		"moisture":    int64(reading.Moisture),
	}, ts)
}

func (w *InfluxWriter) Close() error {
	if w.client != nil {
		w.client.Close()
	}
	return nil
}
