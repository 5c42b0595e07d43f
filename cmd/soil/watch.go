package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/soil/cmd/soil/console"
	"github.com/mklimuk/soil/store"
)

var watchCmd = cli.Command{
	Name:  "watch",
	Usage: "read the sensor periodically, optionally pushing readings to InfluxDB",
	Flags: append(sensorFlags(),
		&cli.DurationFlag{
			Name:    "interval",
			Aliases: []string{"i"},
			Value:   30 * time.Second,
			Usage:   "time between readings",
		},
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Usage:   "stop after this many readings (0 runs until interrupted)",
		},
		&cli.StringFlag{
			Name:  "influx-url",
			Usage: "InfluxDB server url; readings are pushed when set",
		},
		&cli.StringFlag{
			Name:  "influx-org",
			Usage: "InfluxDB organization",
		},
		&cli.StringFlag{
			Name:  "influx-bucket",
			Usage: "InfluxDB bucket",
		},
		&cli.StringFlag{
			Name:  "influx-measurement",
			Usage: "InfluxDB measurement name",
		},
		&cli.StringFlag{
			Name:  "influx-token",
			Usage: "InfluxDB access token",
		},
	),
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		handle, err := sensorFromConfig(cfg)
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		defer handle.close()

		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()

		addressLabel := fmt.Sprintf("%#x", handle.address)
		var sink *store.InfluxWriter
		if cfg.Influx.URL != "" {
			tags := map[string]string{"address": addressLabel}
			for k, v := range cfg.Influx.Tags {
				tags[k] = v
			}
			sink = &store.InfluxWriter{
				Host:         cfg.Influx.URL,
				Organization: cfg.Influx.Organization,
				Bucket:       cfg.Influx.Bucket,
				Measurement:  cfg.Influx.Measurement,
				Token:        cfg.Influx.Token,
				Tags:         tags,
			}
			if err = sink.Setup(); err != nil {
				return console.Exit(1, "influx setup error: %s", console.Red(err))
			}
			defer func() { _ = sink.Close() }()
			slog.Info("pushing readings to influx", "url", cfg.Influx.URL, "bucket", cfg.Influx.Bucket)
		}

		count := c.Int("count")
		ticker := time.NewTicker(c.Duration("interval"))
		defer ticker.Stop()
		taken := 0
		for {
			reading, err := handle.sensor.Read(ctx)
			if err != nil {
				slog.Error("sensor read failed", "address", addressLabel, "error", err)
			} else {
				slog.Info("soil reading",
					"address", addressLabel,
					"temperature", reading.Temperature,
					"unit", handle.unit.String(),
					"moisture", reading.Moisture)
				if sink != nil {
					if err = sink.WriteReading(ctx, reading); err != nil {
						slog.Error("influx write failed", "error", err)
					}
				}
			}
			taken++
			if count > 0 && taken >= count {
				console.PInfof(console.PictoFinish, "finished after %d readings", taken)
				return nil
			}
			select {
			case <-ctx.Done():
				console.PInfof(console.PictoStop, "interrupted after %d readings", taken)
				return nil
			case <-ticker.C:
			}
		}
	},
}
