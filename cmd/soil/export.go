package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/soil/cmd/soil/console"
)

var exportCmd = cli.Command{
	Name:  "export",
	Usage: "serve readings as prometheus metrics",
	Flags: append(sensorFlags(),
		&cli.StringFlag{
			Name:    "listen",
			Aliases: []string{"l"},
			Value:   ":9100",
			Usage:   "address to serve /metrics on",
		},
		&cli.DurationFlag{
			Name:    "interval",
			Aliases: []string{"i"},
			Value:   30 * time.Second,
			Usage:   "time between sensor reads",
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

		gaugeTemperature := prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "soil_temperature",
				Help: "Soil probe temperature (units: configured temperature unit)",
			},
			[]string{"address"},
		)
		gaugeMoisture := prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "soil_moisture",
				Help: "Raw capacitive soil moisture (unit-less, roughly 200 in air, 2000 submerged)",
			},
			[]string{"address"},
		)
		registry := prometheus.NewRegistry()
		registry.MustRegister(gaugeTemperature, gaugeMoisture, collectors.NewBuildInfoCollector())

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		}))
		server := &http.Server{Addr: c.String("listen"), Handler: mux}

		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()

		serverErr := make(chan error, 1)
		go func() {
			serverErr <- server.ListenAndServe()
		}()
		slog.Info("serving metrics", "listen", c.String("listen"))

		addressLabel := fmt.Sprintf("%#x", handle.address)
		ticker := time.NewTicker(c.Duration("interval"))
		defer ticker.Stop()
		for {
			reading, err := handle.sensor.Read(ctx)
			if err != nil {
				// leave the previous gauge values in place; scrapes stay
				// consistent and the log names the failing probe
				slog.Error("sensor read failed", "address", addressLabel, "error", err)
			} else {
				slog.Debug("soil reading",
					"address", addressLabel,
					"temperature", reading.Temperature,
					"moisture", reading.Moisture)
				gaugeTemperature.WithLabelValues(addressLabel).Set(float64(reading.Temperature))
				gaugeMoisture.WithLabelValues(addressLabel).Set(float64(reading.Moisture))
			}
			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("server shutdown failed", "error", err)
				}
				console.PInfof(console.PictoStop, "exporter stopped")
				return nil
			case err := <-serverErr:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return console.Exit(1, "metrics server error: %s", console.Red(err))
			case <-ticker.C:
			}
		}
	},
}
