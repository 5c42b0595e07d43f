package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/soil/cmd/soil/console"
	"github.com/mklimuk/soil/seesaw"
)

var readCmd = cli.Command{
	Name:  "read",
	Usage: "take a combined temperature and moisture reading",
	Flags: append(sensorFlags(),
		&cli.BoolFlag{
			Name:  "yaml",
			Usage: "print the reading as yaml",
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
		reading, err := handle.sensor.Read(c.Context)
		if err != nil {
			return console.Exit(1, "error reading sensor: %s", console.Red(err))
		}
		if c.Bool("yaml") {
			enc := yaml.NewEncoder(os.Stdout)
			if err = enc.Encode(reading); err != nil {
				return console.Exit(1, "encoding error: %s", console.Red(err))
			}
			return nil
		}
		console.Printf("%s  %s\n%s %s\n",
			console.PictoThermometer, console.White(formatTemperature(reading.Temperature, handle.unit)),
			console.PictoHumidity, console.White(reading.Moisture))
		return nil
	},
}

var temperatureCmd = cli.Command{
	Name:    "temperature",
	Aliases: []string{"temp"},
	Usage:   "read the probe temperature",
	Flags:   sensorFlags(),
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
		temperature, err := handle.sensor.Temperature(c.Context)
		if err != nil {
			return console.Exit(1, "error getting temperature read: %s", console.Red(err))
		}
		console.Printf("%s  %s\n", console.PictoThermometer, console.White(formatTemperature(temperature, handle.unit)))
		return nil
	},
}

var moistureCmd = cli.Command{
	Name:  "moisture",
	Usage: "read the raw capacitive moisture value",
	Flags: sensorFlags(),
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
		moisture, err := handle.sensor.Moisture(c.Context)
		if err != nil {
			return console.Exit(1, "error getting moisture read: %s", console.Red(err))
		}
		console.Printf("%s %s\n", console.PictoHumidity, console.White(moisture))
		return nil
	},
}

func formatTemperature(temperature float32, unit seesaw.TemperatureUnit) string {
	symbol := "F"
	if unit == seesaw.Celsius {
		symbol = "C"
	}
	return fmt.Sprintf("%.2f°%s", temperature, symbol)
}
