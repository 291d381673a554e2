package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fako1024/potlight/pkg/calibration"
	"github.com/fako1024/potlight/pkg/device"
	"github.com/fako1024/potlight/pkg/gauge"
	"github.com/fako1024/potlight/pkg/scale"
	"github.com/fako1024/potlight/pkg/store"
	"github.com/sirupsen/logrus"
)

type config struct {
	sensor    device.SensorConfig
	storePath string
	averaging int
	interval  time.Duration
}

var log = logrus.New()

func main() {

	// Parse command line options
	var (
		cfg config
		s   scale.Sensor
		err error
	)

	flag.StringVar(&cfg.sensor.Type, "sensor", device.SensorHX711, "type of load cell (hx711, serial, mock)")
	flag.StringVar(&cfg.sensor.Clock, "clk", "GPIO5", "HX711 clock pin")
	flag.StringVar(&cfg.sensor.Data, "data", "GPIO6", "HX711 data pin")
	flag.StringVar(&cfg.sensor.Port, "port", "/dev/ttyUSB0", "serial port of the load cell")
	flag.IntVar(&cfg.sensor.Baud, "baud", 115200, "baud rate of the load cell")
	flag.StringVar(&cfg.storePath, "store", "/var/lib/potlight/record.yaml", "path to the persisted record")
	flag.IntVar(&cfg.averaging, "n", calibration.DefaultAveraging, "number of readings to average")
	flag.DurationVar(&cfg.interval, "interval", 500*time.Millisecond, "sampling interval")
	flag.Parse()

	rec, err := store.NewFile(cfg.storePath).Load()
	if err != nil {
		log.Warnf("Failed to load record, logging uncalibrated values: %s", err)
		rec = store.Default()
	}

	s, err = device.OpenSensor(cfg.sensor, log)
	if err != nil {
		log.Fatalf("Failed to initialize load cell: %s", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM)
	signal.Notify(sigChan, os.Interrupt)

	ticker := time.NewTicker(cfg.interval)
	defer ticker.Stop()

	var history gauge.History
	for {
		select {
		case <-sigChan:
			log.Infof("Got signal, terminating connection to device")
			if err := s.Close(); err != nil {
				log.Fatal(err)
			}
			return
		case <-ticker.C:
			raw, err := s.ReadRawAveraged(cfg.averaging)
			if err != nil {
				log.Warnf("Failed to read load cell: %s", err)
				continue
			}
			weight, err := gauge.Convert(raw, rec.Calibration)
			if err != nil {
				log.Infof("Read DATA: raw %d (%s)", raw, err)
				continue
			}
			history.Push(weight)

			log.WithFields(logrus.Fields{
				"raw":       raw,
				"weight":    weight,
				"stddev":    history.StdDev(),
				"stability": gauge.Classify(history, weight, rec.Display.Capacity),
			}).Info("Read DATA")
		}
	}
}
