package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fako1024/potlight/pkg/calibration"
	"github.com/fako1024/potlight/pkg/device"
	"github.com/fako1024/potlight/pkg/scale"
	"github.com/fako1024/potlight/pkg/store"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type config struct {
	sensor    device.SensorConfig
	storePath string
	averaging int

	tare   bool
	weight float64
}

var log = logrus.New()

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() (err error) {

	// Parse command line options
	var (
		cfg config
		s   scale.Sensor
	)

	flag.StringVar(&cfg.sensor.Type, "sensor", device.SensorHX711, "Type of load cell (hx711, serial, mock)")
	flag.StringVar(&cfg.sensor.Clock, "clk", "GPIO5", "HX711 clock pin")
	flag.StringVar(&cfg.sensor.Data, "data", "GPIO6", "HX711 data pin")
	flag.StringVar(&cfg.sensor.Port, "port", "/dev/ttyUSB0", "Serial port of the load cell")
	flag.IntVar(&cfg.sensor.Baud, "baud", 115200, "Baud rate of the load cell")
	flag.StringVar(&cfg.storePath, "store", "/var/lib/potlight/record.yaml", "Path to the persisted record")
	flag.IntVar(&cfg.averaging, "n", calibration.DefaultAveraging, "Number of readings to average")

	flag.BoolVar(&cfg.tare, "tare", false, "Tare the scale (nothing placed on it)")
	flag.Float64Var(&cfg.weight, "weight", 0, "Calibrate using a reference weight placed on the tared scale")
	flag.Parse()

	if !cfg.tare && cfg.weight == 0 {
		return fmt.Errorf("nothing to do, specify -tare and / or -weight")
	}

	st := store.NewFile(cfg.storePath)
	rec := store.LoadOrDefault(st, log)

	s, err = device.OpenSensor(cfg.sensor, log)
	if err != nil {
		return fmt.Errorf("failed to initialize load cell: %s", err)
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			err = cerr
			return
		}
	}()

	if cfg.tare {
		offset, err := calibration.Tare(s, cfg.averaging)
		if err != nil {
			return fmt.Errorf("failed to tare scale: %s", err)
		}
		rec.Calibration.Offset = offset
		log.Infof("Tared scale, new offset: %v", offset)
	}

	if cfg.weight != 0 {
		if cfg.tare {
			log.Infof("Place the reference weight of %v on the scale and press enter", cfg.weight)
			if _, err := fmt.Scanln(); err != nil {
				log.Debugf("failed to read confirmation: %s", err)
			}
		}

		params, err := calibration.Calibrate(s, cfg.averaging, rec.Calibration.Offset, cfg.weight)
		if err != nil {
			return fmt.Errorf("failed to calibrate scale: %s", err)
		}
		rec.Calibration = params
		log.Infof("Calibrated scale, new scale factor: %v", params.Scale)
	}

	if err := st.Save(rec); err != nil {
		return fmt.Errorf("failed to persist record: %s", err)
	}

	return yaml.NewEncoder(os.Stdout).Encode(rec)
}
