// Package device opens the configured sensor and strip hardware
package device

import (
	"fmt"
	"strings"

	"github.com/fako1024/potlight/pkg/hx711"
	"github.com/fako1024/potlight/pkg/ledstrip"
	"github.com/fako1024/potlight/pkg/mock"
	"github.com/fako1024/potlight/pkg/scale"
	"github.com/fako1024/potlight/pkg/serialcell"
)

// Sensor types
const (
	SensorHX711  = "hx711"
	SensorSerial = "serial"
	SensorMock   = "mock"
)

// Strip types
const (
	StripSPI  = "spi"
	StripNone = "none"
)

// SensorConfig denotes the load cell configuration
type SensorConfig struct {
	Type  string
	Clock string // GPIO pin name (HX711 SCK)
	Data  string // GPIO pin name (HX711 DOUT)
	Port  string // Serial port
	Baud  int
}

// StripConfig denotes the LED strip configuration
type StripConfig struct {
	Type   string
	Port   string // SPI port, empty selects the first available one
	Pixels int
}

// OpenSensor opens the configured load cell
func OpenSensor(cfg SensorConfig, logger scale.Logger) (scale.Sensor, error) {
	switch strings.ToLower(cfg.Type) {
	case SensorHX711:
		return hx711.Open(cfg.Clock, cfg.Data, hx711.WithLogger(logger))
	case SensorSerial:
		return serialcell.Open(cfg.Port, cfg.Baud, serialcell.WithLogger(logger))
	case SensorMock:
		logger.Warnf("using simulated load cell")
		return mock.NewSensor(mock.WithJitter(0.5)), nil
	default:
		return nil, fmt.Errorf("unsupported sensor type `%s`", cfg.Type)
	}
}

// OpenStrip opens the configured LED strip (nil if none is attached)
func OpenStrip(cfg StripConfig, logger scale.Logger) (scale.Strip, error) {
	switch strings.ToLower(cfg.Type) {
	case StripSPI:
		return ledstrip.Open(cfg.Port, ledstrip.WithPixelCount(cfg.Pixels), ledstrip.WithLogger(logger))
	case StripNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported strip type `%s`", cfg.Type)
	}
}
