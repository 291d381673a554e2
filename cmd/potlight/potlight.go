package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fako1024/potlight/pkg/api"
	"github.com/fako1024/potlight/pkg/counter"
	"github.com/fako1024/potlight/pkg/device"
	"github.com/fako1024/potlight/pkg/preview"
	"github.com/fako1024/potlight/pkg/publish"
	"github.com/fako1024/potlight/pkg/scale"
	"github.com/fako1024/potlight/pkg/store"
	"github.com/spf13/viper"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "potlight: %s\n", err)
		os.Exit(1)
	}
}

func run() (err error) {

	// Parse command line options
	var configFile string
	flag.StringVar(&configFile, "config", "", "path to the configuration file")
	flag.Parse()

	setDefaults()
	if configFile != "" {
		viper.SetConfigFile(configFile)
		if parseErr := viper.ReadInConfig(); parseErr != nil {
			return fmt.Errorf("failed to parse config file %s: %w", configFile, parseErr)
		}
	}

	logger, err := scale.NewLogger(logLevel())
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	sensor, err := device.OpenSensor(device.SensorConfig{
		Type:  viper.GetString("sensor.type"),
		Clock: viper.GetString("sensor.clk"),
		Data:  viper.GetString("sensor.data"),
		Port:  viper.GetString("sensor.port"),
		Baud:  viper.GetInt("sensor.baud"),
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to open sensor: %w", err)
	}

	strip, err := device.OpenStrip(device.StripConfig{
		Type:   viper.GetString("strip.type"),
		Port:   viper.GetString("strip.port"),
		Pixels: viper.GetInt("strip.pixels"),
	}, logger)
	if err != nil {
		sensor.Close()
		return fmt.Errorf("failed to open LED strip: %w", err)
	}

	// Assemble all outputs receiving frames
	var strips scale.Multi
	if strip != nil {
		strips = append(strips, strip)
	}
	var hub *preview.Hub
	if viper.GetString("preview.listen") != "" {
		hub = preview.New(preview.WithLogger(logger))
		strips = append(strips, hub)
	}

	c, err := counter.New(sensor, strips, store.NewFile(viper.GetString("store.path")),
		counter.WithLogger(logger),
		counter.WithSampleInterval(viper.GetDuration("sample.interval")),
		counter.WithRenderInterval(viper.GetDuration("render.interval")),
		counter.WithAveraging(viper.GetInt("sensor.averaging")),
		counter.WithPixelCount(viper.GetInt("strip.pixels")),
	)
	if err != nil {
		sensor.Close()
		strips.Close()
		return fmt.Errorf("failed to initialize counter: %w", err)
	}
	defer func() {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if broker := viper.GetString("mqtt.broker"); broker != "" {
		pub, err := publish.New(broker, viper.GetString("mqtt.topic"),
			publish.WithClientID(viper.GetString("mqtt.client_id")),
			publish.WithLogger(logger),
		)
		if err != nil {
			return err
		}
		defer pub.Close()
		c.SetDataHandler(pub.Handler())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if addr := viper.GetString("api.listen"); addr != "" {
		a := api.New(c, api.WithLogger(logger))
		go func() {
			if err := a.Listen(addr); err != nil {
				logger.Errorf("API server failed: %s", err)
				stop()
			}
		}()
		defer func() {
			if err := a.Shutdown(); err != nil {
				logger.Warnf("failed to shut down API server: %s", err)
			}
		}()
	}

	if hub != nil {
		mux := http.NewServeMux()
		mux.Handle("/ws", hub.Handler())
		srv := &http.Server{
			Addr:              viper.GetString("preview.listen"),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Infof("serving LED preview on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("preview server failed: %s", err)
				stop()
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warnf("failed to shut down preview server: %s", err)
			}
		}()
	}

	if err := c.Run(ctx); err != nil {
		return err
	}
	logger.Infof("got signal, terminating")

	return nil
}

// logLevel returns the configured log level, log.debug taking precedence
func logLevel() string {
	if viper.GetBool("log.debug") {
		return "debug"
	}
	return viper.GetString("log.level")
}

func setDefaults() {
	viper.SetDefault("log.debug", false)
	viper.SetDefault("log.level", "info")

	viper.SetDefault("sensor.type", device.SensorHX711)
	viper.SetDefault("sensor.averaging", 10)
	viper.SetDefault("sensor.clk", "GPIO5")
	viper.SetDefault("sensor.data", "GPIO6")
	viper.SetDefault("sensor.port", "/dev/ttyUSB0")
	viper.SetDefault("sensor.baud", 115200)

	viper.SetDefault("strip.type", device.StripSPI)
	viper.SetDefault("strip.port", "")
	viper.SetDefault("strip.pixels", counter.DefaultPixelCount)

	viper.SetDefault("store.path", "/var/lib/potlight/record.yaml")

	viper.SetDefault("sample.interval", "500ms")
	viper.SetDefault("render.interval", "50ms")

	viper.SetDefault("api.listen", ":8080")

	viper.SetDefault("mqtt.broker", "")
	viper.SetDefault("mqtt.topic", "potlight/status")
	viper.SetDefault("mqtt.client_id", "potlight")

	viper.SetDefault("preview.listen", "")
}
