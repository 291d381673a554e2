// Package api provides the operator control surface of the gauge as REST API
package api

import (
	"errors"

	"github.com/fako1024/potlight/pkg/calibration"
	"github.com/fako1024/potlight/pkg/counter"
	"github.com/fako1024/potlight/pkg/gauge"
	"github.com/fako1024/potlight/pkg/scale"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Gauge denotes the operations exposed via the API
type Gauge interface {
	Status() counter.Status
	Config() gauge.DisplayConfig
	UpdateConfig(cfg gauge.DisplayConfig) error
	Tare() error
	Calibrate(referenceWeight float64) error
	Pixels() gauge.Buffer
}

// CalibrationRequest denotes the body of a calibration request
type CalibrationRequest struct {
	Weight float64 `json:"weight"`
}

// API denotes a REST API for a gauge
type API struct {
	gauge  Gauge
	router *fiber.App

	logger scale.Logger
}

// New instantiates a new API, executing functional options, if any
func New(g Gauge, options ...func(*API)) *API {

	api := &API{
		gauge: g,
		router: fiber.New(fiber.Config{
			DisableStartupMessage: true,
		}),
		logger: &scale.NullLogger{},
	}

	// Execute functional options (if any), see options.go for implementation
	for _, option := range options {
		option(api)
	}

	// Setup routes
	api.router.Use(recover.New())
	api.router.Get("/status", api.handleStatus())
	api.router.Get("/config", api.handleGetConfig())
	api.router.Post("/config", api.handleUpdateConfig())
	api.router.Post("/tare", api.handleTare())
	api.router.Post("/calibrate", api.handleCalibrate())
	api.router.Get("/pixels", api.handlePixels())

	return api
}

// Listen serves the API on the given endpoint (blocking)
func (api *API) Listen(endpoint string) error {
	api.logger.Infof("serving API on %s", endpoint)
	return api.router.Listen(endpoint)
}

// Shutdown gracefully stops serving the API
func (api *API) Shutdown() error {
	return api.router.Shutdown()
}

////////////////////////////////////////////////////////////////////////////////

func (api *API) handleStatus() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		return c.JSON(api.gauge.Status())
	}
}

func (api *API) handleGetConfig() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		return c.JSON(api.gauge.Config())
	}
}

func (api *API) handleUpdateConfig() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {

		// Fields missing from the request keep their current value
		cfg := api.gauge.Config()
		if err := c.BodyParser(&cfg); err != nil {
			return api.badRequest(c, err)
		}

		if err := api.gauge.UpdateConfig(cfg); err != nil {
			return api.badRequest(c, err)
		}

		return c.JSON(api.gauge.Config())
	}
}

func (api *API) handleTare() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		if err := api.gauge.Tare(); err != nil {
			api.logger.Errorf("failed to tare: %s", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}

		return c.JSON(api.gauge.Status())
	}
}

func (api *API) handleCalibrate() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		var req CalibrationRequest
		if err := c.BodyParser(&req); err != nil {
			return api.badRequest(c, err)
		}

		if err := api.gauge.Calibrate(req.Weight); err != nil {
			if errors.Is(err, calibration.ErrInvalidReference) || errors.Is(err, calibration.ErrInvalidReading) {
				return api.badRequest(c, err)
			}
			api.logger.Errorf("failed to calibrate: %s", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}

		return c.JSON(api.gauge.Status())
	}
}

func (api *API) handlePixels() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		return c.JSON(api.gauge.Pixels().Hex())
	}
}

// badRequest reports the offending field of a rejected configuration (or the error itself)
func (api *API) badRequest(c *fiber.Ctx, err error) error {
	api.logger.Debugf("rejected request to %s: %s", c.Path(), err)

	var verr *gauge.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": verr.Field})
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}
