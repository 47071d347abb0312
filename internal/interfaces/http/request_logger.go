package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/cajas-api/pkg/logger"
)

// RequestLogger registra una línea por solicitud: método, ruta, estado, latencia y
// usuario autenticado (si lo hay). 5xx en error, 4xx en warn, el resto en debug.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		var ev *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Ctx(c.UserContext()).Error().Err(err)
		case status >= fiber.StatusBadRequest:
			ev = log.Ctx(c.UserContext()).Warn()
		default:
			ev = log.Ctx(c.UserContext()).Debug()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("solicitud")
		return err
	}
}
