package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"lms_backend/internals/middlewares/logger"
)

// SetupMiddlewares: urutan recovery → request id → log → cors → limiter global.
// Limiter auth & remote dipasang per route.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestID(RequestTimeout))
	app.Use(logger.LoggerMiddleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
}
