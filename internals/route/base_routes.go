package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"

	database "lms_backend/internals/databases"
)

func BaseRoutes(app *fiber.App, store *database.Store) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("LMS cache server jalan 🚀")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		var version int
		err := store.Ping(c.UserContext())
		if err == nil {
			version, err = store.SchemaVersion(c.UserContext())
		}
		if err != nil {
			dbStatus = "Database connection error"
			serverStatus = "DOWN"
			httpStatus = fiber.StatusServiceUnavailable
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"dialect":        store.Dialect(),
			"schema_version": version,
			"latest_schema":  database.LatestSchemaVersion(),
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
		})
	})
}
