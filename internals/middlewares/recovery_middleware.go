package middlewares

import (
	"log"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	helper "lms_backend/internals/helpers"
)

const panickedKey = "panicked"

// RecoveryMiddleware: panic dicatat bersama request id & stack, klien
// menerima 500 berformat JsonError tanpa detail panic.
func RecoveryMiddleware() fiber.Handler {
	guard := recover.New(recover.Config{
		EnableStackTrace:  true,
		StackTraceHandler: logPanic,
	})
	return func(c *fiber.Ctx) error {
		err := guard(c)
		if err != nil && c.Locals(panickedKey) != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan internal, silakan coba lagi")
		}
		return err
	}
}

func logPanic(c *fiber.Ctx, e interface{}) {
	c.Locals(panickedKey, true)
	log.Printf("[ERROR] 💥 panic reqid=%v %s %s: %v\n%s", c.Locals("reqid"), c.Method(), c.OriginalURL(), e, debug.Stack())
}
