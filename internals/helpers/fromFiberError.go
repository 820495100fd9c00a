package helper

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	database "lms_backend/internals/databases"
	"lms_backend/internals/remote"
)

func errorsAs(err error, target any) bool { return errors.As(err, target) }

// StatusFromError memetakan error cache/remote ke status HTTP.
//   - *fiber.Error          → kodenya sendiri
//   - ErrNotFound           → 404
//   - ErrInvalidEntity      → 422, constraint lain → 409
//   - remote 4xx            → 422, offline → 503, remote lain → 502
//   - context timeout       → 504
func StatusFromError(err error) int {
	var fe *fiber.Error
	var re *remote.Error
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, database.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, database.ErrInvalidEntity):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, database.ErrConstraintViolation):
		return fiber.StatusConflict
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fiber.StatusGatewayTimeout
	case errors.Is(err, remote.ErrOffline):
		return fiber.StatusServiceUnavailable
	case errors.As(err, &re):
		if re.Status >= 400 && re.Status < 500 {
			return fiber.StatusUnprocessableEntity
		}
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// FromError: satu pintu untuk error plain (operasi lokal).
func FromError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonError(c, StatusFromError(err), err.Error())
}
