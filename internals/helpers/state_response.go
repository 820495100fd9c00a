package helper

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"lms_backend/internals/helpers/state"
)

// JsonState merender state terminal sebagai {"success","state","message","data"}.
// Success/Empty → successCode, Error → StatusFromError.
func JsonState[T any](c *fiber.Ctx, st state.State[T], message string, successCode int) error {
	if st == nil {
		return JsonError(c, fiber.StatusInternalServerError, "state kosong")
	}
	return state.Match(st,
		func() error {
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
				"success": true,
				"state":   "loading",
				"message": "sedang diproses",
			})
		},
		func(data T) error {
			return c.Status(successCode).JSON(fiber.Map{
				"success": true,
				"state":   "success",
				"message": message,
				"data":    data,
			})
		},
		func(err error, msg string) error {
			status := StatusFromError(err)
			if status >= 500 {
				log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
			}
			return c.Status(status).JSON(ErrorResponse{
				Success:   false,
				State:     "error",
				Message:   msg,
				ErrorCode: statusToErrorCode(status),
			})
		},
		func() error {
			return c.Status(successCode).JSON(fiber.Map{
				"success": true,
				"state":   "empty",
				"message": message,
				"data":    nil,
			})
		},
	)
}

// JsonStream menunggu state terminal (dibatasi context request) lalu merendernya.
func JsonStream[T any](c *fiber.Ctx, s *state.Stream[T], message string, successCode int) error {
	st, err := s.Wait(c.UserContext())
	if err != nil {
		return JsonError(c, StatusFromError(err), "permintaan melebihi batas waktu")
	}
	return JsonState[T](c, st, message, successCode)
}

// JsonStreamMap seperti JsonStream, tapi data Success diubah dulu (mis. model → DTO).
func JsonStreamMap[T, R any](c *fiber.Ctx, s *state.Stream[T], message string, successCode int, fn func(T) R) error {
	st, err := s.Wait(c.UserContext())
	if err != nil {
		return JsonError(c, StatusFromError(err), "permintaan melebihi batas waktu")
	}
	mapped := state.Match(st,
		func() state.State[R] { return state.Loading[R]{} },
		func(data T) state.State[R] { return state.Success[R]{Data: fn(data)} },
		func(err error, msg string) state.State[R] { return state.Error[R]{Err: err, Message: msg} },
		func() state.State[R] { return state.Empty[R]{} },
	)
	return JsonState[R](c, mapped, message, successCode)
}
