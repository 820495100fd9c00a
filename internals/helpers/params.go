package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ParamUint membaca path param numerik (> 0).
func ParamUint(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, name+" tidak valid")
	}
	return uint(n), nil
}

// QueryUint: query numerik wajib.
func QueryUint(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, fiber.NewError(fiber.StatusBadRequest, name+" wajib diisi")
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, name+" tidak valid")
	}
	return uint(n), nil
}

// WantsRefresh: ?refresh=true memaksa fetch remote walau cache sudah ada.
func WantsRefresh(c *fiber.Ctx) bool {
	ok, _ := strconv.ParseBool(c.Query("refresh", "false"))
	return ok
}
