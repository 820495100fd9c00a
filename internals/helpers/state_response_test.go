package helper_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	database "lms_backend/internals/databases"
	helper "lms_backend/internals/helpers"
	"lms_backend/internals/helpers/state"
)

func render(t *testing.T, h fiber.Handler) (int, map[string]any) {
	t.Helper()
	app := fiber.New()
	app.Get("/", h)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), 5000)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestJsonStateVariants(t *testing.T) {
	code, body := render(t, func(c *fiber.Ctx) error {
		return helper.JsonState[[]int](c, state.OfSlice([]int{1, 2}), "ok", fiber.StatusOK)
	})
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "success", body["state"])
	assert.Len(t, body["data"], 2)

	code, body = render(t, func(c *fiber.Ctx) error {
		return helper.JsonState[[]int](c, state.OfSlice[int](nil), "ok", fiber.StatusOK)
	})
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "empty", body["state"])
	assert.Equal(t, true, body["success"])

	code, body = render(t, func(c *fiber.Ctx) error {
		err := database.NotFound("get", "course", 1)
		return helper.JsonState[int](c, state.Fail[int](err), "ok", fiber.StatusOK)
	})
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, "error", body["state"])
	assert.Equal(t, "NOT_FOUND", body["error_code"])
}

func TestJsonStreamWaitsForTerminalState(t *testing.T) {
	code, body := render(t, func(c *fiber.Ctx) error {
		st := state.Submit(c.UserContext(), func(context.Context) (string, error) {
			time.Sleep(10 * time.Millisecond)
			return "selesai", nil
		}, nil)
		return helper.JsonStream(c, st, "ok", fiber.StatusCreated)
	})
	assert.Equal(t, fiber.StatusCreated, code)
	assert.Equal(t, "selesai", body["data"])
}

func TestJsonStreamTimesOut(t *testing.T) {
	code, body := render(t, func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		c.SetUserContext(ctx)
		// stream yang tidak pernah selesai
		st := state.NewStream[int]()
		defer st.Close()
		return helper.JsonStream(c, st, "ok", fiber.StatusOK)
	})
	assert.Equal(t, fiber.StatusGatewayTimeout, code)
	assert.Equal(t, "TIMEOUT", body["error_code"])
}

func TestJsonStreamMapConvertsData(t *testing.T) {
	code, body := render(t, func(c *fiber.Ctx) error {
		st := state.Local(21, nil, nil)
		return helper.JsonStreamMap(c, st, "ok", fiber.StatusOK, func(n int) int { return n * 2 })
	})
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, float64(42), body["data"])

	code, _ = render(t, func(c *fiber.Ctx) error {
		st := state.Local(0, errors.New("rusak"), nil)
		return helper.JsonStreamMap(c, st, "ok", fiber.StatusOK, func(n int) int { return n })
	})
	assert.Equal(t, fiber.StatusInternalServerError, code)
}
