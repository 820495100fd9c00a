package controller

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/utils"

	"lms_backend/internals/features/users/user/dto"
	"lms_backend/internals/features/users/user/model"
	"lms_backend/internals/features/users/user/repository"
	helper "lms_backend/internals/helpers"
	"lms_backend/internals/helpers/state"
)

type UserController struct {
	Repo repository.UserRepository
}

func NewUserController(repo repository.UserRepository) *UserController {
	return &UserController{Repo: repo}
}

func toResponse(u model.UserModel) dto.UserResponse { return dto.FromModel(&u) }

// POST /api/users/register
func (uc *UserController) Register(c *fiber.Ctx) error {
	var body dto.RegisterRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	return helper.JsonStreamMap(c, uc.Repo.Register(c.UserContext(), body), "Registrasi berhasil", fiber.StatusCreated, toResponse)
}

// POST /api/users/login: cek password lokal, tanpa token
func (uc *UserController) Login(c *fiber.Ctx) error {
	var body dto.LoginRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := body.Validate(); err != nil {
		return helper.JsonValidationError(c, err)
	}
	u, err := uc.Repo.Authenticate(c.UserContext(), body.Email, body.Password)
	if err != nil {
		log.Printf("[ERROR] Login gagal untuk %s: %v\n", body.Email, err)
		return helper.FromError(c, err)
	}
	log.Printf("[SUCCESS] Login %s\n", u.Email)
	return helper.JsonOK(c, "Login berhasil", dto.FromModel(u))
}

// GET /api/users/:id?refresh=
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	id := strings.TrimSpace(utils.ImmutableString(c.Params("id")))
	st := uc.Repo.FetchProfile(c.UserContext(), id, state.FetchOptions{Refresh: helper.WantsRefresh(c)})
	return helper.JsonStreamMap(c, st, "Profil user", fiber.StatusOK, func(u *model.UserModel) dto.UserResponse {
		return dto.FromModel(u)
	})
}

// PATCH /api/users/:id
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	id := strings.TrimSpace(utils.ImmutableString(c.Params("id")))
	var body dto.UpdateProfileRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	return helper.JsonStreamMap(c, uc.Repo.UpdateProfile(c.UserContext(), id, body), "Profil diperbarui", fiber.StatusOK, toResponse)
}

// POST /api/users/forgot-password
func (uc *UserController) ForgotPassword(c *fiber.Ctx) error {
	var body dto.ForgotPasswordRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := body.Validate(); err != nil {
		return helper.JsonValidationError(c, err)
	}
	st := uc.Repo.RequestPasswordReset(c.UserContext(), body.Email)
	return helper.JsonStreamMap(c, st, "Token reset dikirim ke email", fiber.StatusOK, func(exp time.Time) fiber.Map {
		return fiber.Map{"expires_at": exp.Format(time.RFC3339)}
	})
}

// POST /api/users/reset-password
func (uc *UserController) ResetPassword(c *fiber.Ctx) error {
	var body dto.ResetPasswordRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	return helper.JsonStreamMap(c, uc.Repo.ResetPassword(c.UserContext(), body), "Password berhasil diubah", fiber.StatusOK, toResponse)
}
