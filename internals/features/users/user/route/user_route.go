package route

import (
	"github.com/gofiber/fiber/v2"

	database "lms_backend/internals/databases"
	"lms_backend/internals/features/users/user/controller"
	"lms_backend/internals/features/users/user/repository"
	"lms_backend/internals/middlewares"
	"lms_backend/internals/remote"
)

func UserRoutes(r fiber.Router, store *database.Store, backend remote.Backend) {
	ctrl := controller.NewUserController(repository.NewUserRepository(store, backend))

	users := r.Group("/users")
	users.Post("/register", middlewares.RegisterRateLimiter(), ctrl.Register)
	users.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	users.Post("/forgot-password", middlewares.ForgotPasswordRateLimiter(), ctrl.ForgotPassword)
	users.Post("/reset-password", ctrl.ResetPassword)
	users.Get("/:id", ctrl.GetProfile)
	users.Patch("/:id", ctrl.UpdateProfile)
}
