package route

import (
	"github.com/gofiber/fiber/v2"

	database "lms_backend/internals/databases"
	"lms_backend/internals/features/academics/assignments/controller"
	"lms_backend/internals/features/academics/assignments/repository"
	"lms_backend/internals/remote"
)

func AssignmentRoutes(r fiber.Router, store *database.Store, backend remote.Backend) {
	ctrl := controller.NewAssignmentController(repository.NewAssignmentRepository(store, backend))

	r.Get("/courses/:id/assignments", ctrl.GetAssignments)
	r.Post("/courses/:id/assignments", ctrl.CreateAssignment)
}
