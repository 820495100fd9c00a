package route

import (
	"github.com/gofiber/fiber/v2"

	database "lms_backend/internals/databases"
	"lms_backend/internals/features/academics/courses/controller"
	"lms_backend/internals/features/academics/courses/repository"
	"lms_backend/internals/remote"
)

func CourseRoutes(r fiber.Router, store *database.Store, backend remote.Backend) {
	ctrl := controller.NewCourseController(repository.NewCourseRepository(store, backend))

	courses := r.Group("/courses")
	courses.Get("/", ctrl.GetCourses)
	courses.Post("/", ctrl.CreateCourse)
	courses.Get("/:id", ctrl.GetCourse)
	courses.Delete("/:id", ctrl.DeleteCourse)
	courses.Post("/:id/enroll", ctrl.Enroll)
	courses.Post("/:id/refresh", ctrl.RefreshContent)

	r.Get("/users/:id/courses", ctrl.GetMyCourses)
}
