package route

import (
	"github.com/gofiber/fiber/v2"

	database "lms_backend/internals/databases"
	"lms_backend/internals/features/academics/departments/controller"
	"lms_backend/internals/features/academics/departments/repository"
)

// CatalogRoutes: katalog hasil seed, read-only.
func CatalogRoutes(r fiber.Router, store *database.Store) {
	ctrl := controller.NewCatalogController(repository.NewCatalogRepository(store))

	catalog := r.Group("/catalog")
	catalog.Get("/departments", ctrl.GetDepartments)
	catalog.Get("/departments/:id/levels", ctrl.GetLevelsForDepartment)
	catalog.Get("/levels", ctrl.GetLevels)
	catalog.Get("/levels/:id/departments", ctrl.GetDepartmentsForLevel)
}
