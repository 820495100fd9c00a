package controller

import (
	"github.com/gofiber/fiber/v2"

	"lms_backend/internals/features/academics/departments/repository"
	helper "lms_backend/internals/helpers"
)

type CatalogController struct {
	Repo repository.CatalogRepository
}

func NewCatalogController(repo repository.CatalogRepository) *CatalogController {
	return &CatalogController{Repo: repo}
}

// GET /api/catalog/departments
func (cc *CatalogController) GetDepartments(c *fiber.Ctx) error {
	return helper.JsonStream(c, cc.Repo.Departments(c.UserContext()), "Daftar department", fiber.StatusOK)
}

// GET /api/catalog/levels
func (cc *CatalogController) GetLevels(c *fiber.Ctx) error {
	return helper.JsonStream(c, cc.Repo.Levels(c.UserContext()), "Daftar level", fiber.StatusOK)
}

// GET /api/catalog/departments/:id/levels
func (cc *CatalogController) GetLevelsForDepartment(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonStream(c, cc.Repo.LevelsForDepartment(c.UserContext(), id), "Level untuk department", fiber.StatusOK)
}

// GET /api/catalog/levels/:id/departments
func (cc *CatalogController) GetDepartmentsForLevel(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonStream(c, cc.Repo.DepartmentsForLevel(c.UserContext(), id), "Department untuk level", fiber.StatusOK)
}
