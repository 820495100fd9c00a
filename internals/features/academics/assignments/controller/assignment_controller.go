package controller

import (
	"github.com/gofiber/fiber/v2"

	"lms_backend/internals/features/academics/assignments/model"
	"lms_backend/internals/features/academics/assignments/repository"
	helper "lms_backend/internals/helpers"
	"lms_backend/internals/helpers/state"
)

type AssignmentController struct {
	Repo repository.AssignmentRepository
}

func NewAssignmentController(repo repository.AssignmentRepository) *AssignmentController {
	return &AssignmentController{Repo: repo}
}

// GET /api/courses/:id/assignments
func (ac *AssignmentController) GetAssignments(c *fiber.Ctx) error {
	courseID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	st := ac.Repo.FetchAssignments(c.UserContext(), courseID, state.FetchOptions{Refresh: helper.WantsRefresh(c)})
	return helper.JsonStream(c, st, "Daftar tugas", fiber.StatusOK)
}

// POST /api/courses/:id/assignments (due_date RFC3339)
func (ac *AssignmentController) CreateAssignment(c *fiber.Ctx) error {
	courseID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var body model.AssignmentModel
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	body.CourseID = courseID
	return helper.JsonStream(c, ac.Repo.CreateAssignment(c.UserContext(), body), "Tugas dibuat", fiber.StatusCreated)
}
