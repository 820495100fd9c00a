package controller

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/utils"

	"lms_backend/internals/features/academics/courses/model"
	"lms_backend/internals/features/academics/courses/repository"
	helper "lms_backend/internals/helpers"
	"lms_backend/internals/helpers/state"
)

type CourseController struct {
	Repo repository.CourseRepository
}

func NewCourseController(repo repository.CourseRepository) *CourseController {
	return &CourseController{Repo: repo}
}

// GET /api/courses?department_id=&level_id=&refresh=
func (cc *CourseController) GetCourses(c *fiber.Ctx) error {
	departmentID, err := helper.QueryUint(c, "department_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	levelID, err := helper.QueryUint(c, "level_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	st := cc.Repo.FetchCourses(c.UserContext(), departmentID, levelID, state.FetchOptions{Refresh: helper.WantsRefresh(c)})
	return helper.JsonStream(c, st, "Daftar course", fiber.StatusOK)
}

// GET /api/courses/:id
func (cc *CourseController) GetCourse(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	st := cc.Repo.FetchCourse(c.UserContext(), id, state.FetchOptions{Refresh: helper.WantsRefresh(c)})
	return helper.JsonStream(c, st, "Detail course", fiber.StatusOK)
}

// POST /api/courses
func (cc *CourseController) CreateCourse(c *fiber.Ctx) error {
	var body model.CourseModel
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	body.ID = 0
	return helper.JsonStream(c, cc.Repo.CreateCourse(c.UserContext(), body), "Course berhasil dibuat", fiber.StatusCreated)
}

// DELETE /api/courses/:id: id yang tidak ada tetap sukses
func (cc *CourseController) DeleteCourse(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := cc.Repo.DeleteCourse(c.UserContext(), id); err != nil {
		log.Println("[ERROR] Gagal menghapus course:", err)
		return helper.FromError(c, err)
	}
	log.Printf("[SUCCESS] Course %d dihapus\n", id)
	return helper.JsonDeleted(c, "Course dihapus")
}

type enrollRequest struct {
	UserID string `json:"user_id"`
}

// POST /api/courses/:id/enroll
func (cc *CourseController) Enroll(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var body enrollRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(body.UserID) == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "user_id wajib diisi")
	}
	return helper.JsonStream(c, cc.Repo.Enroll(c.UserContext(), body.UserID, id), "Berhasil mendaftar course", fiber.StatusCreated)
}

// GET /api/users/:id/courses
func (cc *CourseController) GetMyCourses(c *fiber.Ctx) error {
	userID := strings.TrimSpace(utils.ImmutableString(c.Params("id")))
	st := cc.Repo.MyCourses(c.UserContext(), userID, state.FetchOptions{Refresh: helper.WantsRefresh(c)})
	return helper.JsonStream(c, st, "Course milik user", fiber.StatusOK)
}

// POST /api/courses/:id/refresh
func (cc *CourseController) RefreshContent(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonStream(c, cc.Repo.RefreshCourseContent(c.UserContext(), id), "Isi course diperbarui", fiber.StatusOK)
}
