package controller

import (
	"github.com/gofiber/fiber/v2"

	"lms_backend/internals/features/academics/announcements/model"
	"lms_backend/internals/features/academics/announcements/repository"
	helper "lms_backend/internals/helpers"
	"lms_backend/internals/helpers/state"
)

type AnnouncementController struct {
	Repo repository.AnnouncementRepository
}

func NewAnnouncementController(repo repository.AnnouncementRepository) *AnnouncementController {
	return &AnnouncementController{Repo: repo}
}

// GET /api/courses/:id/announcements
func (ac *AnnouncementController) GetAnnouncements(c *fiber.Ctx) error {
	courseID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	st := ac.Repo.FetchAnnouncements(c.UserContext(), courseID, state.FetchOptions{Refresh: helper.WantsRefresh(c)})
	return helper.JsonStream(c, st, "Daftar pengumuman", fiber.StatusOK)
}

// POST /api/courses/:id/announcements
func (ac *AnnouncementController) PostAnnouncement(c *fiber.Ctx) error {
	courseID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var body model.AnnouncementModel
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	body.CourseID = courseID
	return helper.JsonStream(c, ac.Repo.PostAnnouncement(c.UserContext(), body), "Pengumuman terkirim", fiber.StatusCreated)
}
