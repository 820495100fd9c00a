package route

import (
	"github.com/gofiber/fiber/v2"

	database "lms_backend/internals/databases"
	"lms_backend/internals/features/academics/announcements/controller"
	"lms_backend/internals/features/academics/announcements/repository"
	"lms_backend/internals/remote"
)

func AnnouncementRoutes(r fiber.Router, store *database.Store, backend remote.Backend) {
	ctrl := controller.NewAnnouncementController(repository.NewAnnouncementRepository(store, backend))

	r.Get("/courses/:id/announcements", ctrl.GetAnnouncements)
	r.Post("/courses/:id/announcements", ctrl.PostAnnouncement)
}
