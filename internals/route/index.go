// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	database "lms_backend/internals/databases"
	announcementRoute "lms_backend/internals/features/academics/announcements/route"
	assignmentRoute "lms_backend/internals/features/academics/assignments/route"
	courseRoute "lms_backend/internals/features/academics/courses/route"
	catalogRoute "lms_backend/internals/features/academics/departments/route"
	chatRoute "lms_backend/internals/features/chats/chat/route"
	userRoute "lms_backend/internals/features/users/user/route"
	"lms_backend/internals/middlewares"
	"lms_backend/internals/remote"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, store *database.Store, backend remote.Backend) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, store)

	// tulis & refresh diteruskan ke remote: dibatasi terpisah dari limiter global
	api := app.Group("/api", middlewares.RemoteRateLimiter())

	log.Println("[INFO] Mounting Catalog routes...")
	catalogRoute.CatalogRoutes(api, store)

	log.Println("[INFO] Mounting Course routes...")
	courseRoute.CourseRoutes(api, store, backend)
	announcementRoute.AnnouncementRoutes(api, store, backend)
	assignmentRoute.AssignmentRoutes(api, store, backend)

	log.Println("[INFO] Mounting User routes...")
	userRoute.UserRoutes(api, store, backend)

	log.Println("[INFO] Mounting Chat routes...")
	chatRoute.ChatRoutes(api, store, backend)
}
