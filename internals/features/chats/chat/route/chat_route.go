package route

import (
	"github.com/gofiber/fiber/v2"

	database "lms_backend/internals/databases"
	"lms_backend/internals/features/chats/chat/controller"
	"lms_backend/internals/features/chats/chat/repository"
	"lms_backend/internals/remote"
)

func ChatRoutes(r fiber.Router, store *database.Store, backend remote.Backend) {
	ctrl := controller.NewChatController(repository.NewChatRepository(store, backend))

	chats := r.Group("/chats")
	chats.Get("/", ctrl.GetChats)
	chats.Post("/", ctrl.OpenChat)
	chats.Get("/:id/messages", ctrl.GetMessages)
	chats.Post("/:id/messages", ctrl.SendMessage)
}
