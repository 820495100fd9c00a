package controller

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"lms_backend/internals/features/chats/chat/model"
	"lms_backend/internals/features/chats/chat/repository"
	helper "lms_backend/internals/helpers"
	"lms_backend/internals/helpers/state"
)

type ChatController struct {
	Repo repository.ChatRepository
}

func NewChatController(repo repository.ChatRepository) *ChatController {
	return &ChatController{Repo: repo}
}

// GET /api/chats?kind=course
func (cc *ChatController) GetChats(c *fiber.Ctx) error {
	kind := model.ChannelKind(strings.ToLower(strings.TrimSpace(c.Query("kind"))))
	return helper.JsonStream(c, cc.Repo.Chats(c.UserContext(), kind), "Daftar chat", fiber.StatusOK)
}

type openChatRequest struct {
	Kind        model.ChannelKind `json:"kind"`
	DisplayName string            `json:"display_name"`
}

// POST /api/chats: cari atau buat channel
func (cc *ChatController) OpenChat(c *fiber.Ctx) error {
	var body openChatRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	chat, err := cc.Repo.OpenChat(c.UserContext(), body.Kind, body.DisplayName)
	if err != nil {
		log.Println("[ERROR] Gagal membuka chat:", err)
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Chat siap", chat)
}

// GET /api/chats/:id/messages
func (cc *ChatController) GetMessages(c *fiber.Ctx) error {
	chatID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	st := cc.Repo.FetchMessages(c.UserContext(), chatID, state.FetchOptions{Refresh: helper.WantsRefresh(c)})
	return helper.JsonStream(c, st, "Daftar pesan", fiber.StatusOK)
}

// POST /api/chats/:id/messages
func (cc *ChatController) SendMessage(c *fiber.Ctx) error {
	chatID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var body model.ChatMessageModel
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	body.ID = 0
	body.ChatID = chatID
	return helper.JsonStream(c, cc.Repo.SendMessage(c.UserContext(), body), "Pesan terkirim", fiber.StatusCreated)
}
