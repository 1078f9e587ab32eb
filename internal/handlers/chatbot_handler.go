package handlers

import (
	"github.com/bloodbridge/bloodbridge-backend/internal/dto"
	"github.com/bloodbridge/bloodbridge-backend/internal/middleware"
	"github.com/bloodbridge/bloodbridge-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ChatbotHandler struct {
	chatbotService *services.ChatbotService
}

func NewChatbotHandler(chatbotService *services.ChatbotService) *ChatbotHandler {
	return &ChatbotHandler{chatbotService: chatbotService}
}

func (h *ChatbotHandler) History(c *fiber.Ctx) error {
	msgs, err := h.chatbotService.History(c.UserContext(), middleware.CurrentAccount(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"messages": msgs})
}

func (h *ChatbotHandler) Ask(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	reply, err := h.chatbotService.Ask(c.UserContext(), middleware.CurrentAccount(c).ID, req.Message)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reply)
}

func (h *ChatbotHandler) Clear(c *fiber.Ctx) error {
	if err := h.chatbotService.Clear(c.UserContext(), middleware.CurrentAccount(c).ID); err != nil {
		return respondError(c, err)
	}
	return message(c, "Chat history cleared")
}
