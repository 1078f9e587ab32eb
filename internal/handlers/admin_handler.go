package handlers

import (
	"github.com/bloodbridge/bloodbridge-backend/internal/dto"
	"github.com/bloodbridge/bloodbridge-backend/internal/middleware"
	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/bloodbridge/bloodbridge-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) Warn(c *fiber.Ctx) error {
	var req dto.WarnRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	n, err := h.adminService.Warn(c.UserContext(), middleware.CurrentAccount(c).ID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(n)
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	limit, offset := page(c)
	accounts, total, err := h.adminService.ListAccounts(c.UserContext(), models.Role(c.Query("role")), limit, offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"users":  accounts,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.adminService.DeleteAccount(c.UserContext(), middleware.CurrentAccount(c).ID, userID); err != nil {
		return respondError(c, err)
	}
	return message(c, "Account deleted successfully")
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.adminService.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
