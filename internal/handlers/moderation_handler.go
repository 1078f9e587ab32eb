package handlers

import (
	"github.com/bloodbridge/bloodbridge-backend/internal/dto"
	"github.com/bloodbridge/bloodbridge-backend/internal/middleware"
	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/bloodbridge/bloodbridge-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ModerationHandler struct {
	moderationService *services.ModerationService
}

func NewModerationHandler(moderationService *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

func (h *ModerationHandler) Block(c *fiber.Ctx) error {
	var req dto.BlockRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	record, err := h.moderationService.Block(c.UserContext(), middleware.CurrentAccount(c).ID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

func (h *ModerationHandler) Unblock(c *fiber.Ctx) error {
	var req dto.UnblockUserRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	account, err := h.moderationService.Unblock(c.UserContext(), middleware.CurrentAccount(c).ID, req.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User unblocked successfully", "user": account})
}

func (h *ModerationHandler) BlockedUsers(c *fiber.Ctx) error {
	records, err := h.moderationService.ListBlocked(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"blocked_users": records, "total": len(records)})
}

func (h *ModerationHandler) UnblockRequests(c *fiber.Ctx) error {
	reqs, err := h.moderationService.ListUnblockRequests(c.UserContext(), models.UnblockStatus(c.Query("status")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"unblock_requests": reqs, "total": len(reqs)})
}

// BlockedStatus handles GET /api/blocked/status for the blocked caller.
func (h *ModerationHandler) BlockedStatus(c *fiber.Ctx) error {
	status, err := h.moderationService.BlockedStatus(c.UserContext(), middleware.CurrentAccount(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(status)
}

func (h *ModerationHandler) SubmitUnblockRequest(c *fiber.Ctx) error {
	var req dto.SubmitUnblockRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	created, err := h.moderationService.SubmitUnblockRequest(c.UserContext(), middleware.CurrentAccount(c).ID, req.Message)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *ModerationHandler) CreateReport(c *fiber.Ctx) error {
	var req dto.CreateReportRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	report, err := h.moderationService.CreateReport(c.UserContext(), middleware.CurrentAccount(c).ID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ModerationHandler) ListReports(c *fiber.Ctx) error {
	limit, offset := page(c)
	reports, total, err := h.moderationService.ListReports(c.UserContext(), c.Query("status"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"reports": reports,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

func (h *ModerationHandler) ActionReport(c *fiber.Ctx) error {
	reportID, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req dto.ActionReportRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	if err := h.moderationService.ActionReport(c.UserContext(), reportID, &req); err != nil {
		return respondError(c, err)
	}
	return message(c, "Report updated successfully")
}
