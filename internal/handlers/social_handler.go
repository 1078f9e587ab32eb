package handlers

import (
	"github.com/bloodbridge/bloodbridge-backend/internal/dto"
	"github.com/bloodbridge/bloodbridge-backend/internal/middleware"
	"github.com/bloodbridge/bloodbridge-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// SocialHandler serves notifications, thanks and donor votes.
type SocialHandler struct {
	notificationService *services.NotificationService
	voteService         *services.VoteService
}

func NewSocialHandler(notificationService *services.NotificationService, voteService *services.VoteService) *SocialHandler {
	return &SocialHandler{notificationService: notificationService, voteService: voteService}
}

func (h *SocialHandler) ListNotifications(c *fiber.Ctx) error {
	list, err := h.notificationService.List(c.UserContext(), middleware.CurrentAccount(c).ID, c.QueryBool("unread"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"notifications": list, "total": len(list)})
}

func (h *SocialHandler) MarkRead(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.notificationService.MarkRead(c.UserContext(), middleware.CurrentAccount(c).ID, id); err != nil {
		return respondError(c, err)
	}
	return message(c, "Notification marked as read")
}

func (h *SocialHandler) DeleteNotification(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.notificationService.Delete(c.UserContext(), middleware.CurrentAccount(c).ID, id); err != nil {
		return respondError(c, err)
	}
	return message(c, "Notification deleted")
}

func (h *SocialHandler) SendThanks(c *fiber.Ctx) error {
	var req dto.ThanksRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	n, err := h.notificationService.SendThanks(c.UserContext(), middleware.CurrentAccount(c).ID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(n)
}

// VoteSummary handles GET /api/reportvotedata?donor_id=.
func (h *SocialHandler) VoteSummary(c *fiber.Ctx) error {
	donorID, err := queryUUID(c, "donor_id")
	if err != nil {
		return respondError(c, err)
	}

	summary, err := h.voteService.Summary(c.UserContext(), middleware.CurrentAccount(c).ID, donorID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

func (h *SocialHandler) CastVote(c *fiber.Ctx) error {
	var req dto.VoteRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	vote, err := h.voteService.Cast(c.UserContext(), middleware.CurrentAccount(c).ID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(vote)
}

func (h *SocialHandler) ChangeVote(c *fiber.Ctx) error {
	var req dto.VoteRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	vote, err := h.voteService.Change(c.UserContext(), middleware.CurrentAccount(c).ID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(vote)
}

func (h *SocialHandler) DeleteVote(c *fiber.Ctx) error {
	donorID, err := queryUUID(c, "donor_id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.voteService.Delete(c.UserContext(), middleware.CurrentAccount(c).ID, donorID); err != nil {
		return respondError(c, err)
	}
	return message(c, "Vote deleted")
}
