package handlers

import (
	"github.com/bloodbridge/bloodbridge-backend/internal/dto"
	"github.com/bloodbridge/bloodbridge-backend/internal/eligibility"
	"github.com/bloodbridge/bloodbridge-backend/internal/middleware"
	"github.com/bloodbridge/bloodbridge-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Edit handles POST /api/profile/edit for any variant.
func (h *ProfileHandler) Edit(c *fiber.Ctx) error {
	return h.edit(c, "")
}

// EditAs serves the /api/profile/edit-<variant> routes, which only accept
// callers whose resolved variant is v.
func (h *ProfileHandler) EditAs(v eligibility.Variant) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return h.edit(c, v)
	}
}

func (h *ProfileHandler) edit(c *fiber.Ctx, route eligibility.Variant) error {
	var req dto.EditProfileRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	profile, err := h.profileService.EditProfile(c.UserContext(), middleware.CurrentAccount(c).ID, route, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// Upgrade handles POST /api/profile/update.
func (h *ProfileHandler) Upgrade(c *fiber.Ctx) error {
	var req dto.UpgradeRequest
	if len(c.Body()) > 0 {
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
	}

	profile, err := h.profileService.UpgradeToDonor(c.UserContext(), middleware.CurrentAccount(c).ID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}
