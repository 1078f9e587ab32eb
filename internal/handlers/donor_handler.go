package handlers

import (
	"strings"

	"github.com/bloodbridge/bloodbridge-backend/internal/dto"
	"github.com/bloodbridge/bloodbridge-backend/internal/middleware"
	"github.com/bloodbridge/bloodbridge-backend/internal/services"
	"github.com/bloodbridge/bloodbridge-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

type DonorHandler struct {
	donorService *services.DonorService
}

func NewDonorHandler(donorService *services.DonorService) *DonorHandler {
	return &DonorHandler{donorService: donorService}
}

func (h *DonorHandler) GetDonorData(c *fiber.Ctx) error {
	donor, err := h.donorService.GetDonorData(c.UserContext(), middleware.CurrentAccount(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(donor)
}

func (h *DonorHandler) UpdateDonorData(c *fiber.Ctx) error {
	var patch dto.DonorPatch
	if err := bind(c, &patch); err != nil {
		return respondError(c, err)
	}

	donor, err := h.donorService.UpdateDonorData(c.UserContext(), middleware.CurrentAccount(c).ID, &patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(donor)
}

// Search handles GET /api/donors. A "+" in blood_type arrives as a space
// when the client did not escape it.
func (h *DonorHandler) Search(c *fiber.Ctx) error {
	limit, offset := page(c)
	filter := store.DonorFilter{
		BloodType:     strings.ToUpper(strings.ReplaceAll(c.Query("blood_type"), " ", "+")),
		Country:       strings.TrimSpace(c.Query("country")),
		State:         strings.TrimSpace(c.Query("state")),
		City:          strings.TrimSpace(c.Query("city")),
		AvailableOnly: c.QueryBool("available"),
		Limit:         limit,
		Offset:        offset,
	}

	donors, total, err := h.donorService.Search(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"donors": donors,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *DonorHandler) GetDonor(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	donor, err := h.donorService.GetDonor(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(donor)
}

func (h *DonorHandler) GetSchedule(c *fiber.Ctx) error {
	sched, err := h.donorService.GetSchedule(c.UserContext(), middleware.CurrentAccount(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sched)
}

func (h *DonorHandler) SetSchedule(c *fiber.Ctx) error {
	var req dto.ScheduleRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	sched, err := h.donorService.SetSchedule(c.UserContext(), middleware.CurrentAccount(c).ID, req.AvailableFrom)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sched)
}

func (h *DonorHandler) ClearSchedule(c *fiber.Ctx) error {
	sched, err := h.donorService.ClearSchedule(c.UserContext(), middleware.CurrentAccount(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sched)
}
