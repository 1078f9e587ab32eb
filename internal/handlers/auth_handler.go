package handlers

import (
	"github.com/bloodbridge/bloodbridge-backend/internal/dto"
	"github.com/bloodbridge/bloodbridge-backend/internal/middleware"
	"github.com/bloodbridge/bloodbridge-backend/internal/services"
	"github.com/bloodbridge/bloodbridge-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService    *services.AuthService
	profileService *services.ProfileService
	cookie         session.CookieConfig
}

func NewAuthHandler(authService *services.AuthService, profileService *services.ProfileService, cookie session.CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, profileService: profileService, cookie: cookie}
}

// RegisterDonor handles POST /api/register.
func (h *AuthHandler) RegisterDonor(c *fiber.Ctx) error {
	var req dto.DonorRegisterRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	res, err := h.authService.RegisterDonor(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return h.startSession(c, fiber.StatusCreated, res)
}

// Signup handles POST /api/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	res, err := h.authService.Signup(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return h.startSession(c, fiber.StatusCreated, res)
}

// RegisterAdmin handles POST /api/admin/register. The shared secret travels
// in the X-Admin-Secret header.
func (h *AuthHandler) RegisterAdmin(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	res, err := h.authService.RegisterAdmin(c.UserContext(), c.Get("X-Admin-Secret"), &req)
	if err != nil {
		return respondError(c, err)
	}
	return h.startSession(c, fiber.StatusCreated, res)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	res, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return h.startSession(c, fiber.StatusOK, res)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
	}
	if err := h.authService.Logout(c.UserContext(), claims); err != nil {
		return respondError(c, err)
	}
	session.ClearCookie(c, h.cookie)
	return message(c, "Logged out successfully")
}

// Me returns the caller's profile, including the block record when blocked.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	profile, err := h.profileService.GetProfile(c.UserContext(), middleware.CurrentAccount(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

func (h *AuthHandler) startSession(c *fiber.Ctx, status int, res *services.AuthResult) error {
	session.SetCookie(c, h.cookie, res.Token, res.ExpiresAt)
	return c.Status(status).JSON(res.Response())
}
