package middleware

import (
	"strings"

	"github.com/bloodbridge/bloodbridge-backend/internal/dto"
	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

const (
	adminPrefix   = "/api/admin/"
	blockedPrefix = "/api/blocked/"
)

// Paths every signed-in account may reach.
var sessionPaths = []string{"/api/me", "/api/logout"}

// RoleGuard confines blocked accounts to the appeal routes and admins to the
// admin panel, and keeps everyone else out of the admin panel.
func RoleGuard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		account := CurrentAccount(c)
		if account == nil {
			return unauthorized(c, "Unauthorized")
		}
		if !Allowed(account.Role, c.Path()) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: forbiddenMessage(account.Role),
			})
		}
		return c.Next()
	}
}

// Allowed reports whether role may reach path. The path is compared the way
// the router matches it: case-insensitively and without trailing slashes.
func Allowed(role models.Role, path string) bool {
	path = strings.TrimRight(strings.ToLower(path), "/")
	for _, p := range sessionPaths {
		if path == p {
			return true
		}
	}

	admin := strings.HasPrefix(path+"/", adminPrefix)
	switch role {
	case models.RoleBlocked:
		return strings.HasPrefix(path+"/", blockedPrefix)
	case models.RoleAdmin:
		return admin
	default:
		return !admin
	}
}

// RequireRole is attached to a route group and admits only the given roles,
// whatever spelling of the path led the router there.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account := CurrentAccount(c)
		if account == nil {
			return unauthorized(c, "Unauthorized")
		}
		for _, r := range roles {
			if account.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: forbiddenMessage(account.Role),
		})
	}
}

func forbiddenMessage(role models.Role) string {
	switch role {
	case models.RoleBlocked:
		return "Your account is blocked"
	case models.RoleAdmin:
		return "Admins can only use the admin panel"
	}
	return "Admin access required"
}
