package middleware

import (
	"errors"
	"log/slog"

	"github.com/bloodbridge/bloodbridge-backend/internal/dto"
	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/bloodbridge/bloodbridge-backend/internal/session"
	"github.com/bloodbridge/bloodbridge-backend/internal/store"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	claimsKey  = "claims"
	accountKey = "account"
)

// JWTProtected verifies the session token from the Authorization header or
// the session cookie and stores it in Locals("user").
func JWTProtected(tokens *session.Manager, cookieName string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: tokens.Secret()},
		TokenLookup: "header:Authorization,cookie:" + cookieName,
		// A custom TokenLookup leaves the scheme empty, which would make the
		// header extractor return "Bearer <jwt>" as the token.
		AuthScheme: "Bearer",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// LoadSession runs after JWTProtected. It rejects revoked tokens and loads
// the account on every request, since roles change while tokens are alive.
func LoadSession(st store.Store, revocations session.Revocations) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, _ := c.Locals("user").(*jwt.Token)
		claims, err := session.FromToken(token)
		if err != nil {
			return unauthorized(c, "Unauthorized: invalid or expired token")
		}

		revoked, err := revocations.IsRevoked(c.UserContext(), claims.JTI)
		if err != nil {
			slog.Error("revocation check failed", "user_id", claims.UserID.String(), "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: true, Message: "Session store unavailable",
			})
		}
		if revoked {
			return unauthorized(c, "Unauthorized: session has ended")
		}

		account, err := st.Accounts().Get(c.UserContext(), claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return unauthorized(c, "Unauthorized: account no longer exists")
			}
			slog.Error("failed to load session account", "user_id", claims.UserID.String(), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Internal server error",
			})
		}

		c.Locals(claimsKey, claims)
		c.Locals(accountKey, account)
		return c.Next()
	}
}

// CurrentAccount is the account loaded by LoadSession.
func CurrentAccount(c *fiber.Ctx) *models.Account {
	a, _ := c.Locals(accountKey).(*models.Account)
	return a
}

func CurrentClaims(c *fiber.Ctx) (session.Claims, bool) {
	claims, ok := c.Locals(claimsKey).(session.Claims)
	return claims, ok
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: message})
}
