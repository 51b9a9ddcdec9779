package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/exchange-ui/backend/internal/auth"
	"github.com/exchange-ui/backend/internal/config"
	"github.com/exchange-ui/backend/internal/http/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	CtxUserID = "user_id"
	CtxEmail  = "email"

	InternalTokenHeader = "X-Internal-Token"
)

func AuthMiddleware(cfg *config.Config, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "missing authorization header"})
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid authorization format"})
		}

		claims, err := auth.ParseJWT(cfg.JWTSecret, tokenStr)
		if err != nil {
			log.Debug("jwt parse error", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid or expired token"})
		}

		c.Locals(CtxUserID, claims.UserID)
		c.Locals(CtxEmail, claims.Email)

		return c.Next()
	}
}

func GetUserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(CtxUserID).(uuid.UUID)
	return id
}

// InternalMiddleware guards service-to-service endpoints with a shared
// token. An empty configured token disables them.
func InternalMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.InternalToken == "" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Error: "internal api disabled"})
		}
		got := c.Get(InternalTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(cfg.InternalToken)) != 1 {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "invalid internal token"})
		}
		return c.Next()
	}
}
