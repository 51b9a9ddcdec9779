package handlers

import (
	"errors"

	"github.com/exchange-ui/backend/internal/beneficiaries"
	"github.com/exchange-ui/backend/internal/http/dto"
	"github.com/exchange-ui/backend/internal/middleware"
	"github.com/exchange-ui/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{services.ErrBeneficiaryNotFound, fiber.StatusNotFound, "error.beneficiaries.not.found"},
	{services.ErrUserNotFound, fiber.StatusNotFound, "error.user.not.found"},
	{services.ErrMarketNotFound, fiber.StatusNotFound, "error.market.not.found"},
	{services.ErrInvalidDestination, fiber.StatusUnprocessableEntity, "error.beneficiaries.invalid.address"},
	{services.ErrInvalidTrade, fiber.StatusUnprocessableEntity, "error.trade.invalid"},
	{services.ErrInsufficientLevel, fiber.StatusForbidden, beneficiaries.ErrKeyInsufficientLevel},
	{services.ErrMaxBeneficiaries, fiber.StatusUnprocessableEntity, beneficiaries.ErrKeyMaxAddresses},
	{services.ErrNotPending, fiber.StatusConflict, "error.beneficiaries.not.pending"},
	{services.ErrInvalidPin, fiber.StatusUnprocessableEntity, "error.beneficiaries.pin.invalid"},
	{services.ErrPinExpired, fiber.StatusGone, "error.beneficiaries.pin.expired"},
	{services.ErrPinAttemptsExceeded, fiber.StatusLocked, "error.beneficiaries.pin.attempts"},
	{services.ErrResendTooSoon, fiber.StatusTooManyRequests, "error.beneficiaries.pin.resend.timeout"},
}

// respondError maps domain errors to status codes; anything unknown is a 500
// and gets logged.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{
				Error:     err.Error(),
				Code:      m.code,
				RequestID: middleware.GetRequestID(c),
			})
		}
	}

	log.Error("request failed",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error:     "internal error",
		Code:      "server.internal_error",
		RequestID: middleware.GetRequestID(c),
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: msg, RequestID: middleware.GetRequestID(c)})
}
