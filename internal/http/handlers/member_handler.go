package handlers

import (
	"context"

	"github.com/exchange-ui/backend/internal/http/dto"
	"github.com/exchange-ui/backend/internal/middleware"
	"github.com/exchange-ui/backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MemberService interface {
	Levels(ctx context.Context) (*models.MemberLevels, error)
	Me(ctx context.Context, userID uuid.UUID) (*models.UserInfo, error)
}

type MemberHandler struct {
	service MemberService
	log     *zap.Logger
}

func NewMemberHandler(service MemberService, log *zap.Logger) *MemberHandler {
	return &MemberHandler{service: service, log: log}
}

func (h *MemberHandler) Levels(c *fiber.Ctx) error {
	levels, err := h.service.Levels(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: levels})
}

func (h *MemberHandler) Me(c *fiber.Ctx) error {
	user, err := h.service.Me(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: user})
}
