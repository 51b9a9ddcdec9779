package handlers

import (
	"context"
	"strconv"

	"github.com/exchange-ui/backend/internal/http/dto"
	"github.com/exchange-ui/backend/internal/middleware"
	"github.com/exchange-ui/backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BeneficiaryService interface {
	List(ctx context.Context, userID uuid.UUID, currency string) ([]models.Beneficiary, error)
	Get(ctx context.Context, userID uuid.UUID, id int64) (*models.Beneficiary, error)
	Create(ctx context.Context, userID uuid.UUID, draft models.BeneficiaryDraft) (*models.Beneficiary, error)
	Activate(ctx context.Context, userID uuid.UUID, id int64, pin string) (*models.Beneficiary, error)
	ResendPin(ctx context.Context, userID uuid.UUID, id int64) error
	Delete(ctx context.Context, userID uuid.UUID, id int64) error
}

type BeneficiaryHandler struct {
	service BeneficiaryService
	log     *zap.Logger
}

func NewBeneficiaryHandler(service BeneficiaryService, log *zap.Logger) *BeneficiaryHandler {
	return &BeneficiaryHandler{service: service, log: log}
}

// List: GET /account/beneficiaries?currency=btc
func (h *BeneficiaryHandler) List(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext(), middleware.GetUserID(c), c.Query("currency"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	if items == nil {
		items = []models.Beneficiary{}
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: items})
}

func (h *BeneficiaryHandler) Get(c *fiber.Ctx) error {
	id, err := beneficiaryID(c)
	if err != nil {
		return badRequest(c, "invalid beneficiary id")
	}
	b, err := h.service.Get(c.UserContext(), middleware.GetUserID(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: b})
}

func (h *BeneficiaryHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateBeneficiaryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	if err := dto.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	b, err := h.service.Create(c.UserContext(), middleware.GetUserID(c), req.Draft())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: b})
}

func (h *BeneficiaryHandler) Activate(c *fiber.Ctx) error {
	id, err := beneficiaryID(c)
	if err != nil {
		return badRequest(c, "invalid beneficiary id")
	}
	var req dto.ActivateBeneficiaryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	if err := dto.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	b, err := h.service.Activate(c.UserContext(), middleware.GetUserID(c), id, req.Pin)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: b})
}

func (h *BeneficiaryHandler) ResendPin(c *fiber.Ctx) error {
	id, err := beneficiaryID(c)
	if err != nil {
		return badRequest(c, "invalid beneficiary id")
	}
	if err := h.service.ResendPin(c.UserContext(), middleware.GetUserID(c), id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *BeneficiaryHandler) Delete(c *fiber.Ctx) error {
	id, err := beneficiaryID(c)
	if err != nil {
		return badRequest(c, "invalid beneficiary id")
	}
	if err := h.service.Delete(c.UserContext(), middleware.GetUserID(c), id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func beneficiaryID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.ErrBadRequest
	}
	return id, nil
}
