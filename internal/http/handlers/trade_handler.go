package handlers

import (
	"context"

	"github.com/exchange-ui/backend/internal/http/dto"
	"github.com/exchange-ui/backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TradeService interface {
	Markets(ctx context.Context) ([]models.Market, error)
	Recent(ctx context.Context, marketID string, limit int) ([]models.PublicTrade, error)
	Record(ctx context.Context, t *models.PublicTrade) error
}

type TradeHandler struct {
	service TradeService
	log     *zap.Logger
}

func NewTradeHandler(service TradeService, log *zap.Logger) *TradeHandler {
	return &TradeHandler{service: service, log: log}
}

func (h *TradeHandler) Markets(c *fiber.Ctx) error {
	markets, err := h.service.Markets(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	if markets == nil {
		markets = []models.Market{}
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: markets})
}

// Recent: GET /public/markets/:market/trades?limit=50
func (h *TradeHandler) Recent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	trades, err := h.service.Recent(c.UserContext(), c.Params("market"), limit)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if trades == nil {
		trades = []models.PublicTrade{}
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: trades})
}

// Record принимает сделку от matching engine (internal).
func (h *TradeHandler) Record(c *fiber.Ctx) error {
	var req dto.RecordTradeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	if err := dto.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	trade := req.Trade()
	if err := h.service.Record(c.UserContext(), trade); err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: trade})
}
