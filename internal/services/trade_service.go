package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/exchange-ui/backend/internal/config"
	"github.com/exchange-ui/backend/internal/events"
	"github.com/exchange-ui/backend/internal/models"
	"github.com/exchange-ui/backend/internal/repositories"
	"go.uber.org/zap"
)

type TradeStore interface {
	Markets(ctx context.Context) ([]models.Market, error)
	Market(ctx context.Context, id string) (*models.Market, error)
	Recent(ctx context.Context, marketID string, limit int) ([]models.PublicTrade, error)
	Insert(ctx context.Context, t *models.PublicTrade) error
}

type TradeService struct {
	repo      TradeStore
	audit     AuditLogger
	publisher events.Publisher
	cfg       *config.Config
	log       *zap.Logger
}

func NewTradeService(repo TradeStore, audit AuditLogger, publisher events.Publisher, cfg *config.Config, log *zap.Logger) *TradeService {
	return &TradeService{repo: repo, audit: audit, publisher: publisher, cfg: cfg, log: log}
}

func (s *TradeService) Markets(ctx context.Context) ([]models.Market, error) {
	return s.repo.Markets(ctx)
}

func (s *TradeService) Market(ctx context.Context, id string) (*models.Market, error) {
	m, err := s.repo.Market(ctx, strings.ToLower(strings.TrimSpace(id)))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMarketNotFound
		}
		return nil, err
	}
	return m, nil
}

// Recent returns the latest trades of a market. limit is clamped to the
// configured maximum; zero or negative means the maximum.
func (s *TradeService) Recent(ctx context.Context, marketID string, limit int) ([]models.PublicTrade, error) {
	m, err := s.Market(ctx, marketID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > s.cfg.RecentTradesLimit {
		limit = s.cfg.RecentTradesLimit
	}
	trades, err := s.repo.Recent(ctx, m.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}
	return trades, nil
}

// Record stores an executed trade reported by the matching engine and
// announces it to sessions watching the market.
func (s *TradeService) Record(ctx context.Context, t *models.PublicTrade) error {
	m, err := s.Market(ctx, t.Market)
	if err != nil {
		return err
	}
	t.Market = m.ID
	if !models.IsValidTakerType(t.TakerType) {
		return fmt.Errorf("%w: taker_type must be buy or sell", ErrInvalidTrade)
	}
	if !t.Price.IsPositive() || !t.Volume.IsPositive() {
		return fmt.Errorf("%w: price and amount must be positive", ErrInvalidTrade)
	}

	if err := s.repo.Insert(ctx, t); err != nil {
		return fmt.Errorf("failed to save trade: %w", err)
	}
	t.Total = t.Price.Mul(t.Volume)

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.StreamTrades, events.Event{
			Type: events.EventTradeExecuted,
			Payload: map[string]any{
				"market":     m.ID,
				"price":      t.Price.String(),
				"amount":     t.Volume.String(),
				"taker_type": t.TakerType,
			},
		})
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorType:  "internal",
		Action:     "trade_recorded",
		EntityType: "trade",
		EntityID:   fmt.Sprint(t.ID),
		Meta:       map[string]any{"market": m.ID},
	})

	s.log.Debug("trade recorded", zap.String("market", m.ID), zap.Int64("trade_id", t.ID))
	return nil
}
