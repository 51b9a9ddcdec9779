package services

import (
	"context"
	"errors"
	"testing"

	"github.com/exchange-ui/backend/internal/config"
	"github.com/exchange-ui/backend/internal/events"
	"github.com/exchange-ui/backend/internal/models"
	"github.com/exchange-ui/backend/internal/repositories"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type memTrades struct {
	markets  map[string]models.Market
	trades   []models.PublicTrade
	gotLimit int
}

func (m *memTrades) Markets(context.Context) ([]models.Market, error) {
	var out []models.Market
	for _, mk := range m.markets {
		out = append(out, mk)
	}
	return out, nil
}

func (m *memTrades) Market(_ context.Context, id string) (*models.Market, error) {
	mk, ok := m.markets[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &mk, nil
}

func (m *memTrades) Recent(_ context.Context, marketID string, limit int) ([]models.PublicTrade, error) {
	m.gotLimit = limit
	var out []models.PublicTrade
	for _, t := range m.trades {
		if t.Market == marketID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTrades) Insert(_ context.Context, t *models.PublicTrade) error {
	t.ID = int64(len(m.trades) + 1)
	m.trades = append(m.trades, *t)
	return nil
}

func newTradeFixture() (*TradeService, *memTrades, *capturePublisher) {
	repo := &memTrades{markets: map[string]models.Market{
		"btcusdt": {ID: "btcusdt", BaseUnit: "btc", QuoteUnit: "usdt", PricePrecision: 2, AmountPrecision: 4},
	}}
	pub := &capturePublisher{}
	cfg := &config.Config{RecentTradesLimit: 50}
	return NewTradeService(repo, &memAudit{}, pub, cfg, zap.NewNop()), repo, pub
}

func TestRecentClampsLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 50},
		{-3, 50},
		{10, 10},
		{500, 50},
	}
	for _, tt := range tests {
		svc, repo, _ := newTradeFixture()
		if _, err := svc.Recent(context.Background(), "BTCUSDT", tt.in); err != nil {
			t.Fatalf("Recent(%d): %v", tt.in, err)
		}
		if repo.gotLimit != tt.want {
			t.Errorf("limit %d -> %d, want %d", tt.in, repo.gotLimit, tt.want)
		}
	}
}

func TestRecentUnknownMarket(t *testing.T) {
	svc, _, _ := newTradeFixture()
	if _, err := svc.Recent(context.Background(), "dogeusd", 10); !errors.Is(err, ErrMarketNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestRecord(t *testing.T) {
	svc, repo, pub := newTradeFixture()
	trade := &models.PublicTrade{
		Market:    "btcusdt",
		Price:     decimal.RequireFromString("64000.5"),
		Volume:    decimal.RequireFromString("0.002"),
		TakerType: models.TakerTypeBuy,
	}

	if err := svc.Record(context.Background(), trade); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(repo.trades) != 1 || trade.ID != 1 {
		t.Errorf("trade not stored: %+v", repo.trades)
	}
	if !trade.Total.Equal(decimal.RequireFromString("128.001")) {
		t.Errorf("total = %s", trade.Total)
	}
	if len(pub.events) != 1 || pub.events[0].Type != events.EventTradeExecuted || pub.events[0].String("market") != "btcusdt" {
		t.Errorf("events = %+v", pub.events)
	}
}

func TestRecordValidation(t *testing.T) {
	one := decimal.NewFromInt(1)
	tests := []struct {
		name  string
		trade models.PublicTrade
		want  error
	}{
		{"unknown market", models.PublicTrade{Market: "x", Price: one, Volume: one, TakerType: "buy"}, ErrMarketNotFound},
		{"bad taker", models.PublicTrade{Market: "btcusdt", Price: one, Volume: one, TakerType: "hold"}, ErrInvalidTrade},
		{"zero price", models.PublicTrade{Market: "btcusdt", Volume: one, TakerType: "sell"}, ErrInvalidTrade},
		{"negative amount", models.PublicTrade{Market: "btcusdt", Price: one, Volume: one.Neg(), TakerType: "sell"}, ErrInvalidTrade},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, pub := newTradeFixture()
			tr := tt.trade
			if err := svc.Record(context.Background(), &tr); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if len(repo.trades) != 0 || len(pub.events) != 0 {
				t.Error("invalid trade must not be stored or published")
			}
		})
	}
}
