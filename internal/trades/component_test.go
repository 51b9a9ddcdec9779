package trades

import (
	"context"
	"testing"
	"time"

	"github.com/exchange-ui/backend/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type fakeIntents struct {
	fetched []string
	prices  []string
}

func (f *fakeIntents) FetchTrades(_ context.Context, m models.Market) {
	f.fetched = append(f.fetched, m.ID)
}

func (f *fakeIntents) SetCurrentPrice(_ context.Context, p decimal.Decimal) {
	f.prices = append(f.prices, p.String())
}

var btcusdt = models.Market{
	ID: "btcusdt", Name: "BTC/USDT", BaseUnit: "btc", QuoteUnit: "usdt",
	AmountPrecision: 4, PricePrecision: 2,
}

func trade(id int64, price, volume, taker string, at time.Time) models.PublicTrade {
	return models.PublicTrade{
		ID:        id,
		Market:    "btcusdt",
		Price:     decimal.RequireFromString(price),
		Volume:    decimal.RequireFromString(volume),
		TakerType: taker,
		CreatedAt: at,
	}
}

func TestFetchOnMarketChange(t *testing.T) {
	ctx := context.Background()
	f := &fakeIntents{}
	c := NewComponent(f, time.UTC, zap.NewNop())

	c.Mount(ctx, Input{})
	if len(f.fetched) != 0 {
		t.Fatal("no market, no fetch")
	}

	c.Update(ctx, Input{Market: &btcusdt})
	same := btcusdt
	c.Update(ctx, Input{Market: &same})
	eth := models.Market{ID: "ethusdt"}
	c.Update(ctx, Input{Market: &eth})
	c.Update(ctx, Input{})

	want := []string{"btcusdt", "ethusdt"}
	if len(f.fetched) != len(want) {
		t.Fatalf("fetched = %v, want %v", f.fetched, want)
	}
	for i := range want {
		if f.fetched[i] != want[i] {
			t.Errorf("fetched = %v, want %v", f.fetched, want)
		}
	}
}

func TestMountFetchesCurrentMarket(t *testing.T) {
	f := &fakeIntents{}
	c := NewComponent(f, nil, zap.NewNop())
	c.Mount(context.Background(), Input{Market: &btcusdt})
	if len(f.fetched) != 1 || f.fetched[0] != "btcusdt" {
		t.Errorf("fetched = %v", f.fetched)
	}
}

func TestTableRows(t *testing.T) {
	at := time.Date(2024, 3, 1, 13, 4, 5, 0, time.UTC)
	c := NewComponent(&fakeIntents{}, time.UTC, zap.NewNop())
	c.in = Input{
		Market: &btcusdt,
		Trades: []models.PublicTrade{
			trade(1, "64000.5", "0.01", "buy", at),
			trade(2, "63999", "1.23456", "sell", at.Add(time.Second)),
		},
	}

	table := c.Table()
	if table.NoData {
		t.Fatal("table has data")
	}
	wantHeaders := []string{
		"page.body.trade.header.recentTrades.content.price (USDT)",
		"page.body.trade.header.recentTrades.content.amount (BTC)",
		"page.body.trade.header.recentTrades.content.time",
	}
	for i, h := range wantHeaders {
		if table.Headers[i] != h {
			t.Errorf("header[%d] = %q, want %q", i, table.Headers[i], h)
		}
	}

	want := [][]Cell{
		{{"64000.50", "buy"}, {"0.0100", "buy"}, {"13:04:05", "buy"}},
		{{"63999.00", "sell"}, {"1.2346", "sell"}, {"13:04:06", "sell"}},
	}
	if len(table.Rows) != len(want) {
		t.Fatalf("rows = %d, want %d", len(table.Rows), len(want))
	}
	for i := range want {
		for j := range want[i] {
			if table.Rows[i][j] != want[i][j] {
				t.Errorf("row %d cell %d = %+v, want %+v", i, j, table.Rows[i][j], want[i][j])
			}
		}
	}
}

func TestTableUsesDisplayLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	c := NewComponent(&fakeIntents{}, loc, zap.NewNop())
	c.in = Input{Market: &btcusdt, Trades: []models.PublicTrade{
		trade(1, "1", "1", "buy", time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)),
	}}
	if got := c.Table().Rows[0][2].Text; got != "01:00:00" {
		t.Errorf("time = %q, want 01:00:00", got)
	}
}

func TestTableNoData(t *testing.T) {
	c := NewComponent(&fakeIntents{}, time.UTC, zap.NewNop())
	table := c.Table()
	if !table.NoData {
		t.Fatal("expected no data")
	}
	if len(table.Rows) != 1 || table.Rows[0][1].Text != "page.noDataToShow" {
		t.Errorf("rows = %+v", table.Rows)
	}
	if table.Headers[0] != "page.body.trade.header.recentTrades.content.price ()" {
		t.Errorf("header = %q", table.Headers[0])
	}
}

func TestSelectRow(t *testing.T) {
	ctx := context.Background()
	at := time.Now()
	f := &fakeIntents{}
	c := NewComponent(f, time.UTC, zap.NewNop())

	current := decimal.RequireFromString("100")
	c.in = Input{
		Market:       &btcusdt,
		Trades:       []models.PublicTrade{trade(1, "100.00", "1", "buy", at), trade(2, "101", "1", "sell", at)},
		CurrentPrice: &current,
	}

	if c.SelectRow(ctx, 0) {
		t.Error("same price must not be dispatched")
	}
	if !c.SelectRow(ctx, 1) {
		t.Error("different price must be dispatched")
	}
	if c.SelectRow(ctx, 5) || c.SelectRow(ctx, -1) {
		t.Error("out of range index is a no-op")
	}
	if len(f.prices) != 1 || f.prices[0] != "101" {
		t.Errorf("prices = %v", f.prices)
	}

	c.in.CurrentPrice = nil
	if !c.SelectRow(ctx, 0) {
		t.Error("no current price, any row sets it")
	}
}
