package trades

import (
	"context"
	"time"

	"github.com/exchange-ui/backend/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Intents interface {
	FetchTrades(ctx context.Context, market models.Market)
	SetCurrentPrice(ctx context.Context, price decimal.Decimal)
}

// Input is what the store currently holds for the trades table.
type Input struct {
	Market       *models.Market
	Trades       []models.PublicTrade
	CurrentPrice *decimal.Decimal
}

// Component is the recent-trades ticker of the current market.
type Component struct {
	in       Input
	intents  Intents
	location *time.Location
	labels   Labels
	log      *zap.Logger
}

func NewComponent(intents Intents, location *time.Location, log *zap.Logger) *Component {
	if location == nil {
		location = time.UTC
	}
	return &Component{
		intents:  intents,
		location: location,
		labels:   DefaultLabels(),
		log:      log,
	}
}

func (c *Component) Mount(ctx context.Context, in Input) {
	c.in = in
	if in.Market != nil {
		c.intents.FetchTrades(ctx, *in.Market)
	}
}

// Update refetches when a different market becomes current.
func (c *Component) Update(ctx context.Context, next Input) {
	prev := c.in.Market
	c.in = next
	if next.Market == nil {
		return
	}
	if prev == nil || prev.ID != next.Market.ID {
		c.log.Debug("market switched", zap.String("market", next.Market.ID))
		c.intents.FetchTrades(ctx, *next.Market)
	}
}

// SelectRow copies the clicked trade's price into the order form.
func (c *Component) SelectRow(ctx context.Context, index int) bool {
	if index < 0 || index >= len(c.in.Trades) {
		return false
	}
	price := c.in.Trades[index].Price
	if c.in.CurrentPrice != nil && c.in.CurrentPrice.Equal(price) {
		return false
	}
	c.intents.SetCurrentPrice(ctx, price)
	return true
}

// Market is the market the table currently shows.
func (c *Component) Market() *models.Market { return c.in.Market }
