package repositories

import (
	"context"

	"github.com/exchange-ui/backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type TradeRepo struct {
	pool *pgxpool.Pool
}

func NewTradeRepo(pool *pgxpool.Pool) *TradeRepo {
	return &TradeRepo{pool: pool}
}

func (r *TradeRepo) Markets(ctx context.Context) ([]models.Market, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, base_unit, quote_unit, amount_precision, price_precision, state
		FROM markets ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var markets []models.Market
	for rows.Next() {
		var m models.Market
		if err := rows.Scan(&m.ID, &m.Name, &m.BaseUnit, &m.QuoteUnit, &m.AmountPrecision, &m.PricePrecision, &m.State); err != nil {
			return nil, err
		}
		markets = append(markets, m)
	}
	return markets, rows.Err()
}

func (r *TradeRepo) Market(ctx context.Context, id string) (*models.Market, error) {
	var m models.Market
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, base_unit, quote_unit, amount_precision, price_precision, state
		FROM markets WHERE id = $1
	`, id).Scan(&m.ID, &m.Name, &m.BaseUnit, &m.QuoteUnit, &m.AmountPrecision, &m.PricePrecision, &m.State)
	if err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

// Recent returns the latest trades of a market, newest first.
// NUMERIC columns travel as text so no precision is lost on the way to decimal.
func (r *TradeRepo) Recent(ctx context.Context, marketID string, limit int) ([]models.PublicTrade, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, market_id, price::text, volume::text, taker_type, created_at
		FROM trades WHERE market_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, marketID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []models.PublicTrade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, *t)
	}
	return trades, rows.Err()
}

func (r *TradeRepo) Insert(ctx context.Context, t *models.PublicTrade) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO trades (market_id, price, volume, taker_type, created_at)
		VALUES ($1, $2::numeric, $3::numeric, $4, COALESCE($5, now()))
		RETURNING id, created_at
	`, t.Market, t.Price.String(), t.Volume.String(), t.TakerType, nullTime(t.CreatedAt),
	).Scan(&t.ID, &t.CreatedAt)
}

func scanTrade(row pgx.Row) (*models.PublicTrade, error) {
	var (
		t             models.PublicTrade
		price, volume string
	)
	if err := row.Scan(&t.ID, &t.Market, &price, &volume, &t.TakerType, &t.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if t.Price, err = decimal.NewFromString(price); err != nil {
		return nil, err
	}
	if t.Volume, err = decimal.NewFromString(volume); err != nil {
		return nil, err
	}
	t.Total = t.Price.Mul(t.Volume)
	return &t, nil
}
