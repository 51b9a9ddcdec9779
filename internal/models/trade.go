package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TakerTypeBuy  = "buy"
	TakerTypeSell = "sell"
)

type Market struct {
	ID              string `json:"id"`   // btcusdt
	Name            string `json:"name"` // BTC/USDT
	BaseUnit        string `json:"base_unit"`
	QuoteUnit       string `json:"quote_unit"`
	AmountPrecision int32  `json:"amount_precision"`
	PricePrecision  int32  `json:"price_precision"`
	State           string `json:"state"`
}

func (m Market) BaseLabel() string  { return strings.ToUpper(m.BaseUnit) }
func (m Market) QuoteLabel() string { return strings.ToUpper(m.QuoteUnit) }

type PublicTrade struct {
	ID        int64           `json:"id"`
	Market    string          `json:"market"`
	Price     decimal.Decimal `json:"price"`
	Volume    decimal.Decimal `json:"amount"`
	Total     decimal.Decimal `json:"total"`
	TakerType string          `json:"taker_type"`
	CreatedAt time.Time       `json:"created_at"`
}

func IsValidTakerType(t string) bool {
	return t == TakerTypeBuy || t == TakerTypeSell
}
