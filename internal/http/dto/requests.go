package dto

import (
	"time"

	"github.com/exchange-ui/backend/internal/models"
	"github.com/shopspring/decimal"
)

type CreateBeneficiaryRequest struct {
	Currency    string                 `json:"currency" validate:"required,max=16"`
	Name        string                 `json:"name" validate:"required,max=64"`
	Description *string                `json:"description,omitempty" validate:"omitempty,max=255"`
	Type        models.BeneficiaryType `json:"type" validate:"required,oneof=coin fiat"`
	Data        BeneficiaryData        `json:"data"`
}

// BeneficiaryData: для coin нужен address, для fiat банковские реквизиты.
type BeneficiaryData struct {
	Address       string `json:"address,omitempty" validate:"omitempty,max=128"`
	AccountNumber string `json:"account_number,omitempty" validate:"omitempty,max=64"`
	BankName      string `json:"bank_name,omitempty" validate:"omitempty,max=128"`
	FullName      string `json:"full_name,omitempty" validate:"omitempty,max=128"`
}

func (r CreateBeneficiaryRequest) Draft() models.BeneficiaryDraft {
	d := models.BeneficiaryDraft{Currency: r.Currency, Name: r.Name, Description: r.Description}
	switch r.Type {
	case models.BeneficiaryTypeFiat:
		d.Data = models.BankAccount{AccountNumber: r.Data.AccountNumber, BankName: r.Data.BankName, FullName: r.Data.FullName}
	default:
		d.Data = models.CoinAddress{Address: r.Data.Address}
	}
	return d
}

type ActivateBeneficiaryRequest struct {
	Pin string `json:"pin" validate:"required,numeric,len=6"`
}

// RecordTradeRequest приходит от matching engine на /internal/trades.
type RecordTradeRequest struct {
	Market    string          `json:"market" validate:"required,max=32"`
	Price     decimal.Decimal `json:"price"`
	Amount    decimal.Decimal `json:"amount"`
	TakerType string          `json:"taker_type" validate:"required,oneof=buy sell"`
	CreatedAt *time.Time      `json:"created_at,omitempty"`
}

func (r RecordTradeRequest) Trade() *models.PublicTrade {
	t := &models.PublicTrade{
		Market:    r.Market,
		Price:     r.Price,
		Volume:    r.Amount,
		TakerType: r.TakerType,
	}
	if r.CreatedAt != nil {
		t.CreatedAt = *r.CreatedAt
	}
	return t
}
