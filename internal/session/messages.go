package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/exchange-ui/backend/internal/beneficiaries"
	"github.com/exchange-ui/backend/internal/models"
	"github.com/exchange-ui/backend/internal/trades"
	"github.com/go-playground/validator/v10"
)

// Frame types sent to the client.
const (
	FrameView             = "view"
	FrameNotification     = "notification"
	FrameSelectionChanged = "selection_changed"
)

type Frame struct {
	Type          string              `json:"type"`
	Beneficiaries *beneficiaries.View `json:"beneficiaries,omitempty"`
	Trades        *trades.Table       `json:"trades,omitempty"`
	Notification  *models.Notice      `json:"notification,omitempty"`
	Beneficiary   *models.Beneficiary `json:"beneficiary,omitempty"`
}

// Client message types.
const (
	MsgSelect         = "select"
	MsgRequestAdd     = "request_add"
	MsgCreate         = "create"
	MsgActivate       = "activate"
	MsgResendPin      = "resend_pin"
	MsgDelete         = "delete"
	MsgDismiss        = "dismiss"
	MsgToggleDropdown = "toggle_dropdown"
	MsgTip            = "tip"
	MsgSetCurrency    = "set_currency"
	MsgSetMarket      = "set_market"
	MsgSelectTrade    = "select_trade"
)

type ClientMessage struct {
	Type        string            `json:"type" validate:"required,oneof=select request_add create activate resend_pin delete dismiss toggle_dropdown tip set_currency set_market select_trade"`
	ID          int64             `json:"id,omitempty" validate:"required_if=Type select,required_if=Type delete"`
	Pin         string            `json:"pin,omitempty" validate:"required_if=Type activate,omitempty,numeric,len=6"`
	Index       int               `json:"index,omitempty"`
	Open        bool              `json:"open,omitempty"`
	Currency    string            `json:"currency,omitempty" validate:"required_if=Type set_currency,omitempty,max=16"`
	Kind        string            `json:"kind,omitempty" validate:"omitempty,oneof=coin fiat"`
	Market      string            `json:"market,omitempty" validate:"required_if=Type set_market,omitempty,max=32"`
	Beneficiary *BeneficiaryInput `json:"beneficiary,omitempty" validate:"required_if=Type create"`
}

type BeneficiaryInput struct {
	Name          string  `json:"name" validate:"required,max=64"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=255"`
	Address       string  `json:"address,omitempty" validate:"required_without=AccountNumber,omitempty,max=128"`
	AccountNumber string  `json:"account_number,omitempty" validate:"required_without=Address,omitempty,max=64"`
	BankName      string  `json:"bank_name,omitempty" validate:"required_with=AccountNumber,omitempty,max=128"`
	FullName      string  `json:"full_name,omitempty" validate:"required_with=AccountNumber,omitempty,max=128"`
}

func (in BeneficiaryInput) Draft() models.BeneficiaryDraft {
	d := models.BeneficiaryDraft{Name: in.Name, Description: in.Description}
	if in.AccountNumber != "" {
		d.Data = models.BankAccount{AccountNumber: in.AccountNumber, BankName: in.BankName, FullName: in.FullName}
	} else {
		d.Data = models.CoinAddress{Address: in.Address}
	}
	return d
}

var validate = validator.New()

// ParseMessage decodes and validates one client frame.
func ParseMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, fmt.Errorf("decode message: %w", err)
	}
	if err := validate.Struct(msg); err != nil {
		return msg, fmt.Errorf("invalid %q message: %w", msg.Type, err)
	}
	return msg, nil
}

// HandleMessage queues a raw client frame for the loop.
func (s *Session) HandleMessage(data []byte) error {
	msg, err := ParseMessage(data)
	if err != nil {
		return err
	}
	if !s.post(func(ctx context.Context) { s.apply(ctx, msg) }) {
		return errors.New("session busy")
	}
	return nil
}

func (s *Session) apply(ctx context.Context, msg ClientMessage) {
	switch msg.Type {
	case MsgSelect:
		if !s.picker.SelectByID(ctx, msg.ID) {
			s.log.Debug("select: unknown beneficiary")
		}
	case MsgRequestAdd:
		s.picker.RequestAdd(ctx)
	case MsgCreate:
		s.picker.Submit(ctx, msg.Beneficiary.Draft())
	case MsgActivate:
		s.picker.Confirm(ctx, msg.Pin)
	case MsgResendPin:
		s.picker.ResendPin(ctx)
	case MsgDelete:
		s.picker.Delete(ctx, msg.ID)
	case MsgDismiss:
		s.picker.Dismiss()
	case MsgToggleDropdown:
		s.picker.ToggleDropdown()
	case MsgTip:
		s.picker.SetTip(msg.Open)
	case MsgSetCurrency:
		s.switchCurrency(ctx, msg.Currency, models.BeneficiaryType(msg.Kind))
	case MsgSetMarket:
		s.loadMarket(ctx, normalize(msg.Market))
	case MsgSelectTrade:
		s.ticker.SelectRow(ctx, msg.Index)
	}
}

// switchCurrency loads the new currency's list first so the picker sees the
// new props and the new list in the same update.
func (s *Session) switchCurrency(ctx context.Context, currency string, kind models.BeneficiaryType) {
	currency = normalize(currency)
	items, err := s.deps.Beneficiaries.List(ctx, s.userID, currency)
	if err != nil {
		s.fail("list beneficiaries", err)
		return
	}
	if kind == "" {
		kind = s.props.Type
	}
	s.props = beneficiaries.Props{Currency: currency, Type: kind}
	s.store.SetBeneficiaries(items)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
