package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BeneficiaryType selects the destination layout of a beneficiary.
type BeneficiaryType string

const (
	BeneficiaryTypeCoin BeneficiaryType = "coin"
	BeneficiaryTypeFiat BeneficiaryType = "fiat"
)

func IsValidBeneficiaryType(t string) bool {
	return t == string(BeneficiaryTypeCoin) || t == string(BeneficiaryTypeFiat)
}

// BeneficiaryState is the normalized lifecycle status. Raw strings are folded
// once when a record enters the process (DB scan, JSON decode).
type BeneficiaryState int

const (
	StateOther BeneficiaryState = iota
	StateActive
	StatePending
)

const (
	beneficiaryStateActive  = "active"
	beneficiaryStatePending = "pending"
	beneficiaryStateOther   = "other"
)

func ParseBeneficiaryState(s string) BeneficiaryState {
	switch {
	case strings.EqualFold(strings.TrimSpace(s), beneficiaryStateActive):
		return StateActive
	case strings.EqualFold(strings.TrimSpace(s), beneficiaryStatePending):
		return StatePending
	default:
		return StateOther
	}
}

func (s BeneficiaryState) String() string {
	switch s {
	case StateActive:
		return beneficiaryStateActive
	case StatePending:
		return beneficiaryStatePending
	default:
		return beneficiaryStateOther
	}
}

func (s BeneficiaryState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *BeneficiaryState) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseBeneficiaryState(raw)
	return nil
}

// Destination is where a withdrawal goes: a crypto address or a bank account.
type Destination interface {
	Kind() BeneficiaryType
}

type CoinAddress struct {
	Address string `json:"address"`
}

func (CoinAddress) Kind() BeneficiaryType { return BeneficiaryTypeCoin }

type BankAccount struct {
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
	FullName      string `json:"full_name"`
}

func (BankAccount) Kind() BeneficiaryType { return BeneficiaryTypeFiat }

// DecodeDestination decodes a stored/received payload according to kind.
func DecodeDestination(kind BeneficiaryType, raw json.RawMessage) (Destination, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	switch kind {
	case BeneficiaryTypeCoin:
		var d CoinAddress
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case BeneficiaryTypeFiat:
		var d BankAccount
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown beneficiary type %q", kind)
	}
}

type Beneficiary struct {
	ID          int64            `json:"id"`
	UserID      uuid.UUID        `json:"-"`
	Currency    string           `json:"currency"`
	Name        string           `json:"name"`
	State       BeneficiaryState `json:"state"`
	Data        Destination      `json:"data"`
	Description *string          `json:"description,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// DefaultBeneficiary is the "nothing selected" placeholder.
func DefaultBeneficiary() Beneficiary {
	return Beneficiary{Data: CoinAddress{}}
}

func (b Beneficiary) IsUnset() bool {
	if b.ID != 0 {
		return false
	}
	addr, ok := b.Data.(CoinAddress)
	return b.Data == nil || (ok && addr.Address == "")
}

// Type is derived from the destination payload; a record without one has no type.
func (b Beneficiary) Type() BeneficiaryType {
	if b.Data == nil {
		return ""
	}
	return b.Data.Kind()
}

func (b Beneficiary) Address() string {
	if addr, ok := b.Data.(CoinAddress); ok {
		return addr.Address
	}
	return ""
}

func (b Beneficiary) Bank() (BankAccount, bool) {
	acc, ok := b.Data.(BankAccount)
	return acc, ok
}

type beneficiaryJSON struct {
	ID          int64            `json:"id"`
	Currency    string           `json:"currency"`
	Name        string           `json:"name"`
	State       BeneficiaryState `json:"state"`
	Type        BeneficiaryType  `json:"type,omitempty"`
	Data        json.RawMessage  `json:"data"`
	Description *string          `json:"description,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (b Beneficiary) MarshalJSON() ([]byte, error) {
	data := json.RawMessage("null")
	if b.Data != nil {
		raw, err := json.Marshal(b.Data)
		if err != nil {
			return nil, err
		}
		data = raw
	}
	return json.Marshal(beneficiaryJSON{
		ID:          b.ID,
		Currency:    b.Currency,
		Name:        b.Name,
		State:       b.State,
		Type:        b.Type(),
		Data:        data,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	})
}

// UnmarshalJSON uses the "type" tag when present and otherwise infers the
// destination from its fields.
func (b *Beneficiary) UnmarshalJSON(data []byte) error {
	var v beneficiaryJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	kind := v.Type
	if kind == "" {
		kind = inferDestinationKind(v.Data)
	}
	var dest Destination
	if kind != "" {
		d, err := DecodeDestination(kind, v.Data)
		if err != nil {
			return err
		}
		dest = d
	}
	*b = Beneficiary{
		ID:          v.ID,
		Currency:    v.Currency,
		Name:        v.Name,
		State:       v.State,
		Data:        dest,
		Description: v.Description,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
	return nil
}

func inferDestinationKind(raw json.RawMessage) BeneficiaryType {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ""
	}
	if _, ok := fields["account_number"]; ok {
		return BeneficiaryTypeFiat
	}
	return BeneficiaryTypeCoin
}

// BeneficiaryList is an immutable snapshot of a user's beneficiaries.
// Revision changes whenever the list is replaced and stands in for
// reference identity when deciding whether the list was updated.
type BeneficiaryList struct {
	Revision uint64
	Items    []Beneficiary
}

func (l BeneficiaryList) Len() int { return len(l.Items) }

func (l BeneficiaryList) Filter(states ...BeneficiaryState) []Beneficiary {
	var out []Beneficiary
	for _, b := range l.Items {
		for _, s := range states {
			if b.State == s {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// BeneficiaryDraft is what the add-address workflow submits.
type BeneficiaryDraft struct {
	Currency    string
	Name        string
	Description *string
	Data        Destination
}

// PinChallenge is the stored confirmation code of a pending beneficiary.
type PinChallenge struct {
	Hash      string
	ExpiresAt time.Time
	SentAt    time.Time
	Attempts  int // неверные вводы с момента отправки
}

func (p PinChallenge) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}
