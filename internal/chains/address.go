package chains

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/xssnick/tonutils-go/address"
)

var ErrInvalidAddress = errors.New("invalid address")

const maxAddressLen = 128

// Validator checks coin beneficiary addresses. Currencies without a
// dedicated decoder only get a shape check.
type Validator struct {
	btcParams  *chaincfg.Params
	tonTestnet bool
}

func NewValidator(btcNetwork, tonNetwork string) *Validator {
	params := &chaincfg.MainNetParams
	switch btcNetwork {
	case "testnet", "testnet3":
		params = &chaincfg.TestNet3Params
	case "regtest":
		params = &chaincfg.RegressionNetParams
	case "signet":
		params = &chaincfg.SigNetParams
	}
	return &Validator{btcParams: params, tonTestnet: tonNetwork == "testnet"}
}

func (v *Validator) Validate(currency, addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return fmt.Errorf("%w: empty", ErrInvalidAddress)
	}

	switch strings.ToLower(currency) {
	case "btc":
		return v.validateBTC(addr)
	case "ton":
		return v.validateTON(addr)
	default:
		return validateShape(addr)
	}
}

func (v *Validator) validateBTC(addr string) error {
	decoded, err := btcutil.DecodeAddress(addr, v.btcParams)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if !decoded.IsForNet(v.btcParams) {
		return fmt.Errorf("%w: not a %s address", ErrInvalidAddress, v.btcParams.Name)
	}
	return nil
}

func (v *Validator) validateTON(addr string) error {
	if strings.Contains(addr, ":") {
		if _, err := address.ParseRawAddr(addr); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
		}
		return nil
	}
	parsed, err := address.ParseAddr(addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if parsed.IsTestnetOnly() && !v.tonTestnet {
		return fmt.Errorf("%w: testnet-only address", ErrInvalidAddress)
	}
	return nil
}

func validateShape(addr string) error {
	if len(addr) > maxAddressLen {
		return fmt.Errorf("%w: too long", ErrInvalidAddress)
	}
	for _, r := range addr {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return fmt.Errorf("%w: unexpected character %q", ErrInvalidAddress, r)
		}
	}
	return nil
}
