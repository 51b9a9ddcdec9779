package session

import (
	"errors"

	"github.com/exchange-ui/backend/internal/beneficiaries"
	"github.com/exchange-ui/backend/internal/models"
	"github.com/exchange-ui/backend/internal/services"
)

const (
	errKeyInvalidAddress = "error.beneficiaries.invalid.address"
	errKeyInvalidPin     = "error.beneficiaries.pin.invalid"
	errKeyPinExpired     = "error.beneficiaries.pin.expired"
	errKeyPinAttempts    = "error.beneficiaries.pin.attempts"
	errKeyResendTooSoon  = "error.beneficiaries.pin.resend.timeout"
	errKeyNotFound       = "error.beneficiaries.not.found"
	errKeyMarketNotFound = "error.market.not.found"
	errKeyInternal       = "server.internal_error"
)

var errorKeys = []struct {
	err error
	key string
}{
	{services.ErrInsufficientLevel, beneficiaries.ErrKeyInsufficientLevel},
	{services.ErrMaxBeneficiaries, beneficiaries.ErrKeyMaxAddresses},
	{services.ErrInvalidDestination, errKeyInvalidAddress},
	{services.ErrInvalidPin, errKeyInvalidPin},
	{services.ErrPinExpired, errKeyPinExpired},
	{services.ErrPinAttemptsExceeded, errKeyPinAttempts},
	{services.ErrResendTooSoon, errKeyResendTooSoon},
	{services.ErrBeneficiaryNotFound, errKeyNotFound},
	{services.ErrNotPending, errKeyNotFound},
	{services.ErrMarketNotFound, errKeyMarketNotFound},
}

// noticeFor maps a backend error to a client notification. Known domain
// errors are alerts, anything else only goes to the console.
func noticeFor(err error) models.Notice {
	for _, e := range errorKeys {
		if errors.Is(err, e.err) {
			return models.Notice{Message: e.key, Severity: models.SeverityAlert}
		}
	}
	return models.Notice{Message: errKeyInternal, Severity: models.SeverityConsole}
}
