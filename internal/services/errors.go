package services

import "errors"

var (
	ErrBeneficiaryNotFound = errors.New("beneficiary not found")
	ErrInvalidDestination  = errors.New("invalid destination")
	ErrInsufficientLevel   = errors.New("member level too low for withdrawals")
	ErrMaxBeneficiaries    = errors.New("beneficiary limit reached")
	ErrNotPending          = errors.New("beneficiary is not pending confirmation")
	ErrInvalidPin          = errors.New("invalid pin")
	ErrPinExpired          = errors.New("pin expired")
	ErrPinAttemptsExceeded = errors.New("too many wrong pins, request a new one")
	ErrResendTooSoon       = errors.New("pin was sent recently, try later")
	ErrMarketNotFound      = errors.New("market not found")
	ErrInvalidTrade        = errors.New("invalid trade")
)
