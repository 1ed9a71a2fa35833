package atm

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/securebank/atm/internal/accounts"
)

var (
	// ErrNoActiveSession means the operation was called without the active session handle.
	ErrNoActiveSession = errors.New("no active session")
	// ErrSessionActive means Login was called while another session is active.
	ErrSessionActive = errors.New("a session is already active")

	// ErrInvalidAmount means the input is not a finite positive number.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrBelowMinimum means the amount is under the operation's minimum.
	ErrBelowMinimum = errors.New("amount below minimum")
	// ErrAboveMaximum means the amount is over the operation's maximum.
	ErrAboveMaximum = errors.New("amount above maximum")
	// ErrNotMultiple means a withdrawal is not a whole multiple of the withdrawal unit.
	ErrNotMultiple = errors.New("amount is not a whole multiple of the withdrawal unit")
	// ErrInsufficientFunds means a withdrawal exceeds the balance.
	ErrInsufficientFunds = accounts.ErrInsufficientFunds
)

// Op names a money operation.
type Op string

// Money operations.
const (
	OpDeposit  Op = "deposit"
	OpWithdraw Op = "withdraw"
)

// AmountReason classifies a rejected deposit or withdrawal.
type AmountReason string

// Amount rejection reasons, in the order they are checked.
const (
	ReasonInvalidAmount     AmountReason = "invalid-amount"
	ReasonBelowMinimum      AmountReason = "below-minimum"
	ReasonAboveMaximum      AmountReason = "above-maximum"
	ReasonNotMultiple       AmountReason = "not-multiple"
	ReasonInsufficientFunds AmountReason = "insufficient-funds"
)

// AmountError is returned by Deposit and Withdraw. Limit carries the bound that
// was crossed: the minimum, the maximum, the multiple, or the current balance.
type AmountError struct {
	Op     Op
	Reason AmountReason
	Input  string
	Amount decimal.Decimal
	Limit  decimal.Decimal
}

func (e *AmountError) Error() string {
	if e.Reason == ReasonInvalidAmount {
		return fmt.Sprintf("%s %q: %v", e.Op, e.Input, e.Unwrap())
	}
	return fmt.Sprintf("%s %s: %v (limit %s)", e.Op, e.Amount.StringFixed(2), e.Unwrap(), e.Limit.StringFixed(2))
}

// Unwrap exposes the sentinel for the reason.
func (e *AmountError) Unwrap() error {
	switch e.Reason {
	case ReasonBelowMinimum:
		return ErrBelowMinimum
	case ReasonAboveMaximum:
		return ErrAboveMaximum
	case ReasonNotMultiple:
		return ErrNotMultiple
	case ReasonInsufficientFunds:
		return ErrInsufficientFunds
	default:
		return ErrInvalidAmount
	}
}
