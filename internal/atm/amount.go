package atm

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/securebank/atm/internal/config"
)

// Bounds on parsed input. Anything larger than a float64 can hold is treated
// as non-finite, and exponents are capped before any arithmetic rescales them.
const (
	maxAmountLen    = 64
	maxIntDigits    = 309
	minExponent     = -maxAmountLen
	amountPrecision = 2
)

// ParseAmount parses user input as a finite positive amount.
func ParseAmount(input string) (decimal.Decimal, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return decimal.Zero, errors.New("empty amount")
	}
	if len(s) > maxAmountLen {
		return decimal.Zero, errors.New("amount too long")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.Exponent() < minExponent || d.NumDigits()+int(d.Exponent()) > maxIntDigits {
		return decimal.Zero, errors.New("amount out of range")
	}
	if !d.IsPositive() {
		return decimal.Zero, errors.New("amount must be positive")
	}
	return d, nil
}

// RoundAmount rounds an accepted amount to cents, half away from zero.
func RoundAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(amountPrecision)
}

// CheckDeposit validates amount against the deposit range.
func CheckDeposit(amount decimal.Decimal, limits config.Limits) error {
	r := limits.Deposit
	switch {
	case amount.LessThan(r.Min):
		return &AmountError{Op: OpDeposit, Reason: ReasonBelowMinimum, Amount: amount, Limit: r.Min}
	case amount.GreaterThan(r.Max):
		return &AmountError{Op: OpDeposit, Reason: ReasonAboveMaximum, Amount: amount, Limit: r.Max}
	}
	return nil
}

// CheckWithdrawal validates amount against the withdrawal range and unit.
// The balance check happens when the account is debited.
func CheckWithdrawal(amount decimal.Decimal, limits config.Limits) error {
	r := limits.Withdrawal
	switch {
	case amount.LessThan(r.Min):
		return &AmountError{Op: OpWithdraw, Reason: ReasonBelowMinimum, Amount: amount, Limit: r.Min}
	case amount.GreaterThan(r.Max):
		return &AmountError{Op: OpWithdraw, Reason: ReasonAboveMaximum, Amount: amount, Limit: r.Max}
	case !amount.Mod(r.Multiple).IsZero():
		return &AmountError{Op: OpWithdraw, Reason: ReasonNotMultiple, Amount: amount, Limit: r.Multiple}
	}
	return nil
}
