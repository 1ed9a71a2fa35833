package accounts

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no account has the given number.
	ErrNotFound = errors.New("account not found")
	// ErrInvalidCredentials means the PIN did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrWrongCurrentPIN means the current PIN given for a PIN change did not match.
	ErrWrongCurrentPIN = errors.New("current PIN is incorrect")
	// ErrInvalidPINFormat means the new PIN is not exactly 4 digits.
	ErrInvalidPINFormat = errors.New("PIN must be exactly 4 digits")
	// ErrPINMismatch means the new PIN and its confirmation differ.
	ErrPINMismatch = errors.New("new PINs do not match")

	// ErrInsufficientFunds means a debit would take the balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// AuthReason classifies an authentication failure.
type AuthReason string

const (
	// AuthNotFound means no account has the given number.
	AuthNotFound AuthReason = "not-found"
	// AuthInvalidCredentials means the PIN did not match, or a field was empty.
	AuthInvalidCredentials AuthReason = "invalid-credentials"
)

// AuthError is returned by Authenticate. Both reasons print the same message so
// callers that only show Error() cannot tell a missing account from a bad PIN.
type AuthError struct {
	Reason AuthReason
	Number string
}

func (e *AuthError) Error() string {
	return "invalid account number or PIN"
}

// Unwrap exposes the sentinel for the reason.
func (e *AuthError) Unwrap() error {
	if e.Reason == AuthNotFound {
		return ErrNotFound
	}
	return ErrInvalidCredentials
}

// PINChangeReason classifies a PIN change failure.
type PINChangeReason string

const (
	// PINWrongCurrent means the current PIN did not match.
	PINWrongCurrent PINChangeReason = "wrong-current-pin"
	// PINInvalidFormat means the new PIN is not exactly 4 digits.
	PINInvalidFormat PINChangeReason = "invalid-format"
	// PINMismatch means the new PIN and its confirmation differ.
	PINMismatch PINChangeReason = "mismatch"
)

// PINChangeError is returned by ChangePIN.
type PINChangeError struct {
	Reason PINChangeReason
}

func (e *PINChangeError) Error() string {
	return fmt.Sprintf("changing PIN: %v", e.Unwrap())
}

// Unwrap exposes the sentinel for the reason.
func (e *PINChangeError) Unwrap() error {
	switch e.Reason {
	case PINWrongCurrent:
		return ErrWrongCurrentPIN
	case PINInvalidFormat:
		return ErrInvalidPINFormat
	default:
		return ErrPINMismatch
	}
}
