package atm

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session is the handle returned by Login. It is passed back to every
// operation and is only valid until Logout.
type Session struct {
	ID            uuid.UUID
	AccountNumber string
	StartedAt     time.Time
}

// AccountStatus is the status line shown on a mini statement.
type AccountStatus string

// StatusActive is the only status an account can have.
const StatusActive AccountStatus = "active"

// BalanceView is the result of a balance inquiry.
type BalanceView struct {
	MaskedNumber string
	HolderName   string
	Balance      decimal.Decimal
}

// Statement is a mini statement. It reflects current state only; no
// transaction history is kept.
type Statement struct {
	BalanceView
	LastLogin  time.Time
	Status     AccountStatus
	DailyLimit decimal.Decimal
}

// Receipt is the result of a successful deposit or withdrawal.
type Receipt struct {
	Reference  string
	Amount     decimal.Decimal
	NewBalance decimal.Decimal
}
