package accounts

import (
	"github.com/shopspring/decimal"

	"github.com/securebank/atm/internal/model"
)

// DefaultAccounts returns the built-in seed accounts.
func DefaultAccounts() []model.Account {
	return []model.Account{
		{Number: "123456789", HolderName: "JAI SUDHAN", Balance: decimal.RequireFromString("501.00"), PIN: "1234"},
		{Number: "987654321", HolderName: "RONALDO", Balance: decimal.RequireFromString("75002200999999.00"), PIN: "5678"},
		{Number: "555666777", HolderName: "MAHI", Balance: decimal.RequireFromString("12888575420.00"), PIN: "9999"},
	}
}
