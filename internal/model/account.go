package model

import "github.com/shopspring/decimal"

// Account is a single ATM customer account.
type Account struct {
	Number     string
	HolderName string
	Balance    decimal.Decimal
	PIN        string
}

// MaskedNumber returns the display form of the account number.
func (a Account) MaskedNumber() string {
	return MaskNumber(a.Number)
}

// MaskNumber hides all but the last 4 characters of an account number.
// "123456789" -> "****6789"; numbers of 4 characters or fewer are returned as-is.
func MaskNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	return "****" + number[len(number)-4:]
}

// ValidPIN reports whether pin is exactly 4 ASCII digits.
func ValidPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return false
		}
	}
	return true
}
