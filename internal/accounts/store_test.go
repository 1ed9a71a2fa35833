package accounts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securebank/atm/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newDefaultStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(DefaultAccounts())
	require.NoError(t, err)
	return s
}

func TestNewStore(t *testing.T) {
	s := newDefaultStore(t)

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, "123456789", all[0].Number)
	assert.Equal(t, "987654321", all[1].Number)
	assert.Equal(t, "555666777", all[2].Number)
}

func TestDefaultAccounts(t *testing.T) {
	s := newDefaultStore(t)

	tests := []struct {
		number  string
		holder  string
		balance string
		pin     string
	}{
		{"123456789", "JAI SUDHAN", "501.00", "1234"},
		{"987654321", "RONALDO", "75002200999999.00", "5678"},
		{"555666777", "MAHI", "12888575420.00", "9999"},
	}
	for _, tt := range tests {
		acct, ok := s.Get(tt.number)
		require.True(t, ok, "account %s should exist", tt.number)
		assert.Equal(t, tt.holder, acct.HolderName)
		assert.Equal(t, tt.balance, acct.Balance.StringFixed(2))
		assert.Equal(t, tt.pin, acct.PIN)
	}
}

func TestNewStore_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		accts []model.Account
	}{
		{"empty number", []model.Account{{HolderName: "A", Balance: dec("1"), PIN: "1234"}}},
		{"empty holder", []model.Account{{Number: "1", Balance: dec("1"), PIN: "1234"}}},
		{"negative balance", []model.Account{{Number: "1", HolderName: "A", Balance: dec("-0.01"), PIN: "1234"}}},
		{"short PIN", []model.Account{{Number: "1", HolderName: "A", Balance: dec("1"), PIN: "123"}}},
		{"duplicate", []model.Account{
			{Number: "1", HolderName: "A", Balance: dec("1"), PIN: "1234"},
			{Number: "1", HolderName: "B", Balance: dec("1"), PIN: "1234"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStore(tt.accts)
			require.Error(t, err)
		})
	}
}

func TestGet(t *testing.T) {
	s := newDefaultStore(t)

	acct, ok := s.Get("555666777")
	assert.True(t, ok)
	assert.Equal(t, "MAHI", acct.HolderName)

	_, ok = s.Get("000000000")
	assert.False(t, ok)
}

func TestGet_ReturnsCopy(t *testing.T) {
	s := newDefaultStore(t)

	acct, _ := s.Get("123456789")
	acct.Balance = dec("0")
	acct.PIN = "0000"

	again, _ := s.Get("123456789")
	assert.Equal(t, "501.00", again.Balance.StringFixed(2))
	assert.Equal(t, "1234", again.PIN)
}

func TestAuthenticate(t *testing.T) {
	s := newDefaultStore(t)

	acct, err := s.Authenticate("123456789", "1234")
	require.NoError(t, err)
	assert.Equal(t, "JAI SUDHAN", acct.HolderName)
}

func TestAuthenticate_Failures(t *testing.T) {
	s := newDefaultStore(t)

	tests := []struct {
		name   string
		number string
		pin    string
		reason AuthReason
		is     error
	}{
		{"unknown account", "000000000", "1234", AuthNotFound, ErrNotFound},
		{"wrong PIN", "987654321", "1234", AuthInvalidCredentials, ErrInvalidCredentials},
		{"PIN prefix", "987654321", "567", AuthInvalidCredentials, ErrInvalidCredentials},
		{"PIN with space", "987654321", "5678 ", AuthInvalidCredentials, ErrInvalidCredentials},
		{"empty PIN", "987654321", "", AuthInvalidCredentials, ErrInvalidCredentials},
		{"empty number", "", "5678", AuthInvalidCredentials, ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Authenticate(tt.number, tt.pin)
			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tt.reason, authErr.Reason)
			assert.ErrorIs(t, err, tt.is)
		})
	}
}

func TestAuthenticate_SameMessage(t *testing.T) {
	s := newDefaultStore(t)

	_, notFound := s.Authenticate("000000000", "1234")
	_, badPIN := s.Authenticate("987654321", "0000")
	require.Error(t, notFound)
	require.Error(t, badPIN)
	assert.Equal(t, notFound.Error(), badPIN.Error())
}

func TestAuthenticate_WrongPINLeavesAccountUnchanged(t *testing.T) {
	s := newDefaultStore(t)
	before, _ := s.Get("987654321")

	_, err := s.Authenticate("987654321", "0000")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	after, _ := s.Get("987654321")
	assert.True(t, before.Balance.Equal(after.Balance))
	assert.Equal(t, before.PIN, after.PIN)
}

func TestChangePIN(t *testing.T) {
	s := newDefaultStore(t)

	err := s.ChangePIN("555666777", "9999", "4321", "4321")
	require.NoError(t, err)

	_, err = s.Authenticate("555666777", "4321")
	require.NoError(t, err)

	_, err = s.Authenticate("555666777", "9999")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePIN_Failures(t *testing.T) {
	tests := []struct {
		name    string
		current string
		next    string
		confirm string
		reason  PINChangeReason
		is      error
	}{
		{"wrong current", "0000", "4321", "4321", PINWrongCurrent, ErrWrongCurrentPIN},
		{"too short", "9999", "12", "12", PINInvalidFormat, ErrInvalidPINFormat},
		{"too long", "9999", "12345", "12345", PINInvalidFormat, ErrInvalidPINFormat},
		{"non-digit", "9999", "12a4", "12a4", PINInvalidFormat, ErrInvalidPINFormat},
		{"mismatch", "9999", "4321", "4322", PINMismatch, ErrPINMismatch},
		// Current PIN is checked before format.
		{"wrong current and bad format", "0000", "12", "12", PINWrongCurrent, ErrWrongCurrentPIN},
		// Format is checked before confirmation.
		{"bad format and mismatch", "9999", "12", "34", PINInvalidFormat, ErrInvalidPINFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newDefaultStore(t)

			err := s.ChangePIN("555666777", tt.current, tt.next, tt.confirm)
			var pinErr *PINChangeError
			require.ErrorAs(t, err, &pinErr)
			assert.Equal(t, tt.reason, pinErr.Reason)
			assert.ErrorIs(t, err, tt.is)

			acct, _ := s.Get("555666777")
			assert.Equal(t, "9999", acct.PIN, "PIN must be unchanged")
		})
	}
}

func TestChangePIN_UnknownAccount(t *testing.T) {
	s := newDefaultStore(t)
	err := s.ChangePIN("000000000", "1234", "4321", "4321")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreditDebit(t *testing.T) {
	s := newDefaultStore(t)

	bal, err := s.Debit("123456789", dec("100"))
	require.NoError(t, err)
	assert.Equal(t, "401.00", bal.StringFixed(2))

	bal, err = s.Credit("123456789", dec("100"))
	require.NoError(t, err)
	assert.Equal(t, "501.00", bal.StringFixed(2))
}

func TestDebit_InsufficientFunds(t *testing.T) {
	s := newDefaultStore(t)

	bal, err := s.Debit("123456789", dec("501.01"))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, "501.00", bal.StringFixed(2))

	bal, err = s.Debit("123456789", dec("501.00"))
	require.NoError(t, err)
	assert.True(t, bal.IsZero())
}

func TestCreditDebit_Rejects(t *testing.T) {
	s := newDefaultStore(t)

	_, err := s.Credit("123456789", dec("-1"))
	require.Error(t, err)
	_, err = s.Debit("123456789", dec("-1"))
	require.Error(t, err)
	_, err = s.Credit("000000000", dec("1"))
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Debit("000000000", dec("1"))
	require.ErrorIs(t, err, ErrNotFound)

	acct, _ := s.Get("123456789")
	assert.Equal(t, "501.00", acct.Balance.StringFixed(2))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newDefaultStore(t)
	require.NoError(t, s.ChangePIN("123456789", "1234", "2468", "2468"))

	path := filepath.Join(t.TempDir(), "data", "accounts.csv")
	require.NoError(t, s.Save(path))

	_, err := os.Stat(path)
	require.NoError(t, err)

	s2, err := Load(path)
	require.NoError(t, err)
	require.Len(t, s2.All(), 3)

	_, err = s2.Authenticate("123456789", "2468")
	require.NoError(t, err)
	acct, ok := s2.Get("987654321")
	require.True(t, ok)
	assert.Equal(t, "75002200999999.00", acct.Balance.StringFixed(2))
}

func TestSave_Unwritable(t *testing.T) {
	s := newDefaultStore(t)
	dir := t.TempDir()
	// The target path is an existing directory, so it cannot be created as a file.
	err := s.Save(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating accounts file")
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_InvalidRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.csv")
	data := Header + "\n123456789,JAI SUDHAN,-5.00,1234\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative balance")
}
