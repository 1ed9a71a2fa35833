package accounts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/securebank/atm/internal/model"
)

// Store owns the set of accounts and resolves credentials.
type Store struct {
	mu       sync.Mutex
	order    []string
	byNumber map[string]*model.Account
}

// NewStore creates a Store from a slice of accounts. Every account must satisfy
// the model invariants and account numbers must be unique.
func NewStore(accts []model.Account) (*Store, error) {
	s := &Store{byNumber: make(map[string]*model.Account, len(accts))}
	for i, a := range accts {
		if err := validateAccount(a); err != nil {
			return nil, fmt.Errorf("account %d: %w", i+1, err)
		}
		if _, dup := s.byNumber[a.Number]; dup {
			return nil, fmt.Errorf("account %d: duplicate account number %s", i+1, model.MaskNumber(a.Number))
		}
		acct := a
		s.byNumber[a.Number] = &acct
		s.order = append(s.order, a.Number)
	}
	return s, nil
}

// Load reads an accounts CSV file and returns a Store.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening accounts file: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading accounts file: %w", err)
	}
	return NewStore(accts)
}

// Save writes the current state of every account to path.
func (s *Store) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating accounts file: %w", err)
	}

	if err := WriteAccounts(f, s.All()); err != nil {
		f.Close()
		return fmt.Errorf("writing accounts file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing accounts file: %w", err)
	}
	return nil
}

// All returns a snapshot of every account in insertion order.
func (s *Store) All() []model.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Account, 0, len(s.order))
	for _, n := range s.order {
		out = append(out, *s.byNumber[n])
	}
	return out
}

// Get returns a snapshot of the account with the given number.
func (s *Store) Get(number string) (model.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byNumber[number]
	if !ok {
		return model.Account{}, false
	}
	return *a, true
}

// Authenticate returns the account when number exists and pin matches it exactly.
func (s *Store) Authenticate(number, pin string) (model.Account, error) {
	if number == "" || pin == "" {
		return model.Account{}, &AuthError{Reason: AuthInvalidCredentials, Number: number}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byNumber[number]
	if !ok {
		return model.Account{}, &AuthError{Reason: AuthNotFound, Number: number}
	}
	if a.PIN != pin {
		return model.Account{}, &AuthError{Reason: AuthInvalidCredentials, Number: number}
	}
	return *a, nil
}

// ChangePIN replaces the PIN of an account. Checks run in order: current PIN,
// new PIN format, confirmation.
func (s *Store) ChangePIN(number, current, next, confirm string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byNumber[number]
	if !ok {
		return fmt.Errorf("account %s: %w", model.MaskNumber(number), ErrNotFound)
	}
	if current != a.PIN {
		return &PINChangeError{Reason: PINWrongCurrent}
	}
	if !model.ValidPIN(next) {
		return &PINChangeError{Reason: PINInvalidFormat}
	}
	if next != confirm {
		return &PINChangeError{Reason: PINMismatch}
	}
	a.PIN = next
	return nil
}

// Credit adds amount to the balance and returns the new balance.
func (s *Store) Credit(number string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("credit of negative amount %s", amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byNumber[number]
	if !ok {
		return decimal.Zero, fmt.Errorf("account %s: %w", model.MaskNumber(number), ErrNotFound)
	}
	a.Balance = a.Balance.Add(amount)
	return a.Balance, nil
}

// Debit subtracts amount from the balance and returns the new balance.
// The balance never goes below zero.
func (s *Store) Debit(number string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("debit of negative amount %s", amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byNumber[number]
	if !ok {
		return decimal.Zero, fmt.Errorf("account %s: %w", model.MaskNumber(number), ErrNotFound)
	}
	if amount.GreaterThan(a.Balance) {
		return a.Balance, ErrInsufficientFunds
	}
	a.Balance = a.Balance.Sub(amount)
	return a.Balance, nil
}

func validateAccount(a model.Account) error {
	switch {
	case a.Number == "":
		return errors.New("empty account number")
	case a.HolderName == "":
		return fmt.Errorf("account %s: empty holder name", model.MaskNumber(a.Number))
	case a.Balance.IsNegative():
		return fmt.Errorf("account %s: negative balance %s", model.MaskNumber(a.Number), a.Balance.StringFixed(2))
	case !model.ValidPIN(a.PIN):
		return fmt.Errorf("account %s: %w", model.MaskNumber(a.Number), ErrInvalidPINFormat)
	}
	return nil
}
