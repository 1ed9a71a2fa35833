package atm

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/securebank/atm/internal/accounts"
	"github.com/securebank/atm/internal/config"
	"github.com/securebank/atm/internal/id"
	"github.com/securebank/atm/internal/model"
)

// AccountStore is the subset of accounts.Store the service depends on.
type AccountStore interface {
	Authenticate(number, pin string) (model.Account, error)
	Get(number string) (model.Account, bool)
	ChangePIN(number, current, next, confirm string) error
	Credit(number string, amount decimal.Decimal) (decimal.Decimal, error)
	Debit(number string, amount decimal.Decimal) (decimal.Decimal, error)
}

// Service runs banking operations for at most one authenticated session at a time.
type Service struct {
	store  AccountStore
	limits config.Limits
	logger *zap.Logger
	clock  clockwork.Clock

	mu         sync.Mutex
	active     *Session
	receiptDay string
	receiptSeq int
}

// NewService creates a Service. A nil logger discards logs; a nil clock uses wall time.
func NewService(store AccountStore, limits config.Limits, logger *zap.Logger, clock clockwork.Clock) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{store: store, limits: limits, logger: logger, clock: clock}
}

// Limits returns the limits the service enforces.
func (s *Service) Limits() config.Limits {
	return s.limits
}

// ActiveSession returns the current session, if any.
func (s *Service) ActiveSession() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return Session{}, false
	}
	return *s.active, true
}

// Login authenticates and opens the session. Authentication failures are
// returned as *accounts.AuthError.
func (s *Service) Login(number, pin string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return Session{}, ErrSessionActive
	}

	acct, err := s.store.Authenticate(number, pin)
	if err != nil {
		var authErr *accounts.AuthError
		reason := "unknown"
		if errors.As(err, &authErr) {
			reason = string(authErr.Reason)
		}
		s.logger.Warn("login failed",
			zap.String("account", model.MaskNumber(number)),
			zap.String("reason", reason))
		return Session{}, err
	}

	sess := Session{
		ID:            id.NewSessionID(),
		AccountNumber: acct.Number,
		StartedAt:     s.clock.Now(),
	}
	s.active = &sess
	s.logger.Info("login",
		zap.String("account", acct.MaskedNumber()),
		zap.Stringer("session", sess.ID))
	return sess, nil
}

// Logout closes the session.
func (s *Service) Logout(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireSession(sess); err != nil {
		return err
	}
	s.active = nil
	s.logger.Info("logout",
		zap.String("account", model.MaskNumber(sess.AccountNumber)),
		zap.Stringer("session", sess.ID))
	return nil
}

// Balance returns the current balance of the session's account.
func (s *Service) Balance(sess Session) (BalanceView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, err := s.account(sess)
	if err != nil {
		return BalanceView{}, err
	}
	return balanceView(acct), nil
}

// MiniStatement returns the balance view plus the static account notes.
func (s *Service) MiniStatement(sess Session) (Statement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, err := s.account(sess)
	if err != nil {
		return Statement{}, err
	}
	return Statement{
		BalanceView: balanceView(acct),
		LastLogin:   sess.StartedAt,
		Status:      StatusActive,
		DailyLimit:  s.limits.Daily,
	}, nil
}

// Deposit parses input and credits it to the session's account. The range is
// checked on the amount as entered; the credited amount is rounded to cents.
func (s *Service) Deposit(sess Session, input string) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireSession(sess); err != nil {
		return Receipt{}, err
	}

	amount, err := ParseAmount(input)
	if err != nil {
		return Receipt{}, s.rejected(sess, &AmountError{Op: OpDeposit, Reason: ReasonInvalidAmount, Input: input})
	}
	if err := CheckDeposit(amount, s.limits); err != nil {
		return Receipt{}, s.rejected(sess, err)
	}
	amount = RoundAmount(amount)

	balance, err := s.store.Credit(sess.AccountNumber, amount)
	if err != nil {
		return Receipt{}, fmt.Errorf("crediting account: %w", err)
	}
	return s.receipt(sess, OpDeposit, amount, balance), nil
}

// Withdraw parses input and debits it from the session's account. Checks run
// in order: format, minimum, maximum, multiple, balance.
func (s *Service) Withdraw(sess Session, input string) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireSession(sess); err != nil {
		return Receipt{}, err
	}

	amount, err := ParseAmount(input)
	if err != nil {
		return Receipt{}, s.rejected(sess, &AmountError{Op: OpWithdraw, Reason: ReasonInvalidAmount, Input: input})
	}
	if err := CheckWithdrawal(amount, s.limits); err != nil {
		return Receipt{}, s.rejected(sess, err)
	}
	amount = RoundAmount(amount)

	balance, err := s.store.Debit(sess.AccountNumber, amount)
	if errors.Is(err, accounts.ErrInsufficientFunds) {
		return Receipt{}, s.rejected(sess, &AmountError{
			Op:     OpWithdraw,
			Reason: ReasonInsufficientFunds,
			Amount: amount,
			Limit:  balance,
		})
	}
	if err != nil {
		return Receipt{}, fmt.Errorf("debiting account: %w", err)
	}
	return s.receipt(sess, OpWithdraw, amount, balance), nil
}

// ChangePIN replaces the PIN of the session's account. Failures are returned
// as *accounts.PINChangeError.
func (s *Service) ChangePIN(sess Session, current, next, confirm string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireSession(sess); err != nil {
		return err
	}

	if err := s.store.ChangePIN(sess.AccountNumber, current, next, confirm); err != nil {
		s.logger.Warn("PIN change rejected",
			zap.String("account", model.MaskNumber(sess.AccountNumber)),
			zap.Stringer("session", sess.ID),
			zap.Error(err))
		return err
	}
	s.logger.Info("PIN changed",
		zap.String("account", model.MaskNumber(sess.AccountNumber)),
		zap.Stringer("session", sess.ID))
	return nil
}

// requireSession must be called with s.mu held.
func (s *Service) requireSession(sess Session) error {
	if s.active == nil || s.active.ID != sess.ID {
		return ErrNoActiveSession
	}
	return nil
}

func (s *Service) account(sess Session) (model.Account, error) {
	if err := s.requireSession(sess); err != nil {
		return model.Account{}, err
	}
	acct, ok := s.store.Get(sess.AccountNumber)
	if !ok {
		return model.Account{}, fmt.Errorf("account %s: %w", model.MaskNumber(sess.AccountNumber), accounts.ErrNotFound)
	}
	return acct, nil
}

func (s *Service) rejected(sess Session, err error) error {
	s.logger.Warn("transaction rejected",
		zap.String("account", model.MaskNumber(sess.AccountNumber)),
		zap.Stringer("session", sess.ID),
		zap.Error(err))
	return err
}

func (s *Service) receipt(sess Session, op Op, amount, balance decimal.Decimal) Receipt {
	now := s.clock.Now()
	day := now.Format("20060102")
	if day != s.receiptDay {
		s.receiptDay = day
		s.receiptSeq = 0
	}
	s.receiptSeq++

	r := Receipt{
		Reference:  id.FormatReceiptRef(now, s.receiptSeq),
		Amount:     amount,
		NewBalance: balance,
	}
	s.logger.Info(string(op),
		zap.String("account", model.MaskNumber(sess.AccountNumber)),
		zap.Stringer("session", sess.ID),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("reference", r.Reference))
	return r
}

func balanceView(acct model.Account) BalanceView {
	return BalanceView{
		MaskedNumber: acct.MaskedNumber(),
		HolderName:   acct.HolderName,
		Balance:      acct.Balance,
	}
}
