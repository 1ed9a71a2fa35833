// Package terminal is a line-oriented ATM front end. It reads user input,
// calls the atm service and renders the typed results as text.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/securebank/atm/internal/accounts"
	"github.com/securebank/atm/internal/atm"
	"github.com/securebank/atm/internal/config"
)

// Menu options.
const (
	optBalance   = "1"
	optWithdraw  = "2"
	optDeposit   = "3"
	optStatement = "4"
	optChangePIN = "5"
	optLogout    = "6"
	optExit      = "7"
)

// Terminal drives one ATM over an input and output stream.
type Terminal struct {
	svc  *atm.Service
	bank config.BankConfig
	in   *bufio.Scanner
	out  io.Writer
}

// New creates a Terminal.
func New(svc *atm.Service, bank config.BankConfig, in io.Reader, out io.Writer) *Terminal {
	return &Terminal{svc: svc, bank: bank, in: bufio.NewScanner(in), out: out}
}

// Run shows the login screen until the user exits or input ends.
func (t *Terminal) Run() error {
	for {
		sess, ok, err := t.login()
		if err != nil || !ok {
			return err
		}
		exit, err := t.menu(sess)
		if err != nil || exit {
			return err
		}
	}
}

// login returns ok=false when input ends.
func (t *Terminal) login() (atm.Session, bool, error) {
	for {
		t.printf("\n%s\n", banner(strings.ToUpper(t.bank.Name)+" ATM SERVICES"))
		t.printf("USER AUTHENTICATION\n")

		number, ok := t.prompt("Account Number: ")
		if !ok {
			return atm.Session{}, false, t.in.Err()
		}
		pin, ok := t.prompt("PIN: ")
		if !ok {
			return atm.Session{}, false, t.in.Err()
		}

		number = strings.TrimSpace(number)
		if number == "" || pin == "" {
			t.printf("Please enter both account number and PIN\n")
			continue
		}

		sess, err := t.svc.Login(number, pin)
		if err != nil {
			t.printf("%s\n", t.describe(err))
			continue
		}

		t.printf("Login successful!\n")
		return sess, true, nil
	}
}

// menu runs the main menu for sess. It returns exit=true when the user asked
// to leave the program or input ended.
func (t *Terminal) menu(sess atm.Session) (bool, error) {
	for {
		view, err := t.svc.Balance(sess)
		if err != nil {
			t.printf("%s\n", t.describe(err))
			return false, nil
		}
		t.printf("\nWelcome, %s    Balance: %s\n", view.HolderName, t.money(view.Balance))
		t.printf("%s. CHECK BALANCE   %s. WITHDRAW MONEY   %s. DEPOSIT MONEY\n", optBalance, optWithdraw, optDeposit)
		t.printf("%s. MINI STATEMENT  %s. CHANGE PIN       %s. LOGOUT   %s. EXIT\n", optStatement, optChangePIN, optLogout, optExit)

		choice, ok := t.prompt("Select option: ")
		if !ok {
			t.leave(sess)
			return true, t.in.Err()
		}

		switch strings.TrimSpace(choice) {
		case optBalance:
			t.showBalance(sess)
		case optWithdraw:
			t.withdraw(sess)
		case optDeposit:
			t.deposit(sess)
		case optStatement:
			t.showStatement(sess)
		case optChangePIN:
			t.changePIN(sess)
		case optLogout:
			if !t.confirm("Are you sure you want to logout? (y/n): ") {
				continue
			}
			if err := t.svc.Logout(sess); err != nil {
				t.printf("%s\n", t.describe(err))
			}
			t.printf("Thank you for using our ATM service!\n")
			return false, nil
		case optExit:
			if !t.confirm("Are you sure you want to exit? (y/n): ") {
				continue
			}
			t.leave(sess)
			t.printf("Thank you for banking with us!\nHave a great day!\n")
			return true, nil
		default:
			t.printf("Invalid option, choose %s-%s\n", optBalance, optExit)
		}
	}
}

// leave closes sess if it is still the open session.
func (t *Terminal) leave(sess atm.Session) {
	active, ok := t.svc.ActiveSession()
	if !ok || active.ID != sess.ID {
		return
	}
	if err := t.svc.Logout(sess); err != nil {
		t.printf("%s\n", t.describe(err))
	}
}

func (t *Terminal) showBalance(sess atm.Session) {
	view, err := t.svc.Balance(sess)
	if err != nil {
		t.printf("%s\n", t.describe(err))
		return
	}
	t.printf("\nAccount Information:\n\n")
	t.printf("Account Number: %s\n", view.MaskedNumber)
	t.printf("Account Holder: %s\n", view.HolderName)
	t.printf("Current Balance: %s\n", t.money(view.Balance))
}

func (t *Terminal) withdraw(sess atm.Session) {
	view, err := t.svc.Balance(sess)
	if err != nil {
		t.printf("%s\n", t.describe(err))
		return
	}
	l := t.svc.Limits().Withdrawal
	t.printf("\nCurrent Balance: %s\n", t.money(view.Balance))
	t.printf("Withdrawal Limits: %s - %s\n", t.money(l.Min), t.money(l.Max))

	input, ok := t.prompt("Enter withdrawal amount: ")
	if !ok || strings.TrimSpace(input) == "" {
		return
	}
	r, err := t.svc.Withdraw(sess, input)
	if err != nil {
		t.printf("Error: %s\n", t.describe(err))
		return
	}
	t.printf("Withdrawal Successful!\n\n")
	t.printf("Amount: %s\n", t.money(r.Amount))
	t.printf("Remaining Balance: %s\n", t.money(r.NewBalance))
	t.printf("Reference: %s\n\n", r.Reference)
	t.printf("Please collect your cash!\n")
}

func (t *Terminal) deposit(sess atm.Session) {
	view, err := t.svc.Balance(sess)
	if err != nil {
		t.printf("%s\n", t.describe(err))
		return
	}
	l := t.svc.Limits().Deposit
	t.printf("\nCurrent Balance: %s\n", t.money(view.Balance))
	t.printf("Deposit Limits: %s - %s\n", t.money(l.Min), t.money(l.Max))

	input, ok := t.prompt("Enter deposit amount: ")
	if !ok || strings.TrimSpace(input) == "" {
		return
	}
	r, err := t.svc.Deposit(sess, input)
	if err != nil {
		t.printf("Error: %s\n", t.describe(err))
		return
	}
	t.printf("Deposit Successful!\n\n")
	t.printf("Amount: %s\n", t.money(r.Amount))
	t.printf("New Balance: %s\n", t.money(r.NewBalance))
	t.printf("Reference: %s\n\n", r.Reference)
	t.printf("Please collect your receipt!\n")
}

func (t *Terminal) showStatement(sess atm.Session) {
	st, err := t.svc.MiniStatement(sess)
	if err != nil {
		t.printf("%s\n", t.describe(err))
		return
	}
	t.printf("\n%s\n\n", banner("Mini Statement"))
	t.printf("Account Number: %s\n", st.MaskedNumber)
	t.printf("Account Holder: %s\n", st.HolderName)
	t.printf("Current Balance: %s\n\n", t.money(st.Balance))
	t.printf("Transaction Information:\n")
	t.printf("Last Login: %s\n", st.LastLogin.Format("2006-01-02 15:04"))
	t.printf("Account Status: %s\n", titleCase(string(st.Status)))
	t.printf("Daily Limit: %s\n", t.money(st.DailyLimit))
}

func (t *Terminal) changePIN(sess atm.Session) {
	current, ok := t.prompt("Current PIN: ")
	if !ok {
		return
	}
	next, ok := t.prompt("New PIN: ")
	if !ok {
		return
	}
	confirm, ok := t.prompt("Confirm PIN: ")
	if !ok {
		return
	}
	if err := t.svc.ChangePIN(sess, current, next, confirm); err != nil {
		t.printf("Error: %s\n", t.describe(err))
		return
	}
	t.printf("PIN changed successfully!\nPlease remember your new PIN.\n")
}

// describe turns a service error into the message shown to the user.
func (t *Terminal) describe(err error) string {
	var authErr *accounts.AuthError
	var pinErr *accounts.PINChangeError
	var amtErr *atm.AmountError
	switch {
	case errors.As(err, &authErr):
		return "Invalid account number or PIN!"
	case errors.As(err, &pinErr):
		switch pinErr.Reason {
		case accounts.PINWrongCurrent:
			return "Current PIN is incorrect!"
		case accounts.PINInvalidFormat:
			return "PIN must be exactly 4 digits!"
		default:
			return "New PINs do not match!"
		}
	case errors.As(err, &amtErr):
		return t.describeAmount(amtErr)
	case errors.Is(err, atm.ErrNoActiveSession):
		return "Your session has ended. Please log in again."
	case errors.Is(err, atm.ErrSessionActive):
		return "Another session is in progress."
	}
	return "Unexpected error: " + err.Error()
}

func (t *Terminal) describeAmount(e *atm.AmountError) string {
	noun := "deposit"
	if e.Op == atm.OpWithdraw {
		noun = "withdrawal"
	}
	switch e.Reason {
	case atm.ReasonBelowMinimum:
		return fmt.Sprintf("Minimum %s amount is %s", noun, t.money(e.Limit))
	case atm.ReasonAboveMaximum:
		return fmt.Sprintf("Maximum %s amount is %s", noun, t.money(e.Limit))
	case atm.ReasonNotMultiple:
		return fmt.Sprintf("Please enter amount in multiples of %s", t.money(e.Limit))
	case atm.ReasonInsufficientFunds:
		return "Insufficient balance!"
	default:
		return "Please enter a valid amount!"
	}
}

func (t *Terminal) money(d decimal.Decimal) string {
	return t.bank.CurrencySymbol + d.StringFixed(2)
}

func (t *Terminal) prompt(label string) (string, bool) {
	t.printf("%s", label)
	if !t.in.Scan() {
		return "", false
	}
	return t.in.Text(), true
}

func (t *Terminal) confirm(label string) bool {
	answer, ok := t.prompt(label)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func (t *Terminal) printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}

func banner(title string) string {
	line := strings.Repeat("=", len(title)+8)
	return line + "\n    " + title + "\n" + line
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
