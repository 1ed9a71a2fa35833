package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/securebank/atm/internal/accounts"
	"github.com/securebank/atm/internal/config"
)

const (
	defaultConfigFile   = "atm.yaml"
	defaultAccountsFile = "accounts.csv"
)

func newInitCommand() *cobra.Command {
	var name string
	var currency string
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default atm.yaml and seed accounts file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, name, currency, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized ATM at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Secure Bank", "bank name shown on the login screen")
	cmd.Flags().StringVar(&currency, "currency", "Rs.", "currency symbol used when rendering amounts")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")

	return cmd
}

func runInit(dir, name, currency string, force bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	cfgPath := filepath.Join(dir, defaultConfigFile)
	acctPath := filepath.Join(dir, defaultAccountsFile)
	if !force {
		for _, p := range []string{cfgPath, acctPath} {
			if _, err := os.Stat(p); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", p)
			}
		}
	}

	// Write atm.yaml.
	cfg := config.Default()
	cfg.Bank.Name = name
	cfg.Bank.CurrencySymbol = currency
	cfg.AccountsFile = defaultAccountsFile
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write seed accounts.
	store, err := accounts.NewStore(accounts.DefaultAccounts())
	if err != nil {
		return fmt.Errorf("building seed accounts: %w", err)
	}
	if err := store.Save(acctPath); err != nil {
		return fmt.Errorf("writing accounts: %w", err)
	}

	return nil
}
