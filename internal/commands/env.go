package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/securebank/atm/internal/accounts"
	"github.com/securebank/atm/internal/config"
	"github.com/securebank/atm/internal/logging"
)

// env is everything a command needs to talk to the ATM core.
type env struct {
	cfg    *config.Config
	store  *accounts.Store
	logger *zap.Logger
}

// loadEnv reads --config. A missing file is only an error when the flag was
// set explicitly; otherwise the built-in defaults and seed accounts are used.
func loadEnv(cmd *cobra.Command) (*env, error) {
	flag := cmd.Flag("config")
	path := flag.Value.String()

	cfg, err := config.Load(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !flag.Changed:
		cfg = config.Default()
		path = ""
	case err != nil:
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	store, err := openStore(cfg, path)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, store: store, logger: logger}, nil
}

// openStore loads the accounts file named in cfg, resolved against the
// directory of the config file.
func openStore(cfg *config.Config, cfgPath string) (*accounts.Store, error) {
	if cfg.AccountsFile == "" {
		return accounts.NewStore(accounts.DefaultAccounts())
	}

	path := cfg.AccountsFile
	if !filepath.IsAbs(path) && cfgPath != "" {
		path = filepath.Join(filepath.Dir(cfgPath), path)
	}
	store, err := accounts.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	return store, nil
}
