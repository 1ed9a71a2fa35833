package commands

import (
	"github.com/spf13/cobra"

	"github.com/securebank/atm/internal/atm"
	"github.com/securebank/atm/internal/terminal"
)

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start an interactive ATM session on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = e.logger.Sync() }()

			svc := atm.NewService(e.store, e.cfg.Limits, e.logger, nil)
			return terminal.New(svc, e.cfg.Bank, cmd.InOrStdin(), cmd.OutOrStdout()).Run()
		},
	}
}
