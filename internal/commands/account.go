package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/clearline-dev/clearline/internal/model"
)

func newAccountCommand() *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Bank account operations",
	}
	accountCmd.AddCommand(newAccountAddCommand())
	return accountCmd
}

func newAccountAddCommand() *cobra.Command {
	var configPath string
	var bank string
	var balance string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a bank account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(configPath)
			if err != nil {
				return err
			}
			defer e.close()

			bal, err := decimal.NewFromString(balance)
			if err != nil {
				return fmt.Errorf("parsing balance: %w", err)
			}

			id, err := e.store.CreateAccount(&model.BankAccount{
				TenantID: e.cfg.Business.TenantID,
				Name:     args[0],
				BankName: bank,
				Balance:  bal,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Created account %d (%s)\n", id, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "clearline.yaml", "config file")
	cmd.Flags().StringVar(&bank, "bank", "", "bank name for statement profile lookup")
	cmd.Flags().StringVar(&balance, "balance", "0", "opening balance")

	return cmd
}
