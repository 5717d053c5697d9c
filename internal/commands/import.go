package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/clearline-dev/clearline/internal/auditlog"
	"github.com/clearline-dev/clearline/internal/importer"
)

func newImportCommand() *cobra.Command {
	var configPath string
	var accountID int64
	var actor string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a bank statement file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(configPath)
			if err != nil {
				return err
			}
			defer e.close()

			account, err := e.store.GetAccount(accountID)
			if err != nil {
				return err
			}

			im := importer.New(e.store, e.profiles, e.log)
			result, err := im.ImportFile(account, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d of %d rows (%d duplicates, %d errors)\n",
				result.Imported, result.Total, result.Duplicates, len(result.Errors))
			for _, re := range result.Errors {
				fmt.Printf("  row %d: %s\n", re.Row, re.Message)
			}

			return auditlog.Append(".", []auditlog.Entry{{
				Timestamp: time.Now(),
				Actor:     actor,
				Action:    "import",
				Details:   fmt.Sprintf("%s: %d imported, %d duplicates", args[0], result.Imported, result.Duplicates),
				AccountID: account.ID,
			}})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "clearline.yaml", "config file")
	cmd.Flags().Int64Var(&accountID, "account", 0, "bank account id (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&actor, "actor", "cli", "acting user")

	return cmd
}
