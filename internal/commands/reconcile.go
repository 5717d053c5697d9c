package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/clearline-dev/clearline/internal/auditlog"
	"github.com/clearline-dev/clearline/internal/reconcile"
)

const dayLayout = "2006-01-02"

func newReconcileCommand() *cobra.Command {
	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconciliation session operations",
	}
	reconcileCmd.AddCommand(newReconcileStartCommand())
	reconcileCmd.AddCommand(newReconcileSuggestCommand())
	reconcileCmd.AddCommand(newReconcileAutoCommand())
	reconcileCmd.AddCommand(newReconcileCompleteCommand())
	return reconcileCmd
}

func newService(e *env) *reconcile.Service {
	return reconcile.NewService(e.store,
		e.cfg.Reconciliation.AutoMatchScore,
		e.cfg.Reconciliation.StrictCompletion,
		e.log)
}

func newReconcileStartCommand() *cobra.Command {
	var configPath, actor, from, to, bankStart, bankEnd string
	var accountID int64

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a reconciliation session",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(configPath)
			if err != nil {
				return err
			}
			defer e.close()

			periodStart, err := time.Parse(dayLayout, from)
			if err != nil {
				return fmt.Errorf("parsing --from: %w", err)
			}
			periodEnd, err := time.Parse(dayLayout, to)
			if err != nil {
				return fmt.Errorf("parsing --to: %w", err)
			}
			startBal, err := decimal.NewFromString(bankStart)
			if err != nil {
				return fmt.Errorf("parsing --bank-start: %w", err)
			}
			endBal, err := decimal.NewFromString(bankEnd)
			if err != nil {
				return fmt.Errorf("parsing --bank-end: %w", err)
			}

			sess, err := newService(e).Start(accountID, actor, periodStart, periodEnd, startBal, endBal)
			if err != nil {
				return err
			}

			fmt.Printf("Started session %s (id %d), difference %s\n",
				sess.Reference, sess.ID, sess.Difference.String())

			return auditlog.Append(".", []auditlog.Entry{{
				Timestamp:  time.Now(),
				Actor:      actor,
				Action:     "start",
				Details:    fmt.Sprintf("period %s..%s", from, to),
				AccountID:  accountID,
				SessionRef: sess.Reference,
			}})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "clearline.yaml", "config file")
	cmd.Flags().Int64Var(&accountID, "account", 0, "bank account id (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&actor, "actor", "cli", "acting user")
	cmd.Flags().StringVar(&from, "from", "", "period start YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("from")
	cmd.Flags().StringVar(&to, "to", "", "period end YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("to")
	cmd.Flags().StringVar(&bankStart, "bank-start", "0", "bank statement starting balance")
	cmd.Flags().StringVar(&bankEnd, "bank-end", "0", "bank statement ending balance")

	return cmd
}

func newReconcileSuggestCommand() *cobra.Command {
	var configPath string
	var sessionID int64

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "List match suggestions for manual review",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(configPath)
			if err != nil {
				return err
			}
			defer e.close()

			sess, err := e.store.GetSession(sessionID)
			if err != nil {
				return err
			}

			suggestions, err := newService(e).Suggest(sess)
			if err != nil {
				return err
			}

			for _, sg := range suggestions {
				txn := sg.Transaction
				fmt.Printf("txn %d  %s  %s  %s\n", txn.ID,
					txn.Date.Format(dayLayout), txn.Amount.StringFixed(2), txn.Description)
				if len(sg.Candidates) == 0 {
					fmt.Println("    no candidates")
					continue
				}
				for _, c := range sg.Candidates {
					fmt.Printf("    [%3d] %s %d  %s  %s\n",
						c.Score, c.EntityKind, c.EntityID, c.Amount.StringFixed(2), c.Description)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "clearline.yaml", "config file")
	cmd.Flags().Int64Var(&sessionID, "session", 0, "session id (required)")
	_ = cmd.MarkFlagRequired("session")

	return cmd
}

func newReconcileAutoCommand() *cobra.Command {
	var configPath, actor string
	var sessionID int64

	cmd := &cobra.Command{
		Use:   "auto",
		Short: "Apply unambiguous high-confidence matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(configPath)
			if err != nil {
				return err
			}
			defer e.close()

			sess, err := e.store.GetSession(sessionID)
			if err != nil {
				return err
			}

			matched, err := newService(e).AutoMatch(sess, actor)
			if err != nil {
				return err
			}

			fmt.Printf("Auto-matched %d transactions\n", matched)

			return auditlog.Append(".", []auditlog.Entry{{
				Timestamp:  time.Now(),
				Actor:      actor,
				Action:     "auto-match",
				Details:    fmt.Sprintf("%d matched", matched),
				AccountID:  sess.AccountID,
				SessionRef: sess.Reference,
			}})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "clearline.yaml", "config file")
	cmd.Flags().Int64Var(&sessionID, "session", 0, "session id (required)")
	_ = cmd.MarkFlagRequired("session")
	cmd.Flags().StringVar(&actor, "actor", "cli", "acting user")

	return cmd
}

func newReconcileCompleteCommand() *cobra.Command {
	var configPath, actor string
	var sessionID int64

	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Complete a reconciliation session",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(configPath)
			if err != nil {
				return err
			}
			defer e.close()

			sess, err := e.store.GetSession(sessionID)
			if err != nil {
				return err
			}

			if err := newService(e).Complete(sess); err != nil {
				return err
			}

			fmt.Printf("Completed session %s, final difference %s\n",
				sess.Reference, sess.Difference.String())

			return auditlog.Append(".", []auditlog.Entry{{
				Timestamp:  time.Now(),
				Actor:      actor,
				Action:     "complete",
				Details:    fmt.Sprintf("difference %s", sess.Difference.String()),
				AccountID:  sess.AccountID,
				SessionRef: sess.Reference,
			}})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "clearline.yaml", "config file")
	cmd.Flags().Int64Var(&sessionID, "session", 0, "session id (required)")
	_ = cmd.MarkFlagRequired("session")
	cmd.Flags().StringVar(&actor, "actor", "cli", "acting user")

	return cmd
}
