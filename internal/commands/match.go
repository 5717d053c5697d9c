package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/clearline-dev/clearline/internal/auditlog"
	"github.com/clearline-dev/clearline/internal/model"
)

func newMatchCommand() *cobra.Command {
	var configPath, actor string
	var sessionID int64

	cmd := &cobra.Command{
		Use:   "match <transaction> <kind> <entity>",
		Short: "Match a transaction to an invoice, payment or expense",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			txnID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parsing transaction id: %w", err)
			}
			kind := model.EntityKind(args[1])
			entityID, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("parsing entity id: %w", err)
			}

			e, err := openEnv(configPath)
			if err != nil {
				return err
			}
			defer e.close()

			sess, err := e.store.GetSession(sessionID)
			if err != nil {
				return err
			}
			txn, err := e.store.GetTransaction(txnID)
			if err != nil {
				return err
			}

			svc := newService(e)
			suggestions, err := svc.Suggest(sess)
			if err != nil {
				return err
			}

			candidate, found := model.MatchCandidate{}, false
			for _, sg := range suggestions {
				if sg.Transaction.ID != txnID {
					continue
				}
				for _, c := range sg.Candidates {
					if c.EntityKind == kind && c.EntityID == entityID {
						candidate, found = c, true
					}
				}
			}
			if !found {
				// Allow matching outside the suggested set; the score is
				// recorded as zero confidence.
				candidate = model.MatchCandidate{EntityKind: kind, EntityID: entityID}
			}

			record, err := svc.Match(sess, txn, candidate, actor)
			if err != nil {
				return err
			}

			fmt.Printf("Matched transaction %d to %s %d (confidence %d)\n",
				txnID, kind, entityID, record.Confidence)

			return auditlog.Append(".", []auditlog.Entry{{
				Timestamp:  time.Now(),
				Actor:      actor,
				Action:     "match",
				Details:    fmt.Sprintf("txn %d -> %s %d", txnID, kind, entityID),
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
