// Package importer ingests bank statement files into an account,
// deduplicating against already-imported transactions.
package importer

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/clearline-dev/clearline/internal/bankprofile"
	"github.com/clearline-dev/clearline/internal/model"
	"github.com/clearline-dev/clearline/internal/statement"
	"github.com/clearline-dev/clearline/internal/store"
)

// Result summarizes one statement import.
type Result struct {
	Imported   int
	Duplicates int
	Total      int
	Errors     []*statement.RowError
}

// Importer imports statement files for bank accounts.
type Importer struct {
	store    *store.Store
	profiles *bankprofile.Registry
	log      *slog.Logger
}

// New creates an Importer.
func New(st *store.Store, profiles *bankprofile.Registry, log *slog.Logger) *Importer {
	return &Importer{store: st, profiles: profiles, log: log}
}

// ImportFile reads a statement file for the account, normalizes its rows
// under the account's bank profile, skips duplicates, and persists the
// remainder in a single database transaction. Row-level parse failures
// are recorded in the result and never abort the batch; a persistence
// failure rolls the whole batch back.
func (im *Importer) ImportFile(account *model.BankAccount, path string) (*Result, error) {
	reader, err := statement.Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	profile := im.profiles.Resolve(account.BankName)
	norm := statement.NewNormalizer(profile)

	result := &Result{}
	var batch []*model.BankTransaction
	type dupKey struct {
		date, amount, description string
	}
	seen := make(map[dupKey]bool)

	for {
		row, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		txn, err := norm.Normalize(row)
		if errors.Is(err, statement.ErrZeroAmount) {
			result.Total++
			continue
		}
		var rowErr *statement.RowError
		if errors.As(err, &rowErr) {
			result.Total++
			result.Errors = append(result.Errors, rowErr)
			im.log.Warn("Skipping malformed statement row",
				"file", path, "row", rowErr.Row, "error", rowErr.Message)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("normalizing row %d: %w", row.Number, err)
		}

		result.Total++

		key := dupKey{txn.Date.Format("2006-01-02"), txn.Amount.String(), txn.Description}
		exists := seen[key]
		if !exists {
			exists, err = im.store.TransactionExists(account.ID, txn.Date, txn.Amount, txn.Description)
			if err != nil {
				return nil, err
			}
		}
		if exists {
			result.Duplicates++
			continue
		}
		seen[key] = true

		batch = append(batch, &model.BankTransaction{
			AccountID:   account.ID,
			Date:        txn.Date,
			Description: txn.Description,
			Reference:   txn.Reference,
			Amount:      txn.Amount,
			Type:        model.TypeForAmount(txn.Amount),
			Balance:     txn.Balance,
			HasBalance:  txn.HasBalance,
			Status:      model.TxnPending,
		})
	}

	if err := im.persist(account, batch); err != nil {
		return nil, err
	}
	result.Imported = len(batch)

	im.log.Info("Imported statement",
		"file", path, "account", account.ID,
		"imported", result.Imported, "duplicates", result.Duplicates,
		"errors", len(result.Errors))
	return result, nil
}

// persist writes the batch and, when the last row declares a running
// balance, makes it the account's authoritative balance. One database
// transaction: full success or full rollback.
func (im *Importer) persist(account *model.BankAccount, batch []*model.BankTransaction) error {
	if len(batch) == 0 {
		return nil
	}
	return im.store.Transaction(func(tx *sql.Tx) error {
		for _, txn := range batch {
			id, err := store.InsertTransaction(tx, txn)
			if err != nil {
				return err
			}
			txn.ID = id
		}
		last := batch[len(batch)-1]
		if last.HasBalance {
			if err := store.UpdateAccountBalance(tx, account.ID, last.Balance); err != nil {
				return err
			}
			account.Balance = last.Balance
		}
		return nil
	})
}
