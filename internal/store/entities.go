package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/clearline-dev/clearline/internal/model"
)

// The invoice, payment and expense tables belong to other modules; this
// package only reads them for candidate search and mutates the two
// fields reconciliation owns: an invoice's paid flag and a payment's
// transaction link.

// CreateInvoice inserts an invoice. Used by tests and data seeding.
func (s *Store) CreateInvoice(inv *model.Invoice) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO invoices (tenant_id, number, customer_reference, amount, date, paid)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		inv.TenantID, inv.Number, inv.CustomerReference, inv.Amount.String(),
		fmtDate(inv.Date), boolInt(inv.Paid),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting invoice: %w", err)
	}
	return res.LastInsertId()
}

// CreatePayment inserts a payment. Used by tests and data seeding.
func (s *Store) CreatePayment(p *model.Payment) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO payments (tenant_id, customer_reference, amount, date, transaction_id)
		 VALUES (?, ?, ?, ?, ?)`,
		p.TenantID, p.CustomerReference, p.Amount.String(), fmtDate(p.Date), p.TransactionID,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting payment: %w", err)
	}
	return res.LastInsertId()
}

// CreateExpense inserts an expense. Used by tests and data seeding.
func (s *Store) CreateExpense(e *model.Expense) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO expenses (tenant_id, supplier_reference, amount, date)
		 VALUES (?, ?, ?, ?)`,
		e.TenantID, e.SupplierReference, e.Amount.String(), fmtDate(e.Date),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting expense: %w", err)
	}
	return res.LastInsertId()
}

// UnpaidInvoicesInWindow returns the tenant's unpaid invoices dated
// within [start, end].
func (s *Store) UnpaidInvoicesInWindow(tenantID int64, start, end time.Time) ([]*model.Invoice, error) {
	rows, err := s.db.Query(
		`SELECT id, tenant_id, number, customer_reference, amount, date, paid
		 FROM invoices WHERE tenant_id = ? AND paid = 0 AND date >= ? AND date <= ?
		 ORDER BY date, id`,
		tenantID, fmtDate(start), fmtDate(end),
	)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*model.Invoice
	for rows.Next() {
		var inv model.Invoice
		var amount, date string
		var paid int
		if err := rows.Scan(&inv.ID, &inv.TenantID, &inv.Number, &inv.CustomerReference,
			&amount, &date, &paid); err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}
		if inv.Amount, err = parseDec(amount); err != nil {
			return nil, err
		}
		if inv.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		inv.Paid = paid != 0
		invoices = append(invoices, &inv)
	}
	return invoices, rows.Err()
}

// UnlinkedPaymentsInWindow returns the tenant's payments dated within
// [start, end] that are not yet linked to a bank transaction.
func (s *Store) UnlinkedPaymentsInWindow(tenantID int64, start, end time.Time) ([]*model.Payment, error) {
	rows, err := s.db.Query(
		`SELECT id, tenant_id, customer_reference, amount, date, transaction_id
		 FROM payments WHERE tenant_id = ? AND transaction_id = 0 AND date >= ? AND date <= ?
		 ORDER BY date, id`,
		tenantID, fmtDate(start), fmtDate(end),
	)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var payments []*model.Payment
	for rows.Next() {
		var p model.Payment
		var amount, date string
		if err := rows.Scan(&p.ID, &p.TenantID, &p.CustomerReference,
			&amount, &date, &p.TransactionID); err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}
		if p.Amount, err = parseDec(amount); err != nil {
			return nil, err
		}
		if p.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}

// ExpensesInWindow returns the tenant's expenses dated within [start, end].
func (s *Store) ExpensesInWindow(tenantID int64, start, end time.Time) ([]*model.Expense, error) {
	rows, err := s.db.Query(
		`SELECT id, tenant_id, supplier_reference, amount, date
		 FROM expenses WHERE tenant_id = ? AND date >= ? AND date <= ?
		 ORDER BY date, id`,
		tenantID, fmtDate(start), fmtDate(end),
	)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*model.Expense
	for rows.Next() {
		var e model.Expense
		var amount, date string
		if err := rows.Scan(&e.ID, &e.TenantID, &e.SupplierReference, &amount, &date); err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}
		if e.Amount, err = parseDec(amount); err != nil {
			return nil, err
		}
		if e.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		expenses = append(expenses, &e)
	}
	return expenses, rows.Err()
}

// GetInvoice loads one invoice by id.
func (s *Store) GetInvoice(id int64) (*model.Invoice, error) {
	row := s.db.QueryRow(
		`SELECT id, tenant_id, number, customer_reference, amount, date, paid
		 FROM invoices WHERE id = ?`, id)

	var inv model.Invoice
	var amount, date string
	var paid int
	err := row.Scan(&inv.ID, &inv.TenantID, &inv.Number, &inv.CustomerReference, &amount, &date, &paid)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("invoice %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading invoice %d: %w", id, err)
	}
	if inv.Amount, err = parseDec(amount); err != nil {
		return nil, err
	}
	if inv.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	inv.Paid = paid != 0
	return &inv, nil
}

// GetPayment loads one payment by id.
func (s *Store) GetPayment(id int64) (*model.Payment, error) {
	row := s.db.QueryRow(
		`SELECT id, tenant_id, customer_reference, amount, date, transaction_id
		 FROM payments WHERE id = ?`, id)

	var p model.Payment
	var amount, date string
	err := row.Scan(&p.ID, &p.TenantID, &p.CustomerReference, &amount, &date, &p.TransactionID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("payment %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading payment %d: %w", id, err)
	}
	if p.Amount, err = parseDec(amount); err != nil {
		return nil, err
	}
	if p.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetExpense loads one expense by id.
func (s *Store) GetExpense(id int64) (*model.Expense, error) {
	row := s.db.QueryRow(
		`SELECT id, tenant_id, supplier_reference, amount, date
		 FROM expenses WHERE id = ?`, id)

	var e model.Expense
	var amount, date string
	err := row.Scan(&e.ID, &e.TenantID, &e.SupplierReference, &amount, &date)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading expense %d: %w", id, err)
	}
	if e.Amount, err = parseDec(amount); err != nil {
		return nil, err
	}
	if e.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	return &e, nil
}

// MarkInvoicePaid sets an invoice's paid flag within tx.
func MarkInvoicePaid(tx *sql.Tx, invoiceID int64) error {
	_, err := tx.Exec(`UPDATE invoices SET paid = 1 WHERE id = ?`, invoiceID)
	if err != nil {
		return fmt.Errorf("marking invoice %d paid: %w", invoiceID, err)
	}
	return nil
}

// LinkPayment sets a payment's bank-transaction link within tx.
func LinkPayment(tx *sql.Tx, paymentID, transactionID int64) error {
	_, err := tx.Exec(`UPDATE payments SET transaction_id = ? WHERE id = ?`, transactionID, paymentID)
	if err != nil {
		return fmt.Errorf("linking payment %d: %w", paymentID, err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
