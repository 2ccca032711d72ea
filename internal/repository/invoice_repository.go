package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/invoice-dashboard/internal/model"
)

// InvoiceRepo encapsulates all database queries related to invoices.
type InvoiceRepo struct {
	db *sql.DB
}

func NewInvoiceRepo(db *sql.DB) *InvoiceRepo {
	return &InvoiceRepo{db: db}
}

// filteredFrom is shared by the filtered listing and its count so both
// always agree on which invoices match.
const filteredFrom = `
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		WHERE LOWER(c.name) LIKE ?
		   OR LOWER(c.email) LIKE ?
		   OR LOWER(i.status) LIKE ?`

// Count returns the total number of invoices.
func (r *InvoiceRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&n)
	return n, err
}

// Totals sums invoice amounts (cents) by status.
func (r *InvoiceRepo) Totals(ctx context.Context) (model.InvoiceTotals, error) {
	const q = `SELECT
			COALESCE(SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END), 0) AS paid,
			COALESCE(SUM(CASE WHEN status = 'pending' THEN amount ELSE 0 END), 0) AS pending
		FROM invoices`
	var t model.InvoiceTotals
	err := r.db.QueryRowContext(ctx, q).Scan(&t.Paid, &t.Pending)
	return t, err
}

// Latest returns up to limit invoices joined with their customer, newest
// first.  Invoices sharing a date are ordered by id.
func (r *InvoiceRepo) Latest(ctx context.Context, limit int) ([]LatestRow, error) {
	const q = `SELECT i.id, i.amount, c.name, c.email, c.image_url
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		ORDER BY i.date DESC, i.id ASC
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LatestRow, 0, limit)
	for rows.Next() {
		var d LatestRow
		if err := rows.Scan(&d.ID, &d.Amount, &d.Name, &d.Email, &d.ImageURL); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LatestRow is a raw latest-invoice row with the amount still in cents.
type LatestRow struct {
	ID       string
	Amount   int64
	Name     string
	Email    string
	ImageURL string
}

// ListFiltered returns one page of invoices whose customer name, customer
// email or status contains query (case-insensitive), newest first.
func (r *InvoiceRepo) ListFiltered(ctx context.Context, query string, limit, offset int) ([]model.InvoiceRow, error) {
	q := `SELECT
			i.id,
			i.amount,
			c.name,
			c.email,
			c.image_url,
			i.status,
			DATE_FORMAT(i.date, '%Y-%m-%d') AS date` + filteredFrom + `
		ORDER BY i.date DESC, i.id ASC
		LIMIT ? OFFSET ?`

	p := likePattern(query)
	rows, err := r.db.QueryContext(ctx, q, p, p, p, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.InvoiceRow, 0, limit)
	for rows.Next() {
		var d model.InvoiceRow
		var status string
		if err := rows.Scan(
			&d.ID,
			&d.Amount,
			&d.Name,
			&d.Email,
			&d.ImageURL,
			&status,
			&d.Date,
		); err != nil {
			return nil, err
		}
		d.Status = model.InvoiceStatus(status)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountFiltered counts the invoices ListFiltered would page through.
func (r *InvoiceRepo) CountFiltered(ctx context.Context, query string) (int64, error) {
	p := likePattern(query)
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+filteredFrom, p, p, p).Scan(&n)
	return n, err
}

// GetByID fetches a single invoice.  Status is returned exactly as stored.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (model.Invoice, error) {
	const q = `SELECT id, customer_id, amount, status, DATE_FORMAT(date, '%Y-%m-%d')
		FROM invoices WHERE id = ?`
	var inv model.Invoice
	var status string
	err := r.db.QueryRowContext(ctx, q, id).Scan(&inv.ID, &inv.CustomerID, &inv.Amount, &status, &inv.Date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Invoice{}, ErrNotFound
		}
		return model.Invoice{}, err
	}
	inv.Status = model.InvoiceStatus(status)
	return inv, nil
}

// Create inserts inv as given; the caller assigns ID and Date.
func (r *InvoiceRepo) Create(ctx context.Context, inv model.Invoice) error {
	const q = `INSERT INTO invoices (id, customer_id, amount, status, date) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, inv.ID, inv.CustomerID, inv.Amount, string(inv.Status), inv.Date)
	return err
}

// Update overwrites customer, amount and status of an invoice.  The date
// column is never touched.  ErrNotFound is returned when no row has id.
func (r *InvoiceRepo) Update(ctx context.Context, id, customerID string, amount int64, status model.InvoiceStatus) error {
	const q = `UPDATE invoices SET customer_id = ?, amount = ?, status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, customerID, amount, string(status), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an invoice and reports how many rows went away.  Deleting
// an unknown id is not an error; it removes zero rows.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
