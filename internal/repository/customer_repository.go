package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/invoice-dashboard/internal/model"
)

// CustomerTotals is a customer joined with raw invoice aggregates in cents.
type CustomerTotals struct {
	model.Customer
	TotalInvoices int64
	TotalPending  int64
	TotalPaid     int64
}

// CustomerRepo encapsulates the read-only customer queries.
type CustomerRepo struct {
	db *sql.DB
}

func NewCustomerRepo(db *sql.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

// ListFields returns id and name of every customer ordered by name.
func (r *CustomerRepo) ListFields(ctx context.Context) ([]model.CustomerField, error) {
	const q = `SELECT id, name FROM customers ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.CustomerField{}
	for rows.Next() {
		var c model.CustomerField
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListFiltered returns customers whose name or email contains query
// (case-insensitive), each with its invoice count and cents totals per
// status.  Customers without invoices report zeros.  Ordered by id.
func (r *CustomerRepo) ListFiltered(ctx context.Context, query string) ([]CustomerTotals, error) {
	const q = `SELECT
			c.id,
			c.name,
			c.email,
			c.image_url,
			COUNT(i.id) AS total_invoices,
			COALESCE(SUM(CASE WHEN i.status = 'pending' THEN i.amount ELSE 0 END), 0) AS total_pending,
			COALESCE(SUM(CASE WHEN i.status = 'paid' THEN i.amount ELSE 0 END), 0) AS total_paid
		FROM customers c
		LEFT JOIN invoices i ON i.customer_id = c.id
		WHERE LOWER(c.name) LIKE ? OR LOWER(c.email) LIKE ?
		GROUP BY c.id, c.name, c.email, c.image_url
		ORDER BY c.id ASC`

	pattern := likePattern(query)
	rows, err := r.db.QueryContext(ctx, q, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CustomerTotals{}
	for rows.Next() {
		var c CustomerTotals
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Email,
			&c.ImageURL,
			&c.TotalInvoices,
			&c.TotalPending,
			&c.TotalPaid,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of customers.
func (r *CustomerRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n)
	return n, err
}
