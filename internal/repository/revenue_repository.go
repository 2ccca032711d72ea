package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/invoice-dashboard/internal/model"
)

// RevenueRepo reads the chart's reference data.
type RevenueRepo struct {
	db *sql.DB
}

func NewRevenueRepo(db *sql.DB) *RevenueRepo {
	return &RevenueRepo{db: db}
}

// List returns every revenue row in table order.
func (r *RevenueRepo) List(ctx context.Context) ([]model.Revenue, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT month, revenue FROM revenue`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Revenue{}
	for rows.Next() {
		var rv model.Revenue
		if err := rows.Scan(&rv.Month, &rv.Revenue); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
