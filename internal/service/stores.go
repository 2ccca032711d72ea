package service

import (
	"context"

	"github.com/iliyamo/invoice-dashboard/internal/model"
	"github.com/iliyamo/invoice-dashboard/internal/queue"
	"github.com/iliyamo/invoice-dashboard/internal/repository"
)

// UserStore looks users up for credential checks.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// CustomerStore is the read side of the customers table.
type CustomerStore interface {
	ListFields(ctx context.Context) ([]model.CustomerField, error)
	ListFiltered(ctx context.Context, query string) ([]repository.CustomerTotals, error)
	Count(ctx context.Context) (int64, error)
}

// InvoiceStore reads and writes invoices.
type InvoiceStore interface {
	Count(ctx context.Context) (int64, error)
	Totals(ctx context.Context) (model.InvoiceTotals, error)
	Latest(ctx context.Context, limit int) ([]repository.LatestRow, error)
	ListFiltered(ctx context.Context, query string, limit, offset int) ([]model.InvoiceRow, error)
	CountFiltered(ctx context.Context, query string) (int64, error)
	GetByID(ctx context.Context, id string) (model.Invoice, error)
	Create(ctx context.Context, inv model.Invoice) error
	Update(ctx context.Context, id, customerID string, amount int64, status model.InvoiceStatus) error
	Delete(ctx context.Context, id string) (int64, error)
}

// RevenueStore reads the chart data.
type RevenueStore interface {
	List(ctx context.Context) ([]model.Revenue, error)
}

// ViewInvalidator drops cached renderings of a named view.
type ViewInvalidator interface {
	Invalidate(ctx context.Context, view string) error
}

// EventPublisher announces committed invoice mutations.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.InvoiceEvent) error
}

var (
	_ UserStore     = (*repository.UserRepo)(nil)
	_ CustomerStore = (*repository.CustomerRepo)(nil)
	_ InvoiceStore  = (*repository.InvoiceRepo)(nil)
	_ RevenueStore  = (*repository.RevenueRepo)(nil)
)
