package service

import (
	"context"

	"github.com/iliyamo/invoice-dashboard/internal/logging"
	"github.com/iliyamo/invoice-dashboard/internal/model"
	"github.com/iliyamo/invoice-dashboard/internal/money"
)

// CustomerService answers the read-only customer queries.
type CustomerService struct {
	customers CustomerStore
}

func NewCustomerService(customers CustomerStore) *CustomerService {
	return &CustomerService{customers: customers}
}

// ListCustomers returns every customer's id and name sorted by name.
func (s *CustomerService) ListCustomers(ctx context.Context) ([]model.CustomerField, error) {
	out, err := s.customers.ListFields(ctx)
	if err != nil {
		return nil, fetchFailed("customers", "customers", err)
	}
	return out, nil
}

// ListFilteredCustomers returns customers matching query on name or email
// together with invoice counts and formatted per-status totals.
func (s *CustomerService) ListFilteredCustomers(ctx context.Context, query string) ([]model.CustomerSummary, error) {
	rows, err := s.customers.ListFiltered(ctx, query)
	if err != nil {
		return nil, fetchFailed("customers", "customers", err)
	}
	out := make([]model.CustomerSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.CustomerSummary{
			ID:            r.ID,
			Name:          r.Name,
			Email:         r.Email,
			ImageURL:      r.ImageURL,
			TotalInvoices: r.TotalInvoices,
			TotalPending:  money.FormatCurrency(r.TotalPending),
			TotalPaid:     money.FormatCurrency(r.TotalPaid),
		})
	}
	return out, nil
}

// fetchFailed logs a query failure and hides it behind a FetchError.
func fetchFailed(component, what string, err error) error {
	log := logging.With(component)
	log.Error().Err(err).Str("query", what).Msg("database error")
	return &FetchError{What: what, Err: err}
}
