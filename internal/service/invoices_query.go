package service

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/invoice-dashboard/internal/model"
	"github.com/iliyamo/invoice-dashboard/internal/money"
	"github.com/iliyamo/invoice-dashboard/internal/repository"
)

// LatestInvoicesLimit caps the dashboard's latest-invoices card.
const LatestInvoicesLimit = 5

// InvoiceQueryService answers the dashboard and listing reads.
type InvoiceQueryService struct {
	invoices     InvoiceStore
	customers    CustomerStore
	revenue      RevenueStore
	itemsPerPage int
}

func NewInvoiceQueryService(invoices InvoiceStore, customers CustomerStore, revenue RevenueStore, itemsPerPage int) *InvoiceQueryService {
	if itemsPerPage <= 0 {
		itemsPerPage = 5
	}
	return &InvoiceQueryService{
		invoices:     invoices,
		customers:    customers,
		revenue:      revenue,
		itemsPerPage: itemsPerPage,
	}
}

// FetchCardData runs the three aggregate queries concurrently.  The first
// failure cancels the others and no partial data is returned.
func (s *InvoiceQueryService) FetchCardData(ctx context.Context) (model.CardData, error) {
	var (
		invoiceCount  int64
		customerCount int64
		totals        model.InvoiceTotals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.invoices.Count(gctx)
		invoiceCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.customers.Count(gctx)
		customerCount = n
		return err
	})
	g.Go(func() error {
		t, err := s.invoices.Totals(gctx)
		totals = t
		return err
	})
	if err := g.Wait(); err != nil {
		return model.CardData{}, fetchFailed("invoices", "card data", err)
	}
	return model.CardData{
		NumberOfInvoices:     invoiceCount,
		NumberOfCustomers:    customerCount,
		TotalPaidInvoices:    money.FormatCurrency(totals.Paid),
		TotalPendingInvoices: money.FormatCurrency(totals.Pending),
	}, nil
}

// FetchRevenue returns the monthly revenue rows for the chart.
func (s *InvoiceQueryService) FetchRevenue(ctx context.Context) ([]model.Revenue, error) {
	out, err := s.revenue.List(ctx)
	if err != nil {
		return nil, fetchFailed("invoices", "revenue data", err)
	}
	return out, nil
}

// FetchLatestInvoices returns at most LatestInvoicesLimit invoices, newest
// first, with amounts formatted as currency.
func (s *InvoiceQueryService) FetchLatestInvoices(ctx context.Context) ([]model.LatestInvoice, error) {
	rows, err := s.invoices.Latest(ctx, LatestInvoicesLimit)
	if err != nil {
		return nil, fetchFailed("invoices", "the latest invoices", err)
	}
	out := make([]model.LatestInvoice, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.LatestInvoice{
			ID:       r.ID,
			Amount:   money.FormatCurrency(r.Amount),
			Name:     r.Name,
			Email:    r.Email,
			ImageURL: r.ImageURL,
		})
	}
	return out, nil
}

// FetchFilteredInvoices returns one page of invoices whose customer name,
// customer email or status contains query, case-insensitively.  Amount and
// date are not searched.  page is 1-based and is not clamped here.  Each
// row carries its display status label.
func (s *InvoiceQueryService) FetchFilteredInvoices(ctx context.Context, query string, page int) ([]model.InvoiceRow, error) {
	offset := (page - 1) * s.itemsPerPage
	rows, err := s.invoices.ListFiltered(ctx, query, s.itemsPerPage, offset)
	if err != nil {
		return nil, fetchFailed("invoices", "invoices", err)
	}
	for i := range rows {
		rows[i].StatusLabel = rows[i].Status.Label()
	}
	return rows, nil
}

// FetchInvoicesPages returns how many pages the filtered listing spans.
func (s *InvoiceQueryService) FetchInvoicesPages(ctx context.Context, query string) (int, error) {
	n, err := s.invoices.CountFiltered(ctx, query)
	if err != nil {
		return 0, fetchFailed("invoices", "total number of invoices", err)
	}
	per := int64(s.itemsPerPage)
	return int((n + per - 1) / per), nil
}

// FetchInvoiceByID returns the invoice shaped for the edit form.  A missing
// row yields ErrNotFound.
func (s *InvoiceQueryService) FetchInvoiceByID(ctx context.Context, id string) (model.InvoiceForm, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.InvoiceForm{}, ErrNotFound
		}
		return model.InvoiceForm{}, fetchFailed("invoices", "invoice", err)
	}
	return model.InvoiceForm{
		ID:         inv.ID,
		CustomerID: inv.CustomerID,
		Amount:     money.FromCents(inv.Amount),
		// stored values other than "paid" are reported as pending
		Status: model.NormalizeStatus(string(inv.Status)),
	}, nil
}

// EditInvoiceView is what the edit form needs: the invoice and every
// selectable customer.
type EditInvoiceView struct {
	Invoice   model.InvoiceForm     `json:"invoice"`
	Customers []model.CustomerField `json:"customers"`
}

// FetchEditInvoice loads the invoice and the customer list concurrently.
func (s *InvoiceQueryService) FetchEditInvoice(ctx context.Context, id string) (EditInvoiceView, error) {
	var view EditInvoiceView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		inv, err := s.FetchInvoiceByID(gctx, id)
		view.Invoice = inv
		return err
	})
	g.Go(func() error {
		cs, err := s.customers.ListFields(gctx)
		if err != nil {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			return fetchFailed("customers", "customers", err)
		}
		view.Customers = cs
		return nil
	})
	if err := g.Wait(); err != nil {
		return EditInvoiceView{}, err
	}
	return view, nil
}
