package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/iliyamo/invoice-dashboard/internal/model"
	"github.com/iliyamo/invoice-dashboard/internal/queue"
	"github.com/iliyamo/invoice-dashboard/internal/repository"
)

var errBoom = errors.New("connection refused")

type fakeUsers struct {
	users map[string]model.User
	err   error
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	if f.err != nil {
		return model.User{}, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

// fakeDB is an in-memory customers + invoices store.
type fakeDB struct {
	mu        sync.Mutex
	customers []model.Customer
	invoices  []model.Invoice
	revenue   []model.Revenue

	failCount  bool
	failTotals bool
	failWrites bool
	failReads  bool
}

func (f *fakeDB) customer(id string) model.Customer {
	for _, c := range f.customers {
		if c.ID == id {
			return c
		}
	}
	return model.Customer{}
}

func (f *fakeDB) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCount {
		return 0, errBoom
	}
	return int64(len(f.invoices)), nil
}

func (f *fakeDB) Totals(context.Context) (model.InvoiceTotals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTotals {
		return model.InvoiceTotals{}, errBoom
	}
	var t model.InvoiceTotals
	for _, inv := range f.invoices {
		switch inv.Status {
		case model.StatusPaid:
			t.Paid += inv.Amount
		case model.StatusPending:
			t.Pending += inv.Amount
		}
	}
	return t, nil
}

func (f *fakeDB) sorted() []model.Invoice {
	out := append([]model.Invoice(nil), f.invoices...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (f *fakeDB) Latest(_ context.Context, limit int) ([]repository.LatestRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads {
		return nil, errBoom
	}
	var out []repository.LatestRow
	for _, inv := range f.sorted() {
		if len(out) == limit {
			break
		}
		c := f.customer(inv.CustomerID)
		out = append(out, repository.LatestRow{ID: inv.ID, Amount: inv.Amount, Name: c.Name, Email: c.Email, ImageURL: c.ImageURL})
	}
	return out, nil
}

func (f *fakeDB) matches(query string) []model.InvoiceRow {
	q := strings.ToLower(query)
	var out []model.InvoiceRow
	for _, inv := range f.sorted() {
		c := f.customer(inv.CustomerID)
		hay := strings.ToLower(strings.Join([]string{c.Name, c.Email, string(inv.Status)}, "\x00"))
		if strings.Contains(hay, q) {
			out = append(out, model.InvoiceRow{ID: inv.ID, Amount: inv.Amount, Name: c.Name, Email: c.Email,
				ImageURL: c.ImageURL, Status: inv.Status, Date: inv.Date})
		}
	}
	return out
}

func (f *fakeDB) ListFiltered(_ context.Context, query string, limit, offset int) ([]model.InvoiceRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads {
		return nil, errBoom
	}
	all := f.matches(query)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeDB) CountFiltered(_ context.Context, query string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads {
		return 0, errBoom
	}
	return int64(len(f.matches(query))), nil
}

func (f *fakeDB) GetByID(_ context.Context, id string) (model.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads {
		return model.Invoice{}, errBoom
	}
	for _, inv := range f.invoices {
		if inv.ID == id {
			return inv, nil
		}
	}
	return model.Invoice{}, repository.ErrNotFound
}

func (f *fakeDB) Create(_ context.Context, inv model.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errBoom
	}
	f.invoices = append(f.invoices, inv)
	return nil
}

func (f *fakeDB) Update(_ context.Context, id, customerID string, amount int64, status model.InvoiceStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errBoom
	}
	for i := range f.invoices {
		if f.invoices[i].ID == id {
			f.invoices[i].CustomerID = customerID
			f.invoices[i].Amount = amount
			f.invoices[i].Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeDB) Delete(_ context.Context, id string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return 0, errBoom
	}
	for i := range f.invoices {
		if f.invoices[i].ID == id {
			f.invoices = append(f.invoices[:i], f.invoices[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// customer side

type fakeCustomers struct{ db *fakeDB }

func (f fakeCustomers) ListFields(context.Context) ([]model.CustomerField, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.failReads {
		return nil, errBoom
	}
	out := make([]model.CustomerField, 0, len(f.db.customers))
	for _, c := range f.db.customers {
		out = append(out, model.CustomerField{ID: c.ID, Name: c.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeCustomers) ListFiltered(_ context.Context, query string) ([]repository.CustomerTotals, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.failReads {
		return nil, errBoom
	}
	q := strings.ToLower(query)
	var out []repository.CustomerTotals
	for _, c := range f.db.customers {
		if !strings.Contains(strings.ToLower(c.Name), q) && !strings.Contains(strings.ToLower(c.Email), q) {
			continue
		}
		row := repository.CustomerTotals{Customer: c}
		for _, inv := range f.db.invoices {
			if inv.CustomerID != c.ID {
				continue
			}
			row.TotalInvoices++
			switch inv.Status {
			case model.StatusPaid:
				row.TotalPaid += inv.Amount
			case model.StatusPending:
				row.TotalPending += inv.Amount
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (f fakeCustomers) Count(context.Context) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.failCount {
		return 0, errBoom
	}
	return int64(len(f.db.customers)), nil
}

type fakeRevenue struct {
	rows []model.Revenue
	err  error
}

func (f fakeRevenue) List(context.Context) ([]model.Revenue, error) { return f.rows, f.err }

type fakeViews struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeViews) Invalidate(_ context.Context, view string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, view)
	return f.err
}

type fakeEvents struct {
	mu     sync.Mutex
	events []queue.InvoiceEvent
	err    error
}

func (f *fakeEvents) Publish(_ context.Context, ev queue.InvoiceEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return f.err
}

func seededDB() *fakeDB {
	return &fakeDB{
		customers: []model.Customer{
			{ID: "c1", Name: "Evil Rabbit", Email: "evil@rabbit.com", ImageURL: "/customers/evil-rabbit.png"},
			{ID: "c2", Name: "Delba de Oliveira", Email: "delba@oliveira.com", ImageURL: "/customers/delba.png"},
			{ID: "c3", Name: "Lee Robinson", Email: "lee@robinson.com", ImageURL: "/customers/lee.png"},
		},
		invoices: []model.Invoice{
			{ID: "i1", CustomerID: "c1", Amount: 15795, Status: model.StatusPending, Date: "2022-12-06"},
			{ID: "i2", CustomerID: "c2", Amount: 20348, Status: model.StatusPending, Date: "2022-11-14"},
			{ID: "i3", CustomerID: "c1", Amount: 3040, Status: model.StatusPaid, Date: "2022-10-29"},
			{ID: "i4", CustomerID: "c2", Amount: 44800, Status: model.StatusPaid, Date: "2023-09-10"},
			{ID: "i5", CustomerID: "c1", Amount: 34577, Status: model.StatusPending, Date: "2023-08-05"},
			{ID: "i6", CustomerID: "c2", Amount: 54246, Status: model.StatusPending, Date: "2023-07-16"},
			{ID: "i7", CustomerID: "c1", Amount: 666, Status: model.StatusPending, Date: "2023-06-27"},
		},
	}
}
