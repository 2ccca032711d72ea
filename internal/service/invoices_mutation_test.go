package service

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/iliyamo/invoice-dashboard/internal/model"
	"github.com/iliyamo/invoice-dashboard/internal/queue"
	"github.com/iliyamo/invoice-dashboard/internal/validation"
)

var fixedNow = time.Date(2024, 3, 9, 22, 15, 0, 0, time.UTC)

type mutationFixture struct {
	db     *fakeDB
	views  *fakeViews
	events *fakeEvents
	svc    *InvoiceMutationService
	query  *InvoiceQueryService
}

func newMutation() mutationFixture {
	db := seededDB()
	views := &fakeViews{}
	events := &fakeEvents{}
	svc := NewInvoiceMutationService(db, views, events).
		WithClock(func() time.Time { return fixedNow }).
		WithIDGenerator(func() string { return "new-id" })
	return mutationFixture{db: db, views: views, events: events, svc: svc, query: newQuery(db, 5)}
}

func TestCreateInvoiceRoundTrip(t *testing.T) {
	f := newMutation()
	ctx := context.Background()

	res := f.svc.CreateInvoice(ctx, validation.InvoiceForm{CustomerID: "c3", Amount: "50.00", Status: "pending"})
	if res.Outcome != OutcomeOK || res.Errors != nil {
		t.Fatalf("CreateInvoice() = %+v", res)
	}
	if res.Redirect != InvoicesPath || res.ID != "new-id" {
		t.Errorf("result = %+v", res)
	}

	got, err := f.query.FetchInvoiceByID(ctx, "new-id")
	if err != nil {
		t.Fatal(err)
	}
	if got.Amount != 50.00 || got.Status != model.StatusPending || got.CustomerID != "c3" {
		t.Errorf("round trip = %+v", got)
	}

	stored, _ := f.db.GetByID(ctx, "new-id")
	if stored.Amount != 5000 || stored.Date != "2024-03-09" {
		t.Errorf("stored = %+v, want 5000 cents dated 2024-03-09", stored)
	}

	if !reflect.DeepEqual(f.views.calls, []string{InvoicesView, CustomersView}) {
		t.Errorf("invalidated views = %v", f.views.calls)
	}
	if len(f.events.events) != 1 {
		t.Fatalf("published %d events, want 1", len(f.events.events))
	}
	ev := f.events.events[0]
	if ev.Type != queue.InvoiceCreated || ev.InvoiceID != "new-id" || ev.AmountCents != 5000 || ev.OccurredAt != "2024-03-09T22:15:00Z" {
		t.Errorf("event = %+v", ev)
	}
}

func TestCreateInvoiceRejected(t *testing.T) {
	tests := []struct {
		name   string
		form   validation.InvoiceForm
		fields []string
	}{
		{"zero amount", validation.InvoiceForm{CustomerID: "c1", Amount: "0", Status: "pending"}, []string{"amount"}},
		{"negative amount", validation.InvoiceForm{CustomerID: "c1", Amount: "-5", Status: "paid"}, []string{"amount"}},
		{"non-numeric amount", validation.InvoiceForm{CustomerID: "c1", Amount: "abc", Status: "paid"}, []string{"amount"}},
		{"missing customer", validation.InvoiceForm{Amount: "10", Status: "paid"}, []string{"customer_id"}},
		{"bad status", validation.InvoiceForm{CustomerID: "c1", Amount: "10", Status: "overdue"}, []string{"status"}},
		{"sub-cent amount", validation.InvoiceForm{CustomerID: "c1", Amount: "0.004", Status: "pending"}, []string{"amount"}},
		{"amount past int64 cents", validation.InvoiceForm{CustomerID: "c1", Amount: "184467440737095516.17", Status: "pending"}, []string{"amount"}},
		{"amount past INT column", validation.InvoiceForm{CustomerID: "c1", Amount: "21474836.48", Status: "pending"}, []string{"amount"}},
		{"empty form", validation.InvoiceForm{}, []string{"customer_id", "amount", "status"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMutation()
			before := len(f.db.invoices)

			res := f.svc.CreateInvoice(context.Background(), tt.form)
			if res.Outcome != OutcomeRejected {
				t.Fatalf("outcome = %v, want rejected", res.Outcome)
			}
			if res.Message != "Missing Fields. Failed to Create Invoice." {
				t.Errorf("message = %q", res.Message)
			}
			if res.Redirect != "" {
				t.Errorf("redirect = %q on rejection", res.Redirect)
			}
			for _, field := range tt.fields {
				if len(res.Errors[field]) == 0 {
					t.Errorf("missing error for %s: %v", field, res.Errors)
				}
			}
			if len(f.db.invoices) != before {
				t.Error("rejected create wrote a row")
			}
			if len(f.views.calls) != 0 || len(f.events.events) != 0 {
				t.Error("rejected create invalidated or published")
			}
		})
	}
}

func TestCreateInvoiceStoreFailure(t *testing.T) {
	f := newMutation()
	f.db.failWrites = true

	res := f.svc.CreateInvoice(context.Background(), validation.InvoiceForm{CustomerID: "c1", Amount: "10", Status: "paid"})
	if res.Outcome != OutcomeFailed || res.Message != "Database Error: Failed to Create Invoice." {
		t.Errorf("result = %+v", res)
	}
	if res.Redirect != "" || len(f.views.calls) != 0 {
		t.Error("failed create navigated or invalidated")
	}
}

func TestCreateInvoiceRoundsToCents(t *testing.T) {
	f := newMutation()
	res := f.svc.CreateInvoice(context.Background(), validation.InvoiceForm{CustomerID: "c1", Amount: "10.005", Status: "paid"})
	if res.Outcome != OutcomeOK {
		t.Fatalf("result = %+v", res)
	}
	stored, _ := f.db.GetByID(context.Background(), "new-id")
	if stored.Amount != 1001 {
		t.Errorf("amount = %d cents, want 1001", stored.Amount)
	}
}

func TestUpdateInvoiceKeepsDate(t *testing.T) {
	f := newMutation()
	ctx := context.Background()
	before, _ := f.db.GetByID(ctx, "i1")

	res := f.svc.UpdateInvoice(ctx, "i1", validation.InvoiceForm{CustomerID: "c2", Amount: "30", Status: "paid"})
	if res.Outcome != OutcomeOK || res.Redirect != InvoicesPath {
		t.Fatalf("UpdateInvoice() = %+v", res)
	}

	after, _ := f.db.GetByID(ctx, "i1")
	if after.Date != before.Date {
		t.Errorf("date changed from %q to %q", before.Date, after.Date)
	}
	if after.CustomerID != "c2" || after.Amount != 3000 || after.Status != model.StatusPaid {
		t.Errorf("after = %+v", after)
	}
	if len(f.events.events) != 1 || f.events.events[0].Type != queue.InvoiceUpdated {
		t.Errorf("events = %+v", f.events.events)
	}
}

func TestUpdateInvoiceFailures(t *testing.T) {
	f := newMutation()
	ctx := context.Background()

	res := f.svc.UpdateInvoice(ctx, "i1", validation.InvoiceForm{CustomerID: "c2", Amount: "0", Status: "paid"})
	if res.Outcome != OutcomeRejected || res.Message != "Missing Fields. Failed to Update Invoice." {
		t.Errorf("rejected result = %+v", res)
	}

	res = f.svc.UpdateInvoice(ctx, "missing", validation.InvoiceForm{CustomerID: "c2", Amount: "10", Status: "paid"})
	if res.Outcome != OutcomeNotFound || res.Message != "Invoice Not Found." {
		t.Errorf("missing id result = %+v", res)
	}

	f.db.failWrites = true
	res = f.svc.UpdateInvoice(ctx, "i1", validation.InvoiceForm{CustomerID: "c2", Amount: "10", Status: "paid"})
	if res.Outcome != OutcomeFailed || res.Message != "Database Error: Failed to Update Invoice." {
		t.Errorf("store failure result = %+v", res)
	}
	if len(f.views.calls) != 0 {
		t.Errorf("invalidated on failure: %v", f.views.calls)
	}
}

func TestDeleteInvoice(t *testing.T) {
	f := newMutation()
	ctx := context.Background()

	res := f.svc.DeleteInvoice(ctx, "i2")
	if res.Message != "Deleted Invoice." || res.Outcome != OutcomeOK || res.Redirect != "" {
		t.Errorf("DeleteInvoice() = %+v", res)
	}
	if n, _ := f.db.Count(ctx); n != 6 {
		t.Errorf("count = %d, want 6", n)
	}

	// deleting an id that does not exist is still a success
	res = f.svc.DeleteInvoice(ctx, "nope")
	if res.Message != "Deleted Invoice." || res.Outcome != OutcomeOK {
		t.Errorf("DeleteInvoice(nonexistent) = %+v", res)
	}
	if n, _ := f.db.Count(ctx); n != 6 {
		t.Errorf("count = %d after deleting nonexistent id, want 6", n)
	}

	f.db.failWrites = true
	res = f.svc.DeleteInvoice(ctx, "i3")
	if res.Outcome != OutcomeFailed || res.Message != "Database Error: Failed to Delete Invoice." {
		t.Errorf("store failure = %+v", res)
	}
}

func TestAfterWriteFailuresAreNotSurfaced(t *testing.T) {
	f := newMutation()
	f.views.err = errBoom
	f.events.err = errBoom

	res := f.svc.CreateInvoice(context.Background(), validation.InvoiceForm{CustomerID: "c1", Amount: "1", Status: "paid"})
	if res.Outcome != OutcomeOK || res.Redirect != InvoicesPath {
		t.Errorf("result = %+v", res)
	}
}

func TestMutationWithoutCacheOrBroker(t *testing.T) {
	db := seededDB()
	svc := NewInvoiceMutationService(db, nil, nil)
	if res := svc.DeleteInvoice(context.Background(), "i1"); res.Outcome != OutcomeOK {
		t.Errorf("result = %+v", res)
	}
}
