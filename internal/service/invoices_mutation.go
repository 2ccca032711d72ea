package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/invoice-dashboard/internal/logging"
	"github.com/iliyamo/invoice-dashboard/internal/model"
	"github.com/iliyamo/invoice-dashboard/internal/queue"
	"github.com/iliyamo/invoice-dashboard/internal/repository"
	"github.com/iliyamo/invoice-dashboard/internal/validation"
)

// View names invalidated after a successful invoice mutation.  The
// customer summary carries invoice totals, so it goes stale too.
const (
	InvoicesView  = "invoices"
	CustomersView = "customers"
)

// InvoicesPath is where the client navigates after create and update.
const InvoicesPath = "/dashboard/invoices"

// Outcome classifies a mutation Result.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeRejected
	OutcomeFailed
	OutcomeNotFound
)

// Result is what every mutation returns.  Validation and store failures
// are reported here instead of as Go errors.
type Result struct {
	Message  string              `json:"message,omitempty"`
	Errors   map[string][]string `json:"errors,omitempty"`
	Redirect string              `json:"redirect,omitempty"`
	ID       string              `json:"id,omitempty"`
	Outcome  Outcome             `json:"-"`
}

// InvoiceMutationService creates, updates and deletes invoices.
type InvoiceMutationService struct {
	invoices InvoiceStore
	views    ViewInvalidator
	events   EventPublisher
	now      func() time.Time
	newID    func() string
}

// NewInvoiceMutationService wires the service.  views and events may be
// nil when the cache or broker is not configured.
func NewInvoiceMutationService(invoices InvoiceStore, views ViewInvalidator, events EventPublisher) *InvoiceMutationService {
	return &InvoiceMutationService{
		invoices: invoices,
		views:    views,
		events:   events,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// WithClock replaces the clock used to stamp new invoices.
func (s *InvoiceMutationService) WithClock(now func() time.Time) *InvoiceMutationService {
	s.now = now
	return s
}

// WithIDGenerator replaces the invoice id generator.
func (s *InvoiceMutationService) WithIDGenerator(gen func() string) *InvoiceMutationService {
	s.newID = gen
	return s
}

// CreateInvoice validates form, inserts a pending or paid invoice dated
// today and invalidates the listing.
func (s *InvoiceMutationService) CreateInvoice(ctx context.Context, form validation.InvoiceForm) Result {
	in, verr := validation.ValidateInvoice(form)
	if verr != nil {
		return Result{
			Message: "Missing Fields. Failed to Create Invoice.",
			Errors:  verr.Fields,
			Outcome: OutcomeRejected,
		}
	}

	inv := model.Invoice{
		ID:         s.newID(),
		CustomerID: in.CustomerID,
		Amount:     in.Cents(),
		Status:     model.InvoiceStatus(in.Status),
		Date:       s.now().Format(model.DateLayout),
	}
	if err := s.invoices.Create(ctx, inv); err != nil {
		log := logging.With("invoices")
		log.Error().Err(err).Str("op", "create").Msg("database error")
		return Result{Message: "Database Error: Failed to Create Invoice.", Outcome: OutcomeFailed}
	}

	s.afterWrite(ctx, queue.InvoiceEvent{
		Type:        queue.InvoiceCreated,
		InvoiceID:   inv.ID,
		CustomerID:  inv.CustomerID,
		AmountCents: inv.Amount,
		Status:      string(inv.Status),
	})
	return Result{ID: inv.ID, Redirect: InvoicesPath}
}

// UpdateInvoice validates form and overwrites customer, amount and status
// of invoice id.  The date is left untouched.  An unknown id yields
// OutcomeNotFound.
func (s *InvoiceMutationService) UpdateInvoice(ctx context.Context, id string, form validation.InvoiceForm) Result {
	in, verr := validation.ValidateInvoice(form)
	if verr != nil {
		return Result{
			Message: "Missing Fields. Failed to Update Invoice.",
			Errors:  verr.Fields,
			Outcome: OutcomeRejected,
		}
	}

	amount := in.Cents()
	if err := s.invoices.Update(ctx, id, in.CustomerID, amount, model.InvoiceStatus(in.Status)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Result{Message: "Invoice Not Found.", Outcome: OutcomeNotFound}
		}
		log := logging.With("invoices")
		log.Error().Err(err).Str("op", "update").Str("invoice_id", id).Msg("database error")
		return Result{Message: "Database Error: Failed to Update Invoice.", Outcome: OutcomeFailed}
	}

	s.afterWrite(ctx, queue.InvoiceEvent{
		Type:        queue.InvoiceUpdated,
		InvoiceID:   id,
		CustomerID:  in.CustomerID,
		AmountCents: amount,
		Status:      in.Status,
	})
	return Result{ID: id, Redirect: InvoicesPath}
}

// DeleteInvoice removes invoice id.  Deleting an id that does not exist
// succeeds.
func (s *InvoiceMutationService) DeleteInvoice(ctx context.Context, id string) Result {
	if _, err := s.invoices.Delete(ctx, id); err != nil {
		log := logging.With("invoices")
		log.Error().Err(err).Str("op", "delete").Str("invoice_id", id).Msg("database error")
		return Result{Message: "Database Error: Failed to Delete Invoice.", Outcome: OutcomeFailed}
	}
	s.afterWrite(ctx, queue.InvoiceEvent{Type: queue.InvoiceDeleted, InvoiceID: id})
	return Result{Message: "Deleted Invoice."}
}

// afterWrite invalidates cached views and announces ev.  Failures are
// logged only: the write has already been committed.
func (s *InvoiceMutationService) afterWrite(ctx context.Context, ev queue.InvoiceEvent) {
	log := logging.With("invoices")
	if s.views != nil {
		for _, view := range []string{InvoicesView, CustomersView} {
			if err := s.views.Invalidate(ctx, view); err != nil {
				log.Warn().Err(err).Str("view", view).Msg("view invalidation failed")
			}
		}
	}
	if s.events != nil {
		ev.OccurredAt = s.now().UTC().Format(time.RFC3339)
		if err := s.events.Publish(ctx, ev); err != nil {
			log.Warn().Err(err).Str("event", ev.Type).Msg("publish failed")
		}
	}
}
