// Package queue defines the invoice events exchanged over RabbitMQ, the
// publisher used by the mutation service and the audit-log consumer.
package queue

// Invoice event types.
const (
    InvoiceCreated = "invoice.created"
    InvoiceUpdated = "invoice.updated"
    InvoiceDeleted = "invoice.deleted"
)

// DefaultQueue is used when INVOICE_EVENTS_QUEUE is unset.
const DefaultQueue = "invoice.events"

// InvoiceEvent is published after an invoice mutation has been committed.
// Delete events only carry the invoice id.
type InvoiceEvent struct {
    Type        string `json:"type"`
    InvoiceID   string `json:"invoice_id"`
    CustomerID  string `json:"customer_id,omitempty"`
    AmountCents int64  `json:"amount_cents,omitempty"`
    Status      string `json:"status,omitempty"`
    OccurredAt  string `json:"occurred_at"`
}
