package model

import "strings"

// InvoiceStatus is the lifecycle state of an invoice.  Only two values
// are valid: StatusPending and StatusPaid.
type InvoiceStatus string

const (
    StatusPending InvoiceStatus = "pending"
    StatusPaid    InvoiceStatus = "paid"
)

// DateLayout is the calendar date format stored in invoices.date.
const DateLayout = "2006-01-02"

// NormalizeStatus collapses any stored value other than "paid" to
// "pending".  Unexpected values in the table are therefore reported as
// pending rather than rejected.
func NormalizeStatus(raw string) InvoiceStatus {
    if raw == string(StatusPaid) {
        return StatusPaid
    }
    return StatusPending
}

// Label returns the status with its first letter upper-cased, e.g. "Paid".
func (s InvoiceStatus) Label() string {
    if s == "" {
        return ""
    }
    return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Invoice mirrors the `invoices` table.  Amount is stored in cents and
// Date is the ISO calendar date (YYYY-MM-DD) set at creation time.
type Invoice struct {
    ID         string        `json:"id"`          // invoices.id
    CustomerID string        `json:"customer_id"` // invoices.customer_id (references customers.id)
    Amount     int64         `json:"amount"`      // invoices.amount in cents
    Status     InvoiceStatus `json:"status"`      // invoices.status
    Date       string        `json:"date"`        // invoices.date
}

// InvoiceRow is an invoice joined with its customer for the paginated
// listing.  Amount stays in cents; formatting is left to the client.
// StatusLabel is filled by the service, not scanned.
type InvoiceRow struct {
    ID          string        `json:"id"`
    Amount      int64         `json:"amount"`
    Name        string        `json:"name"`
    Email       string        `json:"email"`
    ImageURL    string        `json:"image_url"`
    Status      InvoiceStatus `json:"status"`
    StatusLabel string        `json:"status_label"`
    Date        string        `json:"date"`
}

// LatestInvoice is one entry of the dashboard's "latest invoices" card.
// Amount is already formatted as currency.
type LatestInvoice struct {
    ID       string `json:"id"`
    Amount   string `json:"amount"`
    Name     string `json:"name"`
    Email    string `json:"email"`
    ImageURL string `json:"image_url"`
}

// InvoiceForm is the shape used to pre-fill the edit form: amount in
// major units (dollars) and a normalized status.
type InvoiceForm struct {
    ID         string        `json:"id"`
    CustomerID string        `json:"customer_id"`
    Amount     float64       `json:"amount"`
    Status     InvoiceStatus `json:"status"`
}

// InvoiceTotals holds the cents sums of paid and pending invoices.
type InvoiceTotals struct {
    Paid    int64
    Pending int64
}

// CardData is the dashboard summary: counts plus formatted totals.
type CardData struct {
    NumberOfInvoices     int64  `json:"number_of_invoices"`
    NumberOfCustomers    int64  `json:"number_of_customers"`
    TotalPaidInvoices    string `json:"total_paid_invoices"`
    TotalPendingInvoices string `json:"total_pending_invoices"`
}
