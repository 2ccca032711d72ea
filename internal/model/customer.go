package model

// Customer represents a row in the `customers` table.  Customers are
// created outside this service and are referenced by invoices through
// their immutable ID.
type Customer struct {
    ID       string `json:"id"`        // customers.id
    Name     string `json:"name"`      // customers.name
    Email    string `json:"email"`     // customers.email
    ImageURL string `json:"image_url"` // customers.image_url
}

// CustomerField is the minimal projection used to populate selection
// controls (id + name only).
type CustomerField struct {
    ID   string `json:"id"`
    Name string `json:"name"`
}

// CustomerSummary is a customer joined with aggregated invoice totals.
// TotalPending and TotalPaid are already formatted as currency strings.
type CustomerSummary struct {
    ID            string `json:"id"`
    Name          string `json:"name"`
    Email         string `json:"email"`
    ImageURL      string `json:"image_url"`
    TotalInvoices int64  `json:"total_invoices"`
    TotalPending  string `json:"total_pending"`
    TotalPaid     string `json:"total_paid"`
}
