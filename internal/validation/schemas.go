package validation

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/invoice-dashboard/internal/money"
)

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// InvoiceForm is raw create/update input as submitted by a form.  Amount
// is kept as text so non-numeric input can be reported as a field error.
type InvoiceForm struct {
	CustomerID string `json:"customer_id" form:"customerId"`
	Amount     string `json:"amount" form:"amount"`
	Status     string `json:"status" form:"status"`
}

// InvoiceInput is a coerced InvoiceForm.
type InvoiceInput struct {
	CustomerID string  `json:"customer_id" validate:"required"`
	Amount     float64 `json:"amount" validate:"gt=0"`
	Status     string  `json:"status" validate:"required,oneof=pending paid"`

	amount decimal.Decimal
	cents  int64
}

// Decimal returns the amount exactly as entered.
func (in InvoiceInput) Decimal() decimal.Decimal { return in.amount }

// Cents returns the amount in cents, always within [1, money.MaxCents].
func (in InvoiceInput) Cents() int64 { return in.cents }

const (
	amountTooSmallMsg = "Please enter an amount greater than $0."
	amountTooLargeMsg = "Please enter an amount no greater than $21,474,836.47."
)

// ValidateInvoice coerces and validates f.  On success the returned input
// carries the parsed amount.
func ValidateInvoice(f InvoiceForm) (InvoiceInput, *Error) {
	in := InvoiceInput{
		CustomerID: strings.TrimSpace(f.CustomerID),
		Status:     strings.TrimSpace(f.Status),
	}
	// amountMsg replaces whatever the struct rules said about amount: the
	// stored value is the cent count, so that is what must be in range.
	amountMsg := ""
	if d, err := money.ParseAmount(f.Amount); err == nil {
		in.amount = d
		in.Amount = d.InexactFloat64()
		cents, err := money.ToCents(d)
		switch {
		case errors.Is(err, money.ErrAmountTooLarge):
			amountMsg = amountTooLargeMsg
		case err != nil:
			amountMsg = amountTooSmallMsg
		default:
			in.cents = cents
		}
	} else {
		amountMsg = amountTooSmallMsg
	}

	verr := ValidateStruct(&in)
	if amountMsg != "" {
		if verr == nil {
			verr = &Error{}
		}
		delete(verr.Fields, "amount")
		verr.Add("amount", amountMsg)
	}
	if verr != nil {
		return InvoiceInput{}, verr
	}
	return in, nil
}
