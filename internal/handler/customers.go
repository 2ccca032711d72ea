package handler

import (
    "context"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/invoice-dashboard/internal/model"
)

// CustomerQueries is the customer read side.
type CustomerQueries interface {
    ListCustomers(ctx context.Context) ([]model.CustomerField, error)
    ListFilteredCustomers(ctx context.Context, query string) ([]model.CustomerSummary, error)
}

type CustomerHandler struct {
    Customers CustomerQueries
}

func NewCustomerHandler(q CustomerQueries) *CustomerHandler {
    return &CustomerHandler{Customers: q}
}

// List returns id and name of every customer for selection controls.
func (h *CustomerHandler) List(c echo.Context) error {
    ctx, cancel := requestCtx(c)
    defer cancel()
    rows, err := h.Customers.ListCustomers(ctx)
    if err != nil {
        return queryFailed(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// Search returns customers with invoice totals matching ?query=.
func (h *CustomerHandler) Search(c echo.Context) error {
    ctx, cancel := requestCtx(c)
    defer cancel()
    rows, err := h.Customers.ListFilteredCustomers(ctx, strings.TrimSpace(c.QueryParam("query")))
    if err != nil {
        return queryFailed(c, err)
    }
    if rows == nil {
        rows = []model.CustomerSummary{}
    }
    return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
