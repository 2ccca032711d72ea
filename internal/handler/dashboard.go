package handler

import (
    "context"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/invoice-dashboard/internal/model"
    "github.com/iliyamo/invoice-dashboard/internal/service"
)

// InvoiceQueries is the read side used by the dashboard and invoice pages.
type InvoiceQueries interface {
    FetchCardData(ctx context.Context) (model.CardData, error)
    FetchRevenue(ctx context.Context) ([]model.Revenue, error)
    FetchLatestInvoices(ctx context.Context) ([]model.LatestInvoice, error)
    FetchFilteredInvoices(ctx context.Context, query string, page int) ([]model.InvoiceRow, error)
    FetchInvoicesPages(ctx context.Context, query string) (int, error)
    FetchEditInvoice(ctx context.Context, id string) (service.EditInvoiceView, error)
}

// DashboardHandler serves the overview cards and charts.
type DashboardHandler struct {
    Invoices InvoiceQueries
}

func NewDashboardHandler(q InvoiceQueries) *DashboardHandler {
    return &DashboardHandler{Invoices: q}
}

func (h *DashboardHandler) Cards(c echo.Context) error {
    ctx, cancel := requestCtx(c)
    defer cancel()
    data, err := h.Invoices.FetchCardData(ctx)
    if err != nil {
        return queryFailed(c, err)
    }
    return c.JSON(http.StatusOK, data)
}

func (h *DashboardHandler) Revenue(c echo.Context) error {
    ctx, cancel := requestCtx(c)
    defer cancel()
    rows, err := h.Invoices.FetchRevenue(ctx)
    if err != nil {
        return queryFailed(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

func (h *DashboardHandler) LatestInvoices(c echo.Context) error {
    ctx, cancel := requestCtx(c)
    defer cancel()
    rows, err := h.Invoices.FetchLatestInvoices(ctx)
    if err != nil {
        return queryFailed(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
