package handler

import (
    "context"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/invoice-dashboard/internal/model"
    "github.com/iliyamo/invoice-dashboard/internal/pagination"
    "github.com/iliyamo/invoice-dashboard/internal/service"
    "github.com/iliyamo/invoice-dashboard/internal/validation"
)

// InvoiceMutations is the write side of the invoice pages.
type InvoiceMutations interface {
    CreateInvoice(ctx context.Context, form validation.InvoiceForm) service.Result
    UpdateInvoice(ctx context.Context, id string, form validation.InvoiceForm) service.Result
    DeleteInvoice(ctx context.Context, id string) service.Result
}

// InvoiceHandler serves listing, edit and mutation endpoints.
type InvoiceHandler struct {
    Queries   InvoiceQueries
    Mutations InvoiceMutations
}

func NewInvoiceHandler(q InvoiceQueries, m InvoiceMutations) *InvoiceHandler {
    return &InvoiceHandler{Queries: q, Mutations: m}
}

type invoiceReq struct {
    CustomerID string      `json:"customer_id" form:"customerId"`
    Amount     amountField `json:"amount" form:"amount"`
    Status     string      `json:"status" form:"status"`
}

func (r invoiceReq) form() validation.InvoiceForm {
    return validation.InvoiceForm{CustomerID: r.CustomerID, Amount: string(r.Amount), Status: r.Status}
}

type listResp struct {
    Data       []model.InvoiceRow `json:"data"`
    Page       int                `json:"page"`
    TotalPages int                `json:"total_pages"`
    Pages      []string           `json:"pages"`
}

// List returns one page of invoices matching ?query=.  A missing or
// invalid ?page= is treated as page 1.
func (h *InvoiceHandler) List(c echo.Context) error {
    query := strings.TrimSpace(c.QueryParam("query"))
    page := pagination.ParsePage(c.QueryParam("page"))

    ctx, cancel := requestCtx(c)
    defer cancel()

    total, err := h.Queries.FetchInvoicesPages(ctx, query)
    if err != nil {
        return queryFailed(c, err)
    }
    rows, err := h.Queries.FetchFilteredInvoices(ctx, query, page)
    if err != nil {
        return queryFailed(c, err)
    }
    if rows == nil {
        rows = []model.InvoiceRow{}
    }
    return c.JSON(http.StatusOK, listResp{
        Data:       rows,
        Page:       page,
        TotalPages: total,
        Pages:      pagination.Generate(page, total),
    })
}

// Edit returns the invoice and the customer list for the edit form.
func (h *InvoiceHandler) Edit(c echo.Context) error {
    ctx, cancel := requestCtx(c)
    defer cancel()
    view, err := h.Queries.FetchEditInvoice(ctx, c.Param("id"))
    if err != nil {
        return queryFailed(c, err)
    }
    return c.JSON(http.StatusOK, view)
}

func (h *InvoiceHandler) Create(c echo.Context) error {
    var req invoiceReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    ctx, cancel := requestCtx(c)
    defer cancel()
    return writeResult(c, http.StatusCreated, h.Mutations.CreateInvoice(ctx, req.form()))
}

func (h *InvoiceHandler) Update(c echo.Context) error {
    var req invoiceReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    ctx, cancel := requestCtx(c)
    defer cancel()
    return writeResult(c, http.StatusOK, h.Mutations.UpdateInvoice(ctx, c.Param("id"), req.form()))
}

func (h *InvoiceHandler) Delete(c echo.Context) error {
    ctx, cancel := requestCtx(c)
    defer cancel()
    return writeResult(c, http.StatusOK, h.Mutations.DeleteInvoice(ctx, c.Param("id")))
}
