package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/invoice-dashboard/internal/handler"
)

func TestRegister(t *testing.T) {
	e := echo.New()
	Register(e, Handlers{
		Auth:      &handler.AuthHandler{},
		Dashboard: &handler.DashboardHandler{},
		Invoices:  &handler.InvoiceHandler{},
		Customers: &handler.CustomerHandler{},
	}, Middleware{JWTSecret: "secret"})

	registered := map[string]bool{}
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /healthz",
		"POST /v1/auth/login",
		"GET /v1/me",
		"GET /v1/dashboard/cards",
		"GET /v1/dashboard/revenue",
		"GET /v1/dashboard/latest-invoices",
		"GET /v1/invoices",
		"POST /v1/invoices",
		"GET /v1/invoices/:id/edit",
		"PUT /v1/invoices/:id",
		"DELETE /v1/invoices/:id",
		"GET /v1/customers",
		"GET /v1/customers/search",
	} {
		if !registered[want] {
			t.Errorf("route %s not registered", want)
		}
	}
}

func TestDashboardRequiresToken(t *testing.T) {
	e := echo.New()
	Register(e, Handlers{
		Auth:      &handler.AuthHandler{},
		Dashboard: &handler.DashboardHandler{},
		Invoices:  &handler.InvoiceHandler{},
		Customers: &handler.CustomerHandler{},
	}, Middleware{JWTSecret: "secret"})

	for _, target := range []string{"/v1/dashboard/cards", "/v1/invoices", "/v1/customers/search"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token = %d, want 401", target, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d, want 200", rec.Code)
	}
}
