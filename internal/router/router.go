package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/invoice-dashboard/internal/handler"
	"github.com/iliyamo/invoice-dashboard/internal/middleware"
	"github.com/iliyamo/invoice-dashboard/internal/service"
)

// Handlers groups everything the routes dispatch to.
type Handlers struct {
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
	Invoices  *handler.InvoiceHandler
	Customers *handler.CustomerHandler
}

// Middleware groups the shared middleware instances.
type Middleware struct {
	JWTSecret  string
	Cache      *middleware.ViewCache
	LoginLimit echo.MiddlewareFunc
}

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	// load balancers and monitoring probe this
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers login under /v1/auth and the session lookup
// under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, mw Middleware) {
	g := e.Group("/v1/auth")
	if mw.LoginLimit != nil {
		g.POST("/login", a.Login, mw.LoginLimit)
	} else {
		g.POST("/login", a.Login)
	}

	auth := e.Group("/v1", middleware.JWTAuth(mw.JWTSecret))
	auth.GET("/me", a.Me)
}

// RegisterDashboard registers every dashboard endpoint behind JWTAuth.
// The invoice listing and the customer search are served through the view
// cache and dropped by the mutation service after each write.
func RegisterDashboard(e *echo.Echo, h Handlers, mw Middleware) {
	v1 := e.Group("/v1", middleware.JWTAuth(mw.JWTSecret))

	d := v1.Group("/dashboard")
	d.GET("/cards", h.Dashboard.Cards)
	d.GET("/revenue", h.Dashboard.Revenue)
	d.GET("/latest-invoices", h.Dashboard.LatestInvoices)

	inv := v1.Group("/invoices")
	inv.GET("", h.Invoices.List, mw.Cache.Middleware(service.InvoicesView))
	inv.POST("", h.Invoices.Create)
	inv.GET("/:id/edit", h.Invoices.Edit)
	inv.PUT("/:id", h.Invoices.Update)
	inv.DELETE("/:id", h.Invoices.Delete)

	cus := v1.Group("/customers")
	cus.GET("", h.Customers.List)
	cus.GET("/search", h.Customers.Search, mw.Cache.Middleware(service.CustomersView))
}

// Register wires all route groups onto e.
func Register(e *echo.Echo, h Handlers, mw Middleware) {
	RegisterRoutes(e)
	RegisterAuth(e, h.Auth, mw)
	RegisterDashboard(e, h, mw)
}
