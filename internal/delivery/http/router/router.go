// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"posledger/internal/delivery/http/middleware"
	"posledger/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	CustomerHandler   *handler.CustomerHandler
	ProductHandler    *handler.ProductHandler
	SaleHandler       *handler.SaleHandler
	SettlementHandler *handler.SettlementHandler
	ReportHandler     *handler.ReportHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	customerHandler   *handler.CustomerHandler
	productHandler    *handler.ProductHandler
	saleHandler       *handler.SaleHandler
	settlementHandler *handler.SettlementHandler
	reportHandler     *handler.ReportHandler
	authMiddleware    *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		customerHandler:   params.CustomerHandler,
		productHandler:    params.ProductHandler,
		saleHandler:       params.SaleHandler,
		settlementHandler: params.SettlementHandler,
		reportHandler:     params.ReportHandler,
		authMiddleware:    params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Every business route requires an authenticated staff member.
	api := e.Group("/api/v1")
	api.Use(r.authMiddleware.Authenticate)

	customerGroup := api.Group("/customers")
	{
		customerGroup.POST("", r.customerHandler.Register)
		customerGroup.GET("/:id", r.customerHandler.Get)
		customerGroup.GET("/:id/credit", r.customerHandler.CreditStatus)
		customerGroup.POST("/:id/settlements", r.settlementHandler.Settle)
		customerGroup.GET("/:id/payments", r.settlementHandler.ListPayments)
	}

	productGroup := api.Group("/products")
	{
		productGroup.POST("", r.productHandler.Create)
		productGroup.GET("/low-stock", r.productHandler.ListLowStock)
		productGroup.GET("/:id", r.productHandler.Get)
		productGroup.POST("/:id/restock", r.productHandler.IncreaseStock)
	}

	saleGroup := api.Group("/sales")
	{
		saleGroup.POST("", r.saleHandler.Create)
		saleGroup.GET("/:id", r.saleHandler.Get)
		saleGroup.GET("/:id/receipt-qr", r.saleHandler.ReceiptQR)
	}

	reportGroup := api.Group("/reports")
	reportGroup.Use(r.authMiddleware.RequireRole("manager"))
	{
		reportGroup.GET("/daily", r.reportHandler.DailySummary)
	}
}
