// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"konv/internal/delivery/http/middleware"
	"konv/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler *handler.AccountHandler
	OrderHandler   *handler.OrderHandler
	PaymentHandler *handler.PaymentHandler
	WebhookHandler *handler.WebhookHandler
	CatalogHandler *handler.CatalogHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler *handler.AccountHandler
	orderHandler   *handler.OrderHandler
	paymentHandler *handler.PaymentHandler
	webhookHandler *handler.WebhookHandler
	catalogHandler *handler.CatalogHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler: params.AccountHandler,
		orderHandler:   params.OrderHandler,
		paymentHandler: params.PaymentHandler,
		webhookHandler: params.WebhookHandler,
		catalogHandler: params.CatalogHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// The payment gateway calls back here; it authenticates with the webhook
	// signature, not a bearer token.
	e.POST("/beyonic_webhook", r.webhookHandler.HandleBeyonicWebhook)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.accountHandler.Register)
		authGroup.POST("/login", r.accountHandler.Login)
		authGroup.POST("/refresh", r.accountHandler.Refresh)
	}

	// Admin routes require authentication and a staff role.
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireStaff)
	{
		adminGroup.POST("/staff", r.accountHandler.CreateStaff)
	}

	// Customer profile routes: contacts and locations.
	customerGroup := e.Group("/customer")
	customerGroup.Use(r.authMiddleware.Authenticate)
	{
		customerGroup.POST("/contacts", r.accountHandler.AddContact)
		customerGroup.GET("/contacts", r.accountHandler.ListContacts)
		customerGroup.POST("/contacts/:id/activate", r.accountHandler.ActivateContact)
		customerGroup.POST("/locations", r.accountHandler.AddLocation)
		customerGroup.GET("/locations", r.accountHandler.ListLocations)
		customerGroup.POST("/locations/:id/activate", r.accountHandler.ActivateLocation)
	}

	// Order routes. Scoping is enforced in the usecase layer; staff-only
	// transitions additionally require a staff role here.
	orderGroup := e.Group("/orders")
	orderGroup.Use(r.authMiddleware.Authenticate)
	{
		orderGroup.POST("", r.orderHandler.CreateOrder)
		orderGroup.GET("", r.orderHandler.ListOrders)
		orderGroup.GET("/:id", r.orderHandler.GetOrder)
		orderGroup.GET("/:id/trackers", r.orderHandler.ListTrackers)
		orderGroup.GET("/:id/tracking-qr", r.orderHandler.TrackingQR)
		orderGroup.GET("/:id/payments", r.paymentHandler.ListOrderPayments)
		orderGroup.POST("/:id/cancel", r.orderHandler.CancelOrder)

		staffOrderGroup := orderGroup.Group("", r.authMiddleware.RequireStaff)
		staffOrderGroup.POST("/:id/reject", r.orderHandler.RejectOrder)
		staffOrderGroup.POST("/:id/deliver", r.orderHandler.DeliverOrder)
		staffOrderGroup.POST("/:id/assign-driver", r.orderHandler.AssignDriver)
		staffOrderGroup.POST("/:id/items/:itemID/invalidate", r.orderHandler.InvalidateItem)
	}

	// Payment routes
	paymentGroup := e.Group("/payments")
	paymentGroup.Use(r.authMiddleware.Authenticate)
	{
		paymentGroup.POST("", r.paymentHandler.InitiatePayment)
		paymentGroup.GET("/:id", r.paymentHandler.GetPayment)
	}

	// Catalog reads are public; mutations are staff only.
	catalogGroup := e.Group("/catalog")
	{
		catalogGroup.GET("/districts", r.catalogHandler.ListDistricts)
		catalogGroup.GET("/categories", r.catalogHandler.ListCategories)
		catalogGroup.GET("/shops", r.catalogHandler.ListShops)
		catalogGroup.GET("/products", r.catalogHandler.ListProducts)
		catalogGroup.GET("/products/:id", r.catalogHandler.GetProduct)
		catalogGroup.GET("/products/:id/stock", r.catalogHandler.ListProductStock)
		catalogGroup.GET("/announcements", r.catalogHandler.ListAnnouncements)

		staffCatalogGroup := catalogGroup.Group("", r.authMiddleware.Authenticate, r.authMiddleware.RequireStaff)
		staffCatalogGroup.POST("/districts", r.catalogHandler.CreateDistrict)
		staffCatalogGroup.DELETE("/districts/:id", r.catalogHandler.DeleteDistrict)
		staffCatalogGroup.POST("/categories", r.catalogHandler.CreateCategory)
		staffCatalogGroup.DELETE("/categories/:id", r.catalogHandler.DeleteCategory)
		staffCatalogGroup.POST("/shops", r.catalogHandler.CreateShop)
		staffCatalogGroup.DELETE("/shops/:id", r.catalogHandler.DeleteShop)
		staffCatalogGroup.POST("/products", r.catalogHandler.CreateProduct)
		staffCatalogGroup.PUT("/products/:id", r.catalogHandler.UpdateProduct)
		staffCatalogGroup.DELETE("/products/:id", r.catalogHandler.DeleteProduct)
		staffCatalogGroup.POST("/stocks", r.catalogHandler.CreateStock)
		staffCatalogGroup.DELETE("/stocks/:id", r.catalogHandler.DeleteStock)
		staffCatalogGroup.POST("/announcements", r.catalogHandler.CreateAnnouncement)
		staffCatalogGroup.DELETE("/announcements/:id", r.catalogHandler.DeleteAnnouncement)
	}
}
