package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/middleware"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

// Services groups what the HTTP layer calls into.
type Services struct {
	Tenants    TenantService
	Users      UserService
	Categories CategoryService
	Products   ProductService
	Customers  CustomerService
	Orders     OrderService
	Exports    ExportService
	Events     EventSubscriber
}

// Middlewares groups the request filters shared by all routes.
type Middlewares struct {
	Auth       *middleware.AuthMiddleware
	Tenant     *middleware.TenantMiddleware
	RateLimit  *middleware.RateLimitMiddleware
	Validation *middleware.ValidationMiddleware
}

type Server struct {
	tenant    *TenantHandler
	user      *UserHandler
	category  *CategoryHandler
	product   *ProductHandler
	customer  *CustomerHandler
	order     *OrderHandler
	websocket *WebSocketHandler
	mw        Middlewares

	globalRateLimit int
}

func NewServer(services Services, mw Middlewares, globalRateLimit int, hideInternal bool, logger *logger.Logger) *Server {
	base := NewBaseHandler(logger, hideInternal)
	return &Server{
		tenant:          NewTenantHandler(services.Tenants, base),
		user:            NewUserHandler(services.Users, base),
		category:        NewCategoryHandler(services.Categories, base),
		product:         NewProductHandler(services.Products, base),
		customer:        NewCustomerHandler(services.Customers, base),
		order:           NewOrderHandler(services.Orders, services.Exports, base),
		websocket:       NewWebSocketHandler(services.Events, logger),
		mw:              mw,
		globalRateLimit: globalRateLimit,
	}
}

func (s *Server) SetupRoutes(api *gin.RouterGroup) {
	// Apply security middleware first
	api.Use(s.mw.Validation.BlockSuspiciousPatterns())
	api.Use(s.mw.Validation.SanitizeInput())
	api.Use(s.mw.Validation.ValidateRequestSize(10 * 1024 * 1024)) // 10MB max
	api.Use(s.mw.Validation.ValidateContentType("application/json"))
	api.Use(s.mw.RateLimit.GlobalRateLimit(s.globalRateLimit))

	auth := s.mw.Auth

	// Platform routes address tenants by id, not by host.
	tenants := api.Group("/tenants", auth.JWTAuth())
	{
		tenants.POST("", auth.RequireRole(domain.RoleSuperAdmin), s.tenant.CreateTenant)
		tenants.GET("", auth.RequireRole(domain.RoleSuperAdmin), s.tenant.ListTenants)
		tenants.GET("/:id", auth.RequireTenantAccess("id"), s.tenant.GetTenant)
		tenants.PUT("/:id", auth.RequireRole(domain.CatalogManagers...), auth.RequireTenantAccess("id"), s.tenant.UpdateTenant)
		tenants.DELETE("/:id", auth.RequireRole(domain.RoleSuperAdmin), s.tenant.DeleteTenant)
	}

	users := api.Group("/users", auth.JWTAuth(), auth.RequireRole(domain.CatalogManagers...))
	{
		users.POST("", s.user.CreateUser)
		users.GET("", s.user.ListUsers)
		users.GET("/:id", s.user.GetUser)
	}

	// Everything below is scoped to the tenant the host resolves to.
	scoped := api.Group("",
		s.mw.Tenant.Detect(),
		auth.OptionalJWTAuth(),
		s.mw.Tenant.RequireTenant(),
		auth.RequireTenantMatch(),
		s.mw.RateLimit.TenantRateLimit(),
	)

	managers := auth.RequireRole(domain.CatalogManagers...)
	operators := auth.RequireRole(domain.OrderOperators...)

	categories := scoped.Group("/categories")
	{
		categories.GET("", s.category.ListCategories)
		categories.GET("/:id", s.category.GetCategory)
		categories.POST("", managers, s.category.CreateCategory)
		categories.PUT("/:id", managers, s.category.UpdateCategory)
		categories.DELETE("/:id", managers, s.category.DeleteCategory)
	}

	products := scoped.Group("/products")
	{
		products.GET("", s.product.ListProducts)
		products.GET("/:id", s.product.GetProduct)
		products.POST("", managers, s.product.CreateProduct)
		products.PUT("/:id", managers, s.product.UpdateProduct)
		products.DELETE("/:id", managers, s.product.DeleteProduct)
		products.POST("/reindex", managers, s.product.ReindexProducts)
	}

	customers := scoped.Group("/customers", operators)
	{
		customers.GET("", s.customer.ListCustomers)
		customers.POST("", s.customer.CreateCustomer)
		customers.GET("/:id", s.customer.GetCustomer)
		customers.PUT("/:id", s.customer.UpdateCustomer)
	}

	orders := scoped.Group("/orders")
	{
		// Storefront checkout is anonymous.
		orders.POST("", s.order.CreateOrder)
		orders.GET("", operators, s.order.ListOrders)
		orders.GET("/stats", operators, s.order.GetOrderStats)
		orders.POST("/export", managers, s.order.ExportOrders)
		orders.GET("/stream", operators, s.websocket.HandleWebSocket)
		orders.GET("/:id", operators, s.order.GetOrder)
		orders.PATCH("/:id/status", operators, s.order.UpdateOrderStatus)
	}
}

// StartWebSocketHub starts the hub that fans order events out to dashboards
func (s *Server) StartWebSocketHub() {
	go s.websocket.Start()
}

func (s *Server) StopWebSocketHub() {
	s.websocket.Stop()
}
