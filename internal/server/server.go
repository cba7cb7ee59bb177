package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditservice "github.com/thiagosouza28/ideart-cloud/internal/audit/service"
	authdomain "github.com/thiagosouza28/ideart-cloud/internal/auth/domain"
	"github.com/thiagosouza28/ideart-cloud/internal/authorization"
	cartdomain "github.com/thiagosouza28/ideart-cloud/internal/cart/domain"
	companydomain "github.com/thiagosouza28/ideart-cloud/internal/company/domain"
	"github.com/thiagosouza28/ideart-cloud/internal/config"
	customerdomain "github.com/thiagosouza28/ideart-cloud/internal/customer/domain"
	obslogger "github.com/thiagosouza28/ideart-cloud/internal/observability/logger"
	"github.com/thiagosouza28/ideart-cloud/internal/observability/metrics"
	orderdomain "github.com/thiagosouza28/ideart-cloud/internal/order/domain"
	plandomain "github.com/thiagosouza28/ideart-cloud/internal/plan/domain"
	productdomain "github.com/thiagosouza28/ideart-cloud/internal/product/domain"
	reportdomain "github.com/thiagosouza28/ideart-cloud/internal/report/domain"
)

// Server holds every handler dependency. One instance serves both the
// authenticated admin API and the public storefront.
type Server struct {
	cfg     config.Config
	log     *zap.Logger
	db      *gorm.DB
	authz   authorization.Service
	limiter *rateLimiter

	authSvc     authdomain.Service
	orderSvc    orderdomain.Service
	customerSvc customerdomain.Service
	productSvc  productdomain.Service
	cartSvc     cartdomain.Service
	reportSvc   reportdomain.Service
	planSvc     plandomain.Service
	companySvc  companydomain.Service
	auditSvc    *auditservice.Service
}

type ServerParam struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
	DB     *gorm.DB
	Authz  authorization.Service

	AuthSvc     authdomain.Service
	OrderSvc    orderdomain.Service
	CustomerSvc customerdomain.Service
	ProductSvc  productdomain.Service
	CartSvc     cartdomain.Service
	ReportSvc   reportdomain.Service
	PlanSvc     plandomain.Service
	CompanySvc  companydomain.Service
	AuditSvc    *auditservice.Service
}

func NewServer(p ServerParam) *Server {
	limit := p.Config.Storefront.RateLimit
	if limit <= 0 {
		limit = 60
	}
	window := p.Config.Storefront.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	return &Server{
		cfg:         p.Config,
		log:         p.Log.Named("server"),
		db:          p.DB,
		authz:       p.Authz,
		limiter:     newRateLimiter(limit, window),
		authSvc:     p.AuthSvc,
		orderSvc:    p.OrderSvc,
		customerSvc: p.CustomerSvc,
		productSvc:  p.ProductSvc,
		cartSvc:     p.CartSvc,
		reportSvc:   p.ReportSvc,
		planSvc:     p.PlanSvc,
		companySvc:  p.CompanySvc,
		auditSvc:    p.AuditSvc,
	}
}

// NewEngine builds the gin engine with the shared middleware stack.
func NewEngine(cfg config.Config, httpMetrics *metrics.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		SkipPaths: []string{"/healthz", "/readyz"},
	}))
	engine.Use(metrics.GinMiddleware(httpMetrics))
	return engine
}

// RegisterRoutes mounts every endpoint on the engine.
func (s *Server) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/healthz", s.Healthz)
	engine.GET("/readyz", s.Readyz)

	engine.POST("/v1/auth/login", s.Login)

	api := engine.Group("/v1", s.SessionRequired())
	{
		api.POST("/auth/logout", s.Logout)
		api.GET("/auth/me", s.Me)

		api.GET("/company", s.GetCompany)
		api.PATCH("/company", s.UpdateCompany)

		api.POST("/orders", s.CreateOrder)
		api.GET("/orders/board", s.GetOrderBoard)
		api.GET("/orders/:id", s.GetOrder)
		api.PATCH("/orders/:id/status", s.UpdateOrderStatus)
		api.GET("/orders/:id/history", s.GetOrderHistory)
		api.GET("/orders/:id/time-in-status", s.GetOrderTimeInStatus)

		api.POST("/customers", s.CreateCustomer)
		api.GET("/customers", s.ListCustomers)
		api.GET("/customers/:id", s.GetCustomer)
		api.PATCH("/customers/:id", s.UpdateCustomer)

		api.POST("/products", s.CreateProduct)
		api.GET("/products", s.ListProducts)
		api.GET("/products/:id", s.GetProduct)
		api.PATCH("/products/:id", s.UpdateProduct)

		api.GET("/reports/sales", s.GetSalesReport)

		api.GET("/plans", s.ListPlans)
		api.POST("/plans", s.CreatePlan)
		api.GET("/plans/:id", s.GetPlan)
		api.PATCH("/plans/:id", s.UpdatePlan)

		api.GET("/events", s.ListEvents)
		api.GET("/audit-logs", s.ListAuditLogs)
	}

	store := engine.Group("/v1/store/:slug", s.StorefrontRateLimit())
	{
		store.GET("", s.GetStorefront)
		store.GET("/catalog", s.GetStorefrontCatalog)
		store.GET("/cart", s.GetCart)
		store.PUT("/cart/items", s.SetCartItem)
		store.POST("/cart/merge", s.MergeCart)
		store.DELETE("/cart", s.ClearCart)
		store.GET("/cart/checkout", s.CheckoutCart)
	}
}

// Healthz is liveness only.
func (s *Server) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz checks the database connection.
func (s *Server) Readyz(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RunHTTP starts the HTTP listener tied to the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, engine *gin.Engine, s *Server) {
	s.RegisterRoutes(engine)

	httpServer := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.HTTP.ShutdownTimeout)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(NewEngine, NewServer),
	fx.Invoke(RunHTTP),
)
