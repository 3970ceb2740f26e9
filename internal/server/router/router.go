package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smarttechsol/stockdesk/internal/server/handlers"
)

// Handlers bundles the per-resource HTTP adapters the router wires up.
type Handlers struct {
	Components *handlers.ComponentHandler
	Customers  *handlers.CustomerHandler
	Quotations *handlers.QuotationHandler
	Admins     *handlers.AdminHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	// The SPA is served from a different origin.
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	api := r.Group("/api")

	api.GET("/components", h.Components.List)
	api.POST("/components", h.Components.Upsert)
	api.POST("/components/import", h.Components.Import)
	api.PATCH("/components/:id", h.Components.Patch)
	api.DELETE("/components/:id", h.Components.Delete)
	api.GET("/components-history", h.Components.History)
	api.POST("/update-stock", h.Components.UpdateStock)

	api.POST("/customers", h.Customers.CreateOrMerge)
	api.GET("/customers/:id", h.Customers.Get)
	api.PATCH("/customers/:id", h.Customers.Patch)
	api.POST("/customers/:id/payments", h.Customers.AddPayment)
	api.DELETE("/customers/:id/payments", h.Customers.ClearPayments)
	api.GET("/projects", h.Customers.ListProjects)
	api.GET("/projects/:id/history", h.Customers.ProjectHistory)

	api.POST("/quotations", h.Quotations.Create)
	api.GET("/quotations/:projectId", h.Quotations.ListByProject)

	api.POST("/comments", h.Customers.AddComment)
	api.GET("/comments/:projectId", h.Customers.Comments)
	api.DELETE("/comments/:projectId", h.Customers.DeleteComments)

	api.POST("/admins/login", h.Admins.Login)
	api.GET("/admins/email/:username", h.Admins.Email)
	api.GET("/admins/:username", h.Admins.Phone)
	api.POST("/admins/reset-password", h.Admins.ResetPassword)
	api.POST("/admins/change-password", h.Admins.ChangePassword)
	api.POST("/admins/send-email-otp", h.Admins.SendEmailOTP)
	api.POST("/admins/verify-email-otp", h.Admins.VerifyEmailOTP)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
