package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Lumbe/lcrm-app/internal/application/services"
	"github.com/Lumbe/lcrm-app/internal/interfaces/middleware"
	"github.com/Lumbe/lcrm-app/pkg/constants"
)

// RouterOptions carries what the HTTP layer needs besides the services
type RouterOptions struct {
	Views  render.HTMLRender
	Logger *zap.Logger
	// Registry receives the HTTP metrics and backs /metrics. Nil disables both.
	Registry      *prometheus.Registry
	SecureCookies bool
}

// NewRouter wires every route of the server
func NewRouter(svcMgr *services.ServiceManager, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.HTMLRender = opts.Views

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(opts.Logger))
	if opts.Registry != nil {
		router.Use(middleware.NewMetrics(opts.Registry).Handler())
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	}

	// CORS middleware - Allow credentials from the calling origin
	router.Use(middleware.Cors())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"server": "golang",
		})
	})

	// Initialize handlers
	authHandler := NewAuthHandler(svcMgr, opts.SecureCookies)
	leadHandler := NewLeadHandler(svcMgr)
	campaignHandler := NewCampaignHandler(svcMgr)

	// Initialize middleware
	requireAuth := middleware.RequireAuth(svcMgr.Auth)
	uiSession := middleware.UISession(svcMgr.Sessions, opts.Logger)

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, constants.PathLeads)
	})
	router.GET(constants.PathLogin, authHandler.LoginPage)
	router.POST(constants.PathLogin, authHandler.LoginForm)
	router.POST("/logout", requireAuth, authHandler.LogoutForm)

	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", requireAuth, authHandler.Logout)
		api.GET("/auth/me", requireAuth, authHandler.GetMe)
	}

	leads := router.Group(constants.PathLeads, requireAuth, uiSession)
	{
		leads.GET("", leadHandler.Index)
		leads.POST("", leadHandler.Create)
		leads.GET("/new", leadHandler.New)
		leads.GET("/redraw", leadHandler.Redraw)
		leads.POST("/filter", leadHandler.Filter)
		leads.POST("/auto_complete", leadHandler.AutoComplete)
		leads.GET("/:id", leadHandler.Show)
		leads.POST("/:id", methodOverride(leadHandler.Update, leadHandler.Destroy))
		leads.PUT("/:id", leadHandler.Update)
		leads.PATCH("/:id", leadHandler.Update)
		leads.DELETE("/:id", leadHandler.Destroy)
		leads.GET("/:id/edit", leadHandler.Edit)
		leads.GET("/:id/convert", leadHandler.Convert)
		leads.PUT("/:id/promote", leadHandler.Promote)
		leads.POST("/:id/promote", leadHandler.Promote)
		leads.PUT("/:id/reject", leadHandler.Reject)
		leads.POST("/:id/reject", leadHandler.Reject)
		leads.PUT("/:id/attach", leadHandler.Attach)
		leads.POST("/:id/discard", leadHandler.Discard)
	}

	campaigns := router.Group(constants.PathCampaigns, requireAuth, uiSession)
	{
		campaigns.GET("", campaignHandler.List)
		campaigns.POST("", campaignHandler.Create)
		campaigns.GET("/:id", campaignHandler.Get)
	}

	return router
}

// methodOverride dispatches browser form posts carrying _method
func methodOverride(update, destroy gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		method, _ := Param(c, "_method")
		switch method {
		case "put", "patch", "PUT", "PATCH":
			update(c)
		case "delete", "DELETE":
			destroy(c)
		default:
			c.String(http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
		}
	}
}
