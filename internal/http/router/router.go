package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ignatzorin/designer-studio/internal/config"
	_ "github.com/ignatzorin/designer-studio/internal/docs"
	"github.com/ignatzorin/designer-studio/internal/http/middleware"
	"github.com/ignatzorin/designer-studio/internal/identity"
	"github.com/ignatzorin/designer-studio/internal/interface/http/handler"
	"github.com/ignatzorin/designer-studio/internal/metrics"
)

// Handlers обработчики API. Health может быть nil в тестах.
type Handlers struct {
	Auth      *handler.AuthHandler
	Orders    *handler.OrderHandler
	Comments  *handler.CommentHandler
	Portfolio *handler.PortfolioHandler
	Telegram  *handler.TelegramHandler
	Media     *handler.MediaHandler
	Realtime  *handler.RealtimeHandler
	Health    *handler.HealthHandler
}

// SetupRouter mediaRoot каталог локального хранилища, пустой для MinIO.
func SetupRouter(
	cfg *config.Config,
	h Handlers,
	provider identity.Provider,
	profiles middleware.ProfileResolver,
	mediaRoot string,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if !cfg.IsProduction() {
		r.Use(gin.Logger())
	}
	r.Use(middleware.Metrics())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	if h.Health != nil {
		r.GET("/health", h.Health.Health)
	}
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if mediaRoot != "" && strings.HasPrefix(cfg.Media.PublicURL, "/") {
		r.StaticFS(cfg.Media.PublicURL, http.Dir(mediaRoot))
	}

	api := r.Group("/api")

	// токен проверяется внутри обработчика, init data в WebSocket не передаётся
	api.GET("/ws", h.Realtime.Handle)

	public := api.Group("")
	public.Use(middleware.Identity(provider))
	{
		public.POST("/auth/sync-user", middleware.RateLimitMiddleware(cfg.RateLimit.Limit, cfg.RateLimit.Period), h.Auth.SyncUser)
		public.GET("/portfolio", h.Portfolio.ListPortfolio)
		public.GET("/portfolio/:id", middleware.UUIDValidator("id"), h.Portfolio.GetPortfolioItem)
	}

	telegram := api.Group("/telegram")
	telegram.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Limit, cfg.RateLimit.Period))
	{
		telegram.POST("/notify", h.Telegram.NotifyOrder)
		telegram.POST("/comment", h.Telegram.NotifyComment)
	}

	protected := api.Group("")
	protected.Use(middleware.Identity(provider), middleware.RequireProfile(profiles))
	{
		protected.GET("/profile/stats", h.Orders.Stats)

		protected.POST("/orders", h.Orders.CreateOrder)
		protected.GET("/orders", h.Orders.ListOrders)
		protected.GET("/orders/:id", middleware.UUIDValidator("id"), h.Orders.GetOrder)
		protected.GET("/orders/:id/comments", middleware.UUIDValidator("id"), h.Comments.ListComments)
		protected.POST("/orders/:id/comments", middleware.UUIDValidator("id"), h.Comments.PostComment)

		protected.POST("/media", h.Media.Upload)
	}

	// без ADMIN_API_TOKEN операторские маршруты не регистрируются
	if cfg.AdminAPIToken != "" {
		admin := api.Group("/admin")
		admin.Use(middleware.AdminToken(cfg.AdminAPIToken))
		{
			admin.PATCH("/orders/:id/status", middleware.UUIDValidator("id"), h.Orders.UpdateOrderStatus)
			admin.PATCH("/stages/:id/status", middleware.UUIDValidator("id"), h.Orders.UpdateStageStatus)
			admin.POST("/orders/:id/comments", middleware.UUIDValidator("id"), h.Comments.PostInternalNote)
		}
	}

	return r
}
