// internal/router/router.go
package router

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/javajoker/favorites-api/internal/config"
	"github.com/javajoker/favorites-api/internal/handlers"
	"github.com/javajoker/favorites-api/internal/middleware"
	"github.com/javajoker/favorites-api/internal/services"
)

// Initialize wires services, handlers and middleware. products is the
// catalog the favorite workflow validates and enriches against; ctx bounds
// background middleware work.
func Initialize(ctx context.Context, db *gorm.DB, cfg *config.Config, products services.ProductLookup) *gin.Engine {
	// Initialize services
	favoriteService := services.NewFavoriteService(db, products)
	clientService := services.NewClientService(db, favoriteService)

	// Initialize handlers
	clientHandler := handlers.NewClientHandler(clientService, cfg.JWT.AccessTokenTTL)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	healthHandler := handlers.NewHealthHandler(db)

	// Initialize Gin router
	r := gin.New()
	// both forms are registered explicitly below
	r.RedirectTrailingSlash = false

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(middleware.RateLimit(ctx, cfg.RateLimit))

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Client routes
	clients := r.Group("/client")
	{
		handle(clients, "POST", "", clientHandler.CreateClient)
		handle(clients, "GET", "", clientHandler.ListClients)
		handle(clients, "GET", "/:id", clientHandler.GetClient)
		handle(clients, "PATCH", "/:id", clientHandler.UpdateClient)
		handle(clients, "DELETE", "/:id", clientHandler.DeleteClient)
	}

	// Favorite routes act on the client named by the bearer token
	favorites := r.Group("/favorite")
	favorites.Use(middleware.AuthRequired())
	{
		handle(favorites, "POST", "", favoriteHandler.AddFavorite)
		handle(favorites, "DELETE", "/:product_id", favoriteHandler.RemoveFavorite)
	}

	return r
}

// handle registers path with and without a trailing slash.
func handle(group *gin.RouterGroup, method, path string, h gin.HandlerFunc) {
	group.Handle(method, path, h)
	group.Handle(method, strings.TrimSuffix(path, "/")+"/", h)
}
