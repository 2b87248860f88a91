package routes

import (
	"github.com/gin-gonic/gin"

	"todoweb/internal/adapter/http/handler"
	"todoweb/internal/adapter/http/middleware"
	"todoweb/internal/adapter/http/view"
	"todoweb/internal/core/telemetry"
	"todoweb/internal/shared"
)

type HandlersConfig struct {
	TodoHandler   *handler.TodoHandler
	HealthHandler *handler.HealthHandler
}

// SetupRouterWithConfig builds the full router. Health and static assets are
// registered ahead of HTTPS enforcement, the page cache and the rate limiter.
func SetupRouterWithConfig(handlers HandlersConfig, metrics *telemetry.AppMetrics, logger *shared.Logger, responseCache *shared.ResponseCache, config *shared.AppConfig) *gin.Engine {
	router := newRouter()

	shared.SetupGinMiddleware(router, config.ServiceName, metrics, logger, middleware.CurrentMiddleware())
	router.Use(handler.Recovery(logger))

	setupPublicRoutes(router, handlers.HealthHandler)

	httpsEnforcer := shared.NewHTTPSEnforcer(logger.Zap(), config.EnforceHTTPS)
	router.Use(httpsEnforcer.HTTPSMiddleware())

	if config.CacheEnabled && responseCache != nil {
		for path, cacheConfig := range config.CacheConfigs {
			responseCache.SetConfig(path, cacheConfig)
		}
		router.Use(responseCache.CacheMiddleware())
		registerStats(handlers.HealthHandler, "page_cache", responseCache)
	}

	if config.RateLimitEnabled {
		rateLimiter := shared.NewRateLimiter(logger.Zap(), metrics)
		rateLimiter.ApplyConfig(config.RateLimitConfigs)
		rateLimiter.SetHTMLRejectHandler(handler.RateLimited)
		router.Use(rateLimiter.RateLimitMiddleware())
		registerStats(handlers.HealthHandler, "rate_limiter", rateLimiter)
	}

	if handlers.TodoHandler != nil {
		setupTodoRoutes(router, handlers.TodoHandler)
	}

	return router
}

// newRouter matches routes on the escaped path so an id containing "/"
// still lands on /todos/:id.
func newRouter() *gin.Engine {
	router := gin.New()
	router.UseRawPath = true
	router.UnescapePathValues = true
	router.SetHTMLTemplate(view.MustTemplates())
	router.NoRoute(handler.NotFound)
	return router
}

func registerStats(healthHandler *handler.HealthHandler, name string, provider handler.StatsProvider) {
	if healthHandler != nil {
		healthHandler.Register(name, provider)
	}
}

func setupPublicRoutes(router *gin.Engine, healthHandler *handler.HealthHandler) {
	router.StaticFS("/static", view.StaticFS())

	if healthHandler != nil {
		router.GET("/health", healthHandler.Health)
	}
}

func setupTodoRoutes(router *gin.Engine, todoHandler *handler.TodoHandler) {
	router.GET("/", todoHandler.Index)
	router.POST("/todos", todoHandler.AddTodo)
	router.POST("/todos/:id/completed", todoHandler.ChangeCompletedStatus)
	router.PATCH("/todos/:id", todoHandler.ChangeCompletedStatus)
}

func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	router := newRouter()

	router.Use(middleware.CurrentMiddleware())
	router.Use(handler.Recovery(shared.NewNopLogger()))

	setupPublicRoutes(router, handlers.HealthHandler)

	if handlers.TodoHandler != nil {
		setupTodoRoutes(router, handlers.TodoHandler)
	}

	return router
}
