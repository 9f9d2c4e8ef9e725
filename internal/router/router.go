package router

import (
	"github.com/labstack/echo/v4"

	"github.com/adboards/adboards-api/internal/auth"
	"github.com/adboards/adboards-api/internal/handler"
	"github.com/adboards/adboards-api/internal/middleware"
)

// RegisterRoutes registers routes that carry no authentication or caching
// at all. Currently that is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated browse endpoints. The ad
// listing and the reference tables go through the response cache when one
// is configured; the single-ad endpoint runs the optional JWT middleware so
// an authenticated browser sees its favorite flag without a separate call.
func RegisterPublic(e *echo.Echo, ads *handler.AdHandler, images *handler.ImageHandler, tokenCfg auth.TokenConfig, cache echo.MiddlewareFunc) {
	list := e.Group("/api")
	if cache != nil {
		list.Use(cache)
	}
	list.GET("/ads", ads.List)
	list.GET("/categories", ads.Categories)
	list.GET("/ad-types", ads.AdTypes)

	// Not cached: the isFavorite flag is caller-specific.
	e.GET("/api/ads/:id", ads.Get, middleware.OptionalJWT(tokenCfg))

	e.GET("/images/*", images.Get)
}
