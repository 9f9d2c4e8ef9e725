package router

import (
	"github.com/labstack/echo/v4"

	"github.com/adboards/adboards-api/internal/auth"
	"github.com/adboards/adboards-api/internal/handler"
	"github.com/adboards/adboards-api/internal/middleware"
)

// RegisterAds registers every authenticated ad-scoped endpoint: the
// caller's own listings, ad mutations, favorites and complaint filing.
// The ownership checks live in the handlers because they need the loaded
// ad; the routes only guarantee a verified token.
func RegisterAds(e *echo.Echo, ads *handler.AdHandler, favs *handler.FavoriteHandler, cps *handler.ComplaintHandler, tokenCfg auth.TokenConfig) {
	g := e.Group("/api", middleware.JWTAuth(tokenCfg))

	g.POST("/ads", ads.Create)
	g.PUT("/ads/:id", ads.Update)
	g.PUT("/ads/:id/photo", ads.UpdatePhoto)
	g.DELETE("/ads/:id", ads.Delete)
	g.GET("/ads/my", ads.My)
	g.GET("/ads/favorites", ads.FavoriteList)

	g.GET("/favorites/:adId", favs.IsFavorite)
	g.POST("/favorites/:adId", favs.Add)
	g.DELETE("/favorites/:adId", favs.Delete)

	g.POST("/complaints", cps.Add)
}

// RegisterAdmin registers the administrator endpoints. Every route requires
// a token whose right claim parses to Admin; tokens with an unknown right
// are rejected as forbidden here, not bad request, because no resource is
// being addressed yet.
func RegisterAdmin(e *echo.Echo, p *handler.PersonHandler, cps *handler.ComplaintHandler, tokenCfg auth.TokenConfig) {
	g := e.Group("/api/admin", middleware.JWTAuth(tokenCfg), middleware.RequireAdmin())

	g.GET("/people", p.List)
	g.GET("/people/count", p.Count)
	g.DELETE("/people", p.Delete)

	g.GET("/complaints", cps.List)
	g.DELETE("/complaints/:id", cps.Delete)
}
