package router

import (
	"github.com/labstack/echo/v4"

	"github.com/adboards/adboards-api/internal/auth"
	"github.com/adboards/adboards-api/internal/handler"
	"github.com/adboards/adboards-api/internal/middleware"
)

// RegisterPeople registers the account endpoints. The anonymous operations
// (registration, login, recovery, reset) sit behind the rate limiter when
// one is configured, so credential guessing and recovery spam are throttled
// per client. The profile operations require a valid token.
func RegisterPeople(e *echo.Echo, a *handler.AuthHandler, p *handler.PersonHandler, tokenCfg auth.TokenConfig, limiter echo.MiddlewareFunc) {
	anon := e.Group("/api/people")
	if limiter != nil {
		anon.Use(limiter)
	}
	anon.POST("/registration", a.Register)
	anon.POST("/authorization", a.Login)
	anon.POST("/recovery", a.RecoverPassword)
	anon.POST("/reset-password", a.ResetPassword)

	me := e.Group("/api/people", middleware.JWTAuth(tokenCfg))
	me.GET("/me", p.Me)
	me.PUT("", p.Update)
	me.PUT("/photo", p.UpdatePhoto)
}
