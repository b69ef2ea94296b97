package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/abylaikhan/upcheck/internal/transport/http/handler"
	"github.com/abylaikhan/upcheck/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

// NewRouter wires the resource handlers into the classic flat API:
// GET/DELETE take their key from the query string, POST/PUT from the JSON
// payload, and authorization travels in the "token" header.
func NewRouter(logger *slog.Logger, userHandler *handler.UserHandler, tokenHandler *handler.TokenHandler, checkHandler *handler.CheckHandler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	r.GET("/ping", handler.Ping)

	users := r.Group("/users")
	users.POST("", userHandler.Create)
	users.GET("", userHandler.Get)
	users.PUT("", userHandler.Update)
	users.DELETE("", userHandler.Delete)

	tokens := r.Group("/tokens")
	tokens.POST("", tokenHandler.Issue)
	tokens.GET("", tokenHandler.Get)
	tokens.PUT("", tokenHandler.Renew)
	tokens.DELETE("", tokenHandler.Revoke)

	checks := r.Group("/checks")
	checks.POST("", checkHandler.Create)
	checks.GET("", checkHandler.Get)
	checks.PUT("", checkHandler.Update)
	checks.DELETE("", checkHandler.Delete)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{})
	})

	return r
}
