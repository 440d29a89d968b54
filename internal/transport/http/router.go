package httptransport

import (
	"log/slog"

	"github.com/campusnest/campusnest-api/internal/transport/http/handler"
	"github.com/campusnest/campusnest-api/internal/transport/http/middleware"
	"github.com/campusnest/campusnest-api/internal/usecase"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	sessionHandler *handler.SessionHandler,
	verifyHandler *handler.VerifyHandler,
	catalogHandler *handler.CatalogHandler,
	sessions *usecase.SessionUsecase,
	cookieName string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	// Session + verification core
	r.GET("/session", sessionHandler.Current)
	r.POST("/validate-token", sessionHandler.ValidateToken)
	r.POST("/logout", sessionHandler.Logout)
	r.GET("/verify", verifyHandler.VerifyLink)
	r.POST("/verify", verifyHandler.VerifyAPI)
	r.POST("/auth/resend-verification", verifyHandler.ResendVerification)

	// Catalog pass-through
	r.GET("/properties", catalogHandler.List("properties"))
	r.GET("/properties/:id", catalogHandler.Get("properties"))
	r.GET("/universities", catalogHandler.List("universities"))
	r.GET("/universities/:id", catalogHandler.Get("universities"))
	r.GET("/team", catalogHandler.List("team"))
	r.GET("/gallery", catalogHandler.List("gallery"))

	sessionMW := middleware.Session(sessions, cookieName)
	r.POST("/properties", sessionMW, middleware.RequireUser(), catalogHandler.CreateProperty)

	return r
}
