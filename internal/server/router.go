// Package server assembles the gin engine.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/kube-rca/perfcheckup/internal/config"
	"github.com/kube-rca/perfcheckup/internal/handler"
	"github.com/kube-rca/perfcheckup/internal/querylog"
	"github.com/kube-rca/perfcheckup/internal/view"
)

// Deps - 라우터 구성에 필요한 핸들러와 미들웨어 의존성
type Deps struct {
	Auth    *handler.AuthHandler
	Admin   *handler.AdminHandler
	Checkup *handler.CheckupHandler
	Tokens  handler.AccessTokenParser
	Memory  querylog.MemorySampler
}

// NewRouter wires every route. Admin pages run instrumentation first so
// the notice sees all queries of the request.
func NewRouter(cfg config.Config, deps Deps) *gin.Engine {
	router := gin.Default()
	router.SetHTMLTemplate(view.New())
	router.Use(handler.RequestIDMiddleware())
	router.Use(handler.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.AllowCredentials))

	router.GET("/ping", handler.Ping)
	router.GET("/", handler.Root)
	router.GET("/openapi.json", handler.OpenAPIDoc)

	instrument := handler.InstrumentMiddleware(cfg.Checkup.VerboseQueries, deps.Memory)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		auth.POST("/login", deps.Auth.Login)
		auth.POST("/refresh", deps.Auth.Refresh)
		auth.POST("/logout", deps.Auth.Logout)
		auth.GET("/config", deps.Auth.Config)
		auth.POST("/register", deps.Auth.Register)
		auth.GET("/me", handler.AuthMiddleware(deps.Tokens), deps.Auth.Me)

		api.GET("/checkup/status", instrument, handler.AuthMiddleware(deps.Tokens), deps.Checkup.Status)
	}

	router.GET("/admin/login", deps.Admin.LoginForm)
	router.POST("/admin/login", deps.Admin.Login)
	router.GET("/admin/logout", deps.Admin.Logout)

	adminGroup := router.Group("/admin",
		instrument,
		handler.AdminAuthMiddleware(deps.Tokens),
		deps.Checkup.HandleDismissal,
		deps.Checkup.Notices,
	)
	{
		adminGroup.GET("/", deps.Admin.Dashboard)
		adminGroup.GET("/performance-checkup", deps.Checkup.InfoPage)
	}

	return router
}
