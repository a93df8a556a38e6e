package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yoockh/talentmatch/internal/api/handlers"
	"github.com/yoockh/talentmatch/internal/api/middleware"
)

type Deps struct {
	Auth    middleware.Authenticator
	Health  *handlers.HealthHandler
	Login   *handlers.AuthHandler
	Match   *handlers.MatchHandler
	Pos     *handlers.PositionHandler
	Resume  *handlers.ResumeHandler
	Upload  *handlers.UploadHandler
	Catalog *handlers.CatalogHandler
	Users   *handlers.UserHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/ping", d.Health.Ping)
	r.GET("/health", d.Health.Health)
	r.POST("/auth/login", d.Login.Login)

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth(d.Auth))

	auth.POST("/auth/logout", d.Login.Logout)
	auth.GET("/auth/me", d.Login.Me)

	auth.GET("/positions", d.Pos.List)
	auth.POST("/positions", d.Pos.Create)
	auth.GET("/positions/:id", d.Pos.Get)
	auth.GET("/positions/:id/match", d.Match.MatchPosition)

	auth.GET("/resumes", d.Resume.List)
	auth.GET("/resumes/:id", d.Resume.Get)
	auth.GET("/resumes/:id/match", d.Match.MatchResume)
	auth.POST("/resumes/:id/attach_file", d.Resume.AttachFile)

	auth.POST("/uploads", d.Upload.Upload)
	auth.POST("/uploads/presign", d.Upload.Presign)
	auth.POST("/uploads/complete", d.Upload.Complete)

	auth.GET("/keywords", d.Catalog.Keywords)
	auth.POST("/keywords", d.Catalog.AddKeyword)
	auth.GET("/tags", d.Catalog.Tags)

	// Admin only
	admin := auth.Group("/")
	admin.Use(middleware.RequireAdmin())

	admin.PUT("/positions/:id", d.Pos.Update)
	admin.DELETE("/positions/:id", d.Pos.Delete)
	admin.DELETE("/resumes/:id", d.Resume.Delete)

	admin.GET("/admin/users", d.Users.List)
	admin.POST("/admin/users", d.Users.Create)
	admin.PUT("/admin/users/:id", d.Users.Update)
	admin.DELETE("/admin/users/:id", d.Users.Delete)
}
