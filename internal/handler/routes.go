package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/eduverse-labs/eduverse-api/internal/middleware"
	"github.com/eduverse-labs/eduverse-api/internal/service"
)

// Handlers bundles the HTTP handlers mounted by the router.
type Handlers struct {
	Auth    *AuthHandler
	Profile *ProfileHandler
	Course  *CourseHandler
	Upload  *UploadHandler
	Metrics *MetricsHandler
}

// RegisterRoutes mounts all API routes under the given prefix. Route
// protection is limited to session validation; resource-level decisions
// live in the policy engine consulted by the services.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, authSvc *service.AuthService) {
	api := r.Group(prefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.GET("/me", middleware.JWT(authSvc), h.Auth.Me)
	}

	profile := api.Group("/profile", middleware.JWT(authSvc))
	{
		profile.GET("", h.Profile.Get)
		profile.PUT("", h.Profile.Update)
		profile.GET("/courses", h.Course.Mine)
	}

	courses := api.Group("/courses")
	{
		courses.GET("", h.Course.List)
		courses.GET("/:slug", h.Course.Get)
		courses.POST("", middleware.JWT(authSvc), h.Course.Create)
		courses.PUT("/:slug", middleware.JWT(authSvc), h.Course.Update)
	}

	api.POST("/uploads", middleware.JWT(authSvc), h.Upload.Upload)
}
