package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/core"
	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/middleware"
	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/models"
)

// SetupRoutes initializes all API routes. Global middleware (logging,
// recovery, CORS) is applied by the caller before this runs.
func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	verifier middleware.TokenVerifier,
	revoker SessionRevoker,
	userService core.UserService,
	postService core.PostService,
	syncService core.SyncService,
	auditService core.AuditService,
) {
	authMW := middleware.NewAuthMiddleware(verifier)

	authHandler := NewAuthHandler(userService, revoker, auditService)
	userHandler := NewUserHandler(userService)
	postHandler := NewPostHandler(postService)
	eventsHandler := NewEventsHandler(syncService)

	apiV1 := router.Group("/api/v1")
	{
		// The category set is static and safe to serve unauthenticated.
		apiV1.GET("/categories", func(c *gin.Context) {
			c.JSON(http.StatusOK, CategoriesResponse{Categories: models.Categories()})
		})

		usersGroup := apiV1.Group("/users")
		{
			usersGroup.POST("/initialize", authMW.VerifyToken(), authHandler.InitializeProfile)
			usersGroup.GET("/me", authMW.VerifyToken(), userHandler.GetCurrentUserProfile)
			usersGroup.POST("/signout", authMW.VerifyToken(), authHandler.SignOut)
		}

		postsGroup := apiV1.Group("/posts", authMW.VerifyToken())
		{
			postsGroup.GET("", postHandler.ListPosts)
			postsGroup.POST("", postHandler.CreatePost)
			postsGroup.POST("/:postId/resolve", postHandler.ResolvePost)
			postsGroup.DELETE("/:postId", postHandler.DeletePost)
		}

		apiV1.GET("/events", authMW.VerifyToken(), eventsHandler.Stream)
	}

	// Health reports the sync state so a load balancer can rotate out an
	// instance whose mirror lost its subscription.
	router.GET("/health", func(c *gin.Context) {
		_, meta := syncService.Snapshot()
		body := gin.H{"status": "UP", "sync": meta}
		code := http.StatusOK
		if meta.State == core.SyncDegraded {
			body["status"] = "DEGRADED"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, body)
	})

	logger.Info("API routes configured under /api/v1.")
}
