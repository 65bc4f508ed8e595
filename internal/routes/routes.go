package routes

import (
	"net/http"

	"github.com/Liyulingyue/PaddleLabel/internal/handlers"
	"github.com/Liyulingyue/PaddleLabel/internal/metrics"
	"github.com/Liyulingyue/PaddleLabel/internal/middleware"

	"github.com/gin-gonic/gin"
)

// cors allows the labeling UI to be served from another origin.
func cors(c *gin.Context) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
	c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}

// SetupRoutes builds the HTTP router. m receives request metrics and is served on /metrics.
func SetupRoutes(m *metrics.Metrics) *gin.Engine {
	ginRouter := gin.New()
	ginRouter.Use(middleware.RequestID(), middleware.AccessLog(m), gin.Recovery(), cors)

	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "PaddleLabel backend is running",
		})
	})
	ginRouter.GET("/metrics", gin.WrapH(m.Handler()))

	// Public routes
	api := ginRouter.Group("/api")
	{
		api.POST("/login", handlers.Login)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.GET("/users", handlers.GetAllUsers)

		protected.GET("/projects", handlers.GetProjects)
		protected.POST("/projects", handlers.CreateProject)
		protected.GET("/projects/:id", handlers.GetProjectByID)
		protected.PUT("/projects/:id", handlers.UpdateProject)
		protected.DELETE("/projects/:id", handlers.DeleteProject)

		protected.GET("/projects/:id/tasks", handlers.GetProjectTasks)
		protected.GET("/tasks/:id", handlers.GetTaskByID)
		protected.PATCH("/tasks/:id/split", handlers.UpdateTaskSplit)
		protected.DELETE("/tasks/:id", handlers.DeleteTask)

		protected.GET("/projects/:id/labels", handlers.GetProjectLabels)
		protected.POST("/projects/:id/labels", handlers.CreateLabel)
		protected.PUT("/labels/:id", handlers.UpdateLabel)
		protected.DELETE("/labels/:id", handlers.DeleteLabel)

		protected.GET("/tasks/:id/annotations", handlers.GetTaskAnnotations)
		protected.POST("/tasks/:id/annotations", handlers.CreateAnnotation)
		protected.DELETE("/annotations/:id", handlers.DeleteAnnotation)

		protected.POST("/projects/:id/import", handlers.ImportProject)
		protected.POST("/projects/:id/export", handlers.ExportProject)
		protected.GET("/projects/:id/runs/latest", handlers.GetLatestRun)

		protected.GET("/ws", handlers.WebSocketHandler)
	}

	return ginRouter
}
