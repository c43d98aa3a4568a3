package api

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/ecomap-backend-go/internal/config"
	"github.com/jengzang/ecomap-backend-go/internal/handler"
	"github.com/jengzang/ecomap-backend-go/internal/heatmap"
	"github.com/jengzang/ecomap-backend-go/internal/middleware"
	"github.com/jengzang/ecomap-backend-go/internal/repository"
	"github.com/jengzang/ecomap-backend-go/internal/service"
)

// Router is the HTTP engine plus the resources it owns
type Router struct {
	*gin.Engine
	limiter *middleware.RateLimiter
}

// Close releases background resources held by the router
func (r *Router) Close() {
	r.limiter.Close()
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, db *sql.DB) (*Router, error) {
	format, err := heatmap.ParseFormat(cfg.OverlayFormat)
	if err != nil {
		return nil, err
	}

	// 仓储层
	projectRepo := repository.NewProjectRepository(db)
	subdivisionRepo := repository.NewSubdivisionRepository(db)
	annotationRepo := repository.NewAnnotationRepository(db)

	// 服务层
	projectService := service.NewProjectService(projectRepo)
	gridService := service.NewGridService(projectService, subdivisionRepo, annotationRepo)
	annotationService := service.NewAnnotationService(projectService, subdivisionRepo, annotationRepo, cfg.MaxAnnotationsPerTask)
	heatmapService := service.NewHeatmapService(projectService, annotationRepo, format)

	projectHandler := handler.NewProjectHandler(projectService, gridService)
	annotationHandler := handler.NewAnnotationHandler(annotationService)
	heatmapHandler := handler.NewHeatmapHandler(heatmapService)
	gridHandler := handler.NewGridHandler(gridService)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", strings.Join([]string{"X-Overlay-Bounds", "X-Heatmap-Survivors"}, ", "))

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "EcoMap Backend API is running",
		})
	})

	limiter := middleware.NewRateLimiter(cfg.HeatmapRateLimit, cfg.HeatmapRateWindow)
	auth := middleware.Auth(cfg.JWTSecret)

	api := r.Group("/api/v1")
	{
		projects := api.Group("/projects")
		{
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.GET("/:id/subdivisions", projectHandler.ListSubdivisions)
			projects.GET("/:id/tasks/next", projectHandler.NextTask)
			projects.GET("/:id/progress", projectHandler.Progress)
			projects.GET("/:id/annotations", annotationHandler.ListAnnotations)
			projects.GET("/:id/markers", annotationHandler.Markers)

			// 热力图渲染较耗 CPU，单独限流
			projects.GET("/:id/heatmap", middleware.RateLimit(limiter), heatmapHandler.GetHeatmap)

			projects.POST("", auth, projectHandler.CreateProject)
			projects.POST("/:id/generate-grid", auth, projectHandler.GenerateGrid)
			projects.POST("/:id/tasks/batch", auth, projectHandler.CreateTasks)
		}

		api.POST("/annotations/batch", auth, annotationHandler.SubmitBatch)

		gridGroup := api.Group("/grid")
		{
			gridGroup.POST("/preview", gridHandler.Preview)
			gridGroup.POST("/preview.png", gridHandler.PreviewPNG)
		}
	}

	return &Router{Engine: r, limiter: limiter}, nil
}
