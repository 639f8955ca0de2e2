package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/locstore-backend-go/internal/config"
	"github.com/jengzang/locstore-backend-go/internal/handler"
	"github.com/jengzang/locstore-backend-go/internal/middleware"
)

// Handlers groups the HTTP handlers the router mounts
type Handlers struct {
	Query *handler.QueryHandler
	Parse *handler.ParseHandler
	Runs  *handler.RunHandler
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, h Handlers, limiter *middleware.RateLimiter, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(logger), gin.Recovery())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

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
			"message": "locstore API is running",
		})
	})

	// API 路由组
	api := r.Group("/api/v1")
	api.Use(middleware.Auth(cfg.Server.JWTSecret))
	if limiter != nil {
		api.Use(limiter.Middleware())
	}
	{
		api.GET("/plan", h.Query.Plan)
		api.GET("/scan", h.Query.Scan)
		api.POST("/parse", h.Parse.Parse)

		report := api.Group("/report")
		{
			report.GET("/runs", h.Runs.List)
		}
	}

	return r
}
