package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"nft-gate.backend/internal/interfaces/http/handlers"
	"nft-gate.backend/internal/interfaces/http/middleware"
	"nft-gate.backend/pkg/metrics"
)

const (
	serviceName    = "nft-gate-backend"
	serviceVersion = "0.1.0"
)

type routeDeps struct {
	verificationHandler *handlers.VerificationHandler
	adminHandler        *handlers.AdminHandler
	authMiddleware      gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		verifications := v1.Group("/verifications")
		{
			verifications.POST("", d.verificationHandler.CreateSession)
			verifications.GET("/:token", d.verificationHandler.GetSession)
			verifications.POST("/:token/verify", d.verificationHandler.Verify)
		}

		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.POST("/scheduler/run", d.adminHandler.RunScheduler)

			admin.GET("/guilds/:communityId/rules", d.adminHandler.ListRules)
			admin.POST("/guilds/:communityId/rules", d.adminHandler.CreateRule)
			admin.DELETE("/guilds/:communityId/rules/:ruleId", d.adminHandler.DeleteRule)
			admin.GET("/guilds/:communityId/holders", d.adminHandler.ListHolders)
		}
	}
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}
