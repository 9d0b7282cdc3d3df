package api

import (
	"github.com/File-Sharing-BondBridg/Slide-Service/cmd/middleware"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/api/handlers"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

const serviceName = "slide-service"

type Options struct {
	Logger  zerolog.Logger
	Invites middleware.InviteResolver
	Tracing bool
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, PATCH, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	}
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, opts Options) {
	if opts.Tracing {
		r.Use(gintrace.Middleware(serviceName))
	}
	r.Use(middleware.RequestLogger(opts.Logger))
	// Enable CORS for preflight requests
	r.Use(corsMiddleware())

	gate := middleware.RequireInvite(opts.Invites, opts.Logger)

	api := r.Group("/api")
	{
		api.GET("/health", h.HealthCheck)

		api.POST("/invites", h.CreateInvite)     // issue an invite
		api.GET("/invites/:code", h.CheckInvite) // {valid}

		// The request body names the invite, so this one is not gated.
		api.POST("/upload-pdf", h.UploadPDF)

		scoped := api.Group("", gate)
		scoped.GET("/files", h.ListFiles)
		scoped.PATCH("/files", h.RenameFile)
		scoped.DELETE("/files", h.DeleteFile)
		scoped.GET("/files/:id/view", h.ViewFile)
		scoped.POST("/blobs", h.UploadBlob)
	}
}
