package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"filedrop/internal/handler"
	"filedrop/internal/middleware"
	"filedrop/internal/port"
)

// Options carries the collaborators the router wires together.
type Options struct {
	Verifier       port.TokenVerifier
	UploadHandler  *handler.UploadHandler
	HealthHandler  *handler.HealthHandler
	AllowedOrigins []string
	Logger         *slog.Logger
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(opts Options) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(opts.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health checks and metrics
	r.GET("/healthz", opts.HealthHandler.Liveness)
	r.GET("/readyz", opts.HealthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Upload routes keep the exact paths existing clients call, trailing
	// slash included.
	protected := r.Group("")
	protected.Use(middleware.AuthMiddleware(opts.Verifier))
	protected.POST("/get-presigned-url/", opts.UploadHandler.GetPresignedURL)
	protected.GET("/files/", opts.UploadHandler.ListFiles)

	return r
}
