package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/fmtlab/fmtlab/internal/auth"
	"github.com/fmtlab/fmtlab/internal/config"
	"github.com/fmtlab/fmtlab/internal/encryption"
	"github.com/fmtlab/fmtlab/internal/handlers"
	"github.com/fmtlab/fmtlab/internal/metrics"
	"github.com/fmtlab/fmtlab/internal/middleware"
	"github.com/fmtlab/fmtlab/internal/services"
	"github.com/fmtlab/fmtlab/internal/store"
	"github.com/fmtlab/fmtlab/internal/token"
	"github.com/fmtlab/fmtlab/internal/version"

	"github.com/appleboy/graceful"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Define flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Usage = printUsage
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		version.PrintVersion()
		os.Exit(0)
	}

	// Check if command is provided
	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	// Handle subcommands
	switch args[0] {
	case "server":
		runServer()
	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Usage: %s [OPTIONS] COMMAND\n\n", os.Args[0])
	fmt.Println("FmtLab API server (authentication, user management, encryption proxy)")
	fmt.Println("\nCommands:")
	fmt.Println("  server    Start the API server")
	fmt.Println("\nOptions:")
	fmt.Println("  -v, --version    Show version information")
	fmt.Println("  -h, --help       Show this help message")
}

func runServer() {
	// Load configuration
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize store
	db, err := store.New(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize metrics
	prometheusMetrics := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		log.Println("Prometheus metrics initialized")
	} else {
		log.Println("Metrics disabled (using noop implementation)")
	}

	// Initialize credential verifiers
	localVerifier := auth.NewLocalVerifier()
	directoryValidator := initializeDirectoryValidator(cfg)

	// Initialize token issuer
	issuer := token.NewIssuer(cfg)

	// Initialize encryption proxy
	encryptionService, err := encryption.NewService(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize encryption service: %v", err)
	}

	// Initialize services
	authService := services.NewAuthService(
		db,
		localVerifier,
		directoryValidator,
		issuer,
		prometheusMetrics,
	)
	userService := services.NewUserService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(userService)
	encryptionHandler := handlers.NewEncryptionHandler(encryptionService, prometheusMetrics)

	// Setup Gin
	setupGinMode(cfg)
	r := gin.New()
	// Setup Prometheus metrics middleware (must be before other routes)
	r.Use(metrics.HTTPMetricsMiddleware(prometheusMetrics))
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(buildCORS(cfg))

	// Health check endpoint
	r.GET("/health", createHealthCheckHandler(db))

	// Prometheus metrics endpoint (with optional authentication)
	switch {
	case !cfg.MetricsEnabled:
		log.Printf("Prometheus metrics disabled")
	case cfg.MetricsToken != "":
		log.Printf("Prometheus metrics enabled at /metrics with Bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		log.Printf("Prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Public routes
	api := r.Group("/api")
	api.POST("/user/authenticate", authHandler.Authenticate)
	api.POST("/user/logout", authHandler.Logout)

	// Protected routes (require a valid bearer token)
	protected := api.Group("")
	protected.Use(middleware.RequireAuth(issuer, prometheusMetrics))
	{
		protected.POST("/encryption/encrypt", encryptionHandler.Encrypt)
		protected.POST("/encryption/decrypt", encryptionHandler.Decrypt)
		protected.POST("/admin/users", adminHandler.ImportUsers)
		protected.GET("/admin/users/:id", adminHandler.GetUser)
	}

	// Start server
	if directoryValidator != nil {
		log.Printf("Directory validation enabled: %s (timeout=%s)", cfg.DirectoryURL, cfg.DirectoryTimeout)
	} else {
		log.Printf("Directory validation disabled; directory accounts cannot authenticate")
	}
	log.Printf("FmtLab server starting on %s", cfg.ServerAddr)
	log.Printf("Default user: admin (check logs for password if first run)")

	// Create HTTP server
	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Create graceful manager
	m := graceful.NewManager()

	// Add server as a running job
	m.AddRunningJob(func(ctx context.Context) error {
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()
		<-ctx.Done()
		return nil
	})

	// Add shutdown job for HTTP server
	m.AddShutdownJob(func() error {
		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
			return err
		}

		log.Println("Server exited")
		return nil
	})

	// Wait for graceful shutdown
	<-m.Done()
}

// initializeDirectoryValidator creates the directory validator when a
// directory URL is configured; directory accounts are rejected otherwise.
func initializeDirectoryValidator(cfg *config.Config) services.DirectoryValidator {
	if cfg.DirectoryURL == "" {
		return nil
	}
	validator, err := auth.NewDirectoryValidator(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize directory validator: %v", err)
	}
	return validator
}

func buildCORS(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	return cors.New(corsConfig)
}

func setupGinMode(cfg *config.Config) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
}

// createHealthCheckHandler reports process and database health
func createHealthCheckHandler(db *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
