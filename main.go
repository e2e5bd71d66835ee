package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/tailoring-orders-portal/config"
	"github.com/kendall-kelly/tailoring-orders-portal/controllers"
	"github.com/kendall-kelly/tailoring-orders-portal/middleware"
	"github.com/kendall-kelly/tailoring-orders-portal/services"
	"github.com/kendall-kelly/tailoring-orders-portal/templates"
	"github.com/kendall-kelly/tailoring-orders-portal/views"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Basic logging
	log.Println("Starting Tailoring Orders Portal...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := config.NewLogger(cfg.LogLevel)

	api, err := services.NewHTTPOrderAPI(cfg.OrderAPIURL, cfg.RequestTimeout, logger)
	if err != nil {
		log.Fatalf("Failed to create order service client: %v", err)
	}

	sessions := controllers.NewSessions(views.ListOptions{
		API:            api,
		NoticeTTL:      cfg.NoticeTTL,
		FormCloseDelay: cfg.FormCloseDelay,
		Location:       cfg.Location(),
		Logger:         logger,
	}, cfg.SessionIdleTimeout)

	router, err := newRouter(cfg, sessions, logger)
	if err != nil {
		log.Fatalf("Failed to set up router: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, ":"+cfg.Port, router, sessions, logger); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
	log.Println("Server stopped")
}

// newRouter wires middleware, pages and the health endpoint
func newRouter(cfg *config.Config, sessions *controllers.Sessions, logger *slog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	if len(cfg.CORSAllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	tmpl, err := templates.Parse()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)
	}

	auth, err := middleware.Authenticate(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("set up authentication: %w", err)
	}
	orders := router.Group("/orders", auth)
	if cfg.Auth0Scope != "" {
		orders.Use(middleware.RequireScope(cfg.Auth0Scope))
	}

	oc := controllers.NewOrderController(sessions, logger)
	{
		orders.GET("", oc.ShowOrders)
		orders.POST("/close", oc.CloseOrders)
		orders.GET("/:id", oc.ViewOrder)
		orders.GET("/:id/edit", oc.EditOrder)
		orders.POST("/:id/edit", oc.SubmitOrder)
		orders.GET("/:id/delete", oc.ConfirmDelete)
		orders.POST("/:id/delete", oc.DeleteOrder)
	}

	return router, nil
}

// run serves handler until ctx is cancelled, then shuts down gracefully and
// tears down every open orders modal
func run(ctx context.Context, addr string, handler http.Handler, sessions *controllers.Sessions, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		defer sessions.CloseAll()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Tailoring Orders Portal is running",
	})
}
