package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Thongnus/TrainTicket-sub000/internal/config"
	"github.com/Thongnus/TrainTicket-sub000/internal/handlers"
	"github.com/Thongnus/TrainTicket-sub000/internal/middleware"
	"github.com/Thongnus/TrainTicket-sub000/internal/services"
	"github.com/Thongnus/TrainTicket-sub000/internal/session"
	"github.com/Thongnus/TrainTicket-sub000/internal/upstream"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

// publicPaths is the allow-list of the route gatekeeper: everything else
// requires an authenticated session. Entries ending in "/" are prefixes.
var publicPaths = []string{
	"/",
	"/healthz",
	"/login",
	"/register",
	"/forgot-password",
	"/api/auth/login",
	"/api/auth/signup",
	"/api/auth/forgot-password",
	"/api/stations",
	"/api/trips/",
}

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting TrainTicket web gateway")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize the upstream client and session store
	logger.WithField("base_url", cfg.Upstream.BaseURL).Info("Configuring upstream booking API client")
	client := upstream.NewClient(cfg.Upstream, logger)

	store := session.NewStore(cfg.Session.TTL, logger)
	defer store.Close()

	// Initialize services and handlers
	ticketService := services.NewTicketService(logger)

	authHandler := handlers.NewAuthHandler(client, logger)
	searchHandler := handlers.NewSearchHandler(client, logger)
	bookingHandler := handlers.NewBookingHandler(client, logger)
	checkoutHandler := handlers.NewCheckoutHandler(client, logger)
	historyHandler := handlers.NewHistoryHandler(client, ticketService, logger)
	profileHandler := handlers.NewProfileHandler(client, logger)

	// Set up router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.Resolve(store, cfg.Session))
	router.Use(middleware.Gatekeeper(publicPaths, logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "trainticket-web",
			"version": version,
		})
	})

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/logout", authHandler.Logout)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/change-password", authHandler.ChangePassword)
			auth.GET("/me", authHandler.Me)
		}

		api.GET("/stations", searchHandler.Stations)
		api.GET("/trips/search", searchHandler.SearchTrips)
		api.POST("/trips/filter", searchHandler.FilterTrips)

		bookingGroup := api.Group("/booking")
		{
			bookingGroup.POST("/select", bookingHandler.SelectTrip)
			bookingGroup.POST("/start", bookingHandler.StartDraft)
			bookingGroup.GET("", bookingHandler.Draft)
			bookingGroup.DELETE("", bookingHandler.AbandonDraft)
			bookingGroup.POST("/seat", bookingHandler.SelectSeat)
			bookingGroup.POST("/seat/assign", bookingHandler.AssignSeat)
			bookingGroup.DELETE("/seat", bookingHandler.ClearSeat)
			bookingGroup.PUT("/passenger", bookingHandler.SetPassenger)
			bookingGroup.PUT("/contact", bookingHandler.SetContact)
			bookingGroup.POST("/promo", bookingHandler.ApplyPromo)
			bookingGroup.GET("/total", bookingHandler.Totals)
		}

		api.POST("/checkout", checkoutHandler.Submit)

		bookings := api.Group("/bookings")
		{
			bookings.GET("/history", historyHandler.History)
			bookings.POST("/:id/cancel", historyHandler.Cancel)
			bookings.GET("/:id/ticket", historyHandler.Ticket)
		}

		users := api.Group("/users")
		{
			users.GET("/me", profileHandler.Get)
			users.PUT("/me", profileHandler.Update)
		}
	}

	// Start server with graceful shutdown
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Forced shutdown: %v", err)
	}
	logger.Info("Server stopped")
}
