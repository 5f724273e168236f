package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/joshua-takyi/eventradar/internal/config"
	"github.com/joshua-takyi/eventradar/internal/connect"
	"github.com/joshua-takyi/eventradar/internal/container"
	"github.com/joshua-takyi/eventradar/internal/helpers"
	"github.com/joshua-takyi/eventradar/internal/routes"
)

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	logger.Info("Starting EventRadar API server",
		"environment", cfg.Environment,
		"store", cfg.StoreDriver,
		"categories", cfg.CategoryDomain,
		"access_rules", cfg.AccessRules,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clients := container.Clients{}

	if cfg.StoreDriver == config.DriverSupabase {
		service, public, err := connect.InitSupabase(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey, cfg.SupabaseAnonKey)
		if err != nil {
			logger.Error("Failed to connect to Supabase", "error", err)
			os.Exit(1)
		}
		clients.SupabaseService, clients.SupabasePublic = service, public
		logger.Info("Connected to Supabase successfully")

		verifier, err := helpers.NewTokenVerifier(ctx, cfg.SupabaseURL, logger)
		if err != nil {
			// requests are served anonymously until the JWKS is reachable
			logger.Warn("Token verification disabled", "error", err)
		} else {
			defer verifier.Close()
			clients.Verifier = verifier
		}
	}

	if cfg.MongoEnabled() {
		mongoClient, err := connect.MongoDBConnect(ctx, cfg.MongoDBURI, cfg.MongoDBPassword)
		if err != nil {
			logger.Error("Failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		clients.MongoDB = mongoClient
		logger.Info("Connected to MongoDB successfully")
		defer func() {
			if err := connect.MongoDBDisconnect(mongoClient); err != nil {
				logger.Error("Error disconnecting from MongoDB", "error", err)
			}
		}()
	}

	if cfg.CloudinaryEnabled() {
		cld, err := connect.CloudinaryCredentials(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			logger.Error("Failed to connect to Cloudinary", "error", err)
			os.Exit(1)
		}
		clients.Cloudinary = cld
		logger.Info("Cloudinary configured")
	}

	appContainer, err := container.NewContainer(ctx, cfg, logger, clients)
	if err != nil {
		logger.Error("Failed to build application container", "error", err)
		os.Exit(1)
	}
	defer appContainer.Close()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.SetupRoutes(appContainer)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		logger.Error("Server failed to start", "error", err)
	case <-ctx.Done():
		logger.Info("Server is shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
