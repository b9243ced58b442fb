package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/festa/internal/config"
	"github.com/joshua-takyi/festa/internal/connect"
	"github.com/joshua-takyi/festa/internal/container"
	"github.com/joshua-takyi/festa/internal/helpers"
	"github.com/joshua-takyi/festa/internal/routes"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	logger.Info("Starting Festa API server", "environment", cfg.Environment, "store", cfg.StoreBackend)

	if cfg.AdminSecret != "" && !helpers.IsPasswordStrong(cfg.AdminSecret) {
		logger.Warn("ADMIN_SECRET is weak; prefer ADMIN_SECRET_HASH or a longer mixed secret")
	}

	clients, err := openClients(cfg, logger)
	if err != nil {
		logger.Error("Failed to open external connections", "error", err)
		os.Exit(1)
	}
	defer closeClients(clients, logger)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	appContainer, err := container.NewContainer(startCtx, cfg, logger, clients)
	cancelStart()
	if err != nil {
		logger.Error("Failed to build application", "error", err)
		closeClients(clients, logger)
		os.Exit(1)
	}
	defer appContainer.Close()

	router := routes.SetupRoutes(appContainer)

	// WriteTimeout leaves room for the generation call on /chat.
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

func openClients(cfg *config.Config, logger *slog.Logger) (container.Clients, error) {
	var clients container.Clients

	if cfg.UsesSupabase() {
		client, err := connect.InitSupabase(cfg)
		if err != nil {
			return clients, err
		}
		clients.Supabase = client
		logger.Info("Connected to Supabase successfully")
	}

	switch cfg.StoreBackend {
	case config.StoreMongo:
		client, err := connect.MongoDBConnect(cfg)
		if err != nil {
			return clients, err
		}
		clients.MongoDB = client
		logger.Info("Connected to MongoDB successfully")
	case config.StoreSQLite:
		db, err := connect.SQLiteConnect(cfg.SQLitePath)
		if err != nil {
			return clients, err
		}
		clients.SQLite = db
		logger.Info("Opened SQLite database", "path", cfg.SQLitePath)
	}

	if cfg.MediaBackend == config.MediaCloudinary {
		cld, err := connect.CloudinaryCredentials(cfg)
		if err != nil {
			closeClients(clients, logger)
			return clients, err
		}
		clients.Cloudinary = cld
		logger.Info("Connected to Cloudinary successfully")
	}

	return clients, nil
}

func closeClients(clients container.Clients, logger *slog.Logger) {
	if err := connect.MongoDBDisconnect(clients.MongoDB); err != nil {
		logger.Error("Error disconnecting from MongoDB", "error", err)
	}
	if err := connect.SQLiteDisconnect(clients.SQLite); err != nil {
		logger.Error("Error closing SQLite database", "error", err)
	}
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: parseLevel(cfg.LogLevel),
		})
	} else {
		// Human-readable logging for development
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
