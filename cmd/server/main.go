package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/IT-MikeS/secret-santa-thing/internal/hub"
	"github.com/IT-MikeS/secret-santa-thing/internal/server"
	"github.com/IT-MikeS/secret-santa-thing/internal/service"
	"github.com/IT-MikeS/secret-santa-thing/internal/session"
	"github.com/IT-MikeS/secret-santa-thing/internal/storage/sqlite"
	"github.com/IT-MikeS/secret-santa-thing/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	// Get paths from env or use defaults
	dbPath := getEnv("DB_PATH", "./data/santa.db")
	staticPath := getEnv("STATIC_PATH", "../frontend/dist")
	port := getEnv("PORT", "8080")

	// Initialize SQLite storage
	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	// Construct the connection registry and the layers on top of it.
	// Order matters: storage first, then the registry, then the
	// handlers; connections are only accepted once everything exists.
	registry := hub.New()
	coordinator := session.New(store, registry)
	svc := service.New(store, coordinator)

	staticDir, err := filepath.Abs(staticPath)
	if err != nil {
		slog.Error("Failed to resolve static path", "error", err)
		os.Exit(1)
	}
	if _, err := os.Stat(staticDir); os.IsNotExist(err) {
		slog.Warn("Static directory missing, serving API only", "path", staticDir)
		staticDir = ""
	} else {
		slog.Info("Serving static files", "path", staticDir)
	}

	router := server.NewRouter(server.NewHandler(svc, coordinator), staticDir)

	addr := fmt.Sprintf(":%s", port)
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, router); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
