package main

import (
	"log/slog"
	"os"

	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/config"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/logging"
	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/stub"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "footoverbridge-dev-secret"
		slog.Warn("JWT_SECRET not set, using development secret")
	}

	srv := stub.New(cfg)
	if os.Getenv("SEED") != "false" {
		if err := srv.Seed(); err != nil {
			slog.Error("failed to seed demo data", "error", err)
			os.Exit(1)
		}
		slog.Info("demo data seeded", "admin", "admin@footoverbridge.local")
	}

	slog.Info("stub server listening", "addr", cfg.StubAddr)
	if err := srv.Run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
