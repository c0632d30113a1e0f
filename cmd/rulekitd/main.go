// rulekitd serves script storage, validation and simulation over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nathoo/rulekit/internal/api"
	"github.com/nathoo/rulekit/internal/config"
	"github.com/nathoo/rulekit/internal/logger"
	"github.com/nathoo/rulekit/internal/storage"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := openStore(cfg, log)
	if err != nil {
		log.Error("Failed to open script store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(store, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("rulekitd listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", "error", err)
	}
}

// openStore picks Redis when REDIS_ADDR is set and memory otherwise.
func openStore(cfg *config.Config, log *slog.Logger) (storage.Store, error) {
	if cfg.RedisAddr == "" {
		log.Warn("REDIS_ADDR not set, scripts are kept in memory")
		return storage.NewMemoryStore(), nil
	}

	rs := storage.NewRedisStore(cfg.RedisAddr, cfg.ScriptTTL, log)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := rs.WaitForConnection(ctx, 30, 2*time.Second); err != nil {
		_ = rs.Close()
		return nil, err
	}
	return rs, nil
}
