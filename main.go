package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"puckcast/adapters/api"
	"puckcast/adapters/store"
	"puckcast/internal"
	"puckcast/internal/config"
	"puckcast/internal/container"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	logger := internal.NewDefaultLogger()

	c, err := container.New(cfg, logger)
	if err != nil {
		log.Fatalf("container init failed: %v", err)
	}
	defer c.Close()

	db, err := store.Open(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		log.Fatalf("store connection failed: %v", err)
	}

	ctx := context.Background()
	if err := store.NewMigrator().Run(ctx, db); err != nil {
		log.Fatalf("store migration failed: %v", err)
	}
	if err := c.InitWithDatabase(ctx, db); err != nil {
		log.Fatalf("container init with database failed: %v", err)
	}

	server := api.NewServer(c.Prediction, c.Season, c.Feeds, logger)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: server.Router(),
	}

	go func() {
		logger.Info("prediction server listening on :%s (engine=%s, store=%s)",
			cfg.Server.Port, cfg.Engine.Kind, cfg.Database.Driver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error: %v", err)
	}
}
