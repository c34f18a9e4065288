package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Kusa331/ORBIT/internal/api"
	"github.com/Kusa331/ORBIT/internal/bell"
	"github.com/Kusa331/ORBIT/internal/config"
	"github.com/Kusa331/ORBIT/internal/db"
	"github.com/Kusa331/ORBIT/internal/kafka"
	"github.com/Kusa331/ORBIT/internal/logging"
	"github.com/Kusa331/ORBIT/internal/notification"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// Connect to database
	dbConn, err := db.New(context.Background(), cfg)
	if err != nil {
		logger.Errorf("Failed to connect to database: %v", err)
		log.Fatalf("Database connection failed: %v", err)
	}
	defer dbConn.Close()

	// Hidden-alert overlay
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	defer rdb.Close()

	bellSvc := bell.NewService(dbConn, bell.NewHiddenStore(rdb), logger)

	// Dispatch worker pool
	notifSvc := notification.New(logger, cfg)
	var wg sync.WaitGroup
	notifSvc.Start(&wg)

	// Kafka ingestion
	ctx, cancel := context.WithCancel(context.Background())
	consumer := kafka.NewConsumer(cfg, dbConn, notifSvc)
	consumer.Start(ctx, &wg)
	logger.Infof("Kafka consumer initialized with topic: %s", cfg.Kafka.Topic)

	// API server
	router := api.NewRouter(dbConn, bellSvc, notifSvc, logger, cfg)
	server := &http.Server{Addr: cfg.API.Port, Handler: router}

	go func() {
		logger.Infof("Starting API server on %s", cfg.API.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("API server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}

	cancel()
	consumer.Close()
	notifSvc.Stop()
	wg.Wait()
	logger.Info("Stopped")
}
