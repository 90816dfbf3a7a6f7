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

	"todo-app/backend/internal/cache"
	"todo-app/backend/internal/config"
	"todo-app/backend/internal/repositories"
	"todo-app/backend/internal/router"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := repositories.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache = cache.NewRedisCache(cache.CacheConfigFromApp(cfg))
		if err := redisCache.Health(); err != nil {
			log.Printf("redis unavailable, continuing without cache: %v", err)
			redisCache.Close()
			redisCache = nil
		}
	}

	engine := router.New(cfg, db, redisCache)

	srv := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("server started on http://%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}

	if redisCache != nil {
		redisCache.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
