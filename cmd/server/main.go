// Package main is the entry point for the perceptual hash service
package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"photohash/api"
	"photohash/api/handler"
	"photohash/internal/config"
	"photohash/internal/database"
	"photohash/internal/logging"
	"photohash/internal/phash"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Could not load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Could not build logger: %v", err)
	}
	defer logger.Sync()

	hashing, err := cfg.Hashing()
	if err != nil {
		logger.Fatal("invalid hashing configuration", zap.Error(err))
	}
	hasher, err := phash.New(hashing)
	if err != nil {
		logger.Fatal("could not create hasher", zap.Error(err))
	}
	comparator, err := phash.NewComparator(hashing)
	if err != nil {
		logger.Fatal("could not create comparator", zap.Error(err))
	}

	h := &handler.Handler{
		DB:             database.NewHashCache(hasher, cfg.CacheTTL, cfg.CacheCleanup, logger),
		Comparator:     comparator,
		MaxDistance:    cfg.MaxDistance,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Log:            logger,
	}

	gin.SetMode(cfg.GinMode)
	r := api.Router(h, logger, cfg.CORSOrigins)

	logger.Info("server starting",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("config", hashing.Tag()),
		zap.String("transform", string(hashing.Transform)),
		zap.Int("max_distance", cfg.MaxDistance),
	)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logger.Fatal("could not start server", zap.Error(err))
	}
}
