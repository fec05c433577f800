package api

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"photohash/api/handler"
	_ "photohash/docs"
	"photohash/internal/logging"
)

// @title Perceptual Hash API
// @version 1.1
// @description DCT perceptual hashing and Hamming distance comparison of images
// @BasePath /
func Router(hand *handler.Handler, log *zap.Logger, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(logging.GinLogger(log), gin.Recovery())
	r.Use(cors.New(corsConfig(origins)))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.POST("/hash", hand.HashHandler)
	r.POST("/compare", hand.CompareHandler)
	r.POST("/distance", hand.DistanceHandler)

	admin := r.Group("/admin")
	{
		admin.GET("/config", hand.ConfigHandler)
		admin.GET("/hello", hand.Hello)
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
