package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coursehub/config"
	"coursehub/controller"
	"coursehub/database"
	"coursehub/logger"
	"coursehub/middlewares"
	"coursehub/route"
	"coursehub/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	envErr := godotenv.Load()
	cfg, cfgErr := config.Load()

	mode := "development"
	if cfg != nil {
		mode = cfg.LogMode
	}
	log, err := logger.New(mode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if envErr != nil {
		log.Debug("no .env file loaded", "error", envErr)
	}
	if cfgErr != nil {
		log.Fatal("Invalid configuration", "error", cfgErr)
	}
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()
	client, err := database.Connect(ctx, cfg.ConnectionString(), cfg.ConnectTimeout, log)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	courses := database.NewCourseRepository(client, cfg.DBName, log)

	routerCfg := route.RouterConfig{
		Log:     log,
		Courses: controller.NewCourseController(log, courses, cfg.RequestTimeout),
		Health:  controller.NewHealthController(log, courses, cfg.RequestTimeout),

		TrustedProxies: cfg.TrustedProxies,
	}

	if cfg.ThumbnailsEnabled() {
		uploader, err := storage.NewS3Uploader(ctx, cfg.BucketName, cfg.AWSRegion)
		if err != nil {
			log.Fatal("Failed to initialise S3 client", "error", err)
		}
		routerCfg.Thumbnails = controller.NewThumbnailController(log, courses, uploader, cfg.RequestTimeout)
		log.Info("Thumbnail uploads enabled", "bucket", cfg.BucketName)
	}

	if cfg.RateLimit > 0 {
		routerCfg.RateLimiter = middlewares.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)
		defer routerCfg.RateLimiter.Stop()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      route.NewRouter(routerCfg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server is running", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Error("MongoDB disconnect failed", "error", err)
	}
	log.Info("Server shut down gracefully")
}
