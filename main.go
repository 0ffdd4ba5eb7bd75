package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cafe-api/config"
	"github.com/yeremiapane/cafe-api/database"
	"github.com/yeremiapane/cafe-api/kds"
	"github.com/yeremiapane/cafe-api/router"
	"github.com/yeremiapane/cafe-api/services"
	"github.com/yeremiapane/cafe-api/utils"
)

func main() {
	cfg := config.Load()
	utils.InitLogger(cfg.Server.LogLevel)

	if cfg.Server.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.UsesDefaultAPIKey() {
		utils.InfoLogger.Warn("API_KEY is not set, report-closed is guarded by the default key")
	}

	db, err := database.Open(cfg.Database, gin.Mode() == gin.DebugMode)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("%v", err)
	}
	if _, err := database.Seed(db, cfg.Database.SeedFile); err != nil {
		utils.ErrorLogger.Errorf("Seeding skipped: %v", err)
	}

	store := services.NewCafeStore(db)
	hub := kds.NewHub()
	r := router.SetupRouter(cfg, store, hub)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s (%s database)", cfg.Server.Port, cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.InfoLogger.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Errorf("Server forced to shutdown: %v", err)
	}
	utils.InfoLogger.Println("Server exited")
}
