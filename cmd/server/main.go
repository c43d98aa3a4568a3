package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"
	"github.com/gin-gonic/gin"

	"github.com/jengzang/ecomap-backend-go/internal/api"
	"github.com/jengzang/ecomap-backend-go/internal/config"
	"github.com/jengzang/ecomap-backend-go/internal/database"
)

func main() {
	log.SetHandler(text.New(os.Stderr))

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}
	log.SetLevel(cfg.Level())
	if cfg.Level() > log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化数据库
	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close()

	// 初始化路由
	router, err := api.SetupRouter(cfg, database.GetDB())
	if err != nil {
		log.WithError(err).Fatal("Failed to set up router")
	}
	defer router.Close()

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}
