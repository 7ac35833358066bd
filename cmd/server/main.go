package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"blog-cms/internal/bootstrap"
	"blog-cms/internal/config"
	apphttp "blog-cms/internal/http"
	"blog-cms/internal/logging"
	"blog-cms/internal/repository/memory"
	"blog-cms/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info", "text").Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	objects, err := bootstrap.BuildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	persister, err := bootstrap.OpenPersister(ctx, cfg, objects, logger)
	if err != nil {
		logger.Fatalf("open persistence: %v", err)
	}
	defer persister.Close()

	store := memory.NewStore()
	bootstrap.Restore(ctx, store, persister, logger)

	userRepo := memory.NewUserRepository(store)
	postRepo := memory.NewPostRepository(store)
	committer := service.NewCommitter(store, persister, logger)

	userService := service.NewUserService(userRepo, committer)
	postService := service.NewPostService(postRepo, userRepo, committer)

	gin.SetMode(cfg.Gin.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(
		userService,
		postService,
		objects,
		cfg.Storage.Bucket,
		cfg.Storage.KeyPrefix,
		logger,
	)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s (persistence: %s)", cfg.Server.Addr, cfg.Persistence.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}
