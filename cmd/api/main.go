package main

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	dbadapter "tripmatch/internal/adapter/db"
	httpadapter "tripmatch/internal/adapter/http"
	"tripmatch/internal/adapter/http/handlers"
	httpmiddleware "tripmatch/internal/adapter/http/middleware"
	"tripmatch/internal/adapter/notify"
	appservice "tripmatch/internal/app/service"
	"tripmatch/internal/config"
	"tripmatch/pkg/translator"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	translator.InitTranslator()

	cfg := config.LoadConfig()
	db, err := dbadapter.ConnectDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to mysql", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close mysql connection", zap.Error(err))
		}
	}()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("failed to close redis connection", zap.Error(err))
			}
		}()
	}

	store := dbadapter.NewStore(db)
	directory := dbadapter.NewUserDirectory(db)
	dispatcher := notify.NewDispatcher(db, redisClient)
	workflowService := appservice.NewWorkflowService(store, dispatcher, directory)
	flowService := appservice.NewTaskFlowService(store, workflowService, dispatcher)

	r := gin.New()
	r.Use(gin.Recovery(), httpmiddleware.RequestIDMiddleware(), httpmiddleware.GinZapMiddleware(logger))
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Fatal("invalid trusted proxies", zap.Error(err))
	}

	httpadapter.RegisterRoutes(
		r,
		handlers.NewHealthHandler(db, redisClient),
		handlers.NewTaskHandler(flowService),
		handlers.NewWorkflowHandler(workflowService),
		handlers.NewApplicationHandler(flowService),
		handlers.NewRatingHandler(flowService),
	)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	addr := ":" + port
	logger.Info("starting server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("could not start server", zap.Error(err))
	}
}
