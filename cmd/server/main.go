package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/weaverapp/backend/api/handler"
	"github.com/weaverapp/backend/internal/ai"
	"github.com/weaverapp/backend/internal/config"
	"github.com/weaverapp/backend/internal/infrastructure/buffer"
	"github.com/weaverapp/backend/internal/infrastructure/monitor"
	pgInfra "github.com/weaverapp/backend/internal/infrastructure/postgres"
	redisInfra "github.com/weaverapp/backend/internal/infrastructure/redis"
	"github.com/weaverapp/backend/internal/middleware"
	"github.com/weaverapp/backend/internal/router"
	"github.com/weaverapp/backend/internal/services"
	"github.com/weaverapp/backend/internal/services/lifecycle"
	"github.com/weaverapp/backend/pkg/httpcontext"
	"github.com/weaverapp/backend/pkg/logger"
	"github.com/weaverapp/backend/repository/postgres"
	redisRepo "github.com/weaverapp/backend/repository/redis"
	authUC "github.com/weaverapp/backend/usecase/auth"
	chatUC "github.com/weaverapp/backend/usecase/chat"
	historyUC "github.com/weaverapp/backend/usecase/history"
	plannerUC "github.com/weaverapp/backend/usecase/planner"
	profileUC "github.com/weaverapp/backend/usecase/profile"
	taskUC "github.com/weaverapp/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Service:  cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "buffer")
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(pool, redisClient, bufferStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	planRepo := postgres.NewPlanRepository(pool)
	chatRepo := postgres.NewChatSessionRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.SessionTTL)

	bufferProcessor := services.NewBufferProcessor(
		bufferStore,
		mon,
		userRepo,
		taskRepo,
		planRepo,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Buffer.MaxRetry,
		},
	)
	bufferProcessor.Start()
	manager.Register("buffer_processor", func(ctx context.Context) error {
		bufferProcessor.Stop(ctx)
		return nil
	})

	bufferBridge := services.NewBufferBridge(bufferProcessor)

	aiClient := ai.NewClient(ai.Config{
		APIKey:         cfg.OpenAI.APIKey,
		BaseURL:        cfg.OpenAI.BaseURL,
		Model:          cfg.OpenAI.Model,
		RequestTimeout: cfg.OpenAI.RequestTimeout,
	})

	authUseCase := authUC.New(userRepo, sessionRepo, cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	plannerUseCase := plannerUC.New(planRepo, taskRepo, statsRepo, bufferBridge, zapLogger)
	chatUseCase := chatUC.New(aiClient, chatRepo, taskRepo, statsRepo, plannerUseCase, zapLogger)
	taskUseCase := taskUC.New(taskRepo, statsRepo, bufferBridge, zapLogger)
	profileUseCase := profileUC.New(userRepo, taskRepo, planRepo, chatRepo, statsRepo, bufferBridge, zapLogger)
	historyUseCase := historyUC.New(chatRepo, planRepo, taskRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, cfg.JWT.SessionTTL),
		Chat:    apiHandler.NewChatHandler(chatUseCase, plannerUseCase, ctxAdapter, zapLogger),
		Plan:    apiHandler.NewPlanHandler(plannerUseCase, ctxAdapter, zapLogger),
		Task:    apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Profile: apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		History: apiHandler.NewHistoryHandler(historyUseCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
