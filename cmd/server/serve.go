package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"algotutor-go/internal/config"
	"algotutor-go/internal/handler"
	"algotutor-go/internal/repository"
	"algotutor-go/internal/service"
	"algotutor-go/pkg/database"
	"algotutor-go/pkg/kafka"
	"algotutor-go/pkg/llm"
	"algotutor-go/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*configPath)
		},
	}
}

// loadConfig 加载并校验配置，然后初始化日志记录器。
func loadConfig(configPath string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	return cfg, nil
}

// openStore 根据配置选择存储实现：内存、GORM，以及可选的 Redis 消息缓存。
func openStore(ctx context.Context, cfg config.DatabaseConfig) (repository.Store, error) {
	if cfg.Driver == config.DriverMemory {
		log.Info("使用内存存储，进程退出后数据不会保留")
		return repository.NewMemoryStore(), nil
	}

	db, err := database.OpenGorm(cfg)
	if err != nil {
		return nil, err
	}
	if err := repository.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	store := repository.NewGormStore(db)

	if !cfg.Redis.Enabled {
		return store, nil
	}
	rdb, err := database.NewRedis(ctx, cfg.Redis)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return repository.WithMessageCache(store, rdb, cfg.Redis.TTL), nil
}

func runServe(configPath string) error {
	// 1. 初始化配置与日志
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 2. 初始化存储
	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := openStore(startCtx, cfg.Database)
	cancelStart()
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Errorf("关闭存储失败: %v", err)
		}
	}()

	// 3. 初始化事件发布者（可选）
	var publisher service.EventPublisher
	if cfg.Kafka.Enabled {
		kafkaPublisher := kafka.NewPublisher(cfg.Kafka)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				log.Errorf("关闭 Kafka 生产者失败: %v", err)
			}
		}()
		publisher = kafkaPublisher
	}

	// 4. 初始化 Service (依赖注入)
	llmClient := llm.NewClient(cfg.LLM)
	tutorService := service.NewTutorService(llmClient)
	services := handler.Services{
		Conversations: service.NewConversationService(store),
		Chat:          service.NewChatService(store, tutorService, publisher),
		Users:         service.NewUserService(store),
		Catalog:       service.NewCatalogService(),
	}

	// 5. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: handler.NewRouter(services),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("HTTP 服务监听失败: %w", err)
		}
		return nil
	case <-quit:
	}
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP 服务器关闭失败: %w", err)
	}
	log.Info("服务已优雅关闭")
	return nil
}
