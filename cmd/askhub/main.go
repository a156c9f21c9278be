package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/kesona/askhub/internal/agent"
	"github.com/kesona/askhub/internal/ai"
	"github.com/kesona/askhub/internal/config"
	"github.com/kesona/askhub/internal/embedcache"
	"github.com/kesona/askhub/internal/filestore"
	"github.com/kesona/askhub/internal/handler"
	"github.com/kesona/askhub/internal/job"
	"github.com/kesona/askhub/internal/middleware"
	"github.com/kesona/askhub/internal/rag"
	"github.com/kesona/askhub/internal/schedule"
	"github.com/kesona/askhub/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "askhub",
		Short: "askhub query answering server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run askhub server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			_ = godotenv.Load()
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
			return runServer(cfg)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("file_store", cfg.FileStore.Type),
	)

	provider, err := ai.NewProvider(cfg.AI.Provider, cfg.AI.Data)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	provider = ai.WithTimeout(provider, time.Duration(cfg.AI.TimeoutSec)*time.Second)
	generator := ai.NewGenerator(provider, cfg.AI.Model)
	embedder := embedcache.WrapLruCacheToEmbedder(
		ai.NewEmbedder(provider, cfg.AI.EmbedModel),
		cfg.AI.CacheSize,
		time.Duration(cfg.AI.CacheTTLSec)*time.Second,
	)

	segmenter, err := rag.NewSegmenter(cfg.RAG.Segmenter)
	if err != nil {
		return fmt.Errorf("init segmenter: %w", err)
	}
	ragStore := rag.NewStore(segmenter, embedder)

	docQA := agent.NewDocQA(ragStore, generator, cfg.RAG.TopK)
	agents := []agent.Agent{
		docQA,
		agent.NewWebSearch(generator, cfg.WebSearch.Endpoint, cfg.WebSearch.MaxResults),
		agent.NewArxiv(generator, cfg.Arxiv.Endpoint, cfg.Arxiv.MaxResults),
		agent.NewSynthesis(generator),
	}
	askService := service.NewAskService(
		agent.NewController(generator),
		agents,
		cfg.AI.MaxInputChars,
		cfg.AI.CacheSize,
		time.Duration(cfg.AI.CacheTTLSec)*time.Second,
	)

	files, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}
	documentService := service.NewDocumentService(ragStore, docQA, files, cfg.Upload.Keep, cfg.Upload.MaxSizeBytes)

	deps := handler.RouterDeps{
		Ask:             handler.NewAskHandler(askService),
		Documents:       handler.NewDocumentHandler(documentService, cfg.Upload.MaxSizeBytes),
		Logs:            handler.NewLogHandler(cfg.LogConfig.File),
		UploadRateLimit: time.Duration(cfg.Upload.RateLimitSec) * time.Second,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORS),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if cfg.Upload.Keep && cfg.FileStore.Type == "local" {
		cleanup := job.NewUploadCleanupJob(localStoreDir(cfg.FileStore), time.Duration(cfg.Upload.KeepDays)*24*time.Hour)
		if err := scheduler.AddJob(cleanup, "0 3 * * *"); err != nil {
			return fmt.Errorf("schedule cleanup job: %w", err)
		}
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}

func localStoreDir(cfg filestore.Config) string {
	if data, ok := cfg.Data.(map[string]interface{}); ok {
		if dir, ok := data["dir"].(string); ok && dir != "" {
			return dir
		}
	}
	return "./uploads"
}
