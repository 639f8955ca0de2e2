package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jengzang/locstore-backend-go/internal/api"
	"github.com/jengzang/locstore-backend-go/internal/app"
	"github.com/jengzang/locstore-backend-go/internal/config"
	"github.com/jengzang/locstore-backend-go/internal/database"
	"github.com/jengzang/locstore-backend-go/internal/handler"
	"github.com/jengzang/locstore-backend-go/internal/logger"
	"github.com/jengzang/locstore-backend-go/internal/middleware"
	"github.com/jengzang/locstore-backend-go/internal/parser"
	"github.com/jengzang/locstore-backend-go/internal/repository"
	"github.com/jengzang/locstore-backend-go/internal/service"
	"github.com/jengzang/locstore-backend-go/internal/spatial"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.Setup(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// 初始化数据库
	if err := database.Init(database.Config{Path: cfg.Database.Path}); err != nil {
		log.Fatal("server: failed to initialize database", zap.Error(err))
	}
	defer database.Close()
	db := database.GetDB()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table, err := app.LoadTable(ctx, cfg, repository.NewCellRepository(db))
	if err != nil {
		log.Fatal("server: failed to load lookup table", zap.Error(err))
	}
	log.Info("server: lookup table loaded", zap.Int("entries", table.Len()))

	opts, err := app.ParserOptions(cfg)
	if err != nil {
		log.Fatal("server: invalid parser options", zap.Error(err))
	}
	normalizer := app.Normalizer(cfg)
	p := parser.New(table, normalizer, opts, log.Named("parser"))

	planner := spatial.NewPlanner(cfg.Planner.MaxBits, cfg.Planner.MaxRanges)
	handlers := api.Handlers{
		Query: handler.NewQueryHandler(service.NewQueryService(planner, repository.NewIndexRepository(db), normalizer)),
		Parse: handler.NewParseHandler(service.NewParseService(p)),
		Runs:  handler.NewRunHandler(service.NewRunService(repository.NewRunRepository(db))),
	}

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow)
	defer limiter.Stop()

	// 初始化路由
	router := api.SetupRouter(cfg, handlers, limiter, log)
	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server: listening", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server: failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("server: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server: shutdown failed", zap.Error(err))
	}
}
