package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newt/internal/auth"
	"newt/internal/cache"
	"newt/internal/chat"
	"newt/internal/config"
	"newt/internal/db"
	"newt/internal/digest"
	"newt/internal/feed"
	httpx "newt/internal/http"
	"newt/internal/jobs"
	"newt/internal/like"
	"newt/internal/llm"
	"newt/internal/logger"
	"newt/internal/news"
	"newt/internal/reading"
	"newt/internal/summary"
	"newt/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.L().Error("config load failed", "err", err)
		os.Exit(1)
	}
	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log := logger.L()

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		log.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	rc := cache.NewRedisCache(cache.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rc.Ping(context.Background()); err != nil {
		log.Error("redis ping failed", "err", err, "addr", cfg.Redis.Addr)
		os.Exit(1)
	}

	llmClient := llm.NewHTTPClient(llm.Options{
		BaseURL:    cfg.LLM.BaseURL,
		APIKey:     cfg.LLM.APIKey,
		Model:      cfg.LLM.Model,
		EmbedModel: cfg.LLM.EmbedModel,
	})
	newsClient := news.NewClient(cfg.News.BaseURL, cfg.News.APIKey)

	users := user.NewService(gdb, rc)
	readingSvc := reading.NewService(gdb, cfg.Location)
	summaries := &summary.Repo{DB: gdb}
	likes := &like.Repo{DB: gdb}
	assembler := feed.NewAssembler(likes, summaries, llmClient, rc, cfg.FeedPerTopic)
	assistant := chat.NewAssistant(summaries, llmClient, 3)
	generator := digest.NewGenerator(newsClient, llmClient, summaries)

	jwtSvc := auth.NewJWT(cfg.JWTSecret)
	jobsRepo := &jobs.Repo{DB: gdb}

	r := httpx.NewRouter(cfg, httpx.Deps{
		JWT:       jwtSvc,
		Users:     users,
		Reading:   readingSvc,
		Summaries: summaries,
		Likes:     likes,
		Feed:      assembler,
		Assistant: assistant,
		Jobs:      jobsRepo,
		Topics:    digest.DefaultTopics,
	})

	worker := &jobs.Worker{ID: "worker-1", Repo: jobsRepo, Generator: generator}

	ctx, cancel := context.WithCancel(context.Background())
	go worker.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server stopped", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
