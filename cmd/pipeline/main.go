package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/shoki0322/ai-news-pipeline/internal/config"
	"github.com/shoki0322/ai-news-pipeline/internal/feed"
	"github.com/shoki0322/ai-news-pipeline/internal/notify"
	"github.com/shoki0322/ai-news-pipeline/internal/openai"
	"github.com/shoki0322/ai-news-pipeline/internal/pipeline"
	"github.com/shoki0322/ai-news-pipeline/internal/publisher"
	"github.com/shoki0322/ai-news-pipeline/internal/scheduler"
	"github.com/shoki0322/ai-news-pipeline/internal/storage/postgres"
	"github.com/shoki0322/ai-news-pipeline/internal/summarize"
	"github.com/shoki0322/ai-news-pipeline/internal/translate"
	"github.com/shoki0322/ai-news-pipeline/internal/watermark"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	limit := flag.Int("limit", 0, "process at most N articles (0 = no limit)")
	noSlack := flag.Bool("no-slack", false, "disable Slack notifications")
	todayOnly := flag.Bool("today-only", false, "only process articles published today (JST)")
	slackChannel := flag.String("slack-channel", "", "Slack channel override")
	summaryMaxChars := flag.Int("summary-max-chars", 0, "summary max characters override")
	summaryMinChars := flag.Int("summary-min-chars", 0, "summary min characters override")
	summaryMaxSentences := flag.Int("summary-max-sentences", 0, "summary max sentences override")
	interval := flag.Duration("interval", 0, "re-run every interval (0 = run once)")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	sources, err := config.LoadSources(cfg.Feeds.SourcesFile)
	if err != nil {
		logger.Error("failed to load feed sources", "error", err)
		os.Exit(1)
	}

	location, err := time.LoadLocation(cfg.Pipeline.Timezone)
	if err != nil {
		logger.Error("failed to resolve timezone", "timezone", cfg.Pipeline.Timezone, "error", err)
		os.Exit(1)
	}

	opts := pipeline.Options{
		Limit:        *limit,
		TodayOnly:    *todayOnly,
		NoSlack:      *noSlack,
		SlackChannel: cfg.Slack.Channel,
		Summary: summarize.Options{
			MaxChars:     cfg.Summary.MaxChars,
			MinChars:     cfg.Summary.MinChars,
			MaxSentences: cfg.Summary.MaxSentences,
		},
		Lookback: cfg.Pipeline.Lookback,
		Location: location,
	}
	if *slackChannel != "" {
		opts.SlackChannel = *slackChannel
	}
	if *summaryMaxChars > 0 {
		opts.Summary.MaxChars = *summaryMaxChars
	}
	if *summaryMinChars > 0 {
		opts.Summary.MinChars = *summaryMinChars
	}
	if *summaryMaxSentences > 0 {
		opts.Summary.MaxSentences = *summaryMaxSentences
	}

	deps := pipeline.Deps{
		Source: feed.New(sources, feed.Config{
			Timeout:        cfg.Feeds.Timeout,
			MaxAttempts:    cfg.Feeds.Retry.MaxAttempts,
			InitialBackoff: cfg.Feeds.Retry.InitialBackoff,
			MaxBackoff:     cfg.Feeds.Retry.MaxBackoff,
		}, logger),
		Watermark: watermark.NewFileStore(cfg.Pipeline.WatermarkPath, logger),
		Logger:    logger,
	}

	if cfg.Database.Enabled() {
		db, err := sqlx.Connect("postgres", cfg.Database.DSN())
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		logger.Info("connected to database")
		deps.Store = postgres.NewKnowledgeStore(db)
	} else {
		logger.Warn("database not configured, existence check and store write disabled")
	}

	llm := openai.NewClient(cfg.OpenAI)
	if llm.Configured() {
		deps.Translator = translate.NewChain(logger, translate.NewOpenAI(llm))
		deps.Summarizer = summarize.NewChain(logger, summarize.NewOpenAI(llm), summarize.NewExtractive())
	} else {
		logger.Warn("openai not configured, using local fallbacks")
		deps.Translator = translate.NewChain(logger)
		deps.Summarizer = summarize.NewChain(logger, summarize.NewExtractive())
	}

	deps.Notifier = notify.NewSlack(cfg.Slack.Token, logger)

	if cfg.RabbitMQ.URL != "" {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		deps.Publisher = rabbitMQ
	}

	p := pipeline.New(deps, opts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if *interval > 0 {
		sched := scheduler.New(p, *interval, cfg.Pipeline.RunTimeout, logger)
		if err := sched.Start(ctx); err != nil && err != context.Canceled {
			logger.Error("scheduler error", "error", err)
			os.Exit(1)
		}
		return
	}

	runCtx, cancelRun := context.WithTimeout(ctx, cfg.Pipeline.RunTimeout)
	defer cancelRun()

	processed, err := p.Run(runCtx)
	if err != nil {
		logger.Error("pipeline failed", "error", err)
		os.Exit(1)
	}
	logger.Info("pipeline done", "processed", len(processed))
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
