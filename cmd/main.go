package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"newsbrief/internal/api"
	"newsbrief/internal/bot"
	"newsbrief/internal/config"
	"newsbrief/internal/extractor"
	"newsbrief/internal/llm"
	"newsbrief/internal/pipeline"
	"newsbrief/internal/scheduler"
	"newsbrief/internal/source"
	"newsbrief/internal/summarizer"
	"newsbrief/internal/validator"
)

const openAIMaxRetries = 2

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	start := time.Now()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.ErrorContext(ctx, "Failed to load config",
			"error", err)

		return
	}

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)

	model, err := llm.NewOpenAIModel(llm.OpenAIConfig{
		APIKey:     cfg.OpenAIAPIKey,
		Model:      cfg.OpenAIModel,
		BaseURL:    cfg.OpenAIBaseURL,
		Timeout:    cfg.OpenAITimeout,
		MaxRetries: openAIMaxRetries,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize OpenAI model",
			"error", err,
			"model", cfg.OpenAIModel)

		return
	}
	log.InfoContext(ctx, "OpenAI model is initialized",
		"model", cfg.OpenAIModel,
		"customBaseURL", cfg.OpenAIBaseURL != "")

	p := pipeline.New(pipeline.Deps{
		Validator:  validator.New(model, log),
		Source:     initSource(ctx, cfg, log),
		Extractor:  initExtractor(cfg, log),
		Summarizer: summarizer.New(model),
	}, pipeline.Config{
		ArticleLimit:         cfg.ArticleLimit,
		ArticleMaxChars:      cfg.ArticleMaxChars,
		ConsolidatedMaxChars: cfg.ConsolidatedMaxChars,
	}, log)

	var wg sync.WaitGroup

	router := api.NewRouter(p, api.Config{RequestTimeout: cfg.HTTPRequestTimeout}, log)
	server := api.NewServer(cfg.HTTPAddr, router, log)

	wg.Go(func() {
		if err := server.Start(ctx); err != nil {
			log.ErrorContext(ctx, "HTTP server failed",
				"error", err,
				"addr", cfg.HTTPAddr)
			cancel()
		}
	})

	if cfg.Token != "" {
		botInst, err := initBot(ctx, cfg, p, log)
		if err != nil {
			cancel()
		} else {
			defer botInst.Stop()

			wg.Go(func() {
				botInst.Start(ctx)
			})
			log.InfoContext(ctx, "Bot is started",
				"updateTimeoutSeconds", bot.BotUpdateTimeout)

			if sched := initScheduler(ctx, cfg, p, botInst, log); sched != nil {
				defer sched.Stop()
			}
		}
	} else {
		log.InfoContext(ctx, "TOKEN is empty so bot is disabled",
			"envVar", "TOKEN")
	}

	<-ctx.Done()
	log.InfoContext(ctx, "Shutdown is started",
		"cause", context.Cause(ctx))

	wg.Wait()

	log.InfoContext(ctx, "Exiting...",
		"uptimeSeconds", time.Since(start).Seconds())
}

func initSource(ctx context.Context, cfg config.Config, log *slog.Logger) pipeline.Source {
	if cfg.NewsAPIKey == "" {
		log.WarnContext(ctx, "NEWS_API_KEY is missing so Google News RSS will be used",
			"envVar", "NEWS_API_KEY",
			"endpoint", cfg.GoogleNewsRSSURL)

		return source.NewGoogleNewsRSS(source.GoogleNewsRSSConfig{
			Endpoint: cfg.GoogleNewsRSSURL,
			Language: cfg.NewsLanguage,
			Timeout:  cfg.NewsTimeout,
		}, log)
	}

	log.InfoContext(ctx, "NewsAPI source is initialized",
		"endpoint", cfg.NewsAPIURL,
		"retryAttempts", cfg.NewsRetryAttempts)

	return source.NewNewsAPI(source.NewsAPIConfig{
		Endpoint:      cfg.NewsAPIURL,
		APIKey:        cfg.NewsAPIKey,
		Language:      cfg.NewsLanguage,
		Timeout:       cfg.NewsTimeout,
		RetryAttempts: cfg.NewsRetryAttempts,
	}, log)
}

func initExtractor(cfg config.Config, log *slog.Logger) *extractor.Extractor {
	return extractor.New(extractor.Config{
		Timeout:     cfg.ExtractTimeout,
		Budget:      cfg.ExtractBudget,
		Concurrency: cfg.ExtractConcurrency,
	}, log)
}

func initBot(ctx context.Context, cfg config.Config, p *pipeline.Pipeline, log *slog.Logger) (*bot.Bot, error) {
	botInst, err := bot.New(cfg.Token, p, cfg.AllowedUsers, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize bot",
			"error", err,
			"allowedUsersCount", len(cfg.AllowedUsers))

		return nil, err
	}

	log.InfoContext(ctx, "Bot is initialized",
		"allowedUsersCount", len(cfg.AllowedUsers))

	return botInst, nil
}

func initScheduler(
	ctx context.Context,
	cfg config.Config,
	p *pipeline.Pipeline,
	botInst *bot.Bot,
	log *slog.Logger,
) *scheduler.Scheduler {
	if !cfg.DigestEnabled() {
		log.InfoContext(ctx, "Scheduled digests are disabled",
			"topicCount", len(cfg.DigestTopics),
			"chatCount", len(cfg.DigestChatIDs))

		return nil
	}

	sched := scheduler.New(ctx, p, botInst, scheduler.Config{
		Spec:    cfg.DigestSchedule,
		Topics:  cfg.DigestTopics,
		ChatIDs: cfg.DigestChatIDs,
	}, log)

	if err := sched.Start(); err != nil {
		log.ErrorContext(ctx, "Failed to start scheduler",
			"error", err,
			"spec", cfg.DigestSchedule,
			"timezone", scheduler.Timezone)

		return nil
	}

	log.InfoContext(ctx, "Scheduler is started",
		"spec", cfg.DigestSchedule,
		"timezone", scheduler.Timezone,
		"topicCount", len(cfg.DigestTopics),
		"chatCount", len(cfg.DigestChatIDs))

	return sched
}
