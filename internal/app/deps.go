package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"email-assistant/internal/assistant"
	"email-assistant/internal/cache"
	"email-assistant/internal/config"
	"email-assistant/internal/history"
	"email-assistant/internal/llm"
	"email-assistant/internal/logger"
	"email-assistant/internal/queue"
	"email-assistant/internal/settings"
	"email-assistant/internal/store"
)

// Deps bundles runtime dependencies of the API service.
type Deps struct {
	Config    config.Config
	Log       *slog.Logger
	Store     store.Store
	Settings  *settings.Service
	Assistant *assistant.Service
	History   *history.Reader

	closers []io.Closer
}

// RecorderDeps bundles runtime dependencies of the history recorder worker.
type RecorderDeps struct {
	Config config.Config
	Log    *slog.Logger
	Store  store.Store
	Queue  queue.Queue

	closers []io.Closer
}

// Build loads env, config, and shared components for the API.
func Build() (Deps, error) {
	cfg, log, err := bootstrap()
	if err != nil {
		return Deps{}, err
	}

	st, err := buildStore(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize store: %w", err)
	}
	closers := []io.Closer{st}

	c := buildCache(cfg, log)
	closers = append(closers, c)

	completer, err := buildCompleter(cfg, log)
	if err != nil {
		closeAll(log, closers)
		return Deps{}, fmt.Errorf("failed to initialize completion client: %w", err)
	}

	var recorder assistant.Recorder
	q, nc, err := buildQueue(cfg, log)
	if err != nil {
		closeAll(log, closers)
		return Deps{}, fmt.Errorf("failed to initialize queue: %w", err)
	}
	if q != nil {
		recorder = history.NewPublisher(q, log)
		closers = append(closers, natsCloser{nc})
	} else {
		log.Info("request history disabled", "queue_provider", cfg.QueueProvider)
	}

	settingsSvc := settings.NewService(st, c, cfg.SettingsCacheTTL, log).
		WithDefaults(cfg.DefaultModel, cfg.DefaultMaxTokens)

	return Deps{
		Config:    cfg,
		Log:       log,
		Store:     st,
		Settings:  settingsSvc,
		Assistant: assistant.New(log, settingsSvc, completer, recorder),
		History:   history.NewReader(st, cfg.HistoryLimit),
		closers:   closers,
	}, nil
}

// BuildRecorder loads config, store and queue for the recorder worker.
// A queue is mandatory here.
func BuildRecorder() (RecorderDeps, error) {
	cfg, log, err := bootstrap()
	if err != nil {
		return RecorderDeps{}, err
	}

	st, err := buildStore(cfg, log)
	if err != nil {
		return RecorderDeps{}, fmt.Errorf("failed to initialize store: %w", err)
	}
	q, nc, err := buildQueue(cfg, log)
	if err != nil {
		_ = st.Close()
		return RecorderDeps{}, fmt.Errorf("failed to initialize queue: %w", err)
	}
	if q == nil {
		_ = st.Close()
		return RecorderDeps{}, fmt.Errorf("recorder requires a queue (QUEUE_PROVIDER=%s)", cfg.QueueProvider)
	}

	return RecorderDeps{
		Config:  cfg,
		Log:     log,
		Store:   st,
		Queue:   q,
		closers: []io.Closer{natsCloser{nc}, st},
	}, nil
}

// Close releases connections opened by Build.
func (d Deps) Close() { closeAll(d.Log, d.closers) }

// Close releases connections opened by BuildRecorder.
func (d RecorderDeps) Close() { closeAll(d.Log, d.closers) }

func bootstrap() (config.Config, *slog.Logger, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.Config{}, nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := config.Load()
	return cfg, logger.New(cfg.LogLevel), nil
}

func buildStore(cfg config.Config, log *slog.Logger) (*store.PostgresStore, error) {
	switch cfg.StoreProvider {
	case "postgres":
		if cfg.DBURL == "" {
			return nil, fmt.Errorf("DB_URL is required when STORE_PROVIDER=postgres")
		}
		db, err := store.NewPostgres(cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres: %w", err)
		}
		log.Info("using Postgres store")
		return db, nil
	default:
		return nil, fmt.Errorf("invalid STORE_PROVIDER: %s (valid option: postgres)", cfg.StoreProvider)
	}
}

// buildCache never fails; an unreachable Redis degrades to no caching.
func buildCache(cfg config.Config, log *slog.Logger) cache.Cache {
	if cfg.RedisAddr == "" {
		log.Info("settings cache disabled")
		return cache.NewNoOpCache()
	}
	c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Warn("redis unavailable, settings cache disabled", "addr", cfg.RedisAddr, "err", err)
		return cache.NewNoOpCache()
	}
	log.Info("using Redis settings cache", "addr", cfg.RedisAddr, "ttl", cfg.SettingsCacheTTL)
	return c
}

func buildCompleter(cfg config.Config, log *slog.Logger) (llm.Completer, error) {
	switch cfg.LLMProvider {
	case "http":
		log.Info("using HTTP completion client", "endpoint", cfg.CompletionURL, "timeout", cfg.CompletionTimeout)
		return llm.NewHTTPClient(cfg.CompletionURL, cfg.CompletionTimeout), nil
	case "openai":
		log.Info("using OpenAI SDK completion client", "base_url", cfg.OpenAIBaseURL, "timeout", cfg.CompletionTimeout)
		return llm.NewOpenAIClient(cfg.OpenAIBaseURL, cfg.CompletionTimeout), nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid options: http, openai)", cfg.LLMProvider)
	}
}

// buildQueue returns a nil queue for QUEUE_PROVIDER=none.
func buildQueue(cfg config.Config, log *slog.Logger) (queue.Queue, *nats.Conn, error) {
	switch cfg.QueueProvider {
	case "nats":
		if cfg.QueueURL == "" {
			return nil, nil, fmt.Errorf("QUEUE_URL is required when QUEUE_PROVIDER=nats")
		}
		nc, err := nats.Connect(cfg.QueueURL, nats.Name("email-assistant"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		log.Info("using NATS queue")
		return queue.NewNATS(log, nc), nc, nil
	case "none":
		return nil, nil, nil
	default:
		return nil, nil, fmt.Errorf("invalid QUEUE_PROVIDER: %s (valid options: nats, none)", cfg.QueueProvider)
	}
}

type natsCloser struct{ nc *nats.Conn }

func (c natsCloser) Close() error {
	return c.nc.Drain()
}

func closeAll(log *slog.Logger, closers []io.Closer) {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			log.Warn("close failed", "err", err)
		}
	}
}
