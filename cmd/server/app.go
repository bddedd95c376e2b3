package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/careerplus/careerplus-api/internal/assistant"
	"github.com/careerplus/careerplus-api/internal/config"
	"github.com/careerplus/careerplus-api/internal/llm"
	"github.com/careerplus/careerplus-api/internal/platform/gemini"
	"github.com/careerplus/careerplus-api/internal/platform/ollama"
	"github.com/careerplus/careerplus-api/internal/platform/openai"
	"github.com/careerplus/careerplus-api/internal/platform/postgres"
	"github.com/careerplus/careerplus-api/internal/platform/telegram"
	"github.com/careerplus/careerplus-api/internal/redact"
	"github.com/careerplus/careerplus-api/internal/service"
	"github.com/careerplus/careerplus-api/internal/service/auth"
	"github.com/careerplus/careerplus-api/internal/store"
	"github.com/careerplus/careerplus-api/internal/task"
)

// sessionSweepInterval is how often expired assistant sessions are removed.
const sessionSweepInterval = 5 * time.Minute

// sessionSweeper removes expired sessions until ctx is done.
type sessionSweeper interface {
	Run(ctx context.Context, interval time.Duration)
}

// storeSet bundles the persistence the application is built on.
type storeSet struct {
	profiles     store.ProfileStore
	gigs         store.GigStore
	applications store.ApplicationStore
	messages     store.MessageStore
	reviews      store.ReviewStore
	tx           store.Transactor
	sessions     assistant.SessionStore
	sweeper      sessionSweeper
}

// postgresStores builds the PostgreSQL-backed stores. Assistant sessions live
// in memory unless the configuration asks for the database.
func postgresStores(db *sql.DB, cfg *config.Config, logger *slog.Logger) storeSet {
	ttl := time.Duration(cfg.Assistant.SessionTTLMinutes) * time.Minute
	set := storeSet{
		profiles:     postgres.NewPostgresProfileStore(db, logger),
		gigs:         postgres.NewPostgresGigStore(db, logger),
		applications: postgres.NewPostgresApplicationStore(db, logger),
		messages:     postgres.NewPostgresMessageStore(db, logger),
		reviews:      postgres.NewPostgresReviewStore(db, logger),
		tx:           store.NewSQLTransactor(db),
	}
	if cfg.Assistant.SessionStore == "postgres" {
		sessions := postgres.NewPostgresSessionStore(db, ttl, logger)
		set.sessions = sessions
		set.sweeper = &postgresSweeper{store: sessions, logger: logger}
	} else {
		sessions := assistant.NewMemoryStore(ttl, logger)
		set.sessions = sessions
		set.sweeper = sessions
	}
	return set
}

type postgresSweeper struct {
	store  *postgres.PostgresSessionStore
	logger *slog.Logger
}

func (s *postgresSweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.store.DeleteExpired(ctx)
			if err != nil {
				s.logger.Warn("failed to sweep expired sessions", "error", redact.Error(err))
				continue
			}
			if n > 0 {
				s.logger.Debug("expired sessions swept", "count", n)
			}
		}
	}
}

// newCompleter builds the configured completion provider, bounded by the
// configured timeout.
func newCompleter(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (llm.Completer, error) {
	var (
		c   llm.Completer
		err error
	)
	switch cfg.Provider {
	case "openai":
		c, err = openai.NewCompleter(cfg, logger)
	case "gemini":
		c, err = gemini.NewGeminiCompleter(ctx, logger, cfg)
	case "ollama":
		c, err = ollama.NewCompleter(cfg, nil, logger)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s completer: %w", cfg.Provider, err)
	}
	logger.Info("llm completer initialized", "provider", cfg.Provider, "model", cfg.Model)
	return llm.WithTimeout(c, time.Duration(cfg.TimeoutSeconds)*time.Second), nil
}

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService auth.JWTService
	accounts   service.AccountService
	profiles   service.ProfileService
	gigs       service.GigService
	messages   service.MessageService
	reviews    service.ReviewService
	stats      *service.StatsService

	bot *assistant.Bot
	web *assistant.WebAssistant

	// updates is nil when no bot token is configured.
	updates    *telegram.UpdateProcessor
	taskRunner *task.TaskRunner

	sweeper    sessionSweeper
	background context.CancelFunc
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// newApplication wires services and the assistant on top of stores. db may be
// nil in tests; it is only closed on shutdown.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	stores storeSet,
	completer llm.Completer,
	senderOpts ...telegram.SenderOption,
) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		sweeper: stores.sweeper,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_hours", cfg.Auth.TokenLifetimeHours)

	// A nil *GoogleVerifier must not become a non-nil interface.
	var identity auth.IdentityVerifier
	if v := auth.NewGoogleVerifier(cfg.Auth.GoogleClientID); v != nil {
		identity = v
		logger.Info("federated sign-in enabled")
	}

	app.accounts = service.NewAccountService(
		stores.profiles,
		app.jwtService,
		auth.NewBcryptVerifier(cfg.Auth.BCryptCost),
		identity,
		logger,
	)
	app.profiles = service.NewProfileService(stores.profiles, logger)
	app.gigs = service.NewGigService(stores.gigs, stores.applications, stores.profiles, stores.tx, logger)
	app.messages = service.NewMessageService(stores.messages, stores.profiles, logger)
	app.reviews = service.NewReviewService(stores.reviews, stores.profiles, stores.gigs, stores.tx, logger)
	app.stats = service.NewStatsService(stores.gigs, stores.profiles, logger)

	catalog, err := assistant.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load assistant catalog: %w", err)
	}
	app.web, err = assistant.NewWebAssistant(catalog, completer, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create web assistant: %w", err)
	}
	app.bot, err = assistant.NewBot(
		catalog,
		completer,
		stores.sessions,
		service.NewChatMarketplace(app.profiles, app.gigs),
		logger,
		assistant.WithHistoryLimit(cfg.Assistant.HistoryLimit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	app.taskRunner = setupTaskRunner(cfg, logger)

	if cfg.Telegram.BotToken != "" {
		sender, err := telegram.NewBotSender(cfg.Telegram.BotToken, logger, senderOpts...)
		if err != nil {
			app.taskRunner.Shutdown(context.Background())
			return nil, err
		}
		app.updates, err = telegram.NewUpdateProcessor(app.bot, sender, logger)
		if err != nil {
			app.taskRunner.Shutdown(context.Background())
			return nil, err
		}
		logger.Info("telegram webhook enabled",
			"workers", cfg.Telegram.Workers,
			"queue_size", cfg.Telegram.QueueSize)
	}

	bgCtx, cancel := context.WithCancel(context.Background())
	app.background = cancel
	if app.sweeper != nil {
		app.wg.Add(1)
		go func() {
			defer app.wg.Done()
			app.sweeper.Run(bgCtx, sessionSweepInterval)
		}()
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// setupTaskRunner creates and starts the pool that processes webhook updates.
// A task may make one completion call and one Bot API call.
func setupTaskRunner(cfg *config.Config, logger *slog.Logger) *task.TaskRunner {
	runner := task.NewTaskRunner(task.TaskRunnerConfig{
		WorkerCount: cfg.Telegram.Workers,
		QueueSize:   cfg.Telegram.QueueSize,
		TaskTimeout: time.Duration(cfg.LLM.TimeoutSeconds)*time.Second + time.Minute,
	}, logger)
	runner.SetErrorHandler(func(t task.Task, err error) {
		logger.Error("background task failed",
			"task_id", t.ID(),
			"task_type", t.Type(),
			"error", redact.Error(err))
	})
	runner.Start()
	return runner
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()
	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup drains queued updates, stops background loops, and closes the
// database. It is safe to call more than once.
func (app *application) cleanup(ctx context.Context) {
	app.closeOnce.Do(func() {
		if app.taskRunner != nil {
			if err := app.taskRunner.Shutdown(ctx); err != nil {
				app.logger.Warn("task runner did not drain before deadline", "error", redact.Error(err))
			}
		}
		if app.background != nil {
			app.background()
		}
		app.wg.Wait()

		if app.db != nil {
			if err := app.db.Close(); err != nil {
				app.logger.Error("error closing database connection", "error", redact.Error(err))
			}
		}
		app.logger.Info("application shutdown completed")
	})
}
