package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"github.com/use-agent/laodeai/answer"
	"github.com/use-agent/laodeai/api"
	"github.com/use-agent/laodeai/cache"
	"github.com/use-agent/laodeai/config"
	"github.com/use-agent/laodeai/engine"
	"github.com/use-agent/laodeai/logging"
	"github.com/use-agent/laodeai/paste"
	"github.com/use-agent/laodeai/poll"
	"github.com/use-agent/laodeai/render"
	"github.com/use-agent/laodeai/search"
	"github.com/use-agent/laodeai/sites"
	"github.com/use-agent/laodeai/telegram"
)

func main() {
	if err := run(); err != nil {
		slog.Error("laodeai stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// ── 2. Initialise structured logging ────────────────────────────
	closeLog, err := logging.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer closeLog()

	loc, err := time.LoadLocation(cfg.Poll.Timezone)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 3. Resolution pipeline ──────────────────────────────────────
	fetcher := engine.NewHTTPEngine(engine.HTTPEngineOptions{
		UserAgent:    cfg.Fetch.UserAgent,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
	})
	registry := sites.NewRegistry()
	chain := engine.NewFallbackChain(fetcher, registry,
		engine.WithCandidateTimeout(cfg.Fetch.Timeout),
		engine.WithAttemptHook(func(host string, v engine.Verdict) {
			slog.Debug("candidate attempt", "host", host, "verdict", v.String())
		}),
	)
	svc := answer.NewService(search.NewClient(fetcher, cfg.Search.BaseURL, cfg.Search.Timeout), registry, chain)

	// ── 4. Renderer (launches browser) ──────────────────────────────
	renderer, err := render.New(cfg.Render)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer renderer.Close()

	// ── 5. Stores ───────────────────────────────────────────────────
	store, closeStore, err := openStore(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer closeStore()

	responses, err := cache.NewResponses(cfg.Cache.MaxEntries)
	if err != nil {
		return fmt.Errorf("response cache: %w", err)
	}

	// ── 6. Telegram ─────────────────────────────────────────────────
	bot, err := newBot(cfg.Telegram)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	if err := telegram.RegisterCommands(bot, cfg.Telegram.Command); err != nil {
		slog.Warn("failed to register bot commands", "error", err)
	}

	sender := telegram.NewSender(bot)
	answers := answer.NewHandler(svc, answer.NewDispatcher(sender, renderer, paste.New(cfg.Paste.Endpoint, cfg.Paste.APIKey, cfg.Paste.Timeout)))
	polls := poll.NewAggregator(store, sender, loc, cfg.Poll.HomeChatID)
	updates := telegram.NewDispatcher(telegram.NewRouter(cfg.Telegram.Command, bot.Self.UserName, answers, polls), cfg.Telegram.MaxInFlight)

	slog.Info("laodeai starting",
		"bot", bot.Self.UserName,
		"mode", cfg.Telegram.Mode,
		"sites", registry.Len(),
		"http", cfg.Server.Enabled,
		"store", cfg.Cache.Backend,
	)

	// ── 7. Run surfaces until a signal arrives ──────────────────────
	g, gctx := errgroup.WithContext(ctx)

	if cfg.Server.Enabled {
		if cfg.Auth.Enabled && len(cfg.Auth.APIKeys) == 0 {
			slog.Warn("no API keys configured, /api/v1 is open to anyone who can reach it")
		}
		deps := api.Deps{
			Answers:   svc,
			Responses: responses,
			Render:    renderer,
			Sites:     registry.Len(),
		}
		if cfg.Telegram.Mode == "webhook" {
			deps.Updates = updates
		}
		srv := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:           api.NewRouter(cfg, deps, time.Now()),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g.Go(func() error {
			slog.Info("HTTP server listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			// Give in-flight requests 5 seconds to complete.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Error("HTTP server forced shutdown", "error", err)
			}
			updates.Wait()
			return nil
		})
	}

	if cfg.Telegram.Mode == "polling" {
		g.Go(func() error {
			return telegram.Poll(gctx, bot, updates, cfg.Telegram.PollTimeout)
		})
	}

	err = g.Wait()
	slog.Info("laodeai stopped")
	return err
}

// openStore returns the key-value store backing the poll digest.
func openStore(ctx context.Context, cfg config.CacheConfig) (cache.Store, func() error, error) {
	if cfg.Backend == "redis" {
		r, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	}
	m, err := cache.NewMemory(cfg.MaxEntries)
	if err != nil {
		return nil, nil, err
	}
	return m, func() error { return nil }, nil
}

// newBot connects to the Bot API, honouring a custom endpoint.
func newBot(cfg config.TelegramConfig) (*tgbotapi.BotAPI, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	// getUpdates holds the connection for up to PollTimeout.
	client := &http.Client{Timeout: cfg.PollTimeout + 30*time.Second}
	return tgbotapi.NewBotAPIWithClient(cfg.Token, endpoint, client)
}
