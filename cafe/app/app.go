// Package app assembles the café bot: configuration, logging, the
// session store, the dialogue engine and the Telegram transport.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	tele "gopkg.in/telebot.v4"

	"cafebot/cafe/dialogue"
	"cafebot/cafe/notify"
	"cafebot/core/database"
	"cafebot/core/health"
	"cafebot/core/logger"
	tg "cafebot/core/telegram"
	"cafebot/core/telegram/router"
	"cafebot/core/telegram/sender"
	"cafebot/core/telegram/state"
	"log/slog"
)

// lazyBot defers the bot client behind an atomic pointer so components
// built before the transport starts can still send through it.
type lazyBot struct {
	p atomic.Pointer[tele.Bot]
}

func (l *lazyBot) set(b *tele.Bot) { l.p.Store(b) }

func (l *lazyBot) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	b := l.p.Load()
	if b == nil {
		return nil, errors.New("bot not started")
	}
	return b.Send(to, what, opts...)
}

// Run loads configuration, wires every component and blocks until the
// context is cancelled or the transport stops.
func Run(ctx context.Context, configPath string) error {
	cfg, warnings, err := Load(configPath)
	if err != nil {
		return err
	}

	if err := logger.InitLogger(&cfg.Config); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Shutdown() }()

	for _, w := range warnings {
		logger.L.Warn(w,
			slog.String("component", "app"),
			slog.String("event", "config.fallback"),
		)
	}

	cat, catWarnings := cfg.BuildCatalog()
	for _, w := range catWarnings {
		logger.L.Warn(w,
			slog.String("component", "app"),
			slog.String("event", "config.fallback"),
		)
	}

	store, closeStore, err := buildStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	dispatcher := sender.NewDispatcher(sender.Options{})

	kb := buildKeyboards(cat)
	bot := &lazyBot{}
	notifier := notify.NewTelegram(bot, dispatcher, cfg.Telegram.AdminID, kb.mainMenu)

	engine, err := dialogue.New(dialogue.Options{
		Catalog:     cat,
		Store:       store,
		Notifier:    notifier,
		CafeName:    cfg.Cafe.Name,
		Phone:       cfg.Cafe.Phone,
		MaxQuantity: cfg.Cafe.MaxQuantity,
		MaxParty:    cfg.Cafe.MaxParty,
		OpenHour:    cfg.Cafe.Hours.Open,
		CloseHour:   cfg.Cafe.Hours.Close,
	})
	if err != nil {
		return err
	}

	adapter := newDialogueAdapter(engine, kb)
	reg := buildRegistry(cfg, engine, adapter, dispatcher)

	var routes []tg.Route
	routes = append(routes, router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: cfg.Telegram.AdminID,
	})...)
	routes = append(routes, router.TextRoutes(adapter)...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	onLimited := func(c tele.Context) error {
		return c.Send("⏳ Не так быстро, пожалуйста")
	}

	var healthSrv *health.Server
	if cfg.Health.Listen != "" {
		healthSrv = health.New(cfg.Health.Listen)
		healthSrv.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = healthSrv.Shutdown(shutdownCtx)
		}()
	}

	return tg.RunTelegram(ctx, tg.RunOptions{
		Config:      &cfg.Config,
		Registry:    reg,
		Dispatcher:  dispatcher,
		Middlewares: tg.DefaultMiddlewares(&cfg.Config, onLimited),
		Routes:      routes,
		OnStart: func(_ context.Context, rt tg.Runtime) error {
			bot.set(rt.Bot)
			logger.L.Info("cafebot started",
				slog.String("component", "app"),
				slog.String("event", "ready"),
				slog.String("cafe", cfg.Cafe.Name),
				slog.Int("menu_items", cat.Len()),
				slog.String("storage", cfg.Storage.Driver),
			)
			return nil
		},
	})
}

// buildStore selects the session backend. Postgres additionally runs
// schema migrations before first use.
func buildStore(cfg *Config) (state.Store, func(), error) {
	ttl := time.Duration(cfg.Cafe.SessionTTLMinutes) * time.Minute

	if cfg.Storage.Driver == StoragePostgres {
		if err := database.RunMigrations(cfg.Storage.Postgres); err != nil {
			return nil, nil, err
		}
		db, err := database.Connect(cfg.Storage.Postgres)
		if err != nil {
			return nil, nil, err
		}
		return state.NewPostgresStore(db, ttl), func() { _ = db.Close() }, nil
	}

	return state.NewMemoryStore(ttl), func() {}, nil
}
