// Package app assembles the storage layers, module services, and message
// routers into one process.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"golang.org/x/sync/errgroup"

	"github.com/open-civ-league/league-bot/app/modules/lobby"
	"github.com/open-civ-league/league-bot/app/modules/match"
	matchdb "github.com/open-civ-league/league-bot/app/modules/match/infrastructure/repositories"
	"github.com/open-civ-league/league-bot/app/modules/queue"
	queuestorage "github.com/open-civ-league/league-bot/app/modules/queue/infrastructure/storage"
	"github.com/open-civ-league/league-bot/app/modules/rating"
	"github.com/open-civ-league/league-bot/config"
	"github.com/open-civ-league/league-bot/internal/chatplatform"
	"github.com/open-civ-league/league-bot/internal/draftroom"
	"github.com/open-civ-league/league-bot/internal/eventbus"
	"github.com/open-civ-league/league-bot/internal/kv"
	"github.com/open-civ-league/league-bot/internal/kv/coordinator"
	"github.com/open-civ-league/league-bot/internal/observability"
)

// App holds the application components.
type App struct {
	Config        *config.Config
	Observability *observability.Observability

	QueueModule  *queue.Module
	LobbyModule  *lobby.Module
	MatchModule  *match.Module
	RatingModule *rating.Module

	EventBus eventbus.EventBus

	db             *bun.DB
	redisClient    *redis.Client
	coordinatorSrv *http.Server
	routers        []*message.Router
	routerNames    []string
}

// Initialize builds every layer: postgres, the split KV store behind the
// coordinator, NATS, the outbound HTTP clients, and the four modules.
func (app *App) Initialize(ctx context.Context, cfg *config.Config, obs *observability.Observability) error {
	app.Config = cfg
	app.Observability = obs
	logger := obs.Provider.Logger

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	app.db = bun.NewDB(sqldb, pgdialect.New())
	if err := app.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}

	// Hot keys go through the coordinator for per-key ordering; everything
	// else rides plain redis.
	coordServer := coordinator.NewServer(ctx, cfg.Coordinator.Secret, logger)
	app.coordinatorSrv = &http.Server{
		Addr:              cfg.Coordinator.ListenAddress,
		Handler:           coordServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	app.redisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	coldStore, err := kv.NewRedisStore(ctx, &kv.RedisConfig{Client: app.redisClient})
	if err != nil {
		return fmt.Errorf("failed to initialize redis store: %w", err)
	}
	hotStore := coordinator.NewClient(cfg.Coordinator.URL, cfg.Coordinator.Secret, nil)
	store := kv.NewRouter(hotStore, coldStore, kv.HotPrefixes)

	app.EventBus, err = eventbus.NewNATSEventBus(cfg.NATS.URL, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize event bus: %w", err)
	}

	chatClient := chatplatform.NewClient(cfg.ChatPlatform.URL, cfg.ChatPlatform.BotToken, cfg.ChatPlatform.MaxRetries, logger)
	draftRoom := draftroom.NewClient(cfg.DraftRoom.URL, cfg.DraftRoom.AckTimeout)

	wmLogger := watermill.NewSlogLogger(logger)
	newRouter := func(name string) (*message.Router, error) {
		router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s router: %w", name, err)
		}
		app.routers = append(app.routers, router)
		app.routerNames = append(app.routerNames, name)
		return router, nil
	}

	queueRouter, err := newRouter("queue")
	if err != nil {
		return err
	}
	app.QueueModule, err = queue.NewQueueModule(ctx, cfg, obs, store, chatClient, app.EventBus, queueRouter)
	if err != nil {
		return fmt.Errorf("failed to initialize queue module: %w", err)
	}

	matchRepo := &matchdb.MatchDBImpl{DB: app.db}

	ratingRouter, err := newRouter("rating")
	if err != nil {
		return err
	}
	app.RatingModule, err = rating.NewRatingModule(ctx, cfg, obs, app.db, matchRepo, app.EventBus, ratingRouter)
	if err != nil {
		return fmt.Errorf("failed to initialize rating module: %w", err)
	}

	matchRouter, err := newRouter("match")
	if err != nil {
		return err
	}
	app.MatchModule, err = match.NewMatchModule(ctx, cfg, obs, app.db, store, app.RatingModule.RatingService, app.EventBus, matchRouter)
	if err != nil {
		return fmt.Errorf("failed to initialize match module: %w", err)
	}

	lobbyRouter, err := newRouter("lobby")
	if err != nil {
		return err
	}
	app.LobbyModule, err = lobby.NewLobbyModule(ctx, cfg, obs, store,
		queuestorage.NewKVStorage(store),
		&queueClearerAdapter{queues: app.QueueModule.QueueService},
		&matchCreatorAdapter{matches: app.MatchModule.MatchService},
		draftRoom,
		chatClient,
		app.EventBus,
		lobbyRouter,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize lobby module: %w", err)
	}

	return nil
}

// Run starts the coordinator, the metrics endpoint, and every module router,
// then blocks until ctx is done or a component fails.
func (app *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := app.coordinatorSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("coordinator server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		// unblock ListenAndServe when the group winds down
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return app.coordinatorSrv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return app.Observability.ServeMetrics(gctx)
	})

	for i, router := range app.routers {
		name, r := app.routerNames[i], router
		g.Go(func() error {
			if err := r.Run(gctx); err != nil {
				return fmt.Errorf("%s router failed: %w", name, err)
			}
			return nil
		})
	}

	var wg sync.WaitGroup
	wg.Add(4)
	go app.QueueModule.Run(gctx, &wg)
	go app.LobbyModule.Run(gctx, &wg)
	go app.MatchModule.Run(gctx, &wg)
	go app.RatingModule.Run(gctx, &wg)

	err := g.Wait()
	wg.Wait()
	return err
}

// Close releases every connection. Safe to call after a partial Initialize.
func (app *App) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	for _, router := range app.routers {
		keep(router.Close())
	}
	if app.EventBus != nil {
		keep(app.EventBus.Close())
	}
	if app.coordinatorSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		keep(app.coordinatorSrv.Shutdown(shutdownCtx))
		cancel()
	}
	if app.redisClient != nil {
		keep(app.redisClient.Close())
	}
	if app.db != nil {
		keep(app.db.Close())
	}
	return firstErr
}
