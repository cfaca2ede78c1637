package match

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"

	matchservice "github.com/open-civ-league/league-bot/app/modules/match/application"
	matchdb "github.com/open-civ-league/league-bot/app/modules/match/infrastructure/repositories"
	matchrouter "github.com/open-civ-league/league-bot/app/modules/match/infrastructure/router"
	matchstorage "github.com/open-civ-league/league-bot/app/modules/match/infrastructure/storage"
	"github.com/open-civ-league/league-bot/config"
	"github.com/open-civ-league/league-bot/internal/eventbus"
	"github.com/open-civ-league/league-bot/internal/kv"
	"github.com/open-civ-league/league-bot/internal/observability"
)

// Module represents the match module.
type Module struct {
	EventBus      eventbus.EventBus
	MatchService  matchservice.Service
	MatchDB       matchdb.MatchDB
	MatchRouter   *matchrouter.MatchRouter
	config        *config.Config
	observability *observability.Observability
	cancelFunc    context.CancelFunc
}

// NewMatchModule wires the ledger repository, activity map, service, and
// router. The rating engine comes in as an interface because ratings hang
// off completed matches, not the other way around.
func NewMatchModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	store kv.Store,
	ratings matchservice.RatingEngine,
	eventBus eventbus.EventBus,
	router *message.Router,
) (*Module, error) {
	logger := obs.Provider.Logger
	metrics := obs.Registry.MatchMetrics
	tracer := obs.Registry.Tracer

	repo := &matchdb.MatchDBImpl{DB: db}
	activity := matchstorage.NewActivityMap(store)
	matchService := matchservice.NewMatchService(repo, db, activity, ratings, cfg.ModeRegistry(), logger, metrics, tracer)

	matchRouter := matchrouter.NewMatchRouter(logger, router, eventBus, eventBus, cfg, tracer, obs.Registry.Prometheus)
	if err := matchRouter.Configure(ctx, matchService, metrics); err != nil {
		return nil, fmt.Errorf("failed to configure match router: %w", err)
	}

	return &Module{
		EventBus:      eventBus,
		MatchService:  matchService,
		MatchDB:       repo,
		MatchRouter:   matchRouter,
		config:        cfg,
		observability: obs,
	}, nil
}

func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting match module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.Info("Match module stopped")
}

func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
