package lobby

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	lobbyservice "github.com/open-civ-league/league-bot/app/modules/lobby/application"
	lobbyhandlers "github.com/open-civ-league/league-bot/app/modules/lobby/infrastructure/handlers"
	lobbyrouter "github.com/open-civ-league/league-bot/app/modules/lobby/infrastructure/router"
	lobbystorage "github.com/open-civ-league/league-bot/app/modules/lobby/infrastructure/storage"
	"github.com/open-civ-league/league-bot/config"
	"github.com/open-civ-league/league-bot/internal/draftroom"
	"github.com/open-civ-league/league-bot/internal/eventbus"
	"github.com/open-civ-league/league-bot/internal/kv"
	"github.com/open-civ-league/league-bot/internal/observability"
)

// Module represents the lobby module.
type Module struct {
	EventBus      eventbus.EventBus
	LobbyService  lobbyservice.Service
	LobbyRouter   *lobbyrouter.LobbyRouter
	config        *config.Config
	observability *observability.Observability
	cancelFunc    context.CancelFunc
}

// NewLobbyModule wires lobby storage, the service, and its router. The queue
// and match collaborators come in as narrow interfaces so wiring stays in
// one place.
func NewLobbyModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	store kv.Store,
	queues lobbyservice.QueueLookup,
	clearer lobbyservice.QueueClearer,
	matches lobbyservice.MatchCreator,
	draftRoom draftroom.Room,
	rerenderer lobbyhandlers.Rerenderer,
	eventBus eventbus.EventBus,
	router *message.Router,
) (*Module, error) {
	logger := obs.Provider.Logger
	metrics := obs.Registry.LobbyMetrics
	tracer := obs.Registry.Tracer

	storage := lobbystorage.NewKVStorage(store)
	lobbyService := lobbyservice.NewLobbyService(storage, queues, clearer, matches, draftRoom, cfg.ModeRegistry(), logger, metrics, tracer)

	lobbyRouter := lobbyrouter.NewLobbyRouter(logger, router, eventBus, eventBus, cfg, tracer, obs.Registry.Prometheus)
	if err := lobbyRouter.Configure(ctx, lobbyService, rerenderer, metrics); err != nil {
		return nil, fmt.Errorf("failed to configure lobby router: %w", err)
	}

	return &Module{
		EventBus:      eventBus,
		LobbyService:  lobbyService,
		LobbyRouter:   lobbyRouter,
		config:        cfg,
		observability: obs,
	}, nil
}

func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting lobby module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.Info("Lobby module stopped")
}

func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
