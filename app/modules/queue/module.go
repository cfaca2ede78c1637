package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	queueservice "github.com/open-civ-league/league-bot/app/modules/queue/application"
	queuehandlers "github.com/open-civ-league/league-bot/app/modules/queue/infrastructure/handlers"
	queuerouter "github.com/open-civ-league/league-bot/app/modules/queue/infrastructure/router"
	queuestorage "github.com/open-civ-league/league-bot/app/modules/queue/infrastructure/storage"
	"github.com/open-civ-league/league-bot/config"
	"github.com/open-civ-league/league-bot/internal/eventbus"
	"github.com/open-civ-league/league-bot/internal/kv"
	"github.com/open-civ-league/league-bot/internal/observability"
)

// Module represents the queue module.
type Module struct {
	EventBus      eventbus.EventBus
	QueueService  queueservice.Service
	QueueRouter   *queuerouter.QueueRouter
	config        *config.Config
	observability *observability.Observability
	cancelFunc    context.CancelFunc
}

// NewQueueModule wires queue storage, the service, and its router.
func NewQueueModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	store kv.Store,
	notifier queuehandlers.TimeoutNotifier,
	eventBus eventbus.EventBus,
	router *message.Router,
) (*Module, error) {
	logger := obs.Provider.Logger
	metrics := obs.Registry.QueueMetrics
	tracer := obs.Registry.Tracer

	storage := queuestorage.NewKVStorage(store)
	queueService := queueservice.NewQueueService(storage, cfg.ModeRegistry(), cfg.Queue.HardCap, logger, metrics, tracer)

	queueRouter := queuerouter.NewQueueRouter(logger, router, eventBus, eventBus, cfg, tracer, obs.Registry.Prometheus)
	if err := queueRouter.Configure(ctx, queueService, notifier, metrics); err != nil {
		return nil, fmt.Errorf("failed to configure queue router: %w", err)
	}

	return &Module{
		EventBus:      eventBus,
		QueueService:  queueService,
		QueueRouter:   queueRouter,
		config:        cfg,
		observability: obs,
	}, nil
}

func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting queue module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.Info("Queue module stopped")
}

func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
