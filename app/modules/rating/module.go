package rating

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"

	matchdb "github.com/open-civ-league/league-bot/app/modules/match/infrastructure/repositories"
	ratingservice "github.com/open-civ-league/league-bot/app/modules/rating/application"
	ratingdb "github.com/open-civ-league/league-bot/app/modules/rating/infrastructure/repositories"
	ratingrouter "github.com/open-civ-league/league-bot/app/modules/rating/infrastructure/router"
	"github.com/open-civ-league/league-bot/config"
	"github.com/open-civ-league/league-bot/internal/eventbus"
	"github.com/open-civ-league/league-bot/internal/observability"
)

// Module represents the rating module.
type Module struct {
	EventBus      eventbus.EventBus
	RatingService ratingservice.Service
	RatingRouter  *ratingrouter.RatingRouter
	config        *config.Config
	observability *observability.Observability
	cancelFunc    context.CancelFunc
}

// NewRatingModule wires the rating repository, service, and router. The
// match repository is read directly during replays.
func NewRatingModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	matches matchdb.MatchDB,
	eventBus eventbus.EventBus,
	router *message.Router,
) (*Module, error) {
	logger := obs.Provider.Logger
	metrics := obs.Registry.RatingMetrics
	tracer := obs.Registry.Tracer

	repo := &ratingdb.RatingDBImpl{DB: db}
	ratingService := ratingservice.NewRatingService(repo, matches, db, nil, logger, metrics, tracer)

	ratingRouter := ratingrouter.NewRatingRouter(logger, router, eventBus, eventBus, cfg, tracer, obs.Registry.Prometheus)
	if err := ratingRouter.Configure(ctx, ratingService, metrics); err != nil {
		return nil, fmt.Errorf("failed to configure rating router: %w", err)
	}

	return &Module{
		EventBus:      eventBus,
		RatingService: ratingService,
		RatingRouter:  ratingRouter,
		config:        cfg,
		observability: obs,
	}, nil
}

func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting rating module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.Info("Rating module stopped")
}

func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
