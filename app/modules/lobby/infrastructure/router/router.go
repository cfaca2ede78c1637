// Package lobbyrouter wires the lobby handlers onto the message router.
package lobbyrouter

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	lobbyservice "github.com/open-civ-league/league-bot/app/modules/lobby/application"
	lobbyhandlers "github.com/open-civ-league/league-bot/app/modules/lobby/infrastructure/handlers"
	sharedevents "github.com/open-civ-league/league-bot/app/shared/events"
	"github.com/open-civ-league/league-bot/config"
	"github.com/open-civ-league/league-bot/internal/attr"
	"github.com/open-civ-league/league-bot/internal/eventbus"
	"github.com/open-civ-league/league-bot/internal/observability"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

type LobbyRouter struct {
	logger             *slog.Logger
	Router             *message.Router
	subscriber         eventbus.EventBus
	publisher          eventbus.EventBus
	config             *config.Config
	tracer             trace.Tracer
	metricsBuilder     *metrics.PrometheusMetricsBuilder
	prometheusRegistry *prometheus.Registry
	metricsEnabled     bool
}

func NewLobbyRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	config *config.Config,
	tracer trace.Tracer,
	prometheusRegistry *prometheus.Registry,
) *LobbyRouter {
	inTestEnv := os.Getenv(TestEnvironmentFlag) == TestEnvironmentValue

	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil && !inTestEnv {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "", "")
		metricsBuilder = &builder
	}
	return &LobbyRouter{
		logger:             logger,
		Router:             router,
		subscriber:         subscriber,
		publisher:          publisher,
		config:             config,
		tracer:             tracer,
		metricsBuilder:     metricsBuilder,
		prometheusRegistry: prometheusRegistry,
		metricsEnabled:     prometheusRegistry != nil && !inTestEnv,
	}
}

// Configure registers handlers and middleware on the router.
func (r *LobbyRouter) Configure(routerCtx context.Context, lobbyService lobbyservice.Service, rerenderer lobbyhandlers.Rerenderer, lobbyMetrics *observability.OperationMetrics) error {
	if r.metricsEnabled && r.metricsBuilder != nil {
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	handlers := lobbyhandlers.NewLobbyHandlers(lobbyService, rerenderer, r.logger, r.tracer, lobbyMetrics)

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{MaxRetries: 3}.Middleware,
	)

	if err := r.RegisterHandlers(routerCtx, handlers); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}
	return nil
}

// RegisterHandlers subscribes each request topic to its handler. Result
// messages carry their publish topic in metadata; the router forwards them.
func (r *LobbyRouter) RegisterHandlers(ctx context.Context, handlers lobbyhandlers.Handlers) error {
	eventsToHandlers := map[string]message.HandlerFunc{
		sharedevents.LobbyCreateRequest:      handlers.HandleCreateRequest,
		sharedevents.LobbyStatusRequest:      handlers.HandleStatusRequest,
		sharedevents.LobbySlotsRequest:       handlers.HandleSlotsRequest,
		sharedevents.LobbyDraftConfigRequest: handlers.HandleDraftConfigRequest,
		sharedevents.LobbyFormMatchRequest:   handlers.HandleFormMatchRequest,
		sharedevents.QueueMatchReady:         handlers.HandleQueueMatchReady,
	}

	for topic, handlerFunc := range eventsToHandlers {
		handlerName := fmt.Sprintf("lobby.%s", topic)
		r.Router.AddHandler(
			handlerName,
			topic,
			r.subscriber.Subscriber(),
			"",
			nil,
			func(msg *message.Message) ([]*message.Message, error) {
				messages, err := handlerFunc(msg)
				if err != nil {
					r.logger.ErrorContext(ctx, "Error processing message",
						attr.String("message_id", msg.UUID),
						attr.Error(err),
					)
					return nil, err
				}
				for _, m := range messages {
					publishTopic := m.Metadata.Get("topic")
					if publishTopic == "" {
						r.logger.Error("router failed to resolve publish topic - message dropped",
							attr.String("handler", handlerName),
							attr.String("msg_uuid", m.UUID),
						)
						continue
					}
					if err := r.publisher.Publish(publishTopic, m); err != nil {
						return nil, fmt.Errorf("failed to publish to %s: %w", publishTopic, err)
					}
				}
				return nil, nil
			},
		)
	}
	return nil
}

func (r *LobbyRouter) Close() error {
	return r.Router.Close()
}
