// Package lobbyhandlers subscribes to lobby request topics and drives the
// lobby service, publishing success/failure results.
package lobbyhandlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"

	lobbyservice "github.com/open-civ-league/league-bot/app/modules/lobby/application"
	lobbydomain "github.com/open-civ-league/league-bot/app/modules/lobby/domain"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/attr"
	"github.com/open-civ-league/league-bot/internal/eventbus"
	"github.com/open-civ-league/league-bot/internal/observability"
)

const topicMetadataKey = "topic"

// Rerenderer asks the chat platform to redraw the lobby message after a
// state change. Delivery is best effort.
type Rerenderer interface {
	RequestRerender(ctx context.Context, binding sharedtypes.ChannelBinding) error
}

// LobbyHandlers handles lobby-related events.
type LobbyHandlers struct {
	lobbyService   lobbyservice.Service
	rerenderer     Rerenderer
	logger         *slog.Logger
	tracer         trace.Tracer
	metrics        *observability.OperationMetrics
	handlerWrapper func(handlerName string, unmarshalTo any, handlerFunc func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error)) message.HandlerFunc
}

// NewLobbyHandlers creates a new LobbyHandlers.
func NewLobbyHandlers(
	lobbyService lobbyservice.Service,
	rerenderer Rerenderer,
	logger *slog.Logger,
	tracer trace.Tracer,
	metrics *observability.OperationMetrics,
) Handlers {
	return &LobbyHandlers{
		lobbyService: lobbyService,
		rerenderer:   rerenderer,
		logger:       logger,
		tracer:       tracer,
		metrics:      metrics,
		handlerWrapper: func(handlerName string, unmarshalTo any, handlerFunc func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error)) message.HandlerFunc {
			return handlerWrapper(handlerName, unmarshalTo, handlerFunc, logger, metrics, tracer)
		},
	}
}

// handlerWrapper is a standalone function that handles common tracing, logging, and metrics for handlers.
func handlerWrapper(
	handlerName string,
	unmarshalTo any,
	handlerFunc func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error),
	logger *slog.Logger,
	metrics *observability.OperationMetrics,
	tracer trace.Tracer,
) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		ctx, span := tracer.Start(msg.Context(), handlerName)
		defer span.End()

		metrics.RecordOperationAttempt(ctx, handlerName)

		startTime := time.Now()
		defer func() {
			metrics.RecordOperationDuration(ctx, handlerName, time.Since(startTime))
		}()

		logger.InfoContext(ctx, handlerName+" triggered",
			attr.CorrelationIDFromMsg(msg),
			attr.String("message_id", msg.UUID),
		)

		if unmarshalTo != nil {
			if err := eventbus.UnmarshalPayload(msg, unmarshalTo); err != nil {
				logger.ErrorContext(ctx, "Failed to unmarshal payload",
					attr.CorrelationIDFromMsg(msg),
					attr.Error(err),
				)
				metrics.RecordOperationFailure(ctx, handlerName)
				return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
			}
		}

		result, err := handlerFunc(ctx, msg, unmarshalTo)
		if err != nil {
			logger.ErrorContext(ctx, "Error in "+handlerName,
				attr.CorrelationIDFromMsg(msg),
				attr.Error(err),
			)
			metrics.RecordOperationFailure(ctx, handlerName)
			return nil, err
		}

		logger.InfoContext(ctx, handlerName+" completed successfully", attr.CorrelationIDFromMsg(msg))
		metrics.RecordOperationSuccess(ctx, handlerName)
		return result, nil
	}
}

// resultMessage builds a reply bound for the given topic.
func resultMessage(original *message.Message, topic string, payload any) (*message.Message, error) {
	msg, err := eventbus.NewResultMessage(original, payload)
	if err != nil {
		return nil, err
	}
	msg.Metadata.Set(topicMetadataKey, topic)
	return msg, nil
}

// rerender asks for a redraw of the lobby message. Failures are logged, not
// surfaced.
func (h *LobbyHandlers) rerender(ctx context.Context, state *lobbydomain.LobbyState) {
	if h.rerenderer == nil || state == nil {
		return
	}
	if err := h.rerenderer.RequestRerender(ctx, state.Channel); err != nil {
		h.logger.WarnContext(ctx, "Failed to request lobby rerender",
			attr.String("mode", state.Mode.String()),
			attr.Error(err),
		)
	}
}
