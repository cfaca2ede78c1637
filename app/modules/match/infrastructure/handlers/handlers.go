// Package matchhandlers subscribes to match topics: draft completions from
// the draft room, result reports, and moderator corrections.
package matchhandlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"

	matchservice "github.com/open-civ-league/league-bot/app/modules/match/application"
	matchdomain "github.com/open-civ-league/league-bot/app/modules/match/domain"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/attr"
	"github.com/open-civ-league/league-bot/internal/eventbus"
	"github.com/open-civ-league/league-bot/internal/observability"
)

const topicMetadataKey = "topic"

// MatchHandlers handles match-related events.
type MatchHandlers struct {
	matchService   matchservice.Service
	logger         *slog.Logger
	tracer         trace.Tracer
	metrics        *observability.OperationMetrics
	handlerWrapper func(handlerName string, unmarshalTo any, handlerFunc func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error)) message.HandlerFunc
}

// NewMatchHandlers creates a new MatchHandlers.
func NewMatchHandlers(
	matchService matchservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
	metrics *observability.OperationMetrics,
) Handlers {
	return &MatchHandlers{
		matchService: matchService,
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

// placementInput maps the wire outcome to the domain form. Exactly one of
// winnerSide and placements must be set.
func placementInput(winnerSide *sharedtypes.TeamSide, placements []sharedtypes.PlayerID) (matchdomain.PlacementInput, error) {
	switch {
	case winnerSide != nil && len(placements) > 0:
		return nil, fmt.Errorf("both winner_side and placements given")
	case winnerSide != nil:
		return matchdomain.TeamWinner{Side: *winnerSide}, nil
	case len(placements) > 0:
		return matchdomain.OrderedPlacements{Order: placements}, nil
	default:
		return nil, fmt.Errorf("neither winner_side nor placements given")
	}
}
