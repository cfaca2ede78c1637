package matchhandlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	matchservice "github.com/open-civ-league/league-bot/app/modules/match/application"
	matchdomain "github.com/open-civ-league/league-bot/app/modules/match/domain"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/observability"
	"github.com/open-civ-league/league-bot/internal/results"
)

type matchOp = results.OperationResult[matchservice.MatchResult, sharedtypes.Failure]

type FakeMatchService struct {
	CreateDraftMatchFunc        func(ctx context.Context, matchID sharedtypes.MatchID, mode sharedtypes.GameMode, seats []sharedtypes.DraftSeat, hostID sharedtypes.PlayerID, channelID string) (matchOp, error)
	ActivateDraftMatchFunc      func(ctx context.Context, matchID sharedtypes.MatchID, draft sharedtypes.DraftResult) (matchOp, error)
	ReportMatchFunc             func(ctx context.Context, matchID sharedtypes.MatchID, reporterID sharedtypes.PlayerID, input matchdomain.PlacementInput) (matchOp, error)
	ResolveMatchByModeratorFunc func(ctx context.Context, matchID sharedtypes.MatchID, input matchdomain.PlacementInput) (matchOp, error)
	CancelMatchByModeratorFunc  func(ctx context.Context, matchID sharedtypes.MatchID) (matchOp, error)
	GetMatchFunc                func(ctx context.Context, matchID sharedtypes.MatchID) (matchOp, error)
}

func (f *FakeMatchService) CreateDraftMatch(ctx context.Context, matchID sharedtypes.MatchID, mode sharedtypes.GameMode, seats []sharedtypes.DraftSeat, hostID sharedtypes.PlayerID, channelID string) (matchOp, error) {
	return f.CreateDraftMatchFunc(ctx, matchID, mode, seats, hostID, channelID)
}

func (f *FakeMatchService) ActivateDraftMatch(ctx context.Context, matchID sharedtypes.MatchID, draft sharedtypes.DraftResult) (matchOp, error) {
	return f.ActivateDraftMatchFunc(ctx, matchID, draft)
}

func (f *FakeMatchService) ReportMatch(ctx context.Context, matchID sharedtypes.MatchID, reporterID sharedtypes.PlayerID, input matchdomain.PlacementInput) (matchOp, error) {
	return f.ReportMatchFunc(ctx, matchID, reporterID, input)
}

func (f *FakeMatchService) ResolveMatchByModerator(ctx context.Context, matchID sharedtypes.MatchID, input matchdomain.PlacementInput) (matchOp, error) {
	return f.ResolveMatchByModeratorFunc(ctx, matchID, input)
}

func (f *FakeMatchService) CancelMatchByModerator(ctx context.Context, matchID sharedtypes.MatchID) (matchOp, error) {
	return f.CancelMatchByModeratorFunc(ctx, matchID)
}

func (f *FakeMatchService) GetMatch(ctx context.Context, matchID sharedtypes.MatchID) (matchOp, error) {
	return f.GetMatchFunc(ctx, matchID)
}

func newTestMatchHandlers(svc matchservice.Service) Handlers {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")
	metrics := observability.NewOperationMetrics(prometheus.NewRegistry(), "test")
	return NewMatchHandlers(svc, logger, tracer, metrics)
}

func requestMessage(t *testing.T, payload any) *message.Message {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return message.NewMessage(watermill.NewUUID(), data)
}

func decodePayload[T any](t *testing.T, msg *message.Message) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(msg.Payload, &out))
	return out
}
