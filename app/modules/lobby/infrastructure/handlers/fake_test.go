package lobbyhandlers

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

	lobbyservice "github.com/open-civ-league/league-bot/app/modules/lobby/application"
	lobbydomain "github.com/open-civ-league/league-bot/app/modules/lobby/domain"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/observability"
	"github.com/open-civ-league/league-bot/internal/results"
)

type lobbyOp = results.OperationResult[lobbyservice.LobbyResult, sharedtypes.Failure]

type FakeLobbyService struct {
	CreateFunc         func(ctx context.Context, mode sharedtypes.GameMode, hostID sharedtypes.PlayerID, channel sharedtypes.ChannelBinding) (lobbyOp, error)
	GetFunc            func(ctx context.Context, mode sharedtypes.GameMode) (lobbyOp, error)
	AttachMatchFunc    func(ctx context.Context, mode sharedtypes.GameMode, matchID sharedtypes.MatchID) (lobbyOp, error)
	SetStatusFunc      func(ctx context.Context, mode sharedtypes.GameMode, next lobbydomain.Status) (lobbyOp, error)
	SetSlotsFunc       func(ctx context.Context, mode sharedtypes.GameMode, slots []sharedtypes.PlayerID) (lobbyOp, error)
	SetDraftConfigFunc func(ctx context.Context, mode sharedtypes.GameMode, cfg sharedtypes.DraftTimerConfig) (lobbyOp, error)
	FormMatchFunc      func(ctx context.Context, mode sharedtypes.GameMode) (results.OperationResult[lobbyservice.FormMatchResult, sharedtypes.Failure], error)
	DeleteFunc         func(ctx context.Context, mode sharedtypes.GameMode) (results.OperationResult[bool, sharedtypes.Failure], error)
}

func (f *FakeLobbyService) Create(ctx context.Context, mode sharedtypes.GameMode, hostID sharedtypes.PlayerID, channel sharedtypes.ChannelBinding) (lobbyOp, error) {
	return f.CreateFunc(ctx, mode, hostID, channel)
}

func (f *FakeLobbyService) Get(ctx context.Context, mode sharedtypes.GameMode) (lobbyOp, error) {
	return f.GetFunc(ctx, mode)
}

func (f *FakeLobbyService) AttachMatch(ctx context.Context, mode sharedtypes.GameMode, matchID sharedtypes.MatchID) (lobbyOp, error) {
	return f.AttachMatchFunc(ctx, mode, matchID)
}

func (f *FakeLobbyService) SetStatus(ctx context.Context, mode sharedtypes.GameMode, next lobbydomain.Status) (lobbyOp, error) {
	return f.SetStatusFunc(ctx, mode, next)
}

func (f *FakeLobbyService) SetSlots(ctx context.Context, mode sharedtypes.GameMode, slots []sharedtypes.PlayerID) (lobbyOp, error) {
	return f.SetSlotsFunc(ctx, mode, slots)
}

func (f *FakeLobbyService) SetDraftConfig(ctx context.Context, mode sharedtypes.GameMode, cfg sharedtypes.DraftTimerConfig) (lobbyOp, error) {
	return f.SetDraftConfigFunc(ctx, mode, cfg)
}

func (f *FakeLobbyService) FormMatch(ctx context.Context, mode sharedtypes.GameMode) (results.OperationResult[lobbyservice.FormMatchResult, sharedtypes.Failure], error) {
	return f.FormMatchFunc(ctx, mode)
}

func (f *FakeLobbyService) Delete(ctx context.Context, mode sharedtypes.GameMode) (results.OperationResult[bool, sharedtypes.Failure], error) {
	return f.DeleteFunc(ctx, mode)
}

type FakeRerenderer struct {
	Requested []sharedtypes.ChannelBinding
	Err       error
}

func (f *FakeRerenderer) RequestRerender(_ context.Context, binding sharedtypes.ChannelBinding) error {
	if f.Err != nil {
		return f.Err
	}
	f.Requested = append(f.Requested, binding)
	return nil
}

func newTestLobbyHandlers(svc lobbyservice.Service, rerenderer Rerenderer) Handlers {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")
	metrics := observability.NewOperationMetrics(prometheus.NewRegistry(), "test")
	return NewLobbyHandlers(svc, rerenderer, logger, tracer, metrics)
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
