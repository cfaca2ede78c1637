package queuehandlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	queueservice "github.com/open-civ-league/league-bot/app/modules/queue/application"
	queuedomain "github.com/open-civ-league/league-bot/app/modules/queue/domain"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/observability"
	"github.com/open-civ-league/league-bot/internal/results"
)

type FakeQueueService struct {
	JoinFunc       func(ctx context.Context, mode sharedtypes.GameMode, entry queuedomain.QueueEntry) (results.OperationResult[queueservice.JoinResult, sharedtypes.Failure], error)
	LeaveFunc      func(ctx context.Context, playerID sharedtypes.PlayerID) (results.OperationResult[queueservice.LeaveResult, sharedtypes.Failure], error)
	PeekFullFunc   func(ctx context.Context, mode sharedtypes.GameMode) (results.OperationResult[queueservice.PeekFullResult, sharedtypes.Failure], error)
	ClearFunc      func(ctx context.Context, mode sharedtypes.GameMode, playerIDs []sharedtypes.PlayerID) (results.OperationResult[queueservice.ClearResult, sharedtypes.Failure], error)
	PruneStaleFunc func(ctx context.Context, timeout time.Duration) (results.OperationResult[queueservice.PruneResult, sharedtypes.Failure], error)
}

func (f *FakeQueueService) Join(ctx context.Context, mode sharedtypes.GameMode, entry queuedomain.QueueEntry) (results.OperationResult[queueservice.JoinResult, sharedtypes.Failure], error) {
	return f.JoinFunc(ctx, mode, entry)
}

func (f *FakeQueueService) Leave(ctx context.Context, playerID sharedtypes.PlayerID) (results.OperationResult[queueservice.LeaveResult, sharedtypes.Failure], error) {
	return f.LeaveFunc(ctx, playerID)
}

func (f *FakeQueueService) PeekFull(ctx context.Context, mode sharedtypes.GameMode) (results.OperationResult[queueservice.PeekFullResult, sharedtypes.Failure], error) {
	if f.PeekFullFunc == nil {
		return results.SuccessResult[queueservice.PeekFullResult, sharedtypes.Failure](queueservice.PeekFullResult{}), nil
	}
	return f.PeekFullFunc(ctx, mode)
}

func (f *FakeQueueService) Clear(ctx context.Context, mode sharedtypes.GameMode, playerIDs []sharedtypes.PlayerID) (results.OperationResult[queueservice.ClearResult, sharedtypes.Failure], error) {
	return f.ClearFunc(ctx, mode, playerIDs)
}

func (f *FakeQueueService) PruneStale(ctx context.Context, timeout time.Duration) (results.OperationResult[queueservice.PruneResult, sharedtypes.Failure], error) {
	return f.PruneStaleFunc(ctx, timeout)
}

type FakeTimeoutNotifier struct {
	Notified map[sharedtypes.GameMode][]sharedtypes.PlayerID
	Err      error
}

func NewFakeTimeoutNotifier() *FakeTimeoutNotifier {
	return &FakeTimeoutNotifier{Notified: make(map[sharedtypes.GameMode][]sharedtypes.PlayerID)}
}

func (f *FakeTimeoutNotifier) NotifyQueueTimeout(_ context.Context, mode sharedtypes.GameMode, players []sharedtypes.PlayerID) error {
	if f.Err != nil {
		return f.Err
	}
	f.Notified[mode] = append(f.Notified[mode], players...)
	return nil
}

func newTestQueueHandlers(svc queueservice.Service, notifier TimeoutNotifier) Handlers {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")
	metrics := observability.NewOperationMetrics(prometheus.NewRegistry(), "test")
	return NewQueueHandlers(svc, notifier, 30*time.Minute, logger, tracer, metrics)
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
