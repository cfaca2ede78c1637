package lobbyservice

import (
	"context"
	"errors"
	"fmt"

	lobbydomain "github.com/open-civ-league/league-bot/app/modules/lobby/domain"
	lobbystorage "github.com/open-civ-league/league-bot/app/modules/lobby/infrastructure/storage"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/attr"
	"github.com/open-civ-league/league-bot/internal/draftroom"
	"github.com/open-civ-league/league-bot/internal/results"
)

// SetDraftConfig stores new draft timers on the lobby. When a draft is
// already running the room is told to reconfigure and must acknowledge; a
// missed acknowledgement keeps the stored config but surfaces as a soft
// failure so the host can retry.
func (s *LobbyService) SetDraftConfig(ctx context.Context, mode sharedtypes.GameMode, cfg sharedtypes.DraftTimerConfig) (results.OperationResult[LobbyResult, sharedtypes.Failure], error) {
	return withTelemetry(s, ctx, "SetDraftConfig", mode, func(ctx context.Context) (results.OperationResult[LobbyResult, sharedtypes.Failure], error) {
		state, err := s.storage.Get(ctx, mode)
		if err != nil {
			if errors.Is(err, lobbystorage.ErrNotFound) {
				return results.FailureResult[LobbyResult](
					sharedtypes.NewFailure(sharedtypes.FailureNotFound, "no %s lobby exists", mode),
				), nil
			}
			return results.OperationResult[LobbyResult, sharedtypes.Failure]{}, fmt.Errorf("failed to load lobby: %w", err)
		}

		if state.Status.IsTerminal() {
			return results.FailureResult[LobbyResult](
				sharedtypes.NewFailure(sharedtypes.FailureInvalidState, "cannot configure a %s lobby", state.Status),
			), nil
		}

		next := state.Clone()
		next.DraftConfig = cfg
		next.Bump(s.now())

		if err := s.storage.Put(ctx, next); err != nil {
			return results.OperationResult[LobbyResult, sharedtypes.Failure]{}, fmt.Errorf("failed to persist draft config: %w", err)
		}

		if next.Status == lobbydomain.StatusDrafting && next.MatchID != nil {
			if err := s.draftRoom.ConfigureTimers(ctx, *next.MatchID, cfg); err != nil {
				if errors.Is(err, draftroom.ErrAckTimeout) {
					s.logger.WarnContext(ctx, "Draft room did not acknowledge timer change",
						attr.ExtractCorrelationID(ctx),
						attr.String("mode", mode.String()),
						attr.String("match_id", next.MatchID.String()),
					)
					return results.FailureResult[LobbyResult](
						sharedtypes.NewFailure(sharedtypes.FailureAckTimeout, "draft room did not confirm the new timers"),
					), nil
				}
				return results.OperationResult[LobbyResult, sharedtypes.Failure]{}, fmt.Errorf("failed to push timers to draft room: %w", err)
			}
		}

		s.logger.InfoContext(ctx, "Draft config updated",
			attr.ExtractCorrelationID(ctx),
			attr.String("mode", mode.String()),
			attr.Int("revision", int(next.Revision)),
		)

		return results.SuccessResult[LobbyResult, sharedtypes.Failure](LobbyResult{State: next, Written: true}), nil
	})
}
