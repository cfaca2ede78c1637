package lobbyservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	lobbydomain "github.com/open-civ-league/league-bot/app/modules/lobby/domain"
	lobbystorage "github.com/open-civ-league/league-bot/app/modules/lobby/infrastructure/storage"
	queuedomain "github.com/open-civ-league/league-bot/app/modules/queue/domain"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/attr"
	"github.com/open-civ-league/league-bot/internal/draftroom"
	"github.com/open-civ-league/league-bot/internal/results"
)

// FormMatch turns a full queue into a match: the ledger record is created
// first, the lobby moves to drafting with the match attached, the matched
// players leave the queue, and the draft room is started. A queue below
// target size is not an error; the result simply reports nothing formed.
func (s *LobbyService) FormMatch(ctx context.Context, mode sharedtypes.GameMode) (results.OperationResult[FormMatchResult, sharedtypes.Failure], error) {
	return withTelemetry(s, ctx, "FormMatch", mode, func(ctx context.Context) (results.OperationResult[FormMatchResult, sharedtypes.Failure], error) {
		cfg, ok := s.modes.Lookup(mode)
		if !ok {
			return results.FailureResult[FormMatchResult](
				sharedtypes.NewFailure(sharedtypes.FailureNotFound, "unknown mode %q", mode),
			), nil
		}

		entries, err := s.liveQueueEntries(ctx, mode)
		if err != nil {
			return results.OperationResult[FormMatchResult, sharedtypes.Failure]{}, fmt.Errorf("failed to load queue: %w", err)
		}
		if len(entries) < cfg.TargetSize {
			return results.SuccessResult[FormMatchResult, sharedtypes.Failure](FormMatchResult{}), nil
		}
		matched := entries[:cfg.TargetSize]

		state, err := s.storage.Get(ctx, mode)
		if err != nil {
			if errors.Is(err, lobbystorage.ErrNotFound) {
				return results.FailureResult[FormMatchResult](
					sharedtypes.NewFailure(sharedtypes.FailureNotFound, "no %s lobby exists", mode),
				), nil
			}
			return results.OperationResult[FormMatchResult, sharedtypes.Failure]{}, fmt.Errorf("failed to load lobby: %w", err)
		}
		if state.Status != lobbydomain.StatusOpen || state.MatchID != nil {
			return results.FailureResult[FormMatchResult](
				sharedtypes.NewFailure(sharedtypes.FailureInvalidState, "lobby is %s and cannot form a match", state.Status),
			), nil
		}

		matchID := sharedtypes.MatchID(uuid.New().String())
		seats := buildSeats(cfg, matched)

		if err := s.matches.CreateDraftMatch(ctx, matchID, mode, seats, state.HostID, state.Channel.ChannelID); err != nil {
			return results.OperationResult[FormMatchResult, sharedtypes.Failure]{}, fmt.Errorf("failed to create match record: %w", err)
		}

		next := state.Clone()
		next.MatchID = &matchID
		next.Status = lobbydomain.StatusDrafting
		next.Bump(s.now())
		if err := s.storage.Put(ctx, next); err != nil {
			return results.OperationResult[FormMatchResult, sharedtypes.Failure]{}, fmt.Errorf("failed to persist lobby for match %s: %w", matchID, err)
		}

		playerIDs := make([]sharedtypes.PlayerID, len(matched))
		for i, e := range matched {
			playerIDs[i] = e.PlayerID
		}
		if err := s.clearer.ClearMatched(ctx, mode, playerIDs); err != nil {
			return results.OperationResult[FormMatchResult, sharedtypes.Failure]{}, fmt.Errorf("failed to clear matched players from queue: %w", err)
		}

		s.logger.InfoContext(ctx, "Match formed",
			attr.ExtractCorrelationID(ctx),
			attr.String("mode", mode.String()),
			attr.String("match_id", matchID.String()),
			attr.Int("players", len(seats)),
		)

		if err := s.draftRoom.StartDraft(ctx, draftroom.StartDraftRequest{
			MatchID:     matchID,
			Seats:       seats,
			TimerConfig: next.DraftConfig,
		}); err != nil {
			if errors.Is(err, draftroom.ErrAckTimeout) {
				s.logger.WarnContext(ctx, "Draft room did not acknowledge draft start",
					attr.ExtractCorrelationID(ctx),
					attr.String("match_id", matchID.String()),
				)
				return results.FailureResult[FormMatchResult](
					sharedtypes.NewFailure(sharedtypes.FailureAckTimeout, "match %s created but the draft room did not confirm the draft start", matchID),
				), nil
			}
			return results.OperationResult[FormMatchResult, sharedtypes.Failure]{}, fmt.Errorf("failed to start draft for match %s: %w", matchID, err)
		}

		return results.SuccessResult[FormMatchResult, sharedtypes.Failure](FormMatchResult{
			Formed:  true,
			MatchID: matchID,
			State:   next,
			Seats:   seats,
		}), nil
	})
}

// buildSeats assigns matched players to seats. Team modes fill contiguous
// blocks in queue order; free-for-all seats carry no team.
func buildSeats(cfg sharedtypes.ModeConfig, matched []queuedomain.QueueEntry) []sharedtypes.DraftSeat {
	seats := make([]sharedtypes.DraftSeat, len(matched))
	blockSize := 0
	if cfg.TeamCount > 0 {
		blockSize = cfg.TargetSize / cfg.TeamCount
	}
	for i, e := range matched {
		seat := sharedtypes.DraftSeat{
			PlayerID:    e.PlayerID,
			DisplayName: e.DisplayName,
		}
		if blockSize > 0 {
			team := i / blockSize
			seat.Team = &team
		}
		seats[i] = seat
	}
	return seats
}
