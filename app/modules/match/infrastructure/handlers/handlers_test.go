package matchhandlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	matchservice "github.com/open-civ-league/league-bot/app/modules/match/application"
	matchdomain "github.com/open-civ-league/league-bot/app/modules/match/domain"
	matchdb "github.com/open-civ-league/league-bot/app/modules/match/infrastructure/repositories"
	sharedevents "github.com/open-civ-league/league-bot/app/shared/events"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/results"
)

func matchOpSuccess(matchID sharedtypes.MatchID, status matchdomain.Status) matchOp {
	return results.SuccessResult[matchservice.MatchResult, sharedtypes.Failure](matchservice.MatchResult{
		Match: &matchdb.Match{ID: matchID, Status: status},
	})
}

func TestHandleDraftCompleted_ActivatesMatch(t *testing.T) {
	svc := &FakeMatchService{
		ActivateDraftMatchFunc: func(_ context.Context, matchID sharedtypes.MatchID, draft sharedtypes.DraftResult) (matchOp, error) {
			assert.Equal(t, sharedtypes.MatchID("m-1"), matchID)
			assert.Equal(t, "rome", draft.Picks["p1"])
			return matchOpSuccess(matchID, matchdomain.StatusActive), nil
		},
	}
	handlers := newTestMatchHandlers(svc)

	msg := requestMessage(t, sharedtypes.DraftResult{
		MatchID:     "m-1",
		Picks:       map[sharedtypes.PlayerID]string{"p1": "rome"},
		CompletedAt: time.Now().UTC(),
	})
	out, err := handlers.HandleDraftCompleted(msg)
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, sharedevents.MatchActivateSuccess, out[0].Metadata.Get("topic"))
	payload := decodePayload[sharedevents.MatchResultPayload](t, out[0])
	assert.Equal(t, string(matchdomain.StatusActive), payload.Status)
}

func TestHandleReportRequest_WinnerSideBecomesTeamWinner(t *testing.T) {
	side := sharedtypes.TeamSideB
	svc := &FakeMatchService{
		ReportMatchFunc: func(_ context.Context, matchID sharedtypes.MatchID, reporterID sharedtypes.PlayerID, input matchdomain.PlacementInput) (matchOp, error) {
			assert.Equal(t, sharedtypes.PlayerID("host"), reporterID)
			winner, ok := input.(matchdomain.TeamWinner)
			require.True(t, ok, "expected TeamWinner input, got %T", input)
			assert.Equal(t, sharedtypes.TeamSideB, winner.Side)
			return matchOpSuccess(matchID, matchdomain.StatusCompleted), nil
		},
	}
	handlers := newTestMatchHandlers(svc)

	msg := requestMessage(t, sharedevents.MatchReportRequestPayload{
		MatchID:    "m-1",
		ReporterID: "host",
		WinnerSide: &side,
	})
	out, err := handlers.HandleReportRequest(msg)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, sharedevents.MatchReportSuccess, out[0].Metadata.Get("topic"))
}

func TestHandleReportRequest_PlacementsBecomeOrdered(t *testing.T) {
	svc := &FakeMatchService{
		ReportMatchFunc: func(_ context.Context, matchID sharedtypes.MatchID, _ sharedtypes.PlayerID, input matchdomain.PlacementInput) (matchOp, error) {
			ordered, ok := input.(matchdomain.OrderedPlacements)
			require.True(t, ok, "expected OrderedPlacements input, got %T", input)
			assert.Equal(t, []sharedtypes.PlayerID{"p2", "p1"}, ordered.Order)
			return matchOpSuccess(matchID, matchdomain.StatusCompleted), nil
		},
	}
	handlers := newTestMatchHandlers(svc)

	msg := requestMessage(t, sharedevents.MatchReportRequestPayload{
		MatchID:    "m-1",
		ReporterID: "p2",
		Placements: []sharedtypes.PlayerID{"p2", "p1"},
	})
	out, err := handlers.HandleReportRequest(msg)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, sharedevents.MatchReportSuccess, out[0].Metadata.Get("topic"))
}

func TestHandleReportRequest_MissingOutcomeIsSoftFailure(t *testing.T) {
	svc := &FakeMatchService{}
	handlers := newTestMatchHandlers(svc)

	msg := requestMessage(t, sharedevents.MatchReportRequestPayload{
		MatchID:    "m-1",
		ReporterID: "host",
	})
	out, err := handlers.HandleReportRequest(msg)
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, sharedevents.MatchReportFailure, out[0].Metadata.Get("topic"))
	payload := decodePayload[sharedevents.FailurePayload](t, out[0])
	assert.Equal(t, sharedtypes.FailureMissingPlacement, payload.Failure.Code)
}

func TestHandleModerateRequest_Cancel(t *testing.T) {
	svc := &FakeMatchService{
		CancelMatchByModeratorFunc: func(_ context.Context, matchID sharedtypes.MatchID) (matchOp, error) {
			return matchOpSuccess(matchID, matchdomain.StatusCancelled), nil
		},
	}
	handlers := newTestMatchHandlers(svc)

	msg := requestMessage(t, sharedevents.MatchModerateRequestPayload{MatchID: "m-1", Cancel: true})
	out, err := handlers.HandleModerateRequest(msg)
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, sharedevents.MatchModerateSuccess, out[0].Metadata.Get("topic"))
	payload := decodePayload[sharedevents.MatchResultPayload](t, out[0])
	assert.Equal(t, string(matchdomain.StatusCancelled), payload.Status)
}

func TestHandleModerateRequest_Resolve(t *testing.T) {
	svc := &FakeMatchService{
		ResolveMatchByModeratorFunc: func(_ context.Context, matchID sharedtypes.MatchID, input matchdomain.PlacementInput) (matchOp, error) {
			ordered, ok := input.(matchdomain.OrderedPlacements)
			require.True(t, ok)
			assert.Equal(t, []sharedtypes.PlayerID{"p1"}, ordered.Order)
			return matchOpSuccess(matchID, matchdomain.StatusCompleted), nil
		},
	}
	handlers := newTestMatchHandlers(svc)

	msg := requestMessage(t, sharedevents.MatchModerateRequestPayload{
		MatchID:    "m-1",
		Placements: []sharedtypes.PlayerID{"p1"},
	})
	out, err := handlers.HandleModerateRequest(msg)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, sharedevents.MatchModerateSuccess, out[0].Metadata.Get("topic"))
}
