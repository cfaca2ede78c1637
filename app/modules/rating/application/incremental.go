package ratingservice

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	matchdb "github.com/open-civ-league/league-bot/app/modules/match/infrastructure/repositories"
	ratingdomain "github.com/open-civ-league/league-bot/app/modules/rating/domain"
	ratingdb "github.com/open-civ-league/league-bot/app/modules/rating/infrastructure/repositories"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/attr"
)

// ApplyMatch runs the incremental rating update for one freshly completed
// match, inside the caller's transaction. The track lock keeps it mutually
// exclusive with a concurrent history replay.
func (s *RatingService) ApplyMatch(ctx context.Context, db bun.IDB, match *matchdb.Match) error {
	lock := s.trackLock(match.Track)
	lock.Lock()
	defer lock.Unlock()

	stored, err := s.repo.ListByTrack(ctx, db, match.Track)
	if err != nil {
		return fmt.Errorf("failed to load ratings for track %s: %w", match.Track, err)
	}

	table := make(ratingTable, len(stored))
	tallies := make(map[sharedtypes.PlayerID]*ratingdb.PlayerRating, len(stored))
	for _, row := range stored {
		table[row.PlayerID] = ratingFromRow(row)
		tallies[row.PlayerID] = row
	}

	if err := s.rateMatch(table, match); err != nil {
		return err
	}

	playedAt := s.now()
	if match.CompletedAt != nil {
		playedAt = *match.CompletedAt
	}

	for _, p := range match.Participants {
		if err := s.matches.UpdateParticipant(ctx, db, p); err != nil {
			return fmt.Errorf("failed to persist rating snapshot for player %s: %w", p.PlayerID, err)
		}

		row, ok := tallies[p.PlayerID]
		if !ok {
			row = &ratingdb.PlayerRating{PlayerID: p.PlayerID, Track: match.Track}
		}
		updated := table[p.PlayerID]
		row.Mu = updated.Mu
		row.Sigma = updated.Sigma
		row.GamesPlayed++
		if p.Placement != nil && *p.Placement == 1 {
			row.Wins++
		}
		at := playedAt
		row.LastPlayedAt = &at
		if err := s.repo.UpsertRating(ctx, db, row); err != nil {
			return err
		}
	}

	s.logger.InfoContext(ctx, "Incremental rating update applied",
		attr.ExtractCorrelationID(ctx),
		attr.String("match_id", match.ID.String()),
		attr.String("track", match.Track.String()),
		attr.Int("participants", len(match.Participants)),
	)
	return nil
}

func ratingFromRow(row *ratingdb.PlayerRating) ratingdomain.Rating {
	return ratingdomain.Rating{Mu: row.Mu, Sigma: row.Sigma}
}
