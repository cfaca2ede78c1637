package ratingservice

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/uptrace/bun"

	ratingdb "github.com/open-civ-league/league-bot/app/modules/rating/infrastructure/repositories"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/attr"
)

// ReplayTrack recomputes the track's ratings from scratch: a pure fold over
// every completed match in (created_at, id) order, starting every player at
// the default rating and never reading the stored rows. The fold's output
// replaces the track's rating rows in one transaction.
func (s *RatingService) ReplayTrack(ctx context.Context, track sharedtypes.LeaderboardTrack) error {
	lock := s.trackLock(track)
	lock.Lock()
	defer lock.Unlock()

	started := s.now()
	var matchCount, playerCount int

	err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) error {
		matches, err := s.matches.ListCompletedByTrack(ctx, db, track)
		if err != nil {
			return err
		}
		matchCount = len(matches)

		table := make(ratingTable)
		type tally struct {
			games      int
			wins       int
			lastPlayed time.Time
		}
		tallies := make(map[sharedtypes.PlayerID]*tally)

		for _, match := range matches {
			if err := s.rateMatch(table, match); err != nil {
				return err
			}
			for _, p := range match.Participants {
				if err := s.matches.UpdateParticipant(ctx, db, p); err != nil {
					return fmt.Errorf("failed to persist replayed snapshot for player %s: %w", p.PlayerID, err)
				}
				tl, ok := tallies[p.PlayerID]
				if !ok {
					tl = &tally{}
					tallies[p.PlayerID] = tl
				}
				tl.games++
				if p.Placement != nil && *p.Placement == 1 {
					tl.wins++
				}
				if match.CompletedAt != nil && match.CompletedAt.After(tl.lastPlayed) {
					tl.lastPlayed = *match.CompletedAt
				}
			}
		}

		rows := make([]*ratingdb.PlayerRating, 0, len(table))
		for id, r := range table {
			tl := tallies[id]
			row := &ratingdb.PlayerRating{
				PlayerID: id,
				Track:    track,
				Mu:       r.Mu,
				Sigma:    r.Sigma,
			}
			if tl != nil {
				row.GamesPlayed = tl.games
				row.Wins = tl.wins
				if !tl.lastPlayed.IsZero() {
					at := tl.lastPlayed
					row.LastPlayedAt = &at
				}
			}
			rows = append(rows, row)
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].PlayerID < rows[j].PlayerID })
		playerCount = len(rows)

		return s.repo.ReplaceTrack(ctx, db, track, rows)
	})
	if err != nil {
		return fmt.Errorf("replay of track %s failed: %w", track, err)
	}

	s.logger.InfoContext(ctx, "Track replay completed",
		attr.ExtractCorrelationID(ctx),
		attr.String("track", track.String()),
		attr.Int("matches", matchCount),
		attr.Int("players", playerCount),
		attr.Duration("took", time.Since(started)),
	)
	return nil
}
