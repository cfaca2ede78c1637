package matchdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
)

// MatchDBImpl implements MatchDB over bun.
type MatchDBImpl struct {
	DB *bun.DB
}

func (r *MatchDBImpl) conn(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return r.DB
}

func (r *MatchDBImpl) GetMatch(ctx context.Context, db bun.IDB, matchID sharedtypes.MatchID) (*Match, error) {
	var match Match
	err := r.conn(db).NewSelect().
		Model(&match).
		Relation("Participants").
		Where("m.id = ?", matchID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch match %s: %w", matchID, err)
	}
	return &match, nil
}

func (r *MatchDBImpl) CreateMatch(ctx context.Context, db bun.IDB, match *Match) error {
	_, err := r.conn(db).NewInsert().
		Model(match).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert match %s: %w", match.ID, err)
	}
	return nil
}

// EnsureParticipants inserts the seats, skipping (match_id, player_id) pairs
// that already exist. Safe to call repeatedly with the same seats.
func (r *MatchDBImpl) EnsureParticipants(ctx context.Context, db bun.IDB, participants []*MatchParticipant) error {
	if len(participants) == 0 {
		return nil
	}
	_, err := r.conn(db).NewInsert().
		Model(&participants).
		On("CONFLICT (match_id, player_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert participants for match %s: %w", participants[0].MatchID, err)
	}
	return nil
}

func (r *MatchDBImpl) UpdateMatch(ctx context.Context, db bun.IDB, match *Match) error {
	res, err := r.conn(db).NewUpdate().
		Model(match).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update match %s: %w", match.ID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected for match %s: %w", match.ID, err)
	}
	if rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *MatchDBImpl) UpdateParticipant(ctx context.Context, db bun.IDB, participant *MatchParticipant) error {
	res, err := r.conn(db).NewUpdate().
		Model(participant).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update participant %d: %w", participant.ID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected for participant %d: %w", participant.ID, err)
	}
	if rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

// ReplaceBans swaps the recorded ban list. Draft completion may be retried
// by the room, so this overwrites rather than appends.
func (r *MatchDBImpl) ReplaceBans(ctx context.Context, db bun.IDB, matchID sharedtypes.MatchID, bans []*Ban) error {
	conn := r.conn(db)
	if _, err := conn.NewDelete().
		Model((*Ban)(nil)).
		Where("match_id = ?", matchID).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear bans for match %s: %w", matchID, err)
	}
	if len(bans) == 0 {
		return nil
	}
	if _, err := conn.NewInsert().
		Model(&bans).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert bans for match %s: %w", matchID, err)
	}
	return nil
}

// ListCompletedByTrack returns every completed match of the track with its
// participants, ordered by (created_at, id). This is the replay input order.
func (r *MatchDBImpl) ListCompletedByTrack(ctx context.Context, db bun.IDB, track sharedtypes.LeaderboardTrack) ([]*Match, error) {
	var matches []*Match
	err := r.conn(db).NewSelect().
		Model(&matches).
		Relation("Participants").
		Where("m.track = ?", track).
		Where("m.status = ?", "completed").
		Order("m.created_at ASC", "m.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed matches for track %s: %w", track, err)
	}
	return matches, nil
}
