package matchmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	matchdb "github.com/open-civ-league/league-bot/app/modules/match/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating match tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*matchdb.Match)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create matches table: %w", err)
			}
			if _, err := tx.NewCreateTable().Model((*matchdb.MatchParticipant)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create match_participants table: %w", err)
			}
			if _, err := tx.NewCreateTable().Model((*matchdb.Ban)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create match_bans table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_match_participants_pair
					ON match_participants(match_id, player_id);
			`); err != nil {
				return fmt.Errorf("failed to add participant uniqueness index: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_matches_track_status_created
					ON matches(track, status, created_at, id);
			`); err != nil {
				return fmt.Errorf("failed to add match replay-order index: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_match_bans_match_id
					ON match_bans(match_id);
			`); err != nil {
				return fmt.Errorf("failed to add ban match index: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping match tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewDropTable().Model((*matchdb.Ban)(nil)).IfExists().Exec(ctx); err != nil {
				return err
			}
			if _, err := tx.NewDropTable().Model((*matchdb.MatchParticipant)(nil)).IfExists().Exec(ctx); err != nil {
				return err
			}
			if _, err := tx.NewDropTable().Model((*matchdb.Match)(nil)).IfExists().Exec(ctx); err != nil {
				return err
			}
			return nil
		})
	})
}
