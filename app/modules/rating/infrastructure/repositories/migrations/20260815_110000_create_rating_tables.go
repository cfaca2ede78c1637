package ratingmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	ratingdb "github.com/open-civ-league/league-bot/app/modules/rating/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating rating tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*ratingdb.PlayerRating)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create player_ratings table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_player_ratings_pair
					ON player_ratings(player_id, track);
			`); err != nil {
				return fmt.Errorf("failed to add rating uniqueness index: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_player_ratings_leaderboard
					ON player_ratings(track, (mu - 3 * sigma) DESC);
			`); err != nil {
				return fmt.Errorf("failed to add leaderboard ordering index: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping rating tables...")

		if _, err := db.NewDropTable().Model((*ratingdb.PlayerRating)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}
