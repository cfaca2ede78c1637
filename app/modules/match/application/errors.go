package matchservice

import (
	"errors"

	matchdb "github.com/open-civ-league/league-bot/app/modules/match/infrastructure/repositories"
)

func isMatchNotFound(err error) bool {
	return errors.Is(err, matchdb.ErrNotFound)
}
