// Package matchdomain holds the pure pieces of the match ledger: placement
// resolution and the status model. Nothing here touches storage.
package matchdomain

import (
	"errors"

	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
)

var (
	// ErrNoPlacements indicates the input named nobody who is actually in
	// the match.
	ErrNoPlacements = errors.New("placement input names no participants")
	// ErrTeamlessMatch indicates a team-winner input was applied to a match
	// without team structure.
	ErrTeamlessMatch = errors.New("team winner given for a match without teams")
	// ErrUnknownTeamSide indicates a team-winner input named a side that is
	// not present in the match.
	ErrUnknownTeamSide = errors.New("winning side has no participants")
)

// Contender is the slice of a participant that placement resolution needs.
type Contender struct {
	PlayerID sharedtypes.PlayerID
	Team     *int
}

// PlacementInput is the typed outcome report. Exactly two variants exist:
// a winning side for team matches, or an explicit placement order.
type PlacementInput interface {
	isPlacementInput()
}

// TeamWinner declares one side the winner of a team match. Winners place
// first, everyone else shares second.
type TeamWinner struct {
	Side sharedtypes.TeamSide
}

func (TeamWinner) isPlacementInput() {}

// OrderedPlacements lists players best to worst. Participants left off the
// list share the place below the last listed one.
type OrderedPlacements struct {
	Order []sharedtypes.PlayerID
}

func (OrderedPlacements) isPlacementInput() {}

// teamIndex maps a side label onto the numeric team index used on seats.
func teamIndex(side sharedtypes.TeamSide) (int, bool) {
	switch side {
	case sharedtypes.TeamSideA:
		return 0, true
	case sharedtypes.TeamSideB:
		return 1, true
	}
	return 0, false
}

// ResolvePlacements turns a placement input into a final placement for every
// contender. The result always covers every contender or fails.
func ResolvePlacements(contenders []Contender, input PlacementInput) (map[sharedtypes.PlayerID]int, error) {
	switch in := input.(type) {
	case TeamWinner:
		return resolveTeamWinner(contenders, in)
	case OrderedPlacements:
		return resolveOrdered(contenders, in)
	default:
		return nil, ErrNoPlacements
	}
}

func resolveTeamWinner(contenders []Contender, in TeamWinner) (map[sharedtypes.PlayerID]int, error) {
	winning, ok := teamIndex(in.Side)
	if !ok {
		return nil, ErrUnknownTeamSide
	}

	out := make(map[sharedtypes.PlayerID]int, len(contenders))
	winners := 0
	for _, c := range contenders {
		if c.Team == nil {
			return nil, ErrTeamlessMatch
		}
		if *c.Team == winning {
			out[c.PlayerID] = 1
			winners++
		} else {
			out[c.PlayerID] = 2
		}
	}
	if winners == 0 {
		return nil, ErrUnknownTeamSide
	}
	return out, nil
}

func resolveOrdered(contenders []Contender, in OrderedPlacements) (map[sharedtypes.PlayerID]int, error) {
	inMatch := make(map[sharedtypes.PlayerID]bool, len(contenders))
	for _, c := range contenders {
		inMatch[c.PlayerID] = true
	}

	out := make(map[sharedtypes.PlayerID]int, len(contenders))
	rank := 0
	for _, id := range in.Order {
		if !inMatch[id] {
			continue
		}
		if _, dup := out[id]; dup {
			continue
		}
		rank++
		out[id] = rank
	}
	if rank == 0 {
		return nil, ErrNoPlacements
	}

	// Everyone unlisted shares the place below the last listed player.
	last := rank + 1
	for _, c := range contenders {
		if _, ok := out[c.PlayerID]; !ok {
			out[c.PlayerID] = last
		}
	}
	return out, nil
}
