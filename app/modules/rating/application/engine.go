package ratingservice

import (
	"sort"

	matchdb "github.com/open-civ-league/league-bot/app/modules/match/infrastructure/repositories"
	ratingdomain "github.com/open-civ-league/league-bot/app/modules/rating/domain"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
)

// ratingTable is the in-memory skill state the engine folds over. Players
// absent from the table carry the default rating.
type ratingTable map[sharedtypes.PlayerID]ratingdomain.Rating

func (t ratingTable) get(id sharedtypes.PlayerID) ratingdomain.Rating {
	if r, ok := t[id]; ok {
		return r
	}
	return ratingdomain.NewDefaultRating()
}

// rankOf returns the player's 1-based leaderboard rank within the table by
// conservative estimate, ties broken by player id for stability.
func (t ratingTable) rankOf(id sharedtypes.PlayerID) int {
	self := t.get(id)
	rank := 1
	for other, r := range t {
		if other == id {
			continue
		}
		if r.Conservative() > self.Conservative() ||
			(r.Conservative() == self.Conservative() && other < id) {
			rank++
		}
	}
	return rank
}

// ratingGroup is one rating unit: a team, or a single player in FFA.
type ratingGroup struct {
	members   []*matchdb.MatchParticipant
	placement int
}

// groupMatch splits a completed match's participants into rating groups.
// Every participant must carry a placement; team and teamless participants
// cannot mix.
func groupMatch(match *matchdb.Match) ([]ratingGroup, error) {
	if len(match.Participants) < 2 {
		return nil, &IntegrityError{MatchID: match.ID, Reason: "fewer than two participants"}
	}

	teamed, solo := 0, 0
	for _, p := range match.Participants {
		if p.Placement == nil {
			return nil, &IntegrityError{MatchID: match.ID, Reason: "participant " + string(p.PlayerID) + " has no placement"}
		}
		if p.Team != nil {
			teamed++
		} else {
			solo++
		}
	}
	if teamed > 0 && solo > 0 {
		return nil, &IntegrityError{MatchID: match.ID, Reason: "mixed team and teamless participants"}
	}

	if teamed == 0 {
		// Free-for-all: one group per participant, ordered by placement.
		groups := make([]ratingGroup, len(match.Participants))
		for i, p := range match.Participants {
			groups[i] = ratingGroup{members: []*matchdb.MatchParticipant{p}, placement: *p.Placement}
		}
		sortGroups(groups)
		return groups, nil
	}

	byTeam := make(map[int][]*matchdb.MatchParticipant)
	for _, p := range match.Participants {
		byTeam[*p.Team] = append(byTeam[*p.Team], p)
	}
	groups := make([]ratingGroup, 0, len(byTeam))
	for _, members := range byTeam {
		placement := *members[0].Placement
		for _, m := range members[1:] {
			if *m.Placement < placement {
				placement = *m.Placement
			}
		}
		groups = append(groups, ratingGroup{members: members, placement: placement})
	}
	sortGroups(groups)
	return groups, nil
}

// sortGroups fixes the group order so rating is independent of map and
// storage iteration order.
func sortGroups(groups []ratingGroup) {
	for _, g := range groups {
		sort.Slice(g.members, func(i, j int) bool {
			return g.members[i].PlayerID < g.members[j].PlayerID
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].placement != groups[j].placement {
			return groups[i].placement < groups[j].placement
		}
		return groups[i].members[0].PlayerID < groups[j].members[0].PlayerID
	})
}

// rateMatch rates one completed match against the table, stamps
// before/after snapshots onto its participants, and mutates the table to
// the posterior. The caller persists the participant rows.
func (s *RatingService) rateMatch(table ratingTable, match *matchdb.Match) error {
	groups, err := groupMatch(match)
	if err != nil {
		return err
	}

	teams := make([][]ratingdomain.Rating, len(groups))
	placements := make([]int, len(groups))
	for i, g := range groups {
		placements[i] = g.placement
		teams[i] = make([]ratingdomain.Rating, len(g.members))
		for j, m := range g.members {
			teams[i][j] = table.get(m.PlayerID)
		}
	}
	ranks := ratingdomain.RankTeams(placements)

	rated, err := s.rater.Rate(teams, ranks)
	if err != nil {
		return &IntegrityError{MatchID: match.ID, Reason: err.Error()}
	}

	// Ranks-before come from the table as it stood; apply the posterior,
	// then read ranks-after.
	for i, g := range groups {
		for j, m := range g.members {
			before := teams[i][j]
			rankBefore := table.rankOf(m.PlayerID)
			m.RatingBeforeMean = f64(before.Mu)
			m.RatingBeforeSigma = f64(before.Sigma)
			m.RankBefore = intp(rankBefore)
		}
	}
	for i, g := range groups {
		for j, m := range g.members {
			table[m.PlayerID] = rated[i][j]
		}
	}
	for i, g := range groups {
		for j, m := range g.members {
			after := rated[i][j]
			m.RatingAfterMean = f64(after.Mu)
			m.RatingAfterSigma = f64(after.Sigma)
			m.RankAfter = intp(table.rankOf(m.PlayerID))
		}
	}
	return nil
}

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }
