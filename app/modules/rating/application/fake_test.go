package ratingservice

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"

	matchdb "github.com/open-civ-league/league-bot/app/modules/match/infrastructure/repositories"
	ratingdb "github.com/open-civ-league/league-bot/app/modules/rating/infrastructure/repositories"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/observability"
)

// ------------------------
// Fake Rating DB
// ------------------------

type FakeRatingDB struct {
	mu   sync.Mutex
	rows map[sharedtypes.LeaderboardTrack]map[sharedtypes.PlayerID]*ratingdb.PlayerRating
}

func NewFakeRatingDB() *FakeRatingDB {
	return &FakeRatingDB{rows: make(map[sharedtypes.LeaderboardTrack]map[sharedtypes.PlayerID]*ratingdb.PlayerRating)}
}

func (f *FakeRatingDB) ListByTrack(_ context.Context, _ bun.IDB, track sharedtypes.LeaderboardTrack) ([]*ratingdb.PlayerRating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*ratingdb.PlayerRating
	for _, row := range f.rows[track] {
		cp := *row
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		ci := out[i].Mu - 3*out[i].Sigma
		cj := out[j].Mu - 3*out[j].Sigma
		if ci != cj {
			return ci > cj
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out, nil
}

func (f *FakeRatingDB) UpsertRating(_ context.Context, _ bun.IDB, rating *ratingdb.PlayerRating) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	track := f.rows[rating.Track]
	if track == nil {
		track = make(map[sharedtypes.PlayerID]*ratingdb.PlayerRating)
		f.rows[rating.Track] = track
	}
	cp := *rating
	track[rating.PlayerID] = &cp
	return nil
}

func (f *FakeRatingDB) ReplaceTrack(_ context.Context, _ bun.IDB, track sharedtypes.LeaderboardTrack, ratings []*ratingdb.PlayerRating) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := make(map[sharedtypes.PlayerID]*ratingdb.PlayerRating, len(ratings))
	for _, r := range ratings {
		cp := *r
		next[r.PlayerID] = &cp
	}
	f.rows[track] = next
	return nil
}

func (f *FakeRatingDB) Row(track sharedtypes.LeaderboardTrack, player sharedtypes.PlayerID) *ratingdb.PlayerRating {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[track][player]
	if !ok {
		return nil
	}
	cp := *row
	return &cp
}

// ------------------------
// Fake Match Ledger
// ------------------------

type FakeMatchLedger struct {
	mu      sync.Mutex
	matches []*matchdb.Match
}

func (f *FakeMatchLedger) Add(match *matchdb.Match) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matches = append(f.matches, match)
}

func (f *FakeMatchLedger) GetMatch(_ context.Context, _ bun.IDB, matchID sharedtypes.MatchID) (*matchdb.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.matches {
		if m.ID == matchID {
			return m, nil
		}
	}
	return nil, matchdb.ErrNotFound
}

func (f *FakeMatchLedger) CreateMatch(_ context.Context, _ bun.IDB, match *matchdb.Match) error {
	f.Add(match)
	return nil
}

func (f *FakeMatchLedger) EnsureParticipants(_ context.Context, _ bun.IDB, _ []*matchdb.MatchParticipant) error {
	return nil
}

func (f *FakeMatchLedger) UpdateMatch(_ context.Context, _ bun.IDB, _ *matchdb.Match) error {
	return nil
}

func (f *FakeMatchLedger) UpdateParticipant(_ context.Context, _ bun.IDB, _ *matchdb.MatchParticipant) error {
	// Participants are shared pointers here; the engine already stamped them.
	return nil
}

func (f *FakeMatchLedger) ReplaceBans(_ context.Context, _ bun.IDB, _ sharedtypes.MatchID, _ []*matchdb.Ban) error {
	return nil
}

func (f *FakeMatchLedger) ListCompletedByTrack(_ context.Context, _ bun.IDB, track sharedtypes.LeaderboardTrack) ([]*matchdb.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*matchdb.Match
	for _, m := range f.matches {
		if m.Track == track && m.Status == "completed" {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ------------------------
// Service under test
// ------------------------

type ratingFixture struct {
	svc    *RatingService
	repo   *FakeRatingDB
	ledger *FakeMatchLedger
}

func newTestRatingService() *ratingFixture {
	f := &ratingFixture{
		repo:   NewFakeRatingDB(),
		ledger: &FakeMatchLedger{},
	}
	f.svc = NewRatingService(
		f.repo,
		f.ledger,
		nil,
		nil,
		slog.Default(),
		observability.NoopMetrics(),
		noop.NewTracerProvider().Tracer("test"),
	)
	return f
}

// completedDuel builds a finished duel where winner placed first.
func completedDuel(id sharedtypes.MatchID, createdAt time.Time, winner, loser sharedtypes.PlayerID) *matchdb.Match {
	teamA, teamB := 0, 1
	first, second := 1, 2
	completed := createdAt.Add(time.Hour)
	return &matchdb.Match{
		ID:          id,
		GameMode:    "duel",
		Track:       "duel",
		Status:      "completed",
		CreatedAt:   createdAt,
		CompletedAt: &completed,
		Participants: []*matchdb.MatchParticipant{
			{ID: 1, MatchID: id, PlayerID: winner, Team: &teamA, Placement: &first},
			{ID: 2, MatchID: id, PlayerID: loser, Team: &teamB, Placement: &second},
		},
	}
}
