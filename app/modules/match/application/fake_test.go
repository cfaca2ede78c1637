package matchservice

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"

	matchdb "github.com/open-civ-league/league-bot/app/modules/match/infrastructure/repositories"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/observability"
)

// ------------------------
// Fake Match DB
// ------------------------

type FakeMatchDB struct {
	mu     sync.Mutex
	nextID int64

	matches      map[sharedtypes.MatchID]*matchdb.Match
	participants map[sharedtypes.MatchID][]*matchdb.MatchParticipant
	bans         map[sharedtypes.MatchID][]*matchdb.Ban

	GetMatchFunc    func(ctx context.Context, db bun.IDB, matchID sharedtypes.MatchID) (*matchdb.Match, error)
	UpdateMatchFunc func(ctx context.Context, db bun.IDB, match *matchdb.Match) error
}

func NewFakeMatchDB() *FakeMatchDB {
	return &FakeMatchDB{
		matches:      make(map[sharedtypes.MatchID]*matchdb.Match),
		participants: make(map[sharedtypes.MatchID][]*matchdb.MatchParticipant),
		bans:         make(map[sharedtypes.MatchID][]*matchdb.Ban),
	}
}

func (f *FakeMatchDB) GetMatch(ctx context.Context, db bun.IDB, matchID sharedtypes.MatchID) (*matchdb.Match, error) {
	if f.GetMatchFunc != nil {
		return f.GetMatchFunc(ctx, db, matchID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	match, ok := f.matches[matchID]
	if !ok {
		return nil, matchdb.ErrNotFound
	}
	out := *match
	out.Participants = append([]*matchdb.MatchParticipant(nil), f.participants[matchID]...)
	return &out, nil
}

func (f *FakeMatchDB) CreateMatch(_ context.Context, _ bun.IDB, match *matchdb.Match) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.matches[match.ID]; exists {
		return nil
	}
	stored := *match
	f.matches[match.ID] = &stored
	return nil
}

func (f *FakeMatchDB) EnsureParticipants(_ context.Context, _ bun.IDB, participants []*matchdb.MatchParticipant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range participants {
		dup := false
		for _, existing := range f.participants[p.MatchID] {
			if existing.PlayerID == p.PlayerID {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		f.nextID++
		stored := *p
		stored.ID = f.nextID
		f.participants[p.MatchID] = append(f.participants[p.MatchID], &stored)
	}
	return nil
}

func (f *FakeMatchDB) UpdateMatch(ctx context.Context, db bun.IDB, match *matchdb.Match) error {
	if f.UpdateMatchFunc != nil {
		return f.UpdateMatchFunc(ctx, db, match)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.matches[match.ID]; !ok {
		return matchdb.ErrNoRowsAffected
	}
	stored := *match
	stored.Participants = nil
	f.matches[match.ID] = &stored
	return nil
}

func (f *FakeMatchDB) UpdateParticipant(_ context.Context, _ bun.IDB, participant *matchdb.MatchParticipant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.participants[participant.MatchID] {
		if existing.ID == participant.ID {
			*existing = *participant
			return nil
		}
	}
	return matchdb.ErrNoRowsAffected
}

func (f *FakeMatchDB) ReplaceBans(_ context.Context, _ bun.IDB, matchID sharedtypes.MatchID, bans []*matchdb.Ban) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bans[matchID] = bans
	return nil
}

func (f *FakeMatchDB) ListCompletedByTrack(_ context.Context, _ bun.IDB, track sharedtypes.LeaderboardTrack) ([]*matchdb.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*matchdb.Match
	for id, m := range f.matches {
		if m.Track != track || m.Status != "completed" {
			continue
		}
		cp := *m
		cp.Participants = append([]*matchdb.MatchParticipant(nil), f.participants[id]...)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *FakeMatchDB) Participants(matchID sharedtypes.MatchID) []*matchdb.MatchParticipant {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*matchdb.MatchParticipant(nil), f.participants[matchID]...)
}

func (f *FakeMatchDB) Bans(matchID sharedtypes.MatchID) []*matchdb.Ban {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*matchdb.Ban(nil), f.bans[matchID]...)
}

// ------------------------
// Fake Rating Engine
// ------------------------

type FakeRatingEngine struct {
	Applied  []sharedtypes.MatchID
	Replayed []sharedtypes.LeaderboardTrack
	ApplyErr error
}

func (f *FakeRatingEngine) ApplyMatch(_ context.Context, _ bun.IDB, match *matchdb.Match) error {
	if f.ApplyErr != nil {
		return f.ApplyErr
	}
	f.Applied = append(f.Applied, match.ID)
	return nil
}

func (f *FakeRatingEngine) ReplayTrack(_ context.Context, track sharedtypes.LeaderboardTrack) error {
	f.Replayed = append(f.Replayed, track)
	return nil
}

// ------------------------
// Fake Activity Binder
// ------------------------

type FakeActivityBinder struct {
	Bound   []sharedtypes.MatchID
	Unbound int
}

func (f *FakeActivityBinder) Bind(_ context.Context, matchID sharedtypes.MatchID, _ string, _ []sharedtypes.PlayerID) error {
	f.Bound = append(f.Bound, matchID)
	return nil
}

func (f *FakeActivityBinder) Unbind(_ context.Context, _ string, _ []sharedtypes.PlayerID) error {
	f.Unbound++
	return nil
}

// ------------------------
// Service under test
// ------------------------

type matchFixture struct {
	svc      *MatchService
	repo     *FakeMatchDB
	ratings  *FakeRatingEngine
	activity *FakeActivityBinder
}

func newTestMatchService() *matchFixture {
	f := &matchFixture{
		repo:     NewFakeMatchDB(),
		ratings:  &FakeRatingEngine{},
		activity: &FakeActivityBinder{},
	}
	f.svc = NewMatchService(
		f.repo,
		nil,
		f.activity,
		f.ratings,
		sharedtypes.NewModeRegistry(sharedtypes.DefaultModes()),
		slog.Default(),
		observability.NoopMetrics(),
		noop.NewTracerProvider().Tracer("test"),
	)
	return f
}

func duelSeats() []sharedtypes.DraftSeat {
	teamA, teamB := 0, 1
	return []sharedtypes.DraftSeat{
		{PlayerID: "p1", DisplayName: "P One", Team: &teamA},
		{PlayerID: "p2", DisplayName: "P Two", Team: &teamB},
	}
}
