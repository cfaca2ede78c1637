package sharedtypes

// ModeConfig describes one playable game mode.
type ModeConfig struct {
	Mode       GameMode         `yaml:"mode"`
	MaxPlayers int              `yaml:"max_players"`
	TargetSize int              `yaml:"target_size"`
	TeamCount  int              `yaml:"team_count"` // 0 means free-for-all
	Track      LeaderboardTrack `yaml:"track"`
}

// IsFFA reports whether the mode has no team structure.
func (c ModeConfig) IsFFA() bool { return c.TeamCount == 0 }

// ModeRegistry resolves mode names to their configuration.
type ModeRegistry struct {
	modes map[GameMode]ModeConfig
}

func NewModeRegistry(configs []ModeConfig) *ModeRegistry {
	modes := make(map[GameMode]ModeConfig, len(configs))
	for _, c := range configs {
		modes[c.Mode] = c
	}
	return &ModeRegistry{modes: modes}
}

// DefaultModes is the community's standard mode table.
func DefaultModes() []ModeConfig {
	return []ModeConfig{
		{Mode: "duel", MaxPlayers: 2, TargetSize: 2, TeamCount: 2, Track: "duel"},
		{Mode: "teamers", MaxPlayers: 6, TargetSize: 6, TeamCount: 2, Track: "teamers"},
		{Mode: "ffa", MaxPlayers: 8, TargetSize: 8, TeamCount: 0, Track: "ffa"},
	}
}

// Lookup returns the mode config and whether the mode exists.
func (r *ModeRegistry) Lookup(mode GameMode) (ModeConfig, bool) {
	c, ok := r.modes[mode]
	return c, ok
}

// Modes returns every registered mode.
func (r *ModeRegistry) Modes() []ModeConfig {
	out := make([]ModeConfig, 0, len(r.modes))
	for _, c := range r.modes {
		out = append(out, c)
	}
	return out
}

// TracksFor returns the modes sharing the given leaderboard track.
func (r *ModeRegistry) TracksFor(track LeaderboardTrack) []GameMode {
	var out []GameMode
	for _, c := range r.modes {
		if c.Track == track {
			out = append(out, c.Mode)
		}
	}
	return out
}
