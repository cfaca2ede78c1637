// Package ratingdomain holds the skill model: the rating value object, the
// pluggable Rater contract, and the shipped Gaussian implementation. All of
// it is pure; determinism here is what makes history replay meaningful.
package ratingdomain

// Rating is a Gaussian skill belief.
type Rating struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

const (
	defaultMu    = 25.0
	defaultSigma = defaultMu / 3.0
)

// NewDefaultRating is the belief assigned to a player with no history.
func NewDefaultRating() Rating {
	return Rating{Mu: defaultMu, Sigma: defaultSigma}
}

// Conservative is the ordering estimate used for leaderboards: the skill we
// are confident the player at least has.
func (r Rating) Conservative() float64 {
	return r.Mu - 3*r.Sigma
}

// Rater updates team ratings from one match outcome. teams[i] holds the
// ratings of team i's members; ranks[i] is team i's final placement (1 is
// best, equal ranks mean a draw). Implementations must be deterministic and
// hold no state between calls.
type Rater interface {
	Rate(teams [][]Rating, ranks []int) ([][]Rating, error)
}
