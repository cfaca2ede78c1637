package ratingdomain

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrShapeMismatch indicates teams and ranks disagree in length.
var ErrShapeMismatch = errors.New("teams and ranks must have the same length")

// GaussianRater is the shipped Rater: a TrueSkill-flavored pairwise update.
// Every ordered pair of teams contributes one win/loss/draw update, scaled
// by 1/(n-1) so multi-team matches do not overshoot.
type GaussianRater struct {
	// Beta is the skill distance giving ~76% win probability. Zero means
	// the conventional default of sigma0/2.
	Beta float64
	// DrawMargin widens the band treated as a draw. Zero disables it.
	DrawMargin float64
}

// NewGaussianRater returns the rater with conventional constants.
func NewGaussianRater() *GaussianRater {
	return &GaussianRater{Beta: defaultSigma / 2}
}

func (g *GaussianRater) beta() float64 {
	if g.Beta > 0 {
		return g.Beta
	}
	return defaultSigma / 2
}

func (g *GaussianRater) Rate(teams [][]Rating, ranks []int) ([][]Rating, error) {
	if len(teams) != len(ranks) {
		return nil, ErrShapeMismatch
	}
	if len(teams) < 2 {
		return nil, fmt.Errorf("need at least two teams, got %d", len(teams))
	}
	for i, team := range teams {
		if len(team) == 0 {
			return nil, fmt.Errorf("team %d has no members", i)
		}
	}

	out := make([][]Rating, len(teams))
	for i, team := range teams {
		out[i] = append([]Rating(nil), team...)
	}

	// Accumulate mu deltas and sigma shrink factors against the input
	// ratings so pair order cannot influence the result.
	muDelta := make([][]float64, len(teams))
	sigmaScale := make([][]float64, len(teams))
	for i, team := range teams {
		muDelta[i] = make([]float64, len(team))
		sigmaScale[i] = make([]float64, len(team))
		for j := range team {
			sigmaScale[i][j] = 1
		}
	}

	pairWeight := 1.0 / float64(len(teams)-1)
	for i := range teams {
		for j := i + 1; j < len(teams); j++ {
			g.ratePair(teams, ranks, i, j, pairWeight, muDelta, sigmaScale)
		}
	}

	for i, team := range teams {
		for j, r := range team {
			sigma2 := r.Sigma * r.Sigma * sigmaScale[i][j]
			out[i][j] = Rating{
				Mu:    r.Mu + muDelta[i][j],
				Sigma: math.Sqrt(sigma2),
			}
		}
	}
	return out, nil
}

func (g *GaussianRater) ratePair(teams [][]Rating, ranks []int, i, j int, weight float64, muDelta, sigmaScale [][]float64) {
	_, sigma2I := teamAggregate(teams[i])
	_, sigma2J := teamAggregate(teams[j])

	beta := g.beta()
	c2 := 2*beta*beta + sigma2I + sigma2J
	c := math.Sqrt(c2)

	var winner, loser int
	draw := ranks[i] == ranks[j]
	if ranks[i] <= ranks[j] {
		winner, loser = i, j
	} else {
		winner, loser = j, i
	}

	muW, _ := teamAggregate(teams[winner])
	muL, _ := teamAggregate(teams[loser])
	t := (muW - muL) / c
	eps := g.DrawMargin / c

	var v, w float64
	if draw {
		v, w = vwDraw(t, eps)
	} else {
		v, w = vwWin(t, eps)
	}

	applyTeam := func(team int, sign float64) {
		for m, r := range teams[team] {
			share := (r.Sigma * r.Sigma) / c
			muDelta[team][m] += weight * sign * share * v
			shrink := weight * (r.Sigma * r.Sigma) / c2 * w
			sigmaScale[team][m] *= math.Max(1-shrink, 1e-4)
		}
	}
	applyTeam(winner, 1)
	applyTeam(loser, -1)
}

func teamAggregate(team []Rating) (mu, sigma2 float64) {
	for _, r := range team {
		mu += r.Mu
		sigma2 += r.Sigma * r.Sigma
	}
	return mu, sigma2
}

func normPDF(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// vwWin are the truncated-Gaussian correction terms for a decisive result.
func vwWin(t, eps float64) (float64, float64) {
	denom := normCDF(t - eps)
	if denom < 1e-12 {
		v := -(t - eps)
		return v, v * (v + t - eps)
	}
	v := normPDF(t-eps) / denom
	return v, v * (v + t - eps)
}

// vwDraw are the correction terms for a draw within the margin.
func vwDraw(t, eps float64) (float64, float64) {
	abs := math.Abs(t)
	denom := normCDF(eps-abs) - normCDF(-eps-abs)
	if denom < 1e-12 {
		if t < 0 {
			return -t - eps, 1
		}
		return -t + eps, 1
	}
	num := normPDF(-eps-abs) - normPDF(eps-abs)
	v := num / denom
	if t < 0 {
		v = -v
	}
	wNum := (eps-abs)*normPDF(eps-abs) + (eps+abs)*normPDF(eps+abs)
	w := v*v + wNum/denom
	return v, w
}

// RankTeams converts per-team placements into dense ranks preserving ties.
func RankTeams(placements []int) []int {
	sorted := append([]int(nil), placements...)
	sort.Ints(sorted)
	rank := make(map[int]int, len(sorted))
	next := 1
	for _, p := range sorted {
		if _, ok := rank[p]; !ok {
			rank[p] = next
		}
		next++
	}
	out := make([]int, len(placements))
	for i, p := range placements {
		out[i] = rank[p]
	}
	return out
}
