package ratingdomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultRating(t *testing.T) {
	r := NewDefaultRating()
	assert.InDelta(t, 25.0, r.Mu, 1e-9)
	assert.InDelta(t, 25.0/3, r.Sigma, 1e-9)
	assert.Less(t, r.Conservative(), 0.1)
}

func TestGaussianRater_WinnerGainsLoserLoses(t *testing.T) {
	rater := NewGaussianRater()
	teams := [][]Rating{{NewDefaultRating()}, {NewDefaultRating()}}

	out, err := rater.Rate(teams, []int{1, 2})
	require.NoError(t, err)

	winner, loser := out[0][0], out[1][0]
	assert.Greater(t, winner.Mu, 25.0)
	assert.Less(t, loser.Mu, 25.0)
	assert.Less(t, winner.Sigma, teams[0][0].Sigma, "evidence shrinks uncertainty")
	assert.Less(t, loser.Sigma, teams[1][0].Sigma)
}

func TestGaussianRater_UpsetMovesMoreThanExpectedResult(t *testing.T) {
	rater := NewGaussianRater()
	strong := Rating{Mu: 35, Sigma: 4}
	weak := Rating{Mu: 15, Sigma: 4}

	expected, err := rater.Rate([][]Rating{{strong}, {weak}}, []int{1, 2})
	require.NoError(t, err)
	upset, err := rater.Rate([][]Rating{{strong}, {weak}}, []int{2, 1})
	require.NoError(t, err)

	expectedGain := expected[0][0].Mu - strong.Mu
	upsetLoss := strong.Mu - upset[0][0].Mu
	assert.Greater(t, upsetLoss, expectedGain, "an upset carries more information")
}

func TestGaussianRater_Deterministic(t *testing.T) {
	rater := NewGaussianRater()
	teams := [][]Rating{
		{{Mu: 28, Sigma: 6}, {Mu: 22, Sigma: 7}},
		{{Mu: 25, Sigma: 5}, {Mu: 26, Sigma: 8}},
	}

	first, err := rater.Rate(teams, []int{2, 1})
	require.NoError(t, err)
	second, err := rater.Rate(teams, []int{2, 1})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGaussianRater_InputUnchanged(t *testing.T) {
	rater := NewGaussianRater()
	teams := [][]Rating{{NewDefaultRating()}, {NewDefaultRating()}}

	_, err := rater.Rate(teams, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, NewDefaultRating(), teams[0][0])
	assert.Equal(t, NewDefaultRating(), teams[1][0])
}

func TestGaussianRater_FFAOrderingMatters(t *testing.T) {
	rater := NewGaussianRater()
	teams := [][]Rating{
		{NewDefaultRating()},
		{NewDefaultRating()},
		{NewDefaultRating()},
		{NewDefaultRating()},
	}

	out, err := rater.Rate(teams, []int{1, 2, 3, 4})
	require.NoError(t, err)

	for i := 0; i < len(out)-1; i++ {
		assert.Greater(t, out[i][0].Mu, out[i+1][0].Mu, "better placement means higher posterior mean")
	}
}

func TestGaussianRater_ShapeMismatch(t *testing.T) {
	rater := NewGaussianRater()
	_, err := rater.Rate([][]Rating{{NewDefaultRating()}}, []int{1, 2})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestRankTeams_PreservesTies(t *testing.T) {
	assert.Equal(t, []int{1, 1, 3}, RankTeams([]int{2, 2, 5}))
	assert.Equal(t, []int{3, 1, 2}, RankTeams([]int{9, 1, 4}))
}
