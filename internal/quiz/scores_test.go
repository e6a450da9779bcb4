package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swopnil7/The-OG/internal/store"
)

func newTestScores(t *testing.T) *Scores {
	t.Helper()
	st, err := store.New(t.TempDir())
	require.NoError(t, err)
	return NewScores(st)
}

func TestAddAccumulates(t *testing.T) {
	s := newTestScores(t)

	score, err := s.Add("g1", "u1", 2, 3)
	require.NoError(t, err)
	assert.Equal(t, store.QuizScore{Correct: 2, Total: 3}, score)

	score, err = s.Add("g1", "u1", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, store.QuizScore{Correct: 3, Total: 4}, score)

	score, err = s.Get("g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, store.QuizScore{Correct: 3, Total: 4}, score)
}

func TestCorrectNeverExceedsTotal(t *testing.T) {
	s := newTestScores(t)

	deltas := []struct{ correct, total int }{
		{5, 3}, {1, 0}, {-2, 4}, {3, 3}, {2, -1},
	}
	for _, d := range deltas {
		score, err := s.Add("g1", "u1", d.correct, d.total)
		require.NoError(t, err)
		assert.LessOrEqual(t, score.Correct, score.Total)
		assert.GreaterOrEqual(t, score.Correct, 0)
	}
}

func TestGetUnknownUser(t *testing.T) {
	s := newTestScores(t)

	score, err := s.Get("g1", "nobody")
	require.NoError(t, err)
	assert.Zero(t, score.Correct)
	assert.Zero(t, score.Total)
}
