package session

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRand always returns the same value, pinning house and coin draws.
type fixedRand struct{ n int }

func (f fixedRand) IntN(int) int { return f.n }

func TestSubmitRejections(t *testing.T) {
	s := New(KindRPS, []string{"p1", "p2"}, NewRPS([]string{"p1", "p2"}, SystemRand()), time.Minute, nil)

	t.Run("outsider", func(t *testing.T) {
		_, err := s.Submit("stranger", "rock")
		assert.ErrorIs(t, err, ErrNotParticipant)
	})

	t.Run("duplicate choice", func(t *testing.T) {
		_, err := s.Submit("p1", "rock")
		require.NoError(t, err)
		_, err = s.Submit("p1", "paper")
		assert.ErrorIs(t, err, ErrAlreadySubmitted)
	})

	t.Run("after resolution", func(t *testing.T) {
		res, err := s.Submit("p2", "scissors")
		require.NoError(t, err)
		require.NotNil(t, res.Outcome)

		_, err = s.Submit("p2", "rock")
		assert.ErrorIs(t, err, ErrFinished)
		_, err = s.Submit("p1", "rock")
		assert.ErrorIs(t, err, ErrFinished)
	})
}

func TestFirstSubmissionAcknowledged(t *testing.T) {
	s := New(KindRPS, []string{"p1", "p2"}, NewRPS([]string{"p1", "p2"}, SystemRand()), time.Minute, nil)

	res, err := s.Submit("p1", "rock")
	require.NoError(t, err)
	assert.Equal(t, "You chose rock.", res.Ack)
	assert.Nil(t, res.Outcome)
	assert.Nil(t, res.Next)
	assert.Equal(t, StatusAwaiting, s.Status())
}

func TestRPSCompareTotal(t *testing.T) {
	moves := []string{"rock", "paper", "scissors"}

	// Every pair produces exactly one of tie/p1/p2, and swapping the
	// inputs flips the winner.
	for _, a := range moves {
		for _, b := range moves {
			got := rpsCompare(a, b)
			assert.Contains(t, []int{-1, 0, 1}, got, "%s vs %s", a, b)
			assert.Equal(t, -got, rpsCompare(b, a), "%s vs %s not antisymmetric", a, b)
			if a == b {
				assert.Zero(t, got)
			} else {
				assert.NotZero(t, got, "%s vs %s must have a winner", a, b)
			}
		}
	}

	assert.Equal(t, 1, rpsCompare("rock", "scissors"))
	assert.Equal(t, 1, rpsCompare("scissors", "paper"))
	assert.Equal(t, 1, rpsCompare("paper", "rock"))
}

func TestRPSSinglePlayerForcedHouse(t *testing.T) {
	// Index 2 forces the house to scissors.
	s := New(KindRPS, []string{"p1"}, NewRPS([]string{"p1"}, fixedRand{n: 2}), time.Minute, nil)

	res, err := s.Submit("p1", "rock")
	require.NoError(t, err)
	require.NotNil(t, res.Outcome)
	assert.Contains(t, res.Outcome.Summary, "You win!")
	assert.True(t, res.Outcome.Private)
	assert.Equal(t, StatusResolved, s.Status())
}

func TestRPSTwoPlayerOutcomes(t *testing.T) {
	tests := []struct {
		name   string
		c1, c2 string
		want   string
	}{
		{name: "p1 wins", c1: "rock", c2: "scissors", want: "<@p1> wins!"},
		{name: "p2 wins", c1: "paper", c2: "scissors", want: "<@p2> wins!"},
		{name: "tie", c1: "paper", c2: "paper", want: "It's a tie!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(KindRPS, []string{"p1", "p2"}, NewRPS([]string{"p1", "p2"}, SystemRand()), time.Minute, nil)
			_, err := s.Submit("p1", tt.c1)
			require.NoError(t, err)
			res, err := s.Submit("p2", tt.c2)
			require.NoError(t, err)
			require.NotNil(t, res.Outcome)
			assert.Contains(t, res.Outcome.Summary, tt.want)
			assert.False(t, res.Outcome.Private)
		})
	}
}

func TestFlipOutcomes(t *testing.T) {
	// Index 0 forces the coin to heads.
	heads := fixedRand{n: 0}

	t.Run("single player win", func(t *testing.T) {
		s := New(KindFlip, []string{"p1"}, NewFlip([]string{"p1"}, heads), time.Minute, nil)
		res, err := s.Submit("p1", "heads")
		require.NoError(t, err)
		require.NotNil(t, res.Outcome)
		assert.Contains(t, res.Outcome.Summary, "The coin landed on heads. You win!")
	})

	t.Run("single player loss", func(t *testing.T) {
		s := New(KindFlip, []string{"p1"}, NewFlip([]string{"p1"}, heads), time.Minute, nil)
		res, err := s.Submit("p1", "tails")
		require.NoError(t, err)
		assert.Contains(t, res.Outcome.Summary, "You lose!")
	})

	two := func() *Session {
		return New(KindFlip, []string{"p1", "p2"}, NewFlip([]string{"p1", "p2"}, heads), time.Minute, nil)
	}

	t.Run("one caller wins", func(t *testing.T) {
		s := two()
		_, err := s.Submit("p1", "heads")
		require.NoError(t, err)
		res, err := s.Submit("p2", "tails")
		require.NoError(t, err)
		assert.Contains(t, res.Outcome.Summary, "<@p1> wins!")
	})

	t.Run("both right is a tie", func(t *testing.T) {
		s := two()
		_, err := s.Submit("p1", "heads")
		require.NoError(t, err)
		res, err := s.Submit("p2", "heads")
		require.NoError(t, err)
		assert.Contains(t, res.Outcome.Summary, "It's a tie!")
	})

	t.Run("both wrong nobody wins", func(t *testing.T) {
		s := two()
		_, err := s.Submit("p1", "tails")
		require.NoError(t, err)
		res, err := s.Submit("p2", "tails")
		require.NoError(t, err)
		assert.Contains(t, res.Outcome.Summary, "No one wins!")
	})
}

func TestConcurrentSubmissionsResolveOnce(t *testing.T) {
	for i := 0; i < 50; i++ {
		s := New(KindRPS, []string{"p1", "p2"}, NewRPS([]string{"p1", "p2"}, SystemRand()), time.Minute, nil)

		var wg sync.WaitGroup
		outcomes := make(chan *Outcome, 2)
		for _, p := range []string{"p1", "p2"} {
			wg.Add(1)
			go func(player string) {
				defer wg.Done()
				res, err := s.Submit(player, "rock")
				if err == nil && res.Outcome != nil {
					outcomes <- res.Outcome
				}
			}(p)
		}
		wg.Wait()
		close(outcomes)

		var n int
		for range outcomes {
			n++
		}
		assert.Equal(t, 1, n, "exactly one submission must trigger resolution")
	}
}

func TestTimeout(t *testing.T) {
	reported := make(chan string, 1)
	s := New(KindRPS, []string{"p1", "p2"}, NewRPS([]string{"p1", "p2"}, SystemRand()), 20*time.Millisecond,
		func(progress string) { reported <- progress })

	select {
	case progress := <-reported:
		assert.NotEmpty(t, progress)
	case <-time.After(time.Second):
		t.Fatal("timeout report never arrived")
	}

	assert.Equal(t, StatusTimedOut, s.Status())
	_, err := s.Submit("p1", "rock")
	assert.ErrorIs(t, err, ErrFinished)
}

func TestResolvedSessionDoesNotTimeOut(t *testing.T) {
	reported := make(chan string, 1)
	s := New(KindRPS, []string{"p1"}, NewRPS([]string{"p1"}, SystemRand()), 20*time.Millisecond,
		func(progress string) { reported <- progress })

	_, err := s.Submit("p1", "rock")
	require.NoError(t, err)

	select {
	case <-reported:
		t.Fatal("resolved session must not report a timeout")
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, StatusResolved, s.Status())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	s := New(KindFlip, []string{"p1"}, NewFlip([]string{"p1"}, SystemRand()), time.Minute, nil)

	r.Add(s)
	got, ok := r.Get(s.ID())
	require.True(t, ok)
	assert.Same(t, s, got)

	r.Remove(s.ID())
	_, ok = r.Get(s.ID())
	assert.False(t, ok)

	_, ok = r.Get("nope")
	assert.False(t, ok)
}

func TestSessionIDsUnique(t *testing.T) {
	a := New(KindRPS, []string{"p1"}, NewRPS([]string{"p1"}, SystemRand()), time.Minute, nil)
	b := New(KindRPS, []string{"p1"}, NewRPS([]string{"p1"}, SystemRand()), time.Minute, nil)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.False(t, strings.Contains(a.ID(), ":"), "session IDs must not clash with the component ID separator")
}
