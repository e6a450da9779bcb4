package quiz

import (
	"github.com/swopnil7/The-OG/internal/store"
)

// Scores persists per-user quiz results.
type Scores struct {
	store *store.Store
}

// NewScores creates a score keeper backed by the given store.
func NewScores(st *store.Store) *Scores {
	return &Scores{store: st}
}

// Add applies one finished session's result as a single bulk increment
// and returns the user's new score. Correct is capped at total so the
// stored invariant correct <= total always holds.
func (s *Scores) Add(guildID, userID string, correct, total int) (store.QuizScore, error) {
	if total < 0 {
		total = 0
	}
	if correct < 0 {
		correct = 0
	}
	if correct > total {
		correct = total
	}

	doc, err := s.store.UpdateQuizScores(guildID, func(doc store.QuizScores) store.QuizScores {
		score := doc[userID]
		score.Correct += correct
		score.Total += total
		doc[userID] = score
		return doc
	})
	if err != nil {
		return store.QuizScore{}, err
	}
	return doc[userID], nil
}

// Get returns the user's accumulated score, zero when the user has
// never answered a question.
func (s *Scores) Get(guildID, userID string) (store.QuizScore, error) {
	doc, err := s.store.QuizScores(guildID)
	if err != nil {
		return store.QuizScore{}, err
	}
	return doc[userID], nil
}
