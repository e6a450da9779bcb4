package session

import (
	"fmt"
	"strconv"
	"time"

	"github.com/swopnil7/The-OG/internal/quiz"
)

// QuizTTL is how long a quiz session stays open.
const QuizTTL = 300 * time.Second

// QuizRule walks a single player through a sequence of multiple-choice
// questions, one round per question, and reports the aggregate score
// once the sequence is exhausted.
type QuizRule struct {
	player    string
	questions []quiz.Question
	index     int
	correct   int
}

// NewQuiz creates the rule for one player and a non-empty question set.
func NewQuiz(player string, questions []quiz.Question) *QuizRule {
	return &QuizRule{player: player, questions: questions}
}

// Opening returns the first question.
func (q *QuizRule) Opening() Prompt {
	return q.prompt()
}

func (q *QuizRule) prompt() Prompt {
	question := q.questions[q.index]
	choices := make([]Choice, len(question.Answers))
	for i, answer := range question.Answers {
		choices[i] = Choice{ID: strconv.Itoa(i), Label: answer}
	}
	return Prompt{
		Text: fmt.Sprintf("**Question %d of %d** (%s, %s)\n%s",
			q.index+1, len(q.questions), question.Category, question.Difficulty, question.Text),
		Choices: choices,
	}
}

// Resolve grades the current question and either advances to the next
// one or produces the final outcome with the score delta to persist.
func (q *QuizRule) Resolve(round map[string]string) RoundResult {
	question := q.questions[q.index]
	picked, err := strconv.Atoi(round[q.player])

	var feedback string
	if err == nil && picked == question.Correct {
		q.correct++
		feedback = "Correct!"
	} else {
		feedback = fmt.Sprintf("Wrong! The answer was: %s", question.Answers[question.Correct])
	}
	q.index++

	if q.index < len(q.questions) {
		next := q.prompt()
		return RoundResult{Ack: feedback, Next: &next}
	}

	total := len(q.questions)
	accuracy := float64(q.correct) / float64(total) * 100
	return RoundResult{
		Outcome: &Outcome{
			Summary: fmt.Sprintf("%s\n\nQuiz finished! You answered %d of %d correctly (%.1f%%).",
				feedback, q.correct, total, accuracy),
			Private: true,
			Score:   &ScoreDelta{UserID: q.player, Correct: q.correct, Total: total},
		},
	}
}

// Progress reports how far the player got, for timeout messages.
func (q *QuizRule) Progress() string {
	return fmt.Sprintf("answered %d of %d, %d correct", q.index, len(q.questions), q.correct)
}
