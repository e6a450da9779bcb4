package session

import (
	"fmt"
	"time"
)

// RPSTTL is how long a rock-paper-scissors session stays open.
const RPSTTL = 60 * time.Second

var rpsChoices = []Choice{
	{ID: "rock", Label: "Rock"},
	{ID: "paper", Label: "Paper"},
	{ID: "scissors", Label: "Scissors"},
}

// rpsBeats maps each choice to the choice it defeats.
var rpsBeats = map[string]string{
	"rock":     "scissors",
	"scissors": "paper",
	"paper":    "rock",
}

// RPSRule resolves rock-paper-scissors. One player plays against the
// house; two players play against each other.
type RPSRule struct {
	players []string
	rng     Rand
}

// NewRPS creates the rule for the given players (1 or 2).
func NewRPS(players []string, rng Rand) *RPSRule {
	return &RPSRule{players: players, rng: rng}
}

// Opening returns the move prompt.
func (r *RPSRule) Opening() Prompt {
	return Prompt{Text: "Choose your move:", Choices: rpsChoices}
}

// Resolve decides the winner. In the single-player game the house's
// move is drawn at resolution time, never earlier.
func (r *RPSRule) Resolve(round map[string]string) RoundResult {
	if len(r.players) == 1 {
		player := r.players[0]
		mine := round[player]
		house := rpsChoices[r.rng.IntN(len(rpsChoices))].ID

		var verdict string
		switch rpsCompare(mine, house) {
		case 0:
			verdict = "It's a tie!"
		case 1:
			verdict = "You win!"
		default:
			verdict = "You lose!"
		}
		return RoundResult{Outcome: &Outcome{
			Summary: fmt.Sprintf("You chose %s, I chose %s. %s", mine, house, verdict),
			Private: true,
		}}
	}

	p1, p2 := r.players[0], r.players[1]
	c1, c2 := round[p1], round[p2]

	var verdict string
	switch rpsCompare(c1, c2) {
	case 0:
		verdict = "It's a tie!"
	case 1:
		verdict = fmt.Sprintf("<@%s> wins!", p1)
	default:
		verdict = fmt.Sprintf("<@%s> wins!", p2)
	}
	return RoundResult{Outcome: &Outcome{
		Summary: fmt.Sprintf("<@%s> chose %s, <@%s> chose %s. %s", p1, c1, p2, c2, verdict),
	}}
}

// Progress implements Rule.
func (r *RPSRule) Progress() string {
	return "Not everyone made a move in time."
}

// rpsCompare returns 0 on a tie, 1 when a beats b and -1 when b beats a.
func rpsCompare(a, b string) int {
	if a == b {
		return 0
	}
	if rpsBeats[a] == b {
		return 1
	}
	return -1
}
