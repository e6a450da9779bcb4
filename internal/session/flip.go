package session

import (
	"fmt"
	"time"
)

// FlipTTL is how long a heads-or-tails session stays open.
const FlipTTL = 60 * time.Second

var flipChoices = []Choice{
	{ID: "heads", Label: "Heads"},
	{ID: "tails", Label: "Tails"},
}

// FlipRule resolves heads-or-tails. Each participant calls a side; the
// coin is tossed once when all calls are in and whoever called it wins.
type FlipRule struct {
	players []string
	rng     Rand
}

// NewFlip creates the rule for the given players (1 or 2).
func NewFlip(players []string, rng Rand) *FlipRule {
	return &FlipRule{players: players, rng: rng}
}

// Opening returns the side prompt.
func (f *FlipRule) Opening() Prompt {
	return Prompt{Text: "Choose Heads or Tails:", Choices: flipChoices}
}

// Resolve tosses the coin and decides the winner. The toss happens at
// resolution time, never earlier.
func (f *FlipRule) Resolve(round map[string]string) RoundResult {
	coin := flipChoices[f.rng.IntN(len(flipChoices))].ID

	if len(f.players) == 1 {
		player := f.players[0]
		verdict := "You lose!"
		if round[player] == coin {
			verdict = "You win!"
		}
		return RoundResult{Outcome: &Outcome{
			Summary: fmt.Sprintf("The coin landed on %s. %s", coin, verdict),
			Private: true,
		}}
	}

	p1, p2 := f.players[0], f.players[1]
	c1, c2 := round[p1], round[p2]

	var verdict string
	switch {
	case c1 == coin && c2 == coin:
		verdict = "It's a tie!"
	case c1 == coin:
		verdict = fmt.Sprintf("<@%s> wins!", p1)
	case c2 == coin:
		verdict = fmt.Sprintf("<@%s> wins!", p2)
	default:
		verdict = "No one wins!"
	}
	return RoundResult{Outcome: &Outcome{
		Summary: fmt.Sprintf("The coin landed on %s. %s", coin, verdict),
	}}
}

// Progress implements Rule.
func (f *FlipRule) Progress() string {
	return "Not everyone picked a side in time."
}
