// Package activity counts member messages and decides role promotions.
package activity

import (
	"github.com/swopnil7/The-OG/internal/store"
)

// Promotion is one role transition earned by message count.
type Promotion struct {
	From      string
	To        string
	Threshold int
}

// promotions is the static rule table, evaluated against a member's
// current roles on every counted message.
var promotions = []Promotion{
	{From: "The Boys", To: "The Men", Threshold: 102},
	{From: "The Girls", To: "The Ladies", Threshold: 102},
	{From: "The Men", To: "The Patriarchs", Threshold: 400},
	{From: "The Ladies", To: "The Matriarchs", Threshold: 400},
}

// Tracker persists the per-user message counters of each guild.
type Tracker struct {
	store *store.Store
}

// NewTracker creates a tracker backed by the given store.
func NewTracker(st *store.Store) *Tracker {
	return &Tracker{store: st}
}

// RecordMessage increments the user's message counter, persists it and
// returns the new count.
func (t *Tracker) RecordMessage(guildID, userID string) (int, error) {
	doc, err := t.store.UpdateActivity(guildID, func(doc store.Activity) store.Activity {
		rec := doc[userID]
		rec.Messages++
		doc[userID] = rec
		return doc
	})
	if err != nil {
		return 0, err
	}
	return doc[userID].Messages, nil
}

// Messages returns the user's persisted message count, zero when the
// user has never been seen.
func (t *Tracker) Messages(guildID, userID string) (int, error) {
	doc, err := t.store.Activity(guildID)
	if err != nil {
		return 0, err
	}
	return doc[userID].Messages, nil
}

// Eligible returns every promotion whose source role the member holds
// and whose threshold the message count meets. Roles are the member's
// role names at evaluation time, so a member advances at most one step
// per rule pair per call.
func Eligible(roles []string, messages int) []Promotion {
	held := make(map[string]bool, len(roles))
	for _, r := range roles {
		held[r] = true
	}

	var eligible []Promotion
	for _, p := range promotions {
		if held[p.From] && messages >= p.Threshold {
			eligible = append(eligible, p)
		}
	}
	return eligible
}
