// Package usernames manages the per-guild book of game usernames.
package usernames

import (
	"fmt"
	"sort"
	"strings"

	"github.com/swopnil7/The-OG/internal/store"
)

// Registry stores which in-game username each member uses per game.
// Game names are keyed lowercase, so lookups are case-insensitive.
type Registry struct {
	store *store.Store
}

// NewRegistry creates a registry backed by the given store.
func NewRegistry(st *store.Store) *Registry {
	return &Registry{store: st}
}

// Set records username for the user under the given game, creating the
// game entry on first registration. There is no unregister operation.
func (r *Registry) Set(guildID, game, userID, username string) error {
	key := normalizeGame(game)
	if key == "" {
		return fmt.Errorf("game name must not be empty")
	}

	_, err := r.store.UpdateUsernames(guildID, func(doc store.Usernames) store.Usernames {
		users := doc[key]
		if users == nil {
			users = make(map[string]string)
			doc[key] = users
		}
		users[userID] = username
		return doc
	})
	return err
}

// Game returns the user ID -> username mapping for a game. The map is
// empty when nobody has registered for it.
func (r *Registry) Game(guildID, game string) (map[string]string, error) {
	doc, err := r.store.Usernames(guildID)
	if err != nil {
		return nil, err
	}
	return doc[normalizeGame(game)], nil
}

// Games lists every game with at least one registered username, sorted.
func (r *Registry) Games(guildID string) ([]string, error) {
	doc, err := r.store.Usernames(guildID)
	if err != nil {
		return nil, err
	}
	games := make([]string, 0, len(doc))
	for game := range doc {
		games = append(games, game)
	}
	sort.Strings(games)
	return games, nil
}

// Entry is one of a user's registrations across games.
type Entry struct {
	Game     string
	Username string
}

// User lists a user's usernames across all games, sorted by game.
func (r *Registry) User(guildID, userID string) ([]Entry, error) {
	doc, err := r.store.Usernames(guildID)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for game, users := range doc {
		if username, ok := users[userID]; ok {
			entries = append(entries, Entry{Game: game, Username: username})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Game < entries[j].Game })
	return entries, nil
}

func normalizeGame(game string) string {
	return strings.ToLower(strings.TrimSpace(game))
}
