package usernames

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swopnil7/The-OG/internal/store"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	st, err := store.New(t.TempDir())
	require.NoError(t, err)
	return NewRegistry(st)
}

func TestSetAndGame(t *testing.T) {
	r := newTestRegistry(t)

	// Game names are matched case-insensitively.
	require.NoError(t, r.Set("g1", "Chess", "42", "alice123"))

	users, err := r.Game("g1", "chess")
	require.NoError(t, err)
	assert.Equal(t, "alice123", users["42"])

	users, err = r.Game("g1", "CHESS")
	require.NoError(t, err)
	assert.Equal(t, "alice123", users["42"])
}

func TestSetOverwrites(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.Set("g1", "chess", "42", "old"))
	require.NoError(t, r.Set("g1", "chess", "42", "new"))

	users, err := r.Game("g1", "chess")
	require.NoError(t, err)
	assert.Equal(t, "new", users["42"])
}

func TestSetRejectsEmptyGame(t *testing.T) {
	r := newTestRegistry(t)
	assert.Error(t, r.Set("g1", "  ", "42", "alice"))
}

func TestGames(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.Set("g1", "Valorant", "1", "a"))
	require.NoError(t, r.Set("g1", "chess", "1", "b"))

	games, err := r.Games("g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"chess", "valorant"}, games)
}

func TestUser(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.Set("g1", "chess", "1", "a"))
	require.NoError(t, r.Set("g1", "valorant", "1", "b"))
	require.NoError(t, r.Set("g1", "chess", "2", "c"))

	entries, err := r.User("g1", "1")
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Game: "chess", Username: "a"},
		{Game: "valorant", Username: "b"},
	}, entries)

	entries, err = r.User("g1", "99")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
