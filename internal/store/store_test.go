package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestDefaults(t *testing.T) {
	s := newTestStore(t)

	t.Run("usernames empty", func(t *testing.T) {
		doc, err := s.Usernames("g1")
		require.NoError(t, err)
		assert.Empty(t, doc)
	})

	t.Run("routine built-in default", func(t *testing.T) {
		doc, err := s.Routine("g1")
		require.NoError(t, err)
		assert.Len(t, doc, 6)
		for _, day := range []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday"} {
			assert.Contains(t, doc, day)
		}
	})

	t.Run("activity empty", func(t *testing.T) {
		doc, err := s.Activity("g1")
		require.NoError(t, err)
		assert.Empty(t, doc)
	})

	t.Run("quiz scores empty", func(t *testing.T) {
		doc, err := s.QuizScores("g1")
		require.NoError(t, err)
		assert.Empty(t, doc)
	})
}

func TestUpdateRoundtrip(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UpdateUsernames("g1", func(doc Usernames) Usernames {
		doc["chess"] = map[string]string{"42": "alice123"}
		return doc
	})
	require.NoError(t, err)

	doc, err := s.Usernames("g1")
	require.NoError(t, err)
	assert.Equal(t, "alice123", doc["chess"]["42"])

	// Stored routine replaces the default entirely.
	_, err = s.UpdateRoutine("g1", func(doc Routine) Routine {
		return Routine{"monday": "Maths, Physics"}
	})
	require.NoError(t, err)

	routine, err := s.Routine("g1")
	require.NoError(t, err)
	assert.Equal(t, Routine{"monday": "Maths, Physics"}, routine)
}

func TestGuildIsolation(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UpdateActivity("g1", func(doc Activity) Activity {
		doc["u1"] = UserActivity{Messages: 5}
		return doc
	})
	require.NoError(t, err)

	other, err := s.Activity("g2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	_, err = s.UpdateVoiceLog("g1", func(doc VoiceLog) VoiceLog {
		doc["ch1"] = []VoiceEntry{{User: "alice", Action: "joined", Timestamp: time.Now()}}
		return doc
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "g1"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "voice_log.json", entries[0].Name())
}

func TestConcurrentUpdates(t *testing.T) {
	s := newTestStore(t)

	const n = 20
	done := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := s.UpdateActivity("g1", func(doc Activity) Activity {
				rec := doc["u1"]
				rec.Messages++
				doc["u1"] = rec
				return doc
			})
			done <- err
		}()
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-done)
	}

	doc, err := s.Activity("g1")
	require.NoError(t, err)
	assert.Equal(t, n, doc["u1"].Messages)
}
