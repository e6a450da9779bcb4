package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store reads and writes the per-guild JSON documents kept under a
// root directory, one file per guild per kind. Every operation goes
// straight to disk; a per-document mutex makes load-mutate-save
// sequences safe when event handlers run concurrently.
type Store struct {
	root string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{
		root:  dir,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// EnsureGuild creates the guild's data directory. Called when a guild
// becomes available so first writes don't race on directory creation.
func (s *Store) EnsureGuild(guildID string) error {
	if err := os.MkdirAll(filepath.Join(s.root, guildID), 0o755); err != nil {
		return fmt.Errorf("failed to create guild directory: %w", err)
	}
	return nil
}

func (s *Store) lockFor(guildID, kind string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := guildID + "/" + kind
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

func (s *Store) path(guildID, kind string) string {
	return filepath.Join(s.root, guildID, kind+".json")
}

// read decodes the document for guildID/kind into v. A missing file
// leaves v untouched and reports found=false.
func (s *Store) read(guildID, kind string, v any) (bool, error) {
	data, err := os.ReadFile(s.path(guildID, kind))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s document: %w", kind, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s document: %w", kind, err)
	}
	return true, nil
}

// write replaces the document atomically: the new content is written
// to a temp file in the guild directory and renamed over the old one,
// so readers never observe a partially written document.
func (s *Store) write(guildID, kind string, v any) error {
	dir := filepath.Join(s.root, guildID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create guild directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode %s document: %w", kind, err)
	}

	tmp, err := os.CreateTemp(dir, kind+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s document: %w", kind, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(guildID, kind)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s document: %w", kind, err)
	}
	return nil
}

// load returns the stored document or the kind default when absent.
func load[T any](s *Store, guildID, kind string, def func() T) (T, error) {
	var doc T
	found, err := s.read(guildID, kind, &doc)
	if err != nil {
		var zero T
		return zero, err
	}
	if !found {
		return def(), nil
	}
	return doc, nil
}

// update runs load-mutate-save under the document's lock and returns
// the document as persisted. A failed save leaves the stored document
// at its pre-mutation state and the mutation is reported as failed.
func update[T any](s *Store, guildID, kind string, def func() T, mutate func(T) T) (T, error) {
	l := s.lockFor(guildID, kind)
	l.Lock()
	defer l.Unlock()

	doc, err := load(s, guildID, kind, def)
	if err != nil {
		var zero T
		return zero, err
	}
	doc = mutate(doc)
	if err := s.write(guildID, kind, doc); err != nil {
		var zero T
		return zero, err
	}
	return doc, nil
}

// Usernames returns the guild's game-username document.
func (s *Store) Usernames(guildID string) (Usernames, error) {
	return load(s, guildID, KindUsernames, func() Usernames { return Usernames{} })
}

// UpdateUsernames mutates and persists the guild's username document.
func (s *Store) UpdateUsernames(guildID string, mutate func(Usernames) Usernames) (Usernames, error) {
	return update(s, guildID, KindUsernames, func() Usernames { return Usernames{} }, mutate)
}

// Routine returns the guild's routine, or the built-in default when
// the guild has never stored one.
func (s *Store) Routine(guildID string) (Routine, error) {
	return load(s, guildID, KindRoutine, DefaultRoutine)
}

// UpdateRoutine mutates and persists the guild's routine.
func (s *Store) UpdateRoutine(guildID string, mutate func(Routine) Routine) (Routine, error) {
	return update(s, guildID, KindRoutine, DefaultRoutine, mutate)
}

// Activity returns the guild's activity document.
func (s *Store) Activity(guildID string) (Activity, error) {
	return load(s, guildID, KindActivity, func() Activity { return Activity{} })
}

// UpdateActivity mutates and persists the guild's activity document.
func (s *Store) UpdateActivity(guildID string, mutate func(Activity) Activity) (Activity, error) {
	return update(s, guildID, KindActivity, func() Activity { return Activity{} }, mutate)
}

// VoiceLog returns the guild's voice log document.
func (s *Store) VoiceLog(guildID string) (VoiceLog, error) {
	return load(s, guildID, KindVoiceLog, func() VoiceLog { return VoiceLog{} })
}

// UpdateVoiceLog mutates and persists the guild's voice log document.
func (s *Store) UpdateVoiceLog(guildID string, mutate func(VoiceLog) VoiceLog) (VoiceLog, error) {
	return update(s, guildID, KindVoiceLog, func() VoiceLog { return VoiceLog{} }, mutate)
}

// QuizScores returns the guild's quiz score document.
func (s *Store) QuizScores(guildID string) (QuizScores, error) {
	return load(s, guildID, KindQuizScores, func() QuizScores { return QuizScores{} })
}

// UpdateQuizScores mutates and persists the guild's quiz scores.
func (s *Store) UpdateQuizScores(guildID string, mutate func(QuizScores) QuizScores) (QuizScores, error) {
	return update(s, guildID, KindQuizScores, func() QuizScores { return QuizScores{} }, mutate)
}
