// Package routine manages the six-day class routine of a guild.
package routine

import (
	"errors"
	"strings"

	"github.com/swopnil7/The-OG/internal/store"
)

// Days are the valid day keys, in week order.
var Days = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday"}

// ErrInvalidDay marks a day name outside the fixed six-day set.
var ErrInvalidDay = errors.New("invalid day: choose from Sunday, Monday, Tuesday, Wednesday, Thursday, Friday")

// NormalizeDay lowercases and validates a day name.
func NormalizeDay(day string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(day))
	for _, d := range Days {
		if d == key {
			return key, nil
		}
	}
	return "", ErrInvalidDay
}

// Service reads and edits the per-guild routine.
type Service struct {
	store *store.Store
}

// NewService creates a routine service backed by the given store.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// Day returns the schedule string for a day. A day with no stored
// schedule returns the empty string.
func (s *Service) Day(guildID, day string) (string, error) {
	key, err := NormalizeDay(day)
	if err != nil {
		return "", err
	}
	doc, err := s.store.Routine(guildID)
	if err != nil {
		return "", err
	}
	return doc[key], nil
}

// Week returns the guild's full routine document.
func (s *Service) Week(guildID string) (store.Routine, error) {
	return s.store.Routine(guildID)
}

// SetDay replaces one day's schedule and persists the routine.
func (s *Service) SetDay(guildID, day, schedule string) error {
	key, err := NormalizeDay(day)
	if err != nil {
		return err
	}
	_, err = s.store.UpdateRoutine(guildID, func(doc store.Routine) store.Routine {
		doc[key] = schedule
		return doc
	})
	return err
}
