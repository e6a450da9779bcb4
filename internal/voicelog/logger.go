// Package voicelog accumulates voice channel join/leave events and
// drains them into a summary when a channel empties.
package voicelog

import (
	"fmt"
	"strings"
	"time"

	"github.com/swopnil7/The-OG/internal/store"
)

// Actions recorded in a channel's log.
const (
	ActionJoined = "joined"
	ActionLeft   = "left"
)

// Logger persists per-channel voice presence logs.
type Logger struct {
	store *store.Store
	now   func() time.Time
}

// NewLogger creates a logger backed by the given store.
func NewLogger(st *store.Store) *Logger {
	return &Logger{store: st, now: time.Now}
}

// Append records a join or leave for the channel with the current
// timestamp and persists the log.
func (l *Logger) Append(guildID, channelID, user, action string) error {
	entry := store.VoiceEntry{
		User:      user,
		Action:    action,
		Timestamp: l.now().UTC(),
	}
	_, err := l.store.UpdateVoiceLog(guildID, func(doc store.VoiceLog) store.VoiceLog {
		doc[channelID] = append(doc[channelID], entry)
		return doc
	})
	return err
}

// Drain removes the channel's entries from the log and returns them.
// The removal is persisted before the entries are handed back, so a
// second drain sees an empty log.
func (l *Logger) Drain(guildID, channelID string) ([]store.VoiceEntry, error) {
	var drained []store.VoiceEntry
	_, err := l.store.UpdateVoiceLog(guildID, func(doc store.VoiceLog) store.VoiceLog {
		drained = doc[channelID]
		delete(doc, channelID)
		return doc
	})
	if err != nil {
		return nil, err
	}
	return drained, nil
}

// FormatSummary renders the drained entries as one chronological line
// per event.
func FormatSummary(channelName string, entries []store.VoiceEntry) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Voice channel '%s' log:\n", channelName))
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("%s - %s %s the channel.\n", e.Timestamp.Format("15:04"), e.User, e.Action))
	}
	return sb.String()
}
