package store

import "time"

// Document kinds. Each kind maps to one JSON file per guild.
const (
	KindUsernames  = "usernames"
	KindRoutine    = "routine"
	KindActivity   = "activity"
	KindVoiceLog   = "voice_log"
	KindQuizScores = "quiz_scores"
)

// Usernames maps a lowercased game name to the users registered for it
// (user ID -> in-game username).
type Usernames map[string]map[string]string

// Routine maps a lowercase day name to its comma-separated schedule.
// A period cell may hold a "/"-separated A/B sub-group pair.
type Routine map[string]string

// UserActivity holds the per-user message counter.
type UserActivity struct {
	Messages int `json:"messages"`
}

// Activity maps a user ID to their activity record.
type Activity map[string]UserActivity

// VoiceEntry is one join or leave event in a channel's log.
type VoiceEntry struct {
	User      string    `json:"user"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// VoiceLog maps a voice channel ID to its pending entries. Channels
// with no entries are absent from the map.
type VoiceLog map[string][]VoiceEntry

// QuizScore is a user's accumulated quiz result.
type QuizScore struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// QuizScores maps a user ID to their quiz score.
type QuizScores map[string]QuizScore

// DefaultRoutine returns the schedule served when a guild has never
// stored a routine of its own.
func DefaultRoutine() Routine {
	return Routine{
		"sunday":    "Calculus, Digital Logic, Problem Solving Techniques, Leisure",
		"monday":    "C, Calculus, Digital Logic, Discrete Maths",
		"tuesday":   "Calculus, Digital Logic, Drawing Practical (A)/Digital Logic Practical (B), Drawing Practical (A)/C Practical (B)",
		"wednesday": "Discrete Maths, Calculus, Problem Solving Techniques, Digital Logic Practical (A)/C Practical (B)",
		"thursday":  "Workshop (A)/Drawing Practical (B), C Practical (A)/Drawing Practical (B), C, Problem Solving Techniques",
		"friday":    "Discrete Maths, C, C Practical (A)/Workshop (B), Leisure",
	}
}
