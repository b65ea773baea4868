package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Mood is one of the six labels the sentiment classifier may produce.
type Mood string

const (
	MoodHappy   Mood = "Happy"
	MoodSad     Mood = "Sad"
	MoodAngry   Mood = "Angry"
	MoodStress  Mood = "Stress"
	MoodAnxiety Mood = "Anxiety"
	MoodNeutral Mood = "Neutral"
)

// Moods lists every recognized label.
var Moods = []Mood{MoodHappy, MoodSad, MoodAngry, MoodStress, MoodAnxiety, MoodNeutral}

// ParseMood maps a label to its Mood. Anything unrecognized becomes Neutral so an
// invalid value can never reach a mood log.
func ParseMood(s string) Mood {
	s = strings.TrimSpace(s)
	for _, m := range Moods {
		if strings.EqualFold(s, string(m)) {
			return m
		}
	}
	return MoodNeutral
}

func (m Mood) Valid() bool {
	for _, known := range Moods {
		if m == known {
			return true
		}
	}
	return false
}

// Stressful reports whether the mood counts toward the intervention window.
func (m Mood) Stressful() bool {
	return m == MoodStress || m == MoodAnxiety
}

// Calming reports whether the mood resets the intervention flag.
func (m Mood) Calming() bool {
	return m == MoodHappy || m == MoodNeutral
}

// TrendValue maps a mood onto the 1-5 scale used by the trend chart.
func (m Mood) TrendValue() int {
	switch m {
	case MoodHappy:
		return 5
	case MoodNeutral:
		return 3
	case MoodStress:
		return 2
	default:
		return 1
	}
}

// Role identifies who authored a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type User struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	Username           string    `db:"username" json:"username"`
	Email              string    `db:"email" json:"email"` // Encrypted in DB
	EmailBlindIndex    string    `db:"email_blind_index" json:"-"`
	PasswordHash       string    `db:"password_hash" json:"-"`
	InterventionActive bool      `db:"intervention_active" json:"-"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

type MoodLog struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"-"`
	Mood      Mood      `db:"mood" json:"mood"`
	Note      string    `db:"note" json:"note,omitempty"` // Encrypted in DB
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// GroundingLink is a (uri, title) resource pair attached to an assistant message.
type GroundingLink struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type ChatMessage struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	UserID         uuid.UUID       `db:"user_id" json:"-"`
	Role           Role            `db:"role" json:"role"`
	Content        string          `db:"content" json:"content"` // Encrypted in DB
	Mood           Mood            `db:"mood" json:"mood"`
	GroundingLinks []GroundingLink `db:"-" json:"grounding_links,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}
