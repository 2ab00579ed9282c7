package domain

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// SessionKey identifies one end user across the whole process. For the LINE
// transport it is the LINE user ID; for the local REPL it is a fixed string.
type SessionKey string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const (
	// MaxHistory bounds the rolling message history per session.
	MaxHistory = 60
	// MaxParagraphs bounds the summarized story paragraphs per story.
	MaxParagraphs = 5
)

type Message struct {
	Role   Role
	Text   string
	SentAt time.Time
}

// Session is the in-memory state for one user. It is mirrored to a
// SnapshotRepository but stays authoritative when persistence is unavailable.
type Session struct {
	Key        SessionKey
	StoryID    string
	Messages   []Message
	Paragraphs []string
	Characters map[string]*CharacterCard
}

// StorySnapshot is the durable projection of a session: everything scoped to
// the current story. Message history is logged separately and not restored.
type StorySnapshot struct {
	StoryID    string
	Paragraphs []string
	Cards      map[string]CharacterCard
}

func NewSession(key SessionKey) *Session {
	return &Session{
		Key:        key,
		StoryID:    NewStoryID(),
		Characters: make(map[string]*CharacterCard),
	}
}

// NewStoryID returns a fresh opaque story identifier.
func NewStoryID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return time.Now().Format("20060102150405.000000000")
	}
	return hex.EncodeToString(b)
}

// Append records a message, sliding the history window when it exceeds
// MaxHistory.
func (s *Session) Append(role Role, text string, at time.Time) {
	s.Messages = append(s.Messages, Message{Role: role, Text: text, SentAt: at})
	if len(s.Messages) > MaxHistory {
		s.Messages = s.Messages[len(s.Messages)-MaxHistory:]
	}
}

// UserTexts returns the user-authored message texts in order.
func (s *Session) UserTexts() []string {
	texts := make([]string, 0, len(s.Messages))
	for _, msg := range s.Messages {
		if msg.Role == RoleUser {
			texts = append(texts, msg.Text)
		}
	}
	return texts
}

// SetParagraphs replaces the paragraph list wholesale, clamped to
// MaxParagraphs.
func (s *Session) SetParagraphs(paragraphs []string) {
	if len(paragraphs) > MaxParagraphs {
		paragraphs = paragraphs[:MaxParagraphs]
	}
	s.Paragraphs = paragraphs
}

// Card returns the card for id, creating it lazily.
func (s *Session) Card(id string) *CharacterCard {
	if s.Characters == nil {
		s.Characters = make(map[string]*CharacterCard)
	}
	card, ok := s.Characters[id]
	if !ok {
		card = &CharacterCard{}
		s.Characters[id] = card
	}
	return card
}

// ResetStory issues a new story identifier and drops everything scoped to the
// old one. The message history survives; it belongs to the user, not the story.
func (s *Session) ResetStory() {
	s.StoryID = NewStoryID()
	s.Paragraphs = nil
	s.Characters = make(map[string]*CharacterCard)
}

// Snapshot captures the story-scoped state for persistence.
func (s *Session) Snapshot() StorySnapshot {
	snap := StorySnapshot{
		StoryID:    s.StoryID,
		Paragraphs: append([]string(nil), s.Paragraphs...),
		Cards:      make(map[string]CharacterCard, len(s.Characters)),
	}
	for id, card := range s.Characters {
		snap.Cards[id] = *card
	}
	return snap
}

// Overlay merges a persisted snapshot into the session, preferring persisted
// values but never replacing non-empty in-memory state with empty persisted
// state.
func (s *Session) Overlay(snap StorySnapshot) {
	if snap.StoryID != "" {
		s.StoryID = snap.StoryID
	}
	if len(snap.Paragraphs) > 0 {
		s.SetParagraphs(append([]string(nil), snap.Paragraphs...))
	}
	if len(snap.Cards) > 0 {
		if s.Characters == nil {
			s.Characters = make(map[string]*CharacterCard, len(snap.Cards))
		}
		for id, card := range snap.Cards {
			restored := card
			s.Characters[id] = &restored
		}
	}
}
