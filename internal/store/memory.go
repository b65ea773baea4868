package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mindscope/internal/models"
)

// NewMemory returns an in-memory Store with the same semantics as the Postgres
// implementation. Used by tests and local development without a database.
func NewMemory() *Store {
	m := &memory{
		users:    make(map[uuid.UUID]*models.User),
		byEmail:  make(map[string]uuid.UUID),
		moods:    make(map[uuid.UUID][]models.MoodLog),
		messages: make(map[uuid.UUID][]models.ChatMessage),
	}
	return &Store{
		Users: (*memUserStore)(m),
		Moods: (*memMoodStore)(m),
		Chats: (*memChatStore)(m),
	}
}

type memory struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*models.User
	byEmail  map[string]uuid.UUID
	moods    map[uuid.UUID][]models.MoodLog
	messages map[uuid.UUID][]models.ChatMessage
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

type memUserStore memory

func (s *memUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := normalizeEmail(user.Email)
	if _, exists := s.byEmail[key]; exists {
		return ErrDuplicateEmail
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	stored := *user
	s.users[user.ID] = &stored
	s.byEmail[key] = user.ID
	return nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	user := *s.users[id]
	return &user, nil
}

func (s *memUserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *user
	return &out, nil
}

func (s *memUserStore) SetInterventionActive(_ context.Context, id uuid.UUID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	user.InterventionActive = active
	return nil
}

type memMoodStore memory

func (s *memMoodStore) Create(_ context.Context, log *models.MoodLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	s.moods[log.UserID] = append(s.moods[log.UserID], *log)
	return nil
}

func (s *memMoodStore) List(_ context.Context, userID uuid.UUID) ([]models.MoodLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	logs := s.moods[userID]
	out := make([]models.MoodLog, len(logs))
	copy(out, logs)
	return out, nil
}

type memChatStore memory

func (s *memChatStore) Create(_ context.Context, msg *models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	s.messages[msg.UserID] = append(s.messages[msg.UserID], *msg)
	return nil
}

func (s *memChatStore) List(_ context.Context, userID uuid.UUID) ([]models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.messages[userID]
	out := make([]models.ChatMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *memChatStore) Clear(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.messages, userID)
	return nil
}
