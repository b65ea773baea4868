// Package store defines the persistence contract for users, mood logs and chat
// messages. Every collection is namespaced by user id; logs and messages are
// append-only and listed in insertion order.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"mindscope/internal/models"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicateEmail is returned when a user with the same email already exists.
	ErrDuplicateEmail = errors.New("store: email already registered")
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetInterventionActive(ctx context.Context, id uuid.UUID, active bool) error
}

type MoodStore interface {
	Create(ctx context.Context, log *models.MoodLog) error
	List(ctx context.Context, userID uuid.UUID) ([]models.MoodLog, error)
}

type ChatStore interface {
	Create(ctx context.Context, msg *models.ChatMessage) error
	List(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// Store bundles the per-entity stores a handler or service needs.
type Store struct {
	Users UserStore
	Moods MoodStore
	Chats ChatStore
}
