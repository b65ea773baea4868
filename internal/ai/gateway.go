// Package ai wraps the generative-model endpoint behind four stateless
// operations: sentiment classification, companion replies, place search and
// music suggestions. Failures carry a kind so callers can tell a missing
// credential from a network or parse problem before degrading to fallback text.
package ai

import (
	"context"
	"errors"

	"mindscope/internal/models"
)

var (
	// ErrMissingCredential means no API key was configured; every call degrades.
	ErrMissingCredential = errors.New("ai: api key not configured")
	// ErrUnavailable means the request did not complete.
	ErrUnavailable = errors.New("ai: request failed")
	// ErrBadResponse means the model answered with something unusable.
	ErrBadResponse = errors.New("ai: malformed response")
)

// Gateway is the contract the wellness service talks to. A stub implementation
// stands in for the real client in tests.
type Gateway interface {
	// AnalyzeMood classifies free text into one of the six mood labels.
	AnalyzeMood(ctx context.Context, text string) (models.Mood, error)
	// Reply produces the companion's answer to message given the prior turns.
	Reply(ctx context.Context, history []models.ChatMessage, message string) (string, error)
	// FindPlaces looks up calm spots near the given coordinates.
	FindPlaces(ctx context.Context, query string, lat, lng float64) (string, []models.GroundingLink, error)
	// SuggestMusic recommends songs with links for the given mood.
	SuggestMusic(ctx context.Context, mood models.Mood) (string, []models.GroundingLink, error)
}
