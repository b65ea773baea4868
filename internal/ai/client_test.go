package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"mindscope/internal/models"
)

func TestParseMoodResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want models.Mood
	}{
		{"json shape", `{"mood": "Sad"}`, models.MoodSad},
		{"fenced json", "```json\n{\"mood\": \"Anxiety\"}\n```", models.MoodAnxiety},
		{"bare label", "Stress", models.MoodStress},
		{"bare label lowercase", "happy", models.MoodHappy},
		{"unknown label", `{"mood": "Euphoric"}`, models.MoodNeutral},
		{"garbage", "I think the user sounds upset", models.MoodNeutral},
		{"empty", "", models.MoodNeutral},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseMoodResponse(tc.in))
		})
	}
}

func TestParseGroundedResponse(t *testing.T) {
	text, links := ParseGroundedResponse(`{"text": "Try Willow Park.", "links": [{"uri": "https://maps.example/willow", "title": "Willow Park"}, {"uri": "", "title": "broken"}]}`)
	assert.Equal(t, "Try Willow Park.", text)
	// Links missing a uri or title are dropped.
	assert.Equal(t, []models.GroundingLink{{URI: "https://maps.example/willow", Title: "Willow Park"}}, links)

	text, links = ParseGroundedResponse("Just take a walk outside.")
	assert.Equal(t, "Just take a walk outside.", text)
	assert.Empty(t, links)
}

func TestDisabledClientReturnsMissingCredential(t *testing.T) {
	client := NewClient("", "", "gpt-4o-mini", zap.NewNop())
	ctx := context.Background()

	mood, err := client.AnalyzeMood(ctx, "feeling great")
	assert.True(t, errors.Is(err, ErrMissingCredential))
	assert.Equal(t, models.MoodNeutral, mood)

	_, err = client.Reply(ctx, nil, "hello")
	assert.True(t, errors.Is(err, ErrMissingCredential))

	_, _, err = client.FindPlaces(ctx, "peaceful places", 1.0, 2.0)
	assert.True(t, errors.Is(err, ErrMissingCredential))

	_, _, err = client.SuggestMusic(ctx, models.MoodSad)
	assert.True(t, errors.Is(err, ErrMissingCredential))
}
