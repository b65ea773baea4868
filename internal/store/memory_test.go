package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindscope/internal/models"
)

func newUser(email string) *models.User {
	return &models.User{ID: uuid.New(), Username: "sam", Email: email, PasswordHash: "x"}
}

func TestMemoryUserDuplicateEmail(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	require.NoError(t, st.Users.Create(ctx, newUser("sam@example.com")))

	err := st.Users.Create(ctx, newUser("Sam@Example.com"))
	assert.True(t, errors.Is(err, ErrDuplicateEmail))

	// The original record is still the one on file.
	found, err := st.Users.FindByEmail(ctx, "sam@example.com")
	require.NoError(t, err)
	assert.Equal(t, "sam", found.Username)
}

func TestMemoryUserLookups(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	user := newUser("sam@example.com")
	require.NoError(t, st.Users.Create(ctx, user))

	_, err := st.Users.FindByEmail(ctx, "nobody@example.com")
	assert.True(t, errors.Is(err, ErrNotFound))

	found, err := st.Users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	require.NoError(t, st.Users.SetInterventionActive(ctx, user.ID, true))
	found, err = st.Users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, found.InterventionActive)

	err = st.Users.SetInterventionActive(ctx, uuid.New(), true)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryMoodLogsPreserveOrder(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	userID := uuid.New()

	moods := []models.Mood{models.MoodHappy, models.MoodSad, models.MoodStress}
	for _, m := range moods {
		require.NoError(t, st.Moods.Create(ctx, &models.MoodLog{ID: uuid.New(), UserID: userID, Mood: m}))
	}

	logs, err := st.Moods.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	for i, m := range moods {
		assert.Equal(t, m, logs[i].Mood)
	}

	// Another user's logs stay invisible.
	other, err := st.Moods.List(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemoryChatClearIdempotent(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, st.Chats.Create(ctx, &models.ChatMessage{
		ID: uuid.New(), UserID: userID, Role: models.RoleUser, Content: "hi", Mood: models.MoodNeutral,
	}))

	require.NoError(t, st.Chats.Clear(ctx, userID))
	msgs, err := st.Chats.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	require.NoError(t, st.Chats.Clear(ctx, userID))
	msgs, err = st.Chats.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
