package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	mw "mindscope/internal/middleware"
	"mindscope/internal/models"
	"mindscope/internal/store"
	"mindscope/internal/wellness"
)

// stubGateway scripts the AI collaborator for handler tests.
type stubGateway struct {
	mood     models.Mood
	reply    string
	replyErr error
}

func (g *stubGateway) AnalyzeMood(context.Context, string) (models.Mood, error) {
	if g.mood == "" {
		return models.MoodNeutral, nil
	}
	return g.mood, nil
}

func (g *stubGateway) Reply(context.Context, []models.ChatMessage, string) (string, error) {
	return g.reply, g.replyErr
}

func (g *stubGateway) FindPlaces(context.Context, string, float64, float64) (string, []models.GroundingLink, error) {
	return "Try Willow Park.", nil, nil
}

func (g *stubGateway) SuggestMusic(context.Context, models.Mood) (string, []models.GroundingLink, error) {
	return "Some calm playlists.", nil, nil
}

func newChatFixture(t *testing.T, gateway *stubGateway) (*ChatHandler, *wellness.Service, uuid.UUID) {
	t.Helper()
	st := store.NewMemory()
	user := &models.User{ID: uuid.New(), Username: "sam", Email: "sam@example.com", PasswordHash: "x"}
	require.NoError(t, st.Users.Create(context.Background(), user))
	svc := wellness.NewService(st, gateway, zap.NewNop())
	return NewChatHandler(svc), svc, user.ID
}

func authedRequest(userID uuid.UUID, method, path string, body any) *http.Request {
	var reader *bytes.Reader
	if body != nil {
		buf, _ := json.Marshal(body)
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	return req.WithContext(mw.WithUserID(req.Context(), userID))
}

func TestSendStoresFallbackOnGatewayFailure(t *testing.T) {
	h, svc, userID := newChatFixture(t, &stubGateway{replyErr: assert.AnError})

	rec := httptest.NewRecorder()
	h.Send(rec, authedRequest(userID, http.MethodPost, "/api/chat/messages", map[string]string{"content": "hello"}))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp messagesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, models.RoleAssistant, resp.Messages[1].Role)
	assert.Equal(t, wellness.ReplyFallback, resp.Messages[1].Content)

	history, err := svc.History(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestSendRequiresContent(t *testing.T) {
	h, _, userID := newChatFixture(t, &stubGateway{reply: "hi"})

	rec := httptest.NewRecorder()
	h.Send(rec, authedRequest(userID, http.MethodPost, "/api/chat/messages", map[string]string{"content": "   "}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClearIsIdempotent(t *testing.T) {
	h, svc, userID := newChatFixture(t, &stubGateway{reply: "hi"})

	_, err := svc.SendMessage(context.Background(), userID, "hello", nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.Clear(rec, authedRequest(userID, http.MethodDelete, "/api/chat/messages", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}

	history, err := svc.History(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestFindPlacesRequiresCoordinates(t *testing.T) {
	h, _, userID := newChatFixture(t, &stubGateway{})

	rec := httptest.NewRecorder()
	h.FindPlaces(rec, authedRequest(userID, http.MethodPost, "/api/chat/places", map[string]any{"query": "parks"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFindPlacesReturnsAskAndAnswer(t *testing.T) {
	h, _, userID := newChatFixture(t, &stubGateway{})

	rec := httptest.NewRecorder()
	h.FindPlaces(rec, authedRequest(userID, http.MethodPost, "/api/chat/places", map[string]any{
		"query": "parks", "lat": 40.7, "lng": -74.0,
	}))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp messagesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "Try Willow Park.", resp.Messages[1].Content)
}

func TestSuggestMusicAppendsTwoMessages(t *testing.T) {
	h, svc, userID := newChatFixture(t, &stubGateway{})

	rec := httptest.NewRecorder()
	h.SuggestMusic(rec, authedRequest(userID, http.MethodPost, "/api/chat/music", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	history, err := svc.History(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "I'm feeling Neutral. Can you suggest some music?", history[0].Content)
	assert.Equal(t, "Some calm playlists.", history[1].Content)
}
