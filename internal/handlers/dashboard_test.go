package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mindscope/internal/models"
	"mindscope/internal/store"
	"mindscope/internal/wellness"
)

func newDashboardFixture(t *testing.T) (*DashboardHandler, *wellness.Service, uuid.UUID) {
	t.Helper()
	st := store.NewMemory()
	user := &models.User{ID: uuid.New(), Username: "sam", Email: "sam@example.com", PasswordHash: "x"}
	require.NoError(t, st.Users.Create(context.Background(), user))
	svc := wellness.NewService(st, &stubGateway{}, zap.NewNop())
	return NewDashboardHandler(svc), svc, user.ID
}

func getDashboard(t *testing.T, h *DashboardHandler, userID uuid.UUID) dashboardResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Get(rec, authedRequest(userID, http.MethodGet, "/api/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp dashboardResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestDashboardNotEnoughData(t *testing.T) {
	h, svc, userID := newDashboardFixture(t)

	resp := getDashboard(t, h, userID)
	assert.False(t, resp.HasEnoughData)
	assert.Equal(t, models.MoodNeutral, resp.CurrentMood)
	assert.Empty(t, resp.Trend)

	// One log is still below the chart threshold.
	_, _, err := svc.AddMoodLog(context.Background(), userID, models.MoodHappy, "", nil)
	require.NoError(t, err)
	resp = getDashboard(t, h, userID)
	assert.False(t, resp.HasEnoughData)
	assert.Equal(t, models.MoodHappy, resp.CurrentMood)
}

func TestDashboardAggregates(t *testing.T) {
	h, svc, userID := newDashboardFixture(t)
	ctx := context.Background()

	for _, m := range []models.Mood{models.MoodHappy, models.MoodStress, models.MoodAnxiety, models.MoodHappy, models.MoodSad} {
		_, _, err := svc.AddMoodLog(ctx, userID, m, "", nil)
		require.NoError(t, err)
	}

	resp := getDashboard(t, h, userID)
	assert.True(t, resp.HasEnoughData)
	assert.Equal(t, models.MoodSad, resp.CurrentMood)
	assert.Equal(t, 2, resp.HappyCount)
	assert.Equal(t, 2, resp.StressedCount)
	assert.Equal(t, 5, resp.TotalMoodLogs)
	require.Len(t, resp.Trend, 5)
	assert.Equal(t, 5, resp.Trend[0].Value)
	assert.Equal(t, 1, resp.Trend[4].Value)
}

func TestDashboardTrendCapsAtTen(t *testing.T) {
	h, svc, userID := newDashboardFixture(t)
	ctx := context.Background()

	for i := 0; i < 13; i++ {
		_, _, err := svc.AddMoodLog(ctx, userID, models.MoodHappy, "", nil)
		require.NoError(t, err)
	}

	resp := getDashboard(t, h, userID)
	assert.Len(t, resp.Trend, 10)
	assert.Equal(t, 13, resp.TotalMoodLogs)
}
