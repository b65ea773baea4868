package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	mw "mindscope/internal/middleware"
	"mindscope/internal/models"
	"mindscope/internal/wellness"
)

// minTrendEntries is the least data the trend chart can plot; below it the
// client renders its "not enough data" placeholder.
const minTrendEntries = 2

// trendLength caps how many recent logs feed the trend.
const trendLength = 10

type DashboardHandler struct {
	svc *wellness.Service
}

func NewDashboardHandler(svc *wellness.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

type trendPoint struct {
	Timestamp time.Time   `json:"timestamp"`
	Mood      models.Mood `json:"mood"`
	Value     int         `json:"value"`
}

type dashboardResponse struct {
	CurrentMood   models.Mood  `json:"current_mood"`
	HappyCount    int          `json:"happy_count"`
	StressedCount int          `json:"stressed_count"`
	TotalMoodLogs int          `json:"total_mood_logs"`
	TotalMessages int          `json:"total_messages"`
	HasEnoughData bool         `json:"has_enough_data"`
	Trend         []trendPoint `json:"trend"`
}

// Get aggregates the stats and trend points powering the dashboard view.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := mw.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	logs, err := h.svc.MoodLogs(r.Context(), userID)
	if err != nil {
		http.Error(w, "could not fetch mood logs", http.StatusInternalServerError)
		return
	}
	history, err := h.svc.History(r.Context(), userID)
	if err != nil {
		http.Error(w, "could not fetch history", http.StatusInternalServerError)
		return
	}

	resp := dashboardResponse{
		CurrentMood:   models.MoodNeutral,
		TotalMoodLogs: len(logs),
		TotalMessages: len(history),
		HasEnoughData: len(logs) >= minTrendEntries,
		Trend:         []trendPoint{},
	}
	if len(logs) > 0 {
		resp.CurrentMood = logs[len(logs)-1].Mood
	}
	for _, log := range logs {
		switch {
		case log.Mood == models.MoodHappy:
			resp.HappyCount++
		case log.Mood.Stressful():
			resp.StressedCount++
		}
	}

	recent := logs
	if len(recent) > trendLength {
		recent = recent[len(recent)-trendLength:]
	}
	for _, log := range recent {
		resp.Trend = append(resp.Trend, trendPoint{
			Timestamp: log.CreatedAt,
			Mood:      log.Mood,
			Value:     log.Mood.TrendValue(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
