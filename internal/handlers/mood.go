package handlers

import (
	"encoding/json"
	"net/http"

	mw "mindscope/internal/middleware"
	"mindscope/internal/models"
	"mindscope/internal/wellness"
)

type MoodHandler struct {
	svc *wellness.Service
}

func NewMoodHandler(svc *wellness.Service) *MoodHandler {
	return &MoodHandler{svc: svc}
}

type moodRequest struct {
	Mood string   `json:"mood"`
	Note string   `json:"note"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

type moodResponse struct {
	Log      models.MoodLog       `json:"log"`
	Messages []models.ChatMessage `json:"messages,omitempty"`
}

// Add appends a mood log. Any assistant messages the intervention trigger
// appended are returned alongside the log.
func (h *MoodHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := mw.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req moodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	mood := models.Mood(req.Mood)
	if !mood.Valid() {
		http.Error(w, "invalid mood label", http.StatusBadRequest)
		return
	}

	log, messages, err := h.svc.AddMoodLog(r.Context(), userID, mood, req.Note, location(req.Lat, req.Lng))
	if err != nil {
		http.Error(w, "could not save mood", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(moodResponse{Log: *log, Messages: messages})
}

type moodListResponse struct {
	CurrentMood models.Mood      `json:"current_mood"`
	Logs        []models.MoodLog `json:"logs"`
}

func (h *MoodHandler) List(w http.ResponseWriter, r *http.Request) {
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
	current := models.MoodNeutral
	if len(logs) > 0 {
		current = logs[len(logs)-1].Mood
	}
	if logs == nil {
		logs = []models.MoodLog{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(moodListResponse{CurrentMood: current, Logs: logs})
}

// location builds a wellness.Location only when both coordinates were sent.
func location(lat, lng *float64) *wellness.Location {
	if lat == nil || lng == nil {
		return nil
	}
	return &wellness.Location{Lat: *lat, Lng: *lng}
}
