package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	mw "mindscope/internal/middleware"
	"mindscope/internal/models"
	"mindscope/internal/wellness"
)

type ChatHandler struct {
	svc *wellness.Service
}

func NewChatHandler(svc *wellness.Service) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type sendRequest struct {
	Content string   `json:"content"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}

type messagesResponse struct {
	Messages []models.ChatMessage `json:"messages"`
}

// Send runs one chat turn and returns every message it appended: the user
// message, any intervention messages, and the companion reply.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := mw.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		http.Error(w, "content required", http.StatusBadRequest)
		return
	}

	messages, err := h.svc.SendMessage(r.Context(), userID, req.Content, location(req.Lat, req.Lng))
	if err != nil {
		http.Error(w, "could not send message", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(messagesResponse{Messages: messages})
}

func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := mw.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	messages, err := h.svc.History(r.Context(), userID)
	if err != nil {
		http.Error(w, "could not fetch history", http.StatusInternalServerError)
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messagesResponse{Messages: messages})
}

// Clear deletes the chat history. Safe to call repeatedly.
func (h *ChatHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := mw.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.svc.ClearChat(r.Context(), userID); err != nil {
		http.Error(w, "could not clear chat", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type placesRequest struct {
	Query string   `json:"query"`
	Lat   *float64 `json:"lat"`
	Lng   *float64 `json:"lng"`
}

// FindPlaces runs the "peaceful places near me" flow. Coordinates come from the
// client since geolocation lives there.
func (h *ChatHandler) FindPlaces(w http.ResponseWriter, r *http.Request) {
	userID, ok := mw.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req placesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	loc := location(req.Lat, req.Lng)
	if loc == nil {
		http.Error(w, "lat and lng required", http.StatusBadRequest)
		return
	}

	messages, err := h.svc.FindPlaces(r.Context(), userID, req.Query, *loc)
	if err != nil {
		http.Error(w, "could not search places", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(messagesResponse{Messages: messages})
}

// SuggestMusic asks for songs matching the user's current mood.
func (h *ChatHandler) SuggestMusic(w http.ResponseWriter, r *http.Request) {
	userID, ok := mw.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	messages, err := h.svc.SuggestMusic(r.Context(), userID)
	if err != nil {
		http.Error(w, "could not suggest music", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(messagesResponse{Messages: messages})
}
