// Package wellness owns the mood and chat flow for a user: appending logs and
// messages, awaiting sentiment classification, and driving the stress
// intervention. State lives in the store; nothing here is ambient or global.
package wellness

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mindscope/internal/ai"
	"mindscope/internal/models"
	"mindscope/internal/store"
)

// Fallback strings returned when a gateway call fails. These are part of the
// API surface: clients may key UI hints off them.
const (
	ReplyFallback  = "I'm having trouble connecting right now, but I'm still listening."
	PlacesFallback = "I couldn't access the map right now. Try searching for 'parks near me' on your device."
	MusicFallback  = "I couldn't search for music right now."

	InterventionOpener = "I've noticed you've been feeling stressed or anxious lately. I care about you. Let me find some peaceful places nearby where you can take a break and relax."
	InterventionNoLoc  = "I wanted to find places for you, but I couldn't access your location. Please try taking a deep breath or listening to some calming music instead."
)

// interventionWindow is how many consecutive stressed logs fire the intervention.
const interventionWindow = 3

// Location is a client-reported latitude/longitude pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Service struct {
	store   *store.Store
	gateway ai.Gateway
	logger  *zap.Logger
}

func NewService(st *store.Store, gateway ai.Gateway, logger *zap.Logger) *Service {
	return &Service{store: st, gateway: gateway, logger: logger}
}

// CurrentMood is the mood of the most recent log, or Neutral when none exist.
func (s *Service) CurrentMood(ctx context.Context, userID uuid.UUID) (models.Mood, error) {
	logs, err := s.store.Moods.List(ctx, userID)
	if err != nil {
		return models.MoodNeutral, err
	}
	if len(logs) == 0 {
		return models.MoodNeutral, nil
	}
	return logs[len(logs)-1].Mood, nil
}

func (s *Service) MoodLogs(ctx context.Context, userID uuid.UUID) ([]models.MoodLog, error) {
	return s.store.Moods.List(ctx, userID)
}

func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error) {
	return s.store.Chats.List(ctx, userID)
}

// ClearChat removes the user's chat history. Mood logs are untouched. Clearing
// an already-empty history is a no-op.
func (s *Service) ClearChat(ctx context.Context, userID uuid.UUID) error {
	return s.store.Chats.Clear(ctx, userID)
}

// AddMoodLog appends a mood log and evaluates the intervention trigger. The
// returned messages are any assistant messages the trigger appended; loc may be
// nil when the client did not share coordinates.
func (s *Service) AddMoodLog(ctx context.Context, userID uuid.UUID, mood models.Mood, note string, loc *Location) (*models.MoodLog, []models.ChatMessage, error) {
	if !mood.Valid() {
		return nil, nil, fmt.Errorf("invalid mood label %q", mood)
	}
	log := models.MoodLog{ID: uuid.New(), UserID: userID, Mood: mood, Note: note}
	if err := s.store.Moods.Create(ctx, &log); err != nil {
		return nil, nil, err
	}
	appended, err := s.checkIntervention(ctx, userID, loc)
	if err != nil {
		return nil, nil, err
	}
	return &log, appended, nil
}

// SendMessage runs one chat turn: classify the text, persist the user message
// tagged with the classified mood, log a non-neutral mood (which may fire the
// intervention), then fetch and persist the companion reply. Classification is
// awaited before the message is stored, so the recorded mood never lags.
// Returns every message this call appended, in order.
func (s *Service) SendMessage(ctx context.Context, userID uuid.UUID, content string, loc *Location) ([]models.ChatMessage, error) {
	history, err := s.store.Chats.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	mood, err := s.gateway.AnalyzeMood(ctx, content)
	if err != nil {
		s.logger.Warn("mood analysis failed", zap.Error(err))
		mood = models.MoodNeutral
	}

	userMsg := models.ChatMessage{
		ID:      uuid.New(),
		UserID:  userID,
		Role:    models.RoleUser,
		Content: content,
		Mood:    mood,
	}
	if err := s.store.Chats.Create(ctx, &userMsg); err != nil {
		return nil, err
	}
	appended := []models.ChatMessage{userMsg}

	if mood != models.MoodNeutral {
		_, interventionMsgs, err := s.AddMoodLog(ctx, userID, mood, "", loc)
		if err != nil {
			return nil, err
		}
		appended = append(appended, interventionMsgs...)
	}

	reply, err := s.gateway.Reply(ctx, history, content)
	if err != nil {
		s.logger.Warn("chat reply failed", zap.Error(err))
		reply = ReplyFallback
	}
	assistant, err := s.appendAssistant(ctx, userID, reply, nil, mood)
	if err != nil {
		return nil, err
	}
	return append(appended, *assistant), nil
}

// FindPlaces runs the "peaceful places near me" flow with the client-reported
// coordinates and returns the appended user ask plus the assistant answer.
func (s *Service) FindPlaces(ctx context.Context, userID uuid.UUID, query string, loc Location) ([]models.ChatMessage, error) {
	if query == "" {
		query = "peaceful places"
	}
	current, err := s.CurrentMood(ctx, userID)
	if err != nil {
		return nil, err
	}
	ask := models.ChatMessage{
		ID:      uuid.New(),
		UserID:  userID,
		Role:    models.RoleUser,
		Content: "Can you find some peaceful places near me?",
		Mood:    current,
	}
	if err := s.store.Chats.Create(ctx, &ask); err != nil {
		return nil, err
	}

	text, links, err := s.gateway.FindPlaces(ctx, query, loc.Lat, loc.Lng)
	if err != nil {
		s.logger.Warn("place search failed", zap.Error(err))
		text, links = PlacesFallback, nil
	}
	allLinks := append([]models.GroundingLink{mapsSearchLink(loc, "🗺️ Open Area Map")}, links...)
	assistant, err := s.appendAssistant(ctx, userID, text, allLinks, current)
	if err != nil {
		return nil, err
	}
	return []models.ChatMessage{ask, *assistant}, nil
}

// SuggestMusic asks for songs matching the user's current mood and returns the
// appended user ask plus the assistant answer.
func (s *Service) SuggestMusic(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error) {
	current, err := s.CurrentMood(ctx, userID)
	if err != nil {
		return nil, err
	}
	ask := models.ChatMessage{
		ID:      uuid.New(),
		UserID:  userID,
		Role:    models.RoleUser,
		Content: fmt.Sprintf("I'm feeling %s. Can you suggest some music?", current),
		Mood:    current,
	}
	if err := s.store.Chats.Create(ctx, &ask); err != nil {
		return nil, err
	}

	text, links, err := s.gateway.SuggestMusic(ctx, current)
	if err != nil {
		s.logger.Warn("music suggestion failed", zap.Error(err))
		text, links = MusicFallback, nil
	}
	assistant, err := s.appendAssistant(ctx, userID, text, links, current)
	if err != nil {
		return nil, err
	}
	return []models.ChatMessage{ask, *assistant}, nil
}

// checkIntervention runs after every mood-log append. Fire: the last three logs
// are all Stress or Anxiety and the flag is clear. Reset: the latest log is
// Happy or Neutral. The flag persists on the user so a firing happens exactly
// once per stressed streak.
func (s *Service) checkIntervention(ctx context.Context, userID uuid.UUID, loc *Location) ([]models.ChatMessage, error) {
	logs, err := s.store.Moods.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, nil
	}
	user, err := s.store.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	latest := logs[len(logs)-1].Mood
	if latest.Calming() {
		if user.InterventionActive {
			if err := s.store.Users.SetInterventionActive(ctx, userID, false); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}
	if user.InterventionActive || len(logs) < interventionWindow {
		return nil, nil
	}
	for _, log := range logs[len(logs)-interventionWindow:] {
		if !log.Mood.Stressful() {
			return nil, nil
		}
	}

	if err := s.store.Users.SetInterventionActive(ctx, userID, true); err != nil {
		return nil, err
	}
	opener, err := s.appendAssistant(ctx, userID, InterventionOpener, nil, latest)
	if err != nil {
		return nil, err
	}
	appended := []models.ChatMessage{*opener}

	if loc == nil {
		// Geolocation denied or never shared; suggest alternatives instead.
		followUp, err := s.appendAssistant(ctx, userID, InterventionNoLoc, nil, latest)
		if err != nil {
			return nil, err
		}
		return append(appended, *followUp), nil
	}

	text, links, err := s.gateway.FindPlaces(ctx, "peaceful places to relax", loc.Lat, loc.Lng)
	if err != nil {
		s.logger.Warn("intervention place search failed", zap.Error(err))
		text, links = PlacesFallback, nil
	}
	allLinks := append([]models.GroundingLink{mapsSearchLink(*loc, "🗺️ View All Places on Google Maps")}, links...)
	followUp, err := s.appendAssistant(ctx, userID, text, allLinks, latest)
	if err != nil {
		return nil, err
	}
	return append(appended, *followUp), nil
}

func (s *Service) appendAssistant(ctx context.Context, userID uuid.UUID, content string, links []models.GroundingLink, mood models.Mood) (*models.ChatMessage, error) {
	msg := models.ChatMessage{
		ID:             uuid.New(),
		UserID:         userID,
		Role:           models.RoleAssistant,
		Content:        content,
		Mood:           mood,
		GroundingLinks: links,
	}
	if err := s.store.Chats.Create(ctx, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func mapsSearchLink(loc Location, title string) models.GroundingLink {
	return models.GroundingLink{
		URI:   fmt.Sprintf("https://www.google.com/maps/search/peaceful+places/@%f,%f,13z", loc.Lat, loc.Lng),
		Title: title,
	}
}
