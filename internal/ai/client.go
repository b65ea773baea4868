package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"mindscope/internal/models"
)

// Persona instruction for the companion chat.
const systemInstruction = `You are MindScope, an empathetic, non-judgmental mental wellness companion.
Your goal is to support the user through their emotional journey.
1. Listen actively and validate their feelings.
2. Offer coping strategies for stress, anxiety, or sadness.
3. Be encouraging and positive but realistic.
4. If the user asks for music, suggest a specific genre or song list formatted clearly.
5. If the user asks for peaceful places, encourage them to find calm spots nearby.
Keep responses concise, warm, and human-like.`

// Client talks to an OpenAI-compatible chat-completion endpoint.
type Client struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewClient builds the gateway client. An empty apiKey yields a disabled client:
// every call returns ErrMissingCredential instead of crashing, so the rest of
// the service keeps working on fallback responses.
func NewClient(baseURL, apiKey, model string, logger *zap.Logger) *Client {
	c := &Client{model: model, logger: logger}
	if apiKey == "" {
		logger.Warn("no AI credential configured; gateway calls will degrade to fallbacks")
		return c
	}
	options := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(options...)
	c.client = &client
	return c
}

func (c *Client) complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	if c.client == nil {
		return "", ErrMissingCredential
	}
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    c.model,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrBadResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) AnalyzeMood(ctx context.Context, text string) (models.Mood, error) {
	prompt := fmt.Sprintf(`Analyze the sentiment of this text and categorize it into exactly one of these labels: Happy, Sad, Angry, Stress, Anxiety, Neutral. Respond with JSON of the form {"mood": "<label>"} and nothing else. Text: %q`, text)
	content, err := c.complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(prompt),
	})
	if err != nil {
		return models.MoodNeutral, err
	}
	return ParseMoodResponse(content), nil
}

func (c *Client) Reply(ctx context.Context, history []models.ChatMessage, message string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(systemInstruction))
	for _, turn := range history {
		if turn.Role == models.RoleUser {
			messages = append(messages, openai.UserMessage(turn.Content))
		} else {
			messages = append(messages, openai.AssistantMessage(turn.Content))
		}
	}
	messages = append(messages, openai.UserMessage(message))
	return c.complete(ctx, messages)
}

func (c *Client) FindPlaces(ctx context.Context, query string, lat, lng float64) (string, []models.GroundingLink, error) {
	// Coordinates go into the prompt itself so the model cannot default to a
	// major city when the query is ambiguous.
	prompt := fmt.Sprintf(`Find peaceful places specifically near latitude %f, longitude %f.
User query: %q.
Return a list of real places nearby with short descriptions, as JSON of the form
{"text": "<description of the places>", "links": [{"uri": "<map or web link>", "title": "<place name>"}]}
and nothing else.`, lat, lng, query)
	content, err := c.complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(prompt),
	})
	if err != nil {
		return "", nil, err
	}
	text, links := ParseGroundedResponse(content)
	return text, links, nil
}

func (c *Client) SuggestMusic(ctx context.Context, mood models.Mood) (string, []models.GroundingLink, error) {
	prompt := fmt.Sprintf(`Suggest 3 specific songs for someone feeling %s. For each song include a valid YouTube or Spotify link. Respond as JSON of the form
{"text": "<the suggestions with song titles>", "links": [{"uri": "<link>", "title": "<song title>"}]}
and nothing else.`, mood)
	content, err := c.complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(prompt),
	})
	if err != nil {
		return "", nil, err
	}
	text, links := ParseGroundedResponse(content)
	return text, links, nil
}

// ParseMoodResponse extracts the mood label from a classifier answer. Accepts
// the requested {"mood": ...} shape or a bare label; anything else is Neutral.
func ParseMoodResponse(content string) models.Mood {
	var parsed struct {
		Mood string `json:"mood"`
	}
	if err := json.Unmarshal([]byte(stripFences(content)), &parsed); err == nil && parsed.Mood != "" {
		return models.ParseMood(parsed.Mood)
	}
	return models.ParseMood(content)
}

// ParseGroundedResponse extracts text plus grounding links from a model answer.
// When the answer is not the requested JSON shape, the raw text is kept and the
// link list stays empty rather than failing the whole call.
func ParseGroundedResponse(content string) (string, []models.GroundingLink) {
	var parsed struct {
		Text  string                 `json:"text"`
		Links []models.GroundingLink `json:"links"`
	}
	if err := json.Unmarshal([]byte(stripFences(content)), &parsed); err == nil && parsed.Text != "" {
		links := parsed.Links[:0:0]
		for _, link := range parsed.Links {
			if link.URI != "" && link.Title != "" {
				links = append(links, link)
			}
		}
		return parsed.Text, links
	}
	return strings.TrimSpace(content), nil
}

// stripFences removes a markdown code fence some models wrap JSON answers in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
