// Package companion talks to the chat-completion API behind the
// supportive chat buddy.
package companion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pbaille/wellness/internal/session"
)

const (
	openAIAPI = "https://api.openai.com/v1/chat/completions"
	grokAPI   = "https://api.x.ai/v1/chat/completions"
)

// Greeting opens every conversation
const Greeting = "Hello! I'm Mindful Buddy, your AI companion for mental wellness. How are you feeling today? 💙"

const emptyReply = "I'm sorry, I couldn't process that right now. Can you try rephrasing?"

const systemPrompt = `You are Mindful Buddy, a compassionate AI mental health companion. Your role is to:

1. Provide empathetic, supportive responses to users sharing their feelings
2. Use therapeutic communication techniques like active listening and validation
3. Offer gentle coping strategies and mindfulness techniques when appropriate
4. Always maintain a warm, caring tone with emojis like 💙 🌟 ✨
5. Ask follow-up questions to encourage deeper reflection
6. Remind users that you're not a substitute for professional help
7. Focus on emotional support, validation, and gentle guidance
8. Keep responses conversational and not too long (2-3 sentences max)

Remember: You're here to listen, validate feelings, and provide gentle support. Never give medical advice.`

// Error classes returned by Send
var (
	ErrUnauthorized  = errors.New("API key missing or rejected")
	ErrRateLimited   = errors.New("rate limit reached")
	ErrQuotaExceeded = errors.New("quota exceeded")
	ErrNetwork       = errors.New("failed to get response")
)

// Role of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one turn of the conversation
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Client sends conversations to the configured provider
type Client struct {
	provider string
	apiKey   string
	endpoint string
	model    string
	http     *http.Client
	pick     func(n int) int
}

// Option configures a Client
type Option func(*Client)

// WithEndpoint overrides the provider URL
func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithPicker sets how a default fallback reply is chosen
func WithPicker(pick func(n int) int) Option {
	return func(c *Client) { c.pick = pick }
}

// New creates a client for the provider and key in sc
func New(sc session.Context, opts ...Option) *Client {
	c := &Client{
		provider: sc.Provider,
		apiKey:   strings.TrimSpace(sc.APIKey),
		endpoint: openAIAPI,
		model:    "gpt-3.5-turbo",
		http:     &http.Client{Timeout: 30 * time.Second},
		pick:     randomIndex,
	}
	if c.provider == session.ProviderGrok {
		c.endpoint = grokAPI
		c.model = "grok-beta"
	} else {
		c.provider = session.ProviderOpenAI
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the provider name in display form
func (c *Client) Provider() string {
	if c.provider == session.ProviderGrok {
		return "Grok"
	}
	return "OpenAI"
}

// Send posts history plus text and returns the assistant reply.
// For Grok a failed call still yields a keyword-matched supportive reply.
func (c *Client) Send(ctx context.Context, history []Message, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty message")
	}
	if c.apiKey == "" {
		return "", ErrUnauthorized
	}

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: RoleSystem, Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: RoleUser, Content: text})

	reply, err := c.callAPI(ctx, messages)
	if err != nil && c.provider == session.ProviderGrok && !errors.Is(err, context.Canceled) {
		return Fallback(text, c.pick), nil
	}
	return reply, err
}

type apiRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type apiResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) callAPI(ctx context.Context, messages []Message) (string, error) {
	reqBody := apiRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   150,
		Temperature: 0.7,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w from %s: %v", ErrNetwork, c.Provider(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var apiResp apiResponse
	decodeErr := json.Unmarshal(body, &apiResp)

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		if decodeErr == nil && apiResp.Error != nil {
			msg = apiResp.Error.Message
		}
		return "", classify(resp.StatusCode, msg, c.Provider())
	}
	if decodeErr != nil {
		return "", fmt.Errorf("unmarshal response: %w", decodeErr)
	}
	if len(apiResp.Choices) == 0 || strings.TrimSpace(apiResp.Choices[0].Message.Content) == "" {
		return emptyReply, nil
	}
	return apiResp.Choices[0].Message.Content, nil
}

func classify(status int, msg, provider string) error {
	lower := strings.ToLower(msg)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden || strings.Contains(lower, "api key"):
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case strings.Contains(lower, "quota"):
		return fmt.Errorf("%w: %s", ErrQuotaExceeded, msg)
	case status == http.StatusTooManyRequests || strings.Contains(lower, "rate limit"):
		return fmt.Errorf("%w: %s", ErrRateLimited, msg)
	}
	return fmt.Errorf("%w from %s (status %d): %s", ErrNetwork, provider, status, msg)
}

// FriendlyMessage turns a Send error into the text shown in the chat
func FriendlyMessage(err error, provider string) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "Please configure your AI API key to start chatting with me! 🔑"
	case errors.Is(err, ErrRateLimited):
		return "I'm getting too many requests right now. Please wait a moment and try again. ⏳"
	case errors.Is(err, ErrQuotaExceeded):
		return "I've reached my usage limit. Please check your account or try switching to a different AI provider. 💳"
	case errors.Is(err, ErrNetwork):
		return fmt.Sprintf("Connection to %s failed. Please check your API key or try switching providers. 🔌", provider)
	}
	return "I'm having trouble connecting right now. Please try again in a moment. 💙"
}
