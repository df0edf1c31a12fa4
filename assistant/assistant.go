// Package assistant is the AI surface of the copilot: a chat assistant
// grounded in SDK data, meeting-insight extraction for recorded calls,
// and use-case recommendations. All LLM traffic goes through one
// configured OpenAI client; every feature has a deterministic degraded
// path when no API key is configured.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/haikentcode/csmpilot-sub000/client"
)

// DefaultModel balances quality and cost for the assistant's workloads.
const DefaultModel = "gpt-4o-mini"

// Service answers questions about customers using the SDK for grounding
// data and the OpenAI API for generation.
type Service struct {
	sdk   *client.Client
	ai    *openai.Client
	model string
}

// Option customizes a Service during New().
type Option func(*serviceConfig)

type serviceConfig struct {
	model   string
	baseURL string
}

// WithModel overrides the completion model.
func WithModel(model string) Option {
	return func(c *serviceConfig) { c.model = model }
}

// WithBaseURL points the OpenAI client at a different endpoint. Used by
// tests and by proxy deployments.
func WithBaseURL(u string) Option {
	return func(c *serviceConfig) { c.baseURL = u }
}

// New constructs the assistant. apiKey may be empty: the service still
// works, with every AI feature taking its degraded path.
func New(sdk *client.Client, apiKey string, opts ...Option) (*Service, error) {
	if sdk == nil {
		return nil, fmt.Errorf("nil sdk client")
	}
	cfg := serviceConfig{model: DefaultModel}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Service{sdk: sdk, model: cfg.model}
	if apiKey != "" {
		aiCfg := openai.DefaultConfig(apiKey)
		if cfg.baseURL != "" {
			aiCfg.BaseURL = cfg.baseURL
		}
		s.ai = openai.NewClientWithConfig(aiCfg)
	} else {
		log.Warn().Msg("assistant: no OpenAI API key configured, AI features degraded")
	}
	return s, nil
}

// Answer is one assistant reply. ConversationID groups follow-up turns.
type Answer struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
}

// Ask answers a free-form question about one customer. The customer's
// dashboard data and recent meetings are assembled into the prompt so
// the model answers from facts rather than memory. conversationID may be
// empty; a fresh one is generated.
func (s *Service) Ask(ctx context.Context, customerID int, conversationID, question string) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("empty question")
	}
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	detail, err := s.sdk.GetCustomerDashboard(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load customer %d: %w", customerID, err)
	}
	// Recorded calls enrich the context but are not required for an answer.
	gong, err := s.sdk.ListGongMeetings(ctx, customerID)
	if err != nil {
		log.Debug().Err(err).Int("customer_id", customerID).Msg("assistant: gong meetings unavailable")
	}

	if s.ai == nil {
		return &Answer{
			ConversationID: conversationID,
			Reply:          "The AI assistant is not configured. " + BuildContext(detail, gong),
		}, nil
	}

	resp, err := s.ai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You are a customer-success copilot. Answer using only the " +
					"account data provided. Be concise and concrete; when the data does " +
					"not support an answer, say so.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Account data:\n%s\n\nQuestion: %s", BuildContext(detail, gong), question),
			},
		},
		Temperature: 0.3,
		MaxTokens:   1000,
	})
	if err != nil {
		return nil, fmt.Errorf("assistant completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("assistant completion: empty response")
	}
	return &Answer{
		ConversationID: conversationID,
		Reply:          strings.TrimSpace(resp.Choices[0].Message.Content),
	}, nil
}

// stripJSONFence removes a markdown code fence around a JSON payload.
// Models wrap JSON in ```json blocks despite instructions not to.
func stripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
	} else if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
	} else {
		return s
	}
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
