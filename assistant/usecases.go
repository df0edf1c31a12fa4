package assistant

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// useCasesRaw is the curated catalogue of survey use cases per category,
// plus the industry→category mapping. Compiled into the binary so the
// recommendation path has no runtime file dependency.
//
//go:embed use-cases-reference.json
var useCasesRaw []byte

type useCasesReference struct {
	UseCases        map[string][]string `json:"use_cases"`
	IndustryMapping map[string][]string `json:"industry_mapping"`
}

var (
	useCasesOnce sync.Once
	useCasesRef  useCasesReference
	useCasesErr  error
)

func loadUseCasesReference() (useCasesReference, error) {
	useCasesOnce.Do(func() {
		useCasesErr = json.Unmarshal(useCasesRaw, &useCasesRef)
	})
	return useCasesRef, useCasesErr
}

// UseCaseQuery describes the customer the recommendations are for.
type UseCaseQuery struct {
	Products     []string
	Industry     string
	CustomerName string
	ARR          float64
}

// UseCase is one recommended application of the product line.
type UseCase struct {
	Category     string `json:"category"`
	UseCase      string `json:"use_case"`
	Description  string `json:"description"`
	ProductMatch string `json:"product_match,omitempty"`
}

const maxUseCases = 8

// FilterUseCases returns the most relevant use cases for a customer.
// With an API key the model ranks and describes them; otherwise the
// industry mapping alone drives a deterministic basic filter.
func (s *Service) FilterUseCases(ctx context.Context, q UseCaseQuery) ([]UseCase, error) {
	ref, err := loadUseCasesReference()
	if err != nil {
		return nil, fmt.Errorf("use cases reference: %w", err)
	}
	if s.ai == nil {
		return basicFilteredUseCases(ref, q), nil
	}

	cases, err := s.aiFilteredUseCases(ctx, ref, q)
	if err != nil {
		log.Warn().Err(err).Str("industry", q.Industry).Msg("assistant: AI use-case filtering failed, using basic filter")
		return basicFilteredUseCases(ref, q), nil
	}
	return cases, nil
}

func (s *Service) aiFilteredUseCases(ctx context.Context, ref useCasesReference, q UseCaseQuery) ([]UseCase, error) {
	products := "None"
	if len(q.Products) > 0 {
		products = strings.Join(q.Products, ", ")
	}

	var available strings.Builder
	for _, category := range ref.IndustryMapping[strings.ToLower(q.Industry)] {
		for _, uc := range ref.UseCases[category] {
			fmt.Fprintf(&available, "- %s: %s\n", category, uc)
		}
	}

	prompt := fmt.Sprintf(`You are a Customer Success Manager helping a %s company get value from its survey products.

Customer is using: %s

Select the most relevant use cases for this customer from the list below.

Available Use Cases:
%s
Return a JSON array of the top 5-8 most relevant use cases:
[
  {
    "category": "Customer Experience",
    "use_case": "CSAT",
    "description": "Specific description for %s companies",
    "product_match": "%s"
  }
]
`, q.Industry, products, available.String(), q.Industry, firstOr(q.Products, "the customer's primary product"))

	resp, err := s.ai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You are an expert Customer Success Manager. " +
					"Always return valid JSON arrays.",
			},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   1500,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response")
	}

	raw := stripJSONFence(resp.Choices[0].Message.Content)
	var cases []UseCase
	if err := json.Unmarshal([]byte(raw), &cases); err != nil {
		return nil, fmt.Errorf("malformed model output: %w", err)
	}
	if len(cases) > maxUseCases {
		cases = cases[:maxUseCases]
	}
	return cases, nil
}

// basicFilteredUseCases takes the top entries of each category mapped to
// the customer's industry. Unknown industries fall back to the broadly
// applicable categories.
func basicFilteredUseCases(ref useCasesReference, q UseCaseQuery) []UseCase {
	categories := ref.IndustryMapping[strings.ToLower(q.Industry)]
	if len(categories) == 0 {
		categories = []string{"Customer Experience", "HR", "Marketing"}
	}

	product := firstOr(q.Products, "")
	var out []UseCase
	for _, category := range categories {
		names := ref.UseCases[category]
		for _, name := range names[:min(len(names), 3)] {
			out = append(out, UseCase{
				Category:     category,
				UseCase:      name,
				Description:  fmt.Sprintf("%s for %s companies", name, q.Industry),
				ProductMatch: product,
			})
			if len(out) == maxUseCases {
				return out
			}
		}
	}
	return out
}

func firstOr(ss []string, def string) string {
	if len(ss) > 0 {
		return ss[0]
	}
	return def
}
