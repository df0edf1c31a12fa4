package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/haikentcode/csmpilot-sub000/client"
)

// InsightCategories are the labels the extraction prompt allows. Handlers
// downstream key off the exact strings, so the list is append-only.
var InsightCategories = []string{
	"FEATURE_REQUEST",
	"CRITICAL_REVIEW",
	"COMPLIMENTS",
	"DISSATISFACTION",
	"COMPETITOR_MENTION",
	"PRICING_DISCUSSION",
	"RENEWAL_SIGNAL",
	"ESCALATION_NEEDED",
	"INTEGRATION_REQUEST",
	"SUPPORT_NEEDED",
}

// MeetingAnalysis is the structured result of one call analysis.
type MeetingAnalysis struct {
	Insights         []client.MeetingInsight `json:"insights"`
	OverallSentiment string                  `json:"overall_sentiment"`
	KeyTopics        []string                `json:"key_topics"`
}

// AnalyzeMeeting extracts categorized insights from a recorded call. The
// meeting's summary is analyzed; without any text or without an API key
// a neutral empty analysis is returned rather than an error, so batch
// processing never stalls on one bad record.
func (s *Service) AnalyzeMeeting(ctx context.Context, meeting client.GongMeeting) (*MeetingAnalysis, error) {
	text := strings.TrimSpace(meeting.MeetingSummary)
	if s.ai == nil || text == "" {
		return &MeetingAnalysis{Insights: []client.MeetingInsight{}, OverallSentiment: "neutral", KeyTopics: []string{}}, nil
	}

	resp, err := s.ai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You are an expert at analyzing customer meetings and extracting " +
					"actionable insights. Always return valid JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildAnalysisPrompt(meeting),
			},
		},
		Temperature: 0.3,
		MaxTokens:   1000,
	})
	if err != nil {
		return nil, fmt.Errorf("meeting analysis: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("meeting analysis: empty response")
	}

	raw := stripJSONFence(resp.Choices[0].Message.Content)
	var analysis MeetingAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, fmt.Errorf("meeting analysis: malformed model output: %w", err)
	}
	if analysis.Insights == nil {
		analysis.Insights = []client.MeetingInsight{}
	}
	if analysis.KeyTopics == nil {
		analysis.KeyTopics = []string{}
	}
	switch analysis.OverallSentiment {
	case "positive", "neutral", "negative":
	default:
		analysis.OverallSentiment = "neutral"
	}
	return &analysis, nil
}

func buildAnalysisPrompt(meeting client.GongMeeting) string {
	var b strings.Builder
	b.WriteString("Analyze the following meeting summary. Extract actionable insights and categorize them.\n\n")
	b.WriteString("Categories to use: ")
	b.WriteString(strings.Join(InsightCategories, ", "))
	b.WriteString("\n\nFor each insight found, provide:\n")
	b.WriteString("1. Category (one of the categories above)\n")
	b.WriteString("2. A one-sentence summary of the insight\n")
	b.WriteString("3. Confidence level (0.0 to 1.0)\n")
	b.WriteString("4. Approximate timestamp if mentioned (format: HH:MM:SS)\n\n")
	fmt.Fprintf(&b, "Meeting Title:\n%s\n\nMeeting Summary:\n%s\n\n", meeting.MeetingTitle, meeting.MeetingSummary)
	b.WriteString(`Return a JSON object with this structure:
{
    "insights": [
        {
            "category": "FEATURE_REQUEST",
            "sentence": "Customer requested advanced analytics dashboard",
            "confidence": 0.95,
            "timestamp": "00:15:30",
            "context": "Brief context about where this was mentioned"
        }
    ],
    "overall_sentiment": "positive|neutral|negative",
    "key_topics": ["topic1", "topic2", "topic3"]
}

Only include insights that are clearly actionable or significant. If no insights are found, return an empty insights array.
`)
	return b.String()
}
