package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ------------------------------
// Boundary value types
// ------------------------------

// HealthScore is the display form of the backend's account-risk enum.
// The wire values healthy|at_risk|critical are mapped on decode.
type HealthScore string

const (
	HealthHealthy  HealthScore = "Healthy"
	HealthAtRisk   HealthScore = "At Risk"
	HealthCritical HealthScore = "Critical"
)

var healthWireToDisplay = map[string]HealthScore{
	"healthy":  HealthHealthy,
	"at_risk":  HealthAtRisk,
	"critical": HealthCritical,
}

// UnmarshalJSON maps wire enum values to display labels. Already-mapped
// labels pass through unchanged so cached transformed records re-decode
// cleanly.
func (h *HealthScore) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if display, ok := healthWireToDisplay[strings.ToLower(s)]; ok {
		*h = display
		return nil
	}
	switch HealthScore(s) {
	case HealthHealthy, HealthAtRisk, HealthCritical:
		*h = HealthScore(s)
		return nil
	}
	return fmt.Errorf("unknown health score %q", s)
}

// Decimal accepts a JSON number or a quoted decimal string. DRF
// serializes DecimalField (arr, renewal_rate, …) as a string; legacy
// responses used plain numbers.
type Decimal float64

func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*d = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*d = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("decimal %q: %w", s, err)
		}
		*d = Decimal(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*d = Decimal(f)
	return nil
}

// Date is a calendar date (renewal_date, meeting date). Accepts
// YYYY-MM-DD and falls back to RFC 3339.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.Format("2006-01-02"))
}

// Sentiment is the derived account mood shown next to a customer.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// DeriveSentiment maps an NPS value onto a sentiment label.
func DeriveSentiment(nps int) Sentiment {
	switch {
	case nps >= 30:
		return SentimentPositive
	case nps < 0:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// SentimentForHealth is the coarse fallback used for list rows, where
// metrics are not included in the payload.
func SentimentForHealth(h HealthScore) Sentiment {
	switch h {
	case HealthHealthy:
		return SentimentPositive
	case HealthCritical:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// ------------------------------
// Core domain entities
// ------------------------------

// Customer is the account summary shown in list rows.
type Customer struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Industry    string      `json:"industry"`
	ARR         Decimal     `json:"arr"`
	HealthScore HealthScore `json:"health_score"`
	RenewalDate Date        `json:"renewal_date"`
	Products    []string    `json:"products,omitempty"`
	LastUpdated time.Time   `json:"last_updated"`
	Sentiment   Sentiment   `json:"sentiment,omitempty"` // derived client-side
}

// CustomerMetrics carries the account's usage KPIs.
type CustomerMetrics struct {
	NPS                     int       `json:"nps"`
	UsageTrend              string    `json:"usage_trend"`
	ActiveUsers             int       `json:"active_users"`
	RenewalRate             Decimal   `json:"renewal_rate"`
	SeatUtilization         Decimal   `json:"seat_utilization"`
	ResponseLimit           int       `json:"response_limit"`
	ResponseUsed            int       `json:"response_used"`
	ResponseUsagePercentage float64   `json:"response_usage_percentage"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// Feedback is a tracked feedback item for a customer.
type Feedback struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Feedback statuses accepted by the backend.
const (
	FeedbackOpen       = "open"
	FeedbackInProgress = "in_progress"
	FeedbackResolved   = "resolved"
	FeedbackClosed     = "closed"
)

// Meeting is a CSM-logged meeting record.
type Meeting struct {
	ID           int       `json:"id"`
	Date         Date      `json:"date"`
	Summary      string    `json:"summary"`
	Participants string    `json:"participants,omitempty"` // comma-separated
	Sentiment    string    `json:"sentiment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CustomerDetail is a Customer plus its nested collections, as returned
// by the detail and dashboard endpoints.
type CustomerDetail struct {
	Customer
	Feedback []Feedback       `json:"feedback,omitempty"`
	Meetings []Meeting        `json:"meetings,omitempty"`
	Metrics  *CustomerMetrics `json:"metrics,omitempty"`
}

// Participant is one attendee of a recorded call.
type Participant struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Affiliation string `json:"affiliation,omitempty"`
}

// MeetingInsight is a single AI-extracted observation from a call.
type MeetingInsight struct {
	Category   string  `json:"category"`
	Sentence   string  `json:"sentence"`
	Confidence float64 `json:"confidence"`
	Timestamp  string  `json:"timestamp,omitempty"`
	Context    string  `json:"context,omitempty"`
}

// AIInsights groups the extracted observations for one meeting.
type AIInsights struct {
	Insights []MeetingInsight `json:"insights"`
}

// GongMeeting is a recorded call with its AI annotations.
type GongMeeting struct {
	ID               int           `json:"id"`
	CompanyID        int           `json:"company_id"`
	CompanyName      string        `json:"company_name,omitempty"`
	GongMeetingID    string        `json:"gong_meeting_id"`
	MeetingTitle     string        `json:"meeting_title"`
	MeetingDate      time.Time     `json:"meeting_date"`
	DurationMinutes  int           `json:"duration_minutes"`
	Direction        string        `json:"direction,omitempty"`
	Participants     []Participant `json:"participants,omitempty"`
	ParticipantCount int           `json:"participant_count"`
	MeetingSummary   string        `json:"meeting_summary,omitempty"`
	OverallSentiment string        `json:"overall_sentiment,omitempty"`
	KeyTopics        []string      `json:"key_topics,omitempty"`
	AIInsights       AIInsights    `json:"ai_insights"`
	AIProcessed      bool          `json:"ai_processed"`
}

// ProfileSummary is the AI narrative for an account.
type ProfileSummary struct {
	Summary       string   `json:"summary"`
	Risks         []string `json:"risks"`
	Opportunities []string `json:"opportunities"`
	TalkTracks    []string `json:"talk_tracks"`
}

// SimilarCustomer is a peer account with a similarity score in [0,1].
type SimilarCustomer struct {
	CustomerID   int         `json:"customer_id"`
	Name         string      `json:"name"`
	Industry     string      `json:"industry,omitempty"`
	ARR          Decimal     `json:"arr,omitempty"`
	HealthScore  HealthScore `json:"health_score,omitempty"`
	Score        float64     `json:"score"`
	SharedTraits []string    `json:"shared_traits,omitempty"`
}

// UnmarshalJSON accepts the score under either "score" or the backend's
// "similarity_score" field.
func (s *SimilarCustomer) UnmarshalJSON(data []byte) error {
	type alias SimilarCustomer
	aux := struct {
		*alias
		SimilarityScore *float64 `json:"similarity_score"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if s.Score == 0 && aux.SimilarityScore != nil {
		s.Score = *aux.SimilarityScore
	}
	return nil
}

// HealthBucket is one row of the health-score distribution summary.
type HealthBucket struct {
	HealthScore HealthScore `json:"health_score"`
	Count       int         `json:"count"`
}
