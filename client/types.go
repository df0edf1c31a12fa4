package client

import "github.com/haikentcode/csmpilot-sub000/client/internal/types"

// Public aliases of the SDK's domain types. The definitions live in
// internal/types so the fetch and decode layers can share them without an
// import cycle.

type (
	HealthScore     = types.HealthScore
	Decimal         = types.Decimal
	Date            = types.Date
	Sentiment       = types.Sentiment
	Customer        = types.Customer
	CustomerMetrics = types.CustomerMetrics
	CustomerDetail  = types.CustomerDetail
	Feedback        = types.Feedback
	Meeting         = types.Meeting
	Participant     = types.Participant
	MeetingInsight  = types.MeetingInsight
	AIInsights      = types.AIInsights
	GongMeeting     = types.GongMeeting
	ProfileSummary  = types.ProfileSummary
	SimilarCustomer = types.SimilarCustomer
	HealthBucket    = types.HealthBucket

	ListCustomersParams   = types.ListCustomersParams
	CreateFeedbackRequest = types.CreateFeedbackRequest
	CustomerPage          = types.CustomerPage
)

// Health score display labels.
const (
	HealthHealthy  = types.HealthHealthy
	HealthAtRisk   = types.HealthAtRisk
	HealthCritical = types.HealthCritical
)

// Sentiment labels.
const (
	SentimentPositive = types.SentimentPositive
	SentimentNeutral  = types.SentimentNeutral
	SentimentNegative = types.SentimentNegative
)

// Feedback statuses accepted by the backend.
const (
	FeedbackOpen       = types.FeedbackOpen
	FeedbackInProgress = types.FeedbackInProgress
	FeedbackResolved   = types.FeedbackResolved
	FeedbackClosed     = types.FeedbackClosed
)

// DeriveSentiment maps an NPS value onto a sentiment label.
func DeriveSentiment(nps int) Sentiment { return types.DeriveSentiment(nps) }
