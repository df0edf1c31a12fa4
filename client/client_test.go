package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newFastClient builds a client tuned for tests: tight spacing, one
// attempt unless the test opts into retries.
func newFastClient(t *testing.T, base string, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{
		WithMinRequestInterval(time.Millisecond),
		WithMaxAttempts(1),
	}, opts...)
	c, err := New(base, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClient_ListCustomers_DRF(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/customers/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.URL.Query().Get("page") != "1" || r.URL.Query().Get("page_size") != "20" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{
			"count": 42,
			"next": "http://api/customers/?page=2",
			"previous": null,
			"results": [
				{"id":1,"name":"Acme","industry":"retail","arr":"120000.00","health_score":"healthy","renewal_date":"2026-09-01"},
				{"id":2,"name":"Globex","industry":"technology","arr":250000,"health_score":"at_risk","renewal_date":"2026-04-15"}
			]
		}`))
	}))
	defer hs.Close()

	c := newFastClient(t, hs.URL)
	page, err := c.ListCustomers(context.Background(), ListCustomersParams{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("ListCustomers returned error: %v", err)
	}
	if page.Total != 42 || page.Page != 1 || page.PerPage != 20 || page.TotalPages != 3 {
		t.Fatalf("unexpected envelope %+v", page)
	}
	if len(page.Customers) != 2 {
		t.Fatalf("unexpected customers %+v", page.Customers)
	}
	if page.Customers[0].HealthScore != HealthHealthy || page.Customers[1].HealthScore != HealthAtRisk {
		t.Fatalf("health scores not mapped: %+v", page.Customers)
	}
	if page.Customers[0].Sentiment != SentimentPositive {
		t.Fatalf("sentiment not derived: %+v", page.Customers[0])
	}
	if float64(page.Customers[0].ARR) != 120000 {
		t.Fatalf("decimal arr not decoded: %v", page.Customers[0].ARR)
	}
}

func TestClient_ListCustomers_LegacyShape(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"customers":[{"id":7,"name":"Initech","industry":"finance","arr":90000,"health_score":"critical","renewal_date":"2026-03-01"}],
			"total":1,"page":1,"per_page":10,"total_pages":1
		}`))
	}))
	defer hs.Close()

	c := newFastClient(t, hs.URL)
	page, err := c.ListCustomers(context.Background(), ListCustomersParams{})
	if err != nil {
		t.Fatalf("ListCustomers returned error: %v", err)
	}
	if page.Total != 1 || page.PerPage != 10 {
		t.Fatalf("legacy envelope not preserved: %+v", page)
	}
	if page.Customers[0].HealthScore != HealthCritical || page.Customers[0].Sentiment != SentimentNegative {
		t.Fatalf("transforms not applied: %+v", page.Customers[0])
	}
}

func TestClient_GetCustomerDashboard(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/customers/7/dashboard/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{
			"id":7,"name":"Initech","industry":"finance","arr":"90000.00",
			"health_score":"at_risk","renewal_date":"2026-03-01",
			"feedback":[{"id":1,"title":"Export is slow","status":"open"}],
			"meetings":[{"id":3,"date":"2026-02-10","summary":"QBR"}],
			"metrics":{"nps":-12,"usage_trend":"down","active_users":41,"renewal_rate":"62.5","seat_utilization":"48.0","response_limit":1000,"response_used":880,"response_usage_percentage":88.0}
		}`))
	}))
	defer hs.Close()

	c := newFastClient(t, hs.URL)
	detail, err := c.GetCustomerDashboard(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetCustomerDashboard returned error: %v", err)
	}
	if detail.Name != "Initech" || detail.HealthScore != HealthAtRisk {
		t.Fatalf("unexpected detail %+v", detail)
	}
	if len(detail.Feedback) != 1 || len(detail.Meetings) != 1 || detail.Metrics == nil {
		t.Fatalf("nested collections missing: %+v", detail)
	}
	// NPS of -12 must win over the health-score heuristic.
	if detail.Sentiment != SentimentNegative {
		t.Fatalf("sentiment should derive from NPS, got %q", detail.Sentiment)
	}
}

func TestClient_GetCustomer_NotFound(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer hs.Close()

	c := newFastClient(t, hs.URL)
	_, err := c.GetCustomer(context.Background(), 9999)
	if !IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_GetCustomer_RejectsBadID(t *testing.T) {
	c := newFastClient(t, "http://backend.invalid")
	if _, err := c.GetCustomer(context.Background(), 0); err == nil {
		t.Fatal("id 0 must be rejected before any network call")
	}
}

func TestClient_CreateFeedback_InvalidatesCustomerCache(t *testing.T) {
	var lists int
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/customers/7/feedback/":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":9,"title":"SSO request","status":"open"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/customers/7/feedback/":
			lists++
			_, _ = w.Write([]byte(`[{"id":9,"title":"SSO request","status":"open"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer hs.Close()

	c := newFastClient(t, hs.URL)
	ctx := context.Background()

	if _, err := c.ListFeedback(ctx, 7); err != nil {
		t.Fatalf("warm list: %v", err)
	}
	created, err := c.CreateFeedback(ctx, 7, CreateFeedbackRequest{Title: "SSO request", Status: FeedbackOpen})
	if err != nil {
		t.Fatalf("CreateFeedback returned error: %v", err)
	}
	if created.ID != 9 {
		t.Fatalf("unexpected feedback %+v", created)
	}
	if _, err := c.ListFeedback(ctx, 7); err != nil {
		t.Fatalf("list after create: %v", err)
	}
	if lists != 2 {
		t.Fatalf("create must evict the cached list, got %d GETs", lists)
	}
}

func TestClient_CreateFeedback_RejectsInvalid(t *testing.T) {
	c := newFastClient(t, "http://backend.invalid")
	if _, err := c.CreateFeedback(context.Background(), 7, CreateFeedbackRequest{}); err == nil {
		t.Fatal("empty title must be rejected")
	}
	if _, err := c.CreateFeedback(context.Background(), 7, CreateFeedbackRequest{Title: "x", Status: "bogus"}); err == nil {
		t.Fatal("unknown status must be rejected")
	}
}

func TestClient_ListGongMeetings(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/gong/meetings/" || r.URL.Query().Get("customer") != "7" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"count":1,"results":[{
			"id":4,"company_id":7,"gong_meeting_id":"g-123","meeting_title":"Renewal sync",
			"meeting_date":"2026-02-12T15:00:00Z","duration_minutes":45,"direction":"outbound",
			"participants":[{"name":"Dana","affiliation":"customer"}],
			"overall_sentiment":"positive","key_topics":["renewal"],
			"ai_insights":{"insights":[{"category":"RENEWAL_SIGNAL","sentence":"Budget approved for next year.","confidence":0.92}]},
			"ai_processed":true
		}]}`))
	}))
	defer hs.Close()

	c := newFastClient(t, hs.URL)
	meetings, err := c.ListGongMeetings(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListGongMeetings returned error: %v", err)
	}
	if len(meetings) != 1 || meetings[0].GongMeetingID != "g-123" {
		t.Fatalf("unexpected meetings %+v", meetings)
	}
	if got := meetings[0].AIInsights.Insights; len(got) != 1 || got[0].Category != "RENEWAL_SIGNAL" {
		t.Fatalf("insights not decoded: %+v", got)
	}
}

func TestClient_HealthSummary(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/customers/health-summary/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`[{"health_score":"healthy","count":12},{"health_score":"at_risk","count":5},{"health_score":"critical","count":2}]`))
	}))
	defer hs.Close()

	c := newFastClient(t, hs.URL)
	buckets, err := c.HealthSummary(context.Background())
	if err != nil {
		t.Fatalf("HealthSummary returned error: %v", err)
	}
	if len(buckets) != 3 || buckets[1].HealthScore != HealthAtRisk || buckets[1].Count != 5 {
		t.Fatalf("unexpected buckets %+v", buckets)
	}
}

func TestClient_APIKeyTransport(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer hs.Close()

	c := newFastClient(t, hs.URL, WithAPIKey("secret-token"))
	if _, err := c.HealthSummary(context.Background()); err != nil {
		t.Fatalf("authorized call failed: %v", err)
	}
}

func TestClient_CloseIsIdempotent(t *testing.T) {
	c := newFastClient(t, "http://backend.invalid")
	if err := c.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestClient_OptionValidation(t *testing.T) {
	if _, err := New("http://x", WithHTTPClient(nil)); err == nil {
		t.Error("nil http client must be rejected")
	}
	if _, err := New("http://x", WithAPIKey("")); err == nil {
		t.Error("empty api key must be rejected")
	}
	if _, err := New("http://x", WithCacheTTL(0)); err == nil {
		t.Error("zero cache ttl must be rejected")
	}
	if _, err := New("http://x", WithMaxAttempts(-1)); err == nil {
		t.Error("negative attempts must be rejected")
	}
}
