package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_GetProfileSummary(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/customers/7/profile-summary/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{
			"summary":"Initech is a finance account trending down ahead of renewal.",
			"risks":["Usage dropped 30% quarter over quarter"],
			"opportunities":["Analytics add-on fits their reporting ask"],
			"talk_tracks":["Open with the support escalation from last week"]
		}`))
	}))
	defer hs.Close()

	c := newFastClient(t, hs.URL)
	summary, err := c.GetProfileSummary(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetProfileSummary returned error: %v", err)
	}
	if !strings.Contains(summary.Summary, "Initech") || len(summary.Risks) != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestClient_GetProfileSummary_DemoFallback(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "ai pipeline down", http.StatusServiceUnavailable)
	}))
	defer hs.Close()

	c := newFastClient(t, hs.URL, WithDemoMode(true))
	summary, err := c.GetProfileSummary(context.Background(), 7)
	if err != nil {
		t.Fatalf("demo mode must not surface the error, got %v", err)
	}
	if !strings.Contains(summary.Summary, "currently unavailable") {
		t.Fatalf("expected fallback copy, got %q", summary.Summary)
	}
	if len(summary.Risks) == 0 || len(summary.Opportunities) == 0 {
		t.Fatalf("fallback must carry placeholder sections: %+v", summary)
	}
}

func TestClient_GetProfileSummary_ErrorWithoutDemoMode(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "ai pipeline down", http.StatusServiceUnavailable)
	}))
	defer hs.Close()

	c := newFastClient(t, hs.URL)
	if _, err := c.GetProfileSummary(context.Background(), 7); err == nil {
		t.Fatal("without demo mode the terminal error must propagate")
	}
}

func TestClient_GetProfileSummary_MissingSummaryField(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"risks":[],"opportunities":[],"talk_tracks":[]}`))
	}))
	defer hs.Close()

	c := newFastClient(t, hs.URL)
	if _, err := c.GetProfileSummary(context.Background(), 7); err == nil {
		t.Fatal("a 200 without the summary field is a malformed payload")
	}
}

func TestClient_GetSimilarCustomers(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/customers/7/similar/" || r.URL.Query().Get("top_k") != "3" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		// Backend field name differs from ours; both must decode.
		_, _ = w.Write([]byte(`[
			{"customer_id":11,"name":"Globex","similarity_score":0.93},
			{"customer_id":12,"name":"Acme","score":0.87}
		]`))
	}))
	defer hs.Close()

	c := newFastClient(t, hs.URL)
	peers, err := c.GetSimilarCustomers(context.Background(), 7, 3)
	if err != nil {
		t.Fatalf("GetSimilarCustomers returned error: %v", err)
	}
	if len(peers) != 2 || peers[0].Score != 0.93 || peers[1].Score != 0.87 {
		t.Fatalf("unexpected peers %+v", peers)
	}
}

func TestClient_GetSimilarCustomers_DemoFallback(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "vector store down", http.StatusBadGateway)
	}))
	defer hs.Close()

	c := newFastClient(t, hs.URL, WithDemoMode(true))
	peers, err := c.GetSimilarCustomers(context.Background(), 7, 3)
	if err != nil {
		t.Fatalf("demo mode must not surface the error, got %v", err)
	}
	if len(peers) != 3 {
		t.Fatalf("expected 3 sample peers, got %d", len(peers))
	}
}

func TestClient_GetSimilarCustomers_UnknownCustomerStaysNotFound(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer hs.Close()

	// Demo mode papers over infrastructure failures, not missing entities.
	c := newFastClient(t, hs.URL, WithDemoMode(true))
	if _, err := c.GetSimilarCustomers(context.Background(), 9999, 3); !IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
