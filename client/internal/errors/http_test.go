package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestGetHTTPErrorCategory(t *testing.T) {
	cases := []struct {
		status int
		want   ErrorCategory
	}{
		{400, Irrecoverable},
		{401, Irrecoverable},
		{403, Irrecoverable},
		{404, Irrecoverable},
		{408, Recoverable},
		{429, Recoverable},
		{500, Recoverable},
		{502, Recoverable},
		{503, Recoverable},
		{302, Recoverable}, // unexpected → conservative
	}
	for _, c := range cases {
		if got := getHTTPErrorCategory(c.status); got != c.want {
			t.Errorf("status %d: got %v want %v", c.status, got, c.want)
		}
	}
}

func TestParseRetryAfter(t *testing.T) {
	if d := ParseRetryAfter("3"); d != 3*time.Second {
		t.Fatalf("seconds form: got %v", d)
	}
	if d := ParseRetryAfter(""); d != 0 {
		t.Fatalf("empty: got %v", d)
	}
	if d := ParseRetryAfter("garbage"); d != 0 {
		t.Fatalf("garbage: got %v", d)
	}
	future := time.Now().Add(30 * time.Second).UTC().Format(http.TimeFormat)
	if d := ParseRetryAfter(future); d <= 0 || d > 30*time.Second {
		t.Fatalf("http-date form: got %v", d)
	}
	past := time.Now().Add(-time.Minute).UTC().Format(http.TimeFormat)
	if d := ParseRetryAfter(past); d != 0 {
		t.Fatalf("past http-date: got %v", d)
	}
}

func TestClassifiedError_UnwrapAndHelpers(t *testing.T) {
	base := errors.New("boom")
	ce := ClassifyHTTPError(429, "2", "slow down", fmt.Errorf("list customers: %w", base))
	if !errors.Is(ce, base) {
		t.Fatal("expected unwrap to reach base error")
	}
	if !IsRateLimited(ce) {
		t.Fatal("expected rate-limited detection")
	}
	if IsIrrecoverable(ce) {
		t.Fatal("429 must stay retryable")
	}
	if ce.RetryAfter != 2*time.Second {
		t.Fatalf("retry-after: got %v", ce.RetryAfter)
	}
	if StatusCode(ce) != 429 {
		t.Fatalf("status: got %d", StatusCode(ce))
	}

	wrapped := fmt.Errorf("outer: %w", NewHTTPError(404, "", "", "get customer"))
	if !IsIrrecoverable(wrapped) {
		t.Fatal("404 through a wrap must be irrecoverable")
	}
	if StatusCode(wrapped) != 404 {
		t.Fatalf("status through wrap: got %d", StatusCode(wrapped))
	}
}

func TestNewNetworkAndDecodeErrors(t *testing.T) {
	ne := NewNetworkError("get dashboard", errors.New("connection refused"))
	if ne.Category != Recoverable || ne.StatusCode != 0 {
		t.Fatalf("network error misclassified: %+v", ne)
	}
	de := NewDecodeError("profile summary", errors.New("unexpected end of JSON input"))
	if de.Category != Irrecoverable {
		t.Fatalf("decode error must not be retried: %+v", de)
	}
}
