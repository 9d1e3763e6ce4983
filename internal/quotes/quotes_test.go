package quotes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestFetcher(url string) *Fetcher {
	f := NewFetcher("test-key")
	f.baseURL = url
	f.nowFunc = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

func TestFetchReturnsAPIQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Api-Key"); got != "test-key" {
			t.Errorf("X-Api-Key = %q, want test-key", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"quote":"Stay curious.","author":"Jane Doe","category":"inspirational"}]`))
	}))
	defer srv.Close()

	quote := newTestFetcher(srv.URL).Fetch(context.Background())

	if quote.Text != "Stay curious." {
		t.Errorf("Text = %q, want Stay curious.", quote.Text)
	}
	if quote.Author != "Jane Doe" {
		t.Errorf("Author = %q, want Jane Doe", quote.Author)
	}
	if quote.Timestamp == 0 {
		t.Error("Timestamp not set")
	}
}

func TestFetchEmptyResponseUsesFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	quote := newTestFetcher(srv.URL).Fetch(context.Background())

	found := false
	for _, fb := range fallbackQuotes {
		if quote.Text == fb.Text && quote.Author == fb.Author {
			found = true
		}
	}
	if !found {
		t.Errorf("Fetch() with empty response = %+v, want one of the fallback quotes", quote)
	}
}

func TestFetchServerErrorRetriesThenGoesOffline(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	quote := newTestFetcher(srv.URL).Fetch(context.Background())

	if got := calls.Load(); got != 3 {
		t.Errorf("API called %d times, want 3 attempts", got)
	}
	if quote.Text != offlineQuote.Text || quote.Author != offlineQuote.Author {
		t.Errorf("Fetch() after failures = %+v, want the offline quote", quote)
	}
}

func TestFetchUnparseableResponseDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	quote := newTestFetcher(srv.URL).Fetch(context.Background())

	if got := calls.Load(); got != 1 {
		t.Errorf("API called %d times, want 1 (parse errors are unrecoverable)", got)
	}
	if quote.Text != offlineQuote.Text {
		t.Errorf("Fetch() = %+v, want the offline quote", quote)
	}
}

func TestFetchUnreachableHostGoesOffline(t *testing.T) {
	f := newTestFetcher("http://127.0.0.1:1/quotes")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	quote := f.Fetch(ctx)
	if quote.Text != offlineQuote.Text {
		t.Errorf("Fetch() = %+v, want the offline quote", quote)
	}
}
