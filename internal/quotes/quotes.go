package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/peptalk/peptalk-cli/internal/logger"
	"github.com/peptalk/peptalk-cli/internal/models"
)

const defaultBaseURL = "https://api.api-ninjas.com/v1/quotes?category=inspirational"

// fallbackQuotes are served when the quote API returns nothing usable.
var fallbackQuotes = []models.Quote{
	{Text: "Believe you can and you're halfway there.", Author: "Theodore Roosevelt"},
	{Text: "The only way to do great work is to love what you do.", Author: "Steve Jobs"},
	{Text: "Success is not final, failure is not fatal: it is the courage to continue that counts.", Author: "Winston Churchill"},
}

// offlineQuote is served when the API cannot be reached at all.
var offlineQuote = models.Quote{
	Text:   "Every day is a new beginning. Take a deep breath and start again.",
	Author: "Unknown",
}

type apiQuote struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
}

// Fetcher retrieves motivational quotes from the quote API. A fetch
// never fails: network or API trouble falls back to the built-in set
// so the user-visible action always produces a quote.
type Fetcher struct {
	baseURL string
	apiKey  string
	client  *http.Client
	nowFunc func() time.Time
}

func NewFetcher(apiKey string) *Fetcher {
	return &Fetcher{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		nowFunc: time.Now,
	}
}

// Fetch returns a fresh quote, falling back to the built-in set when
// the API is empty or unreachable.
func (f *Fetcher) Fetch(ctx context.Context) models.Quote {
	var fetched []apiQuote

	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("X-Api-Key", f.apiKey)

			resp, err := f.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("quote API returned HTTP %d", resp.StatusCode)
			}

			body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			if err != nil {
				return err
			}
			if err := json.Unmarshal(body, &fetched); err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to parse quote response: %w", err))
			}
			return nil
		},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.MaxDelay(5*time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			logger.Debug("Retrying quote fetch", "attempt", n, "error", err)
		}),
	)
	if err != nil {
		logger.Warn("Quote fetch failed, using offline fallback", "error", err)
		q := offlineQuote
		q.Timestamp = f.nowFunc().UnixMilli()
		return q
	}

	if len(fetched) == 0 {
		q := fallbackQuotes[rand.Intn(len(fallbackQuotes))]
		q.Timestamp = f.nowFunc().UnixMilli()
		return q
	}

	return models.Quote{
		Text:      fetched[0].Quote,
		Author:    fetched[0].Author,
		Timestamp: f.nowFunc().UnixMilli(),
	}
}
