package quotes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/peptalk/peptalk-cli/internal/cli"
	"github.com/peptalk/peptalk-cli/internal/storage"
)

// QuoteCmd shows the current quote, fetching an initial one when the
// slot is empty.
type QuoteCmd struct{}

func (c *QuoteCmd) Run(ctx *cli.Context) error {
	quote, err := ctx.Store.GetCurrentQuote()
	if errors.Is(err, storage.ErrNoQuote) {
		return fetchAndShow(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to load current quote: %w", err)
	}

	fmt.Println(cli.FormatQuote(quote))
	return nil
}

// QuoteNewCmd fetches a fresh quote, makes it current and records it
// in the history.
type QuoteNewCmd struct{}

func (c *QuoteNewCmd) Run(ctx *cli.Context) error {
	return fetchAndShow(ctx)
}

func fetchAndShow(ctx *cli.Context) error {
	fetchCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	quote := ctx.Fetcher.Fetch(fetchCtx)

	if err := ctx.Store.SetCurrentQuote(quote); err != nil {
		return fmt.Errorf("failed to save quote: %w", err)
	}
	if err := ctx.Store.AddQuoteToHistory(quote); err != nil {
		return fmt.Errorf("failed to record quote history: %w", err)
	}

	fmt.Println(cli.FormatQuote(quote))
	return nil
}

// QuoteHistoryCmd lists recent quotes, newest first.
type QuoteHistoryCmd struct {
	Limit int `help:"Maximum quotes to show." default:"10"`
}

func (c *QuoteHistoryCmd) Run(ctx *cli.Context) error {
	history, err := ctx.Store.GetQuoteHistory(c.Limit)
	if err != nil {
		return fmt.Errorf("failed to load quote history: %w", err)
	}
	if len(history) == 0 {
		fmt.Println("No quotes yet. Run 'peptalk quote new' to fetch one.")
		return nil
	}

	for _, q := range history {
		when := time.UnixMilli(q.Timestamp).Format("2006-01-02 15:04")
		fmt.Printf("[%s] %q — %s\n", when, q.Text, q.Author)
	}
	return nil
}
