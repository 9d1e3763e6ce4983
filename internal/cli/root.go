package cli

import (
	"fmt"
	"sort"

	"github.com/peptalk/peptalk-cli/internal/models"
	"github.com/peptalk/peptalk-cli/internal/notifier"
	"github.com/peptalk/peptalk-cli/internal/quotes"
	"github.com/peptalk/peptalk-cli/internal/scheduler"
	"github.com/peptalk/peptalk-cli/internal/storage"
)

// Context carries the shared dependencies every command runs against.
type Context struct {
	Store     storage.Provider
	Scheduler *scheduler.Scheduler
	Fetcher   *quotes.Fetcher
	Notifier  *notifier.Notifier
	RelayURL  string
}

// FormatQuote renders a quote the way the quote screen shows it.
func FormatQuote(q models.Quote) string {
	return fmt.Sprintf("%q\n    — %s", q.Text, q.Author)
}

// InsertTimeSorted adds a time to a sorted list, ignoring duplicates.
func InsertTimeSorted(times []string, t string) []string {
	for _, existing := range times {
		if existing == t {
			return times
		}
	}
	out := append(append([]string{}, times...), t)
	sort.Strings(out)
	return out
}

// RemoveTime removes a time from a list, preserving order.
func RemoveTime(times []string, t string) []string {
	out := make([]string, 0, len(times))
	for _, existing := range times {
		if existing != t {
			out = append(out, existing)
		}
	}
	return out
}
