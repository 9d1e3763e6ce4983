package validation

import (
	"fmt"
	"sort"

	"github.com/peptalk/peptalk-cli/internal/constants"
	"github.com/peptalk/peptalk-cli/internal/models"
	"github.com/peptalk/peptalk-cli/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidFrequency  ConflictType = "invalid_frequency"
	ConflictInvalidTimeFormat ConflictType = "invalid_time_format"
	ConflictTooManyTimes      ConflictType = "too_many_times"
	ConflictDuplicateTime     ConflictType = "duplicate_time"
	ConflictUnsortedTimes     ConflictType = "unsorted_times"
)

// Conflict represents a detected problem in a settings record
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // offending values, if applicable
}

// Result contains all detected conflicts
type Result struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (r *Result) FormatReport() string {
	if !r.HasConflicts() {
		return "No conflicts detected."
	}
	report := "Conflicts detected:\n"
	for _, c := range r.Conflicts {
		report += fmt.Sprintf("- %s\n", c.Description)
	}
	return report
}

// ValidTime reports whether timeStr is a well-formed, zero-padded
// 24-hour HH:MM string. Zero padding matters: trigger ordering relies
// on lexicographic sort being equivalent to numeric sort.
func ValidTime(timeStr string) bool {
	if len(timeStr) != 5 || timeStr[2] != ':' {
		return false
	}
	return utils.ValidateTimeFormat(timeStr)
}

// ValidFrequency reports whether f is one of the known frequencies.
func ValidFrequency(f constants.NotificationFrequency) bool {
	switch f {
	case constants.FrequencyDaily, constants.FrequencyTwiceDaily, constants.FrequencyCustom:
		return true
	}
	return false
}

// ValidateSettings checks a settings record against its invariants:
// known frequency, at most MaxCustomTimes well-formed custom times,
// no duplicates, ascending order.
func ValidateSettings(settings models.Settings) *Result {
	result := &Result{}

	if !ValidFrequency(settings.NotificationFrequency) {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidFrequency,
			Description: fmt.Sprintf("unknown notification frequency %q", settings.NotificationFrequency),
		})
	}

	if len(settings.CustomTimes) > constants.MaxCustomTimes {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictTooManyTimes,
			Description: fmt.Sprintf("%d custom times configured, maximum is %d", len(settings.CustomTimes), constants.MaxCustomTimes),
			Items:       settings.CustomTimes,
		})
	}

	seen := make(map[string]bool)
	for _, t := range settings.CustomTimes {
		if !ValidTime(t) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidTimeFormat,
				Description: fmt.Sprintf("custom time %q is not a valid HH:MM time", t),
				Items:       []string{t},
			})
		}
		if seen[t] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateTime,
				Description: fmt.Sprintf("custom time %q appears more than once", t),
				Items:       []string{t},
			})
		}
		seen[t] = true
	}

	if !sort.StringsAreSorted(settings.CustomTimes) {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictUnsortedTimes,
			Description: "custom times are not in ascending order",
			Items:       settings.CustomTimes,
		})
	}

	return result
}
