package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/peptalk/peptalk-cli/internal/constants"
	"github.com/peptalk/peptalk-cli/internal/utils"
)

// ErrInvalidTimeFormat is returned when a trigger time is not a valid
// HH:MM string. The time picker is the only expected producer of times,
// so this is a defensive check; silent bad math here would mean a
// missed or mistimed notification.
var ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:MM")

// Trigger is a resolved upcoming notification time.
type Trigger struct {
	Time     string // HH:MM
	Tomorrow bool   // true when every time today has already passed
}

// String renders the trigger the way the quote screen displays it,
// e.g. "12:00" or "09:00 (tomorrow)".
func (t Trigger) String() string {
	if t.Tomorrow {
		return t.Time + " (tomorrow)"
	}
	return t.Time
}

// Scheduler derives concrete daily trigger times from a frequency
// selection and computes the next trigger relative to now. Pure; safe
// to test exhaustively.
type Scheduler struct{}

func New() *Scheduler {
	return &Scheduler{}
}

// ResolveTimes maps a frequency to the trigger times it implies.
//
// daily and twice_daily fully determine the times. custom restores the
// saved selection verbatim when one exists, defaults to a single
// morning time when the current list is empty, and otherwise leaves
// the current list unchanged. Callers switching away from custom must
// snapshot the current list into saved beforehand so a later return to
// custom restores it exactly.
func (s *Scheduler) ResolveTimes(frequency constants.NotificationFrequency, current, saved []string) ([]string, error) {
	switch frequency {
	case constants.FrequencyDaily:
		return []string{constants.DailyTime}, nil
	case constants.FrequencyTwiceDaily:
		return []string{constants.TwiceDailyFirst, constants.TwiceDailySecond}, nil
	case constants.FrequencyCustom:
		if len(saved) > 0 {
			restored := make([]string, len(saved))
			copy(restored, saved)
			return restored, nil
		}
		if len(current) == 0 {
			return []string{constants.DefaultCustomTime}, nil
		}
		kept := make([]string, len(current))
		copy(kept, current)
		return kept, nil
	default:
		return nil, fmt.Errorf("unknown notification frequency %q", frequency)
	}
}

// NextTrigger returns the first time in times strictly after now's
// minute of day. When every time has passed, the earliest time is
// returned marked as tomorrow. Ties are impossible since comparison is
// strict. times need not be pre-sorted.
func (s *Scheduler) NextTrigger(times []string, now time.Time) (Trigger, error) {
	if len(times) == 0 {
		return Trigger{}, errors.New("no trigger times configured")
	}

	// Lexicographic sort equals numeric sort for zero-padded HH:MM.
	sorted := make([]string, len(times))
	copy(sorted, times)
	sort.Strings(sorted)

	currentMinute := utils.MinuteOfDay(now)
	for _, t := range sorted {
		minute, err := utils.ParseTimeToMinutes(t)
		if err != nil || len(t) != 5 {
			return Trigger{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, t)
		}
		if minute > currentMinute {
			return Trigger{Time: t}, nil
		}
	}

	// Validate the remaining entries too before rolling over; a
	// malformed first entry must not surface as a trigger.
	if !validAll(sorted) {
		return Trigger{}, fmt.Errorf("%w in %v", ErrInvalidTimeFormat, sorted)
	}
	return Trigger{Time: sorted[0], Tomorrow: true}, nil
}

// NextTriggerAt returns the wall-clock instant of the next trigger.
func (s *Scheduler) NextTriggerAt(times []string, now time.Time) (time.Time, error) {
	trigger, err := s.NextTrigger(times, now)
	if err != nil {
		return time.Time{}, err
	}
	minute, err := utils.ParseTimeToMinutes(trigger.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, trigger.Time)
	}
	day := now
	if trigger.Tomorrow {
		day = now.AddDate(0, 0, 1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), minute/60, minute%60, 0, 0, now.Location()), nil
}

func validAll(times []string) bool {
	for _, t := range times {
		if len(t) != 5 {
			return false
		}
		if _, err := utils.ParseTimeToMinutes(t); err != nil {
			return false
		}
	}
	return true
}
