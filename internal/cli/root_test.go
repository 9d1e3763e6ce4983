package cli

import (
	"reflect"
	"testing"

	"github.com/peptalk/peptalk-cli/internal/models"
)

func TestInsertTimeSorted(t *testing.T) {
	t.Run("keeps order", func(t *testing.T) {
		got := InsertTimeSorted([]string{"09:00", "18:00"}, "12:00")
		if !reflect.DeepEqual(got, []string{"09:00", "12:00", "18:00"}) {
			t.Errorf("InsertTimeSorted() = %v", got)
		}
	})

	t.Run("ignores duplicates", func(t *testing.T) {
		got := InsertTimeSorted([]string{"09:00"}, "09:00")
		if !reflect.DeepEqual(got, []string{"09:00"}) {
			t.Errorf("InsertTimeSorted(dup) = %v", got)
		}
	})

	t.Run("into empty list", func(t *testing.T) {
		got := InsertTimeSorted(nil, "09:00")
		if !reflect.DeepEqual(got, []string{"09:00"}) {
			t.Errorf("InsertTimeSorted(nil) = %v", got)
		}
	})

	t.Run("does not mutate input", func(t *testing.T) {
		in := []string{"09:00", "18:00"}
		_ = InsertTimeSorted(in, "12:00")
		if !reflect.DeepEqual(in, []string{"09:00", "18:00"}) {
			t.Errorf("input mutated: %v", in)
		}
	})
}

func TestRemoveTime(t *testing.T) {
	got := RemoveTime([]string{"09:00", "12:00", "18:00"}, "12:00")
	if !reflect.DeepEqual(got, []string{"09:00", "18:00"}) {
		t.Errorf("RemoveTime() = %v", got)
	}

	got = RemoveTime([]string{"09:00"}, "23:00")
	if !reflect.DeepEqual(got, []string{"09:00"}) {
		t.Errorf("RemoveTime(missing) = %v", got)
	}
}

func TestFormatQuote(t *testing.T) {
	out := FormatQuote(models.Quote{Text: "Keep going.", Author: "Anonymous"})
	if out == "" || out == "Keep going." {
		t.Errorf("FormatQuote() = %q, want quote with author attribution", out)
	}
}
