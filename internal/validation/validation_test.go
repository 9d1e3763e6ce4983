package validation

import (
	"testing"

	"github.com/peptalk/peptalk-cli/internal/constants"
	"github.com/peptalk/peptalk-cli/internal/models"
)

func TestValidTime(t *testing.T) {
	valid := []string{"00:00", "09:00", "12:30", "23:59"}
	for _, v := range valid {
		if !ValidTime(v) {
			t.Errorf("ValidTime(%q) = false, want true", v)
		}
	}

	invalid := []string{"", "9:00", "09:0", "24:00", "12:60", "ab:cd", "09-00", "09:00:00"}
	for _, v := range invalid {
		if ValidTime(v) {
			t.Errorf("ValidTime(%q) = true, want false", v)
		}
	}
}

func TestValidFrequency(t *testing.T) {
	for _, f := range []constants.NotificationFrequency{
		constants.FrequencyDaily,
		constants.FrequencyTwiceDaily,
		constants.FrequencyCustom,
	} {
		if !ValidFrequency(f) {
			t.Errorf("ValidFrequency(%q) = false, want true", f)
		}
	}
	if ValidFrequency("hourly") {
		t.Error("ValidFrequency(hourly) = true, want false")
	}
}

func TestValidateSettings(t *testing.T) {
	base := func() models.Settings {
		return models.Settings{
			NotificationFrequency: constants.FrequencyCustom,
			CustomTimes:           []string{"09:00", "12:00", "18:00"},
			NotificationsEnabled:  true,
		}
	}

	t.Run("valid settings pass", func(t *testing.T) {
		result := ValidateSettings(base())
		if result.HasConflicts() {
			t.Errorf("ValidateSettings() found conflicts: %s", result.FormatReport())
		}
	})

	t.Run("unknown frequency", func(t *testing.T) {
		s := base()
		s.NotificationFrequency = "hourly"
		result := ValidateSettings(s)
		if !hasConflict(result, ConflictInvalidFrequency) {
			t.Error("expected invalid_frequency conflict")
		}
	})

	t.Run("too many times", func(t *testing.T) {
		s := base()
		s.CustomTimes = []string{"06:00", "09:00", "12:00", "18:00"}
		result := ValidateSettings(s)
		if !hasConflict(result, ConflictTooManyTimes) {
			t.Error("expected too_many_times conflict")
		}
	})

	t.Run("malformed time", func(t *testing.T) {
		s := base()
		s.CustomTimes = []string{"9:00"}
		result := ValidateSettings(s)
		if !hasConflict(result, ConflictInvalidTimeFormat) {
			t.Error("expected invalid_time_format conflict")
		}
	})

	t.Run("duplicate time", func(t *testing.T) {
		s := base()
		s.CustomTimes = []string{"09:00", "09:00"}
		result := ValidateSettings(s)
		if !hasConflict(result, ConflictDuplicateTime) {
			t.Error("expected duplicate_time conflict")
		}
	})

	t.Run("unsorted times", func(t *testing.T) {
		s := base()
		s.CustomTimes = []string{"18:00", "09:00"}
		result := ValidateSettings(s)
		if !hasConflict(result, ConflictUnsortedTimes) {
			t.Error("expected unsorted_times conflict")
		}
	})

	t.Run("empty custom times allowed", func(t *testing.T) {
		s := base()
		s.CustomTimes = nil
		result := ValidateSettings(s)
		if result.HasConflicts() {
			t.Errorf("ValidateSettings() found conflicts: %s", result.FormatReport())
		}
	})
}

func hasConflict(r *Result, ct ConflictType) bool {
	for _, c := range r.Conflicts {
		if c.Type == ct {
			return true
		}
	}
	return false
}

func TestFormatReport(t *testing.T) {
	empty := &Result{}
	if empty.FormatReport() != "No conflicts detected." {
		t.Errorf("FormatReport() = %q", empty.FormatReport())
	}

	r := &Result{Conflicts: []Conflict{{Type: ConflictDuplicateTime, Description: "dup"}}}
	if r.FormatReport() == "" {
		t.Error("FormatReport() should describe conflicts")
	}
}
