package medication

import (
	"fmt"
	"regexp"
	"strconv"
)

// Bounds for the user-declared doses-per-day count.
const (
	MinDosesPerDay = 1
	MaxDosesPerDay = 10
)

// Period is the coarse time-of-day bucket used for read-only display of
// schedule rows.
type Period string

const (
	Morning   Period = "Morning"
	Afternoon Period = "Afternoon"
	Evening   Period = "Evening"
	Night     Period = "Night"
)

// Accepted clock shapes: H:MM, HH:MM and HH:MM:SS. Seconds are ignored by
// classification and display.
var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

// parseClock validates a clock-time string and returns its components.
// hasSeconds reports whether a seconds field was present.
func parseClock(clock string) (hour, minute int, hasSeconds bool, ok bool) {
	m := clockPattern.FindStringSubmatch(clock)
	if m == nil {
		return 0, 0, false, false
	}

	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, 0, false, false
	}

	if m[3] != "" {
		seconds, _ := strconv.Atoi(m[3])
		if seconds > 59 {
			return 0, 0, false, false
		}
		hasSeconds = true
	}

	return hour, minute, hasSeconds, true
}

// ValidClock reports whether clock matches one of the accepted shapes.
func ValidClock(clock string) bool {
	_, _, _, ok := parseClock(clock)
	return ok
}

// PeriodFor classifies a clock time into a period of day. The intervals are
// half-open on the hour: Morning [5,12), Afternoon [12,17), Evening [17,19),
// Night everything else. Returns false for unparseable input.
func PeriodFor(clock string) (Period, bool) {
	hour, _, _, ok := parseClock(clock)
	if !ok {
		return "", false
	}

	switch {
	case hour >= 5 && hour < 12:
		return Morning, true
	case hour >= 12 && hour < 17:
		return Afternoon, true
	case hour >= 17 && hour < 19:
		return Evening, true
	default:
		return Night, true
	}
}

// FormatClock renders a clock time for display: hour without leading zero,
// minute zero-padded, seconds dropped. Unparseable input is returned
// unchanged so that unexpected values stay visible instead of vanishing.
func FormatClock(clock string) string {
	hour, minute, _, ok := parseClock(clock)
	if !ok {
		return clock
	}
	return fmt.Sprintf("%d:%02d", hour, minute)
}

// NormalizeSlot converts an accepted clock time to the HH:MM:SS form the
// record store expects. Times that already carry seconds are left untouched.
// Returns false for unparseable input.
func NormalizeSlot(clock string) (string, bool) {
	hour, minute, hasSeconds, ok := parseClock(clock)
	if !ok {
		return "", false
	}
	if hasSeconds && len(clock) == 8 {
		return clock, true
	}

	seconds := 0
	if hasSeconds {
		// Single-digit hour with seconds: re-render to pad the hour.
		m := clockPattern.FindStringSubmatch(clock)
		seconds, _ = strconv.Atoi(m[3])
	}
	return fmt.Sprintf("%02d:%02d:%02d", hour, minute, seconds), true
}

// BuildSlots derives the editable time-slot list for a requested doses-per-day
// count. A count outside [MinDosesPerDay, MaxDosesPerDay] yields an empty
// list, which the caller treats as "no schedule yet" rather than an error.
// Previously entered slots are preserved by index when the count changes, so
// growing or shrinking the count never discards a still-visible entry.
func BuildSlots(amountPerDay int, previous []string) []string {
	if amountPerDay < MinDosesPerDay || amountPerDay > MaxDosesPerDay {
		return []string{}
	}

	slots := make([]string, amountPerDay)
	for i := range slots {
		if i < len(previous) {
			slots[i] = previous[i]
		}
	}
	return slots
}
