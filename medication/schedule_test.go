package medication

import (
	"reflect"
	"testing"
)

func TestPeriodForBoundaries(t *testing.T) {
	testCases := []struct {
		clock string
		want  Period
	}{
		{"00:00", Night},
		{"04:59", Night},
		{"05:00", Morning},
		{"11:59", Morning},
		{"12:00", Afternoon},
		{"16:59", Afternoon},
		{"17:00", Evening},
		{"18:59", Evening},
		{"19:00", Night},
		{"23:59", Night},
		{"8:30", Morning},      // single-digit hour
		{"08:30:15", Morning},  // seconds are ignored
	}

	for _, tc := range testCases {
		got, ok := PeriodFor(tc.clock)
		if !ok {
			t.Errorf("PeriodFor(%q) was unparseable, expected %s", tc.clock, tc.want)
			continue
		}
		if got != tc.want {
			t.Errorf("PeriodFor(%q) = %s, expected %s", tc.clock, got, tc.want)
		}
	}
}

func TestPeriodForUnparseable(t *testing.T) {
	clocks := []string{"", "abc", "24:00", "12:60", "12:00:60", "12", "12:0", "1200", "12:00:00:00"}

	for _, clock := range clocks {
		if period, ok := PeriodFor(clock); ok {
			t.Errorf("PeriodFor(%q) = %s, expected unparseable", clock, period)
		}
	}
}

func TestFormatClock(t *testing.T) {
	testCases := []struct {
		clock string
		want  string
	}{
		{"09:05:00", "9:05"},
		{"23:45", "23:45"},
		{"8:05", "8:05"},
		{"00:00", "0:00"},
		{"abc", "abc"},   // unparseable input comes back unchanged
		{"25:00", "25:00"},
	}

	for _, tc := range testCases {
		if got := FormatClock(tc.clock); got != tc.want {
			t.Errorf("FormatClock(%q) = %q, expected %q", tc.clock, got, tc.want)
		}
	}
}

func TestNormalizeSlot(t *testing.T) {
	testCases := []struct {
		clock string
		want  string
	}{
		{"08:00", "08:00:00"},
		{"8:00", "08:00:00"},
		{"08:00:00", "08:00:00"},
		{"9:05:30", "09:05:30"},
		{"23:59:59", "23:59:59"},
	}

	for _, tc := range testCases {
		got, ok := NormalizeSlot(tc.clock)
		if !ok {
			t.Errorf("NormalizeSlot(%q) failed, expected %q", tc.clock, tc.want)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeSlot(%q) = %q, expected %q", tc.clock, got, tc.want)
		}
	}

	if _, ok := NormalizeSlot("24:00"); ok {
		t.Error("Expected 24:00 to be rejected")
	}
}

func TestBuildSlots(t *testing.T) {
	previous := []string{"08:00", "", "20:00"}

	if got := BuildSlots(3, previous); !reflect.DeepEqual(got, []string{"08:00", "", "20:00"}) {
		t.Errorf("BuildSlots(3) = %v", got)
	}
	// Shrinking keeps the earlier entries.
	if got := BuildSlots(2, previous); !reflect.DeepEqual(got, []string{"08:00", ""}) {
		t.Errorf("BuildSlots(2) = %v", got)
	}
	// Growing pads with empty placeholders.
	if got := BuildSlots(5, previous); !reflect.DeepEqual(got, []string{"08:00", "", "20:00", "", ""}) {
		t.Errorf("BuildSlots(5) = %v", got)
	}
	if got := BuildSlots(0, previous); len(got) != 0 {
		t.Errorf("BuildSlots(0) = %v, expected empty", got)
	}
	if got := BuildSlots(11, previous); len(got) != 0 {
		t.Errorf("BuildSlots(11) = %v, expected empty", got)
	}
	if got := BuildSlots(-1, nil); len(got) != 0 {
		t.Errorf("BuildSlots(-1) = %v, expected empty", got)
	}
}

func TestBuildSlotsIdempotent(t *testing.T) {
	first := BuildSlots(4, []string{"08:00", "12:30"})
	second := BuildSlots(4, first)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical sequence on re-run, got %v then %v", first, second)
	}
}
