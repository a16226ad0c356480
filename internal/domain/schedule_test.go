package domain

import (
	"testing"
	"time"
)

func TestClockToMinutes(t *testing.T) {
	cases := []struct {
		clock   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"0930", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		got, err := ClockToMinutes(tc.clock)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ClockToMinutes(%q): ожидалась ошибка", tc.clock)
			}
			continue
		}
		if err != nil {
			t.Errorf("ClockToMinutes(%q): %v", tc.clock, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ClockToMinutes(%q) = %d, ожидалось %d", tc.clock, got, tc.want)
		}
	}
}

func TestMinutesToClockRoundTrip(t *testing.T) {
	for _, clock := range []string{"00:00", "08:05", "12:00", "23:59"} {
		minutes, err := ClockToMinutes(clock)
		if err != nil {
			t.Fatalf("ClockToMinutes(%q): %v", clock, err)
		}
		if got := MinutesToClock(minutes); got != clock {
			t.Errorf("MinutesToClock(%d) = %q, ожидалось %q", minutes, got, clock)
		}
	}
}

func TestIntervalOverlaps(t *testing.T) {
	base := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	hours := func(from, to int) Interval {
		return Interval{Start: base.Add(time.Duration(from) * time.Hour), End: base.Add(time.Duration(to) * time.Hour)}
	}

	cases := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"частичное пересечение", hours(0, 2), hours(1, 3), true},
		{"вложенный интервал", hours(0, 4), hours(1, 2), true},
		{"совпадающие интервалы", hours(0, 2), hours(0, 2), true},
		{"смежные не пересекаются", hours(0, 2), hours(2, 4), false},
		{"раздельные интервалы", hours(0, 1), hours(3, 4), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Errorf("Overlaps = %v, ожидалось %v", got, tc.want)
			}
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Errorf("Overlaps должно быть симметричным, получено %v", got)
			}
		})
	}
}
