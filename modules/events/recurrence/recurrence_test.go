package recurrence

import (
	"reflect"
	"testing"
	"time"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestBuildParseRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		opts *Options
		want string
	}{
		{
			name: "daily",
			opts: &Options{Frequency: FreqDaily, Interval: 1},
			want: "FREQ=DAILY;INTERVAL=1",
		},
		{
			name: "weekly with count",
			opts: &Options{Frequency: FreqWeekly, Interval: 1, Count: 3},
			want: "FREQ=WEEKLY;INTERVAL=1;COUNT=3",
		},
		{
			name: "biweekly",
			opts: &Options{Frequency: FreqWeekly, Interval: 2},
			want: "FREQ=WEEKLY;INTERVAL=2",
		},
		{
			name: "monthly until",
			opts: &Options{Frequency: FreqMonthly, Interval: 1, Until: date(2024, 12, 15, 0, 0)},
			want: "FREQ=MONTHLY;INTERVAL=1;UNTIL=20241215",
		},
		{
			name: "yearly",
			opts: &Options{Frequency: FreqYearly, Interval: 1},
			want: "FREQ=YEARLY;INTERVAL=1",
		},
		{
			name: "custom weekly",
			opts: &Options{Frequency: FreqCustomWeekly, Interval: 1, ByWeekday: []int{1, 3, 5}},
			want: "FREQ=WEEKLY;INTERVAL=1;BYDAY=MO,WE,FR",
		},
		{
			name: "custom weekly with count",
			opts: &Options{Frequency: FreqCustomWeekly, Interval: 2, ByWeekday: []int{0, 6}, Count: 10},
			want: "FREQ=WEEKLY;INTERVAL=2;BYDAY=SU,SA;COUNT=10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.opts)
			if got != tt.want {
				t.Fatalf("Build = %q, want %q", got, tt.want)
			}

			parsed, err := Parse(got)
			if err != nil {
				t.Fatalf("Parse(%q): %v", got, err)
			}
			if !reflect.DeepEqual(parsed, tt.opts) {
				t.Errorf("round trip mismatch: got %+v want %+v", parsed, tt.opts)
			}
		})
	}
}

func TestBuildNilRule(t *testing.T) {
	if got := Build(nil); got != "" {
		t.Errorf("Build(nil) = %q, want empty", got)
	}
	if got := Build(&Options{}); got != "" {
		t.Errorf("Build(no frequency) = %q, want empty", got)
	}
}

func TestBuildCountWinsOverUntil(t *testing.T) {
	got := Build(&Options{
		Frequency: FreqWeekly,
		Interval:  1,
		Count:     4,
		Until:     date(2025, 1, 1, 0, 0),
	})
	want := "FREQ=WEEKLY;INTERVAL=1;COUNT=4"
	if got != want {
		t.Errorf("Build = %q, want %q", got, want)
	}
}

func TestBuildDefaultsInterval(t *testing.T) {
	got := Build(&Options{Frequency: FreqDaily})
	if got != "FREQ=DAILY;INTERVAL=1" {
		t.Errorf("Build = %q, want interval defaulted to 1", got)
	}
	got = Build(&Options{Frequency: FreqDaily, Interval: -2})
	if got != "FREQ=DAILY;INTERVAL=1" {
		t.Errorf("Build = %q, want negative interval defaulted to 1", got)
	}
}

func TestBuildIgnoresWeekdaysForPlainFrequencies(t *testing.T) {
	got := Build(&Options{Frequency: FreqDaily, Interval: 1, ByWeekday: []int{1, 2}})
	if got != "FREQ=DAILY;INTERVAL=1" {
		t.Errorf("Build = %q, BYDAY must not appear for daily rules", got)
	}
}

func TestParseEmptyAndInvalid(t *testing.T) {
	opts, err := Parse("")
	if err != nil || opts != nil {
		t.Errorf("Parse(\"\") = %+v, %v; want nil, nil", opts, err)
	}

	invalid := []string{
		"INTERVAL=1",
		"FREQ=HOURLY;INTERVAL=1",
		"FREQ=WEEKLY;INTERVAL=x",
		"FREQ=WEEKLY;COUNT=0",
		"FREQ=WEEKLY;BYDAY=XX",
		"FREQ=WEEKLY;UNTIL=tomorrow",
		"FREQ=WEEKLY;NONSENSE=1",
		"garbage",
	}
	for _, s := range invalid {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", s)
		}
	}
}

func TestExpandNilRule(t *testing.T) {
	base := date(2024, 9, 2, 9, 0)
	end := date(2024, 9, 2, 10, 0)

	occ, err := Expand("ev1", base, end, nil, date(2024, 9, 1, 0, 0), date(2024, 9, 30, 0, 0))
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(occ) != 1 {
		t.Fatalf("got %d occurrences, want 1", len(occ))
	}
	if !occ[0].Start.Equal(base) || !occ[0].End.Equal(end) {
		t.Errorf("occurrence = %v..%v, want base span", occ[0].Start, occ[0].End)
	}

	// Outside the window: nothing.
	occ, err = Expand("ev1", base, end, nil, date(2024, 10, 1, 0, 0), date(2024, 10, 31, 0, 0))
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(occ) != 0 {
		t.Errorf("got %d occurrences outside window, want 0", len(occ))
	}
}

func TestExpandWeeklyCountOfThree(t *testing.T) {
	base := date(2024, 9, 2, 9, 0)
	end := date(2024, 9, 2, 10, 0)
	rule := &Options{Frequency: FreqWeekly, Interval: 1, Count: 3}

	occ, err := Expand("custom-42", base, end, rule, date(2024, 9, 1, 0, 0), date(2024, 12, 31, 0, 0))
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(occ) != 3 {
		t.Fatalf("got %d occurrences, want 3", len(occ))
	}

	wantStarts := []time.Time{
		date(2024, 9, 2, 9, 0),
		date(2024, 9, 9, 9, 0),
		date(2024, 9, 16, 9, 0),
	}
	for i, o := range occ {
		if !o.Start.Equal(wantStarts[i]) {
			t.Errorf("occurrence %d start = %v, want %v", i, o.Start, wantStarts[i])
		}
		if o.End.Sub(o.Start) != time.Hour {
			t.Errorf("occurrence %d duration = %v, want 1h", i, o.End.Sub(o.Start))
		}
	}
}

func TestExpandBiweeklySpacing(t *testing.T) {
	// Anchored at a Monday; every occurrence must land on a Monday, 14 days apart.
	base := date(2024, 9, 2, 10, 0)
	end := date(2024, 9, 2, 11, 0)
	rule := &Options{Frequency: FreqWeekly, Interval: 2}

	occ, err := Expand("s1", base, end, rule, date(2024, 9, 1, 0, 0), date(2024, 11, 1, 0, 0))
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(occ) < 3 {
		t.Fatalf("got %d occurrences, want several in a two-month window", len(occ))
	}
	for i, o := range occ {
		if o.Start.Weekday() != time.Monday {
			t.Errorf("occurrence %d on %v, want Monday", i, o.Start.Weekday())
		}
		if i > 0 {
			if gap := o.Start.Sub(occ[i-1].Start); gap != 14*24*time.Hour {
				t.Errorf("gap between occurrences = %v, want 336h", gap)
			}
		}
		if o.Start.After(date(2024, 11, 1, 0, 0)) {
			t.Errorf("occurrence %d at %v escaped the window", i, o.Start)
		}
	}
}

func TestExpandCustomWeekly(t *testing.T) {
	// Monday anchor, Tuesdays and Thursdays only.
	base := date(2024, 9, 2, 14, 0)
	end := date(2024, 9, 2, 15, 0)
	rule := &Options{Frequency: FreqCustomWeekly, Interval: 1, ByWeekday: []int{2, 4}}

	occ, err := Expand("s2", base, end, rule, date(2024, 9, 1, 0, 0), date(2024, 9, 14, 0, 0))
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}

	wantDays := []int{3, 5, 10, 12} // Sep 3, 5, 10, 12 are Tue/Thu
	if len(occ) != len(wantDays) {
		t.Fatalf("got %d occurrences, want %d", len(occ), len(wantDays))
	}
	for i, o := range occ {
		if o.Start.Day() != wantDays[i] {
			t.Errorf("occurrence %d on day %d, want %d", i, o.Start.Day(), wantDays[i])
		}
		wd := o.Start.Weekday()
		if wd != time.Tuesday && wd != time.Thursday {
			t.Errorf("occurrence %d on %v, want Tuesday or Thursday", i, wd)
		}
	}
}

func TestExpandUntilBoundary(t *testing.T) {
	base := date(2024, 9, 2, 9, 0)
	end := date(2024, 9, 2, 10, 0)
	rule := &Options{Frequency: FreqWeekly, Interval: 1, Until: date(2024, 9, 16, 0, 0)}

	occ, err := Expand("s3", base, end, rule, date(2024, 9, 1, 0, 0), date(2024, 12, 31, 0, 0))
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	// Sep 2, 9 and 16: an occurrence on the until date itself still counts.
	if len(occ) != 3 {
		t.Fatalf("got %d occurrences, want 3", len(occ))
	}
	if occ[2].Start.Day() != 16 {
		t.Errorf("last occurrence on day %d, want 16", occ[2].Start.Day())
	}
}

func TestExpandWindowClipping(t *testing.T) {
	base := date(2024, 9, 2, 9, 0)
	end := date(2024, 9, 2, 10, 0)
	rule := &Options{Frequency: FreqDaily, Interval: 1}

	occ, err := Expand("s4", base, end, rule, date(2024, 9, 10, 0, 0), date(2024, 9, 12, 23, 0))
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(occ) != 3 {
		t.Fatalf("got %d occurrences, want 3 (Sep 10-12)", len(occ))
	}
	if occ[0].Start.Day() != 10 || occ[2].Start.Day() != 12 {
		t.Errorf("occurrences span days %d..%d, want 10..12", occ[0].Start.Day(), occ[2].Start.Day())
	}
}

func TestExpandMidnightCrossing(t *testing.T) {
	// 23:00 to 01:00 reads as ending the next day.
	base := date(2024, 9, 2, 23, 0)
	end := date(2024, 9, 2, 1, 0)

	occ, err := Expand("s5", base, end, nil, date(2024, 9, 1, 0, 0), date(2024, 9, 30, 0, 0))
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(occ) != 1 {
		t.Fatalf("got %d occurrences, want 1", len(occ))
	}
	wantEnd := date(2024, 9, 3, 1, 0)
	if !occ[0].End.Equal(wantEnd) {
		t.Errorf("end = %v, want %v (next day)", occ[0].End, wantEnd)
	}
}

func TestExpandOccurrenceKeysAreStable(t *testing.T) {
	base := date(2024, 9, 2, 9, 0)
	end := date(2024, 9, 2, 10, 0)
	rule := &Options{Frequency: FreqWeekly, Interval: 1, Count: 2}

	first, err := Expand("series-9", base, end, rule, date(2024, 9, 1, 0, 0), date(2024, 12, 31, 0, 0))
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	second, _ := Expand("series-9", base, end, rule, date(2024, 9, 1, 0, 0), date(2024, 12, 31, 0, 0))

	for i := range first {
		if first[i].Key != second[i].Key {
			t.Errorf("key %d changed between expansions: %q vs %q", i, first[i].Key, second[i].Key)
		}
		want := OccurrenceKey("series-9", first[i].Start)
		if first[i].Key != want {
			t.Errorf("key %d = %q, want %q", i, first[i].Key, want)
		}
	}
	if first[0].Key == first[1].Key {
		t.Error("distinct occurrences share a key")
	}
}
