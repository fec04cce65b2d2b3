package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// Frequency is the cadence of a recurrence rule. CustomWeekly is weekly
// repetition restricted to an explicit set of weekdays.
type Frequency string

const (
	FreqDaily        Frequency = "daily"
	FreqWeekly       Frequency = "weekly"
	FreqMonthly      Frequency = "monthly"
	FreqYearly       Frequency = "yearly"
	FreqCustomWeekly Frequency = "custom-weekly"
)

// Options describes a recurrence rule. A nil *Options means "does not
// repeat". Termination is at most one of Count or Until; when both are set,
// Count wins.
type Options struct {
	Frequency Frequency `json:"frequency"`
	// Interval is the cadence multiplier; values below 1 are treated as 1.
	Interval int `json:"interval"`
	// ByWeekday holds weekday indexes 0 (Sunday) .. 6 (Saturday). Only
	// meaningful for FreqCustomWeekly; ignored otherwise.
	ByWeekday []int `json:"by_weekday,omitempty"`
	// Count is the total number of occurrences; 0 means unset.
	Count int `json:"count,omitempty"`
	// Until is the last calendar date an occurrence may fall on; the zero
	// value means unset.
	Until time.Time `json:"until,omitempty"`
}

// Occurrence is one concrete instance expanded from a rule.
type Occurrence struct {
	// Key identifies this instance within its series, so edit/delete can
	// target "this occurrence", "this and future" or "all".
	Key      string
	SeriesID string
	Start    time.Time
	End      time.Time
}

var weekdayTokens = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

var freqTokens = map[Frequency]string{
	FreqDaily:        "DAILY",
	FreqWeekly:       "WEEKLY",
	FreqMonthly:      "MONTHLY",
	FreqYearly:       "YEARLY",
	FreqCustomWeekly: "WEEKLY",
}

const untilLayout = "20060102"

// Build serializes the rule to its single-string form, a restricted
// RFC-5545-style RRULE. It returns "" for a nil rule. CustomWeekly is
// stored as WEEKLY plus BYDAY; Parse maps that back, so Parse(Build(o))
// reproduces o for every valid rule.
func Build(o *Options) string {
	if o == nil || o.Frequency == "" {
		return ""
	}

	token, ok := freqTokens[o.Frequency]
	if !ok {
		return ""
	}

	interval := o.Interval
	if interval < 1 {
		interval = 1
	}

	parts := []string{
		"FREQ=" + token,
		"INTERVAL=" + strconv.Itoa(interval),
	}

	if o.Frequency == FreqCustomWeekly && len(o.ByWeekday) > 0 {
		days := normalizeWeekdays(o.ByWeekday)
		tokens := make([]string, len(days))
		for i, d := range days {
			tokens[i] = weekdayTokens[d]
		}
		parts = append(parts, "BYDAY="+strings.Join(tokens, ","))
	}

	// Count takes precedence when both terminations are present.
	if o.Count > 0 {
		parts = append(parts, "COUNT="+strconv.Itoa(o.Count))
	} else if !o.Until.IsZero() {
		parts = append(parts, "UNTIL="+o.Until.Format(untilLayout))
	}

	return strings.Join(parts, ";")
}

// Parse is the structural inverse of Build. "" yields a nil rule.
func Parse(rule string) (*Options, error) {
	if rule == "" {
		return nil, nil
	}

	o := &Options{Interval: 1}
	var freqToken string

	for _, part := range strings.Split(rule, ";") {
		key, value, found := strings.Cut(part, "=")
		if !found || value == "" {
			return nil, fmt.Errorf("recurrence: malformed segment %q", part)
		}

		switch key {
		case "FREQ":
			freqToken = value
		case "INTERVAL":
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("recurrence: invalid INTERVAL %q", value)
			}
			if n < 1 {
				n = 1
			}
			o.Interval = n
		case "BYDAY":
			for _, tok := range strings.Split(value, ",") {
				day, err := weekdayIndex(tok)
				if err != nil {
					return nil, err
				}
				o.ByWeekday = append(o.ByWeekday, day)
			}
			o.ByWeekday = normalizeWeekdays(o.ByWeekday)
		case "COUNT":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("recurrence: invalid COUNT %q", value)
			}
			o.Count = n
		case "UNTIL":
			t, err := time.Parse(untilLayout, value)
			if err != nil {
				return nil, fmt.Errorf("recurrence: invalid UNTIL %q", value)
			}
			o.Until = t
		default:
			return nil, fmt.Errorf("recurrence: unsupported key %q", key)
		}
	}

	switch freqToken {
	case "DAILY":
		o.Frequency = FreqDaily
	case "WEEKLY":
		if len(o.ByWeekday) > 0 {
			o.Frequency = FreqCustomWeekly
		} else {
			o.Frequency = FreqWeekly
		}
	case "MONTHLY":
		o.Frequency = FreqMonthly
	case "YEARLY":
		o.Frequency = FreqYearly
	case "":
		return nil, fmt.Errorf("recurrence: missing FREQ")
	default:
		return nil, fmt.Errorf("recurrence: unsupported FREQ %q", freqToken)
	}

	if o.Frequency != FreqCustomWeekly {
		o.ByWeekday = nil
	}

	return o, nil
}

// OccurrenceKey derives the stable identity of one instance from its series
// id and start time.
func OccurrenceKey(seriesID string, start time.Time) string {
	return seriesID + ":" + start.UTC().Format(time.RFC3339)
}

// Expand generates the concrete occurrences of a base span under the given
// rule, clipped to [windowStart, windowEnd]. A nil rule yields the base span
// alone when it intersects the window. An end at or before the start is read
// as crossing midnight into the next day. Occurrences stop at whichever of
// Count, Until or windowEnd comes first; spans ending before windowStart are
// dropped.
func Expand(seriesID string, baseStart, baseEnd time.Time, o *Options, windowStart, windowEnd time.Time) ([]Occurrence, error) {
	if windowEnd.Before(windowStart) {
		return nil, fmt.Errorf("recurrence: window end before window start")
	}

	if !baseEnd.After(baseStart) {
		baseEnd = baseEnd.Add(24 * time.Hour)
	}
	duration := baseEnd.Sub(baseStart)

	if o == nil || o.Frequency == "" {
		if spanOverlaps(baseStart, baseEnd, windowStart, windowEnd) {
			return []Occurrence{{
				Key:      OccurrenceKey(seriesID, baseStart),
				SeriesID: seriesID,
				Start:    baseStart,
				End:      baseEnd,
			}}, nil
		}
		return nil, nil
	}

	ropt := rrule.ROption{
		Dtstart:  baseStart,
		Interval: o.Interval,
	}
	if ropt.Interval < 1 {
		ropt.Interval = 1
	}

	switch o.Frequency {
	case FreqDaily:
		ropt.Freq = rrule.DAILY
	case FreqWeekly, FreqCustomWeekly:
		ropt.Freq = rrule.WEEKLY
	case FreqMonthly:
		ropt.Freq = rrule.MONTHLY
	case FreqYearly:
		ropt.Freq = rrule.YEARLY
	default:
		return nil, fmt.Errorf("recurrence: unsupported frequency %q", o.Frequency)
	}

	if o.Frequency == FreqCustomWeekly {
		for _, d := range normalizeWeekdays(o.ByWeekday) {
			ropt.Byweekday = append(ropt.Byweekday, rruleWeekdays[d])
		}
	}

	if o.Count > 0 {
		ropt.Count = o.Count
	} else if !o.Until.IsZero() {
		// Until is a date; occurrences on that day still count.
		u := o.Until
		ropt.Until = time.Date(u.Year(), u.Month(), u.Day(), 23, 59, 59, 0, baseStart.Location())
	}

	r, err := rrule.NewRRule(ropt)
	if err != nil {
		return nil, fmt.Errorf("recurrence: %w", err)
	}

	// Search from windowStart minus the span duration so instances that
	// started earlier but still reach into the window are found.
	starts := r.Between(windowStart.Add(-duration), windowEnd, true)

	occurrences := make([]Occurrence, 0, len(starts))
	for _, start := range starts {
		end := start.Add(duration)
		if end.Before(windowStart) {
			continue
		}
		occurrences = append(occurrences, Occurrence{
			Key:      OccurrenceKey(seriesID, start),
			SeriesID: seriesID,
			Start:    start,
			End:      end,
		})
	}

	return occurrences, nil
}

// spanOverlaps reports whether [start, end] intersects [windowStart,
// windowEnd], boundaries included.
func spanOverlaps(start, end, windowStart, windowEnd time.Time) bool {
	return !end.Before(windowStart) && !start.After(windowEnd)
}

var rruleWeekdays = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

func weekdayIndex(token string) (int, error) {
	for i, t := range weekdayTokens {
		if t == token {
			return i, nil
		}
	}
	return 0, fmt.Errorf("recurrence: invalid BYDAY token %q", token)
}

// normalizeWeekdays sorts, deduplicates and drops out-of-range entries.
func normalizeWeekdays(days []int) []int {
	seen := [7]bool{}
	for _, d := range days {
		if d >= 0 && d <= 6 {
			seen[d] = true
		}
	}
	var out []int
	for d := 0; d < 7; d++ {
		if seen[d] {
			out = append(out, d)
		}
	}
	return out
}
