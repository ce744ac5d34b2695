// Package recurrence expands a recurrence request into a bounded, ordered
// sequence of occurrence dates. It is pure date arithmetic: no persistence,
// no clocks.
package recurrence

import (
	"time"

	"mutualtasks-backend/internal/task/domain"
)

// System-wide bounds on generation. Daily and weekly series stop at whichever
// bound is reached first; custom series with a count end condition use that
// count as the authoritative bound instead.
const (
	MaxSpanDays    = 28
	MaxOccurrences = 30
)

// Frequency is the step unit of a custom cadence.
type Frequency string

const (
	FrequencyDays   Frequency = "days"
	FrequencyWeeks  Frequency = "weeks"
	FrequencyMonths Frequency = "months"
)

// EndType selects how a custom series terminates.
type EndType string

const (
	EndByDate  EndType = "date"
	EndByCount EndType = "count"
)

// CustomSpec describes a custom cadence: an explicit frequency/interval step
// and either a concrete end date or an occurrence count. Weekdays narrows a
// weekly cadence to matching days only.
type CustomSpec struct {
	Frequency Frequency      `json:"frequency"`
	Interval  int            `json:"interval"`
	EndType   EndType        `json:"end_type"`
	EndDate   time.Time      `json:"end_date,omitempty"`
	Count     int            `json:"count,omitempty"`
	Weekdays  []time.Weekday `json:"weekdays,omitempty"`
}

// Expand generates the occurrence dates for a pattern starting at start.
// All dates are normalized to the start of their calendar day. Degenerate
// input (non-positive interval, end date before start, unknown pattern)
// yields an empty sequence rather than an error or an unbounded loop,
// because callers do not guard against these inputs.
func Expand(start time.Time, pattern domain.RecurrencePattern, custom *CustomSpec) []time.Time {
	start = domain.StartOfDay(start)

	switch pattern {
	case domain.RecurrenceDaily:
		return fixedStep(start, 1)
	case domain.RecurrenceWeekly:
		return fixedStep(start, 7)
	case domain.RecurrenceCustom:
		if custom == nil {
			return nil
		}
		return expandCustom(start, *custom)
	}
	return nil
}

// fixedStep walks forward stepDays at a time until either the span cap or
// the occurrence cap is hit. The span bound is inclusive: a date landing
// exactly MaxSpanDays after start is still generated.
func fixedStep(start time.Time, stepDays int) []time.Time {
	limit := start.AddDate(0, 0, MaxSpanDays)
	var dates []time.Time
	for d := start; !d.After(limit) && len(dates) < MaxOccurrences; d = d.AddDate(0, 0, stepDays) {
		dates = append(dates, d)
	}
	return dates
}

func expandCustom(start time.Time, spec CustomSpec) []time.Time {
	if spec.Interval <= 0 {
		return nil
	}
	switch spec.Frequency {
	case FrequencyDays, FrequencyWeeks, FrequencyMonths:
	default:
		return nil
	}

	switch spec.EndType {
	case EndByCount:
		if spec.Count <= 0 {
			return nil
		}
	case EndByDate:
		if domain.StartOfDay(spec.EndDate).Before(start) {
			return nil
		}
	default:
		return nil
	}

	if spec.Frequency == FrequencyWeeks && len(spec.Weekdays) > 0 {
		// Weekday values come straight from the wire; anything outside
		// Sunday..Saturday can never match a generated day and would keep
		// the week walk running forever.
		spec.Weekdays = validWeekdays(spec.Weekdays)
		if len(spec.Weekdays) == 0 {
			return nil
		}
		return expandWeekdays(start, spec)
	}

	var dates []time.Time
	for d := start; withinEnd(d, spec); d = step(d, spec) {
		dates = append(dates, d)
		if spec.EndType == EndByCount && len(dates) == spec.Count {
			break
		}
		if len(dates) == maxFor(spec) {
			break
		}
	}
	return dates
}

// expandWeekdays handles a weekly custom cadence with a days-of-week
// selection: within each included week only matching weekdays count toward
// generated occurrences, and (interval-1) weeks are skipped between included
// weeks.
func expandWeekdays(start time.Time, spec CustomSpec) []time.Time {
	match := make(map[time.Weekday]bool, len(spec.Weekdays))
	for _, wd := range spec.Weekdays {
		match[wd] = true
	}

	var dates []time.Time
	weekStart := start
	for {
		for i := 0; i < 7; i++ {
			d := weekStart.AddDate(0, 0, i)
			if d.Before(start) || !match[d.Weekday()] {
				continue
			}
			if !withinEnd(d, spec) {
				return dates
			}
			dates = append(dates, d)
			if spec.EndType == EndByCount && len(dates) == spec.Count {
				return dates
			}
			if len(dates) == maxFor(spec) {
				return dates
			}
		}
		weekStart = weekStart.AddDate(0, 0, 7*spec.Interval)
		if !withinEnd(weekStart, spec) {
			return dates
		}
	}
}

func validWeekdays(days []time.Weekday) []time.Weekday {
	var out []time.Weekday
	for _, d := range days {
		if d >= time.Sunday && d <= time.Saturday {
			out = append(out, d)
		}
	}
	return out
}

func step(d time.Time, spec CustomSpec) time.Time {
	switch spec.Frequency {
	case FrequencyDays:
		return d.AddDate(0, 0, spec.Interval)
	case FrequencyWeeks:
		return d.AddDate(0, 0, 7*spec.Interval)
	default:
		return d.AddDate(0, spec.Interval, 0)
	}
}

func withinEnd(d time.Time, spec CustomSpec) bool {
	if spec.EndType == EndByDate {
		return !d.After(domain.StartOfDay(spec.EndDate))
	}
	return true
}

// maxFor returns the safety cap for a custom series: the explicit count when
// the end condition supplies one, the system cap otherwise.
func maxFor(spec CustomSpec) int {
	if spec.EndType == EndByCount {
		return spec.Count
	}
	return MaxOccurrences
}
