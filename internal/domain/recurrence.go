package domain

import "time"

// Frequency determines how often a recurrence rule fires.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// WeekdaySet is an immutable set of weekdays, one bit per time.Weekday.
type WeekdaySet uint8

func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s |= 1 << uint(d)
	}
	return s
}

func (s WeekdaySet) Has(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

func (s WeekdaySet) IsEmpty() bool { return s == 0 }

// Days returns the members in Sunday-first order.
func (s WeekdaySet) Days() []time.Weekday {
	days := make([]time.Weekday, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

// RecurrenceRule describes when a recurring assignment fires:
// a frequency, the applicable weekdays (weekly only), and an optional
// time of day. Rules are constructed once at load time and evaluated
// per date on demand; nothing is ever expanded and persisted.
type RecurrenceRule struct {
	Frequency Frequency
	Weekdays  WeekdaySet // only consulted for weekly rules
	Hour      int        // -1 when the rule carries no time of day
	Minute    int
	Until     *time.Time // optional end condition, inclusive
}

// AppliesOn reports whether the rule fires on the given calendar date.
// It is a pure function of (rule, date). A malformed rule (unknown
// frequency, weekly with no weekdays) resolves to false rather than an
// error so that downstream route building stays total.
func (r RecurrenceRule) AppliesOn(date time.Time) bool {
	if r.Until != nil {
		limit := DayOf(*r.Until)
		if DayOf(date).After(limit) {
			return false
		}
	}

	switch r.Frequency {
	case FrequencyDaily:
		return true
	case FrequencyWeekly:
		if r.Weekdays.IsEmpty() {
			return false
		}
		return r.Weekdays.Has(date.Weekday())
	default:
		return false
	}
}

// TimeOfDay returns the rule's hour and minute, with ok=false when the
// rule carries no time of day.
func (r RecurrenceRule) TimeOfDay() (hour, minute int, ok bool) {
	if r.Hour < 0 || r.Hour > 23 || r.Minute < 0 || r.Minute > 59 {
		return 0, 0, false
	}
	return r.Hour, r.Minute, true
}

// DayOf truncates a timestamp to midnight in its own location.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DayOf(a).Equal(DayOf(b))
}
