package domain

import (
	"testing"
	"time"
)

func TestRecurrenceRuleAppliesOnWeekly(t *testing.T) {
	rule := RecurrenceRule{
		Frequency: FrequencyWeekly,
		Weekdays:  NewWeekdaySet(time.Monday, time.Thursday),
		Hour:      -1,
	}

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if !rule.AppliesOn(monday) {
		t.Fatalf("expected rule to apply on Monday")
	}
	if rule.AppliesOn(monday.AddDate(0, 0, 1)) {
		t.Fatalf("expected rule not to apply on Tuesday")
	}
	if !rule.AppliesOn(monday.AddDate(0, 0, 3)) {
		t.Fatalf("expected rule to apply on Thursday")
	}
}

func TestRecurrenceRuleAppliesOnDaily(t *testing.T) {
	rule := RecurrenceRule{Frequency: FrequencyDaily, Hour: -1}

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		if !rule.AppliesOn(day.AddDate(0, 0, i)) {
			t.Fatalf("expected daily rule to apply on %s", day.AddDate(0, 0, i).Weekday())
		}
	}
}

func TestRecurrenceRuleDeterministic(t *testing.T) {
	rule := RecurrenceRule{
		Frequency: FrequencyWeekly,
		Weekdays:  NewWeekdaySet(time.Tuesday),
		Hour:      -1,
	}

	date := time.Date(2026, 3, 3, 14, 30, 0, 0, time.UTC)
	first := rule.AppliesOn(date)
	for i := 0; i < 100; i++ {
		if rule.AppliesOn(date) != first {
			t.Fatalf("expected identical result on repeated evaluation")
		}
	}
}

func TestRecurrenceRuleMalformed(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	unknown := RecurrenceRule{Frequency: "fortnightly", Hour: -1}
	if unknown.AppliesOn(day) {
		t.Fatalf("expected unknown frequency to resolve to false")
	}

	empty := RecurrenceRule{Frequency: FrequencyWeekly, Hour: -1}
	if empty.AppliesOn(day) {
		t.Fatalf("expected weekly rule with no weekdays to resolve to false")
	}
}

func TestRecurrenceRuleUntil(t *testing.T) {
	until := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	rule := RecurrenceRule{Frequency: FrequencyDaily, Hour: -1, Until: &until}

	if !rule.AppliesOn(until) {
		t.Fatalf("expected rule to apply on the until date itself")
	}
	if rule.AppliesOn(until.AddDate(0, 0, 1)) {
		t.Fatalf("expected rule not to apply after the until date")
	}
}

func TestRecurrenceRuleTimeOfDay(t *testing.T) {
	withTime := RecurrenceRule{Frequency: FrequencyDaily, Hour: 9, Minute: 30}
	hour, minute, ok := withTime.TimeOfDay()
	if !ok || hour != 9 || minute != 30 {
		t.Fatalf("expected 09:30, got %02d:%02d ok=%v", hour, minute, ok)
	}

	without := RecurrenceRule{Frequency: FrequencyDaily, Hour: -1}
	if _, _, ok := without.TimeOfDay(); ok {
		t.Fatalf("expected no time of day for hour=-1")
	}
}

func TestWeekdaySetDays(t *testing.T) {
	s := NewWeekdaySet(time.Thursday, time.Sunday, time.Tuesday)
	days := s.Days()
	want := []time.Weekday{time.Sunday, time.Tuesday, time.Thursday}
	if len(days) != len(want) {
		t.Fatalf("expected %d days, got %d", len(want), len(days))
	}
	for i := range want {
		if days[i] != want[i] {
			t.Fatalf("expected day %d to be %s, got %s", i, want[i], days[i])
		}
	}
}
