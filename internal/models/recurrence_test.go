package models

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestIsScheduled_DailyAlwaysTrue(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 366; i++ {
		d := start.AddDate(0, 0, i)
		if !IsScheduled(Daily{}, d) {
			t.Fatalf("IsScheduled(Daily, %s) = false, want true", d.Format("2006-01-02"))
		}
	}
}

func TestIsScheduled_WeekdaysAndWeekends(t *testing.T) {
	for _, year := range []int{2023, 2024, 2026} {
		start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 365; i++ {
			d := start.AddDate(0, 0, i)
			weekend := d.Weekday() == time.Saturday || d.Weekday() == time.Sunday

			if got := IsScheduled(Weekdays{}, d); got == weekend {
				t.Fatalf("IsScheduled(Weekdays, %s %s) = %v", d.Format("2006-01-02"), d.Weekday(), got)
			}
			if got := IsScheduled(Weekends{}, d); got != weekend {
				t.Fatalf("IsScheduled(Weekends, %s %s) = %v", d.Format("2006-01-02"), d.Weekday(), got)
			}
		}
	}
}

func TestIsScheduled_CustomMonWedFriOverMonth(t *testing.T) {
	rule := DecodeRecurrence(RecurrenceCustom, strPtr("[1,3,5]"))
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	scheduled := 0
	for d := start; d.Month() == time.March; d = d.AddDate(0, 0, 1) {
		want := d.Weekday() == time.Monday || d.Weekday() == time.Wednesday || d.Weekday() == time.Friday
		if got := IsScheduled(rule, d); got != want {
			t.Errorf("IsScheduled(%s %s) = %v, want %v", d.Format("2006-01-02"), d.Weekday(), got, want)
		}
		if want {
			scheduled++
		}
	}
	// March 2026 has 5 Mondays, 4 Wednesdays and 4 Fridays.
	if scheduled != 13 {
		t.Errorf("scheduled days = %d, want 13", scheduled)
	}
}

func TestDecodeRecurrence_MalformedCustomDaysNeverScheduled(t *testing.T) {
	tests := []struct {
		name string
		raw  *string
	}{
		{name: "nil", raw: nil},
		{name: "empty", raw: strPtr("")},
		{name: "not json", raw: strPtr("mon,wed")},
		{name: "wrong shape", raw: strPtr(`{"days":[1]}`)},
		{name: "empty array", raw: strPtr("[]")},
		{name: "out of range only", raw: strPtr("[7,9,-1]")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := DecodeRecurrence(RecurrenceCustom, tt.raw)
			for i := 0; i < 7; i++ {
				d := time.Date(2026, 10, 11+i, 0, 0, 0, 0, time.UTC)
				if IsScheduled(rule, d) {
					t.Errorf("IsScheduled(%s) = true, want false", d.Weekday())
				}
			}
		})
	}
}

func TestIsScheduled_NilRule(t *testing.T) {
	if IsScheduled(nil, time.Now()) {
		t.Error("IsScheduled(nil) = true, want false")
	}
}

func TestEncodeCustomDays_RoundTrip(t *testing.T) {
	rule := NewRecurrence(RecurrenceCustom, []int{5, 1, 3, 3, 8})

	encoded := EncodeCustomDays(rule)
	if encoded == nil || *encoded != "[1,3,5]" {
		t.Fatalf("EncodeCustomDays() = %v, want [1,3,5]", encoded)
	}
	decoded := DecodeRecurrence(RecurrenceCustom, encoded)
	if got := WeekdayInts(decoded); len(got) != 3 || got[0] != 1 || got[2] != 5 {
		t.Errorf("WeekdayInts(decoded) = %v, want [1 3 5]", got)
	}

	if EncodeCustomDays(Daily{}) != nil {
		t.Error("EncodeCustomDays(Daily) should be nil")
	}
	if EncodeCustomDays(CustomDays{}) != nil {
		t.Error("EncodeCustomDays(empty custom) should be nil")
	}
}

func TestScheduleDisplay(t *testing.T) {
	tests := []struct {
		rule Recurrence
		want string
	}{
		{Daily{}, "Every day"},
		{Weekdays{}, "Weekdays (Mon-Fri)"},
		{Weekends{}, "Weekends (Sat-Sun)"},
		{NewRecurrence(RecurrenceCustom, []int{3, 1}), "Mon, Wed"},
		{NewRecurrence(RecurrenceCustom, []int{0, 6}), "Sun, Sat"},
		{CustomDays{}, "Custom schedule"},
	}

	for _, tt := range tests {
		if got := ScheduleDisplay(tt.rule); got != tt.want {
			t.Errorf("ScheduleDisplay(%T) = %q, want %q", tt.rule, got, tt.want)
		}
	}
}

func TestHabit_SetRecurrence(t *testing.T) {
	h := &Habit{}
	h.SetRecurrence(NewRecurrence(RecurrenceCustom, []int{2}))
	if h.RecurrenceType != RecurrenceCustom || h.CustomDays == nil {
		t.Fatalf("SetRecurrence(custom) = %q %v", h.RecurrenceType, h.CustomDays)
	}

	h.SetRecurrence(Weekends{})
	if h.RecurrenceType != RecurrenceWeekends || h.CustomDays != nil {
		t.Errorf("SetRecurrence(weekends) left custom days %v", h.CustomDays)
	}
	if !h.IsScheduledOn(time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)) {
		t.Error("weekend habit should be scheduled on a Saturday")
	}
}
